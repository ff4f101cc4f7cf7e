// MIT License
//
// Copyright (c) 2022-2026 GoAkt Team
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

// Package errors defines the sentinel errors returned by the rhizome packages.
// Callers should match them with errors.Is since most of them are returned wrapped.
package errors

import (
	"errors"
)

var (
	// ErrServerConfiguration is returned when a cluster descriptor handed to the client
	// provider describes a data grid member rather than a client.
	ErrServerConfiguration = errors.New("cannot specify server configuration for clients")

	// ErrInvalidClusterConfiguration is returned when a cluster descriptor is malformed.
	ErrInvalidClusterConfiguration = errors.New("invalid cluster configuration")

	// ErrClientNotFound is returned when no client has been configured under the requested name.
	ErrClientNotFound = errors.New("client not found")

	// ErrClientProviderClosed is returned when a client is requested after the provider has been closed.
	ErrClientProviderClosed = errors.New("client provider is closed")

	// ErrKeyNotFound is returned when a grid map does not hold the requested key.
	ErrKeyNotFound = errors.New("key not found")

	// ErrUnsupportedSerialization is returned when the serialization format is unknown.
	ErrUnsupportedSerialization = errors.New("unsupported serialization format")

	// ErrInvalidPoolOption is returned when a connection pool option cannot be parsed.
	ErrInvalidPoolOption = errors.New("invalid pool option")

	// ErrMissingConnectionString is returned when the pool options do not name the database to connect to.
	ErrMissingConnectionString = errors.New("missing database connection string")

	// ErrUnknownColumn is returned when a query refers to a column the table does not define.
	ErrUnknownColumn = errors.New("table is missing requested columns")

	// ErrInvalidTableDefinition is returned when a table definition cannot produce valid SQL.
	ErrInvalidTableDefinition = errors.New("invalid table definition")

	// ErrTaskNameRequired is returned when registering a task without a name.
	ErrTaskNameRequired = errors.New("task name is required")

	// ErrTaskExists is returned when registering two tasks with the same name.
	ErrTaskExists = errors.New("task already registered")

	// ErrInvalidTaskSchedule is returned when a task has a negative delay or period, or an unknown time unit.
	ErrInvalidTaskSchedule = errors.New("invalid task schedule")

	// ErrUnresolvedDependencies is returned when a task declares dependencies that were never supplied.
	ErrUnresolvedDependencies = errors.New("task dependencies are not registered")

	// ErrSchedulerNotStarted is returned when attempting to use the scheduler before it has started.
	ErrSchedulerNotStarted = errors.New("scheduler has not started")

	// ErrConfigurationRequired is returned when a runtime is created without configuration.
	ErrConfigurationRequired = errors.New("configuration is required")

	// ErrInvalidAuthConfiguration is returned when the Auth0 credentials are incomplete.
	ErrInvalidAuthConfiguration = errors.New("invalid auth configuration")

	// ErrRuntimeNotStarted is returned when stopping a runtime that never started.
	ErrRuntimeNotStarted = errors.New("runtime has not started")
)
