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

package bootstrap

import (
	otelmetric "go.opentelemetry.io/otel/metric"

	"github.com/tochemey/rhizome/auth"
	"github.com/tochemey/rhizome/grid"
	"github.com/tochemey/rhizome/log"
	"github.com/tochemey/rhizome/postgres"
	"github.com/tochemey/rhizome/scheduler"
)

// Option configures the Runtime
type Option func(*Runtime)

// WithLogger sets the runtime logger. It defaults to a zap logger writing to stdout
// at the configured level.
func WithLogger(logger log.Logger) Option {
	return func(r *Runtime) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithTables sets the tables initialized when Postgres is configured
func WithTables(tables ...*postgres.TableDefinition) Option {
	return func(r *Runtime) {
		r.tables = append(r.tables, tables...)
	}
}

// WithTasks adds tasks to the runtime scheduler
func WithTasks(tasks ...scheduler.Task) Option {
	return func(r *Runtime) {
		r.tasks = append(r.tasks, tasks...)
	}
}

// WithDependencies supplies the instances the tasks depend on.
// The client provider, the Postgres pool and the token provider are supplied when configured.
func WithDependencies(deps ...scheduler.Dependencies) Option {
	return func(r *Runtime) {
		r.dependencies = append(r.dependencies, deps...)
	}
}

// WithProviderOptions sets extra options of the data grid client provider
func WithProviderOptions(opts ...grid.ProviderOption) Option {
	return func(r *Runtime) {
		r.providerOptions = append(r.providerOptions, opts...)
	}
}

// WithAuthOptions sets extra options of the management API token provider
func WithAuthOptions(opts ...auth.Option) Option {
	return func(r *Runtime) {
		r.authOptions = append(r.authOptions, opts...)
	}
}

// WithMeterProvider sets the meter provider of the task metrics
func WithMeterProvider(provider otelmetric.MeterProvider) Option {
	return func(r *Runtime) {
		r.meterProvider = provider
	}
}
