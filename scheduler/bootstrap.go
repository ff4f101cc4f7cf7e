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

package scheduler

import (
	"context"
)

// NoOpTaskName is the name of the placeholder task
const NoOpTaskName = "_rhizome:no-op"

// NoOpDependencies is the empty set of dependencies of the placeholder task
type NoOpDependencies struct{}

// NoOpTask returns the placeholder task. It guarantees the scheduler always holds
// at least one task. It runs once, immediately, and does nothing.
func NoOpTask() Task {
	return Task{
		Name:         NoOpTaskName,
		InitialDelay: 0,
		Period:       0,
		TimeUnit:     Milliseconds,
		Dependencies: NoOpDependencies{},
		Action:       func(context.Context, Dependencies) error { return nil },
	}
}

// RegisterBootstrapTasks registers the tasks every scheduler carries
func RegisterBootstrapTasks(s *Scheduler) error {
	return s.Register(NoOpTask())
}
