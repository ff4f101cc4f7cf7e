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

package metric

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const taskNameKey = "task.name"

// TaskMetric defines the scheduled task instrumentation
type TaskMetric struct {
	// Specifies the total number of task runs
	executions metric.Int64Counter
	// Specifies the total number of failed task runs
	failures metric.Int64Counter
	// Specifies the task run duration, in milliseconds
	duration metric.Float64Histogram
}

// NewTaskMetric creates an instance of TaskMetric
func NewTaskMetric(meter metric.Meter) (*TaskMetric, error) {
	taskMetric := new(TaskMetric)
	var err error

	if taskMetric.executions, err = meter.Int64Counter(
		"task_execution_count",
		metric.WithDescription("Total number of task runs"),
	); err != nil {
		return nil, fmt.Errorf("failed to create executions instrument, %w", err)
	}

	if taskMetric.failures, err = meter.Int64Counter(
		"task_failure_count",
		metric.WithDescription("Total number of failed task runs"),
	); err != nil {
		return nil, fmt.Errorf("failed to create failures instrument, %w", err)
	}

	if taskMetric.duration, err = meter.Float64Histogram(
		"task_duration",
		metric.WithDescription("Duration of a task run"),
		metric.WithUnit("ms"),
	); err != nil {
		return nil, fmt.Errorf("failed to create duration instrument, %w", err)
	}

	return taskMetric, nil
}

// Executions returns the executions counter
func (x *TaskMetric) Executions() metric.Int64Counter {
	return x.executions
}

// Failures returns the failures counter
func (x *TaskMetric) Failures() metric.Int64Counter {
	return x.failures
}

// Duration returns the duration histogram
func (x *TaskMetric) Duration() metric.Float64Histogram {
	return x.duration
}

// Record records one run of the named task
func (x *TaskMetric) Record(ctx context.Context, task string, elapsed time.Duration, err error) {
	attrs := metric.WithAttributes(attribute.String(taskNameKey, task))
	x.executions.Add(ctx, 1, attrs)
	x.duration.Record(ctx, float64(elapsed)/float64(time.Millisecond), attrs)
	if err != nil {
		x.failures.Add(ctx, 1, attrs)
	}
}
