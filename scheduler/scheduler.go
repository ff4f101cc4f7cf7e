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
	"fmt"
	"reflect"
	"sync"
	"time"

	goset "github.com/deckarep/golang-set/v2"
	"github.com/reugn/go-quartz/job"
	quartzlogger "github.com/reugn/go-quartz/logger"
	"github.com/reugn/go-quartz/quartz"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.uber.org/atomic"

	gerrors "github.com/tochemey/rhizome/errors"
	"github.com/tochemey/rhizome/internal/metric"
	"github.com/tochemey/rhizome/log"
)

const initialRunSuffix = ":initial"

// Option configures the Scheduler
type Option func(*Scheduler)

// WithLogger sets the scheduler logger
func WithLogger(logger log.Logger) Option {
	return func(s *Scheduler) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithDependencies supplies the instances tasks can depend on.
// Each instance is matched to the tasks declaring a dependency of the same type.
func WithDependencies(deps ...Dependencies) Option {
	return func(s *Scheduler) {
		for _, dep := range deps {
			if dep != nil {
				s.dependencies[reflect.TypeOf(dep)] = dep
			}
		}
	}
}

// WithMeterProvider sets the meter provider recording the task runs
func WithMeterProvider(provider otelmetric.MeterProvider) Option {
	return func(s *Scheduler) {
		s.meterProvider = provider
	}
}

// Scheduler runs tasks locally on a fixed rate or once.
// Tasks can be registered before or after the scheduler has started.
type Scheduler struct {
	// helps lock concurrent access
	mu sync.Mutex

	quartzScheduler quartz.Scheduler
	// states whether the scheduler has started or not
	started *atomic.Bool
	logger  log.Logger

	tasks        []Task
	names        goset.Set[string]
	dependencies map[reflect.Type]Dependencies

	meterProvider otelmetric.MeterProvider
	metric        *metric.TaskMetric
}

// NewScheduler creates an instance of Scheduler
func NewScheduler(opts ...Option) (*Scheduler, error) {
	// create an instance of quartz scheduler with logger off
	quartzScheduler, err := quartz.NewStdScheduler(quartz.WithLogger(quartzlogger.NewSimpleLogger(nil, quartzlogger.LevelOff)))
	if err != nil {
		return nil, fmt.Errorf("failed to create the task scheduler: %w", err)
	}

	scheduler := &Scheduler{
		quartzScheduler: quartzScheduler,
		started:         atomic.NewBool(false),
		logger:          log.DefaultLogger,
		names:           goset.NewThreadUnsafeSet[string](),
		dependencies: map[reflect.Type]Dependencies{
			reflect.TypeOf(NoOpDependencies{}): NoOpDependencies{},
		},
	}

	for _, opt := range opts {
		opt(scheduler)
	}

	taskMetric, err := metric.NewTaskMetric(metric.New(metric.WithMeterProvider(scheduler.meterProvider)).Meter())
	if err != nil {
		return nil, err
	}
	scheduler.metric = taskMetric
	return scheduler, nil
}

// Register adds a task to the scheduler. When the scheduler is running the task is
// scheduled right away, otherwise it is scheduled on Start.
func (x *Scheduler) Register(task Task) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	if err := task.Validate(); err != nil {
		return err
	}

	if x.names.Contains(task.Name) {
		return fmt.Errorf("%w: %s", gerrors.ErrTaskExists, task.Name)
	}

	if _, err := x.resolve(task); err != nil {
		return err
	}

	if x.started.Load() {
		if err := x.schedule(task); err != nil {
			return err
		}
	}

	x.names.Add(task.Name)
	x.tasks = append(x.tasks, task)
	x.logger.Debugf("task %s registered (delay=%d, period=%d %s)", task.Name, task.InitialDelay, task.Period, task.TimeUnit)
	return nil
}

// Tasks returns the registered tasks in registration order
func (x *Scheduler) Tasks() []Task {
	x.mu.Lock()
	defer x.mu.Unlock()
	return append([]Task(nil), x.tasks...)
}

// Start starts the scheduler and schedules the registered tasks
func (x *Scheduler) Start(ctx context.Context) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	if x.started.Load() {
		return nil
	}

	x.logger.Info("starting task scheduler...")
	x.quartzScheduler.Start(ctx)
	x.started.Store(x.quartzScheduler.IsStarted())

	for _, task := range x.tasks {
		if err := x.schedule(task); err != nil {
			x.logger.Errorf("failed to schedule task %s: %v", task.Name, err)
			_ = x.quartzScheduler.Clear()
			x.quartzScheduler.Stop()
			x.started.Store(false)
			return err
		}
	}

	x.logger.Infof("task scheduler started with %d task(s)", len(x.tasks))
	return nil
}

// Stop stops the scheduler and waits for the running tasks to return
func (x *Scheduler) Stop(ctx context.Context) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	if !x.started.Load() {
		return gerrors.ErrSchedulerNotStarted
	}

	x.logger.Info("stopping task scheduler...")

	_ = x.quartzScheduler.Clear()
	x.quartzScheduler.Stop()
	x.started.Store(x.quartzScheduler.IsStarted())

	// wait for all workers to exit
	x.quartzScheduler.Wait(ctx)

	x.logger.Info("task scheduler stopped")
	return nil
}

// IsRunning reports whether the scheduler has started
func (x *Scheduler) IsRunning() bool {
	return x.started.Load()
}

// resolve returns the registered instance matching the task dependencies type
func (x *Scheduler) resolve(task Task) (Dependencies, error) {
	if task.Dependencies == nil {
		return nil, nil
	}

	dep, ok := x.dependencies[reflect.TypeOf(task.Dependencies)]
	if !ok {
		return nil, fmt.Errorf("%w: task %s needs %T", gerrors.ErrUnresolvedDependencies, task.Name, task.Dependencies)
	}
	return dep, nil
}

// schedule hands the task to the quartz scheduler. It must be called with the lock held.
func (x *Scheduler) schedule(task Task) error {
	deps, err := x.resolve(task)
	if err != nil {
		return err
	}

	delay := task.delay()
	period := task.period()

	switch {
	case period == 0:
		return x.scheduleJob(task.Name, x.newJob(task, deps, nil), quartz.NewRunOnceTrigger(delay))
	case delay == period:
		return x.scheduleJob(task.Name, x.newJob(task, deps, nil), quartz.NewSimpleTrigger(period))
	default:
		// the first run fires after the delay and installs the fixed-rate trigger before the action runs
		next := func() {
			if !x.started.Load() {
				return
			}
			if err := x.scheduleJob(task.Name, x.newJob(task, deps, nil), quartz.NewSimpleTrigger(period)); err != nil {
				x.logger.Errorf("failed to schedule task %s: %v", task.Name, err)
			}
		}
		return x.scheduleJob(task.Name+initialRunSuffix, x.newJob(task, deps, next), quartz.NewRunOnceTrigger(delay))
	}
}

func (x *Scheduler) scheduleJob(key string, fn quartz.Job, trigger quartz.Trigger) error {
	detail := quartz.NewJobDetail(fn, quartz.NewJobKey(key))
	return x.quartzScheduler.ScheduleJob(detail, trigger)
}

// newJob wraps the task action. before, when set, runs ahead of the action.
func (x *Scheduler) newJob(task Task, deps Dependencies, before func()) quartz.Job {
	return job.NewFunctionJob[bool](
		func(ctx context.Context) (bool, error) {
			if before != nil {
				before()
			}

			start := time.Now()
			err := x.run(ctx, task, deps)
			x.metric.Record(ctx, task.Name, time.Since(start), err)
			if err != nil {
				x.logger.Errorf("task %s failed: %v", task.Name, err)
			}
			return err == nil, err
		},
	)
}

// run executes the action, turning a panic into an error
func (x *Scheduler) run(ctx context.Context, task Task, deps Dependencies) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("task %s panicked: %v", task.Name, r)
		}
	}()
	return task.Action(ctx, deps)
}
