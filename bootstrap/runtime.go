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
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.uber.org/atomic"
	"golang.org/x/sync/errgroup"

	"github.com/tochemey/rhizome/auth"
	"github.com/tochemey/rhizome/config"
	gerrors "github.com/tochemey/rhizome/errors"
	"github.com/tochemey/rhizome/grid"
	"github.com/tochemey/rhizome/log"
	"github.com/tochemey/rhizome/postgres"
	"github.com/tochemey/rhizome/scheduler"
)

// Runtime wires the data grid clients, the Postgres pool and the task scheduler
// of an application together.
type Runtime struct {
	mu sync.Mutex

	config          *config.Config
	logger          log.Logger
	tables          []*postgres.TableDefinition
	tasks           []scheduler.Task
	dependencies    []scheduler.Dependencies
	providerOptions []grid.ProviderOption
	meterProvider   otelmetric.MeterProvider

	clients   *grid.ClientProvider
	pool      *pgxpool.Pool
	tokens    *auth.TokenProvider
	scheduler *scheduler.Scheduler
	started   *atomic.Bool

	authOptions []auth.Option
}

// New creates a Runtime for the given configuration
func New(cfg *config.Config, opts ...Option) (*Runtime, error) {
	if cfg == nil {
		return nil, gerrors.ErrConfigurationRequired
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	runtime := &Runtime{
		config:  cfg,
		started: atomic.NewBool(false),
	}

	for _, opt := range opts {
		opt(runtime)
	}

	if runtime.logger == nil {
		runtime.logger = log.NewZap(cfg.Level(), os.Stdout)
	}

	return runtime, nil
}

// Start connects the data grid clients, prepares the database when configured and
// starts the scheduler with the bootstrap tasks and the registered tasks.
// Whatever was started is torn down again when a step fails.
func (r *Runtime) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.started.Load() {
		return nil
	}

	r.logger.Info("starting rhizome runtime...")

	providerOptions := append([]grid.ProviderOption{grid.WithLogger(r.logger)}, r.providerOptions...)
	clients, err := grid.NewClientProvider(ctx, r.config.Clients, r.config.Serialization, providerOptions...)
	if err != nil {
		r.logger.Errorf("failed to connect the data grid clients: %v", err)
		return err
	}
	r.clients = clients

	dependencies := append([]scheduler.Dependencies{clients}, r.dependencies...)

	if r.config.Postgres != nil {
		pool, err := postgres.Connect(ctx, *r.config.Postgres, postgres.WithConnectLogger(r.logger))
		if err != nil {
			return errors.Join(err, r.teardown(ctx))
		}
		r.pool = pool

		if err := postgres.Initialize(ctx, pool, *r.config.Postgres, r.logger, r.tables...); err != nil {
			return errors.Join(fmt.Errorf("failed to initialize the database: %w", err), r.teardown(ctx))
		}
		dependencies = append(dependencies, pool)
	}

	if r.config.Auth0 != nil {
		authOptions := append([]auth.Option{auth.WithLogger(r.logger)}, r.authOptions...)
		tokens, err := auth.NewTokenProvider(ctx, r.config.Auth0, authOptions...)
		if err != nil {
			return errors.Join(err, r.teardown(ctx))
		}
		r.tokens = tokens
		dependencies = append(dependencies, tokens)
	}

	taskScheduler, err := scheduler.NewScheduler(
		scheduler.WithLogger(r.logger),
		scheduler.WithDependencies(dependencies...),
		scheduler.WithMeterProvider(r.meterProvider))
	if err != nil {
		return errors.Join(err, r.teardown(ctx))
	}

	if err := scheduler.RegisterBootstrapTasks(taskScheduler); err != nil {
		return errors.Join(err, r.teardown(ctx))
	}

	for _, task := range r.tasks {
		if err := taskScheduler.Register(task); err != nil {
			return errors.Join(err, r.teardown(ctx))
		}
	}

	// the scheduler outlives the start context
	if err := taskScheduler.Start(context.WithoutCancel(ctx)); err != nil {
		return errors.Join(err, r.teardown(ctx))
	}
	r.scheduler = taskScheduler

	r.started.Store(true)
	r.logger.Infof("rhizome runtime started with %d data grid client(s)", len(clients.Names()))
	return nil
}

// Stop stops the scheduler then releases the database pool and the data grid clients
func (r *Runtime) Stop(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.started.Load() {
		return gerrors.ErrRuntimeNotStarted
	}

	r.logger.Info("stopping rhizome runtime...")
	err := r.teardown(ctx)
	r.started.Store(false)
	if err != nil {
		r.logger.Errorf("rhizome runtime stopped with errors: %v", err)
		return err
	}

	r.logger.Info("rhizome runtime stopped")
	return nil
}

// Clients returns the data grid client provider. It is nil until the runtime has started.
func (r *Runtime) Clients() *grid.ClientProvider {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.clients
}

// Pool returns the Postgres pool. It is nil when Postgres is not configured.
func (r *Runtime) Pool() *pgxpool.Pool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pool
}

// TokenProvider returns the management API token provider. It is nil when Auth0 is not configured.
func (r *Runtime) TokenProvider() *auth.TokenProvider {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.tokens
}

// Scheduler returns the task scheduler. It is nil until the runtime has started.
func (r *Runtime) Scheduler() *scheduler.Scheduler {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.scheduler
}

// teardown releases what has been started so far. It must be called with the lock held.
func (r *Runtime) teardown(ctx context.Context) error {
	var err error
	if r.scheduler != nil {
		if serr := r.scheduler.Stop(ctx); serr != nil && !errors.Is(serr, gerrors.ErrSchedulerNotStarted) {
			err = errors.Join(err, serr)
		}
		r.scheduler = nil
	}

	eg, egCtx := errgroup.WithContext(context.WithoutCancel(ctx))
	if pool := r.pool; pool != nil {
		eg.Go(func() error {
			pool.Close()
			return nil
		})
	}

	if clients := r.clients; clients != nil {
		eg.Go(func() error {
			return clients.Close(egCtx)
		})
	}

	err = errors.Join(err, eg.Wait())
	r.pool = nil
	r.clients = nil
	r.tokens = nil
	return err
}
