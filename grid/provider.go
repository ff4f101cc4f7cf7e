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

package grid

import (
	"context"
	"errors"
	"fmt"
	golog "log"
	"slices"
	"sync"

	"github.com/tochemey/olric"
	oconfig "github.com/tochemey/olric/config"
	"go.uber.org/atomic"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	gerrors "github.com/tochemey/rhizome/errors"
	"github.com/tochemey/rhizome/hash"
	"github.com/tochemey/rhizome/log"
)

// connectSpec carries everything needed to open one cluster client
type connectSpec struct {
	name      string
	addresses []string
	config    *oconfig.Client
	logger    *golog.Logger
	hasher    hash.Hasher
}

// dialer opens a cluster client. It blocks until the cluster routing table has been fetched.
type dialer func(spec *connectSpec) (olric.Client, error)

// dialCluster is the default dialer
func dialCluster(spec *connectSpec) (olric.Client, error) {
	client, err := olric.NewClusterClient(spec.addresses,
		olric.WithConfig(spec.config),
		olric.WithLogger(spec.logger),
		olric.WithHasher(&hasherWrapper{spec.hasher}))
	if err != nil {
		return nil, err
	}
	return client, nil
}

type providerConfig struct {
	logger log.Logger
	hasher hash.Hasher
	dial   dialer
}

func defaultProviderConfig() *providerConfig {
	return &providerConfig{
		logger: log.DefaultLogger,
		hasher: hash.DefaultHasher(),
		dial:   dialCluster,
	}
}

// ProviderOption configures the ClientProvider
type ProviderOption func(*providerConfig)

// WithLogger sets the logger used by the provider and by the grid clients
func WithLogger(logger log.Logger) ProviderOption {
	return func(cfg *providerConfig) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// WithHasher sets the partition hasher. It must match the one of the cluster members.
func WithHasher(hasher hash.Hasher) ProviderOption {
	return func(cfg *providerConfig) {
		if hasher != nil {
			cfg.hasher = hasher
		}
	}
}

// withDialer overrides the function opening the cluster clients
func withDialer(dial dialer) ProviderOption {
	return func(cfg *providerConfig) {
		if dial != nil {
			cfg.dial = dial
		}
	}
}

// ClientProvider holds one live data grid client per configured cluster.
// The set of clients is fixed at construction; lookups are safe for concurrent use.
type ClientProvider struct {
	clients map[string]*Client
	names   []string
	logger  log.Logger
	closed  *atomic.Bool
}

// NewClientProvider connects to every cluster of the clients map, keyed by logical name.
//
// It fails with errors.ErrServerConfiguration before any connection attempt when a
// descriptor is marked as server-mode, and with errors.ErrInvalidClusterConfiguration
// when a descriptor is malformed. Connections are then opened one at a time in name
// order. A connection failure is returned unchanged after the clients already opened
// have been closed, so a provider is either fully connected or not built at all.
func NewClientProvider(ctx context.Context, clients map[string]*ClusterConfiguration, serialization *SerializationConfig, opts ...ProviderOption) (*ClientProvider, error) {
	config := defaultProviderConfig()
	for _, opt := range opts {
		opt(config)
	}

	serializer, err := serialization.Serializer()
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(clients))
	for name := range clients {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		if descriptor := clients[name]; descriptor != nil && descriptor.Server {
			return nil, fmt.Errorf("%w: %s", gerrors.ErrServerConfiguration, name)
		}
	}

	for _, name := range names {
		if clients[name] == nil {
			return nil, fmt.Errorf("%w: %s is not defined", gerrors.ErrInvalidClusterConfiguration, name)
		}
	}

	specs := make([]*connectSpec, 0, len(names))
	for _, name := range names {
		descriptor := clients[name]
		if err := descriptor.Validate(); err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}

		clientConfig, err := descriptor.clientConfig()
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", gerrors.ErrInvalidClusterConfiguration, name, err)
		}

		specs = append(specs, &connectSpec{
			name:      name,
			addresses: slices.Clone(descriptor.Instances),
			config:    clientConfig,
			logger:    golog.New(newLogWriter(config.logger.With("client", name)), "", golog.LstdFlags),
			hasher:    config.hasher,
		})
	}

	provider := &ClientProvider{
		clients: make(map[string]*Client, len(specs)),
		names:   names,
		logger:  config.logger,
		closed:  atomic.NewBool(false),
	}

	for _, spec := range specs {
		if err := ctx.Err(); err != nil {
			return nil, errors.Join(err, provider.rollback(ctx))
		}

		provider.logger.Infof("connecting to data grid cluster %s at %v", spec.name, spec.addresses)
		client, err := config.dial(spec)
		if err != nil {
			provider.logger.Errorf("failed to connect to data grid cluster %s: %v", spec.name, err)
			if rerr := provider.rollback(ctx); rerr != nil {
				return nil, errors.Join(err, rerr)
			}
			return nil, err
		}

		provider.clients[spec.name] = &Client{
			Client:     client,
			name:       spec.name,
			group:      clients[spec.name].Group,
			password:   clients[spec.name].Password,
			serializer: serializer,
		}
		provider.logger.Infof("connected to data grid cluster %s", spec.name)
	}

	return provider, nil
}

// Client returns the live client configured under name.
// It returns errors.ErrClientNotFound when name was not part of the configuration.
func (x *ClientProvider) Client(name string) (*Client, error) {
	if x.closed.Load() {
		return nil, gerrors.ErrClientProviderClosed
	}

	client, ok := x.clients[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", gerrors.ErrClientNotFound, name)
	}
	return client, nil
}

// Names returns the configured logical names in sorted order
func (x *ClientProvider) Names() []string {
	return slices.Clone(x.names)
}

// Close closes every client. Subsequent calls are no-ops.
func (x *ClientProvider) Close(ctx context.Context) error {
	if !x.closed.CompareAndSwap(false, true) {
		return nil
	}
	return x.closeAll(ctx)
}

// rollback closes the clients opened by a construction that failed
func (x *ClientProvider) rollback(ctx context.Context) error {
	if len(x.clients) == 0 {
		return nil
	}
	x.logger.Warnf("closing %d data grid client(s) opened before the failure", len(x.clients))
	return x.closeAll(context.WithoutCancel(ctx))
}

func (x *ClientProvider) closeAll(ctx context.Context) error {
	var (
		mu   sync.Mutex
		errs error
	)

	eg, ctx := errgroup.WithContext(ctx)
	for name, client := range x.clients {
		eg.Go(func() error {
			if err := client.Close(ctx); err != nil {
				mu.Lock()
				errs = multierr.Append(errs, fmt.Errorf("failed to close client %s: %w", name, err))
				mu.Unlock()
			}
			return nil
		})
	}

	_ = eg.Wait()
	return errs
}
