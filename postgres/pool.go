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

package postgres

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/flowchartsman/retry"
	"github.com/jackc/pgx/v5/pgxpool"

	gerrors "github.com/tochemey/rhizome/errors"
	"github.com/tochemey/rhizome/log"
)

// pool option keys, compared case-insensitively
const (
	jdbcURLKey           = "jdbcurl"
	urlKey               = "url"
	dsnKey               = "dsn"
	usernameKey          = "username"
	passwordKey          = "password"
	maximumPoolSizeKey   = "maximumpoolsize"
	minimumIdleKey       = "minimumidle"
	maxLifetimeKey       = "maxlifetime"
	idleTimeoutKey       = "idletimeout"
	connectionTimeoutKey = "connectiontimeout"
	healthCheckPeriodKey = "healthcheckperiod"

	dataSourcePrefix     = "datasource."
	serverNameKey        = "datasource.servername"
	portNumberKey        = "datasource.portnumber"
	databaseNameKey      = "datasource.databasename"
	defaultPostgresPort  = "5432"
	jdbcPrefix           = "jdbc:"
	defaultSlowThreshold = 15 * time.Second
)

// ParsePoolConfig translates the pool options into a pgx pool configuration.
//
// The connection string is read from jdbcUrl, url or dsn, or assembled from
// dataSource.serverName, dataSource.portNumber and dataSource.databaseName.
// Durations are expressed in milliseconds. Any other dataSource.* option is sent to
// the server as a runtime parameter. Options the pool does not know are ignored.
func ParsePoolConfig(props Properties) (*pgxpool.Config, error) {
	options := normalize(props)

	connString, err := connectionString(options)
	if err != nil {
		return nil, err
	}

	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("%w: unable to parse the connection string: %w", gerrors.ErrInvalidPoolOption, err)
	}

	if username, ok := options[usernameKey]; ok {
		config.ConnConfig.User = username.value
	}

	if password, ok := options[passwordKey]; ok {
		config.ConnConfig.Password = password.value
	}

	size, hasSize, err := options.int32(maximumPoolSizeKey)
	if err != nil {
		return nil, err
	}

	idle, hasIdle, err := options.int32(minimumIdleKey)
	if err != nil {
		return nil, err
	}

	if hasSize && size < 1 {
		return nil, fmt.Errorf("%w: maximumPoolSize must be at least 1", gerrors.ErrInvalidPoolOption)
	}

	if hasSize && hasIdle && idle > size {
		return nil, fmt.Errorf("%w: minimumIdle=%d exceeds maximumPoolSize=%d", gerrors.ErrInvalidPoolOption, idle, size)
	}

	if hasSize {
		config.MaxConns = size
	}

	if hasIdle {
		config.MinConns = idle
	}

	durations := []struct {
		key    string
		target *time.Duration
	}{
		{maxLifetimeKey, &config.MaxConnLifetime},
		{idleTimeoutKey, &config.MaxConnIdleTime},
		{connectionTimeoutKey, &config.ConnConfig.ConnectTimeout},
		{healthCheckPeriodKey, &config.HealthCheckPeriod},
	}

	for _, duration := range durations {
		value, ok, err := options.millis(duration.key)
		if err != nil {
			return nil, err
		}
		if ok {
			*duration.target = value
		}
	}

	for key, option := range options {
		if !strings.HasPrefix(key, dataSourcePrefix) || isAddressKey(key) {
			continue
		}
		config.ConnConfig.RuntimeParams[option.key[len(dataSourcePrefix):]] = option.value
	}

	return config, nil
}

// IgnoredPoolOptions returns, sorted, the pool options ParsePoolConfig does not translate
func IgnoredPoolOptions(props Properties) []string {
	known := []string{
		jdbcURLKey, urlKey, dsnKey, usernameKey, passwordKey,
		maximumPoolSizeKey, minimumIdleKey, maxLifetimeKey,
		idleTimeoutKey, connectionTimeoutKey, healthCheckPeriodKey,
	}

	var ignored []string
	for key := range props {
		lower := strings.ToLower(key)
		if slices.Contains(known, lower) || strings.HasPrefix(lower, dataSourcePrefix) {
			continue
		}
		ignored = append(ignored, key)
	}
	slices.Sort(ignored)
	return ignored
}

// ConnectOption configures Connect
type ConnectOption func(*connectConfig)

type connectConfig struct {
	logger        log.Logger
	slowThreshold time.Duration
	maxRetries    int
	initialDelay  time.Duration
	maxDelay      time.Duration
}

func defaultConnectConfig() *connectConfig {
	return &connectConfig{
		logger:        log.DefaultLogger,
		slowThreshold: defaultSlowThreshold,
		maxRetries:    5,
		initialDelay:  100 * time.Millisecond,
		maxDelay:      2 * time.Second,
	}
}

// WithConnectLogger sets the logger of the pool and of its slow query tracer
func WithConnectLogger(logger log.Logger) ConnectOption {
	return func(c *connectConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithSlowQueryThreshold sets the duration above which statements are reported.
// It defaults to 15 seconds.
func WithSlowQueryThreshold(threshold time.Duration) ConnectOption {
	return func(c *connectConfig) {
		if threshold > 0 {
			c.slowThreshold = threshold
		}
	}
}

// WithConnectRetry sets how many times the initial ping is attempted and the backoff between attempts
func WithConnectRetry(maxRetries int, initialDelay, maxDelay time.Duration) ConnectOption {
	return func(c *connectConfig) {
		if maxRetries > 0 {
			c.maxRetries = maxRetries
		}
		if initialDelay > 0 {
			c.initialDelay = initialDelay
		}
		if maxDelay > 0 {
			c.maxDelay = maxDelay
		}
	}
}

// Connect opens a connection pool to the configured database and pings it,
// retrying with an exponential backoff until the database answers.
func Connect(ctx context.Context, config Configuration, opts ...ConnectOption) (*pgxpool.Pool, error) {
	cfg := defaultConnectConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	poolConfig, err := ParsePoolConfig(config.PoolOptions)
	if err != nil {
		return nil, err
	}

	if ignored := IgnoredPoolOptions(config.PoolOptions); len(ignored) > 0 {
		cfg.logger.Debugf("ignoring unsupported pool options %v", ignored)
	}

	poolConfig.ConnConfig.Tracer = newSlowQueryTracer(cfg.logger, cfg.slowThreshold)

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create the connection pool: %w", err)
	}

	retrier := retry.NewRetrier(cfg.maxRetries, cfg.initialDelay, cfg.maxDelay)
	if err := retrier.RunContext(ctx, func(ctx context.Context) error {
		return pool.Ping(ctx)
	}); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to reach database %s: %w", poolConfig.ConnConfig.Database, err)
	}

	cfg.logger.Infof("connected to database %s on %s:%d (max connections=%d)",
		poolConfig.ConnConfig.Database,
		poolConfig.ConnConfig.Host,
		poolConfig.ConnConfig.Port,
		poolConfig.MaxConns)
	return pool, nil
}

type option struct {
	key   string
	value string
}

// options indexes the pool options by lower-cased key
type options map[string]option

func normalize(props Properties) options {
	normalized := make(options, len(props))
	for key, value := range props {
		normalized[strings.ToLower(strings.TrimSpace(key))] = option{key: strings.TrimSpace(key), value: strings.TrimSpace(value)}
	}
	return normalized
}

func (o options) int32(key string) (int32, bool, error) {
	opt, ok := o[key]
	if !ok || opt.value == "" {
		return 0, false, nil
	}

	value, err := strconv.ParseInt(opt.value, 10, 32)
	if err != nil || value < 0 {
		return 0, false, fmt.Errorf("%w: %s=%q is not a non-negative integer", gerrors.ErrInvalidPoolOption, opt.key, opt.value)
	}
	return int32(value), true, nil
}

func (o options) millis(key string) (time.Duration, bool, error) {
	opt, ok := o[key]
	if !ok || opt.value == "" {
		return 0, false, nil
	}

	value, err := strconv.ParseInt(opt.value, 10, 64)
	if err != nil || value < 0 {
		return 0, false, fmt.Errorf("%w: %s=%q is not a number of milliseconds", gerrors.ErrInvalidPoolOption, opt.key, opt.value)
	}
	return time.Duration(value) * time.Millisecond, true, nil
}

func connectionString(o options) (string, error) {
	if opt, ok := o[jdbcURLKey]; ok && opt.value != "" {
		return strings.TrimPrefix(opt.value, jdbcPrefix), nil
	}

	for _, key := range []string{urlKey, dsnKey} {
		if opt, ok := o[key]; ok && opt.value != "" {
			return opt.value, nil
		}
	}

	server, ok := o[serverNameKey]
	if !ok || server.value == "" {
		return "", gerrors.ErrMissingConnectionString
	}

	port := defaultPostgresPort
	if opt, ok := o[portNumberKey]; ok && opt.value != "" {
		port = opt.value
	}

	conn := &url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(server.value, port),
	}

	if opt, ok := o[databaseNameKey]; ok {
		conn.Path = "/" + opt.value
	}
	return conn.String(), nil
}

func isAddressKey(key string) bool {
	return key == serverNameKey || key == portNumberKey || key == databaseNameKey
}
