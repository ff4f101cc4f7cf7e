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

package config

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/tochemey/rhizome/auth"
	"github.com/tochemey/rhizome/grid"
	"github.com/tochemey/rhizome/internal/validation"
	"github.com/tochemey/rhizome/log"
	"github.com/tochemey/rhizome/postgres"
)

const (
	// EnvPrefix is the prefix of the environment variables overriding the configuration file
	EnvPrefix = "RHIZOME"

	// keyDelimiter separates nested keys. Pool options such as dataSource.user contain dots.
	keyDelimiter = "::"

	logLevelKey        = "log-level"
	clientsKey         = "hazelcast-clients"
	serializationKey   = "serialization"
	formatKey          = serializationKey + keyDelimiter + "format"
	postgresKey        = "postgres"
	shutdownTimeoutKey = "shutdown-timeout"

	defaultShutdownTimeout = 30 * time.Second
)

// Config is the application configuration
type Config struct {
	// LogLevel is one of debug, info, warn, error, fatal or panic
	LogLevel string `mapstructure:"log-level"`
	// Clients maps logical names to the data grid clusters to connect to.
	// Names are lower-cased by the loader
	Clients map[string]*grid.ClusterConfiguration `mapstructure:"hazelcast-clients"`
	// Serialization is shared by every data grid client
	Serialization *grid.SerializationConfig `mapstructure:"serialization"`
	// Postgres is nil when the configuration has no postgres section
	Postgres *postgres.Configuration `mapstructure:"-"`
	// Auth0 is nil when no management API token is needed
	Auth0 *auth.Configuration `mapstructure:"auth0"`
	// ShutdownTimeout bounds the graceful shutdown
	ShutdownTimeout time.Duration `mapstructure:"shutdown-timeout"`
}

// Load reads the configuration file at path. YAML and JSON are supported.
// Environment variables prefixed by RHIZOME_ override the top-level values.
func Load(path string) (*Config, error) {
	v := viper.NewWithOptions(viper.KeyDelimiter(keyDelimiter))
	v.SetConfigFile(path)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(keyDelimiter, "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault(logLevelKey, log.InfoLevel.String())
	v.SetDefault(formatKey, grid.JSONFormat)
	v.SetDefault(shutdownTimeoutKey, defaultShutdownTimeout)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read configuration file %s: %w", path, err)
	}

	config := new(Config)
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to decode configuration file %s: %w", path, err)
	}

	if v.IsSet(postgresKey) {
		pg := postgres.NewConfiguration(nil)
		if err := v.UnmarshalKey(postgresKey, &pg); err != nil {
			return nil, fmt.Errorf("failed to decode the postgres configuration: %w", err)
		}
		config.Postgres = &pg
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks the configuration values
func (c *Config) Validate() error {
	_, levelErr := log.ParseLevel(c.LogLevel)
	_, serializerErr := c.Serialization.Serializer()

	chain := validation.New(validation.AllErrors()).
		AddAssertion(levelErr == nil, fmt.Sprintf("invalid log-level %q", c.LogLevel)).
		AddAssertion(serializerErr == nil, fmt.Sprintf("invalid serialization: %v", serializerErr)).
		AddAssertion(c.ShutdownTimeout > 0, "shutdown-timeout must be positive")

	for _, name := range sortedNames(c.Clients) {
		chain = chain.AddValidator(validation.NewEmptyStringValidator("client name", name))
		if descriptor := c.Clients[name]; descriptor != nil {
			chain = chain.AddValidator(namedValidator{name: name, validator: descriptor})
		}
	}

	if c.Auth0 != nil {
		chain = chain.AddValidator(namedValidator{name: "auth0", validator: c.Auth0})
	}

	if err := chain.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// Level returns the parsed log level
func (c *Config) Level() log.Level {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return level
}

// namedValidator prefixes the validation errors with the entry name
type namedValidator struct {
	name      string
	validator validation.Validator
}

func (n namedValidator) Validate() error {
	if err := n.validator.Validate(); err != nil {
		return fmt.Errorf("%s: %w", n.name, err)
	}
	return nil
}

func sortedNames(clients map[string]*grid.ClusterConfiguration) []string {
	return slices.Sorted(maps.Keys(clients))
}
