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
	"bytes"
	"fmt"
	"maps"
	"strconv"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Properties holds the opaque connection pool options.
// Values are kept as text; the pool translates the ones it understands.
type Properties map[string]string

// UnmarshalJSON accepts scalar values of any type and keeps their text form
func (p *Properties) UnmarshalJSON(data []byte) error {
	raw := make(map[string]any)
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()
	if err := decoder.Decode(&raw); err != nil {
		return err
	}
	return p.fromMap(raw)
}

// UnmarshalYAML accepts scalar values of any type and keeps their text form
func (p *Properties) UnmarshalYAML(value *yaml.Node) error {
	raw := make(map[string]any)
	if err := value.Decode(&raw); err != nil {
		return err
	}
	return p.fromMap(raw)
}

func (p *Properties) fromMap(raw map[string]any) error {
	props := make(Properties, len(raw))
	for key, value := range raw {
		switch v := value.(type) {
		case nil:
			props[key] = ""
		case map[string]any, []any:
			return fmt.Errorf("pool option %s must be a scalar value", key)
		case json.Number:
			props[key] = numberText(v)
		case float64:
			props[key] = strconv.FormatFloat(v, 'f', -1, 64)
		default:
			props[key] = fmt.Sprint(v)
		}
	}
	*p = props
	return nil
}

// numberText keeps integers verbatim and writes other numbers without an exponent
func numberText(number json.Number) string {
	if _, err := number.Int64(); err == nil {
		return number.String()
	}
	if value, err := number.Float64(); err == nil {
		return strconv.FormatFloat(value, 'f', -1, 64)
	}
	return number.String()
}

// Configuration holds the Postgres connection settings
type Configuration struct {
	// PoolOptions are the connection pool options
	PoolOptions Properties `json:"hikari" yaml:"hikari" mapstructure:"hikari"`
	// UsingCitus states whether the database is a sharded Citus cluster
	UsingCitus bool `json:"citus" yaml:"citus" mapstructure:"citus"`
	// InitializeIndices states whether indexes are created at startup
	InitializeIndices bool `json:"initialize-indices" yaml:"initialize-indices" mapstructure:"initialize-indices"`
	// InitializeTables states whether tables are created at startup
	InitializeTables bool `json:"initialize-tables" yaml:"initialize-tables" mapstructure:"initialize-tables"`
}

// Option configures a Configuration
type Option func(*Configuration)

// WithCitus marks the database as a sharded Citus cluster
func WithCitus(enabled bool) Option {
	return func(c *Configuration) {
		c.UsingCitus = enabled
	}
}

// WithInitializeIndices toggles index creation at startup
func WithInitializeIndices(enabled bool) Option {
	return func(c *Configuration) {
		c.InitializeIndices = enabled
	}
}

// WithInitializeTables toggles table creation at startup
func WithInitializeTables(enabled bool) Option {
	return func(c *Configuration) {
		c.InitializeTables = enabled
	}
}

// NewConfiguration creates a Configuration from the given pool options.
// Unless overridden, Citus is off and both tables and indexes are initialized.
func NewConfiguration(pool Properties, opts ...Option) Configuration {
	config := Configuration{
		PoolOptions:       maps.Clone(pool),
		UsingCitus:        false,
		InitializeIndices: true,
		InitializeTables:  true,
	}

	for _, opt := range opts {
		opt(&config)
	}
	return config
}

// configuration has no methods so decoding into it does not recurse
type configuration Configuration

// UnmarshalJSON decodes the configuration, applying the defaults of the absent keys
func (c *Configuration) UnmarshalJSON(data []byte) error {
	decoded := configuration(NewConfiguration(nil))
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	*c = Configuration(decoded)
	return nil
}

// UnmarshalYAML decodes the configuration, applying the defaults of the absent keys
func (c *Configuration) UnmarshalYAML(value *yaml.Node) error {
	decoded := configuration(NewConfiguration(nil))
	if err := value.Decode(&decoded); err != nil {
		return err
	}
	*c = Configuration(decoded)
	return nil
}

// Equal reports whether both configurations hold the same values
func (c Configuration) Equal(other Configuration) bool {
	return c.UsingCitus == other.UsingCitus &&
		c.InitializeIndices == other.InitializeIndices &&
		c.InitializeTables == other.InitializeTables &&
		maps.Equal(c.PoolOptions, other.PoolOptions)
}
