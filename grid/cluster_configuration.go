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
	"fmt"
	"time"

	oconfig "github.com/tochemey/olric/config"

	gerrors "github.com/tochemey/rhizome/errors"
	"github.com/tochemey/rhizome/internal/validation"
)

// ClusterConfiguration describes how to reach one data grid cluster.
// Only client-mode descriptors (Server false) are accepted by the ClientProvider.
type ClusterConfiguration struct {
	// Instances lists the host:port endpoints of the cluster members
	Instances []string `json:"instances" yaml:"instances" mapstructure:"instances"`
	// Group names the cluster group. Maps opened through a client live under this namespace
	Group string `json:"group" yaml:"group" mapstructure:"group"`
	// Password is the credential of the cluster group. The grid wire protocol has no
	// handshake, so it is carried by the Client for callers that gate access themselves
	Password string `json:"password" yaml:"password" mapstructure:"password"`
	// Server marks the descriptor as a full grid member configuration
	Server bool `json:"server" yaml:"server" mapstructure:"server"`
	// DialTimeout bounds the establishment of new connections. Zero keeps the client default
	DialTimeout time.Duration `json:"dial-timeout" yaml:"dial-timeout" mapstructure:"dial-timeout"`
	// ReadTimeout bounds socket reads. Zero keeps the client default
	ReadTimeout time.Duration `json:"read-timeout" yaml:"read-timeout" mapstructure:"read-timeout"`
	// WriteTimeout bounds socket writes. Zero keeps the client default
	WriteTimeout time.Duration `json:"write-timeout" yaml:"write-timeout" mapstructure:"write-timeout"`
	// PoolSize sets the number of connections kept per member. Zero keeps the client default
	PoolSize int `json:"pool-size" yaml:"pool-size" mapstructure:"pool-size"`
}

var _ validation.Validator = (*ClusterConfiguration)(nil)

// Validate checks the descriptor endpoints and tuning values.
// It does not look at the server flag; the provider reports that case with its own error.
func (c *ClusterConfiguration) Validate() error {
	chain := validation.New(validation.FailFast()).
		AddAssertion(len(c.Instances) > 0, "at least one cluster instance is required")

	for _, instance := range c.Instances {
		chain = chain.AddValidator(validation.NewTCPAddressValidator(instance))
	}

	err := chain.
		AddValidator(validation.NewUniqueValidator("instances", c.Instances)).
		AddAssertion(c.DialTimeout >= 0, "dial-timeout must not be negative").
		AddAssertion(c.ReadTimeout >= 0, "read-timeout must not be negative").
		AddAssertion(c.WriteTimeout >= 0, "write-timeout must not be negative").
		AddAssertion(c.PoolSize >= 0, "pool-size must not be negative").
		Validate()
	if err != nil {
		return fmt.Errorf("%w: %w", gerrors.ErrInvalidClusterConfiguration, err)
	}
	return nil
}

// clientConfig builds the olric client configuration of the descriptor
func (c *ClusterConfiguration) clientConfig() (*oconfig.Client, error) {
	conf := oconfig.NewClient()
	if c.DialTimeout > 0 {
		conf.DialTimeout = c.DialTimeout
	}

	if c.ReadTimeout > 0 {
		conf.ReadTimeout = c.ReadTimeout
	}

	if c.WriteTimeout > 0 {
		conf.WriteTimeout = c.WriteTimeout
	}

	if c.PoolSize > 0 {
		conf.PoolSize = c.PoolSize
	}

	if err := conf.Sanitize(); err != nil {
		return nil, fmt.Errorf("failed to sanitize client config: %w", err)
	}
	return conf, nil
}
