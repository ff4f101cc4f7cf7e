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


package auth

import (
	"fmt"
	"strings"

	gerrors "github.com/tochemey/rhizome/errors"
	"github.com/tochemey/rhizome/internal/validation"
)

const tokenPath = "/oauth/token"

// Configuration holds the Auth0 machine-to-machine credentials used to obtain
// management API tokens.
type Configuration struct {
	// Domain is the Auth0 tenant domain, for instance tenant.eu.auth0.com.
	// A scheme may be given; https is assumed otherwise
	Domain string `json:"domain" yaml:"domain" mapstructure:"domain"`
	// ClientID is the application client id
	ClientID string `json:"client-id" yaml:"client-id" mapstructure:"client-id"`
	// ClientSecret is the application client secret
	ClientSecret string `json:"client-secret" yaml:"client-secret" mapstructure:"client-secret"`
	// ManagementAPIURL is the audience of the requested tokens
	ManagementAPIURL string `json:"management-api-url" yaml:"management-api-url" mapstructure:"management-api-url"`
}

var _ validation.Validator = (*Configuration)(nil)

// Validate checks that every credential is set
func (c *Configuration) Validate() error {
	err := validation.New(validation.FailFast()).
		AddValidator(validation.NewEmptyStringValidator("domain", c.Domain)).
		AddValidator(validation.NewEmptyStringValidator("client-id", c.ClientID)).
		AddValidator(validation.NewEmptyStringValidator("client-secret", c.ClientSecret)).
		AddValidator(validation.NewEmptyStringValidator("management-api-url", c.ManagementAPIURL)).
		Validate()
	if err != nil {
		return fmt.Errorf("%w: %w", gerrors.ErrInvalidAuthConfiguration, err)
	}
	return nil
}

// TokenURL returns the token endpoint of the tenant
func (c *Configuration) TokenURL() string {
	domain := strings.TrimSuffix(strings.TrimSpace(c.Domain), "/")
	if !strings.Contains(domain, "://") {
		domain = "https://" + domain
	}
	return domain + tokenPath
}
