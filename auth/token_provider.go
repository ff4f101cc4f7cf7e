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
	"context"
	"net/http"
	"net/url"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/tochemey/rhizome/log"
)

// DefaultRetryInterval is how long a failed token request is remembered before the next attempt
const DefaultRetryInterval = 30 * time.Second

// tokenSource requests a new token from the authorization server
type tokenSource func(ctx context.Context) (*oauth2.Token, error)

// cachedToken is the memoized outcome of the last token request.
// A zero refreshAt means the token never expires.
type cachedToken struct {
	value     string
	refreshAt time.Time
}

// TokenProvider hands out Auth0 management API tokens.
//
// A token is kept for half of its lifetime and then requested again. A failed request
// yields an empty token that is kept for the retry interval.
type TokenProvider struct {
	mu sync.Mutex

	managementAPIURL string
	source           tokenSource
	logger           log.Logger
	retryInterval    time.Duration
	httpClient       *http.Client
	now              func() time.Time

	current *cachedToken
}

// Option configures the TokenProvider
type Option func(*TokenProvider)

// WithLogger sets the logger. It defaults to log.DefaultLogger
func WithLogger(logger log.Logger) Option {
	return func(p *TokenProvider) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithRetryInterval sets how long a failed request is remembered
func WithRetryInterval(interval time.Duration) Option {
	return func(p *TokenProvider) {
		if interval > 0 {
			p.retryInterval = interval
		}
	}
}

// WithHTTPClient sets the HTTP client used to reach the token endpoint
func WithHTTPClient(client *http.Client) Option {
	return func(p *TokenProvider) {
		p.httpClient = client
	}
}

func withClock(now func() time.Time) Option {
	return func(p *TokenProvider) {
		p.now = now
	}
}

// NewTokenProvider validates the credentials and requests the first token right away.
// A failure of that first request is logged and retried later; only invalid credentials
// make the constructor fail.
func NewTokenProvider(ctx context.Context, config *Configuration, opts ...Option) (*TokenProvider, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	credentials := &clientcredentials.Config{
		ClientID:       config.ClientID,
		ClientSecret:   config.ClientSecret,
		TokenURL:       config.TokenURL(),
		EndpointParams: url.Values{"audience": {config.ManagementAPIURL}},
		AuthStyle:      oauth2.AuthStyleInParams,
	}

	provider := &TokenProvider{
		managementAPIURL: config.ManagementAPIURL,
		logger:           log.DefaultLogger,
		retryInterval:    DefaultRetryInterval,
		now:              time.Now,
	}

	for _, opt := range opts {
		opt(provider)
	}

	provider.source = func(ctx context.Context) (*oauth2.Token, error) {
		if provider.httpClient != nil {
			ctx = context.WithValue(ctx, oauth2.HTTPClient, provider.httpClient)
		}
		return credentials.Token(ctx)
	}

	provider.Token(ctx)
	return provider, nil
}

// ManagementAPIURL returns the audience of the tokens
func (p *TokenProvider) ManagementAPIURL() string {
	return p.managementAPIURL
}

// Token returns the current access token, requesting a new one when the memoized
// one is due. The token is empty while the authorization server cannot be reached.
func (p *TokenProvider) Token(ctx context.Context) string {
	p.mu.Lock()
	defer p.mu.Unlock()

	if current := p.current; current != nil {
		if current.refreshAt.IsZero() || p.now().Before(current.refreshAt) {
			return current.value
		}
	}

	p.current = p.request(ctx)
	return p.current.value
}

// request asks the authorization server for a new token. It must be called with the lock held.
func (p *TokenProvider) request(ctx context.Context) *cachedToken {
	now := p.now()
	token, err := p.source(ctx)
	if err != nil {
		p.logger.Warnf("failed to request a management API token for %s, retrying in %s: %v", p.managementAPIURL, p.retryInterval, err)
		return &cachedToken{refreshAt: now.Add(p.retryInterval)}
	}

	cached := &cachedToken{value: token.AccessToken}
	if !token.Expiry.IsZero() {
		cached.refreshAt = now.Add(token.Expiry.Sub(now) / 2)
	}

	p.logger.Debugf("obtained a management API token for %s", p.managementAPIURL)
	return cached
}
