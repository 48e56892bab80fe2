// Package auth acquires and caches OAuth2 bearer tokens for the VTN.
package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/clean-energy-tools/openadr-3-client/internal/metrics"
	"github.com/clean-energy-tools/openadr-3-client/pkg/errs"
)

// DefaultExpiryBuffer is the margin before actual expiry at which a new token is fetched.
const DefaultExpiryBuffer = 30 * time.Second

// Credential is an issued access token as returned by the token endpoint.
type Credential struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
	Scope       string `json:"scope,omitempty"`
}

// Authenticator obtains a fresh credential from the authorization server.
type Authenticator interface {
	Authenticate(ctx context.Context) (Credential, error)
}

// AuthenticatorFunc adapts a function to Authenticator.
type AuthenticatorFunc func(ctx context.Context) (Credential, error)

// Authenticate calls f.
func (f AuthenticatorFunc) Authenticate(ctx context.Context) (Credential, error) {
	return f(ctx)
}

type cachedCredential struct {
	credential Credential
	issuedAt   time.Time
}

// TokenCache holds at most one credential and refreshes it lazily.
// Concurrent callers share a single in-flight refresh.
type TokenCache struct {
	auth   Authenticator
	logger *zap.Logger
	buffer time.Duration
	now    func() time.Time

	mu      sync.RWMutex
	current *cachedCredential
}

// Option configures a TokenCache.
type Option func(*TokenCache)

// WithBuffer sets the pre-expiry refresh margin. Negative values are ignored.
func WithBuffer(d time.Duration) Option {
	return func(c *TokenCache) {
		if d >= 0 {
			c.buffer = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *TokenCache) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *TokenCache) {
		if now != nil {
			c.now = now
		}
	}
}

// NewTokenCache creates an empty cache backed by a.
func NewTokenCache(a Authenticator, opts ...Option) *TokenCache {
	c := &TokenCache{
		auth:   a,
		logger: zap.NewNop(),
		buffer: DefaultExpiryBuffer,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// valid reports whether the entry is usable at t.
func (c *TokenCache) valid(entry *cachedCredential, t time.Time) bool {
	if entry == nil {
		return false
	}
	lifetime := time.Duration(entry.credential.ExpiresIn) * time.Second
	return t.Sub(entry.issuedAt)+c.buffer < lifetime
}

// Token returns an access token that will not expire within the buffer,
// authenticating if needed.
func (c *TokenCache) Token(ctx context.Context) (string, error) {
	c.mu.RLock()
	if entry := c.current; c.valid(entry, c.now()) {
		token := entry.credential.AccessToken
		c.mu.RUnlock()
		return token, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	// Another caller may have refreshed while we waited for the write lock.
	if c.valid(c.current, c.now()) {
		return c.current.credential.AccessToken, nil
	}
	c.current = nil

	cred, err := c.auth.Authenticate(ctx)
	if err == nil {
		err = checkCredential(cred)
	}
	if err != nil {
		metrics.IncTokenRefresh("error")
		c.logger.Warn("oadr3.auth.token_refresh_failed", zap.Error(err))
		if errs.IsKind(err, errs.KindAuthentication) {
			return "", errs.WithOp("auth.Token", err)
		}
		return "", errs.Wrap(errs.KindAuthentication, "auth.Token", err)
	}

	c.current = &cachedCredential{credential: cred, issuedAt: c.now()}
	metrics.IncTokenRefresh("ok")
	c.logger.Info("oadr3.auth.token_refreshed",
		zap.String("token_type", cred.TokenType),
		zap.Int64("expires_in_sec", cred.ExpiresIn))

	return cred.AccessToken, nil
}

// Invalidate drops the cached credential so the next Token call re-authenticates.
func (c *TokenCache) Invalidate() {
	c.mu.Lock()
	c.current = nil
	c.mu.Unlock()
}

// ExpiresAt reports when the cached credential expires, if there is one.
func (c *TokenCache) ExpiresAt() (time.Time, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.current == nil {
		return time.Time{}, false
	}
	return c.current.issuedAt.Add(time.Duration(c.current.credential.ExpiresIn) * time.Second), true
}

func checkCredential(cred Credential) error {
	if cred.AccessToken == "" {
		return errors.New("empty access_token")
	}
	if cred.ExpiresIn <= 0 {
		return fmt.Errorf("non-positive expires_in %d", cred.ExpiresIn)
	}
	return nil
}
