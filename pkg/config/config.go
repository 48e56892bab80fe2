// Package config holds the immutable connection settings for one VTN.
package config

import (
	"context"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/clean-energy-tools/openadr-3-client/pkg/errs"
)

const (
	// DefaultTimeout bounds every HTTP exchange, token requests included.
	DefaultTimeout = 30 * time.Second
	// DefaultTokenExpiryBuffer is how long before expiry a token is replaced.
	DefaultTokenExpiryBuffer = 30 * time.Second

	tokenPath = "/auth/token"
)

// Secret map keys read by FromSecretMap.
const (
	SecretKeyBaseURL      = "base_url"
	SecretKeyClientID     = "client_id"
	SecretKeyClientSecret = "client_secret"
	SecretKeyScope        = "scope"
)

// Config describes how to reach and authenticate against a VTN.
// Construct it with New; treat it as read-only afterwards.
type Config struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
	Scope        string
	Timeout      time.Duration

	TokenExpiryBuffer time.Duration

	// RetryMax is the number of extra attempts on network errors and 5xx. Zero disables retries.
	RetryMax int
	// RequestsPerSecond caps outbound calls per host. Zero disables limiting.
	RequestsPerSecond float64
	Burst             int
}

// New validates and normalises the required settings.
// Values are trimmed; the base URL loses any trailing slash.
func New(baseURL, clientID, clientSecret string) (Config, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	clientID = strings.TrimSpace(clientID)
	clientSecret = strings.TrimSpace(clientSecret)

	switch {
	case baseURL == "":
		return Config{}, errs.Configuration("base_url", "base_url cannot be empty")
	case clientID == "":
		return Config{}, errs.Configuration("client_id", "client_id cannot be empty")
	case clientSecret == "":
		return Config{}, errs.Configuration("client_secret", "client_secret cannot be empty")
	}

	return Config{
		BaseURL:           baseURL,
		ClientID:          clientID,
		ClientSecret:      clientSecret,
		Timeout:           DefaultTimeout,
		TokenExpiryBuffer: DefaultTokenExpiryBuffer,
	}, nil
}

// WithScope returns a copy with the OAuth2 scope set.
func (c Config) WithScope(scope string) Config {
	c.Scope = strings.TrimSpace(scope)
	return c
}

// WithTimeout returns a copy with the request timeout set. Non-positive values keep the current one.
func (c Config) WithTimeout(d time.Duration) Config {
	if d > 0 {
		c.Timeout = d
	}
	return c
}

// TokenURL is the client-credentials endpoint.
func (c Config) TokenURL() string {
	return c.BaseURL + tokenPath
}

// APIURL joins path onto the base URL with exactly one slash.
func (c Config) APIURL(path string) string {
	return c.BaseURL + "/" + strings.TrimLeft(path, "/")
}

// Load reads configuration from environment variables and an optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg, err := New(
		GetEnv("OADR3_BASE_URL", ""),
		GetEnv("OADR3_CLIENT_ID", ""),
		GetEnv("OADR3_CLIENT_SECRET", ""),
	)
	if err != nil {
		return Config{}, errs.WithOp("config.Load", err)
	}

	cfg = cfg.WithScope(GetEnv("OADR3_SCOPE", "")).
		WithTimeout(GetEnvDuration("OADR3_TIMEOUT", DefaultTimeout))
	cfg.TokenExpiryBuffer = GetEnvDuration("OADR3_TOKEN_BUFFER", DefaultTokenExpiryBuffer)
	cfg.RetryMax = GetEnvInt("OADR3_RETRY_MAX", 0)
	cfg.RequestsPerSecond = GetEnvFloat("OADR3_RPS", 0)
	cfg.Burst = GetEnvInt("OADR3_BURST", 1)
	return cfg, nil
}

// FromSecretMap builds a Config from a decoded secret.
func FromSecretMap(m map[string]string) (Config, error) {
	cfg, err := New(m[SecretKeyBaseURL], m[SecretKeyClientID], m[SecretKeyClientSecret])
	if err != nil {
		return Config{}, err
	}
	return cfg.WithScope(m[SecretKeyScope]), nil
}

// SecretGetter is the part of a secrets provider FromSecret needs.
type SecretGetter interface {
	GetSecret(ctx context.Context, name string) (map[string]string, error)
}

// FromSecret loads the named secret and builds a Config from it.
func FromSecret(ctx context.Context, p SecretGetter, name string) (Config, error) {
	m, err := p.GetSecret(ctx, name)
	if err != nil {
		return Config{}, errs.Wrap(errs.KindConfiguration, "config.FromSecret", err)
	}
	cfg, err := FromSecretMap(m)
	if err != nil {
		return Config{}, errs.WithOp("config.FromSecret", err)
	}
	return cfg, nil
}
