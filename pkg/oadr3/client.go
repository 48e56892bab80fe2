// Package oadr3 is a typed client for an OpenADR 3 VTN.
//
// Every operation runs the same pipeline: the request is validated locally,
// a bearer token is obtained from the shared cache, the request is dispatched
// through the transport, and the HTTP result is wrapped in a
// response.Response. Validation, credential and transport failures are
// returned as errors (see package errs); anything the server answered,
// including problem documents, is carried by the Response.
package oadr3

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/clean-energy-tools/openadr-3-client/internal/auth"
	"github.com/clean-energy-tools/openadr-3-client/internal/httpclient"
	"github.com/clean-energy-tools/openadr-3-client/internal/metrics"
	"github.com/clean-energy-tools/openadr-3-client/internal/rate"
	"github.com/clean-energy-tools/openadr-3-client/pkg/config"
	"github.com/clean-energy-tools/openadr-3-client/pkg/errs"
	"github.com/clean-energy-tools/openadr-3-client/pkg/response"
	"github.com/clean-energy-tools/openadr-3-client/pkg/transport"
)

// Client talks to one VTN. It is safe for concurrent use.
type Client struct {
	cfg       config.Config
	transport transport.Transport
	tokens    *auth.TokenCache
	logger    *zap.Logger
}

type options struct {
	logger        *zap.Logger
	transport     transport.Transport
	httpClient    *http.Client
	authenticator auth.Authenticator
	now           func() time.Time
}

// Option customises a Client.
type Option func(*options)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithTransport replaces the HTTP executor entirely, e.g. with a test double.
// Token requests go through the same transport.
func WithTransport(t transport.Transport) Option {
	return func(o *options) { o.transport = t }
}

// WithHTTPClient sets the *http.Client used by the default executor.
// Its own Timeout applies instead of Config.Timeout.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) { o.httpClient = c }
}

// WithAuthenticator replaces the OAuth2 client-credentials grant.
func WithAuthenticator(a auth.Authenticator) Option {
	return func(o *options) { o.authenticator = a }
}

// WithClock replaces time.Now for token expiry decisions.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// NewClient builds a client for cfg. The required fields are re-checked and
// normalised as config.New does; zero Timeout and TokenExpiryBuffer take their
// defaults.
func NewClient(cfg config.Config, opts ...Option) (*Client, error) {
	normalised, err := config.New(cfg.BaseURL, cfg.ClientID, cfg.ClientSecret)
	if err != nil {
		return nil, errs.WithOp("oadr3.NewClient", err)
	}
	cfg.BaseURL = normalised.BaseURL
	cfg.ClientID = normalised.ClientID
	cfg.ClientSecret = normalised.ClientSecret
	if cfg.Timeout <= 0 {
		cfg.Timeout = config.DefaultTimeout
	}
	if cfg.TokenExpiryBuffer <= 0 {
		cfg.TokenExpiryBuffer = config.DefaultTokenExpiryBuffer
	}

	o := options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}

	tr := o.transport
	if tr == nil {
		hc := o.httpClient
		if hc == nil {
			hc = &http.Client{Timeout: cfg.Timeout}
		}
		limiter := rate.NewManager(rate.Config{RequestsPerSecond: cfg.RequestsPerSecond, Burst: cfg.Burst})
		tr = httpclient.New(o.logger, limiter, hc, cfg.RetryMax)
	}

	authenticator := o.authenticator
	if authenticator == nil {
		authenticator = auth.NewClientCredentials(cfg.TokenURL(), cfg.ClientID, cfg.ClientSecret, cfg.Scope, tr)
	}

	return &Client{
		cfg:       cfg,
		transport: tr,
		tokens: auth.NewTokenCache(authenticator,
			auth.WithBuffer(cfg.TokenExpiryBuffer),
			auth.WithLogger(o.logger),
			auth.WithClock(o.now)),
		logger: o.logger,
	}, nil
}

// Config returns the normalised configuration.
func (c *Client) Config() config.Config {
	return c.cfg
}

// Authenticate makes sure a valid token is cached, fetching one if needed.
func (c *Client) Authenticate(ctx context.Context) error {
	_, err := c.tokens.Token(ctx)
	return errs.WithOp("oadr3.Authenticate", err)
}

// TokenExpiresAt reports when the cached token expires, if one is cached.
func (c *Client) TokenExpiresAt() (time.Time, bool) {
	return c.tokens.ExpiresAt()
}

// call describes one VTN request.
type call struct {
	op       string
	method   string
	path     string
	route    string
	query    url.Values
	body     any
	validate func() error
}

// do runs the Validate → Authenticate → Dispatch → Wrap pipeline.
func do[T any](ctx context.Context, c *Client, rc call) (*response.Response[T], error) {
	if rc.validate != nil {
		if err := rc.validate(); err != nil {
			metrics.IncValidationRejection(rc.op)
			c.logger.Debug("oadr3.validation_rejected",
				zap.String("op", rc.op),
				zap.Error(err))
			return nil, errs.WithOp(rc.op, err)
		}
	}

	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, errs.WithOp(rc.op, err)
	}

	header := http.Header{}
	header.Set("Authorization", "Bearer "+token)
	header.Set("Accept", "application/json")

	var body []byte
	if rc.body != nil {
		body, err = json.Marshal(rc.body)
		if err != nil {
			return nil, errs.Wrap(errs.KindSerialization, rc.op, err)
		}
		header.Set("Content-Type", "application/json")
	}

	target := c.cfg.APIURL(rc.path)
	if len(rc.query) > 0 {
		target += "?" + rc.query.Encode()
	}

	status, respBody, err := c.transport.Execute(ctx, transport.Request{
		Method: rc.method,
		URL:    target,
		Header: header,
		Body:   body,
		Route:  rc.route,
	})
	if err != nil {
		if errs.IsKind(err, errs.KindTransport) {
			return nil, errs.WithOp(rc.op, err)
		}
		return nil, errs.Wrap(errs.KindTransport, rc.op, err)
	}

	if status == http.StatusUnauthorized {
		// The VTN rejected a token we believed valid; force a new grant next time.
		c.tokens.Invalidate()
		c.logger.Warn("oadr3.unauthorized",
			zap.String("op", rc.op),
			zap.String("route", rc.route))
	}

	return response.FromHTTP[T](status, respBody), nil
}
