package httpclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/clean-energy-tools/openadr-3-client/internal/metrics"
	"github.com/clean-energy-tools/openadr-3-client/internal/rate"
	"github.com/clean-energy-tools/openadr-3-client/pkg/errs"
	"github.com/clean-energy-tools/openadr-3-client/pkg/transport"
)

// RequestIDHeader carries a per-attempt correlation id to the VTN.
const RequestIDHeader = "X-Request-ID"

const defaultMaxBodyBytes int64 = 10 << 20 // 10 MiB

// Backoff returns the retry sleep duration for the given attempt number.
func Backoff(attempt int) time.Duration {
	switch attempt {
	case 0:
		return 100 * time.Millisecond
	case 1:
		return 250 * time.Millisecond
	default:
		return 500 * time.Millisecond
	}
}

// Executor is the default transport.Transport: rate-limited, optionally
// retrying HTTP execution that hands back the raw status and body.
type Executor struct {
	logger       *zap.Logger
	rateMgr      *rate.Manager
	http         *http.Client
	retryMax     int
	maxBodyBytes int64
	sleep        func(ctx context.Context, d time.Duration) error
}

var _ transport.Transport = (*Executor)(nil)

// New creates an Executor. retryMax is the number of extra attempts made on
// network errors and 5xx responses; zero means a single attempt.
func New(logger *zap.Logger, rateMgr *rate.Manager, httpClient *http.Client, retryMax int) *Executor {
	if logger == nil {
		logger = zap.NewNop()
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	if retryMax < 0 {
		retryMax = 0
	}
	return &Executor{
		logger:       logger,
		rateMgr:      rateMgr,
		http:         httpClient,
		retryMax:     retryMax,
		maxBodyBytes: defaultMaxBodyBytes,
		sleep:        sleepCtx,
	}
}

// Execute implements transport.Transport.
func (e *Executor) Execute(ctx context.Context, req transport.Request) (int, []byte, error) {
	u, err := url.Parse(req.URL)
	if err != nil || u.Host == "" {
		return 0, nil, errs.Wrap(errs.KindTransport, "httpclient.Execute", fmt.Errorf("invalid url %q", req.URL))
	}
	route := req.Route
	if route == "" {
		route = u.Path
	}

	if err := e.rateMgr.Wait(ctx, u.Host); err != nil {
		return 0, nil, errs.Wrap(errs.KindTransport, "httpclient.Execute", fmt.Errorf("rate limit wait: %w", err))
	}

	var lastErr error
	for attempt := 0; attempt <= e.retryMax; attempt++ {
		if attempt > 0 {
			if err := e.sleep(ctx, Backoff(attempt-1)); err != nil {
				return 0, nil, errs.Wrap(errs.KindTransport, "httpclient.Execute", err)
			}
		}

		status, body, err := e.do(ctx, req, route)
		if err != nil {
			lastErr = err
			e.logger.Warn("oadr3.http_failed",
				zap.String("method", req.Method),
				zap.String("route", route),
				zap.Error(err),
				zap.Int("attempt", attempt))
			if ctx.Err() != nil {
				break
			}
			continue
		}

		if status >= 500 && attempt < e.retryMax {
			e.logger.Warn("oadr3.server_error",
				zap.Int("status", status),
				zap.String("method", req.Method),
				zap.String("route", route),
				zap.Int("attempt", attempt))
			continue
		}

		return status, body, nil
	}

	return 0, nil, errs.Wrap(errs.KindTransport, "httpclient.Execute",
		fmt.Errorf("%s %s failed after %d attempts: %w", req.Method, route, e.retryMax+1, lastErr))
}

// do performs a single attempt. The body is rebuilt every time so retries
// resend it in full.
func (e *Executor) do(ctx context.Context, req transport.Request, route string) (int, []byte, error) {
	var body io.Reader
	if len(req.Body) > 0 {
		body = bytes.NewReader(req.Body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, body)
	if err != nil {
		return 0, nil, err
	}
	for k, vs := range req.Header {
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}
	if httpReq.Header.Get("Accept") == "" {
		httpReq.Header.Set("Accept", "application/json")
	}
	requestID := uuid.NewString()
	httpReq.Header.Set(RequestIDHeader, requestID)

	start := time.Now()
	resp, err := e.http.Do(httpReq)
	if err != nil {
		metrics.IncRequest(req.Method, route, "error")
		return 0, nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, e.maxBodyBytes+1))
	if err != nil {
		metrics.IncRequest(req.Method, route, "error")
		return 0, nil, fmt.Errorf("read response body: %w", err)
	}
	if int64(len(data)) > e.maxBodyBytes {
		metrics.IncRequest(req.Method, route, "error")
		return 0, nil, fmt.Errorf("response body exceeds limit of %d bytes", e.maxBodyBytes)
	}

	elapsed := time.Since(start)
	metrics.IncRequest(req.Method, route, strconv.Itoa(resp.StatusCode))
	metrics.ObserveDuration(metrics.RequestDuration, start, req.Method, route)

	e.logger.Debug("oadr3.http_done",
		zap.String("method", req.Method),
		zap.String("route", route),
		zap.String("request_id", requestID),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", elapsed))

	return resp.StatusCode, data, nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
