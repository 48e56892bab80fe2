// Package transport defines the single capability the client needs from the
// network: send a request, get back a status and a body.
package transport

import (
	"context"
	"net/http"
)

// Request is one outbound HTTP exchange. URL is absolute.
type Request struct {
	Method string
	URL    string
	Header http.Header
	Body   []byte

	// Route is the endpoint template (e.g. "/programs/{id}") used to label
	// logs and metrics without leaking identifiers. Optional.
	Route string
}

// Transport executes requests. Any response that arrived, whatever its
// status, is returned as (status, body, nil); err is reserved for failures to
// obtain a response (connection, timeout, protocol).
type Transport interface {
	Execute(ctx context.Context, req Request) (status int, body []byte, err error)
}

// Func adapts a function to Transport.
type Func func(ctx context.Context, req Request) (int, []byte, error)

// Execute calls f.
func (f Func) Execute(ctx context.Context, req Request) (int, []byte, error) {
	return f(ctx, req)
}
