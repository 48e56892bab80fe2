// Package response defines the envelope every client operation returns.
package response

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
)

// Problem is structured failure detail, either reported by the VTN or
// synthesized locally when a response cannot be interpreted.
type Problem struct {
	Type   string `json:"type,omitempty"`
	Title  string `json:"title,omitempty"`
	Status int    `json:"status,omitempty"`
	Detail string `json:"detail,omitempty"`
}

// Error renders the title (or type), followed by the detail when present.
func (p *Problem) Error() string {
	var msg string
	switch {
	case p.Title != "":
		msg = p.Title
	case p.Type != "":
		msg = p.Type
	default:
		msg = "API Error"
	}
	if p.Detail != "" {
		msg += ": " + p.Detail
	}
	return msg
}

func (p *Problem) empty() bool {
	return p.Type == "" && p.Title == "" && p.Status == 0 && p.Detail == ""
}

// Response wraps the outcome of a single call.
// A call succeeded iff Status is 2xx and no problem is attached.
type Response[T any] struct {
	Status  int
	payload *T
	problem *Problem
}

// Success builds a response carrying payload.
func Success[T any](status int, payload T) *Response[T] {
	return &Response[T]{Status: status, payload: &payload}
}

// Empty builds a 2xx response without a payload, as returned by deletes.
func Empty[T any](status int) *Response[T] {
	return &Response[T]{Status: status}
}

// Failure builds a response carrying problem.
func Failure[T any](status int, problem Problem) *Response[T] {
	return &Response[T]{Status: status, problem: &problem}
}

// IsSuccess reports 200 <= Status < 300 with no problem attached.
func (r *Response[T]) IsSuccess() bool {
	return r.Status >= 200 && r.Status < 300 && r.problem == nil
}

// IsError is the negation of IsSuccess.
func (r *Response[T]) IsError() bool {
	return !r.IsSuccess()
}

// Payload returns the decoded body, or nil. A nil payload does not mean
// failure: check IsSuccess.
func (r *Response[T]) Payload() *T {
	return r.payload
}

// Problem returns the failure detail, or nil.
func (r *Response[T]) Problem() *Problem {
	return r.problem
}

// Result collapses the envelope into a value or an error. When neither a
// payload nor a problem is present an "unknown" problem is synthesized.
func (r *Response[T]) Result() (T, error) {
	var zero T
	switch {
	case r.payload != nil:
		return *r.payload, nil
	case r.problem != nil:
		return zero, r.problem
	default:
		return zero, &Problem{
			Type:   "unknown",
			Title:  "Unknown error",
			Status: r.Status,
			Detail: "No response data or error information",
		}
	}
}

// FromHTTP maps a raw status and body into a Response. It never fails:
// bodies that cannot be decoded become synthesized problems.
func FromHTTP[T any](status int, body []byte) *Response[T] {
	trimmed := bytes.TrimSpace(body)

	if status >= 200 && status < 300 {
		if len(trimmed) == 0 {
			return Empty[T](status)
		}
		var payload T
		if err := json.Unmarshal(trimmed, &payload); err != nil {
			return Failure[T](status, Problem{
				Type:   "invalid_response",
				Title:  "Invalid response body",
				Status: status,
				Detail: fmt.Sprintf("decode response: %v", err),
			})
		}
		return Success(status, payload)
	}

	var problem Problem
	if len(trimmed) > 0 && json.Unmarshal(trimmed, &problem) == nil && !problem.empty() {
		if problem.Status == 0 {
			problem.Status = status
		}
		return Failure[T](status, problem)
	}
	return Failure[T](status, Problem{
		Type:   "about:blank",
		Title:  http.StatusText(status),
		Status: status,
	})
}
