// Package validation holds the precondition checks every request passes before
// any credential or network work happens.
package validation

import (
	"fmt"
	"strings"

	"github.com/clean-energy-tools/openadr-3-client/pkg/errs"
)

// MaxLimit is the largest page size the VTN accepts.
const MaxLimit = 50

// Validator is implemented by every payload the client can send.
type Validator interface {
	Validate() error
}

// SearchParams carries the pagination window shared by all search endpoints.
// Nil fields are omitted from the query string.
type SearchParams struct {
	Skip  *int
	Limit *int
}

// Page is a convenience constructor for SearchParams.
func Page(skip, limit int) SearchParams {
	return SearchParams{Skip: &skip, Limit: &limit}
}

// Validate checks skip >= 0 and 0 <= limit <= MaxLimit.
func (p SearchParams) Validate() error {
	if p.Skip != nil && *p.Skip < 0 {
		return errs.Validation("skip", "skip must be non-negative")
	}
	if p.Limit != nil && (*p.Limit < 0 || *p.Limit > MaxLimit) {
		return errs.Validation("limit", "limit must be between 0 and %d", MaxLimit)
	}
	return nil
}

// RequireID rejects identifiers that are empty after trimming.
func RequireID(field, value string) error {
	return RequireNonEmpty(field, value)
}

// RequireNonEmpty rejects values that are empty after trimming.
func RequireNonEmpty(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return errs.Validation(field, "%s cannot be empty", field)
	}
	return nil
}

// All validates items in order and stops at the first failure.
func All[T Validator](items []T) error {
	for i, item := range items {
		if err := item.Validate(); err != nil {
			return fmt.Errorf("item %d: %w", i, err)
		}
	}
	return nil
}
