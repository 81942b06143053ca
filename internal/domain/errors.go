package domain

import (
	"errors"
	"fmt"
)

// Validation errors map to a 400 response and are never retried.
var (
	ErrInvalidQuery     = errors.New("query must not be empty")
	ErrInvalidMode      = errors.New("mode must be one of keyword, semantic, hybrid")
	ErrInvalidLimit     = errors.New("limit must be an integer between 1 and 50")
	ErrInvalidVersion   = errors.New("version must be latest, all, or a numeric version string")
	ErrInvalidParameter = errors.New("invalid parameter")
)

// ErrRerankRateLimited marks a rate-limited reranker call. It is the only
// reranker failure the orchestrator retries.
var ErrRerankRateLimited = errors.New("reranker rate limited")

// UpstreamError wraps a failure of a required collaborator (index store or
// embedder). It maps to a 502 response; the caller may retry the request.
type UpstreamError struct {
	Service string
	Err     error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s unavailable: %v", e.Service, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// IsValidation reports whether err belongs to the validation taxonomy.
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidQuery) ||
		errors.Is(err, ErrInvalidMode) ||
		errors.Is(err, ErrInvalidLimit) ||
		errors.Is(err, ErrInvalidVersion) ||
		errors.Is(err, ErrInvalidParameter)
}
