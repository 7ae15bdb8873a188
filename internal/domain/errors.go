package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRequest signals a search request that failed validation.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrIndexUnreachable signals that the index service could not be reached (dial, timeout, reset).
	ErrIndexUnreachable = errors.New("search index unreachable")
	// ErrIndexCrossOrigin signals that the index service (or its proxy) rejected the request origin.
	ErrIndexCrossOrigin = errors.New("search index rejected the request origin")
	// ErrIndexUnknown signals any other index service failure.
	ErrIndexUnknown = errors.New("search index error")

	// ErrSemanticUnavailable signals that the semantic similarity service cannot serve requests.
	ErrSemanticUnavailable = errors.New("semantic service unavailable")
	// ErrSemanticRejected signals a rerank answered with success=false.
	ErrSemanticRejected = errors.New("semantic service rejected the rerank")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
)

// IndexCause classifies an index service failure.
type IndexCause string

// Index failure causes.
const (
	CauseConnectivity IndexCause = "connectivity"
	CauseCrossOrigin  IndexCause = "cross_origin"
	CauseUnknown      IndexCause = "unknown"
)

// IndexError wraps an index service failure with its classified cause.
type IndexError struct {
	Cause  IndexCause
	Op     string
	Status int // HTTP status, 0 when no response was received
	Err    error
}

func (e *IndexError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: %s (status %d): %v", e.Op, e.sentinel().Error(), e.Status, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.sentinel().Error(), e.Err)
}

// Unwrap exposes the cause sentinel so callers can use errors.Is.
func (e *IndexError) Unwrap() []error { return []error{e.sentinel(), e.Err} }

func (e *IndexError) sentinel() error {
	switch e.Cause {
	case CauseConnectivity:
		return ErrIndexUnreachable
	case CauseCrossOrigin:
		return ErrIndexCrossOrigin
	default:
		return ErrIndexUnknown
	}
}

// NewIndexError creates a classified index error.
func NewIndexError(cause IndexCause, op string, status int, err error) error {
	return &IndexError{Cause: cause, Op: op, Status: status, Err: err}
}
