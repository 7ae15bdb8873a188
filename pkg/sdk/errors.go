package menurank

import "github.com/kailas-cloud/menurank/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrInvalidRequest   = domain.ErrInvalidRequest
	ErrIndexUnreachable = domain.ErrIndexUnreachable
	ErrIndexCrossOrigin = domain.ErrIndexCrossOrigin
	ErrIndexUnknown     = domain.ErrIndexUnknown
)
