package request

import (
	"fmt"

	"github.com/kailas-cloud/menurank/internal/domain/search/filter"
	"github.com/kailas-cloud/menurank/internal/domain/search/mode"
)

// Search parameter limits.
const (
	// MaxQueryLength is the maximum allowed search query length.
	MaxQueryLength = 512
	DefaultRows    = 50
	MaxRows        = 200
	DefaultLimit   = 20
	MaxLimit       = 100
)

// Request is a validated search query.
type Request struct {
	query    string
	rankMode mode.Mode
	filters  filter.Set
	rows     int
	limit    int
}

// New validates and normalizes search parameters.
// Defaults: mode=hybrid, rows=50, limit=20. Limit is clamped to rows.
// An empty query is allowed: the index then matches on filters alone, or everything.
func New(query string, m mode.Mode, filters filter.Set, rows, limit int) (Request, error) {
	if len(query) > MaxQueryLength {
		return Request{}, fmt.Errorf("query too long (max %d chars)", MaxQueryLength)
	}
	if m == "" {
		m = mode.Hybrid
	}
	if !m.IsValid() {
		return Request{}, fmt.Errorf("invalid search mode: %q", m)
	}
	if rows <= 0 {
		rows = DefaultRows
	}
	if rows > MaxRows {
		rows = MaxRows
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	if limit > rows {
		limit = rows
	}

	return Request{
		query:    query,
		rankMode: m,
		filters:  filters,
		rows:     rows,
		limit:    limit,
	}, nil
}

// Query returns the raw search text.
func (r *Request) Query() string { return r.query }

// Mode returns the ranking strategy.
func (r *Request) Mode() mode.Mode { return r.rankMode }

// Filters returns the active filter set.
func (r *Request) Filters() filter.Set { return r.filters }

// Rows returns the number of candidates to request from the index.
func (r *Request) Rows() int { return r.rows }

// Limit returns the maximum results to return.
func (r *Request) Limit() int { return r.limit }
