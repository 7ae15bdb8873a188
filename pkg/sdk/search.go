package menurank

import (
	"context"
	"fmt"
	"time"

	"github.com/kailas-cloud/menurank/internal/domain/search/filter"
	"github.com/kailas-cloud/menurank/internal/domain/search/mode"
	"github.com/kailas-cloud/menurank/internal/domain/search/request"
)

// SearchOption narrows or shapes a search.
type SearchOption func(*searchConfig)

type searchConfig struct {
	section  string
	category string
	tag      string
	priceMin *float64
	priceMax *float64
	rows     int
	limit    int
	mode     mode.Mode
}

// InSection restricts results to a catalog section (exact match).
func InSection(section string) SearchOption {
	return func(c *searchConfig) { c.section = section }
}

// InCategory restricts results to a category. The category filter is relaxed
// step by step when it matches nothing.
func InCategory(category string) SearchOption {
	return func(c *searchConfig) { c.category = category }
}

// WithTag restricts results to documents carrying a tag.
func WithTag(tag string) SearchOption {
	return func(c *searchConfig) { c.tag = tag }
}

// PriceRange restricts results to an inclusive price range. Pass nil for an open bound.
func PriceRange(minPrice, maxPrice *float64) SearchOption {
	return func(c *searchConfig) {
		c.priceMin = minPrice
		c.priceMax = maxPrice
	}
}

// Rows sets how many candidates are requested from the index (default 50, max 200).
func Rows(n int) SearchOption {
	return func(c *searchConfig) { c.rows = n }
}

// Limit sets how many results are returned (default 20, max 100, never above Rows).
func Limit(n int) SearchOption {
	return func(c *searchConfig) { c.limit = n }
}

// KeywordOnly skips semantic fusion and ranks by normalized lexical score.
func KeywordOnly() SearchOption {
	return func(c *searchConfig) { c.mode = mode.Keyword }
}

// Search runs the full ranking pipeline for query.
// Index failures wrap ErrIndexUnreachable, ErrIndexCrossOrigin or ErrIndexUnknown;
// semantic service failures never fail a search.
func (c *Client) Search(ctx context.Context, query string, opts ...SearchOption) (_ *SearchResult, err error) {
	start := time.Now()
	var res *SearchResult
	defer func() {
		if res == nil {
			c.obs.observe("search", start, err, "query", query)
			return
		}
		c.obs.observe("search", start, err, "query", query,
			"num_found", res.NumFound, "fused", res.Fused, "encoding", res.FilterEncoding)
	}()

	req, err := buildRequest(query, opts)
	if err != nil {
		return nil, err
	}

	resp, err := c.searchSvc.Search(ctx, &req)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}

	res = &SearchResult{
		Classification: classificationFrom(query, resp.Explanation),
		Results:        make([]Result, 0, len(resp.Candidates)),
		NumFound:       resp.NumFound,
		Fused:          resp.Fused,
		FilterEncoding: resp.Encoding,
	}
	for _, cand := range resp.Candidates {
		res.Results = append(res.Results, resultFrom(cand))
	}
	return res, nil
}

// Classify explains how query would be understood without querying the index.
func (c *Client) Classify(query string) Classification {
	return classificationFrom(query, c.searchSvc.Explain(query))
}

func buildRequest(query string, opts []SearchOption) (request.Request, error) {
	sc := searchConfig{mode: mode.Hybrid}
	for _, o := range opts {
		o(&sc)
	}

	var price *filter.Range
	if sc.priceMin != nil || sc.priceMax != nil {
		if sc.priceMin != nil && sc.priceMax != nil && *sc.priceMin > *sc.priceMax {
			return request.Request{}, fmt.Errorf("%w: price min must not exceed price max", ErrInvalidRequest)
		}
		rng, err := filter.NewRangeFilter(nil, sc.priceMin, nil, sc.priceMax)
		if err != nil {
			return request.Request{}, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
		}
		price = &rng
	}

	req, err := request.New(query, sc.mode,
		filter.NewSet(sc.section, sc.category, sc.tag, price), sc.rows, sc.limit)
	if err != nil {
		return request.Request{}, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	return req, nil
}
