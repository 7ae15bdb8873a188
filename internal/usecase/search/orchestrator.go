package search

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/menurank/internal/domain"
	"github.com/kailas-cloud/menurank/internal/domain/boost"
	"github.com/kailas-cloud/menurank/internal/domain/search/candidate"
	"github.com/kailas-cloud/menurank/internal/domain/search/filter"
	"github.com/kailas-cloud/menurank/internal/domain/search/query"
	"github.com/kailas-cloud/menurank/internal/metrics"
)

// EncodingPrimary names the first attempt, which uses the filter set as given.
const EncodingPrimary = "primary"

// encoding is one alternative rendering of the category filter value.
type encoding struct {
	name      string
	predicate func(value string) string
}

// categoryRetries is tried in order when a quoted category filter finds nothing.
var categoryRetries = []encoding{
	{"unquoted", func(v string) string {
		return domain.FieldMenuCategory + ":" + filter.EscapeTerm(v)
	}},
	{"wildcard", func(v string) string {
		return domain.FieldMenuCategory + ":*" + filter.EscapeTerm(v) + "*"
	}},
	{"lowercase", func(v string) string {
		return filter.Equals(domain.FieldMenuCategory, strings.ToLower(v))
	}},
	{"uppercase", func(v string) string {
		return filter.Equals(domain.FieldMenuCategory, strings.ToUpper(v))
	}},
}

// Fields holds the eDismax field weighting and row limits.
type Fields struct {
	QF          string
	PF          string
	MM          string
	DefaultRows int
	MaxRows     int
}

// DefaultFields returns the catalog's default field weighting.
func DefaultFields() Fields {
	return Fields{
		QF:          query.DefaultQF,
		PF:          query.DefaultPF,
		MM:          query.DefaultMM,
		DefaultRows: query.DefaultRows,
		MaxRows:     query.DefaultRows,
	}
}

// Page is the orchestrator's result: candidates and the filter encoding that produced them.
type Page struct {
	NumFound   int
	Candidates []candidate.Candidate
	Encoding   string
}

// Orchestrator builds index queries and runs the zero-result category retry ladder. Stateless.
type Orchestrator struct {
	index  Index
	fields Fields
	logger *zap.Logger
}

// NewOrchestrator creates an Orchestrator.
// Empty field settings fall back to DefaultFields.
func NewOrchestrator(index Index, fields Fields, logger *zap.Logger) *Orchestrator {
	if fields.QF == "" {
		fields.QF = query.DefaultQF
	}
	if fields.PF == "" {
		fields.PF = query.DefaultPF
	}
	if fields.MM == "" {
		fields.MM = query.DefaultMM
	}
	if fields.DefaultRows <= 0 {
		fields.DefaultRows = query.DefaultRows
	}
	if fields.MaxRows < fields.DefaultRows {
		fields.MaxRows = fields.DefaultRows
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{index: index, fields: fields, logger: logger}
}

// Search queries the index with the filter set, free text and boosts. Index failures are
// returned as classified *domain.IndexError values; an exhausted retry ladder is an empty page.
func (o *Orchestrator) Search(
	ctx context.Context, rawQuery string, filters filter.Set, boosts []boost.Term, rows int,
) (Page, error) {
	text := TextClause(rawQuery)
	params := query.Params{
		Query: filter.Combine(filters.Expression(), text),
		QF:    o.fields.QF,
		PF:    o.fields.PF,
		BQ:    boost.Join(boosts),
		MM:    o.fields.MM,
		Rows:  o.rows(rows),
	}

	page, err := o.index.Select(ctx, params)
	if err != nil {
		return Page{}, fmt.Errorf("index select: %w", err)
	}
	if page.NumFound > 0 || len(page.Candidates) > 0 || !filters.HasCategory() {
		return Page{NumFound: page.NumFound, Candidates: page.Candidates, Encoding: EncodingPrimary}, nil
	}

	for _, enc := range categoryRetries {
		params.Query = filter.Combine(filters.ExpressionWithCategory(enc.predicate(filters.Category())), text)
		page, err = o.index.Select(ctx, params)
		if err != nil {
			return Page{}, fmt.Errorf("index select (%s category): %w", enc.name, err)
		}
		if page.NumFound > 0 || len(page.Candidates) > 0 {
			metrics.IndexRetryAttemptsTotal.WithLabelValues(enc.name, "hit").Inc()
			o.logger.Debug("category retry matched",
				zap.String("encoding", enc.name),
				zap.String("category", filters.Category()),
				zap.Int("num_found", page.NumFound),
			)
			return Page{NumFound: page.NumFound, Candidates: page.Candidates, Encoding: enc.name}, nil
		}
		metrics.IndexRetryAttemptsTotal.WithLabelValues(enc.name, "miss").Inc()
	}

	return Page{Encoding: EncodingPrimary}, nil
}

func (o *Orchestrator) rows(requested int) int {
	if requested <= 0 {
		return o.fields.DefaultRows
	}
	return min(requested, o.fields.MaxRows)
}

// TextClause escapes the trimmed raw query for use as the free-text part of q.
func TextClause(rawQuery string) string {
	return filter.Escape(strings.TrimSpace(rawQuery))
}
