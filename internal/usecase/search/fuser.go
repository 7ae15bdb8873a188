package search

import (
	"context"
	"errors"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/menurank/internal/domain"
	"github.com/kailas-cloud/menurank/internal/domain/keyword"
	"github.com/kailas-cloud/menurank/internal/domain/score"
	"github.com/kailas-cloud/menurank/internal/domain/search/candidate"
	"github.com/kailas-cloud/menurank/internal/domain/taxonomy"
	"github.com/kailas-cloud/menurank/internal/metrics"
)

// DefaultSemanticTopK caps the results requested from the semantic service.
const DefaultSemanticTopK = 50

// Fusion outcomes, also used as metric labels.
const (
	OutcomeFused    = "fused"
	OutcomeSkipped  = "skipped"
	OutcomeFailed   = "failed"
	OutcomeRejected = "rejected"
	OutcomeUnmapped = "unmapped"
)

// Adjustment multiplies combined scores by section after a successful fusion.
type Adjustment struct {
	Rule  string
	Brand float64
	Menu  float64
}

// Context adjustment rules.
var (
	BrandIntent   = Adjustment{Rule: "brand_intent", Brand: 2.0, Menu: 0.5}
	MenuWithBrand = Adjustment{Rule: "menu_with_brand", Brand: 0.3, Menu: 1.5}
)

// Fuser ranks candidates by normalized lexical score and, when the semantic service is
// available, blends in semantic similarity and applies query-context multipliers.
type Fuser struct {
	scorer SemanticScorer
	avail  Availability
	tax    taxonomy.Taxonomy
	topK   int
	logger *zap.Logger
}

// NewFuser creates a Fuser. scorer and avail may be nil, which disables fusion.
func NewFuser(scorer SemanticScorer, avail Availability, tax taxonomy.Taxonomy, topK int, logger *zap.Logger) *Fuser {
	if topK <= 0 {
		topK = DefaultSemanticTopK
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Fuser{scorer: scorer, avail: avail, tax: tax, topK: topK, logger: logger}
}

// KeywordRank scores candidates from their lexical score alone and sorts them.
// CombinedScore equals KeywordScore and SemanticScore is 0.
func KeywordRank(cs []candidate.Candidate) []candidate.Candidate {
	out := make([]candidate.Candidate, len(cs))
	for i, c := range cs {
		kw := score.Normalize(c.LexicalScore())
		out[i] = c.WithScores(kw, 0, kw)
	}
	candidate.Sort(out)
	return out
}

// Fuse returns candidates sorted by final score and whether semantic fusion was applied.
// Semantic failures never surface: the keyword ranking is returned instead.
func (f *Fuser) Fuse(ctx context.Context, rawQuery string, cs []candidate.Candidate) ([]candidate.Candidate, bool) {
	ranked := KeywordRank(cs)

	if f.scorer == nil || f.avail == nil || !f.avail.Available() ||
		strings.TrimSpace(rawQuery) == "" || len(cs) == 0 {
		metrics.FusionTotal.WithLabelValues(OutcomeSkipped).Inc()
		return ranked, false
	}

	hits, err := f.scorer.Score(ctx, rawQuery, cs, score.DefaultBlend(f.topK))
	if err != nil {
		outcome := OutcomeFailed
		if errors.Is(err, domain.ErrSemanticRejected) {
			outcome = OutcomeRejected
		}
		metrics.FusionTotal.WithLabelValues(outcome).Inc()
		f.logger.Warn("semantic fusion abandoned, using keyword ranking",
			zap.String("outcome", outcome), zap.Error(err))
		return ranked, false
	}

	byID := make(map[string]candidate.Candidate, len(ranked))
	for _, c := range ranked {
		byID[c.ID()] = c
	}
	fused := make([]candidate.Candidate, 0, len(hits))
	dropped := 0
	for _, h := range hits {
		c, ok := byID[h.ID]
		if !ok {
			dropped++
			continue
		}
		delete(byID, h.ID)
		fused = append(fused, c.WithScores(c.KeywordScore(), clamp01(h.Semantic), h.Combined))
	}
	if dropped > 0 {
		f.logger.Debug("dropped unmappable semantic results", zap.Int("count", dropped))
	}
	if len(fused) == 0 {
		metrics.FusionTotal.WithLabelValues(OutcomeUnmapped).Inc()
		return ranked, false
	}

	if adj, ok := ContextAdjustment(rawQuery, f.tax); ok {
		fused = Apply(fused, adj)
		metrics.ContextAdjustmentsTotal.WithLabelValues(adj.Rule).Inc()
	}
	candidate.Sort(fused)
	metrics.FusionTotal.WithLabelValues(OutcomeFused).Inc()
	return fused, true
}

// ContextAdjustment picks the post-fusion multiplier rule for a query, first match wins:
// a brand-type word with no menu-type word and no brand literal is brand intent; a menu-type
// word next to a brand literal favors menu pages. Words match whole after punctuation is
// trimmed, so "food!" counts but "seafood" does not, while the classifier's containment
// match accepts both.
func ContextAdjustment(rawQuery string, tax taxonomy.Taxonomy) (Adjustment, bool) {
	words := keyword.Words(rawQuery)
	normalized := strings.Join(words, " ")

	brandWord := hasTypeSynonym(tax, taxonomy.TypeBrand, words, normalized)
	menuWord := hasTypeSynonym(tax, taxonomy.TypeMenu, words, normalized)
	brandName := false
	for _, b := range tax.Brands() {
		if slices.Contains(words, b.Token()) {
			brandName = true
			break
		}
	}

	switch {
	case brandWord && !menuWord && !brandName:
		return BrandIntent, true
	case menuWord && brandName:
		return MenuWithBrand, true
	default:
		return Adjustment{}, false
	}
}

// Apply multiplies combined scores of brand-section and menu-section candidates.
// Keyword and semantic scores are left untouched.
func Apply(cs []candidate.Candidate, adj Adjustment) []candidate.Candidate {
	out := make([]candidate.Candidate, len(cs))
	for i, c := range cs {
		switch c.Section() {
		case domain.SectionBrand:
			c = c.WithCombined(c.CombinedScore() * adj.Brand)
		case domain.SectionMenu:
			c = c.WithCombined(c.CombinedScore() * adj.Menu)
		}
		out[i] = c
	}
	return out
}

func hasTypeSynonym(tax taxonomy.Taxonomy, group string, words []string, normalized string) bool {
	g, ok := tax.TypeGroup(group)
	if !ok {
		return false
	}
	for _, p := range g.Patterns() {
		if strings.Contains(p, " ") {
			if strings.Contains(normalized, p) {
				return true
			}
			continue
		}
		if slices.Contains(words, p) {
			return true
		}
	}
	return false
}

func clamp01(v float64) float64 {
	return max(0, min(1, v))
}
