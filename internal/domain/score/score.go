// Package score normalizes raw index relevance scores.
package score

// Normalize maps a raw lexical score into [0, 1]. Scores of 100 and above are divided by 100,
// lower positive scores by 10; both are clamped to 1. Non-positive scores map to 0.
func Normalize(raw float64) float64 {
	switch {
	case raw <= 0:
		return 0
	case raw >= 100:
		return min(1, raw/100)
	default:
		return min(1, raw/10)
	}
}

// Blend is the keyword/semantic weighting requested from the semantic service.
type Blend struct {
	KeywordWeight  float64
	SemanticWeight float64
	TopK           int
}

// DefaultBlend weighs both signals equally.
func DefaultBlend(topK int) Blend {
	return Blend{KeywordWeight: 0.5, SemanticWeight: 0.5, TopK: topK}
}

// Hit is one semantic service result keyed by document ID.
type Hit struct {
	ID       string
	Semantic float64
	Keyword  float64
	Combined float64
}
