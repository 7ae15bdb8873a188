package menurank

import (
	"github.com/kailas-cloud/menurank/internal/domain/keyword"
	"github.com/kailas-cloud/menurank/internal/domain/search/candidate"
	searchuc "github.com/kailas-cloud/menurank/internal/usecase/search"
)

// Match is one taxonomy hit in a query.
type Match struct {
	Group   string `json:"group"`   // taxonomy group name, e.g. "ramen"
	Pattern string `json:"pattern"` // pattern found in the query
	Target  string `json:"target"`  // index predicate the group maps to
}

// Boost is one weighted boost query term.
type Boost struct {
	Predicate string  `json:"predicate"`
	Weight    float64 `json:"weight"`
}

// Classification explains how a query was understood.
type Classification struct {
	Query        string  `json:"query"`
	Brand        string  `json:"brand,omitempty"` // "" when no brand token matched
	Categories   []Match `json:"categories"`
	Types        []Match `json:"types"`
	CombinedMode bool    `json:"combined_mode"` // brand plus category or type intent
	Boosts       []Boost `json:"boosts"`
}

// Result is one ranked document.
type Result struct {
	ID            string              `json:"id"`
	Score         float64             `json:"score"`          // final ranking score
	KeywordScore  float64             `json:"keyword_score"`  // normalized lexical score in [0, 1]
	SemanticScore float64             `json:"semantic_score"` // 0 unless fused
	LexicalScore  float64             `json:"lexical_score"`  // raw index score
	Fields        map[string]string   `json:"fields"`
	Lists         map[string][]string `json:"lists,omitempty"` // all values of multi-valued fields
}

// SearchResult is a ranked page of documents.
type SearchResult struct {
	Classification
	Results        []Result `json:"results"`
	NumFound       int      `json:"num_found"`
	Fused          bool     `json:"fused"`           // semantic scores contributed to the ranking
	FilterEncoding string   `json:"filter_encoding"` // filter encoding that produced the results
}

func classificationFrom(query string, exp searchuc.Explanation) Classification {
	c := Classification{
		Query:        query,
		Brand:        exp.Classification.Brand(),
		Categories:   matchesFrom(exp.Classification.Categories()),
		Types:        matchesFrom(exp.Classification.Types()),
		CombinedMode: exp.CombinedMode,
		Boosts:       make([]Boost, 0, len(exp.Boosts)),
	}
	for _, b := range exp.Boosts {
		c.Boosts = append(c.Boosts, Boost{Predicate: b.Predicate, Weight: b.Weight})
	}
	return c
}

func matchesFrom(ms []keyword.Match) []Match {
	out := make([]Match, 0, len(ms))
	for _, m := range ms {
		out = append(out, Match(m))
	}
	return out
}

func resultFrom(c candidate.Candidate) Result {
	return Result{
		ID:            c.ID(),
		Score:         c.CombinedScore(),
		KeywordScore:  c.KeywordScore(),
		SemanticScore: c.SemanticScore(),
		LexicalScore:  c.LexicalScore(),
		Fields:        c.Fields(),
		Lists:         c.Lists(),
	}
}
