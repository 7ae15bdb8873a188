// Package keyword classifies free-text queries against the catalog taxonomy.
package keyword

import (
	"slices"
	"strings"
	"unicode"

	"github.com/kailas-cloud/menurank/internal/domain/taxonomy"
)

// Match is one taxonomy hit: the concrete pattern found in the query and the predicate it maps to.
type Match struct {
	Group   string `json:"group"`
	Pattern string `json:"pattern"`
	Target  string `json:"target"`
}

// Classification is the structured view of a query.
type Classification struct {
	brand      string
	categories []Match
	types      []Match
}

// NewClassification assembles a classification from already-matched parts.
func NewClassification(brand string, categories, types []Match) Classification {
	return Classification{
		brand:      brand,
		categories: append([]Match(nil), categories...),
		types:      append([]Match(nil), types...),
	}
}

// Brand returns the detected brand token, "" when none.
func (c Classification) Brand() string { return c.brand }

// HasBrand reports whether a brand literal was detected.
func (c Classification) HasBrand() bool { return c.brand != "" }

// Categories returns the category hits in taxonomy order.
func (c Classification) Categories() []Match { return append([]Match(nil), c.categories...) }

// Types returns the type hits in taxonomy order.
func (c Classification) Types() []Match { return append([]Match(nil), c.types...) }

// HasType reports whether the named type group matched.
func (c Classification) HasType(group string) bool {
	for _, m := range c.types {
		if m.Group == group {
			return true
		}
	}
	return false
}

// IsEmpty reports whether nothing was detected.
func (c Classification) IsEmpty() bool {
	return c.brand == "" && len(c.categories) == 0 && len(c.types) == 0
}

// Classifier matches queries against a fixed taxonomy. Safe for concurrent use.
type Classifier struct {
	tax taxonomy.Taxonomy
}

// NewClassifier creates a classifier over tax.
func NewClassifier(tax taxonomy.Taxonomy) *Classifier {
	return &Classifier{tax: tax}
}

// Classify lower-cases and tokenizes query, then reports the first brand found
// and the first matching pattern of every category and type group.
func (c *Classifier) Classify(query string) Classification {
	words := Words(query)
	if len(words) == 0 {
		return Classification{}
	}
	normalized := strings.Join(words, " ")

	var out Classification
	for _, b := range c.tax.Brands() {
		if slices.Contains(words, b.Token()) {
			out.brand = b.Token()
			break
		}
	}
	out.categories = matchGroups(c.tax.Categories(), normalized)
	out.types = matchGroups(c.tax.Types(), normalized)
	return out
}

// Words lower-cases s, splits it on whitespace and trims punctuation around each word,
// so "food!" and "(afuri)" read as "food" and "afuri". Inner punctuation is kept.
func Words(s string) []string {
	fields := strings.Fields(strings.ToLower(s))
	out := fields[:0]
	for _, f := range fields {
		if w := strings.TrimFunc(f, unicode.IsPunct); w != "" {
			out = append(out, w)
		}
	}
	return out
}

// ContainsWord reports whether word occurs as a whole word in query.
func ContainsWord(query, word string) bool {
	return slices.Contains(Words(query), strings.ToLower(word))
}

func matchGroups(groups []taxonomy.Group, normalized string) []Match {
	var out []Match
	for _, g := range groups {
		for _, p := range g.Patterns() {
			if patternMatches(p, normalized) {
				out = append(out, Match{Group: g.Name(), Pattern: p, Target: g.Target()})
				break
			}
		}
	}
	return out
}

// Multi-word patterns match as substrings of the normalized query. Single-word
// patterns match as a whole word or a substring, which the substring test covers.
func patternMatches(pattern, normalized string) bool {
	return strings.Contains(normalized, pattern)
}
