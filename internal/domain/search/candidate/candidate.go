package candidate

import (
	"cmp"
	"slices"

	"github.com/kailas-cloud/menurank/internal/domain"
)

// Candidate is a document returned by the index, scored for one request.
type Candidate struct {
	id       string
	fields   map[string]string
	lists    map[string][]string
	lexical  float64
	keyword  float64
	semantic float64
	combined float64
}

// New creates a candidate from index output. fields holds one string per field;
// lists holds the original values of multi-valued fields.
func New(id string, fields map[string]string, lists map[string][]string, lexical float64) Candidate {
	return Candidate{id: id, fields: fields, lists: lists, lexical: lexical}
}

// ID returns the document identifier.
func (c Candidate) ID() string { return c.id }

// Field returns a single field value, "" when absent.
func (c Candidate) Field(name string) string { return c.fields[name] }

// Fields returns the normalized field values.
func (c Candidate) Fields() map[string]string { return c.fields }

// List returns all values of a multi-valued field, nil for single-valued fields.
func (c Candidate) List(name string) []string { return c.lists[name] }

// Lists returns the multi-valued fields.
func (c Candidate) Lists() map[string][]string { return c.lists }

// Section returns the catalog section the document belongs to.
func (c Candidate) Section() string { return c.fields[domain.FieldSection] }

// LexicalScore returns the raw index relevance score.
func (c Candidate) LexicalScore() float64 { return c.lexical }

// KeywordScore returns the normalized lexical score in [0, 1].
func (c Candidate) KeywordScore() float64 { return c.keyword }

// SemanticScore returns the semantic similarity score, 0 without fusion.
func (c Candidate) SemanticScore() float64 { return c.semantic }

// CombinedScore returns the final ranking score.
func (c Candidate) CombinedScore() float64 { return c.combined }

// WithScores returns a copy of c carrying the given scores.
func (c Candidate) WithScores(keyword, semantic, combined float64) Candidate {
	c.keyword = keyword
	c.semantic = semantic
	c.combined = combined
	return c
}

// WithCombined returns a copy of c with a new combined score.
func (c Candidate) WithCombined(combined float64) Candidate {
	c.combined = combined
	return c
}

// Compare orders candidates by combined score desc, then lexical score desc, then ID asc.
func Compare(a, b Candidate) int {
	if r := cmp.Compare(b.combined, a.combined); r != 0 {
		return r
	}
	if r := cmp.Compare(b.lexical, a.lexical); r != 0 {
		return r
	}
	return cmp.Compare(a.id, b.id)
}

// Sort orders cs in place by Compare.
func Sort(cs []Candidate) {
	slices.SortStableFunc(cs, Compare)
}

// Page is one index response: the total match count and the returned candidates.
type Page struct {
	NumFound   int
	Candidates []Candidate
}
