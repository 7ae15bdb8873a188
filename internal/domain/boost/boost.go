// Package boost turns a keyword classification into weighted boost terms for the index.
package boost

import (
	"strconv"
	"strings"

	"github.com/kailas-cloud/menurank/internal/domain"
	"github.com/kailas-cloud/menurank/internal/domain/keyword"
	"github.com/kailas-cloud/menurank/internal/domain/search/filter"
	"github.com/kailas-cloud/menurank/internal/domain/taxonomy"
)

// Term is a single (predicate, weight) boost. Order carries priority only; the index sums
// the weights of every matching term, so duplicates are meaningful.
type Term struct {
	Predicate string  `json:"predicate"`
	Weight    float64 `json:"weight"`
}

// String renders the term as predicate^weight.
func (t Term) String() string {
	return t.Predicate + "^" + strconv.FormatFloat(t.Weight, 'f', -1, 64)
}

// Join renders terms as a space-separated bq value.
func Join(terms []Term) string {
	parts := make([]string, len(terms))
	for i, t := range terms {
		parts[i] = t.String()
	}
	return strings.Join(parts, " ")
}

// Weights is the weight table the Builder applies.
type Weights struct {
	CategorySolo      float64
	CategoryCombined  float64
	SpecialCase       float64
	TypeSolo          float64
	TypeCombined      float64
	MenuOverBrand     float64
	BrandUnderMenu    float64
	BrandSoloElevated float64
}

// DefaultWeights returns the production weight table.
func DefaultWeights() Weights {
	return Weights{
		CategorySolo:      10.0,
		CategoryCombined:  10.0,
		SpecialCase:       8.0,
		TypeSolo:          5.0,
		TypeCombined:      3.0,
		MenuOverBrand:     6.0,
		BrandUnderMenu:    0.5,
		BrandSoloElevated: 9.0,
	}
}

// Builder synthesizes boost terms. It holds no per-request state.
type Builder struct {
	tax     taxonomy.Taxonomy
	weights Weights
}

// NewBuilder creates a Builder over the taxonomy's brand table.
func NewBuilder(tax taxonomy.Taxonomy, w Weights) *Builder {
	return &Builder{tax: tax, weights: w}
}

// CombinedMode reports whether more than one of {brand, category, type} was detected.
func CombinedMode(c keyword.Classification) bool {
	n := 0
	if c.HasBrand() {
		n++
	}
	if len(c.Categories()) > 0 {
		n++
	}
	if len(c.Types()) > 0 {
		n++
	}
	return n > 1
}

// Build emits boost terms in rule order: categories, the special-case literal rule,
// types, then brand targets. Empty when nothing fires.
func (b *Builder) Build(c keyword.Classification, rawQuery string) []Term {
	combined := CombinedMode(c)
	words := keyword.Words(rawQuery)

	var out []Term
	out = append(out, b.categoryTerms(c, combined)...)
	out = append(out, b.specialCaseTerms(words)...)
	out = append(out, b.typeTerms(c, combined)...)
	out = append(out, b.brandTerms(c, combined)...)
	return out
}

func (b *Builder) categoryTerms(c keyword.Classification, combined bool) []Term {
	w := b.weights.CategorySolo
	if combined {
		w = b.weights.CategoryCombined
	}
	var out []Term
	for _, m := range c.Categories() {
		out = append(out, Term{Predicate: m.Target, Weight: w})
	}
	return out
}

func (b *Builder) specialCaseTerms(words []string) []Term {
	if t, ok := YuzuRamen(words, b.weights.SpecialCase); ok {
		return []Term{t}
	}
	return nil
}

func (b *Builder) typeTerms(c keyword.Classification, combined bool) []Term {
	w := b.weights.TypeSolo
	if combined {
		w = b.weights.TypeCombined
	}
	var out []Term
	for _, m := range c.Types() {
		weight := w
		if m.Group == taxonomy.TypeMenu {
			weight = MenuOverBrand(c, combined, weight, b.weights.MenuOverBrand)
		}
		out = append(out, Term{Predicate: m.Target, Weight: weight})
	}
	return out
}

func (b *Builder) brandTerms(c keyword.Classification, combined bool) []Term {
	if !c.HasBrand() {
		return nil
	}
	brand, ok := b.tax.Brand(c.Brand())
	if !ok {
		return nil
	}
	menu := c.HasType(taxonomy.TypeMenu)
	var out []Term
	for _, t := range brand.Targets() {
		w := t.Weight()
		if combined {
			w = t.CombinedWeight()
		}
		w = BrandUnderMenu(t.Predicate(), combined, menu, w, b.weights.BrandUnderMenu)
		w = BrandSoloElevated(t.Predicate(), combined, w, b.weights.BrandSoloElevated)
		out = append(out, Term{Predicate: t.Predicate(), Weight: w})
	}
	return out
}

var brandInfoPredicate = filter.Equals(domain.FieldSection, domain.SectionBrand)

// YuzuRamen fires when the query words contain both "yuzu" and "ramen": the flavor
// qualifier pins the result to the Ramen category.
func YuzuRamen(words []string, weight float64) (Term, bool) {
	var yuzu, ramen bool
	for _, w := range words {
		switch w {
		case "yuzu":
			yuzu = true
		case "ramen":
			ramen = true
		}
	}
	if !yuzu || !ramen {
		return Term{}, false
	}
	return Term{Predicate: filter.Equals(domain.FieldMenuCategory, "Ramen"), Weight: weight}, true
}

// MenuOverBrand raises the menu-type weight when a brand is also present in combined mode,
// so menu pages outrank brand pages.
func MenuOverBrand(c keyword.Classification, combined bool, current, override float64) float64 {
	if combined && c.HasBrand() {
		return override
	}
	return current
}

// BrandUnderMenu lowers the brand-information weight in combined mode when a menu type was detected.
func BrandUnderMenu(predicate string, combined, menu bool, current, override float64) float64 {
	if combined && menu && predicate == brandInfoPredicate {
		return override
	}
	return current
}

// BrandSoloElevated raises the brand-information weight for brand-only queries.
func BrandSoloElevated(predicate string, combined bool, current, override float64) float64 {
	if !combined && predicate == brandInfoPredicate {
		return override
	}
	return current
}
