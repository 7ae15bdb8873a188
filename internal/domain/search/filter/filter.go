package filter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kailas-cloud/menurank/internal/domain"
)

// MatchAll is the index expression used when neither filters nor free text are present.
const MatchAll = "*:*"

// Set is the user-selected structured filter state: section, category, tag and price range.
// It is read-only input to query construction.
type Set struct {
	section  string
	category string
	tag      string
	price    *Range
}

// NewSet creates a filter set. Empty values are ignored.
func NewSet(section, category, tag string, price *Range) Set {
	return Set{
		section:  strings.TrimSpace(section),
		category: strings.TrimSpace(category),
		tag:      strings.TrimSpace(tag),
		price:    price,
	}
}

// Category returns the menu category filter value.
func (s Set) Category() string { return s.category }

// HasCategory reports whether the set carries a quoted category-equality predicate.
func (s Set) HasCategory() bool { return s.category != "" }

// Conditions returns the active conditions in a fixed order: section, category, tag, price.
func (s Set) Conditions() []Condition {
	var out []Condition
	if s.section != "" {
		out = append(out, Condition{key: domain.FieldSection, match: s.section})
	}
	if s.category != "" {
		out = append(out, Condition{key: domain.FieldMenuCategory, match: s.category})
	}
	if s.tag != "" {
		out = append(out, Condition{key: domain.FieldTags, match: s.tag})
	}
	if s.price != nil {
		out = append(out, Condition{key: domain.FieldPrice, rangeExpr: s.price})
	}
	return out
}

// Expression renders the set as an AND of predicates, "" when empty.
func (s Set) Expression() string {
	return s.render("")
}

// ExpressionWithCategory renders the set with the category predicate replaced by categoryPredicate.
func (s Set) ExpressionWithCategory(categoryPredicate string) string {
	return s.render(categoryPredicate)
}

func (s Set) render(categoryOverride string) string {
	conds := s.Conditions()
	if len(conds) == 0 {
		return ""
	}
	parts := make([]string, 0, len(conds))
	for _, c := range conds {
		if categoryOverride != "" && c.key == domain.FieldMenuCategory {
			parts = append(parts, categoryOverride)
			continue
		}
		parts = append(parts, c.Predicate())
	}
	return strings.Join(parts, " AND ")
}

// Combine joins a filter expression and a free-text clause.
// Both present: "(filter) AND (text)"; one present: that one; none: MatchAll.
func Combine(filterExpr, textClause string) string {
	switch {
	case filterExpr != "" && textClause != "":
		return "(" + filterExpr + ") AND (" + textClause + ")"
	case filterExpr != "":
		return filterExpr
	case textClause != "":
		return textClause
	default:
		return MatchAll
	}
}

// Condition is a single filter clause: a field equality, or a numeric range when rangeExpr is set.
type Condition struct {
	key       string
	match     string
	rangeExpr *Range
}

// Predicate renders the condition in index query syntax.
func (c Condition) Predicate() string {
	if c.rangeExpr != nil {
		return c.key + ":" + c.rangeExpr.String()
	}
	return Equals(c.key, c.match)
}

// Range is a numeric range with gt/gte/lt/lte boundaries.
type Range struct {
	gt  *float64
	gte *float64
	lt  *float64
	lte *float64
}

// NewRangeFilter validates and creates a Range.
// At least one boundary required. gt/gte and lt/lte are mutually exclusive.
func NewRangeFilter(gt, gte, lt, lte *float64) (Range, error) {
	if gt == nil && gte == nil && lt == nil && lte == nil {
		return Range{}, fmt.Errorf("at least one range boundary is required")
	}
	if gt != nil && gte != nil {
		return Range{}, fmt.Errorf("cannot specify both gt and gte")
	}
	if lt != nil && lte != nil {
		return Range{}, fmt.Errorf("cannot specify both lt and lte")
	}
	return Range{gt: gt, gte: gte, lt: lt, lte: lte}, nil
}

// String renders the range as "[lo TO hi]", with "{"/"}" for exclusive bounds and "*" for open ones.
func (r Range) String() string {
	lower := "[*"
	if r.gt != nil {
		lower = "{" + formatBound(*r.gt)
	} else if r.gte != nil {
		lower = "[" + formatBound(*r.gte)
	}

	upper := "*]"
	if r.lt != nil {
		upper = formatBound(*r.lt) + "}"
	} else if r.lte != nil {
		upper = formatBound(*r.lte) + "]"
	}

	return lower + " TO " + upper
}

func formatBound(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
