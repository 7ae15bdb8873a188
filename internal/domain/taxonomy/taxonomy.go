// Package taxonomy holds the keyword tables that drive query classification:
// brand literals, category synonym groups and section type groups.
package taxonomy

import (
	"fmt"
	"strings"
)

// Type group names with special meaning for boosting and post-processing.
const (
	TypeStore = "store"
	TypeBrand = "brand"
	TypeMenu  = "menu"
)

// Group is an ordered set of synonymous patterns mapped to one target predicate.
type Group struct {
	name     string
	target   string
	patterns []string
}

// NewGroup validates and creates a Group. Patterns are lower-cased; order is preserved.
func NewGroup(name, target string, patterns []string) (Group, error) {
	if name == "" {
		return Group{}, fmt.Errorf("group name is required")
	}
	if target == "" {
		return Group{}, fmt.Errorf("group %q: target predicate is required", name)
	}
	if len(patterns) == 0 {
		return Group{}, fmt.Errorf("group %q: at least one pattern is required", name)
	}
	normalized := make([]string, 0, len(patterns))
	for _, p := range patterns {
		p = strings.ToLower(strings.Join(strings.Fields(p), " "))
		if p == "" {
			return Group{}, fmt.Errorf("group %q: empty pattern", name)
		}
		normalized = append(normalized, p)
	}
	return Group{name: name, target: target, patterns: normalized}, nil
}

// Name returns the group name.
func (g Group) Name() string { return g.name }

// Target returns the predicate the group maps to.
func (g Group) Target() string { return g.target }

// Patterns returns a copy of the group's patterns in priority order.
func (g Group) Patterns() []string {
	out := make([]string, len(g.patterns))
	copy(out, g.patterns)
	return out
}

// BrandTarget is one predicate a brand boosts, with solo and combined-mode weights.
type BrandTarget struct {
	predicate      string
	weight         float64
	combinedWeight float64
}

// NewBrandTarget creates a BrandTarget.
func NewBrandTarget(predicate string, weight, combinedWeight float64) (BrandTarget, error) {
	if predicate == "" {
		return BrandTarget{}, fmt.Errorf("brand target predicate is required")
	}
	if weight <= 0 || combinedWeight <= 0 {
		return BrandTarget{}, fmt.Errorf("brand target %q: weights must be positive", predicate)
	}
	return BrandTarget{predicate: predicate, weight: weight, combinedWeight: combinedWeight}, nil
}

// Predicate returns the boosted predicate.
func (t BrandTarget) Predicate() string { return t.predicate }

// Weight returns the table weight used outside combined mode.
func (t BrandTarget) Weight() float64 { return t.weight }

// CombinedWeight returns the table weight used in combined mode.
func (t BrandTarget) CombinedWeight() float64 { return t.combinedWeight }

// Brand is a single-token brand literal and the predicates it boosts.
type Brand struct {
	token   string
	targets []BrandTarget
}

// NewBrand validates and creates a Brand. The token must be a single word.
func NewBrand(token string, targets []BrandTarget) (Brand, error) {
	token = strings.ToLower(strings.TrimSpace(token))
	if token == "" {
		return Brand{}, fmt.Errorf("brand token is required")
	}
	if strings.ContainsAny(token, " \t\n") {
		return Brand{}, fmt.Errorf("brand token %q must be a single word", token)
	}
	if len(targets) == 0 {
		return Brand{}, fmt.Errorf("brand %q: at least one target is required", token)
	}
	return Brand{token: token, targets: append([]BrandTarget(nil), targets...)}, nil
}

// Token returns the brand literal.
func (b Brand) Token() string { return b.token }

// Targets returns a copy of the brand's targets in order.
func (b Brand) Targets() []BrandTarget {
	out := make([]BrandTarget, len(b.targets))
	copy(out, b.targets)
	return out
}

// Taxonomy is the full set of keyword tables. It is immutable once built.
type Taxonomy struct {
	brands     []Brand
	categories []Group
	types      []Group
}

// New validates and creates a Taxonomy. Group names must be unique within a table.
func New(brands []Brand, categories, types []Group) (Taxonomy, error) {
	seen := make(map[string]struct{}, len(brands))
	for _, b := range brands {
		if _, dup := seen[b.token]; dup {
			return Taxonomy{}, fmt.Errorf("duplicate brand %q", b.token)
		}
		seen[b.token] = struct{}{}
	}
	if err := uniqueNames("category", categories); err != nil {
		return Taxonomy{}, err
	}
	if err := uniqueNames("type", types); err != nil {
		return Taxonomy{}, err
	}
	return Taxonomy{
		brands:     append([]Brand(nil), brands...),
		categories: append([]Group(nil), categories...),
		types:      append([]Group(nil), types...),
	}, nil
}

func uniqueNames(table string, groups []Group) error {
	seen := make(map[string]struct{}, len(groups))
	for _, g := range groups {
		if _, dup := seen[g.name]; dup {
			return fmt.Errorf("duplicate %s group %q", table, g.name)
		}
		seen[g.name] = struct{}{}
	}
	return nil
}

// Brands returns the brand table.
func (t Taxonomy) Brands() []Brand { return append([]Brand(nil), t.brands...) }

// Categories returns the category table.
func (t Taxonomy) Categories() []Group { return append([]Group(nil), t.categories...) }

// Types returns the type table.
func (t Taxonomy) Types() []Group { return append([]Group(nil), t.types...) }

// Brand looks up a brand by token.
func (t Taxonomy) Brand(token string) (Brand, bool) {
	for _, b := range t.brands {
		if b.token == token {
			return b, true
		}
	}
	return Brand{}, false
}

// TypeGroup looks up a type group by name.
func (t Taxonomy) TypeGroup(name string) (Group, bool) {
	for _, g := range t.types {
		if g.name == name {
			return g, true
		}
	}
	return Group{}, false
}
