package taxonomy

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/menurank/internal/domain"
	"github.com/kailas-cloud/menurank/internal/domain/search/filter"
)

type fileTaxonomy struct {
	Brands     []fileBrand `yaml:"brands"`
	Categories []fileGroup `yaml:"categories"`
	Types      []fileGroup `yaml:"types"`
}

type fileBrand struct {
	Token   string            `yaml:"token"`
	Targets []fileBrandTarget `yaml:"targets"`
}

type fileBrandTarget struct {
	Section        string  `yaml:"section"`
	Predicate      string  `yaml:"predicate"`
	Weight         float64 `yaml:"weight"`
	CombinedWeight float64 `yaml:"combined_weight"`
}

type fileGroup struct {
	Name      string   `yaml:"name"`
	Value     string   `yaml:"value"`
	Predicate string   `yaml:"predicate"`
	Patterns  []string `yaml:"patterns"`
}

// Load reads a taxonomy YAML file.
func Load(path string) (Taxonomy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Taxonomy{}, fmt.Errorf("read taxonomy %s: %w", path, err)
	}
	t, err := Parse(data)
	if err != nil {
		return Taxonomy{}, fmt.Errorf("taxonomy %s: %w", path, err)
	}
	return t, nil
}

// Parse builds a Taxonomy from YAML. Category groups map "value" to a menu_category
// equality and type groups map it to a section equality; "predicate" overrides either.
// Brands without targets get DefaultBrandTargets.
func Parse(data []byte) (Taxonomy, error) {
	var raw fileTaxonomy
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Taxonomy{}, fmt.Errorf("parse taxonomy: %w", err)
	}

	brands := make([]Brand, 0, len(raw.Brands))
	for _, fb := range raw.Brands {
		targets := DefaultBrandTargets()
		if len(fb.Targets) > 0 {
			targets = make([]BrandTarget, 0, len(fb.Targets))
			for _, ft := range fb.Targets {
				pred := ft.Predicate
				if pred == "" && ft.Section != "" {
					pred = filter.Equals(domain.FieldSection, ft.Section)
				}
				bt, err := NewBrandTarget(pred, ft.Weight, ft.CombinedWeight)
				if err != nil {
					return Taxonomy{}, fmt.Errorf("brand %q: %w", fb.Token, err)
				}
				targets = append(targets, bt)
			}
		}
		b, err := NewBrand(fb.Token, targets)
		if err != nil {
			return Taxonomy{}, err
		}
		brands = append(brands, b)
	}

	categories, err := parseGroups(raw.Categories, domain.FieldMenuCategory)
	if err != nil {
		return Taxonomy{}, fmt.Errorf("categories: %w", err)
	}
	types, err := parseGroups(raw.Types, domain.FieldSection)
	if err != nil {
		return Taxonomy{}, fmt.Errorf("types: %w", err)
	}

	return New(brands, categories, types)
}

func parseGroups(raw []fileGroup, field string) ([]Group, error) {
	groups := make([]Group, 0, len(raw))
	for _, fg := range raw {
		pred := fg.Predicate
		if pred == "" && fg.Value != "" {
			pred = filter.Equals(field, fg.Value)
		}
		g, err := NewGroup(fg.Name, pred, fg.Patterns)
		if err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	return groups, nil
}
