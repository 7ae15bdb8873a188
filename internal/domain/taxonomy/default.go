package taxonomy

import (
	"github.com/kailas-cloud/menurank/internal/domain"
	"github.com/kailas-cloud/menurank/internal/domain/search/filter"
)

// Default brand target weights: solo, combined.
const (
	BrandInfoWeight         = 5.0
	BrandInfoCombinedWeight = 2.0
	StoreInfoWeight         = 3.0
	StoreInfoCombinedWeight = 1.5
)

// Default returns the built-in catalog taxonomy. Patterns are ordered longest-first
// so the reported pattern is the most specific one. Short single words that occur
// inside common query words ("rice" in "price", "eat" in "great") are left out.
func Default() Taxonomy {
	brandTargets := DefaultBrandTargets()

	brands := []Brand{
		mustBrand("afuri", brandTargets),
		mustBrand("ippudo", brandTargets),
	}

	categories := []Group{
		mustCategory("drinks", "Drinks", "beverages", "beverage", "drinks", "drink", "beer", "sake"),
		mustCategory("side_dishes", "Side Dishes", "side dishes", "side dish", "appetizer", "sides", "gyoza"),
		mustCategory("ramen", "Ramen", "noodles", "noodle", "ramen"),
		mustCategory("tsukemen", "Tsukemen", "dipping noodles", "tsukemen"),
		mustCategory("rice", "Rice", "rice bowls", "rice bowl", "donburi"),
		mustCategory("dessert", "Dessert", "desserts", "dessert", "sweets"),
	}

	types := []Group{
		mustType(TypeStore, domain.SectionStore, "locations", "location", "address", "branch", "stores", "store", "shops", "shop"),
		mustType(TypeBrand, domain.SectionBrand, "company", "history", "brand", "story", "about"),
		mustType(TypeMenu, domain.SectionMenu, "dishes", "menu", "food", "dish"),
	}

	t, err := New(brands, categories, types)
	if err != nil {
		panic("taxonomy: invalid default: " + err.Error())
	}
	return t
}

// DefaultBrandTargets returns the brand-information and store-information targets every default brand boosts.
func DefaultBrandTargets() []BrandTarget {
	return []BrandTarget{
		{
			predicate:      filter.Equals(domain.FieldSection, domain.SectionBrand),
			weight:         BrandInfoWeight,
			combinedWeight: BrandInfoCombinedWeight,
		},
		{
			predicate:      filter.Equals(domain.FieldSection, domain.SectionStore),
			weight:         StoreInfoWeight,
			combinedWeight: StoreInfoCombinedWeight,
		},
	}
}

func mustBrand(token string, targets []BrandTarget) Brand {
	b, err := NewBrand(token, targets)
	if err != nil {
		panic(err)
	}
	return b
}

func mustCategory(name, value string, patterns ...string) Group {
	g, err := NewGroup(name, filter.Equals(domain.FieldMenuCategory, value), patterns)
	if err != nil {
		panic(err)
	}
	return g
}

func mustType(name, section string, patterns ...string) Group {
	g, err := NewGroup(name, filter.Equals(domain.FieldSection, section), patterns)
	if err != nil {
		panic(err)
	}
	return g
}
