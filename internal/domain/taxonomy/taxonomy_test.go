package taxonomy

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewGroup_Validation(t *testing.T) {
	tests := []struct {
		name     string
		group    string
		target   string
		patterns []string
		wantErr  bool
	}{
		{"valid", "drinks", `menu_category:"Drinks"`, []string{"drinks"}, false},
		{"empty name", "", `menu_category:"Drinks"`, []string{"drinks"}, true},
		{"empty target", "drinks", "", []string{"drinks"}, true},
		{"no patterns", "drinks", `menu_category:"Drinks"`, nil, true},
		{"blank pattern", "drinks", `menu_category:"Drinks"`, []string{"  "}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewGroup(tt.group, tt.target, tt.patterns)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewGroup() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewGroup_NormalizesPatterns(t *testing.T) {
	g, err := NewGroup("side", `menu_category:"Side Dishes"`, []string{"Side   Dish", "GYOZA"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := g.Patterns()
	if got[0] != "side dish" || got[1] != "gyoza" {
		t.Errorf("patterns = %v", got)
	}

	got[0] = "mutated"
	if g.Patterns()[0] != "side dish" {
		t.Error("Patterns() must return a copy")
	}
}

func TestNewBrand_SingleToken(t *testing.T) {
	targets := DefaultBrandTargets()
	if _, err := NewBrand("afuri ramen", targets); err == nil {
		t.Error("expected error for multi-word brand")
	}
	if _, err := NewBrand("", targets); err == nil {
		t.Error("expected error for empty brand")
	}
	if _, err := NewBrand("afuri", nil); err == nil {
		t.Error("expected error for brand without targets")
	}
	b, err := NewBrand(" AFURI ", targets)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.Token() != "afuri" {
		t.Errorf("token = %q, want afuri", b.Token())
	}
}

func TestNew_RejectsDuplicates(t *testing.T) {
	g, _ := NewGroup("drinks", `menu_category:"Drinks"`, []string{"drinks"})
	if _, err := New(nil, []Group{g, g}, nil); err == nil {
		t.Error("expected duplicate category error")
	}
	b, _ := NewBrand("afuri", DefaultBrandTargets())
	if _, err := New([]Brand{b, b}, nil, nil); err == nil {
		t.Error("expected duplicate brand error")
	}
}

func TestDefault(t *testing.T) {
	tax := Default()

	if _, ok := tax.Brand("afuri"); !ok {
		t.Error("default taxonomy must contain brand afuri")
	}
	for _, name := range []string{TypeStore, TypeBrand, TypeMenu} {
		if _, ok := tax.TypeGroup(name); !ok {
			t.Errorf("default taxonomy missing type group %q", name)
		}
	}
	menu, _ := tax.TypeGroup(TypeMenu)
	if menu.Target() != `section:"Menu"` {
		t.Errorf("menu target = %q", menu.Target())
	}

	var drinks Group
	for _, g := range tax.Categories() {
		if g.Name() == "drinks" {
			drinks = g
		}
	}
	if drinks.Target() != `menu_category:"Drinks"` {
		t.Errorf("drinks target = %q", drinks.Target())
	}
}

func TestParse(t *testing.T) {
	data := []byte(`
brands:
  - token: Afuri
  - token: ippudo
    targets:
      - section: Brand Information
        weight: 4
        combined_weight: 1
categories:
  - name: drinks
    value: Drinks
    patterns: [beverages, drinks]
types:
  - name: menu
    value: Menu
    patterns: [menu, food]
  - name: custom
    predicate: 'tags:"seasonal"'
    patterns: [seasonal]
`)
	tax, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	afuri, ok := tax.Brand("afuri")
	if !ok {
		t.Fatal("brand afuri not parsed")
	}
	if len(afuri.Targets()) != 2 {
		t.Errorf("afuri targets = %d, want default 2", len(afuri.Targets()))
	}

	ippudo, _ := tax.Brand("ippudo")
	targets := ippudo.Targets()
	if len(targets) != 1 || targets[0].Predicate() != `section:"Brand Information"` || targets[0].Weight() != 4 {
		t.Errorf("ippudo targets = %+v", targets)
	}

	if c := tax.Categories(); len(c) != 1 || c[0].Target() != `menu_category:"Drinks"` {
		t.Errorf("categories = %+v", c)
	}
	custom, ok := tax.TypeGroup("custom")
	if !ok || custom.Target() != `tags:"seasonal"` {
		t.Errorf("custom type = %+v", custom)
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"bad yaml", "brands: [::"},
		{"group without target", "categories:\n  - name: x\n    patterns: [x]\n"},
		{"brand target without weight", "brands:\n  - token: a\n    targets:\n      - section: S\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.data)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "taxonomy.yaml")
	if err := os.WriteFile(path, []byte("types:\n  - name: store\n    value: Store Information\n    patterns: [store]\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	tax, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if _, ok := tax.TypeGroup(TypeStore); !ok {
		t.Error("store type not loaded")
	}

	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoad_ShippedFileMatchesDefault(t *testing.T) {
	tax, err := Load(filepath.Join("..", "..", "..", "config", "taxonomy.yaml"))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	def := Default()

	if len(tax.Brands()) != len(def.Brands()) {
		t.Errorf("brands = %d, want %d", len(tax.Brands()), len(def.Brands()))
	}
	for i, g := range def.Categories() {
		got := tax.Categories()[i]
		if got.Name() != g.Name() || got.Target() != g.Target() || len(got.Patterns()) != len(g.Patterns()) {
			t.Errorf("category %d = %s %s, want %s %s", i, got.Name(), got.Target(), g.Name(), g.Target())
		}
	}
	for i, g := range def.Types() {
		got := tax.Types()[i]
		if got.Name() != g.Name() || got.Target() != g.Target() {
			t.Errorf("type %d = %s %s, want %s %s", i, got.Name(), got.Target(), g.Name(), g.Target())
		}
	}
	brand, _ := tax.Brand("afuri")
	defBrand, _ := def.Brand("afuri")
	for i, bt := range defBrand.Targets() {
		if brand.Targets()[i] != bt {
			t.Errorf("afuri target %d = %+v, want %+v", i, brand.Targets()[i], bt)
		}
	}
}
