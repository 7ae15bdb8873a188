package search

import (
	"context"
	"errors"
	"testing"

	"github.com/kailas-cloud/menurank/internal/domain"
	"github.com/kailas-cloud/menurank/internal/domain/boost"
	"github.com/kailas-cloud/menurank/internal/domain/search/candidate"
	"github.com/kailas-cloud/menurank/internal/domain/search/filter"
)

func TestOrchestrator_QueryConstruction(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		filters filter.Set
		wantQ   string
	}{
		{"match all", "", filter.Set{}, "*:*"},
		{"text only", "yuzu ramen", filter.Set{}, "yuzu ramen"},
		{"escaped text", "c++ (spicy)", filter.Set{}, `c\+\+ \(spicy\)`},
		{"filter only", "  ", filter.NewSet("Menu", "", "", nil), `section:"Menu"`},
		{
			"filter and text", "yuzu", filter.NewSet("Menu", "Ramen", "", nil),
			`(section:"Menu" AND menu_category:"Ramen") AND (yuzu)`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx := newMockIndex(candidate.Page{NumFound: 1, Candidates: []candidate.Candidate{doc("a", "Menu", 1)}})
			o := NewOrchestrator(idx, DefaultFields(), nil)

			if _, err := o.Search(context.Background(), tt.query, tt.filters, nil, 0); err != nil {
				t.Fatalf("Search() error: %v", err)
			}
			if got := idx.params[0].Query; got != tt.wantQ {
				t.Errorf("q = %q, want %q", got, tt.wantQ)
			}
		})
	}
}

func TestOrchestrator_Params(t *testing.T) {
	idx := newMockIndex()
	o := NewOrchestrator(idx, Fields{QF: "title^3", PF: "title^6", MM: "1", DefaultRows: 50, MaxRows: 200}, nil)

	boosts := []boost.Term{
		{Predicate: `section:"Brand Information"`, Weight: 9},
		{Predicate: `section:"Store Information"`, Weight: 3},
	}
	if _, err := o.Search(context.Background(), "afuri", filter.Set{}, boosts, 500); err != nil {
		t.Fatalf("Search() error: %v", err)
	}

	p := idx.params[0]
	if p.QF != "title^3" || p.PF != "title^6" || p.MM != "1" {
		t.Errorf("field params = %+v", p)
	}
	if p.BQ != `section:"Brand Information"^9 section:"Store Information"^3` {
		t.Errorf("bq = %q", p.BQ)
	}
	if p.Rows != 200 {
		t.Errorf("rows = %d, want capped 200", p.Rows)
	}
}

func TestOrchestrator_DefaultRows(t *testing.T) {
	idx := newMockIndex()
	o := NewOrchestrator(idx, DefaultFields(), nil)
	if _, err := o.Search(context.Background(), "x", filter.Set{}, nil, 0); err != nil {
		t.Fatal(err)
	}
	if idx.params[0].Rows != 50 {
		t.Errorf("rows = %d, want 50", idx.params[0].Rows)
	}
}

func TestOrchestrator_RetryOnUnquotedToken(t *testing.T) {
	hit := candidate.Page{NumFound: 2, Candidates: []candidate.Candidate{doc("r1", "Menu", 5), doc("r2", "Menu", 4)}}
	idx := newMockIndex(candidate.Page{}, hit)
	o := NewOrchestrator(idx, DefaultFields(), nil)

	page, err := o.Search(context.Background(), "", filter.NewSet("", "Ramen", "", nil), nil, 10)
	if err != nil {
		t.Fatalf("Search() error: %v", err)
	}
	if len(idx.params) != 2 {
		t.Fatalf("index calls = %d, want 2", len(idx.params))
	}
	if idx.params[0].Query != `menu_category:"Ramen"` {
		t.Errorf("first q = %q", idx.params[0].Query)
	}
	if idx.params[1].Query != `menu_category:Ramen` {
		t.Errorf("retry q = %q", idx.params[1].Query)
	}
	if page.Encoding != "unquoted" || page.NumFound != 2 || len(page.Candidates) != 2 {
		t.Errorf("page = %+v", page)
	}
}

func TestOrchestrator_RetryLadderOrder(t *testing.T) {
	idx := newMockIndex(candidate.Page{})
	o := NewOrchestrator(idx, DefaultFields(), nil)

	filters := filter.NewSet("Menu", "Side Dishes", "", nil)
	page, err := o.Search(context.Background(), "gyoza", filters, nil, 10)
	if err != nil {
		t.Fatalf("Search() error: %v", err)
	}
	if len(page.Candidates) != 0 || page.NumFound != 0 {
		t.Errorf("exhausted ladder must return empty, got %+v", page)
	}

	want := []string{
		`(section:"Menu" AND menu_category:"Side Dishes") AND (gyoza)`,
		`(section:"Menu" AND menu_category:Side\ Dishes) AND (gyoza)`,
		`(section:"Menu" AND menu_category:*Side\ Dishes*) AND (gyoza)`,
		`(section:"Menu" AND menu_category:"side dishes") AND (gyoza)`,
		`(section:"Menu" AND menu_category:"SIDE DISHES") AND (gyoza)`,
	}
	if len(idx.params) != len(want) {
		t.Fatalf("index calls = %d, want %d", len(idx.params), len(want))
	}
	for i, q := range want {
		if idx.params[i].Query != q {
			t.Errorf("attempt %d q = %q, want %q", i, idx.params[i].Query, q)
		}
	}
}

func TestOrchestrator_RetryStopsAtFirstHit(t *testing.T) {
	hit := candidate.Page{NumFound: 1, Candidates: []candidate.Candidate{doc("d1", "Menu", 1)}}
	idx := newMockIndex(candidate.Page{}, candidate.Page{}, candidate.Page{}, hit, candidate.Page{})
	o := NewOrchestrator(idx, DefaultFields(), nil)

	page, err := o.Search(context.Background(), "", filter.NewSet("", "Drinks", "", nil), nil, 10)
	if err != nil {
		t.Fatal(err)
	}
	if page.Encoding != "lowercase" {
		t.Errorf("encoding = %q, want lowercase", page.Encoding)
	}
	if len(idx.params) != 4 {
		t.Errorf("index calls = %d, want 4", len(idx.params))
	}
}

func TestOrchestrator_NoRetryWithoutCategory(t *testing.T) {
	idx := newMockIndex(candidate.Page{})
	o := NewOrchestrator(idx, DefaultFields(), nil)

	page, err := o.Search(context.Background(), "nothing", filter.NewSet("Menu", "", "yuzu", nil), nil, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(idx.params) != 1 {
		t.Errorf("index calls = %d, want 1", len(idx.params))
	}
	if page.Encoding != EncodingPrimary {
		t.Errorf("encoding = %q", page.Encoding)
	}
}

func TestOrchestrator_ErrorsAreFatal(t *testing.T) {
	for _, sentinel := range []error{domain.ErrIndexUnreachable, domain.ErrIndexCrossOrigin, domain.ErrIndexUnknown} {
		t.Run(sentinel.Error(), func(t *testing.T) {
			idx := newMockIndex()
			idx.err = sentinel
			o := NewOrchestrator(idx, DefaultFields(), nil)

			_, err := o.Search(context.Background(), "x", filter.Set{}, nil, 10)
			if !errors.Is(err, sentinel) {
				t.Errorf("error = %v, want %v", err, sentinel)
			}
		})
	}
}

func TestOrchestrator_RetryErrorIsFatal(t *testing.T) {
	idx := newMockIndex(candidate.Page{})
	idx.err = domain.NewIndexError(domain.CauseConnectivity, "select", 0, errors.New("connection reset"))
	idx.errAt = 2
	o := NewOrchestrator(idx, DefaultFields(), nil)

	_, err := o.Search(context.Background(), "", filter.NewSet("", "Ramen", "", nil), nil, 10)
	if !errors.Is(err, domain.ErrIndexUnreachable) {
		t.Fatalf("error = %v, want ErrIndexUnreachable", err)
	}
	var ie *domain.IndexError
	if !errors.As(err, &ie) || ie.Cause != domain.CauseConnectivity {
		t.Errorf("error chain lost IndexError: %v", err)
	}
}

func TestOrchestrator_EmptyFieldsUseDefaults(t *testing.T) {
	idx := newMockIndex()
	o := NewOrchestrator(idx, Fields{}, nil)
	if _, err := o.Search(context.Background(), "gyoza", filter.Set{}, nil, 0); err != nil {
		t.Fatal(err)
	}

	want := DefaultFields()
	p := idx.params[0]
	if p.QF != want.QF || p.PF != want.PF || p.MM != want.MM {
		t.Errorf("params = %+v, want default field weighting", p)
	}
}
