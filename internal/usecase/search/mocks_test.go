package search

import (
	"context"

	"github.com/kailas-cloud/menurank/internal/domain/score"
	"github.com/kailas-cloud/menurank/internal/domain/search/candidate"
	"github.com/kailas-cloud/menurank/internal/domain/search/query"
)

// --- Mocks ---

type mockIndex struct {
	pages  []candidate.Page // returned in order; the last one repeats
	err    error
	errAt  int // call index (0-based) that fails, -1 for never
	params []query.Params
}

func newMockIndex(pages ...candidate.Page) *mockIndex {
	return &mockIndex{pages: pages, errAt: -1}
}

func (m *mockIndex) Select(_ context.Context, p query.Params) (candidate.Page, error) {
	call := len(m.params)
	m.params = append(m.params, p)
	if m.err != nil && (m.errAt < 0 || m.errAt == call) {
		return candidate.Page{}, m.err
	}
	if len(m.pages) == 0 {
		return candidate.Page{}, nil
	}
	if call >= len(m.pages) {
		return m.pages[len(m.pages)-1], nil
	}
	return m.pages[call], nil
}

type mockScorer struct {
	hits   []score.Hit
	err    error
	called bool
	query  string
	blend  score.Blend
	sent   []candidate.Candidate
}

func (m *mockScorer) Score(
	_ context.Context, q string, cs []candidate.Candidate, blend score.Blend,
) ([]score.Hit, error) {
	m.called = true
	m.query = q
	m.blend = blend
	m.sent = cs
	return m.hits, m.err
}

type staticAvailability bool

func (a staticAvailability) Available() bool { return bool(a) }

func doc(id, section string, lexical float64) candidate.Candidate {
	return candidate.New(id, map[string]string{"id": id, "section": section}, nil, lexical)
}

func ids(cs []candidate.Candidate) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.ID()
	}
	return out
}
