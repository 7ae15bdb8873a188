package chi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/kailas-cloud/menurank/internal/domain"
	"github.com/kailas-cloud/menurank/internal/transport/semantic"
	rerankuc "github.com/kailas-cloud/menurank/internal/usecase/rerank"
)

type vectorEmbedder map[string][]float32

func (m vectorEmbedder) Embed(_ context.Context, text string) (domain.EmbeddingResult, error) {
	v, ok := m[text]
	if !ok {
		return domain.EmbeddingResult{}, errors.New("no vector")
	}
	return domain.EmbeddingResult{Embedding: v}, nil
}

type fixedAvailability bool

func (a fixedAvailability) Available() bool { return bool(a) }

type countingRegistry struct{ n int64 }

func (r *countingRegistry) SAdd(_ context.Context, _ string, members ...string) error {
	r.n += int64(len(members))
	return nil
}

func (r *countingRegistry) SCard(context.Context, string) (int64, error) { return r.n, nil }

func newSemanticRouter(available bool, reg rerankuc.Registry) http.Handler {
	emb := vectorEmbedder{
		"yuzu ramen":      {1, 0},
		"Yuzu Shio Ramen": {1, 0},
		"Lemon Sour":      {0, 1},
	}
	svc := rerankuc.New(rerankuc.Config{
		QueryEmbedder:    emb,
		DocumentEmbedder: emb,
		Availability:     fixedAvailability(available),
		Registry:         reg,
	})
	r := chi.NewRouter()
	NewSemanticServer(svc, nil).Mount(r)
	return r
}

func postRerank(t *testing.T, h http.Handler, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/semantic/rerank", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func rerankBody(t *testing.T) []byte {
	t.Helper()
	b, err := json.Marshal(semantic.RerankRequest{
		Query: "yuzu ramen",
		Candidates: []semantic.Candidate{
			{ID: "drink", Fields: map[string]string{"title": "Lemon Sour"}, Score: 9},
			{ID: "ramen", Fields: map[string]string{"title": "Yuzu Shio Ramen"}, Score: 5},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func TestSemanticServer_Rerank(t *testing.T) {
	reg := &countingRegistry{}
	h := newSemanticRouter(true, reg)

	rr := postRerank(t, h, rerankBody(t))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}

	var resp semantic.RerankResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if !resp.Success || len(resp.Results) != 2 {
		t.Fatalf("response = %+v", resp)
	}
	// ramen: 0.6*0.5 + 0.4*1 = 0.7; drink: 0.6*0.9 + 0 = 0.54
	if resp.Results[0].ID != "ramen" {
		t.Errorf("first = %s, want ramen", resp.Results[0].ID)
	}
	if resp.Results[0].SemanticScore != 1 || resp.Results[0].KeywordScore != 0.5 {
		t.Errorf("scores = %+v", resp.Results[0])
	}
	if resp.Results[0].Fields["title"] != "Yuzu Shio Ramen" {
		t.Errorf("fields not echoed: %+v", resp.Results[0].Fields)
	}
	if reg.n != 2 {
		t.Errorf("registered = %d, want 2", reg.n)
	}
}

func TestSemanticServer_RerankHonorsZeroKeywordWeight(t *testing.T) {
	body := []byte(`{"query": "yuzu ramen", "keyword_weight": 0, "semantic_weight": 1, "candidates": [
		{"id": "drink", "title": "Lemon Sour", "score": 9},
		{"id": "ramen", "title": "Yuzu Shio Ramen", "score": 5}
	]}`)
	rr := postRerank(t, newSemanticRouter(true, nil), body)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}

	var resp semantic.RerankResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Results) != 2 {
		t.Fatalf("response = %+v", resp)
	}
	// drink: keyword 0.9 but weight 0, cosine 0.
	for _, r := range resp.Results {
		if r.ID == "drink" && r.CombinedScore != 0 {
			t.Errorf("drink combined = %v, want 0", r.CombinedScore)
		}
		if r.ID == "ramen" && r.CombinedScore != 1 {
			t.Errorf("ramen combined = %v, want 1", r.CombinedScore)
		}
	}
}

func TestSemanticServer_RerankUnavailable(t *testing.T) {
	h := newSemanticRouter(false, nil)

	rr := postRerank(t, h, rerankBody(t))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	var resp semantic.RerankResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Success || resp.Message != rerankuc.MessageUnavailable {
		t.Errorf("response = %+v", resp)
	}
	if len(resp.Results) != 2 || resp.Results[0].ID != "drink" {
		t.Errorf("results must keep input order: %+v", resp.Results)
	}
}

func TestSemanticServer_InvalidJSON(t *testing.T) {
	rr := postRerank(t, newSemanticRouter(true, nil), []byte("{not json"))
	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rr.Code)
	}
}

func TestSemanticServer_Status(t *testing.T) {
	h := newSemanticRouter(true, &countingRegistry{n: 42})

	req := httptest.NewRequest(http.MethodGet, "/semantic/status", http.NoBody)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	var st semantic.Status
	if err := json.NewDecoder(rr.Body).Decode(&st); err != nil {
		t.Fatal(err)
	}
	if !st.Available || st.EmbeddingsCount != 42 {
		t.Errorf("status = %+v", st)
	}
}

func TestSemanticServer_NotFound(t *testing.T) {
	h := newSemanticRouter(true, nil)

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/semantic/unknown"},
		{http.MethodGet, "/semantic/rerank"},
		{http.MethodPost, "/"},
	} {
		req := httptest.NewRequest(tc.method, tc.path, http.NoBody)
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		if rr.Code != http.StatusNotFound {
			t.Errorf("%s %s: status = %d, want 404", tc.method, tc.path, rr.Code)
		}
	}
}

func TestSemanticServer_ClientRoundTrip(t *testing.T) {
	srv := httptest.NewServer(newSemanticRouter(true, nil))
	defer srv.Close()

	client := semantic.NewClient(&semantic.Config{BaseURL: srv.URL})
	if err := client.HealthCheck(context.Background()); err != nil {
		t.Fatalf("HealthCheck() error: %v", err)
	}

	var req semantic.RerankRequest
	if err := json.Unmarshal(rerankBody(t), &req); err != nil {
		t.Fatal(err)
	}
	resp, err := client.Rerank(context.Background(), req)
	if err != nil {
		t.Fatalf("Rerank() error: %v", err)
	}
	if len(resp.Results) != 2 || resp.Results[0].ID != "ramen" {
		t.Errorf("results = %+v", resp.Results)
	}
}
