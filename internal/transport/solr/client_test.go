package solr

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/kailas-cloud/menurank/internal/domain"
	"github.com/kailas-cloud/menurank/internal/domain/search/query"
	logpkg "github.com/kailas-cloud/menurank/internal/logger"
)

const selectBody = `{
  "responseHeader": {"status": 0},
  "response": {
    "numFound": 2,
    "docs": [
      {"id": "menu-1", "title": ["Yuzu Shio Ramen"], "section": "Menu", "tags": ["yuzu", "shio"], "price": 1390, "score": 12.5},
      {"id": "brand-1", "title": "AFURI", "section": ["Brand Information"], "tags": [], "score": 3.25}
    ]
  }
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(&Config{BaseURL: srv.URL, Core: "menus", Timeout: 2 * time.Second})
}

func TestSelect_Params(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/solr/menus/select" {
			t.Errorf("path = %s", r.URL.Path)
		}
		q := r.URL.Query()
		want := map[string]string{
			"q":       `afuri`,
			"defType": "edismax",
			"qf":      "title^3 content^1",
			"pf":      "title^6",
			"bq":      `section:"Brand Information"^9 section:"Store Information"^3`,
			"mm":      "2<75%",
			"rows":    "50",
			"fl":      "*,score",
			"wt":      "json",
		}
		for k, v := range want {
			if got := q.Get(k); got != v {
				t.Errorf("param %s = %q, want %q", k, got, v)
			}
		}
		if r.Header.Get("X-Request-ID") != "req-1" {
			t.Errorf("X-Request-ID = %q", r.Header.Get("X-Request-ID"))
		}
		_, _ = w.Write([]byte(selectBody))
	})

	ctx := logpkg.ContextWithRequestID(context.Background(), "req-1")
	_, err := c.Select(ctx, query.Params{
		Query: "afuri",
		QF:    "title^3 content^1",
		PF:    "title^6",
		BQ:    `section:"Brand Information"^9 section:"Store Information"^3`,
		MM:    "2<75%",
		Rows:  50,
	})
	if err != nil {
		t.Fatalf("Select() error: %v", err)
	}
}

func TestSelect_OmitsEmptyOptionalParams(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		for _, k := range []string{"qf", "pf", "bq", "mm"} {
			if q.Has(k) {
				t.Errorf("param %s should be omitted", k)
			}
		}
		if q.Get("q") != "*:*" || q.Get("rows") != "0" {
			t.Errorf("q=%q rows=%q", q.Get("q"), q.Get("rows"))
		}
		_, _ = w.Write([]byte(`{"response":{"numFound":1234,"docs":[]}}`))
	})

	n, err := c.Count(context.Background())
	if err != nil {
		t.Fatalf("Count() error: %v", err)
	}
	if n != 1234 {
		t.Errorf("Count() = %d, want 1234", n)
	}
}

func TestSelect_NormalizesFields(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(selectBody))
	})

	page, err := c.Select(context.Background(), query.Params{Query: "*:*", Rows: 10})
	if err != nil {
		t.Fatalf("Select() error: %v", err)
	}
	if page.NumFound != 2 || len(page.Candidates) != 2 {
		t.Fatalf("page = %+v", page)
	}

	menu := page.Candidates[0]
	if menu.ID() != "menu-1" {
		t.Errorf("ID() = %q", menu.ID())
	}
	if menu.Field("title") != "Yuzu Shio Ramen" {
		t.Errorf("single-element array must unwrap, got %q", menu.Field("title"))
	}
	if menu.Field("tags") != "yuzu, shio" {
		t.Errorf("tags text = %q", menu.Field("tags"))
	}
	if got := menu.List("tags"); len(got) != 2 || got[1] != "shio" {
		t.Errorf("tags list = %v", got)
	}
	if menu.Field("price") != "1390" {
		t.Errorf("price = %q", menu.Field("price"))
	}
	if menu.LexicalScore() != 12.5 {
		t.Errorf("LexicalScore() = %v", menu.LexicalScore())
	}
	if _, ok := menu.Fields()["score"]; ok {
		t.Error("score must not be kept as a field")
	}

	brand := page.Candidates[1]
	if brand.Section() != "Brand Information" {
		t.Errorf("Section() = %q", brand.Section())
	}
	if _, ok := brand.Fields()["tags"]; ok {
		t.Error("empty arrays must be dropped")
	}
}

func TestSelect_MalformedBodyIsEmpty(t *testing.T) {
	bodies := []string{"", "not json", `{"response": {"numFound": 3, "docs": [`, `{"responseHeader":{}}`}
	for _, body := range bodies {
		t.Run(body, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(body))
			})
			page, err := c.Select(context.Background(), query.Params{Query: "x", Rows: 10})
			if err != nil {
				t.Fatalf("malformed body must not be an error: %v", err)
			}
			if page.NumFound != 0 || len(page.Candidates) != 0 {
				t.Errorf("page = %+v, want empty", page)
			}
		})
	}
}

func TestSelect_ErrorClassification(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		sentinel error
		cause    domain.IndexCause
	}{
		{"forbidden is cross-origin", http.StatusForbidden, "origin not allowed", domain.ErrIndexCrossOrigin, domain.CauseCrossOrigin},
		{"server error", http.StatusInternalServerError, `{"error":{"msg":"undefined field foo","code":500}}`, domain.ErrIndexUnknown, domain.CauseUnknown},
		{"bad request", http.StatusBadRequest, "", domain.ErrIndexUnknown, domain.CauseUnknown},
		{"not found", http.StatusNotFound, "no core", domain.ErrIndexUnknown, domain.CauseUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})
			_, err := c.Select(context.Background(), query.Params{Query: "x", Rows: 10})
			if !errors.Is(err, tt.sentinel) {
				t.Fatalf("error = %v, want %v", err, tt.sentinel)
			}
			var ie *domain.IndexError
			if !errors.As(err, &ie) {
				t.Fatalf("error %T is not *domain.IndexError", err)
			}
			if ie.Cause != tt.cause || ie.Status != tt.status || ie.Op != "select" {
				t.Errorf("IndexError = %+v", ie)
			}
		})
	}
}

func TestSelect_SolrErrorMessage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"msg":"undefined field foo"}}`))
	})
	_, err := c.Select(context.Background(), query.Params{Query: "x", Rows: 10})
	var ie *domain.IndexError
	if !errors.As(err, &ie) {
		t.Fatalf("error = %v", err)
	}
	if ie.Err.Error() != "undefined field foo" {
		t.Errorf("detail = %q", ie.Err.Error())
	}
}

func TestSelect_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := NewClient(&Config{BaseURL: url, Core: "menus", Timeout: time.Second})
	_, err := c.Select(context.Background(), query.Params{Query: "x", Rows: 10})
	if !errors.Is(err, domain.ErrIndexUnreachable) {
		t.Fatalf("error = %v, want ErrIndexUnreachable", err)
	}
}

func TestSelect_TimeoutIsConnectivity(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		<-release
	}))
	t.Cleanup(srv.Close)
	t.Cleanup(func() { close(release) })

	c := NewClient(&Config{BaseURL: srv.URL, Core: "menus", Timeout: 50 * time.Millisecond})
	_, err := c.Select(context.Background(), query.Params{Query: "x", Rows: 10})
	if !errors.Is(err, domain.ErrIndexUnreachable) {
		t.Fatalf("error = %v, want ErrIndexUnreachable", err)
	}
}

func TestClient_SendsOrigin(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Origin") != "http://localhost:8000" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		_, _ = w.Write([]byte(`{"status":"OK"}`))
	}))
	t.Cleanup(srv.Close)

	withOrigin := NewClient(&Config{BaseURL: srv.URL, Core: "menus", Origin: "http://localhost:8000"})
	if err := withOrigin.Ping(context.Background()); err != nil {
		t.Errorf("Ping() with origin error: %v", err)
	}

	without := NewClient(&Config{BaseURL: srv.URL, Core: "menus"})
	if err := without.Ping(context.Background()); !errors.Is(err, domain.ErrIndexCrossOrigin) {
		t.Errorf("Ping() without origin = %v, want ErrIndexCrossOrigin", err)
	}
}

func TestPing(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{"ok", `{"status":"OK"}`, false},
		{"no status", `{}`, false},
		{"not ok", `{"status":"FAIL"}`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/solr/menus/admin/ping" {
					t.Errorf("path = %s", r.URL.Path)
				}
				_, _ = w.Write([]byte(tt.body))
			})
			err := c.Ping(context.Background())
			if (err != nil) != tt.wantErr {
				t.Errorf("Ping() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
