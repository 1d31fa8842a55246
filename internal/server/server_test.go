package server_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/FAU-CDI/ntparse/internal/server"
	"github.com/FAU-CDI/ntparse/internal/store"
)

// cspell:words nquads

func newServer(t *testing.T) (*server.Server, *store.Store) {
	t.Helper()

	st, err := store.New(store.NewEngine(""))
	if err != nil {
		t.Fatalf("store.New() returned error %v", err)
	}
	t.Cleanup(func() { st.Close() })

	return &server.Server{Store: st}, st
}

func do(t *testing.T, handler http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

const serverDocument = `# a comment
<http://example.org/alice> <http://xmlns.com/foaf/0.1/name> "Alice" .
<http://example.org/alice> <http://xmlns.com/foaf/0.1/knows> _:bob .
`

func TestServer_parse(t *testing.T) {
	srv, st := newServer(t)

	rec := do(t, srv, http.MethodPost, "/api/v1/parse", serverDocument)
	if rec.Code != http.StatusOK {
		t.Fatalf("parse returned status %d: %s", rec.Code, rec.Body.String())
	}

	var res server.ParseResponse
	if err := json.NewDecoder(rec.Body).Decode(&res); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if res.Triples != 2 {
		t.Errorf("parse reported %d triples, want 2", res.Triples)
	}
	if st.Len() != 2 {
		t.Errorf("store holds %d triples, want 2", st.Len())
	}
}

func TestServer_parse_error(t *testing.T) {
	tests := []struct {
		name     string
		target   string
		body     string
		wantLine int
	}{
		{"bad line", "/api/v1/parse", "<http://example.org/a> <http://example.org/b> \"c\" .\nnot a triple\n", 2},
		{"strict raw unicode", "/api/v1/parse?strict=1", "<http://example.org/a> <http://example.org/b> \"Räk\" .\n", 1},
		{"invalid strict", "/api/v1/parse?strict=maybe", "", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := newServer(t)

			rec := do(t, srv, http.MethodPost, tt.target, tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("parse returned status %d, want %d", rec.Code, http.StatusBadRequest)
			}

			var res server.ErrorResponse
			if err := json.NewDecoder(rec.Body).Decode(&res); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if res.Error == "" {
				t.Error("parse returned an empty error")
			}
			if res.Line != tt.wantLine {
				t.Errorf("parse returned line %d, want %d", res.Line, tt.wantLine)
			}
		})
	}
}

func TestServer_parse_nothingCommitted(t *testing.T) {
	srv, st := newServer(t)

	body := "<http://example.org/a> <http://example.org/b> \"c\" .\n" +
		"<http://example.org/resource32> 3 <http://example.org/datatype1> .\n"

	rec := do(t, srv, http.MethodPost, "/api/v1/parse", body)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("parse returned status %d, want %d", rec.Code, http.StatusBadRequest)
	}

	var res server.ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&res); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if res.Line != 2 {
		t.Errorf("parse returned line %d, want 2", res.Line)
	}
	if st.Len() != 0 {
		t.Errorf("store holds %d triples after a failed parse, want 0", st.Len())
	}
}

func TestServer_parse_finalized(t *testing.T) {
	srv, st := newServer(t)
	if err := st.Finalize(); err != nil {
		t.Fatal(err)
	}

	rec := do(t, srv, http.MethodPost, "/api/v1/parse", serverDocument)
	if rec.Code != http.StatusConflict {
		t.Errorf("parse returned status %d, want %d", rec.Code, http.StatusConflict)
	}
}

func TestServer_stats(t *testing.T) {
	srv, _ := newServer(t)
	do(t, srv, http.MethodPost, "/api/v1/parse", serverDocument)
	do(t, srv, http.MethodPost, "/api/v1/parse", serverDocument)

	rec := do(t, srv, http.MethodGet, "/api/v1/stats", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("stats returned status %d", rec.Code)
	}

	var stats store.Stats
	if err := json.NewDecoder(rec.Body).Decode(&stats); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if stats.Triples != 2 || stats.Duplicates != 2 {
		t.Errorf("stats returned %d triples and %d duplicates, want 2 and 2", stats.Triples, stats.Duplicates)
	}
}

func TestServer_triples(t *testing.T) {
	srv, _ := newServer(t)
	do(t, srv, http.MethodPost, "/api/v1/parse", serverDocument)

	rec := do(t, srv, http.MethodGet, "/api/v1/triples", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("triples returned status %d", rec.Code)
	}

	want := "<http://example.org/alice> <http://xmlns.com/foaf/0.1/name> \"Alice\" .\n" +
		"<http://example.org/alice> <http://xmlns.com/foaf/0.1/knows> _:bob .\n"
	if got, _ := io.ReadAll(rec.Body); string(got) != want {
		t.Errorf("triples returned %q, want %q", got, want)
	}
}

func TestServer_nquads(t *testing.T) {
	srv, _ := newServer(t)
	do(t, srv, http.MethodPost, "/api/v1/parse", serverDocument)

	rec := do(t, srv, http.MethodGet, "/api/v1/nquads?graph=http://example.org/g", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("nquads returned status %d", rec.Code)
	}
	if got := strings.Count(rec.Body.String(), "<http://example.org/g> ."); got != 2 {
		t.Errorf("nquads returned %d quads in the graph, want 2: %s", got, rec.Body.String())
	}
}

func TestServer_methodNotAllowed(t *testing.T) {
	srv, _ := newServer(t)

	rec := do(t, srv, http.MethodGet, "/api/v1/parse", "")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET parse returned status %d, want %d", rec.Code, http.StatusMethodNotAllowed)
	}
}
