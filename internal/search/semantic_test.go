package search

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ppiankov/factguard/internal/model"
)

func TestSemanticScholarRequestParams(t *testing.T) {
	var captured *http.Request
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = r
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"data":[]}`)
	}))
	defer ts.Close()

	old := semanticAPIBase
	semanticAPIBase = ts.URL
	defer func() { semanticAPIBase = old }()

	b := NewSemanticScholarBackend(ts.Client(), "secret-key", 7, "FactGuard-test")
	_, err := b.Search(context.Background(), "protein folding")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	q := captured.URL.Query()
	if got := q.Get("query"); got != "protein folding" {
		t.Errorf("query param = %q, want %q", got, "protein folding")
	}
	if got := q.Get("limit"); got != "7" {
		t.Errorf("limit param = %q, want %q", got, "7")
	}
	if got := q.Get("fields"); got != semanticFields {
		t.Errorf("fields param = %q, want %q", got, semanticFields)
	}
	if got := captured.Header.Get("x-api-key"); got != "secret-key" {
		t.Errorf("x-api-key header = %q, want %q", got, "secret-key")
	}
}

func TestSemanticScholarParsesPapers(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"data":[
			{"title":"Attention Is All You Need","abstract":"We propose the Transformer.","year":2017,"venue":"NeurIPS","citationCount":90000,"url":"https://example.org/p1","authors":[{"name":"A. Vaswani"},{"name":"N. Shazeer"}]},
			{"title":"","abstract":"no title","url":"https://example.org/p2"},
			{"title":"No URL paper","abstract":"dropped"}
		]}`)
	}))
	defer ts.Close()

	old := semanticAPIBase
	semanticAPIBase = ts.URL
	defer func() { semanticAPIBase = old }()

	b := NewSemanticScholarBackend(ts.Client(), "", 5, "FactGuard-test")
	sources, err := b.Search(context.Background(), "transformers")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	// Papers without a title or URL are dropped.
	if len(sources) != 1 {
		t.Fatalf("expected 1 source, got %d", len(sources))
	}
	s := sources[0]
	if s.Title != "Attention Is All You Need" {
		t.Errorf("title = %q", s.Title)
	}
	if s.SourceType != model.SourceTypeAcademic {
		t.Errorf("source type = %q, want academic", s.SourceType)
	}
	if s.Year != 2017 || s.Journal != "NeurIPS" || s.Citations != 90000 {
		t.Errorf("metadata not parsed: %+v", s)
	}
	if len(s.Authors) != 2 || s.Authors[0] != "A. Vaswani" {
		t.Errorf("authors = %v", s.Authors)
	}
	if s.Snippet != "We propose the Transformer." || s.Abstract != s.Snippet {
		t.Errorf("abstract must double as the snippet: %+v", s)
	}
}

func TestSemanticScholarHTTPError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer ts.Close()

	old := semanticAPIBase
	semanticAPIBase = ts.URL
	defer func() { semanticAPIBase = old }()

	b := NewSemanticScholarBackend(ts.Client(), "", 5, "FactGuard-test")
	if _, err := b.Search(context.Background(), "anything"); err == nil {
		t.Fatal("expected error on HTTP 429")
	}
}
