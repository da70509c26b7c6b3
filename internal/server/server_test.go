package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/factguard/internal/analyze"
	"github.com/ppiankov/factguard/internal/model"
	"github.com/ppiankov/factguard/internal/search"
	"github.com/ppiankov/factguard/internal/textutil"
)

var (
	segOnce sync.Once
	seg     *textutil.Segmenter
	segErr  error
)

// stubProvider implements search.Provider with canned sources.
type stubProvider struct {
	sources []*model.Source
}

func (p *stubProvider) Name() string { return "stub" }

func (p *stubProvider) Search(ctx context.Context, query string) ([]*model.Source, error) {
	return p.sources, nil
}

func testServer(t *testing.T, sources []*model.Source) *Server {
	t.Helper()
	segOnce.Do(func() {
		seg, segErr = textutil.NewSegmenter()
	})
	require.NoError(t, segErr)

	analysis := analyze.NewAnalysisService(nil, seg, false)
	searcher := search.NewServiceWithProviders([]search.Provider{&stubProvider{sources: sources}}, nil, 2)
	return New(":0", analysis, searcher)
}

func TestHealth(t *testing.T) {
	srv := testServer(t, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ok")
}

func TestCheck_InvalidBody(t *testing.T) {
	srv := testServer(t, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/check", strings.NewReader("not json"))
	req.Header.Set("Content-Type", "application/json")
	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCheck_EmptyText(t *testing.T) {
	srv := testServer(t, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/check", strings.NewReader(`{"text":"   "}`))
	req.Header.Set("Content-Type", "application/json")
	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCheck_NoSourcesStillWellFormed(t *testing.T) {
	srv := testServer(t, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/check", strings.NewReader(`{"text":"the moon orbits the earth once a month."}`))
	req.Header.Set("Content-Type", "application/json")
	srv.Handler().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp model.FactCheckResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.IsFact)
	assert.Equal(t, 0.0, resp.Confidence)
	assert.NotNil(t, resp.Sources)
	assert.NotNil(t, resp.AcademicSources)
}

func TestCheck_SupportingSource(t *testing.T) {
	srv := testServer(t, []*model.Source{{
		Title:      "lunar facts",
		Snippet:    "the moon orbits the earth once a month",
		Link:       "https://example.com/moon",
		SourceType: model.SourceTypeWeb,
	}})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/check", strings.NewReader(`{"text":"the moon orbits the earth once a month."}`))
	req.Header.Set("Content-Type", "application/json")
	srv.Handler().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp model.FactCheckResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Sources, 1)
	assert.Greater(t, resp.Confidence, 0.0)
	assert.NotEmpty(t, resp.Explanation)
}
