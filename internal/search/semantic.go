package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/ppiankov/factguard/internal/model"
)

// semanticAPIBase is the Semantic Scholar paper search endpoint. Declared
// as a var so tests can substitute an httptest server.
var semanticAPIBase = "https://api.semanticscholar.org/graph/v1/paper/search"

const semanticFields = "title,abstract,authors,year,venue,citationCount,url"

// SemanticScholarBackend queries the Semantic Scholar graph API for
// academic sources.
type SemanticScholarBackend struct {
	client     *http.Client
	apiKey     string
	maxResults int
	userAgent  string
}

// NewSemanticScholarBackend creates a Semantic Scholar connector. The API
// key is optional; without it the public rate limits apply.
func NewSemanticScholarBackend(client *http.Client, apiKey string, maxResults int, userAgent string) *SemanticScholarBackend {
	if maxResults <= 0 {
		maxResults = 5
	}
	return &SemanticScholarBackend{
		client:     client,
		apiKey:     apiKey,
		maxResults: maxResults,
		userAgent:  userAgent,
	}
}

// Name returns the connector identifier
func (b *SemanticScholarBackend) Name() string { return "semantic_scholar" }

type semanticResponse struct {
	Data []struct {
		Title         string `json:"title"`
		Abstract      string `json:"abstract"`
		Year          int    `json:"year"`
		Venue         string `json:"venue"`
		CitationCount int    `json:"citationCount"`
		URL           string `json:"url"`
		Authors       []struct {
			Name string `json:"name"`
		} `json:"authors"`
	} `json:"data"`
}

// Search queries the paper search endpoint
func (b *SemanticScholarBackend) Search(ctx context.Context, query string) ([]*model.Source, error) {
	params := url.Values{
		"query":  {query},
		"limit":  {fmt.Sprintf("%d", b.maxResults)},
		"fields": {semanticFields},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, semanticAPIBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", b.userAgent)
	if b.apiKey != "" {
		req.Header.Set("x-api-key", b.apiKey)
	}

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("Semantic Scholar request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Semantic Scholar returned HTTP %d", resp.StatusCode)
	}

	var sr semanticResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("decode Semantic Scholar response: %w", err)
	}

	sources := make([]*model.Source, 0, len(sr.Data))
	for _, paper := range sr.Data {
		if paper.Title == "" || paper.URL == "" {
			continue
		}

		authors := make([]string, 0, len(paper.Authors))
		for _, a := range paper.Authors {
			authors = append(authors, a.Name)
		}

		sources = append(sources, &model.Source{
			Title:      paper.Title,
			Snippet:    paper.Abstract,
			Link:       paper.URL,
			SourceType: model.SourceTypeAcademic,
			Authors:    authors,
			Year:       paper.Year,
			Journal:    paper.Venue,
			Citations:  paper.CitationCount,
			Abstract:   paper.Abstract,
		})
	}
	return sources, nil
}
