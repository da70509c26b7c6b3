package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/ppiankov/factguard/internal/model"
)

// wikipediaAPIBase is the Wikipedia REST page-summary endpoint. Declared as
// a var so tests can substitute an httptest server.
var wikipediaAPIBase = "https://en.wikipedia.org/api/rest_v1/page/summary"

// WikipediaBackend looks up the query as a Wikipedia page and returns its
// summary as a single source. A missing page yields an empty list, not an
// error.
type WikipediaBackend struct {
	client    *http.Client
	userAgent string
}

// NewWikipediaBackend creates a Wikipedia connector
func NewWikipediaBackend(client *http.Client, userAgent string) *WikipediaBackend {
	return &WikipediaBackend{
		client:    client,
		userAgent: userAgent,
	}
}

// Name returns the connector identifier
func (b *WikipediaBackend) Name() string { return "wikipedia" }

type wikipediaSummary struct {
	Title       string `json:"title"`
	Extract     string `json:"extract"`
	ContentURLs struct {
		Desktop struct {
			Page string `json:"page"`
		} `json:"desktop"`
	} `json:"content_urls"`
}

// Search fetches the page summary for the query
func (b *WikipediaBackend) Search(ctx context.Context, query string) ([]*model.Source, error) {
	reqURL := wikipediaAPIBase + "/" + url.PathEscape(query)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", b.userAgent)

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("Wikipedia request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return []*model.Source{}, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Wikipedia returned HTTP %d", resp.StatusCode)
	}

	var summary wikipediaSummary
	if err := json.NewDecoder(resp.Body).Decode(&summary); err != nil {
		return nil, fmt.Errorf("decode Wikipedia response: %w", err)
	}
	if summary.Title == "" {
		return []*model.Source{}, nil
	}

	link := summary.ContentURLs.Desktop.Page
	if link == "" {
		link = "https://en.wikipedia.org/wiki/" + url.PathEscape(summary.Title)
	}

	return []*model.Source{{
		Title:      summary.Title,
		Snippet:    summary.Extract,
		Link:       link,
		SourceType: model.SourceTypeWikipedia,
	}}, nil
}
