package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/ppiankov/factguard/internal/model"
)

// googleAPIBase is the Google Custom Search endpoint. Declared as a var so
// tests can substitute an httptest server.
var googleAPIBase = "https://www.googleapis.com/customsearch/v1"

// GoogleBackend queries the Google Custom Search JSON API for general web
// sources.
type GoogleBackend struct {
	client     *http.Client
	apiKey     string
	cseID      string
	maxResults int
	userAgent  string
}

// NewGoogleBackend creates a Google Custom Search connector
func NewGoogleBackend(client *http.Client, apiKey, cseID string, maxResults int, userAgent string) *GoogleBackend {
	if maxResults <= 0 {
		maxResults = 5
	}
	return &GoogleBackend{
		client:     client,
		apiKey:     apiKey,
		cseID:      cseID,
		maxResults: maxResults,
		userAgent:  userAgent,
	}
}

// Name returns the connector identifier
func (b *GoogleBackend) Name() string { return "google" }

type googleResponse struct {
	Items []struct {
		Title   string `json:"title"`
		Link    string `json:"link"`
		Snippet string `json:"snippet"`
	} `json:"items"`
}

// Search queries the Custom Search API
func (b *GoogleBackend) Search(ctx context.Context, query string) ([]*model.Source, error) {
	if b.apiKey == "" || b.cseID == "" {
		return nil, fmt.Errorf("Google Custom Search credentials not configured")
	}

	params := url.Values{
		"key": {b.apiKey},
		"cx":  {b.cseID},
		"q":   {query},
		"num": {fmt.Sprintf("%d", b.maxResults)},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, googleAPIBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", b.userAgent)

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("Google search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Google search returned HTTP %d", resp.StatusCode)
	}

	var gr googleResponse
	if err := json.NewDecoder(resp.Body).Decode(&gr); err != nil {
		return nil, fmt.Errorf("decode Google response: %w", err)
	}

	sources := make([]*model.Source, 0, len(gr.Items))
	for _, item := range gr.Items {
		sources = append(sources, &model.Source{
			Title:      item.Title,
			Snippet:    item.Snippet,
			Link:       item.Link,
			SourceType: model.SourceTypeWeb,
		})
	}
	return sources, nil
}
