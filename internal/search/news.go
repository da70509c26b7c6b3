package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/ppiankov/factguard/internal/model"
)

// newsAPIBase is the NewsAPI everything endpoint. Declared as a var so
// tests can substitute an httptest server.
var newsAPIBase = "https://newsapi.org/v2/everything"

// NewsBackend queries NewsAPI for recent news coverage of the query.
type NewsBackend struct {
	client     *http.Client
	apiKey     string
	maxResults int
	userAgent  string
}

// NewNewsBackend creates a NewsAPI connector
func NewNewsBackend(client *http.Client, apiKey string, maxResults int, userAgent string) *NewsBackend {
	if maxResults <= 0 {
		maxResults = 5
	}
	return &NewsBackend{
		client:     client,
		apiKey:     apiKey,
		maxResults: maxResults,
		userAgent:  userAgent,
	}
}

// Name returns the connector identifier
func (b *NewsBackend) Name() string { return "news" }

type newsResponse struct {
	Status   string `json:"status"`
	Articles []struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		URL         string `json:"url"`
	} `json:"articles"`
}

// Search queries NewsAPI, skipping articles without a description since an
// empty snippet cannot support any claim.
func (b *NewsBackend) Search(ctx context.Context, query string) ([]*model.Source, error) {
	if b.apiKey == "" {
		return nil, fmt.Errorf("NewsAPI key not configured")
	}

	params := url.Values{
		"q":        {query},
		"language": {"en"},
		"sortBy":   {"relevancy"},
		"pageSize": {fmt.Sprintf("%d", b.maxResults)},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, newsAPIBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", b.userAgent)
	req.Header.Set("X-Api-Key", b.apiKey)

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("news search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("news search returned HTTP %d", resp.StatusCode)
	}

	var nr newsResponse
	if err := json.NewDecoder(resp.Body).Decode(&nr); err != nil {
		return nil, fmt.Errorf("decode news response: %w", err)
	}
	if nr.Status != "ok" {
		return nil, fmt.Errorf("news search status: %s", nr.Status)
	}

	sources := make([]*model.Source, 0, len(nr.Articles))
	for _, article := range nr.Articles {
		if article.Description == "" {
			continue
		}
		sources = append(sources, &model.Source{
			Title:      article.Title,
			Snippet:    article.Description,
			Link:       article.URL,
			SourceType: model.SourceTypeNews,
		})
	}
	return sources, nil
}
