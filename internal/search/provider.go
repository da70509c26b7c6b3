// Package search implements the source connectors that supply candidate
// evidence for a query: Google Custom Search, Wikipedia, NewsAPI, Semantic
// Scholar and Google Scholar, plus an aggregating service that fans out
// across them.
package search

import (
	"context"

	"github.com/ppiankov/factguard/internal/model"
)

// Provider supplies candidate sources for a free-text query. Connectors
// tolerate their own upstream failures by returning an error the aggregate
// service converts to an empty contribution; the analysis core places no
// ordering requirement on the returned list.
type Provider interface {
	// Name returns the connector identifier
	Name() string

	// Search returns candidate sources for the query
	Search(ctx context.Context, query string) ([]*model.Source, error)
}
