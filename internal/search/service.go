package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/ppiankov/factguard/internal/cache"
	"github.com/ppiankov/factguard/internal/model"
	"github.com/ppiankov/factguard/internal/util"
	"github.com/ppiankov/factguard/internal/worker"
)

// Service aggregates every configured connector: queries fan out across a
// bounded worker pool, results are merged in connector registration order
// so the output is deterministic, and merged results are cached per query.
type Service struct {
	providers []Provider
	cache     cache.Cache
	cacheTTL  time.Duration
	workers   int
	verbose   bool
}

// NewService builds the connector set for the given configuration. Only
// connectors with their credentials configured are registered; Wikipedia
// and Semantic Scholar need none.
func NewService(cfg *model.Config) *Service {
	client := &http.Client{
		Timeout: cfg.HTTP.Timeout,
		Transport: &http.Transport{
			Proxy: util.NewProxyFunc(cfg.HTTP.HTTPProxy, cfg.HTTP.HTTPSProxy, cfg.HTTP.NoProxy),
		},
	}

	var providers []Provider
	if cfg.Search.GoogleAPIKey != "" && cfg.Search.GoogleCSEID != "" {
		providers = append(providers, NewGoogleBackend(client, cfg.Search.GoogleAPIKey, cfg.Search.GoogleCSEID, cfg.Search.MaxResults, cfg.HTTP.UserAgent))
	}
	providers = append(providers, NewWikipediaBackend(client, cfg.HTTP.UserAgent))
	if cfg.Search.NewsAPIKey != "" {
		providers = append(providers, NewNewsBackend(client, cfg.Search.NewsAPIKey, cfg.Search.MaxResults, cfg.HTTP.UserAgent))
	}
	providers = append(providers, NewSemanticScholarBackend(client, cfg.Search.SemanticScholarAPIKey, cfg.Search.MaxResults, cfg.HTTP.UserAgent))
	if cfg.Search.EnableScholar {
		robots := util.NewRobotsChecker(cfg.HTTP.UserAgent, cfg.HTTP.Timeout)
		limiter := worker.NewLimiter(cfg.Search.RatePerSec, cfg.Search.RateBurst)
		providers = append(providers, NewScholarBackend(client, robots, limiter, cfg.Search.MaxResults, cfg.HTTP.UserAgent))
	}

	return &Service{
		providers: providers,
		cache:     cache.FromConfig(cfg.Cache.Enabled, cfg.Cache.Disk, cfg.Cache.Dir, cfg.Cache.TTL),
		cacheTTL:  cfg.Cache.TTL,
		workers:   cfg.Search.Workers,
		verbose:   cfg.Output.Verbose,
	}
}

// NewServiceWithProviders builds a service over an explicit connector set
// (used by tests).
func NewServiceWithProviders(providers []Provider, c cache.Cache, workers int) *Service {
	return &Service{
		providers: providers,
		cache:     c,
		cacheTTL:  time.Hour,
		workers:   workers,
	}
}

// searchJob queries one connector for the worker pool
type searchJob struct {
	ctx      context.Context
	provider Provider
	query    string
}

// searchResult carries one connector's outcome through the pool
type searchResult struct {
	provider string
	sources  []*model.Source
	err      error
}

func (r *searchResult) GetError() error { return r.err }

func (j *searchJob) Execute(_ context.Context) worker.Result {
	sources, err := j.provider.Search(j.ctx, j.query)
	return &searchResult{
		provider: j.provider.Name(),
		sources:  sources,
		err:      err,
	}
}

// SearchAll queries every connector for the free-text query and merges the
// results. Connector failures contribute an empty list; an empty merged
// list is a valid result the analysis pipeline short-circuits on.
func (s *Service) SearchAll(ctx context.Context, query string) []*model.Source {
	if s.cache != nil {
		if data, found := s.cache.Get(cache.QueryKey("all", query)); found {
			var sources []*model.Source
			if err := json.Unmarshal(data, &sources); err == nil {
				s.logf("搜索缓存命中: %q (%d 个来源)\n", query, len(sources))
				return sources
			}
		}
	}

	pool := worker.NewPool(s.workers)
	pool.Start()
	for _, provider := range s.providers {
		pool.Submit(&searchJob{ctx: ctx, provider: provider, query: query})
	}
	results := pool.Wait()

	// Merge in registration order so repeated queries produce the same
	// source ordering regardless of connector timing.
	byProvider := make(map[string][]*model.Source, len(results))
	for _, result := range results {
		sr := result.(*searchResult)
		if sr.err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %s search failed: %v\n", sr.provider, sr.err)
			continue
		}
		byProvider[sr.provider] = sr.sources
	}

	var merged []*model.Source
	for _, provider := range s.providers {
		merged = append(merged, byProvider[provider.Name()]...)
	}
	s.logf("搜索完成: %q 共 %d 个来源\n", query, len(merged))

	if s.cache != nil && len(merged) > 0 {
		if data, err := json.Marshal(merged); err == nil {
			_ = s.cache.Set(cache.QueryKey("all", query), data, s.cacheTTL)
		}
	}

	return merged
}

func (s *Service) logf(format string, args ...interface{}) {
	if s.verbose {
		fmt.Fprintf(os.Stderr, format, args...)
	}
}
