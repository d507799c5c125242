package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rigforge/configurator/common/cache"
	"github.com/rigforge/configurator/common/logger"
	"github.com/rigforge/configurator/common/metrics"
	"github.com/rigforge/configurator/common/search"
)

const searchCache = "search"

// SearchService finds the best build for a budget
type SearchService struct {
	catalog  *CatalogService
	searcher search.Searcher
	policy   string
	cache    cache.Cache
	cacheTTL time.Duration
	metrics  *metrics.Metrics
	logger   *logger.Logger
}

// NewSearchService creates a new search service. policy labels cached
// results so searchers with different settings never share entries.
func NewSearchService(
	catalog *CatalogService,
	searcher search.Searcher,
	policy string,
	c cache.Cache,
	cacheTTL time.Duration,
	m *metrics.Metrics,
	log *logger.Logger,
) *SearchService {
	return &SearchService{
		catalog:  catalog,
		searcher: searcher,
		policy:   policy,
		cache:    c,
		cacheTTL: cacheTTL,
		metrics:  m,
		logger:   log,
	}
}

// Search returns the best build costing at most budget. A budget of zero
// or less finds nothing.
func (s *SearchService) Search(ctx context.Context, budget int64) (*search.Result, error) {
	if budget <= 0 {
		return &search.Result{Budget: budget}, nil
	}

	cat, err := s.catalog.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("search:%s:%d:%d", s.policy, s.catalog.Generation(), budget)
	if cached, ok := s.lookup(ctx, key); ok {
		return cached, nil
	}

	start := time.Now()
	result, err := s.searcher.Search(ctx, cat, budget)
	if err != nil {
		return nil, fmt.Errorf("failed to search builds: %w", err)
	}
	elapsed := time.Since(start)
	s.metrics.ObserveSearch(result.Found, elapsed)

	s.logger.Info("build search finished",
		"budget", budget,
		"found", result.Found,
		"duration", elapsed,
	)

	s.store(ctx, key, result)
	return result, nil
}

func (s *SearchService) lookup(ctx context.Context, key string) (*search.Result, bool) {
	if s.cache == nil {
		return nil, false
	}
	data, found, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.Warn("search cache read failed", "error", err)
	}
	if err != nil || !found {
		s.metrics.CacheMiss(searchCache)
		return nil, false
	}

	var result search.Result
	if err := json.Unmarshal(data, &result); err != nil {
		s.metrics.CacheMiss(searchCache)
		return nil, false
	}
	s.metrics.CacheHit(searchCache)
	return &result, true
}

func (s *SearchService) store(ctx context.Context, key string, result *search.Result) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(result)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, data, s.cacheTTL); err != nil {
		s.logger.Warn("search cache write failed", "error", err)
	}
}
