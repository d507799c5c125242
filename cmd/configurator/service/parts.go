package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/rigforge/configurator/common/apperrors"
	"github.com/rigforge/configurator/common/cache"
	"github.com/rigforge/configurator/common/compat"
	"github.com/rigforge/configurator/common/filters"
	"github.com/rigforge/configurator/common/logger"
	"github.com/rigforge/configurator/common/metrics"
)

const filterOptionsCache = "filter_options"

// PartsResult is the compatible, filtered subset of one part type
type PartsResult struct {
	compat.Result
	Policy   compat.PCIePolicy     `json:"policy"`
	Selected map[compat.Slot]int64 `json:"selected"`
}

// PartService resolves compatible parts and serves filter options
type PartService struct {
	catalog  *CatalogService
	engine   *compat.Engine
	defaults compat.Options
	cache    cache.Cache
	cacheTTL time.Duration
	metrics  *metrics.Metrics
	logger   *logger.Logger
}

// NewPartService creates a new part service. cache may be nil.
func NewPartService(
	catalog *CatalogService,
	engine *compat.Engine,
	defaults compat.Options,
	c cache.Cache,
	cacheTTL time.Duration,
	m *metrics.Metrics,
	log *logger.Logger,
) *PartService {
	return &PartService{
		catalog:  catalog,
		engine:   engine,
		defaults: defaults,
		cache:    c,
		cacheTTL: cacheTTL,
		metrics:  m,
		logger:   log,
	}
}

// Resolve returns every part of partType compatible with the parts named in
// query, narrowed by any attribute filters the query carries.
func (s *PartService) Resolve(ctx context.Context, partType string, query url.Values) (*PartsResult, error) {
	slot, ok := compat.ParseSlot(partType)
	if !ok {
		return nil, fmt.Errorf("%w: %q", apperrors.ErrUnknownPartType, partType)
	}

	ids, err := compat.ParseIDs(query)
	if err != nil {
		return nil, err
	}

	opts, err := policyOptions(s.defaults, query.Get("policy"), query.Get("wattage"))
	if err != nil {
		return nil, err
	}

	cat, err := s.catalog.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	sel, err := compat.SelectionFromIDs(cat, ids, opts)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	res, err := s.engine.Resolve(ctx, cat, slot, sel)
	if err != nil {
		return nil, err
	}
	s.metrics.ObserveResolve(string(slot), string(opts.PCIe), res.Count, time.Since(start))

	parts, err := filters.Apply(slot, res.Parts, query)
	if err != nil {
		return nil, err
	}
	if parts == nil {
		parts = []any{}
	}
	res.Parts = parts
	res.Count = len(parts)

	s.logger.Debug("resolved parts",
		"part_type", slot,
		"policy", opts.PCIe,
		"selected", len(ids),
		"count", res.Count,
	)

	return &PartsResult{Result: res, Policy: opts.PCIe, Selected: ids}, nil
}

// FilterOptions projects the catalog onto every filterable field. The
// projection is cached per catalog generation.
func (s *PartService) FilterOptions(ctx context.Context) (map[string][]filters.Option, error) {
	cat, err := s.catalog.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("filter-options:%d", s.catalog.Generation())
	if s.cache != nil {
		data, found, err := s.cache.Get(ctx, key)
		if err != nil {
			s.logger.Warn("filter options cache read failed", "error", err)
		} else if found {
			var cached map[string][]filters.Option
			if err := json.Unmarshal(data, &cached); err == nil {
				s.metrics.CacheHit(filterOptionsCache)
				return cached, nil
			}
		}
		s.metrics.CacheMiss(filterOptionsCache)
	}

	opts := filters.Options(cat)

	if s.cache != nil {
		if data, err := json.Marshal(opts); err == nil {
			if err := s.cache.Set(ctx, key, data, s.cacheTTL); err != nil {
				s.logger.Warn("filter options cache write failed", "error", err)
			}
		}
	}

	return opts, nil
}
