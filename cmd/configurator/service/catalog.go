package service

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rigforge/configurator/common/catalog"
	"github.com/rigforge/configurator/common/compat"
	"github.com/rigforge/configurator/common/filters"
	"github.com/rigforge/configurator/common/logger"
	"github.com/rigforge/configurator/common/metrics"
)

// CatalogService hands out catalog snapshots. A snapshot is reused until
// its TTL expires; every fresh load bumps the generation, which keys
// cached results derived from the catalog.
type CatalogService struct {
	reader     *catalog.CachedReader
	generation atomic.Int64
	metrics    *metrics.Metrics
	logger     *logger.Logger
}

// NewCatalogService wraps source with snapshot caching and load metrics
func NewCatalogService(source catalog.Reader, ttl time.Duration, m *metrics.Metrics, log *logger.Logger) *CatalogService {
	s := &CatalogService{metrics: m, logger: log}
	s.reader = catalog.NewCachedReader(&observedReader{source: source, service: s}, ttl)
	return s
}

// Snapshot returns the current catalog
func (s *CatalogService) Snapshot(ctx context.Context) (*catalog.Catalog, error) {
	cat, err := s.reader.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	return cat, nil
}

// Generation identifies the snapshot last loaded from the source
func (s *CatalogService) Generation() int64 {
	return s.generation.Load()
}

// Invalidate forces the next Snapshot call to reload
func (s *CatalogService) Invalidate() {
	s.reader.Invalidate()
}

// observedReader times loads from the backing store
type observedReader struct {
	source  catalog.Reader
	service *CatalogService
}

func (r *observedReader) Load(ctx context.Context) (*catalog.Catalog, error) {
	start := time.Now()
	cat, err := r.source.Load(ctx)
	elapsed := time.Since(start)

	if err != nil {
		r.service.metrics.ObserveCatalogLoad(elapsed, err, nil)
		r.service.logger.Error("catalog load failed", "error", err, "duration", elapsed)
		return nil, err
	}

	counts := make(map[string]int, len(compat.Slots))
	for _, slot := range compat.Slots {
		counts[string(slot)] = len(filters.Items(cat, slot))
	}
	r.service.metrics.ObserveCatalogLoad(elapsed, nil, counts)
	gen := r.service.generation.Add(1)
	r.service.logger.Info("catalog loaded", "generation", gen, "duration", elapsed, "cpus", counts["cpu"], "gpus", counts["gpu"])

	return cat, nil
}
