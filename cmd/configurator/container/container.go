package container

import (
	"fmt"

	"github.com/rigforge/configurator/cmd/configurator/repository"
	"github.com/rigforge/configurator/cmd/configurator/service"
	"github.com/rigforge/configurator/common/bootstrap"
	"github.com/rigforge/configurator/common/catalog"
	"github.com/rigforge/configurator/common/catalog/fixture"
	"github.com/rigforge/configurator/common/compat"
	"github.com/rigforge/configurator/common/evaluation"
	"github.com/rigforge/configurator/common/ratelimit"
	"github.com/rigforge/configurator/common/search"
)

// Container holds all initialized services and repositories (singleton pattern)
type Container struct {
	// Components
	Components *bootstrap.Components

	// Rate limiting; Limiter is nil when disabled or Redis is absent
	Limiter    ratelimit.Limiter
	RateLimits ratelimit.Policies

	// Repositories
	CatalogSource catalog.Reader
	BuildRepo     service.BuildStore

	// Services
	CatalogService   *service.CatalogService
	PartService      *service.PartService
	SearchService    *service.SearchService
	SelectionService *service.SelectionService
	BuildService     *service.BuildService
}

// NewContainer initializes all services and repositories once
func NewContainer(components *bootstrap.Components) (*Container, error) {
	cfg := components.Config

	pcie, err := cfg.Engine.PCIe()
	if err != nil {
		return nil, err
	}
	wattage, err := cfg.Engine.Wattage()
	if err != nil {
		return nil, err
	}
	defaults := compat.Options{PCIe: pcie, Wattage: wattage}

	// Initialize repositories
	var source catalog.Reader
	switch cfg.Catalog.Backend {
	case "memory":
		source = fixture.NewReader(cfg.Catalog.FixturePath)
	case "postgres":
		if components.DB == nil {
			return nil, fmt.Errorf("postgres catalog backend requires a database connection")
		}
		source = repository.NewCatalogRepository(components.DB)
	default:
		return nil, fmt.Errorf("unknown catalog backend: %s", cfg.Catalog.Backend)
	}

	var buildRepo service.BuildStore
	if components.DB != nil {
		buildRepo = repository.NewBuildRepository(components.DB)
	} else {
		components.Logger.Warn("no database configured, builds are kept in memory")
		buildRepo = repository.NewMemoryBuildRepository()
	}

	// Initialize services (bottom-up: dependencies first)
	engine := compat.NewEngine()
	evaluator, err := evaluation.NewEvaluator(evaluation.DefaultProfiles()...)
	if err != nil {
		return nil, fmt.Errorf("failed to compile evaluation profiles: %w", err)
	}

	searcher := search.NewGreedy(search.Config{
		Limits: search.Limits{
			GPU:         cfg.Engine.GPULimit,
			CPU:         cfg.Engine.CPULimit,
			Motherboard: cfg.Engine.MotherboardLimit,
		},
		Workers: cfg.Engine.SearchWorkers,
		PCIe:    pcie,
		Wattage: wattage,
	}, components.Logger)

	catalogService := service.NewCatalogService(source, cfg.Catalog.SnapshotTTL, components.Metrics, components.Logger)
	partService := service.NewPartService(catalogService, engine, defaults,
		components.Cache, cfg.Cache.DefaultTTL, components.Metrics, components.Logger)
	searchService := service.NewSearchService(catalogService, searcher, string(pcie)+"-"+string(wattage),
		components.Cache, cfg.Cache.DefaultTTL, components.Metrics, components.Logger)
	selectionService := service.NewSelectionService(catalogService, engine, evaluator, defaults, components.Logger)
	buildService := service.NewBuildService(buildRepo, catalogService, components.Metrics, components.Logger)

	var limiter ratelimit.Limiter
	if cfg.RateLimit.Enabled {
		if components.Redis != nil {
			limiter = ratelimit.NewRateLimiter(components.Redis.GetUnderlying(), components.Logger)
		} else {
			components.Logger.Warn("rate limiting enabled but redis is not configured, requests are not limited")
		}
	}

	return &Container{
		Components:       components,
		Limiter:          limiter,
		RateLimits:       ratelimit.DefaultPolicies(int64(cfg.RateLimit.SearchesPerMinute)),
		CatalogSource:    source,
		BuildRepo:        buildRepo,
		CatalogService:   catalogService,
		PartService:      partService,
		SearchService:    searchService,
		SelectionService: selectionService,
		BuildService:     buildService,
	}, nil
}
