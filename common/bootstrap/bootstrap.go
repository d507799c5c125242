package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/rigforge/configurator/common/cache"
	"github.com/rigforge/configurator/common/config"
	"github.com/rigforge/configurator/common/db"
	"github.com/rigforge/configurator/common/logger"
	"github.com/rigforge/configurator/common/metrics"
	"github.com/rigforge/configurator/common/redis"
	"github.com/rigforge/configurator/common/telemetry"
)

// Setup initializes all service components
func Setup(ctx context.Context, serviceName string, opts ...Option) (*Components, error) {
	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}

	components := &Components{
		cleanupFuncs: make([]func() error, 0),
		Metrics:      metrics.New(),
	}

	// 1. Configuration
	var err error
	if options.customConfig != nil {
		components.Config = options.customConfig
	} else {
		components.Config, err = config.Load(serviceName)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}
	cfg := components.Config

	// 2. Logger
	if options.customLogger != nil {
		components.Logger = options.customLogger
	} else {
		components.Logger = logger.New(cfg.Service.LogLevel, cfg.Service.LogFormat)
	}

	components.Logger.Info("initializing service",
		"service", serviceName,
		"environment", cfg.Service.Environment,
	)

	// 3. Database. The memory catalog still stores builds in Postgres unless
	// the caller opts out.
	if !options.skipDB {
		components.Logger.Info("connecting to database")
		components.DB, err = db.New(ctx, cfg, components.Logger)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}

		components.addCleanup(func() error {
			components.DB.Close()
			return nil
		})

		if cfg.Database.Migrate {
			if err := components.DB.Migrate(ctx); err != nil {
				_ = components.Shutdown(ctx)
				return nil, err
			}
		}

		if options.dbInitHook != nil {
			components.Logger.Info("running database init hook")
			if err := options.dbInitHook(components.DB); err != nil {
				_ = components.Shutdown(ctx)
				return nil, fmt.Errorf("database init hook failed: %w", err)
			}
		}
	}

	// 4. Redis
	if !options.skipRedis {
		components.Redis, err = redis.Dial(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, components.Logger)
		if err != nil {
			_ = components.Shutdown(ctx)
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		components.addCleanup(components.Redis.Close)
	}

	// 5. Cache
	if !options.skipCache && cfg.Cache.Enabled {
		components.Logger.Info("initializing cache", "backend", cfg.Cache.Backend, "ttl", cfg.Cache.DefaultTTL)

		switch cfg.Cache.Backend {
		case "redis":
			if components.Redis == nil {
				_ = components.Shutdown(ctx)
				return nil, fmt.Errorf("redis cache backend requires a redis connection")
			}
			components.Cache = cache.NewRedisCache(components.Redis, serviceName, components.Logger)
		case "memory":
			mem := cache.NewMemoryCache(components.Logger)
			components.Cache = mem
			components.addCleanup(mem.Close)
		default:
			_ = components.Shutdown(ctx)
			return nil, fmt.Errorf("unknown cache backend: %s", cfg.Cache.Backend)
		}
	}

	// 6. Telemetry
	if !options.skipTelemetry {
		pprofPort := 0
		if cfg.Telemetry.EnablePprof {
			pprofPort = cfg.Telemetry.PprofPort
		}
		metricsPort := 0
		if cfg.Telemetry.EnableMetrics {
			metricsPort = cfg.Telemetry.MetricsPort
		}

		components.Telemetry = telemetry.New(pprofPort, metricsPort, components.Metrics.Handler(), components.Logger)
		if err := components.Telemetry.Start(ctx); err != nil {
			components.Logger.Warn("failed to start telemetry", "error", err)
		}
		components.addCleanup(func() error {
			stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return components.Telemetry.Stop(stopCtx)
		})
	}

	components.Logger.Info("service initialization complete",
		"service", serviceName,
		"db", components.DB != nil,
		"redis", components.Redis != nil,
		"cache", components.Cache != nil,
		"telemetry", components.Telemetry != nil,
	)

	return components, nil
}

// MustSetup is like Setup but panics on error
func MustSetup(ctx context.Context, serviceName string, opts ...Option) *Components {
	components, err := Setup(ctx, serviceName, opts...)
	if err != nil {
		panic(fmt.Sprintf("failed to setup service %s: %v", serviceName, err))
	}
	return components
}
