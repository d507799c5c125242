package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"github.com/rigforge/configurator/common/cache"
	"github.com/rigforge/configurator/common/config"
	"github.com/rigforge/configurator/common/db"
	"github.com/rigforge/configurator/common/logger"
	"github.com/rigforge/configurator/common/metrics"
	"github.com/rigforge/configurator/common/redis"
	"github.com/rigforge/configurator/common/telemetry"
)

// Components is what Setup built. Any of DB, Redis, Cache and Telemetry may
// be nil when skipped or disabled.
type Components struct {
	Config    *config.Config
	Logger    *logger.Logger
	DB        *db.DB
	Redis     *redis.Client
	Cache     cache.Cache
	Metrics   *metrics.Metrics
	Telemetry *telemetry.Telemetry

	cleanupFuncs []func() error
}

// Shutdown tears components down newest first and joins their errors
func (c *Components) Shutdown(ctx context.Context) error {
	c.Logger.Info("shutting down components", "count", len(c.cleanupFuncs))

	var errs []error
	for i := len(c.cleanupFuncs) - 1; i >= 0; i-- {
		if err := c.cleanupFuncs[i](); err != nil {
			c.Logger.Error("cleanup error", "error", err)
			errs = append(errs, err)
		}
	}
	c.cleanupFuncs = nil

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	c.Logger.Info("shutdown complete")
	return nil
}

// Health checks the stores the configurator depends on. The catalog itself
// is not reloaded here.
func (c *Components) Health(ctx context.Context) error {
	if c.DB != nil {
		if err := c.DB.Health(ctx); err != nil {
			return fmt.Errorf("database unhealthy: %w", err)
		}
	}
	if c.Redis != nil {
		if err := c.Redis.Ping(ctx); err != nil {
			return fmt.Errorf("redis unhealthy: %w", err)
		}
	}
	return nil
}

func (c *Components) addCleanup(fn func() error) {
	c.cleanupFuncs = append(c.cleanupFuncs, fn)
}
