package bootstrap

import (
	"github.com/rigforge/configurator/common/config"
	"github.com/rigforge/configurator/common/db"
	"github.com/rigforge/configurator/common/logger"
)

// Option adjusts Setup. catalogctl and tests skip most of the stack.
type Option func(*options)

type options struct {
	skipDB        bool
	skipRedis     bool
	skipCache     bool
	skipTelemetry bool
	customLogger  *logger.Logger
	customConfig  *config.Config
	dbInitHook    func(*db.DB) error
}

// WithoutDB leaves DB nil. Builds are then kept in memory and only the
// memory catalog backend can load.
func WithoutDB() Option {
	return func(o *options) {
		o.skipDB = true
	}
}

// WithoutRedis skips the Redis connection. The redis cache backend and
// rate limiting become unavailable.
func WithoutRedis() Option {
	return func(o *options) {
		o.skipRedis = true
	}
}

// WithoutCache disables result caching; search and filter options are
// recomputed on every request
func WithoutCache() Option {
	return func(o *options) {
		o.skipCache = true
	}
}

func WithoutTelemetry() Option {
	return func(o *options) {
		o.skipTelemetry = true
	}
}

// WithCustomLogger replaces the env-configured logger
func WithCustomLogger(log *logger.Logger) Option {
	return func(o *options) {
		o.customLogger = log
	}
}

// WithCustomConfig skips config.Load
func WithCustomConfig(cfg *config.Config) Option {
	return func(o *options) {
		o.customConfig = cfg
	}
}

// WithDBInitHook runs after the schema is applied, e.g. to seed a catalog
func WithDBInitHook(hook func(*db.DB) error) Option {
	return func(o *options) {
		o.dbInitHook = hook
	}
}

func defaultOptions() *options {
	return &options{}
}
