package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/rigforge/configurator/common/compat"
	"github.com/rigforge/configurator/common/power"
)

// Config holds all service configuration
type Config struct {
	Service   ServiceConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Cache     CacheConfig
	Catalog   CatalogConfig
	Engine    EngineConfig
	RateLimit RateLimitConfig
	Telemetry TelemetryConfig
}

// ServiceConfig holds service-specific settings
type ServiceConfig struct {
	Name        string
	Port        int
	Environment string
	LogLevel    string
	LogFormat   string
}

// DatabaseConfig holds Postgres connection settings
type DatabaseConfig struct {
	Host        string
	Port        int
	Database    string
	User        string
	Password    string
	MaxConns    int
	MinConns    int
	MaxIdleTime time.Duration
	MaxLifetime time.Duration
	Migrate     bool
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// CacheConfig holds result cache settings
type CacheConfig struct {
	Enabled    bool
	Backend    string // "memory" or "redis"
	DefaultTTL time.Duration
}

// CatalogConfig says where the part catalog is read from
type CatalogConfig struct {
	Backend     string // "postgres" or "memory"
	FixturePath string // JSON catalog used by the memory backend
	SnapshotTTL time.Duration
}

// EngineConfig tunes compatibility resolution and build search
type EngineConfig struct {
	PCIePolicy       string
	WattagePolicy    string
	GPULimit         int
	CPULimit         int
	MotherboardLimit int
	SearchWorkers    int
}

// RateLimitConfig caps build searches per user
type RateLimitConfig struct {
	Enabled           bool
	SearchesPerMinute int
}

// TelemetryConfig holds observability settings
type TelemetryConfig struct {
	EnablePprof   bool
	PprofPort     int
	EnableMetrics bool
	MetricsPort   int
}

// Load loads configuration from environment variables
func Load(serviceName string) (*Config, error) {
	cfg := &Config{
		Service: ServiceConfig{
			Name:        serviceName,
			Port:        getEnvInt("PORT", 8080),
			Environment: getEnv("ENVIRONMENT", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
			LogFormat:   getEnv("LOG_FORMAT", "text"),
		},
		Database: DatabaseConfig{
			Host:        getEnv("POSTGRES_HOST", "localhost"),
			Port:        getEnvInt("POSTGRES_PORT", 5432),
			Database:    getEnv("POSTGRES_DB", "configurator"),
			User:        getEnv("POSTGRES_USER", "configurator"),
			Password:    getEnv("POSTGRES_PASSWORD", "configurator"),
			MaxConns:    getEnvInt("POSTGRES_MAX_CONNS", 20),
			MinConns:    getEnvInt("POSTGRES_MIN_CONNS", 2),
			MaxIdleTime: getEnvDuration("POSTGRES_MAX_IDLE_TIME", 30*time.Minute),
			MaxLifetime: getEnvDuration("POSTGRES_MAX_LIFETIME", 1*time.Hour),
			Migrate:     getEnvBool("POSTGRES_MIGRATE", true),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Cache: CacheConfig{
			Enabled:    getEnvBool("CACHE_ENABLED", true),
			Backend:    getEnv("CACHE_BACKEND", "memory"),
			DefaultTTL: getEnvDuration("CACHE_DEFAULT_TTL", 10*time.Minute),
		},
		Catalog: CatalogConfig{
			Backend:     getEnv("CATALOG_BACKEND", "postgres"),
			FixturePath: getEnv("CATALOG_FIXTURE", ""),
			SnapshotTTL: getEnvDuration("CATALOG_SNAPSHOT_TTL", 5*time.Minute),
		},
		Engine: EngineConfig{
			PCIePolicy:       getEnv("ENGINE_PCIE_POLICY", string(compat.Backward)),
			WattagePolicy:    getEnv("ENGINE_WATTAGE_POLICY", string(power.Recommended)),
			GPULimit:         getEnvInt("ENGINE_GPU_LIMIT", 20),
			CPULimit:         getEnvInt("ENGINE_CPU_LIMIT", 25),
			MotherboardLimit: getEnvInt("ENGINE_MOTHERBOARD_LIMIT", 25),
			SearchWorkers:    getEnvInt("ENGINE_SEARCH_WORKERS", 4),
		},
		RateLimit: RateLimitConfig{
			Enabled:           getEnvBool("RATE_LIMIT_ENABLED", true),
			SearchesPerMinute: getEnvInt("RATE_LIMIT_SEARCHES_PER_MINUTE", 30),
		},
		Telemetry: TelemetryConfig{
			EnablePprof:   getEnvBool("ENABLE_PPROF", false),
			PprofPort:     getEnvInt("PPROF_PORT", 6060),
			EnableMetrics: getEnvBool("ENABLE_METRICS", true),
			MetricsPort:   getEnvInt("METRICS_PORT", 9090),
		},
	}

	return cfg, cfg.Validate()
}

// Validate checks if configuration is valid
func (c *Config) Validate() error {
	if c.Service.Port < 1 || c.Service.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Service.Port)
	}

	switch c.Catalog.Backend {
	case "postgres":
		if c.Database.Host == "" {
			return fmt.Errorf("database host is required")
		}
	case "memory":
		if c.Catalog.FixturePath == "" {
			return fmt.Errorf("CATALOG_FIXTURE is required for the memory catalog")
		}
	default:
		return fmt.Errorf("invalid catalog backend: %q", c.Catalog.Backend)
	}

	if c.Database.MaxConns < c.Database.MinConns {
		return fmt.Errorf("max_conns must be >= min_conns")
	}

	switch c.Cache.Backend {
	case "memory", "redis":
	default:
		return fmt.Errorf("invalid cache backend: %q", c.Cache.Backend)
	}

	if _, err := c.Engine.PCIe(); err != nil {
		return err
	}
	if _, err := c.Engine.Wattage(); err != nil {
		return err
	}
	if c.Engine.SearchWorkers < 1 {
		return fmt.Errorf("search workers must be >= 1, got %d", c.Engine.SearchWorkers)
	}

	if c.RateLimit.Enabled && c.RateLimit.SearchesPerMinute < 1 {
		return fmt.Errorf("searches per minute must be >= 1 when rate limiting is enabled")
	}

	return nil
}

// PCIe returns the parsed PCIe compatibility policy
func (e EngineConfig) PCIe() (compat.PCIePolicy, error) {
	return compat.ParsePCIePolicy(e.PCIePolicy)
}

// Wattage returns the parsed PSU wattage policy
func (e EngineConfig) Wattage() (power.WattagePolicy, error) {
	return power.ParseWattagePolicy(e.WattagePolicy)
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Database,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
