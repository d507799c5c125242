package bootstrap

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/rigforge/configurator/common/cache"
	"github.com/rigforge/configurator/common/config"
	"github.com/rigforge/configurator/common/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logger.Logger {
	return logger.NewWithWriter(io.Discard, "error", "text")
}

func TestSetup_MemoryOnly(t *testing.T) {
	cfg := &config.Config{
		Cache: config.CacheConfig{Enabled: true, Backend: "memory", DefaultTTL: time.Minute},
	}
	ctx := context.Background()

	c, err := Setup(ctx, "configurator",
		WithCustomConfig(cfg),
		WithCustomLogger(quietLogger()),
		WithoutDB(),
		WithoutRedis(),
		WithoutTelemetry(),
	)
	require.NoError(t, err)

	assert.Nil(t, c.DB)
	assert.Nil(t, c.Redis)
	assert.NotNil(t, c.Metrics)
	assert.IsType(t, &cache.MemoryCache{}, c.Cache)
	assert.NoError(t, c.Health(ctx))
	assert.NoError(t, c.Shutdown(ctx))
}

func TestSetup_RedisCacheNeedsRedis(t *testing.T) {
	cfg := &config.Config{
		Cache: config.CacheConfig{Enabled: true, Backend: "redis"},
	}
	_, err := Setup(context.Background(), "configurator",
		WithCustomConfig(cfg),
		WithCustomLogger(quietLogger()),
		WithoutDB(),
		WithoutRedis(),
		WithoutTelemetry(),
	)
	assert.Error(t, err)
}

func TestShutdown_RunsCleanupInReverse(t *testing.T) {
	c := &Components{Logger: quietLogger()}
	var order []int
	c.addCleanup(func() error { order = append(order, 1); return nil })
	c.addCleanup(func() error { order = append(order, 2); return errors.New("boom") })
	c.addCleanup(func() error { order = append(order, 3); return nil })

	err := c.Shutdown(context.Background())
	assert.Error(t, err)
	assert.Equal(t, []int{3, 2, 1}, order)
}
