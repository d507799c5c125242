package ratelimit

import (
	"context"
	_ "embed"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

//go:embed rate_limit.lua
var rateLimitScript string

// Logger interface for logging
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
}

// Result contains the outcome of a rate limit check
type Result struct {
	Allowed           bool
	CurrentCount      int64
	Limit             int64
	RetryAfterSeconds int64
}

// Limiter checks a per-user quota for a request class
type Limiter interface {
	CheckUserLimit(ctx context.Context, userID string, policy Policy) (*Result, error)
}

// RateLimiter is a fixed-window limiter backed by Redis and a Lua script
type RateLimiter struct {
	redis  *redis.Client
	script *redis.Script
	logger Logger
}

// NewRateLimiter creates a new rate limiter with embedded Lua script
func NewRateLimiter(redisClient *redis.Client, logger Logger) *RateLimiter {
	return &RateLimiter{
		redis:  redisClient,
		script: redis.NewScript(rateLimitScript),
		logger: logger,
	}
}

// CheckUserLimit counts one request by userID against the policy's window
func (r *RateLimiter) CheckUserLimit(ctx context.Context, userID string, policy Policy) (*Result, error) {
	return r.checkLimit(ctx, UserKey(userID, policy.Class), policy.Limit, policy.WindowSeconds)
}

// UserKey is the Redis counter key for a user and class
func UserKey(userID string, class Class) string {
	return fmt.Sprintf("rate_limit:user:%s:%s", userID, class)
}

func (r *RateLimiter) checkLimit(ctx context.Context, key string, limit int64, windowSec int) (*Result, error) {
	raw, err := r.script.Run(ctx, r.redis, []string{key}, limit, windowSec).Result()
	if err != nil {
		r.logger.Error("rate limit check failed", "key", key, "error", err)
		return nil, fmt.Errorf("rate limit check failed: %w", err)
	}

	result, err := parseScriptResult(raw)
	if err != nil {
		return nil, err
	}

	if !result.Allowed {
		r.logger.Warn("rate limit exceeded",
			"key", key,
			"current", result.CurrentCount,
			"limit", limit,
			"retry_after", result.RetryAfterSeconds)
	} else {
		r.logger.Debug("rate limit check passed",
			"key", key,
			"current", result.CurrentCount,
			"limit", limit)
	}

	return result, nil
}

// parseScriptResult decodes {allowed, current_count, limit, retry_after}
func parseScriptResult(raw interface{}) (*Result, error) {
	values, ok := raw.([]interface{})
	if !ok || len(values) != 4 {
		return nil, errors.New("unexpected rate limit script result format")
	}

	ints := make([]int64, 4)
	for i, v := range values {
		n, ok := v.(int64)
		if !ok {
			return nil, fmt.Errorf("unexpected rate limit script value %T at %d", v, i)
		}
		ints[i] = n
	}

	return &Result{
		Allowed:           ints[0] == 1,
		CurrentCount:      ints[1],
		Limit:             ints[2],
		RetryAfterSeconds: ints[3],
	}, nil
}

// CurrentCount returns a user's count for a class without incrementing it
func (r *RateLimiter) CurrentCount(ctx context.Context, userID string, class Class) (int64, error) {
	count, err := r.redis.Get(ctx, UserKey(userID, class)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return count, err
}

// Reset clears a user's counter for a class
func (r *RateLimiter) Reset(ctx context.Context, userID string, class Class) error {
	return r.redis.Del(ctx, UserKey(userID, class)).Err()
}
