package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-redis/redis_rate/v10"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/feral-file/notary-bridge/internal/adapter"
)

// Result is the outcome of a rate limit check
type Result struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration
}

// Limiter limits requests per key, e.g. per client IP
//
//go:generate mockgen -source=limiter.go -destination=../mocks/ratelimit.go -package=mocks -mock_names=Limiter=MockRateLimiter
type Limiter interface {
	// Allow consumes one token of key
	Allow(ctx context.Context, key string) (Result, error)
}

// Config holds the limiter configuration
type Config struct {
	// Name namespaces the keys of one limited route
	Name              string
	RequestsPerMinute int
	Burst             int
	RedisKeyPrefix    string
	// EnableLocalFallback limits in process while Redis is unreachable
	EnableLocalFallback bool
	// LocalKeys bounds the number of keys tracked by the local limiter
	LocalKeys int
	// RedisRecheckInterval is how long Redis stays bypassed after a failure
	RedisRecheckInterval time.Duration
}

type limiter struct {
	config      Config
	distributed adapter.RedisRateLimiter
	clock       adapter.Clock
	logger      *zap.Logger

	// local fallback limiters per key
	localMu sync.Mutex
	local   *lru.Cache[string, *rate.Limiter]

	redisDown      atomic.Bool
	redisDownSince atomic.Int64
}

// NewLimiter creates a limiter backed by Redis when rc is not nil, otherwise by local token buckets
func NewLimiter(cfg Config, rc adapter.RedisClient, clock adapter.Clock, logger *zap.Logger) (Limiter, error) {
	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	local, err := lru.New[string, *rate.Limiter](cfg.LocalKeys)
	if err != nil {
		return nil, fmt.Errorf("failed to create local limiter cache: %w", err)
	}

	l := &limiter{
		config: cfg,
		clock:  clock,
		logger: logger.With(zap.String("limiter", cfg.Name)),
		local:  local,
	}
	if rc != nil {
		l.distributed = rc.NewRateLimiter()
	} else if !cfg.EnableLocalFallback {
		return nil, fmt.Errorf("redis is required when local fallback is disabled")
	}

	return l, nil
}

func (l *limiter) Allow(ctx context.Context, key string) (Result, error) {
	if l.distributed != nil && l.redisUsable() {
		res, err := l.distributed.Allow(ctx, l.config.RedisKeyPrefix+l.config.Name+":"+key, redis_rate.Limit{
			Rate:   l.config.RequestsPerMinute,
			Burst:  l.config.Burst,
			Period: time.Minute,
		})
		if err == nil {
			if l.redisDown.Swap(false) {
				l.logger.Info("Redis rate limiter restored")
			}
			return Result{Allowed: res.Allowed > 0, Remaining: res.Remaining, RetryAfter: res.RetryAfter}, nil
		}
		if ctx.Err() != nil {
			return Result{}, ctx.Err()
		}
		if !l.config.EnableLocalFallback {
			return Result{}, fmt.Errorf("redis rate limiter unavailable: %w", err)
		}

		l.logger.Warn("Redis rate limiter error, falling back to local", zap.Error(err))
		l.redisDown.Store(true)
		l.redisDownSince.Store(l.clock.Now().UnixNano())
	}

	return l.allowLocal(key), nil
}

// redisUsable reports whether Redis should be tried, rechecking a failed Redis after the interval
func (l *limiter) redisUsable() bool {
	if !l.redisDown.Load() {
		return true
	}
	since := time.Unix(0, l.redisDownSince.Load())
	return l.clock.Since(since) >= l.config.RedisRecheckInterval
}

func (l *limiter) allowLocal(key string) Result {
	l.localMu.Lock()
	bucket, ok := l.local.Get(key)
	if !ok {
		bucket = rate.NewLimiter(rate.Every(time.Minute/time.Duration(l.config.RequestsPerMinute)), l.config.Burst)
		l.local.Add(key, bucket)
	}
	l.localMu.Unlock()

	now := l.clock.Now()
	if bucket.AllowN(now, 1) {
		return Result{Allowed: true, Remaining: int(bucket.TokensAt(now))}
	}
	return Result{
		Allowed:    false,
		RetryAfter: time.Minute / time.Duration(l.config.RequestsPerMinute),
	}
}

// validateConfig validates and sets defaults for the configuration
func validateConfig(cfg *Config) error {
	if cfg.Name == "" {
		return fmt.Errorf("name is required")
	}
	if cfg.RequestsPerMinute <= 0 {
		return fmt.Errorf("requests_per_minute must be positive")
	}
	if cfg.Burst <= 0 {
		cfg.Burst = cfg.RequestsPerMinute
	}
	if cfg.RedisKeyPrefix == "" {
		cfg.RedisKeyPrefix = "notary:limiter:"
	}
	if cfg.LocalKeys <= 0 {
		cfg.LocalKeys = 10000
	}
	if cfg.RedisRecheckInterval <= 0 {
		cfg.RedisRecheckInterval = 10 * time.Second
	}
	return nil
}
