package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"stock-pattern-api/internal/series"
)

// CachedProvider wraps a Provider with a Redis history cache. Cache errors
// degrade gracefully: every failure falls through to the inner provider so
// an unavailable Redis never breaks an analysis request.
type CachedProvider struct {
	inner  Provider
	client *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

// CacheConfig holds Redis cache settings.
type CacheConfig struct {
	Address  string
	Password string
	DB       int
	PoolSize int
	TTL      time.Duration
}

// NewCachedProvider creates the caching wrapper and verifies connectivity.
// A failed ping is logged but not fatal; the cache starts in degraded mode.
func NewCachedProvider(inner Provider, cfg CacheConfig, logger zerolog.Logger) *CachedProvider {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: 2,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	log := logger.With().Str("component", "marketdata-cache").Logger()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Warn().Err(err).Msg("redis unavailable, history cache degraded")
	}

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &CachedProvider{inner: inner, client: client, ttl: ttl, logger: log}
}

func historyKey(symbol, period, interval string) string {
	return fmt.Sprintf("history:%s:%s:%s", symbol, period, interval)
}

// GetHistory serves from Redis when possible and repopulates on miss.
func (p *CachedProvider) GetHistory(ctx context.Context, symbol, period, interval string) ([]series.Bar, error) {
	key := historyKey(symbol, period, interval)

	if raw, err := p.client.Get(ctx, key).Bytes(); err == nil {
		var bars []series.Bar
		if err := json.Unmarshal(raw, &bars); err == nil && len(bars) > 0 {
			return bars, nil
		}
		// Unreadable entry: drop it and refetch.
		p.client.Del(ctx, key)
	} else if err != redis.Nil {
		p.logger.Debug().Err(err).Str("key", key).Msg("cache read failed")
	}

	bars, err := p.inner.GetHistory(ctx, symbol, period, interval)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(bars); err == nil {
		if err := p.client.Set(ctx, key, raw, p.ttl).Err(); err != nil {
			p.logger.Debug().Err(err).Str("key", key).Msg("cache write failed")
		}
	}
	return bars, nil
}

// Close releases the Redis connection pool.
func (p *CachedProvider) Close() error {
	return p.client.Close()
}
