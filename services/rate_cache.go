package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"hotel-pricing/models"

	"github.com/redis/go-redis/v9"
)

// RateCache stores the last fetched rate per currency code. Freshness is
// decided by the caller from CurrencyContext.FetchedAt.
type RateCache interface {
	Get(ctx context.Context, code string) (models.CurrencyContext, bool, error)
	Set(ctx context.Context, rate models.CurrencyContext) error
}

type MemoryRateCache struct {
	mu      sync.RWMutex
	entries map[string]models.CurrencyContext
}

func NewMemoryRateCache() *MemoryRateCache {
	return &MemoryRateCache{entries: make(map[string]models.CurrencyContext)}
}

func (c *MemoryRateCache) Get(_ context.Context, code string) (models.CurrencyContext, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	rate, ok := c.entries[code]
	return rate, ok, nil
}

func (c *MemoryRateCache) Set(_ context.Context, rate models.CurrencyContext) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[rate.Code] = rate
	return nil
}

// RedisRateCache keeps rates under fx:rate:<CODE>. Keys expire after
// retention, which should outlive the freshness TTL so a stale rate can
// still be served when the upstream is down.
type RedisRateCache struct {
	client    *redis.Client
	retention time.Duration
}

func NewRedisRateCache(addr, password string, db int, retention time.Duration) *RedisRateCache {
	return &RedisRateCache{
		client: redis.NewClient(&redis.Options{
			Addr:         addr,
			Password:     password,
			DB:           db,
			PoolSize:     20,
			MinIdleConns: 2,
		}),
		retention: retention,
	}
}

func (c *RedisRateCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisRateCache) Close() {
	if c.client != nil {
		_ = c.client.Close()
	}
}

func (c *RedisRateCache) Get(ctx context.Context, code string) (models.CurrencyContext, bool, error) {
	data, err := c.client.Get(ctx, buildRateKey(code)).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.CurrencyContext{}, false, nil
	}
	if err != nil {
		return models.CurrencyContext{}, false, fmt.Errorf("get rate: %w", err)
	}

	var rate models.CurrencyContext
	if err := json.Unmarshal(data, &rate); err != nil {
		return models.CurrencyContext{}, false, fmt.Errorf("unmarshal rate: %w", err)
	}
	return rate, true, nil
}

func (c *RedisRateCache) Set(ctx context.Context, rate models.CurrencyContext) error {
	data, err := json.Marshal(rate)
	if err != nil {
		return fmt.Errorf("marshal rate: %w", err)
	}
	return c.client.Set(ctx, buildRateKey(rate.Code), data, c.retention).Err()
}

func buildRateKey(code string) string {
	return "fx:rate:" + code
}
