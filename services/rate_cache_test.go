package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"hotel-pricing/models"

	"github.com/alicebob/miniredis/v2"
	"go.uber.org/zap"
)

func newTestRedisCache(t *testing.T, retention time.Duration) (*RedisRateCache, *miniredis.Miniredis) {
	t.Helper()
	m := miniredis.RunT(t)
	cache := NewRedisRateCache(m.Addr(), "", 0, retention)
	t.Cleanup(cache.Close)
	return cache, m
}

func TestRedisRateCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	retention := 24 * time.Hour
	cache, m := newTestRedisCache(t, retention)

	if err := cache.Ping(ctx); err != nil {
		t.Fatalf("Ping() error = %v", err)
	}

	_, found, err := cache.Get(ctx, "EUR")
	if err != nil || found {
		t.Fatalf("Get() on empty cache = found %v, err %v; want a miss without error", found, err)
	}

	fetched := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	if err := cache.Set(ctx, models.CurrencyContext{Code: "EUR", Rate: 0.92, FetchedAt: fetched}); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if ttl := m.TTL("fx:rate:EUR"); ttl != retention {
		t.Errorf("key TTL = %v, want %v", ttl, retention)
	}

	got, found, err := cache.Get(ctx, "EUR")
	if err != nil || !found {
		t.Fatalf("Get() = found %v, err %v", found, err)
	}
	if got.Rate != 0.92 || !got.FetchedAt.Equal(fetched) {
		t.Errorf("Get() = %+v", got)
	}

	m.FastForward(retention)
	if _, found, _ := cache.Get(ctx, "EUR"); found {
		t.Error("entry still present after the retention window")
	}
}

func TestRedisRateCacheCorruptEntry(t *testing.T) {
	cache, m := newTestRedisCache(t, time.Hour)
	if err := m.Set("fx:rate:GBP", "{not json"); err != nil {
		t.Fatal(err)
	}

	if _, found, err := cache.Get(context.Background(), "GBP"); err == nil || found {
		t.Errorf("Get() = found %v, err %v; want a decode error", found, err)
	}
}

func TestRateServiceServesStaleRateFromRedis(t *testing.T) {
	ctx := context.Background()
	cache, _ := newTestRedisCache(t, 48*time.Hour)
	clock := &fakeClock{t: time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)}
	fetcher := &stubFetcher{rates: map[string]float64{"EUR": 0.9}}

	svc := NewRateService(fetcher, cache, time.Hour, zap.NewNop())
	svc.now = clock.now

	if rate, err := svc.Rate(ctx, "eur"); err != nil || rate.Rate != 0.9 {
		t.Fatalf("Rate() = %+v, %v", rate, err)
	}
	if _, err := svc.Rate(ctx, "EUR"); err != nil || fetcher.calls != 1 {
		t.Fatalf("fresh redis entry should be reused, fetch calls = %d", fetcher.calls)
	}

	clock.t = clock.t.Add(2 * time.Hour)
	fetcher.err = errors.New("upstream down")
	rate, err := svc.Rate(ctx, "EUR")
	if err != nil {
		t.Fatalf("Rate() error = %v", err)
	}
	if rate.Rate != 0.9 || fetcher.calls != 2 {
		t.Errorf("stale fallback = %+v after %d calls, want 0.9 after 2", rate, fetcher.calls)
	}

	// A cache that is down reads as a miss and the fetch fallback applies.
	unreachable := NewRedisRateCache("127.0.0.1:1", "", 0, time.Hour)
	defer unreachable.Close()
	down := NewRateService(fetcher, unreachable, time.Hour, zap.NewNop())
	if rate, err := down.Rate(ctx, "EUR"); err != nil || rate.Rate != 1 {
		t.Errorf("Rate() with unreachable cache = %+v, %v; want rate 1", rate, err)
	}
}
