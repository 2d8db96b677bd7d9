package middleware

import (
	"testing"
	"time"

	"golang.org/x/time/rate"
)

func TestLimiterStoreEvictsIdleEntries(t *testing.T) {
	store := &rateLimiterStore{limiters: make(map[string]*ipLimiter)}
	now := time.Now()

	store.limiters["10.0.0.1"] = &ipLimiter{
		limiter:  rate.NewLimiter(rate.Every(time.Second), 1),
		lastSeen: now.Add(-2 * limiterIdleTTL),
	}
	store.limiters["10.0.0.2"] = &ipLimiter{
		limiter:  rate.NewLimiter(rate.Every(time.Second), 1),
		lastSeen: now,
	}
	store.lastSweep = now.Add(-2 * limiterSweepEvery)

	store.getLimiter("10.0.0.3")

	if _, ok := store.limiters["10.0.0.1"]; ok {
		t.Error("idle entry survived the sweep")
	}
	if _, ok := store.limiters["10.0.0.2"]; !ok {
		t.Error("active entry was swept")
	}
	if _, ok := store.limiters["10.0.0.3"]; !ok {
		t.Error("new entry missing after getLimiter")
	}
}

func TestLimiterStoreReusesEntryPerIP(t *testing.T) {
	store := &rateLimiterStore{limiters: make(map[string]*ipLimiter)}

	first := store.getLimiter("10.0.0.9")
	second := store.getLimiter("10.0.0.9")
	if first != second {
		t.Error("same IP produced two different limiters")
	}
	if len(store.limiters) != 1 {
		t.Errorf("store holds %d entries, want 1", len(store.limiters))
	}
}
