package cache

import (
	"context"
	"testing"
	"time"

	"btc-barometer/internal/domain"
)

func sampleResult(days int) *domain.AnalysisResult {
	return &domain.AnalysisResult{
		PeriodDays:     days,
		Recommendation: domain.RecommendationHold,
		GeneratedAt:    time.Now(),
	}
}

func TestBucketKeyStableWithinWindow(t *testing.T) {
	t.Parallel()

	ttl := 10 * time.Minute
	aligned := time.Unix((1_700_000_000/600)*600, 0)
	if bucketKey(7, ttl, aligned) != bucketKey(7, ttl, aligned.Add(9*time.Minute)) {
		t.Error("expected same key within a bucket window")
	}
	if bucketKey(7, ttl, aligned) == bucketKey(7, ttl, aligned.Add(11*time.Minute)) {
		t.Error("expected different key after bucket rollover")
	}
	if bucketKey(7, ttl, aligned) == bucketKey(30, ttl, aligned) {
		t.Error("expected different key for different periods")
	}
}

func TestMemoryCacheRoundTrip(t *testing.T) {
	t.Parallel()

	c := NewMemoryAnalysisCache(10 * time.Minute)
	ctx := context.Background()

	got, err := c.Get(ctx, 7)
	if err != nil || got != nil {
		t.Fatalf("expected clean miss, got %v, %v", got, err)
	}

	want := sampleResult(7)
	if err := c.Put(ctx, 7, want); err != nil {
		t.Fatalf("put failed: %v", err)
	}

	got, err = c.Get(ctx, 7)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got == nil || got.PeriodDays != 7 {
		t.Fatalf("expected cached result, got %+v", got)
	}

	if got, _ := c.Get(ctx, 30); got != nil {
		t.Error("expected miss for a different period")
	}
}

func TestMemoryCacheExpiry(t *testing.T) {
	t.Parallel()

	c := NewMemoryAnalysisCache(10 * time.Minute)
	now := time.Unix((1_700_000_000/600)*600, 0)
	c.now = func() time.Time { return now }

	ctx := context.Background()
	if err := c.Put(ctx, 7, sampleResult(7)); err != nil {
		t.Fatalf("put failed: %v", err)
	}

	now = now.Add(5 * time.Minute)
	if got, _ := c.Get(ctx, 7); got == nil {
		t.Fatal("expected hit within the window")
	}

	now = now.Add(10 * time.Minute)
	if got, _ := c.Get(ctx, 7); got != nil {
		t.Fatal("expected miss after expiry")
	}
}
