package service

import (
	"testing"
	"time"
)

func TestTokenBucket_RefillsOverTime(t *testing.T) {
	tb := NewTokenBucket(2, 1)
	defer tb.Stop()

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	tb.now = func() time.Time { return now }

	if !tb.Allow("k") {
		t.Fatal("first request should be allowed")
	}
	if tb.Allow("k") {
		t.Fatal("second immediate request should be denied")
	}

	now = now.Add(500 * time.Millisecond)
	if !tb.Allow("k") {
		t.Fatal("request after refill should be allowed")
	}
}

func TestTokenBucket_SweepDropsIdleBuckets(t *testing.T) {
	tb := NewTokenBucket(1, 1)
	defer tb.Stop()

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	tb.now = func() time.Time { return now }
	tb.Allow("old")

	now = now.Add(time.Hour)
	tb.Allow("fresh")

	tb.sweep(now.Add(-bucketIdleTTL))

	tb.mu.Lock()
	defer tb.mu.Unlock()
	if _, ok := tb.buckets["old"]; ok {
		t.Fatal("expected idle bucket to be swept")
	}
	if _, ok := tb.buckets["fresh"]; !ok {
		t.Fatal("expected fresh bucket to remain")
	}
}
