package ratelimit

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestLimiter_AllowsUpToLimit(t *testing.T) {
	l := New(NewMemoryStore(), 3, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		d, err := l.Allow(ctx, "1.2.3.4")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !d.Allowed {
			t.Fatalf("request %d denied", i+1)
		}
		if d.Remaining != int64(2-i) {
			t.Errorf("request %d: Remaining = %d", i+1, d.Remaining)
		}
	}

	d, _ := l.Allow(ctx, "1.2.3.4")
	if d.Allowed {
		t.Fatal("4th request should be denied")
	}
	if secs := d.RetryAfterSeconds(); secs < 1 || secs > 60 {
		t.Errorf("RetryAfterSeconds = %d", secs)
	}
}

func TestLimiter_KeysAreIndependent(t *testing.T) {
	l := New(NewMemoryStore(), 1, time.Minute)
	ctx := context.Background()

	if d, _ := l.Allow(ctx, "a"); !d.Allowed {
		t.Error("first request for a denied")
	}
	if d, _ := l.Allow(ctx, "b"); !d.Allowed {
		t.Error("first request for b denied")
	}
	if d, _ := l.Allow(ctx, "a"); d.Allowed {
		t.Error("second request for a allowed")
	}
}

func TestMemoryStore_WindowResets(t *testing.T) {
	now := time.Unix(1000, 0)
	s := NewMemoryStore()
	s.now = func() time.Time { return now }
	l := New(s, 1, time.Minute)
	ctx := context.Background()

	l.Allow(ctx, "k")
	if d, _ := l.Allow(ctx, "k"); d.Allowed {
		t.Fatal("expected denial inside window")
	}

	now = now.Add(61 * time.Second)
	if d, _ := l.Allow(ctx, "k"); !d.Allowed {
		t.Error("expected admission after window reset")
	}
	if len(s.windows) != 1 {
		t.Errorf("expired windows not swept: %d", len(s.windows))
	}
}

func TestMemoryStore_SweepsOncePerWindow(t *testing.T) {
	now := time.Unix(1000, 0)
	s := NewMemoryStore()
	s.now = func() time.Time { return now }
	ctx := context.Background()

	s.Incr(ctx, "a", time.Minute)
	now = now.Add(time.Second)
	s.Incr(ctx, "short", time.Second)

	// "short" has expired, but new keys inside the interval leave it alone.
	now = now.Add(10 * time.Second)
	s.Incr(ctx, "b", time.Minute)
	if _, ok := s.windows["short"]; !ok {
		t.Fatal("expected no sweep before the interval elapsed")
	}

	now = time.Unix(1060, 0)
	s.Incr(ctx, "c", time.Minute)
	if _, ok := s.windows["short"]; ok {
		t.Error("expected expired window swept once the interval elapsed")
	}
	if _, ok := s.windows["a"]; ok {
		t.Error("expected window a swept at its reset time")
	}
	if len(s.windows) != 2 {
		t.Errorf("windows = %d, want 2", len(s.windows))
	}
}

type failingStore struct{ MemoryStore }

func (*failingStore) Incr(context.Context, string, time.Duration) (int64, time.Duration, error) {
	return 0, 0, errors.New("connection refused")
}

func TestLimiter_StoreErrorFailsOpen(t *testing.T) {
	l := New(&failingStore{}, 1, time.Minute)
	d, err := l.Allow(context.Background(), "k")
	if err == nil {
		t.Error("expected store error to be reported")
	}
	if !d.Allowed {
		t.Error("store failure must not reject requests")
	}
}

func TestNewRedisStore_BadURL(t *testing.T) {
	if _, err := NewRedisStore("not-a-url"); err == nil {
		t.Error("expected error for invalid redis URL")
	}
}

func TestDecision_RetryAfterSecondsRoundsUp(t *testing.T) {
	d := Decision{RetryAfter: 1500 * time.Millisecond}
	if got := d.RetryAfterSeconds(); got != 2 {
		t.Errorf("RetryAfterSeconds = %d, want 2", got)
	}
	if got := (Decision{}).RetryAfterSeconds(); got != 1 {
		t.Errorf("zero RetryAfterSeconds = %d, want 1", got)
	}
}
