package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestMemoryLimiter_AllowsUpToLimit(t *testing.T) {
	current := time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC)
	limiter := NewMemoryLimiter(MemoryLimiterConfig{Now: func() time.Time { return current }})

	for i := 0; i < 3; i++ {
		decision, err := limiter.Allow(context.Background(), "user:a", 3, time.Minute)
		if err != nil {
			t.Fatalf("allow %d: %v", i, err)
		}
		if !decision.Allowed {
			t.Fatalf("request %d denied below limit", i)
		}
		if decision.Remaining != 3-i-1 {
			t.Fatalf("remaining = %d, want %d", decision.Remaining, 3-i-1)
		}
	}

	decision, err := limiter.Allow(context.Background(), "user:a", 3, time.Minute)
	if err != nil {
		t.Fatalf("allow over limit: %v", err)
	}
	if decision.Allowed {
		t.Fatal("request over limit allowed")
	}
	if decision.Remaining != 0 {
		t.Fatalf("remaining = %d, want 0", decision.Remaining)
	}
}

func TestMemoryLimiter_WindowResets(t *testing.T) {
	current := time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC)
	limiter := NewMemoryLimiter(MemoryLimiterConfig{Now: func() time.Time { return current }})

	for i := 0; i < 2; i++ {
		if _, err := limiter.Allow(context.Background(), "user:b", 2, time.Minute); err != nil {
			t.Fatalf("allow %d: %v", i, err)
		}
	}
	decision, _ := limiter.Allow(context.Background(), "user:b", 2, time.Minute)
	if decision.Allowed {
		t.Fatal("expected denial inside window")
	}

	current = current.Add(2 * time.Minute)
	decision, err := limiter.Allow(context.Background(), "user:b", 2, time.Minute)
	if err != nil {
		t.Fatalf("allow after reset: %v", err)
	}
	if !decision.Allowed {
		t.Fatal("expected allowance after window reset")
	}
	if decision.Remaining != 1 {
		t.Fatalf("remaining = %d, want 1", decision.Remaining)
	}
}

func TestMemoryLimiter_KeysAreIndependent(t *testing.T) {
	limiter := NewMemoryLimiter(MemoryLimiterConfig{})

	for i := 0; i < 2; i++ {
		if _, err := limiter.Allow(context.Background(), "user:c", 2, time.Minute); err != nil {
			t.Fatalf("allow: %v", err)
		}
	}
	decision, _ := limiter.Allow(context.Background(), "user:c", 2, time.Minute)
	if decision.Allowed {
		t.Fatal("expected user:c to be limited")
	}

	decision, err := limiter.Allow(context.Background(), "user:d", 2, time.Minute)
	if err != nil {
		t.Fatalf("allow other key: %v", err)
	}
	if !decision.Allowed {
		t.Fatal("other key should be unaffected")
	}
}

func TestMemoryLimiter_ZeroLimitDisables(t *testing.T) {
	limiter := NewMemoryLimiter(MemoryLimiterConfig{})
	decision, err := limiter.Allow(context.Background(), "user:e", 0, time.Minute)
	if err != nil {
		t.Fatalf("allow: %v", err)
	}
	if !decision.Allowed {
		t.Fatal("zero limit should disable limiting")
	}
}
