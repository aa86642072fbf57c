package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoryCacheRoundTrip(t *testing.T) {
	c := NewMemoryCache(time.Minute)
	defer c.Close()
	ctx := context.Background()

	type payload struct {
		Symbol string  `json:"symbol"`
		Budget float64 `json:"budget"`
	}
	if err := c.Set(ctx, "report:SPY", payload{"SPY", 5000}, time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}

	var got payload
	if err := c.Get(ctx, "report:SPY", &got); err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Symbol != "SPY" || got.Budget != 5000 {
		t.Fatalf("round trip lost data: %+v", got)
	}

	ok, err := c.Exists(ctx, "report:SPY")
	if err != nil || !ok {
		t.Fatalf("exists = %v/%v", ok, err)
	}
}

func TestMemoryCacheMiss(t *testing.T) {
	c := NewMemoryCache(time.Minute)
	defer c.Close()

	var dest any
	if err := c.Get(context.Background(), "nope", &dest); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("got %v, want ErrCacheMiss", err)
	}
}

func TestMemoryCacheExpiry(t *testing.T) {
	c := NewMemoryCache(time.Minute)
	defer c.Close()
	ctx := context.Background()

	if err := c.Set(ctx, "k", "v", time.Millisecond); err != nil {
		t.Fatalf("set: %v", err)
	}
	time.Sleep(5 * time.Millisecond)

	var dest string
	if err := c.Get(ctx, "k", &dest); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("got %v, want expiry miss", err)
	}
	if ok, _ := c.Exists(ctx, "k"); ok {
		t.Fatalf("expired key must not exist")
	}
}

func TestMemoryCacheDelete(t *testing.T) {
	c := NewMemoryCache(time.Minute)
	defer c.Close()
	ctx := context.Background()

	_ = c.Set(ctx, "a", 1, 0)
	_ = c.Set(ctx, "b", 2, 0)
	if err := c.Delete(ctx, "a", "b"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if ok, _ := c.Exists(ctx, "a"); ok {
		t.Fatalf("deleted key still present")
	}
}

func TestMemoryCacheCloseIdempotent(t *testing.T) {
	c := NewMemoryCache(time.Minute)
	if err := c.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
}
