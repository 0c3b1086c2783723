package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/autobooks/dashboard-bfa-go/internal/infra/cache"
)

func TestCache_SetAndGet(t *testing.T) {
	c := cache.New[string](5 * time.Minute)
	defer c.Close()
	ctx := context.Background()

	_ = c.Set(ctx, "key1", "value1")
	val, ok, err := c.Get(ctx, "key1")
	if err != nil || !ok {
		t.Fatalf("expected key to exist, ok=%v err=%v", ok, err)
	}
	if val != "value1" {
		t.Errorf("expected 'value1', got '%s'", val)
	}
}

func TestCache_GetMiss(t *testing.T) {
	c := cache.New[string](5 * time.Minute)
	defer c.Close()

	if _, ok, _ := c.Get(context.Background(), "nonexistent"); ok {
		t.Fatal("expected cache miss for nonexistent key")
	}
}

func TestCache_Expiration(t *testing.T) {
	c := cache.New[string](50 * time.Millisecond)
	defer c.Close()
	ctx := context.Background()

	_ = c.Set(ctx, "key1", "value1")
	time.Sleep(100 * time.Millisecond)

	if _, ok, _ := c.Get(ctx, "key1"); ok {
		t.Fatal("expected cache entry to be expired")
	}
}

func TestCache_Delete(t *testing.T) {
	c := cache.New[string](5 * time.Minute)
	defer c.Close()
	ctx := context.Background()

	_ = c.Set(ctx, "key1", "value1")
	_ = c.Delete(ctx, "key1")

	if _, ok, _ := c.Get(ctx, "key1"); ok {
		t.Fatal("expected key to be deleted")
	}
}
