package cache

import (
	"context"
	"testing"
	"time"
)

func TestMemoryStore_SetGet(t *testing.T) {
	store := NewMemoryStore(10, 0)
	ctx := context.Background()

	if err := store.Set(ctx, "key1", []byte("value1"), 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	value, ok := store.Get(ctx, "key1")
	if !ok {
		t.Fatal("Expected cache hit")
	}
	if string(value) != "value1" {
		t.Errorf("Expected value1, got %s", value)
	}

	if _, ok := store.Get(ctx, "missing"); ok {
		t.Error("Expected miss for unknown key")
	}
}

func TestMemoryStore_TTLExpiry(t *testing.T) {
	store := NewMemoryStore(10, 0)
	ctx := context.Background()

	store.Set(ctx, "short", []byte("v"), 20*time.Millisecond)

	if _, ok := store.Get(ctx, "short"); !ok {
		t.Fatal("Expected hit before expiry")
	}

	time.Sleep(30 * time.Millisecond)

	if _, ok := store.Get(ctx, "short"); ok {
		t.Error("Expected miss after expiry")
	}
	if store.Size() != 0 {
		t.Errorf("Expired entry not removed, size %d", store.Size())
	}
}

func TestMemoryStore_DefaultTTL(t *testing.T) {
	store := NewMemoryStore(10, 20*time.Millisecond)
	ctx := context.Background()

	store.Set(ctx, "k", []byte("v"), 0)
	time.Sleep(30 * time.Millisecond)

	if _, ok := store.Get(ctx, "k"); ok {
		t.Error("Expected default TTL to apply when per-call TTL is zero")
	}
}

func TestMemoryStore_ClearPrefix(t *testing.T) {
	store := NewMemoryStore(10, 0)
	ctx := context.Background()

	store.Set(ctx, "gsc:analytics:site-a", []byte("a"), 0)
	store.Set(ctx, "gsc:analytics:site-b", []byte("b"), 0)
	store.Set(ctx, "other:key", []byte("c"), 0)

	if err := store.Clear(ctx, "gsc:analytics:"); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}

	if _, ok := store.Get(ctx, "gsc:analytics:site-a"); ok {
		t.Error("Prefixed key survived clear")
	}
	if _, ok := store.Get(ctx, "other:key"); !ok {
		t.Error("Unrelated key removed by prefix clear")
	}

	if err := store.Clear(ctx, ""); err != nil {
		t.Fatalf("Full clear failed: %v", err)
	}
	if store.Size() != 0 {
		t.Errorf("Expected empty store, size %d", store.Size())
	}
}

func TestMemoryStore_LRUEviction(t *testing.T) {
	store := NewMemoryStore(2, 0)
	ctx := context.Background()

	store.Set(ctx, "a", []byte("1"), 0)
	store.Set(ctx, "b", []byte("2"), 0)

	// Touch "a" so "b" becomes the eviction candidate
	store.Get(ctx, "a")

	store.Set(ctx, "c", []byte("3"), 0)

	if _, ok := store.Get(ctx, "b"); ok {
		t.Error("Expected least recently used key evicted")
	}
	if _, ok := store.Get(ctx, "a"); !ok {
		t.Error("Recently used key should survive")
	}
	if _, ok := store.Get(ctx, "c"); !ok {
		t.Error("New key should be present")
	}
}
