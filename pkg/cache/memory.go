package cache

import (
	"container/list"
	"context"
	"strings"
	"sync"
	"time"
)

// cacheItem represents an item in the cache
type cacheItem struct {
	key       string
	value     []byte
	expiresAt time.Time
	element   *list.Element
}

// MemoryStore implements Store as an LRU cache with per-entry TTL
type MemoryStore struct {
	maxSize    int
	items      map[string]*cacheItem
	lruList    *list.List
	mu         sync.RWMutex
	defaultTTL time.Duration
}

// NewMemoryStore creates an in-memory store with the given capacity and
// default TTL. A zero defaultTTL means entries never expire unless a
// per-call TTL is given.
func NewMemoryStore(maxSize int, defaultTTL time.Duration) *MemoryStore {
	if maxSize <= 0 {
		maxSize = 1000
	}
	return &MemoryStore{
		maxSize:    maxSize,
		items:      make(map[string]*cacheItem),
		lruList:    list.New(),
		defaultTTL: defaultTTL,
	}
}

// Set adds or updates an item in the cache
func (ms *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	if ttl <= 0 {
		ttl = ms.defaultTTL
	}
	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = time.Now().Add(ttl)
	}

	if item, exists := ms.items[key]; exists {
		item.value = value
		item.expiresAt = expiresAt
		ms.lruList.MoveToFront(item.element)
		return nil
	}

	item := &cacheItem{
		key:       key,
		value:     value,
		expiresAt: expiresAt,
	}
	item.element = ms.lruList.PushFront(item)
	ms.items[key] = item

	if len(ms.items) > ms.maxSize {
		ms.evictOldest()
	}

	return nil
}

// Get retrieves an item from the cache
func (ms *MemoryStore) Get(_ context.Context, key string) ([]byte, bool) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	item, exists := ms.items[key]
	if !exists {
		return nil, false
	}

	if !item.expiresAt.IsZero() && time.Now().After(item.expiresAt) {
		ms.deleteItem(item)
		return nil, false
	}

	ms.lruList.MoveToFront(item.element)

	return item.value, true
}

// Clear removes all items, or only those whose key starts with prefix.
func (ms *MemoryStore) Clear(_ context.Context, prefix string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	if prefix == "" {
		ms.items = make(map[string]*cacheItem)
		ms.lruList = list.New()
		return nil
	}

	var matched []*cacheItem
	for key, item := range ms.items {
		if strings.HasPrefix(key, prefix) {
			matched = append(matched, item)
		}
	}
	for _, item := range matched {
		ms.deleteItem(item)
	}

	return nil
}

// Size returns the current number of items in the cache
func (ms *MemoryStore) Size() int {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	return len(ms.items)
}

// Keys returns all keys in the cache
func (ms *MemoryStore) Keys() []string {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	keys := make([]string, 0, len(ms.items))
	for key := range ms.items {
		keys = append(keys, key)
	}

	return keys
}

// evictOldest removes the least recently used item
func (ms *MemoryStore) evictOldest() {
	element := ms.lruList.Back()
	if element != nil {
		ms.deleteItem(element.Value.(*cacheItem))
	}
}

// deleteItem removes an item from both map and list
func (ms *MemoryStore) deleteItem(item *cacheItem) {
	delete(ms.items, item.key)
	ms.lruList.Remove(item.element)
}
