package media

import (
	"context"
	"fmt"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

// MemoryStore keeps assets in process memory, bounded by an LRU so old
// speech clips are evicted instead of growing the heap without limit.
type MemoryStore struct {
	cache *lru.Cache[string, Object]
}

// NewMemoryStore builds a memory store holding at most maxEntries
// assets.
func NewMemoryStore(maxEntries int) (*MemoryStore, error) {
	if maxEntries <= 0 {
		maxEntries = 256
	}
	cache, err := lru.New[string, Object](maxEntries)
	if err != nil {
		return nil, fmt.Errorf("init media cache: %w", err)
	}
	return &MemoryStore{cache: cache}, nil
}

func (s *MemoryStore) Put(_ context.Context, key, contentType string, data []byte) error {
	if s == nil || s.cache == nil {
		return fmt.Errorf("store is nil")
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("key is required")
	}
	s.cache.Add(key, Object{
		ContentType: contentType,
		Data:        append([]byte(nil), data...),
	})
	return nil
}

func (s *MemoryStore) Get(_ context.Context, key string) (Object, error) {
	if s == nil || s.cache == nil {
		return Object{}, fmt.Errorf("store is nil")
	}
	obj, ok := s.cache.Get(strings.TrimSpace(key))
	if !ok {
		return Object{}, ErrNotFound
	}
	return obj, nil
}

func (s *MemoryStore) URL(key string) string {
	return "/media/" + strings.TrimLeft(strings.TrimSpace(key), "/")
}
