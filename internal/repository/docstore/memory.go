package docstore

import (
	"context"
	"time"

	"storefront-backend/internal/domain"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryStore keeps documents in process. Used for development and tests.
type MemoryStore struct {
	store *gocache.Cache
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{store: gocache.New(gocache.NoExpiration, 0)}
}

func (s *MemoryStore) Get(ctx context.Context, key string) (data []byte, err error) {
	defer track(ctx, "memory", "get", key, time.Now(), &err)

	v, ok := s.store.Get(key)
	if !ok {
		return nil, domain.ErrNotFound
	}
	return clone(v.([]byte)), nil
}

func (s *MemoryStore) Put(ctx context.Context, key string, value []byte) (err error) {
	defer track(ctx, "memory", "put", key, time.Now(), &err)

	s.store.Set(key, clone(value), gocache.NoExpiration)
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, key string) (err error) {
	defer track(ctx, "memory", "delete", key, time.Now(), &err)

	s.store.Delete(key)
	return nil
}

func clone(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
