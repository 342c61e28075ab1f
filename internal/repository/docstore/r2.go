package docstore

import (
	"context"
	"errors"
	"time"

	"storefront-backend/internal/domain"
	"storefront-backend/pkg/storage"
)

// ObjectClient is implemented by storage.R2Storage.
type ObjectClient interface {
	GetObject(ctx context.Context, key string) ([]byte, error)
	PutObject(ctx context.Context, key string, data []byte, contentType string) error
	DeleteObject(ctx context.Context, key string) error
}

// R2Store keeps each document as a JSON object named {prefix}{key}.json.
type R2Store struct {
	client ObjectClient
	prefix string
}

func NewR2Store(client ObjectClient, prefix string) *R2Store {
	return &R2Store{client: client, prefix: prefix}
}

func (s *R2Store) objectKey(key string) string {
	return s.prefix + key + ".json"
}

func (s *R2Store) Get(ctx context.Context, key string) (data []byte, err error) {
	defer track(ctx, "r2", "get", key, time.Now(), &err)

	data, err = s.client.GetObject(ctx, s.objectKey(key))
	if errors.Is(err, storage.ErrObjectNotFound) {
		return nil, domain.ErrNotFound
	}
	return data, err
}

func (s *R2Store) Put(ctx context.Context, key string, value []byte) (err error) {
	defer track(ctx, "r2", "put", key, time.Now(), &err)

	return s.client.PutObject(ctx, s.objectKey(key), value, "application/json")
}

func (s *R2Store) Delete(ctx context.Context, key string) (err error) {
	defer track(ctx, "r2", "delete", key, time.Now(), &err)

	return s.client.DeleteObject(ctx, s.objectKey(key))
}
