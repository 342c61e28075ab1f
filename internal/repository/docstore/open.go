package docstore

import (
	"context"
	"fmt"

	"storefront-backend/config"
	"storefront-backend/internal/domain"
	"storefront-backend/pkg/storage"
)

var (
	_ domain.DocumentStore = (*PostgresStore)(nil)
	_ domain.DocumentStore = (*HTTPStore)(nil)
	_ domain.DocumentStore = (*R2Store)(nil)
	_ domain.DocumentStore = (*MemoryStore)(nil)
)

// Open builds the backend selected by DOC_STORE. The returned func releases its resources.
func Open(ctx context.Context, cfg *config.Config) (domain.DocumentStore, func(), error) {
	noop := func() {}

	switch cfg.DocStore {
	case config.DocStorePostgres:
		pool, err := NewPgxPool(ctx, cfg)
		if err != nil {
			return nil, noop, err
		}
		store := NewPostgresStore(pool)
		if err := store.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, noop, err
		}
		return store, pool.Close, nil

	case config.DocStoreHTTP:
		return NewHTTPStore(cfg.DocStoreURL, cfg.DocStoreToken, cfg.DocStoreTimeout), noop, nil

	case config.DocStoreR2:
		client, err := storage.NewR2Storage(ctx, storage.R2Options{
			AccountID: cfg.R2AccountID,
			AccessKey: cfg.R2AccessKeyID,
			SecretKey: cfg.R2AccessKeySecret,
			Bucket:    cfg.R2BucketName,
			Timeout:   cfg.R2Timeout,
		})
		if err != nil {
			return nil, noop, fmt.Errorf("init r2 client: %w", err)
		}
		return NewR2Store(client, cfg.R2Prefix), noop, nil

	case config.DocStoreMemory, "":
		return NewMemoryStore(), noop, nil

	default:
		return nil, noop, fmt.Errorf("unknown document store %q", cfg.DocStore)
	}
}
