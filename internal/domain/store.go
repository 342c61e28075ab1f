package domain

import "context"

// Document keys
const (
	DocumentOrders   = "orders"
	DocumentProducts = "products"
	DocumentSettings = "settings"
)

// DocumentStore persists whole JSON documents by key.
// Get returns ErrNotFound when the key has never been written.
type DocumentStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
