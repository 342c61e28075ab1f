package document

import (
	"context"
	"fmt"
	"sync"

	"storefront-backend/internal/domain"

	"github.com/goccy/go-json"
)

type settingsRepository struct {
	mu    sync.Mutex
	store domain.DocumentStore
}

func NewSettingsRepository(store domain.DocumentStore) domain.SettingsRepository {
	return &settingsRepository{store: store}
}

// Get returns domain.ErrNotFound when settings were never saved.
func (r *settingsRepository) Get(ctx context.Context) (*domain.StoreSettings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := r.store.Get(ctx, domain.DocumentSettings)
	if err != nil {
		return nil, err
	}
	var s domain.StoreSettings
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode settings: %w", err)
	}
	return &s, nil
}

func (r *settingsRepository) Save(ctx context.Context, settings *domain.StoreSettings) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	return r.store.Put(ctx, domain.DocumentSettings, data)
}
