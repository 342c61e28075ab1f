package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"storefront-backend/internal/domain"
	"storefront-backend/pkg/cache"
	"storefront-backend/pkg/logger"
)

type CatalogUsecase struct {
	mu    sync.Mutex
	repo  domain.ProductRepository
	cache cache.CacheService
	ttl   time.Duration
	ids   domain.IDGenerator
	now   func() time.Time
}

func NewCatalogUsecase(repo domain.ProductRepository, cache cache.CacheService, ttl time.Duration, ids domain.IDGenerator) *CatalogUsecase {
	if ids == nil {
		ids = domain.NewSequenceIDGenerator(nil)
	}
	return &CatalogUsecase{
		repo:  repo,
		cache: cache,
		ttl:   ttl,
		ids:   ids,
		now:   time.Now,
	}
}

// SaveProduct reconciles an editor draft against the stored product and persists it.
func (uc *CatalogUsecase) SaveProduct(ctx context.Context, draft domain.ProductDraft) (*domain.Product, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	var prev *domain.Product
	if draft.ID != "" {
		existing, err := uc.repo.GetByID(ctx, draft.ID)
		switch {
		case err == nil:
			prev = existing
		case !errors.Is(err, domain.ErrNotFound):
			return nil, err
		}
	}

	product, err := domain.Reconcile(prev, draft, uc.ids)
	if err != nil {
		return nil, err
	}

	now := uc.now().UTC()
	if product.CreatedAt.IsZero() {
		product.CreatedAt = now
	}
	product.UpdatedAt = now

	if err := uc.repo.Save(ctx, &product); err != nil {
		return nil, err
	}
	uc.cache.Delete(cache.Key(cache.PrefixProduct, product.ID))

	logger.WithContext(ctx).Info().
		Str("product_id", product.ID).
		Int("variants", len(product.Variants)).
		Str("default_variant_id", product.DefaultVariantID).
		Bool("created", prev == nil).
		Msg("Product saved")
	return &product, nil
}

func (uc *CatalogUsecase) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	key := cache.Key(cache.PrefixProduct, id)
	if cached, found := uc.cache.Get(key); found {
		if p, ok := cached.(domain.Product); ok {
			return &p, nil
		}
	}

	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	uc.cache.Set(key, *product, uc.ttl)
	return product, nil
}

func (uc *CatalogUsecase) ListProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	return uc.repo.List(ctx, filter)
}

func (uc *CatalogUsecase) DeleteProduct(ctx context.Context, id string) error {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	uc.cache.Delete(cache.Key(cache.PrefixProduct, id))
	logger.WithContext(ctx).Info().Str("product_id", id).Msg("Product deleted")
	return nil
}
