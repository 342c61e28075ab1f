package document

import (
	"context"
	"fmt"

	"storefront-backend/internal/domain"
	"storefront-backend/pkg/utils"
)

type productRepository struct {
	products collection[domain.Product]
}

func NewProductRepository(store domain.DocumentStore) domain.ProductRepository {
	return &productRepository{products: collection[domain.Product]{store: store, key: domain.DocumentProducts}}
}

func (r *productRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	products, err := r.products.read(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range products {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, fmt.Errorf("product %s: %w", id, domain.ErrNotFound)
}

func (r *productRepository) List(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	products, err := r.products.read(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if filter.Kind != "" && p.Kind != filter.Kind {
			continue
		}
		if !utils.ContainsFold(p.Name, filter.Query) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

// Save inserts the product or replaces the stored one with the same id.
func (r *productRepository) Save(ctx context.Context, product *domain.Product) error {
	return r.products.update(ctx, func(products []domain.Product) ([]domain.Product, error) {
		for i, p := range products {
			if p.ID == product.ID {
				products[i] = *product
				return products, nil
			}
		}
		return append(products, *product), nil
	})
}

func (r *productRepository) Delete(ctx context.Context, id string) error {
	return r.products.update(ctx, func(products []domain.Product) ([]domain.Product, error) {
		for i, p := range products {
			if p.ID == id {
				return append(products[:i], products[i+1:]...), nil
			}
		}
		return nil, fmt.Errorf("product %s: %w", id, domain.ErrNotFound)
	})
}
