package document

import (
	"context"
	"fmt"

	"storefront-backend/internal/domain"
)

type orderRepository struct {
	orders collection[domain.Order]
}

func NewOrderRepository(store domain.DocumentStore) domain.OrderRepository {
	return &orderRepository{orders: collection[domain.Order]{store: store, key: domain.DocumentOrders}}
}

func (r *orderRepository) Create(ctx context.Context, order *domain.Order) error {
	return r.orders.update(ctx, func(orders []domain.Order) ([]domain.Order, error) {
		for _, o := range orders {
			if o.ID == order.ID {
				return nil, fmt.Errorf("order %s already exists", order.ID)
			}
		}
		return append(orders, order.Clone()), nil
	})
}

func (r *orderRepository) Update(ctx context.Context, order *domain.Order) error {
	return r.orders.update(ctx, func(orders []domain.Order) ([]domain.Order, error) {
		for i, o := range orders {
			if o.ID == order.ID {
				orders[i] = order.Clone()
				return orders, nil
			}
		}
		return nil, fmt.Errorf("order %s: %w", order.ID, domain.ErrNotFound)
	})
}

func (r *orderRepository) Delete(ctx context.Context, ids []string) (int, error) {
	drop := make(map[string]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}

	removed := 0
	err := r.orders.update(ctx, func(orders []domain.Order) ([]domain.Order, error) {
		kept := orders[:0]
		for _, o := range orders {
			if drop[o.ID] {
				removed++
				continue
			}
			kept = append(kept, o)
		}
		return kept, nil
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}

func (r *orderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	orders, err := r.orders.read(ctx)
	if err != nil {
		return nil, err
	}
	for _, o := range orders {
		if o.ID == id {
			found := o.Clone()
			return &found, nil
		}
	}
	return nil, fmt.Errorf("order %s: %w", id, domain.ErrNotFound)
}

func (r *orderRepository) List(ctx context.Context) ([]domain.Order, error) {
	return r.orders.read(ctx)
}
