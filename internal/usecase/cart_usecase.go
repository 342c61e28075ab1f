package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"storefront-backend/internal/domain"
	"storefront-backend/pkg/cache"
	"storefront-backend/pkg/logger"
)

// ProductLookup resolves catalog products for cart lines.
type ProductLookup interface {
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
}

// CartUsecase keeps one cart per session and replaces it wholesale on every action.
type CartUsecase struct {
	mu       sync.Mutex
	cache    cache.CacheService
	products ProductLookup
	ttl      time.Duration
	maxQty   int
}

func NewCartUsecase(cache cache.CacheService, products ProductLookup, ttl time.Duration, maxQty int) *CartUsecase {
	return &CartUsecase{
		cache:    cache,
		products: products,
		ttl:      ttl,
		maxQty:   maxQty,
	}
}

func (uc *CartUsecase) Get(ctx context.Context, sessionID string) domain.Cart {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return uc.load(sessionID)
}

// Dispatch applies a client action. Catalog lines are priced from the catalog;
// custom order lines can only be added through the custom order flows.
func (uc *CartUsecase) Dispatch(ctx context.Context, sessionID string, action domain.CartAction) (domain.Cart, error) {
	if action.Item != nil && (action.Type == domain.CartActionAdd || action.Type == domain.CartActionAddUnique) {
		if action.Item.Metadata != nil {
			return domain.Cart{}, &domain.ValidationError{Fields: []domain.FieldError{
				{Field: "item.metadata", Message: "custom orders are added through the custom order endpoints"},
			}}
		}
		item, err := uc.catalogItem(ctx, action.Item.ProductID, action.Item.VariantID, action.Item.Quantity)
		if err != nil {
			return domain.Cart{}, err
		}
		action.Item = &item
	}
	return uc.apply(ctx, sessionID, action)
}

// AddProduct adds a catalog variant. With buyNow an existing line is kept as is.
// An empty variantID selects the product's default variant.
func (uc *CartUsecase) AddProduct(ctx context.Context, sessionID, productID, variantID string, quantity int, buyNow bool) (domain.Cart, error) {
	action := domain.CartActionAdd
	if buyNow {
		action = domain.CartActionAddUnique
	}
	return uc.Dispatch(ctx, sessionID, domain.CartAction{
		Type: action,
		Item: &domain.CartItem{ProductID: productID, VariantID: variantID, Quantity: quantity},
	})
}

func (uc *CartUsecase) Clear(ctx context.Context, sessionID string) (domain.Cart, error) {
	return uc.apply(ctx, sessionID, domain.CartAction{Type: domain.CartActionClear})
}

// addCustomLine appends a pre-priced custom order line.
func (uc *CartUsecase) addCustomLine(ctx context.Context, sessionID string, item domain.CartItem) (domain.Cart, error) {
	return uc.apply(ctx, sessionID, domain.CartAction{Type: domain.CartActionAdd, Item: &item})
}

func (uc *CartUsecase) apply(ctx context.Context, sessionID string, action domain.CartAction) (domain.Cart, error) {
	if sessionID == "" {
		return domain.Cart{}, &domain.ValidationError{Fields: []domain.FieldError{{Field: "session", Message: "is required"}}}
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()

	current := uc.load(sessionID)
	next, err := domain.ReduceCart(current, action)
	if err != nil {
		return current, err
	}
	if err := uc.checkQuantities(next); err != nil {
		return current, err
	}
	uc.cache.Set(cache.Key(cache.PrefixCart, sessionID), next, uc.ttl)

	logger.WithContext(ctx).Debug().
		Str("action", string(action.Type)).
		Int("lines", len(next.Items)).
		Int("units", next.Count()).
		Msg("Cart updated")
	return next, nil
}

// removeOrdered takes checked-out lines out of the session cart in one critical
// section, so lines added while the order was being stored survive.
func (uc *CartUsecase) removeOrdered(ctx context.Context, sessionID string, ordered []domain.CartItem) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	next := uc.load(sessionID).Subtract(ordered)
	uc.cache.Set(cache.Key(cache.PrefixCart, sessionID), next, uc.ttl)

	logger.WithContext(ctx).Debug().
		Int("ordered_lines", len(ordered)).
		Int("lines_left", len(next.Items)).
		Msg("Ordered lines removed from cart")
}

func (uc *CartUsecase) load(sessionID string) domain.Cart {
	if cached, found := uc.cache.Get(cache.Key(cache.PrefixCart, sessionID)); found {
		if c, ok := cached.(domain.Cart); ok {
			return domain.NewCart(c.Items...)
		}
	}
	return domain.NewCart()
}

func (uc *CartUsecase) checkQuantities(c domain.Cart) error {
	if uc.maxQty <= 0 {
		return nil
	}
	verr := &domain.ValidationError{}
	for i, it := range c.Items {
		if it.Quantity > uc.maxQty {
			verr.Add(fmt.Sprintf("items[%d].quantity", i), fmt.Sprintf("must not exceed %d", uc.maxQty))
		}
	}
	return verr.OrNil()
}

func (uc *CartUsecase) catalogItem(ctx context.Context, productID, variantID string, quantity int) (domain.CartItem, error) {
	if productID == "" {
		return domain.CartItem{}, &domain.ValidationError{Fields: []domain.FieldError{{Field: "item.productId", Message: "is required"}}}
	}
	product, err := uc.products.GetProduct(ctx, productID)
	if err != nil {
		return domain.CartItem{}, err
	}
	if variantID == "" {
		variantID = product.DefaultVariantID
	}
	item, ok := product.CartItemFor(variantID, quantity)
	if !ok {
		return domain.CartItem{}, fmt.Errorf("variant %q of product %s: %w", variantID, productID, domain.ErrNotFound)
	}
	return item, nil
}
