package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"storefront-backend/internal/domain"
	"storefront-backend/pkg/logger"
	"storefront-backend/pkg/utils"
)

// PurchaseTracker receives placed orders for conversion tracking.
type PurchaseTracker interface {
	TrackPurchase(ctx context.Context, order domain.Order, currency string)
}

type PlaceResult struct {
	Placed   bool          `json:"placed"`
	Order    *domain.Order `json:"order,omitempty"`
	Navigate string        `json:"navigate,omitempty"`
}

type OrderUsecase struct {
	mu       sync.Mutex
	repo     domain.OrderRepository
	carts    *CartUsecase
	settings *SettingsUsecase
	policy   domain.TransitionPolicy
	tracker  PurchaseTracker
	now      func() time.Time
}

func NewOrderUsecase(repo domain.OrderRepository, carts *CartUsecase, settings *SettingsUsecase, policy domain.TransitionPolicy, tracker PurchaseTracker) *OrderUsecase {
	return &OrderUsecase{
		repo:     repo,
		carts:    carts,
		settings: settings,
		policy:   policy,
		tracker:  tracker,
		now:      time.Now,
	}
}

// Place turns the owner's session cart into an order. An empty cart is not an
// error: the result has Placed=false and nothing is stored. Stores that require
// login reject anonymous owners with domain.ErrLoginRequired.
func (uc *OrderUsecase) Place(ctx context.Context, owner domain.OrderOwner, details domain.CheckoutDetails) (PlaceResult, error) {
	s, err := uc.settings.Get(ctx)
	if err != nil {
		return PlaceResult{}, err
	}
	if domain.Proceed(owner.IsAuthenticated(), s.RequireLoginToCheckout) == domain.GateShowLogin {
		return PlaceResult{}, domain.ErrLoginRequired
	}
	if err := details.Validate(); err != nil {
		return PlaceResult{}, err
	}
	if !s.AcceptsPaymentMethod(details.PaymentMethod) {
		return PlaceResult{}, &domain.ValidationError{Fields: []domain.FieldError{
			{Field: "paymentMethod", Message: fmt.Sprintf("%q is not offered by this store", details.PaymentMethod)},
		}}
	}

	order, err := uc.place(ctx, owner, details)
	if errors.Is(err, domain.ErrEmptyCart) {
		logger.WithContext(ctx).Debug().Msg("Checkout with empty cart ignored")
		return PlaceResult{Placed: false}, nil
	}
	if err != nil {
		return PlaceResult{}, err
	}

	if uc.tracker != nil {
		uc.tracker.TrackPurchase(ctx, order, s.Currency)
	}

	logger.WithContext(ctx).Info().
		Str("order_id", order.ID).
		Str("status", string(order.Status)).
		Float64("total", order.Total).
		Msg("Order placed")
	return PlaceResult{Placed: true, Order: &order, Navigate: domain.NavigateOrderConfirmation}, nil
}

func (uc *OrderUsecase) place(ctx context.Context, owner domain.OrderOwner, details domain.CheckoutDetails) (domain.Order, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	cart := uc.carts.Get(ctx, owner.SessionID)
	existing, err := uc.repo.List(ctx)
	if err != nil {
		return domain.Order{}, fmt.Errorf("load orders: %w", err)
	}

	order, ok := domain.PlaceOrder(cart, details, existing, uc.now())
	if !ok {
		return domain.Order{}, domain.ErrEmptyCart
	}
	placedBy := owner
	order.PlacedBy = &placedBy
	if err := uc.repo.Create(ctx, &order); err != nil {
		return domain.Order{}, fmt.Errorf("save order: %w", err)
	}

	// Only the ordered lines leave the cart, and only once the order is stored.
	uc.carts.removeOrdered(ctx, owner.SessionID, order.Items)
	return order, nil
}

// GetOrder is the admin view and includes who placed the order.
func (uc *OrderUsecase) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	return uc.repo.GetByID(ctx, id)
}

// GetOwnOrder is the confirmation view. Orders placed by someone else are
// reported as missing, and the owner is stripped from the result.
func (uc *OrderUsecase) GetOwnOrder(ctx context.Context, id string, owner domain.OrderOwner) (*domain.Order, error) {
	order, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !owner.Owns(*order) {
		return nil, fmt.Errorf("order %s: %w", id, domain.ErrNotFound)
	}
	order.PlacedBy = nil
	return order, nil
}

// ListOrders returns the newest orders first, filtered and paginated.
func (uc *OrderUsecase) ListOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, domain.Pagination, error) {
	orders, err := uc.repo.List(ctx)
	if err != nil {
		return nil, domain.Pagination{}, err
	}

	matched := make([]domain.Order, 0, len(orders))
	for _, o := range orders {
		if filter.Status != "" && o.Status != filter.Status {
			continue
		}
		if filter.Search != "" &&
			!utils.ContainsFold(o.ID, filter.Search) &&
			!utils.ContainsFold(o.CustomerName, filter.Search) &&
			!utils.ContainsFold(o.CustomerEmail, filter.Search) {
			continue
		}
		matched = append(matched, o)
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Date.After(matched[j].Date)
	})

	start, end := utils.Paginate(len(matched), filter.Page, filter.Limit)
	page := filter.Page
	if page < 1 {
		page = 1
	}
	return matched[start:end], domain.NewPagination(page, filter.Limit, int64(len(matched))), nil
}

func (uc *OrderUsecase) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	order, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	updated, err := domain.UpdateStatus(*order, status, uc.policy)
	if err != nil {
		return nil, err
	}
	if updated.Status != order.Status {
		if err := uc.repo.Update(ctx, &updated); err != nil {
			return nil, err
		}
	}

	logger.WithContext(ctx).Info().
		Str("order_id", id).
		Str("from", string(order.Status)).
		Str("to", string(updated.Status)).
		Str("policy", uc.policy.Name()).
		Msg("Order status updated")
	return &updated, nil
}

// BulkDelete removes the given orders. Unknown ids are ignored.
func (uc *OrderUsecase) BulkDelete(ctx context.Context, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	uc.mu.Lock()
	defer uc.mu.Unlock()

	n, err := uc.repo.Delete(ctx, ids)
	if err != nil {
		return 0, err
	}
	logger.WithContext(ctx).Info().Int("requested", len(ids)).Int("deleted", n).Msg("Orders deleted")
	return n, nil
}
