package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"storefront-backend/internal/domain"
	"storefront-backend/internal/infrastructure/cache"
	"storefront-backend/internal/repository/docstore"
	"storefront-backend/internal/repository/document"

	"github.com/stretchr/testify/require"
)

const testSession = "3f0c4a6e-6a55-4a1e-9c55-0d6d7ad4c2c1"

type testApp struct {
	store    *docstore.MemoryStore
	settings *SettingsUsecase
	catalog  *CatalogUsecase
	carts    *CartUsecase
	pricing  *PricingUsecase
	orders   *OrderUsecase
	checkout *CheckoutUsecase
	tracker  *recordingTracker
}

type recordingTracker struct {
	mu       sync.Mutex
	orders   []domain.Order
	currency string
}

func (r *recordingTracker) TrackPurchase(_ context.Context, order domain.Order, currency string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders = append(r.orders, order)
	r.currency = currency
}

func newTestApp(t *testing.T, policy domain.TransitionPolicy) *testApp {
	t.Helper()
	store := docstore.NewMemoryStore()
	memCache := cache.NewMemoryCache(time.Minute, time.Minute)

	app := &testApp{store: store, tracker: &recordingTracker{}}
	app.settings = NewSettingsUsecase(document.NewSettingsRepository(store), memCache, time.Minute)
	app.catalog = NewCatalogUsecase(document.NewProductRepository(store), memCache, time.Minute, nil)
	app.carts = NewCartUsecase(memCache, app.catalog, time.Hour, 10)
	app.pricing = NewPricingUsecase(app.settings, app.carts, "SAR", nil)
	app.orders = NewOrderUsecase(document.NewOrderRepository(store), app.carts, app.settings, policy, app.tracker)
	app.checkout = NewCheckoutUsecase(app.settings)
	return app
}

// seedProduct stores a product with two priced variants; the second is the default.
func seedProduct(t *testing.T, app *testApp) *domain.Product {
	t.Helper()
	basic, premium := 5.65, 12.5
	p, err := app.catalog.SaveProduct(context.Background(), domain.ProductDraft{
		Name: "Netflix",
		Kind: domain.ProductKindDigital,
		Variants: []domain.VariantDraft{
			{ID: domain.DraftID("t1"), DisplayKey: "Basic", Price: &basic},
			{ID: domain.DraftID("t2"), DisplayKey: "Premium", Price: &premium},
		},
		DefaultTempID: "t2",
	})
	require.NoError(t, err)
	return p
}

func price(v float64) *float64 { return &v }
