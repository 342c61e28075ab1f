package usecase

import (
	"context"
	"fmt"
	"testing"
	"time"

	"storefront-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var guest = domain.OrderOwner{SessionID: testSession}

func customer(method string) domain.CheckoutDetails {
	return domain.CheckoutDetails{Name: "Sara Ali", Email: "sara@example.com", PaymentMethod: method}
}

func TestPlaceOrderClearsCart(t *testing.T) {
	ctx := context.Background()
	app := newTestApp(t, domain.OpenTransitions())
	p := seedProduct(t, app)

	_, err := app.carts.AddProduct(ctx, testSession, p.ID, p.Variants[0].ID, 1, false)
	require.NoError(t, err)

	res, err := app.orders.Place(ctx, guest, customer(domain.PaymentMethodCard))
	require.NoError(t, err)
	require.True(t, res.Placed)
	assert.Equal(t, domain.NavigateOrderConfirmation, res.Navigate)
	assert.Equal(t, "ORD-00001", res.Order.ID)
	assert.Equal(t, 5.65, res.Order.Total)
	assert.Equal(t, domain.OrderStatusCompleted, res.Order.Status)

	assert.True(t, app.carts.Get(ctx, testSession).IsEmpty())

	stored, err := app.orders.GetOrder(ctx, "ORD-00001")
	require.NoError(t, err)
	assert.Equal(t, res.Order.Items, stored.Items)

	require.Len(t, app.tracker.orders, 1)
	assert.Equal(t, "ORD-00001", app.tracker.orders[0].ID)
	assert.Equal(t, "SAR", app.tracker.currency)
}

func TestPlaceOrderEmptyCart(t *testing.T) {
	ctx := context.Background()
	app := newTestApp(t, domain.OpenTransitions())

	res, err := app.orders.Place(ctx, guest, customer(domain.PaymentMethodCard))
	require.NoError(t, err)
	assert.False(t, res.Placed)
	assert.Nil(t, res.Order)

	orders, _, err := app.orders.ListOrders(ctx, domain.OrderFilter{})
	require.NoError(t, err)
	assert.Empty(t, orders)
	assert.Empty(t, app.tracker.orders)
}

func TestPlaceOrderRejectsUnofferedMethod(t *testing.T) {
	ctx := context.Background()
	app := newTestApp(t, domain.OpenTransitions())
	p := seedProduct(t, app)

	_, err := app.settings.Save(ctx, domain.StoreSettings{Currency: "SAR", PaymentMethods: []string{domain.PaymentMethodCard}})
	require.NoError(t, err)
	_, err = app.carts.AddProduct(ctx, testSession, p.ID, "", 1, false)
	require.NoError(t, err)

	_, err = app.orders.Place(ctx, guest, customer(domain.PaymentMethodBankTransfer))
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.False(t, app.carts.Get(ctx, testSession).IsEmpty(), "cart is kept on rejection")
}

func TestPlaceOrderInvalidDetails(t *testing.T) {
	app := newTestApp(t, domain.OpenTransitions())

	_, err := app.orders.Place(context.Background(), guest, domain.CheckoutDetails{PaymentMethod: domain.PaymentMethodCard})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestPlaceOrderSequentialIDs(t *testing.T) {
	ctx := context.Background()
	app := newTestApp(t, domain.OpenTransitions())
	p := seedProduct(t, app)

	for i := 1; i <= 3; i++ {
		_, err := app.carts.AddProduct(ctx, testSession, p.ID, "", 1, false)
		require.NoError(t, err)
		res, err := app.orders.Place(ctx, guest, customer(domain.PaymentMethodBankTransfer))
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("ORD-%05d", i), res.Order.ID)
		assert.Equal(t, domain.OrderStatusAwaitingPayment, res.Order.Status)
	}
}

func TestUpdateOrderStatus(t *testing.T) {
	ctx := context.Background()
	app := newTestApp(t, domain.StrictTransitions())
	p := seedProduct(t, app)

	_, err := app.carts.AddProduct(ctx, testSession, p.ID, "", 1, false)
	require.NoError(t, err)
	res, err := app.orders.Place(ctx, guest, customer(domain.PaymentMethodBankTransfer))
	require.NoError(t, err)

	updated, err := app.orders.UpdateStatus(ctx, res.Order.ID, domain.OrderStatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusCompleted, updated.Status)

	_, err = app.orders.UpdateStatus(ctx, res.Order.ID, domain.OrderStatusPending)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	stored, err := app.orders.GetOrder(ctx, res.Order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusCompleted, stored.Status)

	_, err = app.orders.UpdateStatus(ctx, "ORD-99999", domain.OrderStatusFailed)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func placeOrders(t *testing.T, app *testApp, n int) {
	t.Helper()
	ctx := context.Background()
	p := seedProduct(t, app)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		at := base.Add(time.Duration(i) * time.Hour)
		app.orders.now = func() time.Time { return at }
		_, err := app.carts.AddProduct(ctx, testSession, p.ID, "", 1, false)
		require.NoError(t, err)
		method := domain.PaymentMethodCard
		if i%2 == 1 {
			method = domain.PaymentMethodBankTransfer
		}
		_, err = app.orders.Place(ctx, guest, customer(method))
		require.NoError(t, err)
	}
}

func TestListOrders(t *testing.T) {
	ctx := context.Background()
	app := newTestApp(t, domain.OpenTransitions())
	placeOrders(t, app, 5)

	orders, page, err := app.orders.ListOrders(ctx, domain.OrderFilter{Page: 1, Limit: 2})
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, "ORD-00005", orders[0].ID, "newest first")
	assert.Equal(t, "ORD-00004", orders[1].ID)
	assert.Equal(t, int64(5), page.TotalItems)
	assert.Equal(t, 3, page.TotalPages)

	orders, _, err = app.orders.ListOrders(ctx, domain.OrderFilter{Page: 3, Limit: 2})
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "ORD-00001", orders[0].ID)

	orders, page, err = app.orders.ListOrders(ctx, domain.OrderFilter{Status: domain.OrderStatusAwaitingPayment})
	require.NoError(t, err)
	assert.Len(t, orders, 2)
	assert.Equal(t, int64(2), page.TotalItems)

	orders, _, err = app.orders.ListOrders(ctx, domain.OrderFilter{Search: "ord-00003"})
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "ORD-00003", orders[0].ID)
}

func TestBulkDeleteOrders(t *testing.T) {
	ctx := context.Background()
	app := newTestApp(t, domain.OpenTransitions())
	placeOrders(t, app, 3)

	n, err := app.orders.BulkDelete(ctx, []string{"ORD-00001", "ORD-00003", "ORD-00042"})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = app.orders.BulkDelete(ctx, nil)
	require.NoError(t, err)
	assert.Zero(t, n)

	orders, _, err := app.orders.ListOrders(ctx, domain.OrderFilter{})
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "ORD-00002", orders[0].ID)
}

func TestPlaceOrderRequiresLogin(t *testing.T) {
	ctx := context.Background()
	app := newTestApp(t, domain.OpenTransitions())
	p := seedProduct(t, app)

	s := domain.DefaultStoreSettings()
	s.RequireLoginToCheckout = true
	_, err := app.settings.Save(ctx, s)
	require.NoError(t, err)
	_, err = app.carts.AddProduct(ctx, testSession, p.ID, "", 1, false)
	require.NoError(t, err)

	_, err = app.orders.Place(ctx, guest, customer(domain.PaymentMethodCard))
	assert.ErrorIs(t, err, domain.ErrLoginRequired)
	assert.False(t, app.carts.Get(ctx, testSession).IsEmpty(), "cart is kept on rejection")
	orders, _, err := app.orders.ListOrders(ctx, domain.OrderFilter{})
	require.NoError(t, err)
	assert.Empty(t, orders)

	member := domain.OrderOwner{SessionID: testSession, UserID: "user-1"}
	res, err := app.orders.Place(ctx, member, customer(domain.PaymentMethodCard))
	require.NoError(t, err)
	assert.True(t, res.Placed)
}

func TestGetOwnOrder(t *testing.T) {
	ctx := context.Background()
	app := newTestApp(t, domain.OpenTransitions())
	p := seedProduct(t, app)

	_, err := app.carts.AddProduct(ctx, testSession, p.ID, "", 1, false)
	require.NoError(t, err)
	res, err := app.orders.Place(ctx, guest, customer(domain.PaymentMethodCard))
	require.NoError(t, err)

	own, err := app.orders.GetOwnOrder(ctx, res.Order.ID, guest)
	require.NoError(t, err)
	assert.Equal(t, res.Order.ID, own.ID)
	assert.Nil(t, own.PlacedBy, "owner is not part of the customer view")

	stranger := domain.OrderOwner{SessionID: "9b2f7d8e-1c3a-4e5f-8a6b-7c8d9e0f1a2b"}
	_, err = app.orders.GetOwnOrder(ctx, res.Order.ID, stranger)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = app.orders.GetOwnOrder(ctx, res.Order.ID, domain.OrderOwner{})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	stored, err := app.orders.GetOrder(ctx, res.Order.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.PlacedBy)
	assert.Equal(t, guest, *stored.PlacedBy)
}

func TestPlacedOrderKeepsPriceAfterCatalogChange(t *testing.T) {
	ctx := context.Background()
	app := newTestApp(t, domain.OpenTransitions())
	p := seedProduct(t, app)

	_, err := app.carts.AddProduct(ctx, testSession, p.ID, p.Variants[0].ID, 1, false)
	require.NoError(t, err)
	res, err := app.orders.Place(ctx, guest, customer(domain.PaymentMethodCard))
	require.NoError(t, err)

	_, err = app.catalog.SaveProduct(ctx, domain.ProductDraft{
		ID:   p.ID,
		Name: "Netflix",
		Variants: []domain.VariantDraft{
			{ID: domain.PersistedID(p.Variants[0].ID), DisplayKey: "Basic", Price: price(9.99)},
			{ID: domain.PersistedID(p.Variants[1].ID), DisplayKey: "Premium", Price: price(15)},
		},
		DefaultVariantID: p.Variants[1].ID,
	})
	require.NoError(t, err)

	stored, err := app.orders.GetOrder(ctx, res.Order.ID)
	require.NoError(t, err)
	require.Len(t, stored.Items, 1)
	assert.Equal(t, 5.65, stored.Items[0].Price)
	assert.Equal(t, 5.65, stored.Total)
}

func TestPlaceOrderRemovesOnlyOrderedLines(t *testing.T) {
	ctx := context.Background()
	app := newTestApp(t, domain.OpenTransitions())
	p := seedProduct(t, app)

	_, err := app.carts.AddProduct(ctx, testSession, p.ID, p.Variants[0].ID, 1, false)
	require.NoError(t, err)
	snapshot := app.carts.Get(ctx, testSession)

	// Lines added between the snapshot and the cart update.
	_, err = app.carts.AddProduct(ctx, testSession, p.ID, p.Variants[0].ID, 1, false)
	require.NoError(t, err)
	_, err = app.carts.AddProduct(ctx, testSession, p.ID, p.Variants[1].ID, 1, false)
	require.NoError(t, err)

	app.carts.removeOrdered(ctx, testSession, snapshot.Items)

	left := app.carts.Get(ctx, testSession)
	require.Len(t, left.Items, 2)
	assert.Equal(t, p.Variants[0].ID, left.Items[0].VariantID)
	assert.Equal(t, 1, left.Items[0].Quantity)
	assert.Equal(t, p.Variants[1].ID, left.Items[1].VariantID)
}
