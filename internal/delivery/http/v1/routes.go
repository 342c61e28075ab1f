package v1

import (
	"net/http"

	"storefront-backend/internal/delivery/http/middleware"
	"storefront-backend/pkg/utils"
)

type Handlers struct {
	Cart         *CartHandler
	Catalog      *CatalogHandler
	AdminCatalog *AdminCatalogHandler
	CustomOrder  *CustomOrderHandler
	Checkout     *CheckoutHandler
	AdminOrder   *AdminOrderHandler
	Settings     *SettingsHandler
}

// RegisterRoutes mounts the storefront API. session issues the cart session cookie.
func RegisterRoutes(mux *http.ServeMux, h Handlers, session func(http.Handler) http.Handler) {
	withSession := func(fn http.HandlerFunc) http.Handler {
		return session(fn)
	}
	admin := middleware.RequireAdmin

	// Settings & Catalog (Public)
	mux.HandleFunc("GET /api/v1/settings", h.Settings.GetSettings)
	mux.HandleFunc("GET /api/v1/products", h.Catalog.ListProducts)
	mux.HandleFunc("GET /api/v1/products/{id}", h.Catalog.GetProduct)

	// Cart (session)
	mux.Handle("GET /api/v1/cart", withSession(h.Cart.GetCart))
	mux.Handle("POST /api/v1/cart", withSession(h.Cart.Dispatch))
	mux.Handle("DELETE /api/v1/cart", withSession(h.Cart.Clear))
	mux.Handle("POST /api/v1/cart/items", withSession(h.Cart.AddItem))
	mux.Handle("POST /api/v1/cart/buy-now", withSession(h.Cart.BuyNow))
	mux.Handle("PATCH /api/v1/cart/items/increment", withSession(h.Cart.Increment))
	mux.Handle("PATCH /api/v1/cart/items/decrement", withSession(h.Cart.Decrement))
	mux.Handle("DELETE /api/v1/cart/items", withSession(h.Cart.RemoveItem))

	// Custom orders
	mux.HandleFunc("POST /api/v1/custom-orders/quote", h.CustomOrder.Quote)
	mux.Handle("POST /api/v1/custom-orders", withSession(h.CustomOrder.AddToCart))

	// Checkout & Orders
	mux.Handle("POST /api/v1/checkout/proceed", middleware.OptionalAuth(http.HandlerFunc(h.Checkout.Proceed)))
	mux.Handle("POST /api/v1/checkout", session(middleware.OptionalAuth(http.HandlerFunc(h.Checkout.PlaceOrder))))
	mux.Handle("GET /api/v1/orders/{id}", session(middleware.OptionalAuth(http.HandlerFunc(h.Checkout.GetOrder))))

	// Admin (Protected)
	mux.Handle("GET /api/v1/admin/orders", admin(h.AdminOrder.ListOrders))
	mux.Handle("GET /api/v1/admin/orders/{id}", admin(h.AdminOrder.GetOrder))
	mux.Handle("PATCH /api/v1/admin/orders/{id}/status", admin(h.AdminOrder.UpdateStatus))
	mux.Handle("POST /api/v1/admin/orders/bulk-delete", admin(h.AdminOrder.BulkDelete))
	mux.Handle("PUT /api/v1/admin/products", admin(h.AdminCatalog.SaveProduct))
	mux.Handle("DELETE /api/v1/admin/products/{id}", admin(h.AdminCatalog.DeleteProduct))
	mux.Handle("PUT /api/v1/admin/settings", admin(h.Settings.SaveSettings))

	health := func(w http.ResponseWriter, r *http.Request) {
		utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
	mux.HandleFunc("GET /api/v1/health", health)
	mux.HandleFunc("GET /health", health)
}
