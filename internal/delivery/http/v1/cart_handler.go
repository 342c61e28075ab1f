package v1

import (
	"net/http"

	"storefront-backend/internal/delivery/http/middleware"
	"storefront-backend/internal/domain"
	"storefront-backend/internal/usecase"
	"storefront-backend/pkg/utils"
)

type CartHandler struct {
	cartUC *usecase.CartUsecase
}

func NewCartHandler(uc *usecase.CartUsecase) *CartHandler {
	return &CartHandler{cartUC: uc}
}

type cartResponse struct {
	Items []domain.CartItem `json:"items"`
	Total float64           `json:"total"`
	Count int               `json:"count"`
}

func cartView(c domain.Cart) cartResponse {
	items := c.Items
	if items == nil {
		items = []domain.CartItem{}
	}
	return cartResponse{Items: items, Total: c.Total(), Count: c.Count()}
}

type cartItemRequest struct {
	ProductID string `json:"productId"`
	VariantID string `json:"variantId"`
	Quantity  int    `json:"quantity"`
}

type cartKeyRequest struct {
	ProductID string `json:"productId"`
	VariantID string `json:"variantId"`
}

// GET /api/v1/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	cart := h.cartUC.Get(r.Context(), middleware.SessionFromContext(r.Context()))
	utils.WriteJSON(w, http.StatusOK, cartView(cart))
}

// POST /api/v1/cart applies one typed cart action.
func (h *CartHandler) Dispatch(w http.ResponseWriter, r *http.Request) {
	var action domain.CartAction
	if err := utils.DecodeJSON(r, &action); err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.respond(w, r, func() (domain.Cart, error) {
		return h.cartUC.Dispatch(r.Context(), middleware.SessionFromContext(r.Context()), action)
	})
}

// POST /api/v1/cart/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	h.add(w, r, false)
}

// POST /api/v1/cart/buy-now
func (h *CartHandler) BuyNow(w http.ResponseWriter, r *http.Request) {
	h.add(w, r, true)
}

func (h *CartHandler) add(w http.ResponseWriter, r *http.Request, buyNow bool) {
	var req cartItemRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.respond(w, r, func() (domain.Cart, error) {
		return h.cartUC.AddProduct(r.Context(), middleware.SessionFromContext(r.Context()), req.ProductID, req.VariantID, req.Quantity, buyNow)
	})
}

// PATCH /api/v1/cart/items/increment
func (h *CartHandler) Increment(w http.ResponseWriter, r *http.Request) {
	h.keyed(w, r, domain.CartActionIncrement)
}

// PATCH /api/v1/cart/items/decrement
func (h *CartHandler) Decrement(w http.ResponseWriter, r *http.Request) {
	h.keyed(w, r, domain.CartActionDecrement)
}

// DELETE /api/v1/cart/items
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	h.keyed(w, r, domain.CartActionRemove)
}

func (h *CartHandler) keyed(w http.ResponseWriter, r *http.Request, t domain.CartActionType) {
	var req cartKeyRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.respond(w, r, func() (domain.Cart, error) {
		return h.cartUC.Dispatch(r.Context(), middleware.SessionFromContext(r.Context()), domain.CartAction{
			Type:      t,
			ProductID: req.ProductID,
			VariantID: req.VariantID,
		})
	})
}

// DELETE /api/v1/cart
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, func() (domain.Cart, error) {
		return h.cartUC.Clear(r.Context(), middleware.SessionFromContext(r.Context()))
	})
}

func (h *CartHandler) respond(w http.ResponseWriter, r *http.Request, fn func() (domain.Cart, error)) {
	cart, err := fn()
	if err != nil {
		writeUsecaseError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, cartView(cart))
}
