package v1

import (
	"net/http"

	"storefront-backend/internal/delivery/http/middleware"
	"storefront-backend/internal/domain"
	"storefront-backend/internal/usecase"
	"storefront-backend/pkg/utils"
)

type CustomOrderHandler struct {
	pricingUC *usecase.PricingUsecase
}

func NewCustomOrderHandler(uc *usecase.PricingUsecase) *CustomOrderHandler {
	return &CustomOrderHandler{pricingUC: uc}
}

type quoteResponse struct {
	Available bool                   `json:"available"`
	Quote     *domain.PriceBreakdown `json:"quote,omitempty"`
}

// POST /api/v1/custom-orders/quote
// An incomplete form is not an error: the response says no calculation is available.
func (h *CustomOrderHandler) Quote(w http.ResponseWriter, r *http.Request) {
	var input domain.PriceInput
	if err := utils.DecodeJSON(r, &input); err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	calc, ok, err := h.pricingUC.Quote(r.Context(), input)
	if err != nil {
		writeUsecaseError(w, r, err)
		return
	}
	if !ok {
		utils.WriteJSON(w, http.StatusOK, quoteResponse{Available: false})
		return
	}
	b := calc.Breakdown()
	utils.WriteJSON(w, http.StatusOK, quoteResponse{Available: true, Quote: &b})
}

type customOrderRequest struct {
	Kind domain.CustomOrderKind `json:"kind"`
	usecase.CustomOrderRequest
	Label string `json:"label,omitempty"`
	Phone string `json:"phone,omitempty"`
	// Price is the user-entered amount for gift cards and top-ups.
	Price *float64 `json:"price,omitempty"`
}

// POST /api/v1/custom-orders adds a custom order line to the session cart.
func (h *CustomOrderHandler) AddToCart(w http.ResponseWriter, r *http.Request) {
	var req customOrderRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	ctx := r.Context()
	sessionID := middleware.SessionFromContext(ctx)
	line := usecase.CustomLineRequest{Label: req.Label, Phone: req.Phone, Note: req.Note, Price: req.Price}

	var (
		cart domain.Cart
		err  error
	)
	switch req.Kind {
	case domain.CustomOrderInternational, "":
		var quote domain.PriceBreakdown
		cart, quote, err = h.pricingUC.AddCustomOrder(ctx, sessionID, req.CustomOrderRequest)
		if err == nil {
			utils.WriteJSON(w, http.StatusCreated, map[string]interface{}{"cart": cartView(cart), "quote": quote})
			return
		}
	case domain.CustomOrderGiftCard:
		cart, err = h.pricingUC.AddGiftCard(ctx, sessionID, line)
	case domain.CustomOrderMobileData:
		cart, err = h.pricingUC.AddMobileTopUp(ctx, sessionID, line)
	default:
		utils.WriteError(w, http.StatusBadRequest, "unknown custom order kind")
		return
	}
	if err != nil {
		writeUsecaseError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, map[string]interface{}{"cart": cartView(cart)})
}
