package v1

import (
	"net/http"

	"storefront-backend/internal/delivery/http/middleware"
	"storefront-backend/internal/domain"
	"storefront-backend/internal/usecase"
	"storefront-backend/pkg/utils"
)

type CheckoutHandler struct {
	checkoutUC *usecase.CheckoutUsecase
	orderUC    *usecase.OrderUsecase
}

func NewCheckoutHandler(checkoutUC *usecase.CheckoutUsecase, orderUC *usecase.OrderUsecase) *CheckoutHandler {
	return &CheckoutHandler{checkoutUC: checkoutUC, orderUC: orderUC}
}

// POST /api/v1/checkout/proceed
func (h *CheckoutHandler) Proceed(w http.ResponseWriter, r *http.Request) {
	isAuthenticated := middleware.UserFromContext(r.Context()) != nil
	decision, err := h.checkoutUC.Proceed(r.Context(), isAuthenticated)
	if err != nil {
		writeUsecaseError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]string{
		"decision": string(decision),
		"navigate": decision.Navigate(),
	})
}

// POST /api/v1/checkout places the session cart as an order.
func (h *CheckoutHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var details domain.CheckoutDetails
	if err := utils.DecodeJSON(r, &details); err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.orderUC.Place(r.Context(), requestOwner(r), details)
	if err != nil {
		writeUsecaseError(w, r, err)
		return
	}
	status := http.StatusCreated
	if !result.Placed {
		status = http.StatusOK
	}
	utils.WriteJSON(w, status, result)
}

// GET /api/v1/orders/{id} is the order confirmation view, visible only to the
// session or user that placed the order.
func (h *CheckoutHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.orderUC.GetOwnOrder(r.Context(), r.PathValue("id"), requestOwner(r))
	if err != nil {
		writeUsecaseError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, order)
}

func requestOwner(r *http.Request) domain.OrderOwner {
	owner := domain.OrderOwner{SessionID: middleware.SessionFromContext(r.Context())}
	if user := middleware.UserFromContext(r.Context()); user != nil {
		owner.UserID = user.ID
	}
	return owner
}
