package v1

import (
	"net/http"

	"storefront-backend/internal/domain"
	"storefront-backend/internal/usecase"
	"storefront-backend/pkg/utils"
)

type AdminCatalogHandler struct {
	catalogUC *usecase.CatalogUsecase
}

func NewAdminCatalogHandler(uc *usecase.CatalogUsecase) *AdminCatalogHandler {
	return &AdminCatalogHandler{catalogUC: uc}
}

// PUT /api/v1/admin/products saves an editor draft. New and existing products share the route.
func (h *AdminCatalogHandler) SaveProduct(w http.ResponseWriter, r *http.Request) {
	var draft domain.ProductDraft
	if err := utils.DecodeJSON(r, &draft); err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	product, err := h.catalogUC.SaveProduct(r.Context(), draft)
	if err != nil {
		writeUsecaseError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, product)
}

// DELETE /api/v1/admin/products/{id}
func (h *AdminCatalogHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.catalogUC.DeleteProduct(r.Context(), r.PathValue("id")); err != nil {
		writeUsecaseError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
