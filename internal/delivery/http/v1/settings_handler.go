package v1

import (
	"net/http"

	"storefront-backend/internal/domain"
	"storefront-backend/internal/usecase"
	"storefront-backend/pkg/utils"
)

type SettingsHandler struct {
	settingsUC *usecase.SettingsUsecase
	policy     domain.TransitionPolicy
}

func NewSettingsHandler(uc *usecase.SettingsUsecase, policy domain.TransitionPolicy) *SettingsHandler {
	return &SettingsHandler{settingsUC: uc, policy: policy}
}

// GET /api/v1/settings
func (h *SettingsHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	s, err := h.settingsUC.Get(r.Context())
	if err != nil {
		writeUsecaseError(w, r, err)
		return
	}
	w.Header().Set("Cache-Control", "public, max-age=60")
	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"settings":          s,
		"orderStatuses":     domain.OrderStatuses,
		"statusTransitions": h.policy.Name(),
	})
}

// PUT /api/v1/admin/settings
func (h *SettingsHandler) SaveSettings(w http.ResponseWriter, r *http.Request) {
	var s domain.StoreSettings
	if err := utils.DecodeJSON(r, &s); err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	saved, err := h.settingsUC.Save(r.Context(), s)
	if err != nil {
		writeUsecaseError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, saved)
}
