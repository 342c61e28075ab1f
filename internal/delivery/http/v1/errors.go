package v1

import (
	"errors"
	"net/http"

	"storefront-backend/internal/domain"
	"storefront-backend/pkg/logger"
	"storefront-backend/pkg/utils"
)

// writeUsecaseError maps domain errors to HTTP statuses. Unknown errors are
// logged and reported as 500 without leaking details.
func writeUsecaseError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		utils.WriteErrorDetails(w, http.StatusBadRequest, verr.Error(), verr.Fields)
	case errors.Is(err, domain.ErrValidation):
		utils.WriteError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrLoginRequired):
		utils.WriteJSON(w, http.StatusUnauthorized, map[string]string{
			"error":    err.Error(),
			"navigate": domain.NavigateLogin,
		})
	case errors.Is(err, domain.ErrNotFound):
		utils.WriteError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrInvalidTransition):
		utils.WriteError(w, http.StatusConflict, err.Error())
	default:
		logger.WithContext(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("Request failed")
		utils.WriteError(w, http.StatusInternalServerError, "Internal server error")
	}
}
