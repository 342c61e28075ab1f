package usecase

import (
	"context"

	"storefront-backend/internal/domain"
)

type CheckoutUsecase struct {
	settings *SettingsUsecase
}

func NewCheckoutUsecase(settings *SettingsUsecase) *CheckoutUsecase {
	return &CheckoutUsecase{settings: settings}
}

// Proceed applies the store's login requirement to a "proceed to checkout" request.
func (uc *CheckoutUsecase) Proceed(ctx context.Context, isAuthenticated bool) (domain.GateDecision, error) {
	s, err := uc.settings.Get(ctx)
	if err != nil {
		return "", err
	}
	return domain.Proceed(isAuthenticated, s.RequireLoginToCheckout), nil
}
