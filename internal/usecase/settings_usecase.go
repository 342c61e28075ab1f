package usecase

import (
	"context"
	"errors"
	"time"

	"storefront-backend/internal/domain"
	"storefront-backend/pkg/cache"
	"storefront-backend/pkg/logger"
)

type SettingsUsecase struct {
	repo  domain.SettingsRepository
	cache cache.CacheService
	ttl   time.Duration
}

func NewSettingsUsecase(repo domain.SettingsRepository, cache cache.CacheService, ttl time.Duration) *SettingsUsecase {
	return &SettingsUsecase{repo: repo, cache: cache, ttl: ttl}
}

// Get returns the stored settings, or the defaults when none were saved yet.
func (uc *SettingsUsecase) Get(ctx context.Context) (domain.StoreSettings, error) {
	key := cache.Key(cache.PrefixSettings, "store")
	if cached, found := uc.cache.Get(key); found {
		if s, ok := cached.(domain.StoreSettings); ok {
			return copySettings(s), nil
		}
	}

	stored, err := uc.repo.Get(ctx)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.DefaultStoreSettings(), nil
	}
	if err != nil {
		return domain.StoreSettings{}, err
	}

	s := stored.Normalize()
	uc.cache.Set(key, copySettings(s), uc.ttl)
	return s, nil
}

func (uc *SettingsUsecase) Save(ctx context.Context, s domain.StoreSettings) (domain.StoreSettings, error) {
	s = s.Normalize()
	if err := s.Validate(); err != nil {
		return domain.StoreSettings{}, err
	}
	if err := uc.repo.Save(ctx, &s); err != nil {
		return domain.StoreSettings{}, err
	}
	uc.cache.Delete(cache.Key(cache.PrefixSettings, "store"))

	logger.WithContext(ctx).Info().
		Str("currency", s.Currency).
		Float64("service_fee_percent", s.ServiceFeePercent).
		Bool("require_login", s.RequireLoginToCheckout).
		Msg("Store settings saved")
	return s, nil
}

func copySettings(s domain.StoreSettings) domain.StoreSettings {
	s.PaymentMethods = append([]string(nil), s.PaymentMethods...)
	return s
}
