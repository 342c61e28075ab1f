package usecase

import (
	"context"
	"testing"

	"storefront-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsDefaultsAndSave(t *testing.T) {
	ctx := context.Background()
	app := newTestApp(t, domain.OpenTransitions())

	s, err := app.settings.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultStoreSettings(), s)

	saved, err := app.settings.Save(ctx, domain.StoreSettings{
		Currency: " kwd", ServiceFeePercent: 2.5, RequireLoginToCheckout: true,
		PaymentMethods: []string{"card", " "},
	})
	require.NoError(t, err)
	assert.Equal(t, "KWD", saved.Currency)
	assert.Equal(t, []string{"card"}, saved.PaymentMethods)

	s, err = app.settings.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, saved, s)

	s.PaymentMethods[0] = "cash"
	again, err := app.settings.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "card", again.PaymentMethods[0], "cached value is not shared")
}

func TestSettingsSaveInvalid(t *testing.T) {
	ctx := context.Background()
	app := newTestApp(t, domain.OpenTransitions())

	_, err := app.settings.Save(ctx, domain.StoreSettings{Currency: "QQQ", PaymentMethods: []string{"card"}})
	assert.ErrorIs(t, err, domain.ErrValidation)

	s, err := app.settings.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "SAR", s.Currency)
}

func TestCheckoutGate(t *testing.T) {
	ctx := context.Background()
	app := newTestApp(t, domain.OpenTransitions())

	decision, err := app.checkout.Proceed(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, domain.GateAdvance, decision)

	_, err = app.settings.Save(ctx, domain.StoreSettings{Currency: "SAR", RequireLoginToCheckout: true, PaymentMethods: []string{"card"}})
	require.NoError(t, err)

	decision, err = app.checkout.Proceed(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, domain.GateShowLogin, decision)

	decision, err = app.checkout.Proceed(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, domain.GateAdvance, decision)
}
