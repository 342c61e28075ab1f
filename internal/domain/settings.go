package domain

import (
	"context"
	"fmt"
	"math"
	"strings"
)

type StoreSettings struct {
	Currency               string   `json:"currency"`
	ServiceFeePercent      float64  `json:"serviceFeePercent"`
	RequireLoginToCheckout bool     `json:"requireLoginToCheckout"`
	PaymentMethods         []string `json:"paymentMethods"`
}

func DefaultStoreSettings() StoreSettings {
	methods := make([]string, len(DefaultPaymentMethods))
	copy(methods, DefaultPaymentMethods)
	return StoreSettings{
		Currency:       "SAR",
		PaymentMethods: methods,
	}
}

// Normalize upper-cases the currency and trims blank payment methods.
func (s StoreSettings) Normalize() StoreSettings {
	s.Currency = strings.ToUpper(strings.TrimSpace(s.Currency))
	methods := make([]string, 0, len(s.PaymentMethods))
	for _, m := range s.PaymentMethods {
		if m = strings.TrimSpace(m); m != "" {
			methods = append(methods, m)
		}
	}
	s.PaymentMethods = methods
	return s
}

func (s StoreSettings) Validate() error {
	verr := &ValidationError{}
	if !ValidCurrency(s.Currency) {
		verr.Add("currency", fmt.Sprintf("%q is not an ISO 4217 currency code", s.Currency))
	}
	if s.ServiceFeePercent < 0 || math.IsNaN(s.ServiceFeePercent) || math.IsInf(s.ServiceFeePercent, 0) {
		verr.Add("serviceFeePercent", "must be a non-negative number")
	}
	if len(s.PaymentMethods) == 0 {
		verr.Add("paymentMethods", "at least one payment method is required")
	}
	return verr.OrNil()
}

// AcceptsPaymentMethod reports whether the store offers method at checkout.
func (s StoreSettings) AcceptsPaymentMethod(method string) bool {
	for _, m := range s.PaymentMethods {
		if m == method {
			return true
		}
	}
	return false
}

type SettingsRepository interface {
	Get(ctx context.Context) (*StoreSettings, error)
	Save(ctx context.Context, settings *StoreSettings) error
}
