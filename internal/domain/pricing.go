package domain

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// Currencies a custom international order may be priced in.
var SourceCurrencies = []string{"USD", "EUR"}

// RatePair is a directed conversion, From → To.
type RatePair struct {
	From string
	To   string
}

// RateTable holds fixed pairwise rates. Identity rates are implicit.
type RateTable map[RatePair]decimal.Decimal

func (t RateTable) Rate(from, to string) (decimal.Decimal, bool) {
	if from == to {
		return decimal.NewFromInt(1), true
	}
	r, ok := t[RatePair{From: from, To: to}]
	return r, ok
}

// DefaultRates is the fixed table used with a SAR base reference currency.
func DefaultRates() RateTable {
	return RateTable{
		{From: "USD", To: "SAR"}: decimal.RequireFromString("3.75"),
		{From: "EUR", To: "SAR"}: decimal.RequireFromString("4.05"),
		{From: "SAR", To: "USD"}: decimal.RequireFromString("0.2667"),
		{From: "SAR", To: "EUR"}: decimal.RequireFromString("0.2469"),
		{From: "SAR", To: "AED"}: decimal.RequireFromString("0.98"),
		{From: "SAR", To: "KWD"}: decimal.RequireFromString("0.082"),
	}
}

type PricingRules struct {
	BaseCurrency      string
	ServiceFeePercent float64
	Rates             RateTable
}

type PriceInput struct {
	UnitPrice      *float64 `json:"unitPrice"`
	Shipping       *float64 `json:"shipping"`
	Quantity       int      `json:"quantity"`
	SourceCurrency string   `json:"sourceCurrency"`
	StoreCurrency  string   `json:"storeCurrency,omitempty"`
}

// PriceBreakdown is the display form of a calculation.
type PriceBreakdown struct {
	ProductCost  string  `json:"productCost"`
	ShippingCost string  `json:"shippingCost"`
	Fee          string  `json:"fee"`
	Total        string  `json:"total"`
	FinalTotal   float64 `json:"finalTotal"`
}

// PriceCalculation keeps every stage unrounded. Only the display strings are rounded.
type PriceCalculation struct {
	ProductSubtotal  decimal.Decimal
	ShippingSubtotal decimal.Decimal
	ServiceFee       decimal.Decimal
	Total            decimal.Decimal

	ProductCost  string
	ShippingCost string
	Fee          string
	TotalDisplay string
}

func (p PriceCalculation) FinalTotal() float64 {
	f, _ := p.Total.Float64()
	return f
}

func (p PriceCalculation) Breakdown() PriceBreakdown {
	return PriceBreakdown{
		ProductCost:  p.ProductCost,
		ShippingCost: p.ShippingCost,
		Fee:          p.Fee,
		Total:        p.TotalDisplay,
		FinalTotal:   p.FinalTotal(),
	}
}

// Convert prices a foreign-site order in the store currency. ok is false when the
// input is incomplete or unusable; callers must treat that as "no price yet".
func Convert(in PriceInput, rules PricingRules) (PriceCalculation, bool) {
	unit, ok := amount(in.UnitPrice)
	if !ok {
		return PriceCalculation{}, false
	}
	shipping, ok := amount(in.Shipping)
	if !ok || in.Quantity < 1 {
		return PriceCalculation{}, false
	}
	if rules.ServiceFeePercent < 0 || math.IsNaN(rules.ServiceFeePercent) || math.IsInf(rules.ServiceFeePercent, 0) {
		return PriceCalculation{}, false
	}

	source := strings.ToUpper(strings.TrimSpace(in.SourceCurrency))
	base := strings.ToUpper(strings.TrimSpace(rules.BaseCurrency))
	store := strings.ToUpper(strings.TrimSpace(in.StoreCurrency))
	if store == "" {
		store = base
	}
	if !isSourceCurrency(source) || !ValidCurrency(base) || !ValidCurrency(store) {
		return PriceCalculation{}, false
	}

	toBase, ok := rules.Rates.Rate(source, base)
	if !ok {
		return PriceCalculation{}, false
	}
	toStore, ok := rules.Rates.Rate(base, store)
	if !ok {
		return PriceCalculation{}, false
	}

	productTotal := unit.Mul(decimal.NewFromInt(int64(in.Quantity)))
	foreignSubtotal := productTotal.Add(shipping)
	converted := foreignSubtotal.Mul(toBase)
	fee := converted.Mul(decimal.NewFromFloat(rules.ServiceFeePercent)).Div(decimal.NewFromInt(100))
	final := converted.Add(fee)
	if store != base {
		final = final.Mul(toStore)
		fee = fee.Mul(toStore)
	}

	return PriceCalculation{
		ProductSubtotal:  productTotal,
		ShippingSubtotal: shipping,
		ServiceFee:       fee,
		Total:            final,
		ProductCost:      money(productTotal, source),
		ShippingCost:     money(shipping, source),
		Fee:              money(fee, store),
		TotalDisplay:     money(final, store),
	}, true
}

// ValidCurrency reports whether code is a known ISO 4217 currency.
func ValidCurrency(code string) bool {
	if len(code) != 3 {
		return false
	}
	_, err := currency.ParseISO(code)
	return err == nil
}

func isSourceCurrency(code string) bool {
	for _, c := range SourceCurrencies {
		if c == code {
			return true
		}
	}
	return false
}

func amount(v *float64) (decimal.Decimal, bool) {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) || *v < 0 {
		return decimal.Decimal{}, false
	}
	return decimal.NewFromFloat(*v), true
}

func money(d decimal.Decimal, code string) string {
	return d.StringFixed(2) + " " + code
}
