package domain

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sarRules(fee float64) PricingRules {
	return PricingRules{BaseCurrency: "SAR", ServiceFeePercent: fee, Rates: DefaultRates()}
}

func TestConvertUSDToStoreCurrency(t *testing.T) {
	in := PriceInput{UnitPrice: price(19.99), Shipping: price(0), Quantity: 1, SourceCurrency: "USD", StoreCurrency: "SAR"}

	calc, ok := Convert(in, sarRules(0))
	require.True(t, ok)
	assert.True(t, calc.Total.Equal(decimal.RequireFromString("74.9625")))
	assert.Equal(t, 74.9625, calc.FinalTotal())
	assert.Equal(t, "19.99 USD", calc.ProductCost)
	assert.Equal(t, "0.00 USD", calc.ShippingCost)
	assert.Equal(t, "0.00 SAR", calc.Fee)
	assert.Equal(t, "74.96 SAR", calc.TotalDisplay)
}

func TestConvertIsPureAndLinearInQuantity(t *testing.T) {
	in := PriceInput{UnitPrice: price(19.99), Shipping: price(0), Quantity: 1, SourceCurrency: "USD", StoreCurrency: "SAR"}

	first, ok := Convert(in, sarRules(0))
	require.True(t, ok)
	again, ok := Convert(in, sarRules(0))
	require.True(t, ok)
	assert.Equal(t, first.FinalTotal(), again.FinalTotal())
	assert.Equal(t, first.Breakdown(), again.Breakdown())

	in.Quantity = 2
	doubled, ok := Convert(in, sarRules(0))
	require.True(t, ok)
	assert.Equal(t, 2*first.FinalTotal(), doubled.FinalTotal())
	assert.True(t, doubled.ProductSubtotal.Equal(first.ProductSubtotal.Mul(decimal.NewFromInt(2))))
	assert.Equal(t, "39.98 USD", doubled.ProductCost)
}

func TestConvertWithFeeAndSecondConversion(t *testing.T) {
	in := PriceInput{UnitPrice: price(10), Shipping: price(5), Quantity: 2, SourceCurrency: "usd", StoreCurrency: "USD"}

	calc, ok := Convert(in, sarRules(10))
	require.True(t, ok)
	// (10*2 + 5) * 3.75 = 93.75 SAR, +10% = 103.125 SAR, * 0.2667 = 27.5034375 USD
	assert.True(t, calc.Total.Equal(decimal.RequireFromString("27.5034375")), calc.Total.String())
	assert.Equal(t, "20.00 USD", calc.ProductCost)
	assert.Equal(t, "5.00 USD", calc.ShippingCost)
	assert.Equal(t, "2.50 USD", calc.Fee)
	assert.Equal(t, "27.50 USD", calc.TotalDisplay)
}

func TestConvertEUR(t *testing.T) {
	in := PriceInput{UnitPrice: price(10), Shipping: price(0), Quantity: 1, SourceCurrency: "EUR"}

	calc, ok := Convert(in, sarRules(0))
	require.True(t, ok)
	assert.Equal(t, 40.5, calc.FinalTotal())
	assert.Equal(t, "40.50 SAR", calc.TotalDisplay, "store currency defaults to the base")
}

func TestConvertUnavailable(t *testing.T) {
	valid := func() PriceInput {
		return PriceInput{UnitPrice: price(10), Shipping: price(2), Quantity: 1, SourceCurrency: "USD", StoreCurrency: "SAR"}
	}
	tests := []struct {
		name   string
		mutate func(*PriceInput, *PricingRules)
	}{
		{name: "missing price", mutate: func(in *PriceInput, _ *PricingRules) { in.UnitPrice = nil }},
		{name: "missing shipping", mutate: func(in *PriceInput, _ *PricingRules) { in.Shipping = nil }},
		{name: "negative shipping", mutate: func(in *PriceInput, _ *PricingRules) { in.Shipping = price(-1) }},
		{name: "negative price", mutate: func(in *PriceInput, _ *PricingRules) { in.UnitPrice = price(-0.01) }},
		{name: "NaN price", mutate: func(in *PriceInput, _ *PricingRules) { in.UnitPrice = price(math.NaN()) }},
		{name: "infinite shipping", mutate: func(in *PriceInput, _ *PricingRules) { in.Shipping = price(math.Inf(1)) }},
		{name: "zero quantity", mutate: func(in *PriceInput, _ *PricingRules) { in.Quantity = 0 }},
		{name: "unsupported source", mutate: func(in *PriceInput, _ *PricingRules) { in.SourceCurrency = "GBP" }},
		{name: "not a currency", mutate: func(in *PriceInput, _ *PricingRules) { in.StoreCurrency = "QQQ" }},
		{name: "no rate to store", mutate: func(in *PriceInput, _ *PricingRules) { in.StoreCurrency = "JPY" }},
		{name: "negative fee", mutate: func(_ *PriceInput, r *PricingRules) { r.ServiceFeePercent = -1 }},
		{name: "no rate to base", mutate: func(_ *PriceInput, r *PricingRules) { r.Rates = RateTable{} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in, rules := valid(), sarRules(0)
			tt.mutate(&in, &rules)
			calc, ok := Convert(in, rules)
			assert.False(t, ok)
			assert.Equal(t, PriceCalculation{}, calc)
		})
	}
}

func TestZeroPriceIsAValidCalculation(t *testing.T) {
	calc, ok := Convert(PriceInput{UnitPrice: price(0), Shipping: price(0), Quantity: 1, SourceCurrency: "USD"}, sarRules(0))
	require.True(t, ok)
	assert.Equal(t, 0.0, calc.FinalTotal())
}

func TestValidCurrency(t *testing.T) {
	assert.True(t, ValidCurrency("SAR"))
	assert.True(t, ValidCurrency("KWD"))
	assert.False(t, ValidCurrency("QQQ"))
	assert.False(t, ValidCurrency("US"))
	assert.False(t, ValidCurrency(""))
}
