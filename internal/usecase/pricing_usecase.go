package usecase

import (
	"context"
	"math"
	"strings"

	"storefront-backend/internal/domain"
	"storefront-backend/pkg/logger"

	"github.com/google/uuid"
)

// Product ids used for custom order lines.
const (
	CustomProductInternational = "custom-international"
	CustomProductGiftCard      = "custom-gift-card"
	CustomProductMobileData    = "custom-mobile-data"
)

type PricingUsecase struct {
	settings     *SettingsUsecase
	carts        *CartUsecase
	baseCurrency string
	rates        domain.RateTable
}

func NewPricingUsecase(settings *SettingsUsecase, carts *CartUsecase, baseCurrency string, rates domain.RateTable) *PricingUsecase {
	if rates == nil {
		rates = domain.DefaultRates()
	}
	return &PricingUsecase{
		settings:     settings,
		carts:        carts,
		baseCurrency: strings.ToUpper(baseCurrency),
		rates:        rates,
	}
}

// Quote prices input in the store currency. ok=false means the form is incomplete.
func (uc *PricingUsecase) Quote(ctx context.Context, input domain.PriceInput) (domain.PriceCalculation, bool, error) {
	s, err := uc.settings.Get(ctx)
	if err != nil {
		return domain.PriceCalculation{}, false, err
	}
	input.StoreCurrency = s.Currency
	calc, ok := domain.Convert(input, domain.PricingRules{
		BaseCurrency:      uc.baseCurrency,
		ServiceFeePercent: s.ServiceFeePercent,
		Rates:             uc.rates,
	})
	return calc, ok, nil
}

type CustomOrderRequest struct {
	ProductURL string `json:"productUrl"`
	Note       string `json:"note,omitempty"`
	domain.PriceInput
}

// AddCustomOrder quotes an international order and adds it to the cart as its own line.
func (uc *PricingUsecase) AddCustomOrder(ctx context.Context, sessionID string, req CustomOrderRequest) (domain.Cart, domain.PriceBreakdown, error) {
	verr := &domain.ValidationError{}
	if strings.TrimSpace(req.ProductURL) == "" {
		verr.Add("productUrl", "is required")
	}
	if err := verr.OrNil(); err != nil {
		return domain.Cart{}, domain.PriceBreakdown{}, err
	}

	calc, ok, err := uc.Quote(ctx, req.PriceInput)
	if err != nil {
		return domain.Cart{}, domain.PriceBreakdown{}, err
	}
	if !ok {
		return domain.Cart{}, domain.PriceBreakdown{}, &domain.ValidationError{Fields: []domain.FieldError{
			{Field: "price", Message: "no calculation available"},
		}}
	}

	breakdown := calc.Breakdown()
	cart, err := uc.carts.addCustomLine(ctx, sessionID, domain.CartItem{
		ProductID: CustomProductInternational,
		VariantID: uuid.NewString(),
		Quantity:  1,
		Price:     calc.FinalTotal(),
		Metadata: &domain.CartItemMetadata{
			IsCustomOrder: true,
			Kind:          domain.CustomOrderInternational,
			ProductURL:    strings.TrimSpace(req.ProductURL),
			Note:          req.Note,
			Quote:         &breakdown,
		},
	})
	if err != nil {
		return domain.Cart{}, domain.PriceBreakdown{}, err
	}

	logger.WithContext(ctx).Info().
		Str("total", breakdown.Total).
		Msg("International custom order added to cart")
	return cart, breakdown, nil
}

// CustomLineRequest is a user-priced gift card or mobile top-up.
type CustomLineRequest struct {
	Label string   `json:"label"` // card brand or network provider
	Phone string   `json:"phone,omitempty"`
	Note  string   `json:"note,omitempty"`
	Price *float64 `json:"price"`
}

func (uc *PricingUsecase) AddGiftCard(ctx context.Context, sessionID string, req CustomLineRequest) (domain.Cart, error) {
	return uc.addUserPriced(ctx, sessionID, domain.CustomOrderGiftCard, CustomProductGiftCard, req, false)
}

func (uc *PricingUsecase) AddMobileTopUp(ctx context.Context, sessionID string, req CustomLineRequest) (domain.Cart, error) {
	return uc.addUserPriced(ctx, sessionID, domain.CustomOrderMobileData, CustomProductMobileData, req, true)
}

func (uc *PricingUsecase) addUserPriced(ctx context.Context, sessionID string, kind domain.CustomOrderKind, productID string, req CustomLineRequest, needPhone bool) (domain.Cart, error) {
	verr := &domain.ValidationError{}
	if strings.TrimSpace(req.Label) == "" {
		verr.Add("label", "is required")
	}
	if needPhone && strings.TrimSpace(req.Phone) == "" {
		verr.Add("phone", "is required")
	}
	switch {
	case req.Price == nil:
		verr.Add("price", "is required")
	case math.IsNaN(*req.Price) || math.IsInf(*req.Price, 0) || *req.Price <= 0:
		verr.Add("price", "must be a positive number")
	}
	if err := verr.OrNil(); err != nil {
		return domain.Cart{}, err
	}

	cart, err := uc.carts.addCustomLine(ctx, sessionID, domain.CartItem{
		ProductID: productID,
		VariantID: uuid.NewString(),
		Quantity:  1,
		Price:     *req.Price,
		Metadata: &domain.CartItemMetadata{
			IsCustomOrder: true,
			Kind:          kind,
			Phone:         strings.TrimSpace(req.Phone),
			Note:          strings.TrimSpace(req.Label + " " + req.Note),
		},
	})
	if err != nil {
		return domain.Cart{}, err
	}

	logger.WithContext(ctx).Info().
		Str("kind", string(kind)).
		Float64("price", *req.Price).
		Msg("Custom order added to cart")
	return cart, nil
}
