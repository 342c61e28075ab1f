package domain

import (
	"context"
	"time"
)

type ProductKind string

const (
	ProductKindDigital    ProductKind = "digital"
	ProductKindMobileData ProductKind = "mobile_data"
	ProductKindGiftCard   ProductKind = "gift_card"
)

var ProductKinds = []ProductKind{
	ProductKindDigital,
	ProductKindMobileData,
	ProductKindGiftCard,
}

func (k ProductKind) Valid() bool {
	for _, known := range ProductKinds {
		if k == known {
			return true
		}
	}
	return false
}

// Variant is a purchasable tier of a product. Mobile-data plans use the same shape.
type Variant struct {
	ID          string   `json:"id"`
	DisplayKey  string   `json:"displayKey"`
	Price       *float64 `json:"price,omitempty"` // absent for free trials
	IsFreeTrial bool     `json:"isFreeTrial"`
}

type Product struct {
	ID               string      `json:"id"`
	Name             string      `json:"name"`
	Kind             ProductKind `json:"kind"`
	Variants         []Variant   `json:"variants"`
	DefaultVariantID string      `json:"defaultVariantId"`
	CreatedAt        time.Time   `json:"createdAt"`
	UpdatedAt        time.Time   `json:"updatedAt"`
}

func (p Product) FindVariant(id string) (Variant, bool) {
	for _, v := range p.Variants {
		if v.ID == id {
			return v, true
		}
	}
	return Variant{}, false
}

// DefaultVariant returns the variant pre-selected on the product page.
func (p Product) DefaultVariant() (Variant, bool) {
	if p.DefaultVariantID == "" {
		return Variant{}, false
	}
	return p.FindVariant(p.DefaultVariantID)
}

// CartItemFor builds a catalog cart line for the given variant at its current price.
func (p Product) CartItemFor(variantID string, quantity int) (CartItem, bool) {
	v, ok := p.FindVariant(variantID)
	if !ok {
		return CartItem{}, false
	}
	price := 0.0
	if v.Price != nil {
		price = *v.Price
	}
	return CartItem{
		ProductID:   p.ID,
		VariantID:   v.ID,
		Quantity:    quantity,
		Price:       price,
		IsFreeTrial: v.IsFreeTrial,
	}, true
}

type ProductFilter struct {
	Kind  ProductKind
	Query string
}

type ProductRepository interface {
	GetByID(ctx context.Context, id string) (*Product, error)
	List(ctx context.Context, filter ProductFilter) ([]Product, error)
	Save(ctx context.Context, product *Product) error
	Delete(ctx context.Context, id string) error
}
