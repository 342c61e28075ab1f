package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

type CustomOrderKind string

const (
	CustomOrderGiftCard      CustomOrderKind = "gift_card"
	CustomOrderMobileData    CustomOrderKind = "mobile_data"
	CustomOrderInternational CustomOrderKind = "international"
)

// CartItemMetadata carries the user-entered details of a custom order line.
type CartItemMetadata struct {
	IsCustomOrder bool            `json:"isCustomOrder"`
	Kind          CustomOrderKind `json:"kind,omitempty"`
	Phone         string          `json:"phone,omitempty"`
	ProductURL    string          `json:"productUrl,omitempty"`
	Note          string          `json:"note,omitempty"`
	Quote         *PriceBreakdown `json:"quote,omitempty"`
}

type CartItem struct {
	ProductID   string            `json:"productId"`
	VariantID   string            `json:"variantId"`
	Quantity    int               `json:"quantity"`
	Price       float64           `json:"price"` // unit price, store currency
	IsFreeTrial bool              `json:"isFreeTrial"`
	Metadata    *CartItemMetadata `json:"metadata,omitempty"`
}

// IsCustomOrder reports whether the line must stay separate from every other line.
func (i CartItem) IsCustomOrder() bool {
	return i.Metadata != nil && i.Metadata.IsCustomOrder
}

// Matches compares the (product, variant) identity key. Custom order lines never match.
func (i CartItem) Matches(productID, variantID string) bool {
	return !i.IsCustomOrder() && i.ProductID == productID && i.VariantID == variantID
}

// Clone copies the line including its metadata so the copy shares no pointers.
func (i CartItem) Clone() CartItem {
	if i.Metadata != nil {
		md := *i.Metadata
		if md.Quote != nil {
			q := *md.Quote
			md.Quote = &q
		}
		i.Metadata = &md
	}
	return i
}

// Cart is an immutable value: every operation returns a new Cart.
type Cart struct {
	Items []CartItem `json:"items"`
}

func NewCart(items ...CartItem) Cart {
	return Cart{Items: cloneItems(items)}
}

func cloneItems(items []CartItem) []CartItem {
	out := make([]CartItem, len(items))
	for i, it := range items {
		out[i] = it.Clone()
	}
	return out
}

func (c Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

func (c Cart) indexOf(productID, variantID string) int {
	for i, it := range c.Items {
		if it.Matches(productID, variantID) {
			return i
		}
	}
	return -1
}

// Add appends custom orders unconditionally and merges everything else by identity key.
func (c Cart) Add(item CartItem) Cart {
	if item.Quantity < 1 {
		item.Quantity = 1
	}
	items := cloneItems(c.Items)
	if !item.IsCustomOrder() {
		if idx := c.indexOf(item.ProductID, item.VariantID); idx >= 0 {
			items[idx].Quantity += item.Quantity
			return Cart{Items: items}
		}
	}
	return Cart{Items: append(items, item.Clone())}
}

// AddUnique is the buy-now variant of Add: an existing line is left untouched.
func (c Cart) AddUnique(item CartItem) Cart {
	if !item.IsCustomOrder() && c.indexOf(item.ProductID, item.VariantID) >= 0 {
		return NewCart(c.Items...)
	}
	return c.Add(item)
}

func (c Cart) Increment(productID, variantID string) Cart {
	items := cloneItems(c.Items)
	if idx := c.indexOf(productID, variantID); idx >= 0 {
		items[idx].Quantity++
	}
	return Cart{Items: items}
}

// Decrement lowers the quantity by one and drops the line when it reaches zero.
func (c Cart) Decrement(productID, variantID string) Cart {
	idx := c.indexOf(productID, variantID)
	if idx < 0 {
		return NewCart(c.Items...)
	}
	if c.Items[idx].Quantity <= 1 {
		return c.RemoveLine(idx)
	}
	items := cloneItems(c.Items)
	items[idx].Quantity--
	return Cart{Items: items}
}

// Remove drops every line carrying the key, custom order lines included.
func (c Cart) Remove(productID, variantID string) Cart {
	items := make([]CartItem, 0, len(c.Items))
	for _, it := range c.Items {
		if it.ProductID == productID && it.VariantID == variantID {
			continue
		}
		items = append(items, it.Clone())
	}
	return Cart{Items: items}
}

// RemoveLine drops a single line by position. Out of range is a no-op.
func (c Cart) RemoveLine(index int) Cart {
	if index < 0 || index >= len(c.Items) {
		return NewCart(c.Items...)
	}
	items := make([]CartItem, 0, len(c.Items)-1)
	for i, it := range c.Items {
		if i != index {
			items = append(items, it.Clone())
		}
	}
	return Cart{Items: items}
}

// Subtract takes ordered lines out of the cart. Catalog lines lose the ordered
// quantity and are dropped at zero; custom order lines are matched by their
// unique variant id. Lines added after the snapshot was taken are kept.
func (c Cart) Subtract(ordered []CartItem) Cart {
	items := cloneItems(c.Items)
	for _, o := range ordered {
		idx := -1
		for i, it := range items {
			if it.IsCustomOrder() == o.IsCustomOrder() && it.ProductID == o.ProductID && it.VariantID == o.VariantID {
				idx = i
				break
			}
		}
		if idx < 0 {
			continue
		}
		if !o.IsCustomOrder() && items[idx].Quantity > o.Quantity {
			items[idx].Quantity -= o.Quantity
			continue
		}
		items = append(items[:idx], items[idx+1:]...)
	}
	return Cart{Items: items}
}

func (c Cart) Clear() Cart {
	return Cart{Items: []CartItem{}}
}

// Total is Σ price × quantity. Summing in decimal keeps the result independent of line order.
func (c Cart) Total() float64 {
	total := decimal.Zero
	for _, it := range c.Items {
		line := decimal.NewFromFloat(it.Price).Mul(decimal.NewFromInt(int64(it.Quantity)))
		total = total.Add(line)
	}
	f, _ := total.Float64()
	return f
}

// Count is the number of units across all lines.
func (c Cart) Count() int {
	n := 0
	for _, it := range c.Items {
		n += it.Quantity
	}
	return n
}

type CartActionType string

const (
	CartActionAdd        CartActionType = "add"
	CartActionAddUnique  CartActionType = "add_unique"
	CartActionIncrement  CartActionType = "increment"
	CartActionDecrement  CartActionType = "decrement"
	CartActionRemove     CartActionType = "remove"
	CartActionRemoveLine CartActionType = "remove_line"
	CartActionClear      CartActionType = "clear"
)

// CartAction is the typed action set accepted by ReduceCart.
type CartAction struct {
	Type      CartActionType `json:"type"`
	Item      *CartItem      `json:"item,omitempty"`
	ProductID string         `json:"productId,omitempty"`
	VariantID string         `json:"variantId,omitempty"`
	Line      *int           `json:"line,omitempty"`
}

// ReduceCart applies one action and returns the next cart value.
func ReduceCart(c Cart, a CartAction) (Cart, error) {
	switch a.Type {
	case CartActionAdd, CartActionAddUnique:
		if a.Item == nil {
			return c, &ValidationError{Fields: []FieldError{{Field: "item", Message: "is required"}}}
		}
		if a.Item.ProductID == "" {
			return c, &ValidationError{Fields: []FieldError{{Field: "item.productId", Message: "is required"}}}
		}
		if a.Type == CartActionAdd {
			return c.Add(*a.Item), nil
		}
		return c.AddUnique(*a.Item), nil
	case CartActionIncrement:
		return c.Increment(a.ProductID, a.VariantID), nil
	case CartActionDecrement:
		return c.Decrement(a.ProductID, a.VariantID), nil
	case CartActionRemove:
		return c.Remove(a.ProductID, a.VariantID), nil
	case CartActionRemoveLine:
		if a.Line == nil {
			return c, &ValidationError{Fields: []FieldError{{Field: "line", Message: "is required"}}}
		}
		return c.RemoveLine(*a.Line), nil
	case CartActionClear:
		return c.Clear(), nil
	default:
		return c, &ValidationError{Fields: []FieldError{{Field: "type", Message: fmt.Sprintf("unknown cart action %q", a.Type)}}}
	}
}
