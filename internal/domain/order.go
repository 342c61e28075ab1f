package domain

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"
)

type OrderFilter struct {
	Page   int
	Limit  int
	Status OrderStatus
	Search string
}

type ShippingDetails struct {
	FullName   string `json:"fullName"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode,omitempty"`
	Country    string `json:"country,omitempty"`
}

// CheckoutDetails is what the customer submits on the checkout form.
type CheckoutDetails struct {
	Name          string           `json:"name"`
	Email         string           `json:"email"`
	PaymentMethod string           `json:"paymentMethod"`
	Shipping      *ShippingDetails `json:"shippingDetails,omitempty"`
}

func (d CheckoutDetails) Validate() error {
	verr := &ValidationError{}
	if strings.TrimSpace(d.Name) == "" {
		verr.Add("name", "is required")
	}
	if strings.TrimSpace(d.Email) == "" {
		verr.Add("email", "is required")
	} else if _, err := mail.ParseAddress(d.Email); err != nil {
		verr.Add("email", "is not a valid email address")
	}
	if strings.TrimSpace(d.PaymentMethod) == "" {
		verr.Add("paymentMethod", "is required")
	}
	if d.Shipping != nil {
		if strings.TrimSpace(d.Shipping.Address) == "" {
			verr.Add("shippingDetails.address", "is required")
		}
		if strings.TrimSpace(d.Shipping.Phone) == "" {
			verr.Add("shippingDetails.phone", "is required")
		}
	}
	return verr.OrNil()
}

type Order struct {
	ID              string           `json:"id"`
	CustomerName    string           `json:"customerName"`
	CustomerEmail   string           `json:"customerEmail"`
	Items           []CartItem       `json:"items"`
	Total           float64          `json:"total"` // fixed at placement
	Date            time.Time        `json:"date"`
	Status          OrderStatus      `json:"status"`
	PaymentMethod   string           `json:"paymentMethod"`
	ShippingDetails *ShippingDetails `json:"shippingDetails,omitempty"`
	// PlacedBy is stored with the order and stripped from customer-facing views.
	PlacedBy *OrderOwner `json:"placedBy,omitempty"`
}

// Clone returns a copy that shares no slices or pointers with o.
func (o Order) Clone() Order {
	o.Items = cloneItems(o.Items)
	if o.ShippingDetails != nil {
		sd := *o.ShippingDetails
		o.ShippingDetails = &sd
	}
	if o.PlacedBy != nil {
		owner := *o.PlacedBy
		o.PlacedBy = &owner
	}
	return o
}

// OrderOwner identifies who is placing or viewing an order: the cart session
// and, when signed in, the user.
type OrderOwner struct {
	SessionID string `json:"sessionId,omitempty"`
	UserID    string `json:"userId,omitempty"`
}

func (o OrderOwner) IsAuthenticated() bool {
	return o.UserID != ""
}

// Owns reports whether the caller placed order, by user id or by cart session.
func (o OrderOwner) Owns(order Order) bool {
	if order.PlacedBy == nil {
		return false
	}
	if o.UserID != "" && order.PlacedBy.UserID == o.UserID {
		return true
	}
	return o.SessionID != "" && order.PlacedBy.SessionID == o.SessionID
}

// InitialStatus maps a payment method to the status a new order starts in.
func InitialStatus(paymentMethod string) OrderStatus {
	switch {
	case paymentMethod == PaymentMethodBankTransfer:
		return OrderStatusAwaitingPayment
	case strings.HasSuffix(paymentMethod, PaymentMethodRequestSuffix):
		return OrderStatusPending
	default:
		return OrderStatusCompleted
	}
}

// NextOrderID numbers orders from the collection size, skipping ids already taken.
func NextOrderID(existing []Order) string {
	taken := make(map[string]bool, len(existing))
	for _, o := range existing {
		taken[o.ID] = true
	}
	n := len(existing) + 1
	id := fmt.Sprintf("ORD-%05d", n)
	for taken[id] {
		n++
		id = fmt.Sprintf("ORD-%05d", n)
	}
	return id
}

// PlaceOrder materialises a cart into an Order. An empty cart yields ok=false.
func PlaceOrder(cart Cart, details CheckoutDetails, existing []Order, now time.Time) (Order, bool) {
	if cart.IsEmpty() {
		return Order{}, false
	}
	order := Order{
		ID:            NextOrderID(existing),
		CustomerName:  strings.TrimSpace(details.Name),
		CustomerEmail: strings.TrimSpace(details.Email),
		Items:         cloneItems(cart.Items),
		Total:         cart.Total(),
		Date:          now.UTC(),
		Status:        InitialStatus(details.PaymentMethod),
		PaymentMethod: details.PaymentMethod,
	}
	if details.Shipping != nil {
		sd := *details.Shipping
		order.ShippingDetails = &sd
	}
	return order, true
}

// TransitionPolicy is the table of allowed status changes.
type TransitionPolicy struct {
	name  string
	open  bool
	table map[OrderStatus]map[OrderStatus]bool
}

// OpenTransitions lets an admin move an order from any status to any other.
func OpenTransitions() TransitionPolicy {
	return TransitionPolicy{name: TransitionsOpen, open: true}
}

// StrictTransitions only allows forward moves. Completed and Failed are terminal.
func StrictTransitions() TransitionPolicy {
	return TransitionPolicy{
		name: TransitionsStrict,
		table: map[OrderStatus]map[OrderStatus]bool{
			OrderStatusAwaitingPayment: {
				OrderStatusCompleted: true,
				OrderStatusFailed:    true,
			},
			OrderStatusPending: {
				OrderStatusCompleted:       true,
				OrderStatusFailed:          true,
				OrderStatusAwaitingPayment: true,
			},
		},
	}
}

// PolicyByName resolves a configured policy name; unknown names fall back to open.
func PolicyByName(name string) TransitionPolicy {
	if strings.EqualFold(name, TransitionsStrict) {
		return StrictTransitions()
	}
	return OpenTransitions()
}

func (p TransitionPolicy) Name() string {
	if p.name == "" {
		return TransitionsOpen
	}
	return p.name
}

func (p TransitionPolicy) CanTransition(from, to OrderStatus) bool {
	if from == to {
		return true
	}
	if p.open || p.table == nil {
		return true
	}
	return p.table[from][to]
}

// UpdateStatus returns a copy of order in the new status.
func UpdateStatus(order Order, next OrderStatus, policy TransitionPolicy) (Order, error) {
	if !next.Valid() {
		return Order{}, &ValidationError{Fields: []FieldError{{Field: "status", Message: fmt.Sprintf("unknown status %q", next)}}}
	}
	if !policy.CanTransition(order.Status, next) {
		return Order{}, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, order.Status, next)
	}
	updated := order.Clone()
	updated.Status = next
	return updated, nil
}

type OrderRepository interface {
	Create(ctx context.Context, order *Order) error
	Update(ctx context.Context, order *Order) error
	// Delete removes the given ids and reports how many existed.
	Delete(ctx context.Context, ids []string) (int, error)
	GetByID(ctx context.Context, id string) (*Order, error)
	List(ctx context.Context) ([]Order, error)
}
