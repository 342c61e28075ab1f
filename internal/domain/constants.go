package domain

type OrderStatus string

// Order Statuses
const (
	OrderStatusPending         OrderStatus = "pending"
	OrderStatusCompleted       OrderStatus = "completed"
	OrderStatusFailed          OrderStatus = "failed"
	OrderStatusAwaitingPayment OrderStatus = "awaiting_payment"
)

// Payment Methods
const (
	PaymentMethodCard              = "card"
	PaymentMethodBankTransfer      = "bankTransfer"
	PaymentMethodAliExpressRequest = "aliexpress_request"
	// Deferred methods are fulfilled manually after review.
	PaymentMethodRequestSuffix = "_request"
)

// Transition policies
const (
	TransitionsOpen   = "open"
	TransitionsStrict = "strict"
)

// Navigation targets returned to the client
const (
	NavigateOrderConfirmation = "order-confirmation"
	NavigateLogin             = "login"
	NavigateCheckout          = "checkout"
)

// List Exports for API
var OrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusCompleted,
	OrderStatusFailed,
	OrderStatusAwaitingPayment,
}

var DefaultPaymentMethods = []string{
	PaymentMethodCard,
	PaymentMethodBankTransfer,
	PaymentMethodAliExpressRequest,
}

func (s OrderStatus) Valid() bool {
	for _, known := range OrderStatuses {
		if s == known {
			return true
		}
	}
	return false
}

