package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
	OrderStatusRefunded   OrderStatus = "refunded"
)

// orderTransitions is the only place allowed status changes are defined.
// Statuses absent from the map are terminal.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:    {OrderStatusProcessing, OrderStatusCancelled},
	OrderStatusProcessing: {OrderStatusDelivered, OrderStatusCancelled},
}

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusDelivered, OrderStatusCancelled, OrderStatusRefunded:
		return true
	}

	return false
}

func (s OrderStatus) Terminal() bool {
	return len(orderTransitions[s]) == 0
}

func CanTransition(from, to OrderStatus) bool {
	for _, next := range orderTransitions[from] {
		if next == to {
			return true
		}
	}

	return false
}

type PaymentMethod string

const (
	PaymentMethodUPI        PaymentMethod = "upi"
	PaymentMethodCreditCard PaymentMethod = "cc"
	PaymentMethodDebitCard  PaymentMethod = "dc"
	PaymentMethodNetBanking PaymentMethod = "nb"
	PaymentMethodEMI        PaymentMethod = "emi"
	PaymentMethodUPIPay     PaymentMethod = "upi_p"
	PaymentMethodUnknown    PaymentMethod = "unknown"
)

// ParsePaymentMethod maps a gateway payment mode onto the stored enum.
// An empty mode defaults to upi.
func ParsePaymentMethod(mode string) PaymentMethod {
	switch m := PaymentMethod(strings.ToLower(strings.TrimSpace(mode))); m {
	case "":
		return PaymentMethodUPI
	case PaymentMethodUPI, PaymentMethodCreditCard, PaymentMethodDebitCard,
		PaymentMethodNetBanking, PaymentMethodEMI, PaymentMethodUPIPay, PaymentMethodUnknown:
		return m
	default:
		return PaymentMethodUnknown
	}
}

type OrderLineItem struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unit_price"`
	Quantity  int     `json:"quantity"`
	ImageURL  string  `json:"image_url,omitempty"`
}

type Cancellation struct {
	IsCancelled bool      `json:"is_cancelled"`
	Reason      string    `json:"reason"`
	CancelledAt time.Time `json:"cancelled_at"`
}

type Order struct {
	ID               uuid.UUID       `json:"-"`
	OrderID          string          `json:"order_id"`
	OwnerID          string          `json:"owner_id"`
	CustomerEmail    string          `json:"customer_email"`
	CustomerName     string          `json:"customer_name"`
	Phone            string          `json:"phone"`
	BillingAddress   ContactInfo     `json:"billing_address"`
	Items            []OrderLineItem `json:"items"`
	TotalAmount      float64         `json:"total_amount"`
	PaymentMethod    PaymentMethod   `json:"payment_method"`
	GatewayPaymentID string          `json:"gateway_payment_id,omitempty"`
	GatewayTxnID     *string         `json:"gateway_txn_id,omitempty"`
	Status           OrderStatus     `json:"status"`
	Cancellation     *Cancellation   `json:"cancellation"`
	FromBuyNow       bool            `json:"from_buy_now"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// CreateOrderRequest is the direct creation path. Orders created this way
// start in pending without gateway confirmation.
type CreateOrderRequest struct {
	Items         []CartLine    `json:"items" validate:"required,min=1,max=200,dive"`
	Contact       ContactInfo   `json:"contact" validate:"required"`
	PaymentMethod PaymentMethod `json:"payment_method" validate:"required,oneof=upi cc dc nb emi upi_p unknown"`
	FromBuyNow    bool          `json:"from_buy_now"`
}

type CancelOrderRequest struct {
	Reason string `json:"cancellation_reason" validate:"required,min=1,max=500"`
}

type UpdateOrderStatusRequest struct {
	Status OrderStatus `json:"status" validate:"required,oneof=pending processing delivered cancelled refunded"`
}

type OrderResponse struct {
	Order *Order `json:"order"`
}
