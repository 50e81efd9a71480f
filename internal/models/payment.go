package models

import (
	"time"
)

type ContactInfo struct {
	Name       string `json:"name" validate:"required,max=100"`
	Phone      string `json:"phone" validate:"required,min=7,max=20"`
	Address    string `json:"address" validate:"required,max=300"`
	City       string `json:"city" validate:"required,max=100"`
	State      string `json:"state" validate:"required,max=100"`
	PostalCode string `json:"postal_code" validate:"required,max=20"`
	Country    string `json:"country" validate:"required,max=60"`
}

// CheckoutPayload is the snapshot held in the pending payment cache while the
// gateway round trip is in flight.
type CheckoutPayload struct {
	OwnerID     string          `json:"owner_id"`
	Email       string          `json:"email"`
	Items       []OrderLineItem `json:"items"`
	TotalAmount float64         `json:"total_amount"`
	Contact     ContactInfo     `json:"contact"`
	FromBuyNow  bool            `json:"from_buy_now"`
}

type PendingPaymentRecord struct {
	Reference string          `json:"reference"`
	Payload   CheckoutPayload `json:"payload"`
	CreatedAt time.Time       `json:"created_at"`
	ExpiresAt time.Time       `json:"expires_at"`
}

func (r *PendingPaymentRecord) Expired(now time.Time) bool {
	return !now.Before(r.ExpiresAt)
}

type InitiateCheckoutRequest struct {
	Items      []CartLine  `json:"items" validate:"required,min=1,max=200,dive"`
	Contact    ContactInfo `json:"contact" validate:"required"`
	FromBuyNow bool        `json:"from_buy_now"`
}

type FailureReason string

const (
	FailureVerification   FailureReason = "verification_failed"
	FailureNotSuccessful  FailureReason = "payment_not_successful"
	FailurePendingMissing FailureReason = "pending_payment_missing"
	FailurePersistence    FailureReason = "order_persistence_failed"
	FailureUserCancelled  FailureReason = "user_cancelled"
)

// CallbackOutcome is the result of a gateway callback: an order, or a failure.
type CallbackOutcome struct {
	Success       bool
	OrderID       string
	Duplicate     bool
	FailureReason FailureReason
}
