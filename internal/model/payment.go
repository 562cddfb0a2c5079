package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment statuses stored in payments.status.
const (
	PaymentPending   = "Pending"
	PaymentCompleted = "Completed"
	PaymentFailed    = "Failed"
)

// Payment is one attempt to pay for a booking through the gateway.  It is
// created Pending at initiation and moved to Completed or Failed when the
// provider callback is verified.  TransactionID is unique across all rows.
type Payment struct {
	ID            string          `json:"payment_id"`
	BookingID     string          `json:"booking_id"`
	UserID        string          `json:"user_id"`
	Amount        decimal.Decimal `json:"amount"`
	TransactionID string          `json:"transaction_id"`
	Status        string          `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
}

// Terminal reports whether the payment has left the Pending state.
func (p Payment) Terminal() bool {
	return p.Status == PaymentCompleted || p.Status == PaymentFailed
}
