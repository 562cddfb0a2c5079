// Package queue defines the payment events exchanged over RabbitMQ together
// with the publisher used by the orchestrator and the audit-log consumer.
package queue

// PaymentStatusQueue is the durable queue carrying payment transitions.
const PaymentStatusQueue = "payment.status"

// PaymentStatusChangedEvent is published after a payment record is created
// or moves to a terminal status.  It carries enough for consumers to log or
// notify without reading the database.
type PaymentStatusChangedEvent struct {
	PaymentID     string `json:"payment_id"`
	BookingID     string `json:"booking_id"`
	UserID        string `json:"user_id"`
	TransactionID string `json:"transaction_id"`
	Status        string `json:"status"`
	Amount        string `json:"amount"`
	Currency      string `json:"currency,omitempty"`
	OccurredAt    string `json:"occurred_at"`
}
