package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Booking statuses stored in bookings.status.
const (
	BookingPending   = "pending"
	BookingConfirmed = "confirmed"
	BookingCanceled  = "canceled"
	BookingCompleted = "completed"
)

// ValidBookingStatus reports whether s is one of the booking statuses.
func ValidBookingStatus(s string) bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingCanceled, BookingCompleted:
		return true
	}
	return false
}

// Booking is a reservation of a listing by a user for a date range.  The
// payment flow reads TotalPrice and UserID and never changes Status unless
// booking confirmation is switched on.
type Booking struct {
	ID         string          `json:"booking_id"`
	ListingID  string          `json:"listing_id"`
	UserID     string          `json:"user_id"`
	Checkin    time.Time       `json:"checkin"`
	Checkout   time.Time       `json:"checkout"`
	TotalPrice decimal.Decimal `json:"total_price"`
	Status     string          `json:"status"`
	CreatedAt  time.Time       `json:"created_at"`
}

// DurationNights is the number of nights between check-in and check-out.
func (b Booking) DurationNights() int {
	if b.Checkin.IsZero() || b.Checkout.IsZero() {
		return 0
	}
	return int(b.Checkout.Sub(b.Checkin).Hours() / 24)
}
