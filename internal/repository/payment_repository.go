package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/iliyamo/property-rental-booking/internal/model"
)

// ErrPaymentNotFound is returned when no payment carries the requested
// transaction reference.
var ErrPaymentNotFound = errors.New("payment not found")

// PaymentRepo is the payment record store.  Status updates are plain
// read-modify-write without row locks; concurrent verifications of the
// same reference converge on the provider's answer.
type PaymentRepo struct {
	db *sql.DB
}

func NewPaymentRepo(db *sql.DB) *PaymentRepo { return &PaymentRepo{db: db} }

const paymentColumns = "id, booking_id, user_id, amount, transaction_id, status, created_at"

func scanPayment(row interface{ Scan(...any) error }) (*model.Payment, error) {
	var p model.Payment
	if err := row.Scan(&p.ID, &p.BookingID, &p.UserID, &p.Amount, &p.TransactionID, &p.Status, &p.CreatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserts a payment attempt.  A reused transaction reference
// violates the unique index and is reported as ErrDuplicate.
func (r *PaymentRepo) Create(ctx context.Context, p *model.Payment) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.Status == "" {
		p.Status = model.PaymentPending
	}
	const q = "INSERT INTO payments (id, booking_id, user_id, amount, transaction_id, status) VALUES (?,?,?,?,?,?)"
	if _, err := r.db.ExecContext(ctx, q, p.ID, p.BookingID, p.UserID, p.Amount, p.TransactionID, p.Status); err != nil {
		if isDuplicate(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

// GetByTransactionID looks a payment up by its transaction reference.
func (r *PaymentRepo) GetByTransactionID(ctx context.Context, txRef string) (*model.Payment, error) {
	p, err := scanPayment(r.db.QueryRowContext(ctx,
		"SELECT "+paymentColumns+" FROM payments WHERE transaction_id = ? LIMIT 1", txRef))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPaymentNotFound
	}
	return p, err
}

// UpdateStatus persists a status change.  It does not guard transitions;
// the orchestrator decides the target status.
func (r *PaymentRepo) UpdateStatus(ctx context.Context, id, status string) error {
	res, err := r.db.ExecContext(ctx, "UPDATE payments SET status = ? WHERE id = ?", status, id)
	if err != nil {
		return err
	}
	return requireAffected(res, ErrPaymentNotFound)
}

// CountAttempts returns how many transaction references were handed out
// for a booking, whether or not the provider accepted them.
func (r *PaymentRepo) CountAttempts(ctx context.Context, bookingID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM payment_attempts WHERE booking_id = ?", bookingID).Scan(&n)
	return n, err
}

// RecordAttempt claims txRef before it is sent to the provider.  A
// reference that was claimed before is reported as ErrDuplicate.
func (r *PaymentRepo) RecordAttempt(ctx context.Context, bookingID, userID, txRef string) error {
	const q = "INSERT INTO payment_attempts (tx_ref, booking_id, user_id) VALUES (?,?,?)"
	if _, err := r.db.ExecContext(ctx, q, txRef, bookingID, userID); err != nil {
		if isDuplicate(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

// ListByUser returns the user's payment attempts, newest first.
func (r *PaymentRepo) ListByUser(ctx context.Context, userID string) ([]*model.Payment, error) {
	return r.list(ctx, "SELECT "+paymentColumns+" FROM payments WHERE user_id = ? ORDER BY created_at DESC, id", userID)
}

// ListByBooking returns every attempt for a booking, newest first.
func (r *PaymentRepo) ListByBooking(ctx context.Context, bookingID string) ([]*model.Payment, error) {
	return r.list(ctx, "SELECT "+paymentColumns+" FROM payments WHERE booking_id = ? ORDER BY created_at DESC, id", bookingID)
}

func (r *PaymentRepo) list(ctx context.Context, q string, arg string) ([]*model.Payment, error) {
	rows, err := r.db.QueryContext(ctx, q, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*model.Payment{}
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
