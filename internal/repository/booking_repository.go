package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/iliyamo/property-rental-booking/internal/model"
)

// ErrBookingNotFound is returned when a booking does not exist or is not
// visible to the caller.
var ErrBookingNotFound = errors.New("booking not found")

// BookingRepo is the booking store.
type BookingRepo struct {
	db *sql.DB
}

func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

const bookingColumns = "id, listing_id, user_id, checkin, checkout, total_price, status, created_at"

func scanBooking(row interface{ Scan(...any) error }) (*model.Booking, error) {
	var b model.Booking
	if err := row.Scan(&b.ID, &b.ListingID, &b.UserID, &b.Checkin, &b.Checkout, &b.TotalPrice, &b.Status, &b.CreatedAt); err != nil {
		return nil, err
	}
	return &b, nil
}

// Create inserts a booking, assigning an ID and the pending status when
// they are not set.
func (r *BookingRepo) Create(ctx context.Context, b *model.Booking) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	if b.Status == "" {
		b.Status = model.BookingPending
	}
	const q = "INSERT INTO bookings (id, listing_id, user_id, checkin, checkout, total_price, status) VALUES (?,?,?,?,?,?,?)"
	_, err := r.db.ExecContext(ctx, q, b.ID, b.ListingID, b.UserID, b.Checkin, b.Checkout, b.TotalPrice, b.Status)
	return err
}

// GetByID fetches a booking regardless of owner.
func (r *BookingRepo) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	b, err := scanBooking(r.db.QueryRowContext(ctx, "SELECT "+bookingColumns+" FROM bookings WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	return b, err
}

// GetByIDForUser fetches a booking only if it belongs to userID.  A booking
// owned by someone else is reported as ErrBookingNotFound so callers cannot
// probe for other users' bookings.
func (r *BookingRepo) GetByIDForUser(ctx context.Context, id, userID string) (*model.Booking, error) {
	b, err := scanBooking(r.db.QueryRowContext(ctx,
		"SELECT "+bookingColumns+" FROM bookings WHERE id = ? AND user_id = ?", id, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	return b, err
}

// ListByUser returns the user's bookings, newest first.
func (r *BookingRepo) ListByUser(ctx context.Context, userID string) ([]*model.Booking, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+bookingColumns+" FROM bookings WHERE user_id = ? ORDER BY created_at DESC, id", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*model.Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// UpdateStatus sets the booking status.
func (r *BookingRepo) UpdateStatus(ctx context.Context, id, status string) error {
	res, err := r.db.ExecContext(ctx, "UPDATE bookings SET status = ? WHERE id = ?", status, id)
	if err != nil {
		return err
	}
	return requireAffected(res, ErrBookingNotFound)
}

// DeleteForUser removes a booking owned by userID; its payments cascade.
func (r *BookingRepo) DeleteForUser(ctx context.Context, id, userID string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM bookings WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return err
	}
	return requireAffected(res, ErrBookingNotFound)
}

// DeleteAll removes every booking.
func (r *BookingRepo) DeleteAll(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM bookings")
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
