package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/iliyamo/property-rental-booking/internal/model"
)

var ErrReviewNotFound = errors.New("review not found")

type ReviewRepo struct {
	db *sql.DB
}

func NewReviewRepo(db *sql.DB) *ReviewRepo { return &ReviewRepo{db: db} }

const reviewSelect = `SELECT rv.id, rv.listing_id, rv.user_id, rv.rating, rv.comment, rv.created_at,
       u.email, u.first_name, u.last_name, u.phone_number
  FROM reviews rv
  JOIN users u ON u.id = rv.user_id`

func scanReview(row interface{ Scan(...any) error }) (*model.Review, error) {
	var (
		rv    model.Review
		u     model.PublicUser
		phone sql.NullString
	)
	if err := row.Scan(&rv.ID, &rv.ListingID, &rv.UserID, &rv.Rating, &rv.Comment, &rv.CreatedAt,
		&u.Email, &u.FirstName, &u.LastName, &phone); err != nil {
		return nil, err
	}
	u.ID = rv.UserID
	if phone.Valid {
		u.PhoneNumber = &phone.String
	}
	rv.User = &u
	return &rv, nil
}

func (r *ReviewRepo) Create(ctx context.Context, rv *model.Review) error {
	if rv.ID == "" {
		rv.ID = uuid.NewString()
	}
	const q = "INSERT INTO reviews (id, listing_id, user_id, rating, comment) VALUES (?,?,?,?,?)"
	_, err := r.db.ExecContext(ctx, q, rv.ID, rv.ListingID, rv.UserID, rv.Rating, rv.Comment)
	return err
}

func (r *ReviewRepo) GetByID(ctx context.Context, id string) (*model.Review, error) {
	rv, err := scanReview(r.db.QueryRowContext(ctx, reviewSelect+" WHERE rv.id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrReviewNotFound
	}
	return rv, err
}

// ListByListing returns a listing's reviews, newest first.
func (r *ReviewRepo) ListByListing(ctx context.Context, listingID string) ([]model.Review, error) {
	rows, err := r.db.QueryContext(ctx, reviewSelect+" WHERE rv.listing_id = ? ORDER BY rv.created_at DESC, rv.id", listingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Review{}
	for rows.Next() {
		rv, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rv)
	}
	return out, rows.Err()
}

func (r *ReviewRepo) authorOf(ctx context.Context, id string) (string, error) {
	var userID string
	err := r.db.QueryRowContext(ctx, "SELECT user_id FROM reviews WHERE id = ?", id).Scan(&userID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrReviewNotFound
	}
	return userID, err
}

// Update changes rating and comment of a review written by userID.
func (r *ReviewRepo) Update(ctx context.Context, id, userID string, rating int, comment string) error {
	author, err := r.authorOf(ctx, id)
	if err != nil {
		return err
	}
	if author != userID {
		return ErrForbidden
	}
	_, err = r.db.ExecContext(ctx, "UPDATE reviews SET rating = ?, comment = ? WHERE id = ?", rating, comment, id)
	return err
}

// Delete removes a review written by userID.
func (r *ReviewRepo) Delete(ctx context.Context, id, userID string) error {
	author, err := r.authorOf(ctx, id)
	if err != nil {
		return err
	}
	if author != userID {
		return ErrForbidden
	}
	_, err = r.db.ExecContext(ctx, "DELETE FROM reviews WHERE id = ?", id)
	return err
}

func (r *ReviewRepo) DeleteAll(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM reviews")
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
