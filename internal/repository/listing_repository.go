package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/iliyamo/property-rental-booking/internal/model"
)

// ErrListingNotFound is returned when a listing cannot be found in the DB.
var ErrListingNotFound = errors.New("listing not found")

// ListingRepo encapsulates all database queries related to listings.
type ListingRepo struct {
	db *sql.DB
}

func NewListingRepo(db *sql.DB) *ListingRepo { return &ListingRepo{db: db} }

// listingSelect joins the host profile and counts reviews so a single row
// renders a complete listing.
const listingSelect = `SELECT l.id, l.host_id, l.name, l.description, l.location, l.price_per_night,
       l.created_at, l.updated_at,
       u.email, u.first_name, u.last_name, u.phone_number,
       (SELECT COUNT(*) FROM reviews r WHERE r.listing_id = l.id)
  FROM listings l
  JOIN users u ON u.id = l.host_id`

func scanListing(row interface{ Scan(...any) error }) (*model.Listing, error) {
	var (
		l     model.Listing
		host  model.PublicUser
		phone sql.NullString
	)
	if err := row.Scan(&l.ID, &l.HostID, &l.Name, &l.Description, &l.Location, &l.PricePerNight,
		&l.CreatedAt, &l.UpdatedAt,
		&host.Email, &host.FirstName, &host.LastName, &phone,
		&l.ReviewCount); err != nil {
		return nil, err
	}
	host.ID = l.HostID
	if phone.Valid {
		host.PhoneNumber = &phone.String
	}
	l.Host = &host
	return &l, nil
}

// Create inserts a new listing and assigns its ID.
func (r *ListingRepo) Create(ctx context.Context, l *model.Listing) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	const q = "INSERT INTO listings (id, host_id, name, description, location, price_per_night) VALUES (?,?,?,?,?,?)"
	_, err := r.db.ExecContext(ctx, q, l.ID, l.HostID, l.Name, l.Description, l.Location, l.PricePerNight)
	return err
}

// GetByID fetches a listing with its host and review count.
func (r *ListingRepo) GetByID(ctx context.Context, id string) (*model.Listing, error) {
	l, err := scanListing(r.db.QueryRowContext(ctx, listingSelect+" WHERE l.id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrListingNotFound
	}
	return l, err
}

// List returns listings newest first.
func (r *ListingRepo) List(ctx context.Context, limit, offset int) ([]*model.Listing, error) {
	rows, err := r.db.QueryContext(ctx, listingSelect+" ORDER BY l.created_at DESC, l.id LIMIT ? OFFSET ?", limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*model.Listing{}
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// hostOf returns the host of a listing or ErrListingNotFound.
func (r *ListingRepo) hostOf(ctx context.Context, id string) (string, error) {
	var hostID string
	err := r.db.QueryRowContext(ctx, "SELECT host_id FROM listings WHERE id = ?", id).Scan(&hostID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrListingNotFound
	}
	return hostID, err
}

// Update overwrites the editable fields of a listing owned by l.HostID.
// It returns ErrForbidden when the listing belongs to another host.
func (r *ListingRepo) Update(ctx context.Context, l *model.Listing) error {
	hostID, err := r.hostOf(ctx, l.ID)
	if err != nil {
		return err
	}
	if hostID != l.HostID {
		return ErrForbidden
	}
	const q = "UPDATE listings SET name = ?, description = ?, location = ?, price_per_night = ? WHERE id = ?"
	_, err = r.db.ExecContext(ctx, q, l.Name, l.Description, l.Location, l.PricePerNight, l.ID)
	return err
}

// Delete removes a listing owned by hostID.  Bookings, reviews and
// payments cascade.
func (r *ListingRepo) Delete(ctx context.Context, id, hostID string) error {
	owner, err := r.hostOf(ctx, id)
	if err != nil {
		return err
	}
	if owner != hostID {
		return ErrForbidden
	}
	_, err = r.db.ExecContext(ctx, "DELETE FROM listings WHERE id = ?", id)
	return err
}

// DeleteAll removes every listing.
func (r *ListingRepo) DeleteAll(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM listings")
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
