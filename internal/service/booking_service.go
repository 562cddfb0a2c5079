package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iliyamo/property-rental-booking/internal/domain"
	"github.com/iliyamo/property-rental-booking/internal/model"
	"github.com/iliyamo/property-rental-booking/internal/repository"
)

type BookingRepository interface {
	Create(ctx context.Context, b *model.Booking) error
	GetByID(ctx context.Context, id string) (*model.Booking, error)
	GetByIDForUser(ctx context.Context, id, userID string) (*model.Booking, error)
	ListByUser(ctx context.Context, userID string) ([]*model.Booking, error)
	UpdateStatus(ctx context.Context, id, status string) error
	DeleteForUser(ctx context.Context, id, userID string) error
}

type ListingReader interface {
	GetByID(ctx context.Context, id string) (*model.Listing, error)
}

// BookingService validates and prices bookings.
type BookingService struct {
	bookings BookingRepository
	listings ListingReader
	now      func() time.Time
}

func NewBookingService(bookings BookingRepository, listings ListingReader) *BookingService {
	return &BookingService{bookings: bookings, listings: listings, now: time.Now}
}

// BookingView is a booking as rendered to clients.
type BookingView struct {
	*model.Booking
	DurationNights int `json:"duration_nights"`
}

func NewBookingView(b *model.Booking) BookingView {
	return BookingView{Booking: b, DurationNights: b.DurationNights()}
}

func day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Create books listingID for userID.  The total price is the number of
// nights times the listing's nightly price.
func (s *BookingService) Create(ctx context.Context, userID, listingID string, checkin, checkout time.Time) (*model.Booking, error) {
	if listingID == "" {
		return nil, domain.ValidationError{Field: "listing_id", Msg: "required"}
	}
	if checkin.IsZero() || checkout.IsZero() {
		return nil, domain.ValidationError{Field: "checkin", Msg: "checkin and checkout are required"}
	}
	in, out := day(checkin), day(checkout)
	if !out.After(in) {
		return nil, domain.ValidationError{Field: "checkout", Msg: "Check-out date must be after check-in date."}
	}
	if in.Before(day(s.now())) {
		return nil, domain.ValidationError{Field: "checkin", Msg: "Check-in date cannot be in the past."}
	}

	listing, err := s.listings.GetByID(ctx, listingID)
	if err != nil {
		if errors.Is(err, repository.ErrListingNotFound) {
			return nil, domain.NotFoundError{Resource: "Listing", Err: err}
		}
		return nil, fmt.Errorf("load listing: %w", err)
	}

	b := &model.Booking{
		ListingID: listing.ID,
		UserID:    userID,
		Checkin:   in,
		Checkout:  out,
		Status:    model.BookingPending,
	}
	b.TotalPrice = listing.PricePerNight.Mul(decimal.NewFromInt(int64(b.DurationNights())))
	if err := s.bookings.Create(ctx, b); err != nil {
		return nil, fmt.Errorf("store booking: %w", err)
	}
	b.CreatedAt = s.now().UTC()
	return b, nil
}

// Get returns a booking visible to the caller.  Admins see every booking.
func (s *BookingService) Get(ctx context.Context, id, userID, role string) (*model.Booking, error) {
	var (
		b   *model.Booking
		err error
	)
	if role == model.RoleAdmin {
		b, err = s.bookings.GetByID(ctx, id)
	} else {
		b, err = s.bookings.GetByIDForUser(ctx, id, userID)
	}
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return nil, domain.NotFoundError{Resource: "Booking", Err: err}
		}
		return nil, err
	}
	return b, nil
}

func (s *BookingService) List(ctx context.Context, userID string) ([]*model.Booking, error) {
	return s.bookings.ListByUser(ctx, userID)
}

// UpdateStatus changes a booking's status.  Owners may only cancel; admins
// may set any valid status.
func (s *BookingService) UpdateStatus(ctx context.Context, id, userID, role, status string) (*model.Booking, error) {
	if !model.ValidBookingStatus(status) {
		return nil, domain.ValidationError{Field: "status", Msg: "must be one of pending, confirmed, canceled, completed"}
	}
	b, err := s.Get(ctx, id, userID, role)
	if err != nil {
		return nil, err
	}
	if role != model.RoleAdmin && status != model.BookingCanceled {
		return nil, domain.ForbiddenError{Resource: "booking status"}
	}
	if err := s.bookings.UpdateStatus(ctx, b.ID, status); err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return nil, domain.NotFoundError{Resource: "Booking", Err: err}
		}
		return nil, err
	}
	b.Status = status
	return b, nil
}

func (s *BookingService) Delete(ctx context.Context, id, userID string) error {
	if err := s.bookings.DeleteForUser(ctx, id, userID); err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return domain.NotFoundError{Resource: "Booking", Err: err}
		}
		return err
	}
	return nil
}
