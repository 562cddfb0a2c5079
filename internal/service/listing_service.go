package service

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/iliyamo/property-rental-booking/internal/domain"
	"github.com/iliyamo/property-rental-booking/internal/model"
	"github.com/iliyamo/property-rental-booking/internal/repository"
)

type ListingRepository interface {
	Create(ctx context.Context, l *model.Listing) error
	GetByID(ctx context.Context, id string) (*model.Listing, error)
	List(ctx context.Context, limit, offset int) ([]*model.Listing, error)
	Update(ctx context.Context, l *model.Listing) error
	Delete(ctx context.Context, id, hostID string) error
}

type ReviewRepository interface {
	Create(ctx context.Context, rv *model.Review) error
	GetByID(ctx context.Context, id string) (*model.Review, error)
	ListByListing(ctx context.Context, listingID string) ([]model.Review, error)
	Update(ctx context.Context, id, userID string, rating int, comment string) error
	Delete(ctx context.Context, id, userID string) error
}

// ListingService manages listings and their reviews.  Only a listing's host
// may change it and only a review's author may change the review.
type ListingService struct {
	listings ListingRepository
	reviews  ReviewRepository
}

func NewListingService(listings ListingRepository, reviews ReviewRepository) *ListingService {
	return &ListingService{listings: listings, reviews: reviews}
}

// ListingInput carries the editable fields of a listing.
type ListingInput struct {
	Name          string
	Description   string
	Location      string
	PricePerNight decimal.Decimal
}

func (in ListingInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return domain.ValidationError{Field: "name", Msg: "required"}
	}
	if strings.TrimSpace(in.Location) == "" {
		return domain.ValidationError{Field: "location", Msg: "required"}
	}
	if !in.PricePerNight.IsPositive() {
		return domain.ValidationError{Field: "pricepernight", Msg: "Price per night must be greater than zero."}
	}
	return nil
}

func mapListingErr(err error) error {
	switch {
	case errors.Is(err, repository.ErrListingNotFound):
		return domain.NotFoundError{Resource: "Listing", Err: err}
	case errors.Is(err, repository.ErrForbidden):
		return domain.ForbiddenError{Resource: "listing"}
	}
	return err
}

func (s *ListingService) Create(ctx context.Context, hostID string, in ListingInput) (*model.Listing, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	l := &model.Listing{
		HostID:        hostID,
		Name:          strings.TrimSpace(in.Name),
		Description:   in.Description,
		Location:      strings.TrimSpace(in.Location),
		PricePerNight: in.PricePerNight,
	}
	if err := s.listings.Create(ctx, l); err != nil {
		return nil, err
	}
	return s.Get(ctx, l.ID)
}

// Get returns a listing together with its reviews.
func (s *ListingService) Get(ctx context.Context, id string) (*model.Listing, error) {
	l, err := s.listings.GetByID(ctx, id)
	if err != nil {
		return nil, mapListingErr(err)
	}
	reviews, err := s.reviews.ListByListing(ctx, id)
	if err != nil {
		return nil, err
	}
	l.Reviews = reviews
	l.ReviewCount = len(reviews)
	return l, nil
}

func (s *ListingService) List(ctx context.Context, limit, offset int) ([]*model.Listing, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.listings.List(ctx, limit, offset)
}

func (s *ListingService) Update(ctx context.Context, id, hostID string, in ListingInput) (*model.Listing, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	l := &model.Listing{
		ID:            id,
		HostID:        hostID,
		Name:          strings.TrimSpace(in.Name),
		Description:   in.Description,
		Location:      strings.TrimSpace(in.Location),
		PricePerNight: in.PricePerNight,
	}
	if err := s.listings.Update(ctx, l); err != nil {
		return nil, mapListingErr(err)
	}
	return s.Get(ctx, id)
}

func (s *ListingService) Delete(ctx context.Context, id, hostID string) error {
	return mapListingErr(s.listings.Delete(ctx, id, hostID))
}

func validateReview(rating int) error {
	if rating < 1 || rating > 5 {
		return domain.ValidationError{Field: "rating", Msg: "Rating must be between 1 and 5."}
	}
	return nil
}

func mapReviewErr(err error) error {
	switch {
	case errors.Is(err, repository.ErrReviewNotFound):
		return domain.NotFoundError{Resource: "Review", Err: err}
	case errors.Is(err, repository.ErrForbidden):
		return domain.ForbiddenError{Resource: "review"}
	}
	return err
}

func (s *ListingService) Reviews(ctx context.Context, listingID string) ([]model.Review, error) {
	if _, err := s.listings.GetByID(ctx, listingID); err != nil {
		return nil, mapListingErr(err)
	}
	return s.reviews.ListByListing(ctx, listingID)
}

func (s *ListingService) AddReview(ctx context.Context, listingID, userID string, rating int, comment string) (*model.Review, error) {
	if err := validateReview(rating); err != nil {
		return nil, err
	}
	if _, err := s.listings.GetByID(ctx, listingID); err != nil {
		return nil, mapListingErr(err)
	}
	rv := &model.Review{ListingID: listingID, UserID: userID, Rating: rating, Comment: comment}
	if err := s.reviews.Create(ctx, rv); err != nil {
		return nil, err
	}
	return s.reviews.GetByID(ctx, rv.ID)
}

func (s *ListingService) UpdateReview(ctx context.Context, id, userID string, rating int, comment string) (*model.Review, error) {
	if err := validateReview(rating); err != nil {
		return nil, err
	}
	if err := s.reviews.Update(ctx, id, userID, rating, comment); err != nil {
		return nil, mapReviewErr(err)
	}
	rv, err := s.reviews.GetByID(ctx, id)
	if err != nil {
		return nil, mapReviewErr(err)
	}
	return rv, nil
}

func (s *ListingService) DeleteReview(ctx context.Context, id, userID string) error {
	return mapReviewErr(s.reviews.Delete(ctx, id, userID))
}
