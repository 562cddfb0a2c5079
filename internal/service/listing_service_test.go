package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/iliyamo/property-rental-booking/internal/domain"
	"github.com/iliyamo/property-rental-booking/internal/model"
	"github.com/iliyamo/property-rental-booking/internal/repository"
)

type memListings map[string]*model.Listing

func (m memListings) Create(_ context.Context, l *model.Listing) error {
	l.ID = uuid.NewString()
	cp := *l
	m[l.ID] = &cp
	return nil
}

func (m memListings) GetByID(_ context.Context, id string) (*model.Listing, error) {
	l, ok := m[id]
	if !ok {
		return nil, repository.ErrListingNotFound
	}
	cp := *l
	return &cp, nil
}

func (m memListings) List(_ context.Context, limit, offset int) ([]*model.Listing, error) {
	out := []*model.Listing{}
	for _, l := range m {
		out = append(out, l)
	}
	return out, nil
}

func (m memListings) Update(_ context.Context, l *model.Listing) error {
	cur, ok := m[l.ID]
	if !ok {
		return repository.ErrListingNotFound
	}
	if cur.HostID != l.HostID {
		return repository.ErrForbidden
	}
	cp := *l
	m[l.ID] = &cp
	return nil
}

func (m memListings) Delete(_ context.Context, id, hostID string) error {
	cur, ok := m[id]
	if !ok {
		return repository.ErrListingNotFound
	}
	if cur.HostID != hostID {
		return repository.ErrForbidden
	}
	delete(m, id)
	return nil
}

type memReviews map[string]*model.Review

func (m memReviews) Create(_ context.Context, rv *model.Review) error {
	rv.ID = uuid.NewString()
	cp := *rv
	m[rv.ID] = &cp
	return nil
}

func (m memReviews) GetByID(_ context.Context, id string) (*model.Review, error) {
	rv, ok := m[id]
	if !ok {
		return nil, repository.ErrReviewNotFound
	}
	cp := *rv
	return &cp, nil
}

func (m memReviews) ListByListing(_ context.Context, listingID string) ([]model.Review, error) {
	out := []model.Review{}
	for _, rv := range m {
		if rv.ListingID == listingID {
			out = append(out, *rv)
		}
	}
	return out, nil
}

func (m memReviews) Update(_ context.Context, id, userID string, rating int, comment string) error {
	rv, ok := m[id]
	if !ok {
		return repository.ErrReviewNotFound
	}
	if rv.UserID != userID {
		return repository.ErrForbidden
	}
	rv.Rating, rv.Comment = rating, comment
	return nil
}

func (m memReviews) Delete(_ context.Context, id, userID string) error {
	rv, ok := m[id]
	if !ok {
		return repository.ErrReviewNotFound
	}
	if rv.UserID != userID {
		return repository.ErrForbidden
	}
	delete(m, id)
	return nil
}

func TestListingCreateValidatesPrice(t *testing.T) {
	svc := NewListingService(memListings{}, memReviews{})
	for _, price := range []string{"0", "-10"} {
		_, err := svc.Create(context.Background(), "h1", ListingInput{Name: "Loft", Location: "Addis", PricePerNight: decimal.RequireFromString(price)})
		if !domain.IsValidation(err) {
			t.Errorf("price %s: expected Validation, got %v", price, err)
		}
	}
}

func TestListingOnlyHostMayChange(t *testing.T) {
	svc := NewListingService(memListings{}, memReviews{})
	ctx := context.Background()
	l, err := svc.Create(ctx, "h1", ListingInput{Name: "Loft", Location: "Addis", PricePerNight: decimal.NewFromInt(50)})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	in := ListingInput{Name: "Loft 2", Location: "Addis", PricePerNight: decimal.NewFromInt(60)}
	if _, err := svc.Update(ctx, l.ID, "h2", in); !domain.IsForbidden(err) {
		t.Errorf("expected Forbidden, got %v", err)
	}
	if err := svc.Delete(ctx, l.ID, "h2"); !domain.IsForbidden(err) {
		t.Errorf("expected Forbidden, got %v", err)
	}
	got, err := svc.Update(ctx, l.ID, "h1", in)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.Name != "Loft 2" {
		t.Errorf("expected updated name, got %q", got.Name)
	}
	if _, err := svc.Get(ctx, "missing"); !domain.IsNotFound(err) {
		t.Errorf("expected NotFound, got %v", err)
	}
}

func TestReviewRatingBoundsAndAuthorship(t *testing.T) {
	svc := NewListingService(memListings{}, memReviews{})
	ctx := context.Background()
	l, err := svc.Create(ctx, "h1", ListingInput{Name: "Loft", Location: "Addis", PricePerNight: decimal.NewFromInt(50)})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	for _, rating := range []int{0, 6} {
		if _, err := svc.AddReview(ctx, l.ID, "u1", rating, "meh"); !domain.IsValidation(err) {
			t.Errorf("rating %d: expected Validation, got %v", rating, err)
		}
	}
	rv, err := svc.AddReview(ctx, l.ID, "u1", 5, "great")
	if err != nil {
		t.Fatalf("AddReview: %v", err)
	}
	if _, err := svc.UpdateReview(ctx, rv.ID, "u2", 1, "bad"); !domain.IsForbidden(err) {
		t.Errorf("expected Forbidden, got %v", err)
	}
	if _, err := svc.AddReview(ctx, "missing", "u1", 4, "ok"); !domain.IsNotFound(err) {
		t.Errorf("expected NotFound, got %v", err)
	}

	got, err := svc.Get(ctx, l.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.ReviewCount != 1 || len(got.Reviews) != 1 {
		t.Errorf("expected one review, got %d", got.ReviewCount)
	}
	if err := svc.DeleteReview(ctx, rv.ID, "u1"); err != nil {
		t.Errorf("DeleteReview: %v", err)
	}
}
