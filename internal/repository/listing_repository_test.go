package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"

	"github.com/iliyamo/property-rental-booking/internal/model"
)

func TestListingRepoGetByIDJoinsHost(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()
	repo := NewListingRepo(db)
	now := time.Now().UTC()

	cols := []string{"id", "host_id", "name", "description", "location", "price_per_night", "created_at", "updated_at",
		"email", "first_name", "last_name", "phone_number", "review_count"}
	mock.ExpectQuery(regexp.QuoteMeta("WHERE l.id = ?")).
		WithArgs("l1").
		WillReturnRows(sqlmock.NewRows(cols).AddRow("l1", "h1", "Garden Cottage", "Quiet", "Portland, OR", "95.00", now, now,
			"jane@example.com", "Jane", "Smith", nil, 3))

	l, err := repo.GetByID(context.Background(), "l1")
	if err != nil {
		t.Fatalf("GetByID error: %v", err)
	}
	if l.Host == nil || l.Host.ID != "h1" || l.Host.PhoneNumber != nil {
		t.Errorf("unexpected host %+v", l.Host)
	}
	if l.ReviewCount != 3 || !l.PricePerNight.Equal(decimal.RequireFromString("95")) {
		t.Errorf("unexpected listing %+v", l)
	}
}

func TestListingRepoUpdateRejectsOtherHost(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()
	repo := NewListingRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT host_id FROM listings WHERE id = ?")).
		WithArgs("l1").
		WillReturnRows(sqlmock.NewRows([]string{"host_id"}).AddRow("h1"))

	err = repo.Update(context.Background(), &model.Listing{ID: "l1", HostID: "intruder"})
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestListingRepoDeleteMissing(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()
	repo := NewListingRepo(db)

	mock.ExpectQuery("SELECT host_id FROM listings").
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows([]string{"host_id"}))

	if err := repo.Delete(context.Background(), "ghost", "h1"); !errors.Is(err, ErrListingNotFound) {
		t.Fatalf("expected ErrListingNotFound, got %v", err)
	}
}
