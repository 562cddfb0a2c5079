// Command seed fills the database with sample users, listings, bookings
// and reviews for local development.
package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/iliyamo/property-rental-booking/internal/config"
	"github.com/iliyamo/property-rental-booking/internal/database"
	"github.com/iliyamo/property-rental-booking/internal/logging"
	"github.com/iliyamo/property-rental-booking/internal/model"
	"github.com/iliyamo/property-rental-booking/internal/repository"
)

type options struct {
	users, listings, bookings, reviews int
	clear                              bool
}

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var opts options
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Seed the database with sample listings, bookings, and reviews",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), opts)
		},
		SilenceUsage: true,
	}
	cmd.Flags().IntVar(&opts.users, "users", 10, "number of users to create")
	cmd.Flags().IntVar(&opts.listings, "listings", 20, "number of listings to create")
	cmd.Flags().IntVar(&opts.bookings, "bookings", 30, "number of bookings to create")
	cmd.Flags().IntVar(&opts.reviews, "reviews", 25, "number of reviews to create")
	cmd.Flags().BoolVar(&opts.clear, "clear", false, "clear existing data before seeding")
	return cmd
}

type seeder struct {
	users    *repository.UserRepo
	listings *repository.ListingRepo
	bookings *repository.BookingRepo
	reviews  *repository.ReviewRepo
	cost     int
	rng      *rand.Rand
	log      *zap.Logger
}

func run(ctx context.Context, opts options) error {
	if ctx == nil {
		ctx = context.Background()
	}
	_ = godotenv.Load()
	cfg := config.Load()
	logger, err := logging.New(cfg.Env)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()
	if err := database.Migrate(ctx, db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	s := &seeder{
		users:    repository.NewUserRepo(db),
		listings: repository.NewListingRepo(db),
		bookings: repository.NewBookingRepo(db),
		reviews:  repository.NewReviewRepo(db),
		cost:     cfg.BcryptCost,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
		log:      logger,
	}

	if opts.clear {
		logger.Warn("clearing existing data")
		if err := s.clear(ctx); err != nil {
			return err
		}
	}

	userIDs, err := s.seedUsers(ctx, opts.users)
	if err != nil {
		return err
	}
	listings, err := s.seedListings(ctx, opts.listings, userIDs)
	if err != nil {
		return err
	}
	if err := s.seedBookings(ctx, opts.bookings, listings, userIDs); err != nil {
		return err
	}
	if err := s.seedReviews(ctx, opts.reviews, listings, userIDs); err != nil {
		return err
	}
	logger.Info("seeded database",
		zap.Int("users", len(userIDs)), zap.Int("listings", len(listings)))
	return nil
}

// clear deletes children before parents.
func (s *seeder) clear(ctx context.Context) error {
	steps := []struct {
		name string
		fn   func(context.Context) (int64, error)
	}{
		{"reviews", s.reviews.DeleteAll},
		{"bookings", s.bookings.DeleteAll},
		{"listings", s.listings.DeleteAll},
		{"users", s.users.DeleteAllExceptAdmins},
	}
	for _, st := range steps {
		n, err := st.fn(ctx)
		if err != nil {
			return fmt.Errorf("clear %s: %w", st.name, err)
		}
		s.log.Info("cleared", zap.String("table", st.name), zap.Int64("rows", n))
	}
	return nil
}

// seedUsers creates count users, reusing accounts whose email already
// exists.
func (s *seeder) seedUsers(ctx context.Context, count int) ([]string, error) {
	s.log.Info("creating users", zap.Int("count", count))
	ids := make([]string, 0, count)
	for i := 0; i < count; i++ {
		su := userAt(i)
		phone := su.Phone
		id, err := s.users.Create(ctx, repository.NewUser{
			Email:       su.Email,
			Password:    seedPassword,
			FirstName:   su.FirstName,
			LastName:    su.LastName,
			PhoneNumber: &phone,
			Role:        model.RoleUser,
		}, s.cost)
		if errors.Is(err, repository.ErrEmailExists) {
			u, gerr := s.users.GetByEmail(ctx, su.Email)
			if gerr != nil {
				return nil, fmt.Errorf("load user %s: %w", su.Email, gerr)
			}
			id, err = u.ID, nil
		}
		if err != nil {
			return nil, fmt.Errorf("create user %s: %w", su.Email, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (s *seeder) seedListings(ctx context.Context, count int, userIDs []string) ([]*model.Listing, error) {
	s.log.Info("creating listings", zap.Int("count", count))
	if len(userIDs) == 0 {
		s.log.Error("no users found; create users first")
		return nil, nil
	}
	out := make([]*model.Listing, 0, count)
	for i := 0; i < count; i++ {
		sl := listingAt(i, s.rng)
		l := &model.Listing{
			HostID:        userIDs[s.rng.Intn(len(userIDs))],
			Name:          sl.Name,
			Description:   sl.Description,
			Location:      sl.Location,
			PricePerNight: sl.PricePerNight,
		}
		if err := s.listings.Create(ctx, l); err != nil {
			return nil, fmt.Errorf("create listing %q: %w", l.Name, err)
		}
		out = append(out, l)
	}
	return out, nil
}

var bookingStatuses = []string{model.BookingPending, model.BookingConfirmed, model.BookingCanceled, model.BookingCompleted}

func (s *seeder) seedBookings(ctx context.Context, count int, listings []*model.Listing, userIDs []string) error {
	s.log.Info("creating bookings", zap.Int("count", count))
	if len(listings) == 0 || len(userIDs) == 0 {
		s.log.Error("no listings or users found; create them first")
		return nil
	}
	today := time.Now().UTC().Truncate(24 * time.Hour)
	for i := 0; i < count; i++ {
		l := listings[s.rng.Intn(len(listings))]
		guest := pickGuest(userIDs, l.HostID, s.rng)
		if guest == "" {
			continue
		}
		checkin, checkout, nights := stayDates(today, s.rng)
		b := &model.Booking{
			ListingID:  l.ID,
			UserID:     guest,
			Checkin:    checkin,
			Checkout:   checkout,
			TotalPrice: bookingTotal(l.PricePerNight, nights),
			Status:     bookingStatuses[s.rng.Intn(len(bookingStatuses))],
		}
		if err := s.bookings.Create(ctx, b); err != nil {
			return fmt.Errorf("create booking: %w", err)
		}
	}
	return nil
}

// seedReviews writes at most one review per (listing, user) pair and gives
// up after three tries per requested review.
func (s *seeder) seedReviews(ctx context.Context, count int, listings []*model.Listing, userIDs []string) error {
	s.log.Info("creating reviews", zap.Int("count", count))
	if len(listings) == 0 || len(userIDs) == 0 {
		s.log.Error("no listings or users found; create them first")
		return nil
	}
	seen := make(map[[2]string]struct{}, count)
	for attempts := 0; len(seen) < count && attempts < count*3; attempts++ {
		l := listings[s.rng.Intn(len(listings))]
		guest := pickGuest(userIDs, l.HostID, s.rng)
		if guest == "" {
			continue
		}
		key := [2]string{l.ID, guest}
		if _, dup := seen[key]; dup {
			continue
		}
		rv := &model.Review{
			ListingID: l.ID,
			UserID:    guest,
			Rating:    3 + s.rng.Intn(3),
			Comment:   reviewComments[s.rng.Intn(len(reviewComments))],
		}
		if err := s.reviews.Create(ctx, rv); err != nil {
			return fmt.Errorf("create review: %w", err)
		}
		seen[key] = struct{}{}
	}
	return nil
}
