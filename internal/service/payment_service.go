// Package service holds the business flows that span several stores and
// external systems: payment initiation and verification against the
// gateway, and booking creation.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/iliyamo/property-rental-booking/internal/config"
	"github.com/iliyamo/property-rental-booking/internal/domain"
	"github.com/iliyamo/property-rental-booking/internal/gateway"
	"github.com/iliyamo/property-rental-booking/internal/metrics"
	"github.com/iliyamo/property-rental-booking/internal/model"
	"github.com/iliyamo/property-rental-booking/internal/queue"
	"github.com/iliyamo/property-rental-booking/internal/repository"
)

// MsgPaymentVerified is returned to the provider callback on success.
const MsgPaymentVerified = "Payment verified successfully"

// Gateway is the payment provider as seen by the orchestrator.
type Gateway interface {
	Initialize(ctx context.Context, req gateway.InitializeRequest) (*gateway.InitializeResponse, error)
	Verify(ctx context.Context, txRef string) (*gateway.VerifyResponse, error)
}

type BookingStore interface {
	GetByIDForUser(ctx context.Context, id, userID string) (*model.Booking, error)
	UpdateStatus(ctx context.Context, id, status string) error
}

type PaymentStore interface {
	Create(ctx context.Context, p *model.Payment) error
	GetByTransactionID(ctx context.Context, txRef string) (*model.Payment, error)
	UpdateStatus(ctx context.Context, id, status string) error
	CountAttempts(ctx context.Context, bookingID string) (int, error)
	RecordAttempt(ctx context.Context, bookingID, userID, txRef string) error
}

type UserStore interface {
	GetByID(ctx context.Context, id string) (model.User, error)
}

// EventPublisher receives payment transitions.  Failures are logged and
// never reach the caller.
type EventPublisher interface {
	PublishPaymentStatus(ctx context.Context, ev queue.PaymentStatusChangedEvent) error
}

// PaymentService coordinates the gateway with the booking and payment
// stores.  Each call is an independent unit of work; there is no locking
// around the payment status update because both outcomes converge on the
// status the provider reports.
type PaymentService struct {
	bookings  BookingStore
	payments  PaymentStore
	users     UserStore
	gw        Gateway
	cfg       config.PaymentConfig
	publisher EventPublisher
	metrics   *metrics.Metrics
	log       *zap.Logger
}

type PaymentOption func(*PaymentService)

func WithPublisher(p EventPublisher) PaymentOption {
	return func(s *PaymentService) { s.publisher = p }
}

func WithPaymentMetrics(m *metrics.Metrics) PaymentOption {
	return func(s *PaymentService) { s.metrics = m }
}

func WithPaymentLogger(l *zap.Logger) PaymentOption {
	return func(s *PaymentService) { s.log = l }
}

func NewPaymentService(bookings BookingStore, payments PaymentStore, users UserStore, gw Gateway, cfg config.PaymentConfig, opts ...PaymentOption) *PaymentService {
	if cfg.Currency == "" {
		cfg.Currency = "ETB"
	}
	s := &PaymentService{
		bookings: bookings,
		payments: payments,
		users:    users,
		gw:       gw,
		cfg:      cfg,
		log:      zap.NewNop(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// TxRef builds the transaction reference for the given attempt on a
// booking.  The first attempt is "{userID}-{bookingID}"; later attempts get
// the attempt number appended.
func TxRef(userID, bookingID string, attempt int) string {
	if attempt <= 1 {
		return userID + "-" + bookingID
	}
	return fmt.Sprintf("%s-%s-%d", userID, bookingID, attempt)
}

// reserveReference records the reference for the next attempt before it is
// sent, so a request whose answer is lost still consumes its number.  When
// the counted reference is already taken, a random suffix keeps it unique.
func (s *PaymentService) reserveReference(ctx context.Context, bookingID, userID string) (string, error) {
	sent, err := s.payments.CountAttempts(ctx, bookingID)
	if err != nil {
		return "", fmt.Errorf("count payment attempts: %w", err)
	}
	txRef := TxRef(userID, bookingID, sent+1)
	err = s.payments.RecordAttempt(ctx, bookingID, userID, txRef)
	if errors.Is(err, repository.ErrDuplicate) {
		txRef += "-" + uuid.NewString()[:8]
		err = s.payments.RecordAttempt(ctx, bookingID, userID, txRef)
	}
	if err != nil {
		return "", fmt.Errorf("record payment attempt: %w", err)
	}
	return txRef, nil
}

// Initiate starts a payment attempt for a booking owned by userID and
// returns the provider's hosted checkout URL.  Every reference is logged as
// an attempt before the provider sees it and is never sent twice.  A Pending
// payment record is stored only after the provider accepts the request.
func (s *PaymentService) Initiate(ctx context.Context, bookingID, userID string) (string, error) {
	log := s.log.With(zap.String("booking_id", bookingID), zap.String("user_id", userID))

	booking, err := s.bookings.GetByIDForUser(ctx, bookingID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			s.metrics.Initiated("not_found")
			return "", domain.NotFoundError{Resource: "Booking", Err: err}
		}
		s.metrics.Initiated("error")
		return "", fmt.Errorf("load booking: %w", err)
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			s.metrics.Initiated("not_found")
			return "", domain.NotFoundError{Resource: "User", Err: err}
		}
		s.metrics.Initiated("error")
		return "", fmt.Errorf("load user: %w", err)
	}

	txRef, err := s.reserveReference(ctx, booking.ID, userID)
	if err != nil {
		s.metrics.Initiated("error")
		return "", err
	}

	resp, err := s.gw.Initialize(ctx, gateway.InitializeRequest{
		Amount:      booking.TotalPrice,
		Currency:    s.cfg.Currency,
		Email:       user.Email,
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		TxRef:       txRef,
		CallbackURL: s.cfg.CallbackURL,
		ReturnURL:   s.cfg.ReturnURL,
	})
	if err != nil {
		log.Warn("payment gateway unreachable", zap.String("tx_ref", txRef), zap.Error(err))
		s.metrics.Initiated("unavailable")
		return "", domain.GatewayUnavailableError{Err: err}
	}
	if !resp.OK() {
		msg := gateway.MessageText(resp.Message)
		log.Info("payment gateway rejected initialization", zap.String("tx_ref", txRef), zap.String("status", resp.Status), zap.String("message", msg))
		s.metrics.Initiated("rejected")
		return "", domain.GatewayRejectedError{Message: msg, Payload: resp.Raw}
	}

	if resp.Data.TxRef != "" {
		txRef = resp.Data.TxRef
	}
	p := &model.Payment{
		BookingID:     booking.ID,
		UserID:        userID,
		Amount:        booking.TotalPrice,
		TransactionID: txRef,
		Status:        model.PaymentPending,
	}
	if err := s.payments.Create(ctx, p); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			s.metrics.Initiated("conflict")
			return "", domain.ConflictError{Resource: "Payment", Msg: "transaction reference already in use", Err: err}
		}
		s.metrics.Initiated("error")
		return "", fmt.Errorf("store payment: %w", err)
	}

	log.Info("payment initiated", zap.String("payment_id", p.ID), zap.String("tx_ref", txRef), zap.String("amount", p.Amount.StringFixed(2)))
	s.metrics.Initiated("created")
	s.publish(ctx, p)
	return resp.Data.CheckoutURL, nil
}

// Verify asks the provider for the state of txRef and records the outcome
// on the matching payment.  The caller is unauthenticated; the provider's
// answer is the only source of truth.
func (s *PaymentService) Verify(ctx context.Context, txRef string) (string, error) {
	if txRef == "" {
		return "", domain.ValidationError{Msg: "Missing tx_ref"}
	}
	log := s.log.With(zap.String("tx_ref", txRef))

	resp, err := s.gw.Verify(ctx, txRef)
	if err != nil {
		log.Warn("payment gateway unreachable during verification", zap.Error(err))
		s.metrics.Verified("unavailable")
		return "", domain.VerificationFailedError{TxRef: txRef, Err: domain.GatewayUnavailableError{Err: err}}
	}

	if resp.Succeeded() {
		p, err := s.payments.GetByTransactionID(ctx, txRef)
		if err != nil {
			if errors.Is(err, repository.ErrPaymentNotFound) {
				log.Warn("verified payment has no local record")
				s.metrics.Verified("not_found")
				return "", domain.NotFoundError{Resource: "Payment record", Err: err}
			}
			s.metrics.Verified("error")
			return "", fmt.Errorf("load payment: %w", err)
		}
		if err := s.transition(ctx, p, model.PaymentCompleted); err != nil {
			return "", err
		}
		if s.cfg.ConfirmBooking {
			if err := s.bookings.UpdateStatus(ctx, p.BookingID, model.BookingConfirmed); err != nil {
				log.Error("confirm booking after payment failed", zap.String("booking_id", p.BookingID), zap.Error(err))
			}
		}
		return MsgPaymentVerified, nil
	}

	log.Info("payment not confirmed by gateway", zap.String("status", resp.Status), zap.String("message", gateway.MessageText(resp.Message)))
	p, err := s.payments.GetByTransactionID(ctx, txRef)
	switch {
	case err == nil:
		if err := s.transition(ctx, p, model.PaymentFailed); err != nil {
			return "", err
		}
	case errors.Is(err, repository.ErrPaymentNotFound):
		// unknown reference: nothing to mark
		s.metrics.Verified("not_found")
	default:
		s.metrics.Verified("error")
		return "", fmt.Errorf("load payment: %w", err)
	}
	return "", domain.VerificationFailedError{TxRef: txRef}
}

// transition persists the terminal status, publishes the change and
// records it.  Repeated verifications re-persist the same status.
func (s *PaymentService) transition(ctx context.Context, p *model.Payment, status string) error {
	if err := s.payments.UpdateStatus(ctx, p.ID, status); err != nil {
		s.metrics.Verified("error")
		if errors.Is(err, repository.ErrPaymentNotFound) {
			return domain.NotFoundError{Resource: "Payment record", Err: err}
		}
		return fmt.Errorf("update payment status: %w", err)
	}
	prev := p.Status
	p.Status = status
	s.log.Info("payment status updated",
		zap.String("payment_id", p.ID), zap.String("tx_ref", p.TransactionID),
		zap.String("from", prev), zap.String("to", status))
	s.metrics.Verified(status)
	s.publish(ctx, p)
	return nil
}

func (s *PaymentService) publish(ctx context.Context, p *model.Payment) {
	if s.publisher == nil {
		return
	}
	ev := queue.PaymentStatusChangedEvent{
		PaymentID:     p.ID,
		BookingID:     p.BookingID,
		UserID:        p.UserID,
		TransactionID: p.TransactionID,
		Status:        p.Status,
		Amount:        p.Amount.StringFixed(2),
		Currency:      s.cfg.Currency,
	}
	if err := s.publisher.PublishPaymentStatus(ctx, ev); err != nil {
		s.log.Warn("publish payment event failed", zap.String("tx_ref", p.TransactionID), zap.Error(err))
	}
}
