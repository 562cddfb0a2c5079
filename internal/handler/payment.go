package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/property-rental-booking/internal/middleware"
	"github.com/iliyamo/property-rental-booking/internal/model"
)

// PaymentFlow is the payment orchestrator.
type PaymentFlow interface {
	Initiate(ctx context.Context, bookingID, userID string) (string, error)
	Verify(ctx context.Context, txRef string) (string, error)
}

// PaymentLister reads stored payment attempts.
type PaymentLister interface {
	ListByUser(ctx context.Context, userID string) ([]*model.Payment, error)
	ListByBooking(ctx context.Context, bookingID string) ([]*model.Payment, error)
}

// BookingGetter resolves a booking visible to the caller.
type BookingGetter interface {
	Get(ctx context.Context, id, userID, role string) (*model.Booking, error)
}

type PaymentHandler struct {
	Flow     PaymentFlow
	Payments PaymentLister
	Bookings BookingGetter
	Log      *zap.Logger
}

func NewPaymentHandler(flow PaymentFlow, payments PaymentLister, bookings BookingGetter, log *zap.Logger) *PaymentHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &PaymentHandler{Flow: flow, Payments: payments, Bookings: bookings, Log: log}
}

// Initiate handles POST /payments/initiate/:bookingId.
func (h *PaymentHandler) Initiate(c echo.Context) error {
	bookingID := strings.TrimSpace(c.Param("bookingId"))
	if bookingID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "booking id required"})
	}
	url, err := h.Flow.Initiate(c.Request().Context(), bookingID, middleware.UserID(c))
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"checkout_url": url})
}

// Verify handles GET /payments/verify?tx_ref=.  It is the provider callback
// and requires no authentication.
func (h *PaymentHandler) Verify(c echo.Context) error {
	msg, err := h.Flow.Verify(c.Request().Context(), strings.TrimSpace(c.QueryParam("tx_ref")))
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": msg})
}

// List returns the caller's payment attempts.
func (h *PaymentHandler) List(c echo.Context) error {
	items, err := h.Payments.ListByUser(c.Request().Context(), middleware.UserID(c))
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// ListForBooking returns the attempts made for one of the caller's bookings.
func (h *PaymentHandler) ListForBooking(c echo.Context) error {
	ctx := c.Request().Context()
	b, err := h.Bookings.Get(ctx, c.Param("id"), middleware.UserID(c), middleware.Role(c))
	if err != nil {
		return respondError(c, h.Log, err)
	}
	items, err := h.Payments.ListByBooking(ctx, b.ID)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}
