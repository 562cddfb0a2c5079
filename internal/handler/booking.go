package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/property-rental-booking/internal/middleware"
	"github.com/iliyamo/property-rental-booking/internal/service"
)

type BookingHandler struct {
	Svc *service.BookingService
	Log *zap.Logger
}

func NewBookingHandler(svc *service.BookingService, log *zap.Logger) *BookingHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &BookingHandler{Svc: svc, Log: log}
}

type createBookingReq struct {
	ListingID string `json:"listing_id"`
	Checkin   string `json:"checkin"`
	Checkout  string `json:"checkout"`
}

type bookingStatusReq struct {
	Status string `json:"status"`
}

// parseDate accepts YYYY-MM-DD or RFC 3339.
func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	return time.Time{}, false
}

func (h *BookingHandler) Create(c echo.Context) error {
	var req createBookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	in, ok1 := parseDate(req.Checkin)
	out, ok2 := parseDate(req.Checkout)
	if !ok1 || !ok2 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "checkin and checkout must be dates (YYYY-MM-DD)"})
	}
	b, err := h.Svc.Create(c.Request().Context(), middleware.UserID(c), strings.TrimSpace(req.ListingID), in, out)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusCreated, service.NewBookingView(b))
}

func (h *BookingHandler) List(c echo.Context) error {
	bookings, err := h.Svc.List(c.Request().Context(), middleware.UserID(c))
	if err != nil {
		return respondError(c, h.Log, err)
	}
	out := make([]service.BookingView, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, service.NewBookingView(b))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

func (h *BookingHandler) Get(c echo.Context) error {
	b, err := h.Svc.Get(c.Request().Context(), c.Param("id"), middleware.UserID(c), middleware.Role(c))
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, service.NewBookingView(b))
}

func (h *BookingHandler) UpdateStatus(c echo.Context) error {
	var req bookingStatusReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	b, err := h.Svc.UpdateStatus(c.Request().Context(), c.Param("id"), middleware.UserID(c), middleware.Role(c),
		strings.ToLower(strings.TrimSpace(req.Status)))
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, service.NewBookingView(b))
}

func (h *BookingHandler) Delete(c echo.Context) error {
	if err := h.Svc.Delete(c.Request().Context(), c.Param("id"), middleware.UserID(c)); err != nil {
		return respondError(c, h.Log, err)
	}
	return c.NoContent(http.StatusNoContent)
}
