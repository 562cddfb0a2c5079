package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
)

func TestParseDate(t *testing.T) {
	want := time.Date(2026, 11, 3, 0, 0, 0, 0, time.UTC)
	for _, in := range []string{"2026-11-03", " 2026-11-03 ", "2026-11-03T00:00:00Z"} {
		got, ok := parseDate(in)
		if !ok || !got.Equal(want) {
			t.Errorf("parseDate(%q) = %v, %v", in, got, ok)
		}
	}
	if _, ok := parseDate("03/11/2026"); ok {
		t.Error("expected unsupported layout to fail")
	}
}

func TestCreateBookingRejectsBadDates(t *testing.T) {
	h := NewBookingHandler(nil, nil)
	e := echo.New()
	e.POST("/v1/bookings", h.Create)

	req := httptest.NewRequest(http.MethodPost, "/v1/bookings",
		strings.NewReader(`{"listing_id":"l1","checkin":"tomorrow","checkout":"2026-11-05"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
}
