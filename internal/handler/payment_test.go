package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/property-rental-booking/internal/domain"
	"github.com/iliyamo/property-rental-booking/internal/model"
)

type stubFlow struct {
	url, msg string
	err      error

	gotBooking, gotUser, gotRef string
	verifyCalls                 int
}

func (s *stubFlow) Initiate(_ context.Context, bookingID, userID string) (string, error) {
	s.gotBooking, s.gotUser = bookingID, userID
	return s.url, s.err
}

func (s *stubFlow) Verify(_ context.Context, txRef string) (string, error) {
	s.verifyCalls++
	s.gotRef = txRef
	return s.msg, s.err
}

type stubPayments struct{ rows []*model.Payment }

func (s stubPayments) ListByUser(context.Context, string) ([]*model.Payment, error) {
	return s.rows, nil
}

func (s stubPayments) ListByBooking(context.Context, string) ([]*model.Payment, error) {
	return s.rows, nil
}

type stubBookings struct{ err error }

func (s stubBookings) Get(_ context.Context, id, _, _ string) (*model.Booking, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &model.Booking{ID: id}, nil
}

func serve(t *testing.T, h *PaymentHandler, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	e.POST("/payments/initiate/:bookingId", h.Initiate, func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set("user_id", "u1")
			c.Set("role", "USER")
			return next(c)
		}
	})
	e.GET("/payments/verify", h.Verify)
	e.GET("/v1/bookings/:id/payments", h.ListForBooking)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &m); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return m
}

func TestInitiateReturnsCheckoutURL(t *testing.T) {
	flow := &stubFlow{url: "https://checkout.example/abc"}
	rec := serve(t, NewPaymentHandler(flow, stubPayments{}, stubBookings{}, nil), http.MethodPost, "/payments/initiate/b1")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := decode(t, rec)["checkout_url"]; got != "https://checkout.example/abc" {
		t.Errorf("unexpected body %v", got)
	}
	if flow.gotBooking != "b1" || flow.gotUser != "u1" {
		t.Errorf("unexpected call %q/%q", flow.gotBooking, flow.gotUser)
	}
}

func TestInitiateErrorStatuses(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{domain.NotFoundError{Resource: "Booking"}, http.StatusNotFound},
		{domain.GatewayRejectedError{Message: "bad", Payload: json.RawMessage(`{"status":"failed"}`)}, http.StatusBadRequest},
		{domain.GatewayUnavailableError{Err: errors.New("timeout")}, http.StatusBadGateway},
		{domain.ConflictError{Resource: "Payment"}, http.StatusConflict},
		{errors.New("db down"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		rec := serve(t, NewPaymentHandler(&stubFlow{err: tc.err}, stubPayments{}, stubBookings{}, nil), http.MethodPost, "/payments/initiate/b1")
		if rec.Code != tc.code {
			t.Errorf("%T: expected %d, got %d", tc.err, tc.code, rec.Code)
		}
		if _, ok := decode(t, rec)["error"]; !ok {
			t.Errorf("%T: expected error key", tc.err)
		}
	}
}

func TestInitiateRejectedCarriesPayload(t *testing.T) {
	flow := &stubFlow{err: domain.GatewayRejectedError{Message: "bad", Payload: json.RawMessage(`{"status":"failed"}`)}}
	rec := serve(t, NewPaymentHandler(flow, stubPayments{}, stubBookings{}, nil), http.MethodPost, "/payments/initiate/b1")
	details, ok := decode(t, rec)["details"].(map[string]any)
	if !ok || details["status"] != "failed" {
		t.Errorf("expected provider payload in details, got %s", rec.Body.String())
	}
}

func TestVerifyHandler(t *testing.T) {
	flow := &stubFlow{msg: "Payment verified successfully"}
	rec := serve(t, NewPaymentHandler(flow, stubPayments{}, stubBookings{}, nil), http.MethodGet, "/payments/verify?tx_ref=u1-b1")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if decode(t, rec)["message"] != "Payment verified successfully" || flow.gotRef != "u1-b1" {
		t.Errorf("unexpected response %s", rec.Body.String())
	}
}

func TestVerifyHandlerFailures(t *testing.T) {
	cases := []struct {
		err  error
		code int
		msg  string
	}{
		{domain.ValidationError{Msg: "Missing tx_ref"}, http.StatusBadRequest, "Missing tx_ref"},
		{domain.VerificationFailedError{TxRef: "x"}, http.StatusBadRequest, "Payment verification failed"},
		{domain.VerificationFailedError{TxRef: "x", Err: domain.GatewayUnavailableError{}}, http.StatusBadRequest, "Payment verification failed"},
		{domain.NotFoundError{Resource: "Payment record"}, http.StatusNotFound, "Payment record not found"},
	}
	for _, tc := range cases {
		rec := serve(t, NewPaymentHandler(&stubFlow{err: tc.err}, stubPayments{}, stubBookings{}, nil), http.MethodGet, "/payments/verify?tx_ref=x")
		if rec.Code != tc.code {
			t.Errorf("%v: expected %d, got %d", tc.err, tc.code, rec.Code)
		}
		if got := decode(t, rec)["error"]; got != tc.msg {
			t.Errorf("expected %q, got %v", tc.msg, got)
		}
	}
}

func TestListForBookingHidesOthersBookings(t *testing.T) {
	h := NewPaymentHandler(&stubFlow{}, stubPayments{}, stubBookings{err: domain.NotFoundError{Resource: "Booking"}}, nil)
	rec := serve(t, h, http.MethodGet, "/v1/bookings/b9/payments")
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}
