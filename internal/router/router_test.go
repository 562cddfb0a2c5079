package router

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/property-rental-booking/internal/handler"
	"github.com/iliyamo/property-rental-booking/internal/model"
	"github.com/iliyamo/property-rental-booking/internal/utils"
)

const secret = "router-secret"

type stubFlow struct{ initiatedBy string }

func (f *stubFlow) Initiate(_ context.Context, _, userID string) (string, error) {
	f.initiatedBy = userID
	return "https://checkout.example/abc", nil
}

func (f *stubFlow) Verify(context.Context, string) (string, error) {
	return "Payment verified successfully", nil
}

type stubPayments struct{}

func (stubPayments) ListByUser(context.Context, string) ([]*model.Payment, error) { return nil, nil }
func (stubPayments) ListByBooking(context.Context, string) ([]*model.Payment, error) { return nil, nil }

type stubBookings struct{}

func (stubBookings) Get(context.Context, string, string, string) (*model.Booking, error) {
	return nil, errors.New("unused")
}

type pingOK struct{}

func (pingOK) PingContext(context.Context) error { return nil }

func passthrough(next echo.HandlerFunc) echo.HandlerFunc { return next }

func newServer(flow *stubFlow) *echo.Echo {
	e := echo.New()
	p := handler.NewPaymentHandler(flow, stubPayments{}, stubBookings{}, nil)
	RegisterRoutes(e, pingOK{}, http.NotFoundHandler())
	RegisterPayments(e, p, secret, passthrough)
	return e
}

func TestVerifyIsPublic(t *testing.T) {
	rec := httptest.NewRecorder()
	newServer(&stubFlow{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/payments/verify?tx_ref=u1-b1", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestInitiateRequiresToken(t *testing.T) {
	flow := &stubFlow{}
	e := newServer(flow)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/payments/initiate/b1", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}

	tok, err := utils.NewAccessToken(secret, "u1", model.RoleUser, 5)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/payments/initiate/b1", nil)
	req.Header.Set("Authorization", "Bearer "+tok.Token)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "checkout_url") {
		t.Fatalf("expected checkout url, got %d: %s", rec.Code, rec.Body.String())
	}
	if flow.initiatedBy != "u1" {
		t.Errorf("expected initiation as u1, got %q", flow.initiatedBy)
	}
}

func TestHealthz(t *testing.T) {
	rec := httptest.NewRecorder()
	newServer(&stubFlow{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"db":"up"`) {
		t.Errorf("unexpected health response %d: %s", rec.Code, rec.Body.String())
	}
}
