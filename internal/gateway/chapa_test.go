package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iliyamo/property-rental-booking/internal/config"
	"github.com/iliyamo/property-rental-booking/internal/metrics"
)

func newTestClient(url string, retries int) *Client {
	return NewClient(config.GatewayConfig{
		BaseURL:      url,
		SecretKey:    "CHASECK_TEST-abc",
		Timeout:      2 * time.Second,
		MaxRetries:   retries,
		RetryBackoff: time.Millisecond,
	}, WithMetrics(metrics.New()))
}

func TestInitializeSendsBearerAndBody(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/transaction/initialize" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if h := r.Header.Get("Authorization"); h != "Bearer CHASECK_TEST-abc" {
			t.Errorf("unexpected authorization header %q", h)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"success","message":"Hosted Link","data":{"checkout_url":"https://checkout.example/abc"}}`))
	}))
	defer srv.Close()

	resp, err := newTestClient(srv.URL, 0).Initialize(context.Background(), InitializeRequest{
		Amount:      decimal.RequireFromString("120"),
		Currency:    "ETB",
		Email:       "a@x.io",
		FirstName:   "A",
		LastName:    "B",
		TxRef:       "u1-b1",
		CallbackURL: "https://stay.example.com/payments/verify",
	})
	if err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if !resp.OK() || resp.Data.CheckoutURL != "https://checkout.example/abc" {
		t.Fatalf("unexpected response %+v", resp)
	}
	if got["amount"] != "120.00" {
		t.Errorf("expected amount 120.00, got %v", got["amount"])
	}
	for k, want := range map[string]string{"tx_ref": "u1-b1", "email": "a@x.io", "first_name": "A", "last_name": "B", "currency": "ETB"} {
		if got[k] != want {
			t.Errorf("%s: expected %q, got %v", k, want, got[k])
		}
	}
	if _, ok := got["return_url"]; ok {
		t.Error("empty return_url should be omitted")
	}
}

func TestInitializeIsNotRetried(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	if _, err := newTestClient(srv.URL, 3).Initialize(context.Background(), InitializeRequest{TxRef: "u1-b1"}); err == nil {
		t.Fatal("expected error")
	}
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Errorf("initialize must be sent once, got %d calls", n)
	}
}

func TestVerifyRetriesServerErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"status":"success","data":{"status":"success","tx_ref":"u1-b1"}}`))
	}))
	defer srv.Close()

	resp, err := newTestClient(srv.URL, 1).Verify(context.Background(), "u1-b1")
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !resp.Succeeded() {
		t.Errorf("expected success after retry, got %+v", resp)
	}
	if n := atomic.LoadInt32(&calls); n != 2 {
		t.Errorf("expected 2 calls, got %d", n)
	}
}

func TestVerifyGivesUpAfterRetries(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	if _, err := newTestClient(srv.URL, 2).Verify(context.Background(), "u1-b1"); err == nil {
		t.Fatal("expected error")
	}
	if n := atomic.LoadInt32(&calls); n != 3 {
		t.Errorf("expected 3 calls, got %d", n)
	}
}

func TestClientErrorsAreProviderAnswers(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"status":"failed","message":{"email":["The email must be a valid email address."]},"data":null}`))
	}))
	defer srv.Close()

	resp, err := newTestClient(srv.URL, 3).Initialize(context.Background(), InitializeRequest{TxRef: "u1-b1"})
	if err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if resp.OK() {
		t.Error("expected a rejected answer")
	}
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Errorf("4xx must not be retried, got %d calls", n)
	}
	if len(resp.Raw) == 0 {
		t.Error("expected raw payload to be kept")
	}
}

func TestVerifyDecodesNestedStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/v1/transaction/verify/u1-b1" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"status":"success","message":"Payment details","data":{"status":"success","tx_ref":"u1-b1","amount":120,"currency":"ETB"}}`))
	}))
	defer srv.Close()

	resp, err := newTestClient(srv.URL, 0).Verify(context.Background(), "u1-b1")
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !resp.Succeeded() {
		t.Fatalf("expected success, got %+v", resp)
	}
	if !resp.Data.Amount.Equal(decimal.NewFromInt(120)) {
		t.Errorf("unexpected amount %s", resp.Data.Amount)
	}
	if MessageText(resp.Message) != "Payment details" {
		t.Errorf("unexpected message %q", MessageText(resp.Message))
	}
}

func TestVerifyPendingIsNotSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"success","data":{"status":"pending","tx_ref":"u1-b1"}}`))
	}))
	defer srv.Close()

	resp, err := newTestClient(srv.URL, 0).Verify(context.Background(), "u1-b1")
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if resp.Succeeded() {
		t.Error("pending transaction must not count as success")
	}
}

func TestVerifyTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	if _, err := newTestClient(url, 1).Verify(context.Background(), "u1-b1"); err == nil {
		t.Fatal("expected transport error")
	}
}
