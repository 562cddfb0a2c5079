// Package gateway is the HTTP client for the external payment provider.
// It speaks the Chapa transaction API: initialize returns a hosted checkout
// URL and verify reports the state of a transaction by reference.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/iliyamo/property-rental-booking/internal/config"
	"github.com/iliyamo/property-rental-booking/internal/metrics"
)

// StatusSuccess is the value the provider uses for both the envelope
// status and the transaction status of a successful payment.
const StatusSuccess = "success"

// InitializeRequest is the body of POST /v1/transaction/initialize.
type InitializeRequest struct {
	Amount      decimal.Decimal `json:"-"`
	Currency    string          `json:"currency"`
	Email       string          `json:"email"`
	FirstName   string          `json:"first_name"`
	LastName    string          `json:"last_name"`
	TxRef       string          `json:"tx_ref"`
	CallbackURL string          `json:"callback_url"`
	ReturnURL   string          `json:"return_url,omitempty"`
}

// MarshalJSON sends the amount as a fixed two-decimal string.
func (r InitializeRequest) MarshalJSON() ([]byte, error) {
	type alias InitializeRequest
	return json.Marshal(struct {
		Amount string `json:"amount"`
		alias
	}{Amount: r.Amount.StringFixed(2), alias: alias(r)})
}

// InitializeResponse is the provider envelope for initialize.  Message is
// kept raw because the provider returns either a string or an object of
// field errors.
type InitializeResponse struct {
	Status  string          `json:"status"`
	Message json.RawMessage `json:"message"`
	Data    *struct {
		CheckoutURL string `json:"checkout_url"`
		TxRef       string `json:"tx_ref"`
	} `json:"data"`

	Raw json.RawMessage `json:"-"`
}

// OK reports overall success with a usable checkout URL.
func (r *InitializeResponse) OK() bool {
	return r.Status == StatusSuccess && r.Data != nil && r.Data.CheckoutURL != ""
}

// VerifyResponse is the provider envelope for verify.
type VerifyResponse struct {
	Status  string          `json:"status"`
	Message json.RawMessage `json:"message"`
	Data    *struct {
		Status    string          `json:"status"`
		TxRef     string          `json:"tx_ref"`
		Reference string          `json:"reference"`
		Amount    decimal.Decimal `json:"amount"`
		Currency  string          `json:"currency"`
	} `json:"data"`

	Raw json.RawMessage `json:"-"`
}

// Succeeded reports overall success and a successful nested transaction
// status.
func (r *VerifyResponse) Succeeded() bool {
	return r.Status == StatusSuccess && r.Data != nil && r.Data.Status == StatusSuccess
}

// MessageText renders the provider message as plain text.
func MessageText(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return strings.TrimSpace(string(raw))
}

// Client calls the provider with a bearer secret.  Verify requests that
// fail at the transport level or with a 5xx status are retried up to
// maxRetries times with doubling backoff.  Initialize is a POST the
// provider may already have recorded, so it is sent once.  4xx answers are
// returned as decoded provider responses.
type Client struct {
	baseURL    string
	secretKey  string
	http       *http.Client
	maxRetries int
	backoff    time.Duration
	metrics    *metrics.Metrics
	log        *zap.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option { return func(c *Client) { c.http = hc } }

// WithMetrics records call durations.
func WithMetrics(m *metrics.Metrics) Option { return func(c *Client) { c.metrics = m } }

// WithLogger sets the logger used for retry warnings.
func WithLogger(l *zap.Logger) Option { return func(c *Client) { c.log = l } }

// NewClient builds a client from configuration.
func NewClient(cfg config.GatewayConfig, opts ...Option) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	c := &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		secretKey:  cfg.SecretKey,
		http:       &http.Client{Timeout: timeout},
		maxRetries: cfg.MaxRetries,
		backoff:    cfg.RetryBackoff,
		log:        zap.NewNop(),
	}
	if c.maxRetries < 0 {
		c.maxRetries = 0
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Initialize starts a hosted checkout for the transaction.
func (c *Client) Initialize(ctx context.Context, req InitializeRequest) (*InitializeResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode initialize request: %w", err)
	}
	start := time.Now()
	raw, err := c.do(ctx, http.MethodPost, "/v1/transaction/initialize", body, 0)
	if err != nil {
		c.observe("initialize", "error", start)
		return nil, err
	}
	var out InitializeResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		c.observe("initialize", "error", start)
		return nil, fmt.Errorf("decode initialize response: %w", err)
	}
	out.Raw = raw
	if out.OK() {
		c.observe("initialize", "ok", start)
	} else {
		c.observe("initialize", "rejected", start)
	}
	return &out, nil
}

// Verify asks the provider for the state of a transaction.
func (c *Client) Verify(ctx context.Context, txRef string) (*VerifyResponse, error) {
	start := time.Now()
	raw, err := c.do(ctx, http.MethodGet, "/v1/transaction/verify/"+url.PathEscape(txRef), nil, c.maxRetries)
	if err != nil {
		c.observe("verify", "error", start)
		return nil, err
	}
	var out VerifyResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		c.observe("verify", "error", start)
		return nil, fmt.Errorf("decode verify response: %w", err)
	}
	out.Raw = raw
	if out.Succeeded() {
		c.observe("verify", "ok", start)
	} else {
		c.observe("verify", "rejected", start)
	}
	return &out, nil
}

func (c *Client) observe(op, outcome string, start time.Time) {
	c.metrics.ObserveGateway(op, outcome, time.Since(start).Seconds())
}

// errRetryable marks failures worth another attempt.
var errRetryable = errors.New("retryable gateway failure")

func (c *Client) do(ctx context.Context, method, path string, body []byte, retries int) ([]byte, error) {
	wait := c.backoff
	var lastErr error
	for attempt := 0; attempt <= retries; attempt++ {
		if attempt > 0 {
			c.log.Warn("retrying payment gateway call",
				zap.String("path", path), zap.Int("attempt", attempt), zap.Error(lastErr))
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(wait):
			}
			wait *= 2
		}
		raw, err := c.once(ctx, method, path, body)
		if err == nil {
			return raw, nil
		}
		lastErr = err
		if !errors.Is(err, errRetryable) || ctx.Err() != nil {
			break
		}
	}
	return nil, lastErr
}

func (c *Client) once(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	var rdr io.Reader
	if body != nil {
		rdr = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rdr)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errRetryable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", errRetryable, err)
	}
	if resp.StatusCode >= 500 {
		return nil, fmt.Errorf("%w: provider returned status %d", errRetryable, resp.StatusCode)
	}
	if !json.Valid(raw) {
		return nil, fmt.Errorf("provider returned non-JSON body with status %d", resp.StatusCode)
	}
	return raw, nil
}
