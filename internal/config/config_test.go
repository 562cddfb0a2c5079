package config

import (
	"testing"
	"time"
)

func TestLoadRateLimitConfigDefaults(t *testing.T) {
	for _, k := range []string{"RATE_LIMIT_ENABLED", "RATE_LIMIT_CAPACITY", "RATE_LIMIT_REFILL_INTERVAL", "RATE_LIMIT_TTL", "RATE_LIMIT_KEY_STRATEGY"} {
		t.Setenv(k, "")
	}

	cfg := LoadRateLimitConfig()
	if !cfg.Enabled {
		t.Error("expected rate limiting to be enabled by default")
	}
	if cfg.Capacity != 30 {
		t.Errorf("expected capacity 30, got %d", cfg.Capacity)
	}
	if cfg.KeyStrategy != "ip_route" {
		t.Errorf("expected key strategy ip_route, got %q", cfg.KeyStrategy)
	}
}

func TestNormalizeRateLimitClampsValues(t *testing.T) {
	cfg := normalizeRateLimit(RateLimitConfig{Capacity: 0, RefillTokens: -2, RefillInterval: 0, TTL: time.Second})
	if cfg.Capacity != 1 || cfg.RefillTokens != 1 {
		t.Errorf("expected capacity and refill tokens clamped to 1, got %d/%d", cfg.Capacity, cfg.RefillTokens)
	}
	if cfg.RefillInterval != time.Second {
		t.Errorf("expected refill interval 1s, got %s", cfg.RefillInterval)
	}
	if cfg.TTL != 5*time.Second {
		t.Errorf("expected ttl raised to 5s, got %s", cfg.TTL)
	}
}

func TestLoadPaymentConfig(t *testing.T) {
	t.Setenv("PAYMENT_CURRENCY", "")
	t.Setenv("PAYMENT_CALLBACK_URL", "https://stay.example.com/payments/verify")
	t.Setenv("PAYMENT_CONFIRM_BOOKING", "yes")

	cfg := LoadPaymentConfig()
	if cfg.Currency != "ETB" {
		t.Errorf("expected default currency ETB, got %q", cfg.Currency)
	}
	if cfg.CallbackURL != "https://stay.example.com/payments/verify" {
		t.Errorf("unexpected callback url %q", cfg.CallbackURL)
	}
	if !cfg.ConfirmBooking {
		t.Error("expected ConfirmBooking to be true")
	}
}

func TestLoadRabbitMQConfigFallsBackToAMQPURL(t *testing.T) {
	t.Setenv("RABBITMQ_URL", "")
	t.Setenv("AMQP_URL", "amqp://u:p@broker:5672/")

	cfg := LoadRabbitMQConfig()
	if cfg.URL != "amqp://u:p@broker:5672/" {
		t.Errorf("unexpected url %q", cfg.URL)
	}
}

func TestParseMethods(t *testing.T) {
	m := parseMethods(" get, head ,,")
	if !m["GET"] || !m["HEAD"] || len(m) != 2 {
		t.Errorf("unexpected methods %v", m)
	}
}
