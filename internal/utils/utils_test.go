package utils

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	tok, err := NewAccessToken("s3cret", "7c1f0e1e-0000-4000-8000-000000000001", "USER", 15)
	if err != nil {
		t.Fatalf("NewAccessToken error: %v", err)
	}
	claims, err := ParseAccessToken("s3cret", tok.Token)
	if err != nil {
		t.Fatalf("ParseAccessToken error: %v", err)
	}
	if claims.UserID != "7c1f0e1e-0000-4000-8000-000000000001" || claims.Role != "USER" {
		t.Errorf("unexpected claims %+v", claims)
	}
}

func TestParseAccessTokenRejectsWrongSecretAndExpired(t *testing.T) {
	tok, _ := NewAccessToken("s3cret", "u1", "USER", 15)
	if _, err := ParseAccessToken("other", tok.Token); err != ErrInvalidToken {
		t.Errorf("expected ErrInvalidToken for wrong secret, got %v", err)
	}

	expired, _ := NewAccessToken("s3cret", "u1", "USER", -5)
	if _, err := ParseAccessToken("s3cret", expired.Token); err != ErrInvalidToken {
		t.Errorf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestParseAccessTokenRejectsNoneAlgorithm(t *testing.T) {
	raw, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "u1"}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign error: %v", err)
	}
	if _, err := ParseAccessToken("s3cret", raw); err != ErrInvalidToken {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestRefreshTokenHashing(t *testing.T) {
	rt, err := NewRefreshToken(7)
	if err != nil {
		t.Fatalf("NewRefreshToken error: %v", err)
	}
	if len(rt.Raw) != 96 {
		t.Errorf("expected 96 hex chars, got %d", len(rt.Raw))
	}
	if HashRefreshRaw(rt.Raw) != HashRefreshRaw(rt.Raw) || len(HashRefreshRaw(rt.Raw)) != 64 {
		t.Error("hash must be a stable 64-char hex digest")
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("password123", 4)
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	if !VerifyPassword(hash, "password123") || VerifyPassword(hash, "wrong") {
		t.Error("password verification mismatch")
	}
}
