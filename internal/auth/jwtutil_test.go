package auth

import (
	"testing"
	"time"
)

func TestSignAndVerifyRoundTrip(t *testing.T) {
	secret := []byte("test-secret")
	claims := map[string]any{"sub": "user-1", "ver": 0, "exp": time.Now().Add(time.Hour).Unix()}

	token, err := SignHS256(claims, secret)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	parsed, err := ParseAndVerifyHS256(token, secret)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if parsed["sub"] != "user-1" {
		t.Fatalf("unexpected claims: %+v", parsed)
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	claims := map[string]any{"sub": "user-1", "exp": time.Now().Add(time.Hour).Unix()}
	token, err := SignHS256(claims, []byte("right"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := ParseAndVerifyHS256(token, []byte("wrong")); err == nil {
		t.Fatal("expected signature mismatch")
	}
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	secret := []byte("test-secret")
	claims := map[string]any{"sub": "user-1", "exp": time.Now().Add(-time.Minute).Unix()}
	token, err := SignHS256(claims, secret)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := ParseAndVerifyHS256(token, secret); err == nil {
		t.Fatal("expected expired token to be rejected")
	}
}

func TestVerifyRejectsMissingExpiry(t *testing.T) {
	secret := []byte("test-secret")
	token, err := SignHS256(map[string]any{"sub": "user-1"}, secret)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := ParseAndVerifyHS256(token, secret); err == nil {
		t.Fatal("expected token without exp to be rejected")
	}
}

func TestVerifyRejectsMalformedToken(t *testing.T) {
	if _, err := ParseAndVerifyHS256("not-a-token", []byte("s")); err == nil {
		t.Fatal("expected format error")
	}
}
