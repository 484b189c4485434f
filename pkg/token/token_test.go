package token

import (
	"testing"
	"time"
)

func TestGenerateAndValidate(t *testing.T) {
	t.Parallel()

	secret := "supersecret"
	signed, err := Generate("123", "provider", secret, time.Hour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	claims, err := Validate(signed, secret)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claims.UserID != "123" {
		t.Fatalf("unexpected user id: %s", claims.UserID)
	}
	if claims.Role != "provider" {
		t.Fatalf("unexpected role: %s", claims.Role)
	}
}

func TestValidateWrongSecret(t *testing.T) {
	t.Parallel()

	signed, err := Generate("123", "provider", "supersecret", time.Hour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := Validate(signed, "wrongsecret"); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestValidateExpired(t *testing.T) {
	t.Parallel()

	signed, err := Generate("123", "provider", "supersecret", -time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := Validate(signed, "supersecret"); err == nil {
		t.Fatal("expected expiry error")
	}
}
