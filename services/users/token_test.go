package users

import (
	"errors"
	"testing"
	"time"

	"mediashelf/models"
)

func TestTokenRoundTrip(t *testing.T) {
	tokens := NewTokenService("test-secret", "mediashelf", time.Hour)
	user := models.User{ID: "user-1", Name: "Ana", Email: "ana@example.com"}

	raw, err := tokens.Sign(user)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	claims, err := tokens.Parse(raw)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if claims.Subject != "user-1" {
		t.Errorf("Subject = %q", claims.Subject)
	}
	if claims.Email != "ana@example.com" {
		t.Errorf("Email = %q", claims.Email)
	}
}

func TestTokenRejectsWrongSecret(t *testing.T) {
	issuer := NewTokenService("secret-a", "mediashelf", time.Hour)
	verifier := NewTokenService("secret-b", "mediashelf", time.Hour)

	raw, err := issuer.Sign(models.User{ID: "user-1"})
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if _, err := verifier.Parse(raw); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Parse error = %v, want ErrInvalidToken", err)
	}
}

func TestTokenRejectsExpired(t *testing.T) {
	tokens := NewTokenService("test-secret", "mediashelf", -time.Minute)

	raw, err := tokens.Sign(models.User{ID: "user-1"})
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if _, err := tokens.Parse(raw); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Parse error = %v, want ErrInvalidToken", err)
	}
}

func TestTokenRejectsGarbage(t *testing.T) {
	tokens := NewTokenService("test-secret", "mediashelf", time.Hour)
	for _, raw := range []string{"", "   ", "not.a.token"} {
		if _, err := tokens.Parse(raw); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("Parse(%q) error = %v, want ErrInvalidToken", raw, err)
		}
	}
}
