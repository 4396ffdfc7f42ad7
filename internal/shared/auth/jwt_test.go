package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestSignAndVerify(t *testing.T) {
	tokens, err := NewTokens("dev", "")
	if err != nil {
		t.Fatalf("new tokens: %v", err)
	}

	token, err := tokens.Sign(Principal{ID: 42, Email: "a@example.com", Roles: []string{"EMPLOYER"}}, time.Hour)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	p, err := tokens.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if p.ID != 42 || p.Email != "a@example.com" || len(p.Roles) != 1 || p.Roles[0] != "EMPLOYER" {
		t.Fatalf("unexpected principal %+v", p)
	}
}

func TestVerifyRejects(t *testing.T) {
	tokens, _ := NewTokens("dev", "secret-a")
	other, _ := NewTokens("dev", "secret-b")

	foreign, err := other.Sign(Principal{ID: 1}, time.Hour)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	expiredIssuer, _ := NewTokens("dev", "secret-a")
	expiredIssuer.now = func() time.Time { return time.Now().Add(-48 * time.Hour) }
	expired, err := expiredIssuer.Sign(Principal{ID: 1}, time.Hour)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	nonNumeric, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "alice"}).SignedString([]byte("secret-a"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	tests := []struct {
		name  string
		token string
	}{
		{name: "garbage", token: "not-a-token"},
		{name: "wrong secret", token: foreign},
		{name: "expired", token: expired},
		{name: "non numeric subject", token: nonNumeric},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tokens.Verify(tt.token); !errors.Is(err, ErrInvalidToken) {
				t.Fatalf("expected ErrInvalidToken, got %v", err)
			}
		})
	}
}

func TestProductionRequiresSecret(t *testing.T) {
	if _, err := NewTokens("production", ""); err == nil {
		t.Fatalf("expected error for missing secret")
	}
	if _, err := NewTokens("prod", "dev-secret"); err == nil {
		t.Fatalf("expected error for default secret")
	}
	if _, err := NewTokens("production", "s3cr3t"); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
}
