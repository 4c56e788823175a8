package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/JuanaSF/BilleteraVirtual/internal/config"
)

func newTestTokens(ttl time.Duration) *Service {
	return NewService(config.Config{
		AppName:        "BilleteraVirtual",
		JWTSecret:      "test-secret",
		AccessTokenTTL: ttl,
	})
}

func TestIssueAndVerifyRoundTrip(t *testing.T) {
	svc := newTestTokens(time.Hour)

	token, err := svc.Issue("user-1", "ana@example.com")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if token.ExpiresIn != 3600 {
		t.Fatalf("expected expires_in 3600, got %d", token.ExpiresIn)
	}

	sub, err := svc.Verify(token.Value)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if sub != "user-1" {
		t.Fatalf("expected subject user-1, got %s", sub)
	}
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	svc := newTestTokens(-time.Minute)

	token, err := svc.Issue("user-1", "ana@example.com")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := svc.Verify(token.Value); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestVerifyRejectsForeignSignature(t *testing.T) {
	svc := newTestTokens(time.Hour)
	other := NewService(config.Config{AppName: "BilleteraVirtual", JWTSecret: "other-secret", AccessTokenTTL: time.Hour})

	token, err := other.Issue("user-1", "ana@example.com")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := svc.Verify(token.Value); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestAuthorize(t *testing.T) {
	if !Authorize("u1", "u1") {
		t.Fatal("owner must be authorized")
	}
	if Authorize("u1", "u2") {
		t.Fatal("non-owner must be denied")
	}
	if Authorize("", "") {
		t.Fatal("anonymous caller must be denied")
	}
}
