package auth

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/JuanaSF/BilleteraVirtual/internal/config"
)

type stubAuthenticator struct {
	principal Principal
	err       error
}

func (s stubAuthenticator) Authenticate(_ context.Context, _, _ string) (Principal, error) {
	return s.principal, s.err
}

func newLoginApp(users Authenticator) *fiber.App {
	tokens := NewService(config.Config{AppName: "BilleteraVirtual", JWTSecret: "test-secret", AccessTokenTTL: time.Hour})
	app := fiber.New()
	app.Post("/login", NewHandler(users, tokens).Login)
	return app
}

func TestLoginIssuesToken(t *testing.T) {
	app := newLoginApp(stubAuthenticator{principal: Principal{ID: "user-1", Email: "ana@example.com"}})

	req := httptest.NewRequest(fiber.MethodPost, "/login", strings.NewReader(`{"email":"ana@example.com","password":"secreta123"}`))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	resp.Body.Close()

	var out struct {
		UserID      string `json:"user_id"`
		AccessToken string `json:"access_token"`
		ExpiresIn   int64  `json:"expires_in"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if out.UserID != "user-1" || out.AccessToken == "" || out.ExpiresIn != 3600 {
		t.Fatalf("unexpected login response: %+v", out)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	app := newLoginApp(stubAuthenticator{err: errors.New("invalid password")})

	req := httptest.NewRequest(fiber.MethodPost, "/login", strings.NewReader(`{"email":"ana@example.com","password":"equivocada"}`))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}
