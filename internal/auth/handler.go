package auth

import (
	"context"
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// Principal identifies an authenticated user.
type Principal struct {
	ID    string
	Email string
}

// Authenticator verifies login credentials. The identity service satisfies it
// through an adapter in the wiring layer, keeping this package free of
// identity imports.
type Authenticator interface {
	Authenticate(ctx context.Context, email, password string) (Principal, error)
}

// Handler exposes the login endpoint.
type Handler struct {
	users Authenticator
	svc   *Service
}

// NewHandler builds the auth handler.
func NewHandler(users Authenticator, svc *Service) *Handler {
	return &Handler{users: users, svc: svc}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	UserID      string `json:"user_id"`
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}

// Login validates credentials and returns an access token.
func (h *Handler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	user, err := h.users.Authenticate(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return fiber.NewError(http.StatusUnauthorized, "invalid credentials")
	}
	token, err := h.svc.Issue(user.ID, user.Email)
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	return c.Status(http.StatusOK).JSON(loginResponse{
		UserID:      user.ID,
		AccessToken: token.Value,
		ExpiresIn:   token.ExpiresIn,
	})
}
