package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/JuanaSF/BilleteraVirtual/internal/identity"
)

// RegisterIdentityRoutes wires user registration. Registering a user also
// provisions their wallet with one account per onboarding currency.
func RegisterIdentityRoutes(r fiber.Router, h *identity.Handler) {
	r.Post("/users", h.Register)
}
