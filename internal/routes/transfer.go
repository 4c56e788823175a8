package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/JuanaSF/BilleteraVirtual/internal/transfer"
)

// RegisterTransferRoutes wires the money-moving endpoints. When an
// idempotency handler is supplied (Redis available) it shields both routes
// from duplicate submissions.
func RegisterTransferRoutes(r fiber.Router, h *transfer.Handler, idem fiber.Handler) {
	if idem != nil {
		r.Post("/wallets/:walletId/topups", idem, h.TopUp)
		r.Post("/wallets/:walletId/transfers", idem, h.Send)
		return
	}
	r.Post("/wallets/:walletId/topups", h.TopUp)
	r.Post("/wallets/:walletId/transfers", h.Send)
}
