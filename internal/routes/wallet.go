package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/JuanaSF/BilleteraVirtual/internal/wallet"
)

// RegisterWalletRoutes wires balance and movement queries. All of them
// require the caller to own the wallet named in the path.
func RegisterWalletRoutes(r fiber.Router, h *wallet.Handler) {
	r.Get("/wallet", h.Me)
	r.Get("/wallets/:walletId/balances", h.Balances)
	r.Get("/wallets/:walletId/balances/:currency", h.Balance)
	r.Get("/wallets/:walletId/movements", h.Movements)
	r.Get("/wallets/:walletId/movements/:currency", h.Movements)
}
