package transfer

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/JuanaSF/BilleteraVirtual/internal/auth"
	"github.com/JuanaSF/BilleteraVirtual/internal/currency"
	"github.com/JuanaSF/BilleteraVirtual/internal/wallet"
)

// Handler exposes the funds-movement endpoints.
type Handler struct {
	engine  *Engine
	wallets *wallet.Service
}

// NewHandler constructs a transfer handler.
func NewHandler(engine *Engine, wallets *wallet.Service) *Handler {
	return &Handler{engine: engine, wallets: wallets}
}

type topUpRequest struct {
	Currency string          `json:"currency"`
	Amount   decimal.Decimal `json:"amount"`
	Detail   string          `json:"detail"`
}

type sendRequest struct {
	Currency       string          `json:"currency"`
	Amount         decimal.Decimal `json:"amount"`
	RecipientEmail string          `json:"recipient_email"`
	Reason         string          `json:"reason"`
	Detail         string          `json:"detail"`
}

type operationResponse struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
	Outcome string `json:"outcome"`
}

// TopUp credits the caller's wallet account.
func (h *Handler) TopUp(c *fiber.Ctx) error {
	walletID, err := h.authorize(c)
	if err != nil {
		return err
	}
	var req topUpRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	code, err := currency.Parse(req.Currency)
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	if _, err := h.engine.TopUp(c.UserContext(), TopUpInput{
		WalletID: walletID,
		Currency: code,
		Amount:   req.Amount,
		Detail:   req.Detail,
	}); err != nil {
		return rejected(c, err)
	}
	return c.Status(http.StatusOK).JSON(operationResponse{
		OK:      true,
		Message: "Cargaste saldo exitosamente",
		Outcome: string(OutcomeStarted),
	})
}

// Send moves funds to the wallet of the user addressed by email.
func (h *Handler) Send(c *fiber.Ctx) error {
	walletID, err := h.authorize(c)
	if err != nil {
		return err
	}
	var req sendRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	code, err := currency.Parse(req.Currency)
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	uid, _ := c.Locals("user_id").(string)
	if _, err := h.engine.Send(c.UserContext(), SendInput{
		FromWalletID:   walletID,
		FromUserID:     uid,
		Currency:       code,
		Amount:         req.Amount,
		RecipientEmail: req.RecipientEmail,
		Reason:         req.Reason,
		Detail:         req.Detail,
	}); err != nil {
		return rejected(c, err)
	}
	return c.Status(http.StatusOK).JSON(operationResponse{
		OK:      true,
		Message: "Se envio el saldo exitosamente",
		Outcome: string(OutcomeStarted),
	})
}

// authorize verifies the caller owns the wallet in the path.
func (h *Handler) authorize(c *fiber.Ctx) (string, error) {
	uid, _ := c.Locals("user_id").(string)
	w, err := h.wallets.Get(c.UserContext(), c.Params("walletId"))
	if err != nil {
		if errors.Is(err, wallet.ErrNotFound) {
			return "", fiber.NewError(http.StatusNotFound, "wallet not found")
		}
		return "", fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	if !auth.Authorize(uid, w.OwnerID) {
		return "", fiber.NewError(http.StatusForbidden, "wallet does not belong to caller")
	}
	return w.ID, nil
}

// rejected answers a validation failure with its outcome code. Storage errors
// stay opaque.
func rejected(c *fiber.Ctx, err error) error {
	outcome := OutcomeFor(err)
	status := http.StatusBadRequest
	if outcome == OutcomeSystemError {
		status = http.StatusInternalServerError
	}
	return c.Status(status).JSON(operationResponse{
		OK:      false,
		Message: fmt.Sprintf("Hubo un error al realizar la operacion: %s", outcome),
		Outcome: string(outcome),
	})
}
