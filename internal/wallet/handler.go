package wallet

import (
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/JuanaSF/BilleteraVirtual/internal/auth"
	"github.com/JuanaSF/BilleteraVirtual/internal/currency"
	"github.com/JuanaSF/BilleteraVirtual/internal/ledger"
)

// Handler exposes wallet query endpoints.
type Handler struct {
	service *Service
}

// NewHandler builds a wallet HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type balanceResponse struct {
	Currency string `json:"currency"`
	Amount   string `json:"amount"`
}

type movementResponse struct {
	TransactionID     string `json:"transaction_id"`
	Date              string `json:"date"`
	Amount            string `json:"amount"`
	Currency          string `json:"currency"`
	Concept           string `json:"concept"`
	Detail            string `json:"detail"`
	CounterpartyEmail string `json:"counterparty_email,omitempty"`
}

// Balance returns the balance of one account.
func (h *Handler) Balance(c *fiber.Ctx) error {
	w, err := h.authorize(c)
	if err != nil {
		return err
	}
	code, err := currency.Parse(c.Params("currency"))
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	balance, err := h.service.Balance(c.UserContext(), w.ID, code)
	if err != nil {
		return mapLookupError(err)
	}
	return c.Status(http.StatusOK).JSON(balanceResponse{
		Currency: balance.Currency.String(),
		Amount:   balance.Amount.String(),
	})
}

// Balances returns one entry per account owned by the wallet.
func (h *Handler) Balances(c *fiber.Ctx) error {
	w, err := h.authorize(c)
	if err != nil {
		return err
	}

	balances, err := h.service.Balances(c.UserContext(), w.ID)
	if err != nil {
		return mapLookupError(err)
	}
	out := make([]balanceResponse, 0, len(balances))
	for _, balance := range balances {
		out = append(out, balanceResponse{Currency: balance.Currency.String(), Amount: balance.Amount.String()})
	}
	return c.Status(http.StatusOK).JSON(out)
}

// Movements lists the wallet's transactions, optionally filtered by currency.
func (h *Handler) Movements(c *fiber.Ctx) error {
	w, err := h.authorize(c)
	if err != nil {
		return err
	}

	var code currency.Code
	if raw := c.Params("currency"); raw != "" {
		code, err = currency.Parse(raw)
		if err != nil {
			return fiber.NewError(http.StatusBadRequest, err.Error())
		}
	}

	movements, err := h.service.Movements(c.UserContext(), w.ID, code)
	if err != nil {
		return mapLookupError(err)
	}
	out := make([]movementResponse, 0, len(movements))
	for _, m := range movements {
		out = append(out, movementResponse{
			TransactionID:     m.TransactionID,
			Date:              m.Date.Format(time.RFC3339Nano),
			Amount:            m.Amount.String(),
			Currency:          m.Currency.String(),
			Concept:           m.Concept,
			Detail:            m.Detail,
			CounterpartyEmail: m.CounterpartyEmail,
		})
	}
	return c.Status(http.StatusOK).JSON(out)
}

// Me returns the caller's own wallet with its balances.
func (h *Handler) Me(c *fiber.Ctx) error {
	uid, _ := c.Locals("user_id").(string)
	if uid == "" {
		return fiber.NewError(http.StatusUnauthorized, "unauthorized")
	}
	w, err := h.service.GetByOwner(c.UserContext(), uid)
	if err != nil {
		return fiber.NewError(http.StatusNotFound, "wallet not found")
	}
	balances, err := h.service.Balances(c.UserContext(), w.ID)
	if err != nil {
		return mapLookupError(err)
	}
	out := make([]balanceResponse, 0, len(balances))
	for _, balance := range balances {
		out = append(out, balanceResponse{Currency: balance.Currency.String(), Amount: balance.Amount.String()})
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"id":         w.ID,
		"status":     w.Status,
		"created_at": w.CreatedAt,
		"balances":   out,
	})
}

// authorize loads the wallet from the path and verifies the caller owns it.
func (h *Handler) authorize(c *fiber.Ctx) (Wallet, error) {
	uid, _ := c.Locals("user_id").(string)
	w, err := h.service.Get(c.UserContext(), c.Params("walletId"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Wallet{}, fiber.NewError(http.StatusNotFound, "wallet not found")
		}
		return Wallet{}, fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	if !auth.Authorize(uid, w.OwnerID) {
		return Wallet{}, fiber.NewError(http.StatusForbidden, "wallet does not belong to caller")
	}
	return w, nil
}

func mapLookupError(err error) error {
	switch {
	case errors.Is(err, ledger.ErrWalletNotFound):
		return fiber.NewError(http.StatusNotFound, "wallet not found")
	case errors.Is(err, ledger.ErrAccountNotFound):
		return fiber.NewError(http.StatusNotFound, "account not found")
	default:
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
}
