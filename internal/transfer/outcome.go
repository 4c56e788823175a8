package transfer

import (
	"errors"

	"github.com/JuanaSF/BilleteraVirtual/internal/ledger"
)

// ErrRecipientNotFound indicates the recipient email does not resolve to a
// user with an account in the requested currency.
var ErrRecipientNotFound = errors.New("recipient not found")

// Outcome is the caller-facing result code of a funds movement. The codes
// follow the ledger's Spanish vocabulary.
type Outcome string

const (
	OutcomeStarted           Outcome = "INICIADA"
	OutcomeInvalidAmount     Outcome = "MONTO_INVALIDO"
	OutcomeInsufficientFunds Outcome = "SALDO_INSUFICIENTE"
	OutcomeUnknownRecipient  Outcome = "DESTINATARIO_INEXISTENTE"
	OutcomeAccountNotFound   Outcome = "CUENTA_INEXISTENTE"
	OutcomeCurrencyMismatch  Outcome = "MONEDA_INCORRECTA"
	OutcomeSystemError       Outcome = "ERROR_DE_SISTEMA"
)

// OutcomeFor maps an engine error to its result code. A nil error maps to
// OutcomeStarted.
func OutcomeFor(err error) Outcome {
	switch {
	case err == nil:
		return OutcomeStarted
	case errors.Is(err, ledger.ErrInvalidAmount):
		return OutcomeInvalidAmount
	case errors.Is(err, ledger.ErrInsufficientFunds):
		return OutcomeInsufficientFunds
	case errors.Is(err, ErrRecipientNotFound):
		return OutcomeUnknownRecipient
	case errors.Is(err, ledger.ErrAccountNotFound), errors.Is(err, ledger.ErrWalletNotFound):
		return OutcomeAccountNotFound
	case errors.Is(err, ledger.ErrCurrencyMismatch):
		return OutcomeCurrencyMismatch
	default:
		return OutcomeSystemError
	}
}
