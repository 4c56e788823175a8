package wallet

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/JuanaSF/BilleteraVirtual/internal/currency"
)

// Wallet is the per-user container of currency accounts. The accounts
// themselves live in the ledger store, keyed by wallet id.
type Wallet struct {
	ID        string
	OwnerID   string
	Status    string
	CreatedAt time.Time
}

// Balance is the current funds of one account, read directly from the
// maintained balance rather than replayed from the ledger.
type Balance struct {
	WalletID string
	Currency currency.Code
	Amount   decimal.Decimal
	AsOf     time.Time
}

// Movement projects a ledger transaction for display, with the counterparty
// resolved to an email address where one exists.
type Movement struct {
	TransactionID     string
	Date              time.Time
	Amount            decimal.Decimal
	Currency          currency.Code
	Concept           string
	Detail            string
	CounterpartyEmail string
}
