package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/JuanaSF/BilleteraVirtual/internal/currency"
)

// SeedBalance is a test helper that sets an account balance directly when
// using the in-memory store, bypassing the ledger so no record is appended.
func SeedBalance(s Store, walletID string, code currency.Code, amount decimal.Decimal) {
	mem, ok := s.(*inMemoryStore)
	if !ok {
		return
	}
	mem.mu.Lock()
	defer mem.mu.Unlock()
	if account, err := mem.locate(walletID, code); err == nil {
		account.Balance = amount
	}
}
