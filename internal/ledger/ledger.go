package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/JuanaSF/BilleteraVirtual/internal/currency"
)

var (
	// ErrWalletNotFound indicates the wallet id has no accounts at all.
	ErrWalletNotFound = errors.New("wallet not found")

	// ErrAccountNotFound indicates the wallet holds no account in the
	// requested currency.
	ErrAccountNotFound = errors.New("account not found")

	// ErrAccountExists indicates the wallet already holds an account in the
	// requested currency.
	ErrAccountExists = errors.New("account already exists for currency")

	// ErrInsufficientFunds occurs when a debit would drive a balance negative.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrInvalidAmount indicates a non-positive amount.
	ErrInvalidAmount = errors.New("amount must be positive")

	// ErrInvalidCurrency indicates a currency code outside the registry.
	ErrInvalidCurrency = errors.New("unknown currency")

	// ErrCurrencyMismatch indicates the two legs of a transfer would touch
	// accounts of different currencies.
	ErrCurrencyMismatch = errors.New("currency mismatch")
)

// Operation concepts recorded on transactions. Credit accepts arbitrary
// concepts (the onboarding gift uses "regalo"); these are the common ones.
const (
	ConceptTopUp   = "recarga"
	ConceptSend    = "envio"
	ConceptReceive = "recibo"
)

// StatusStarted is the terminal status of an accepted transaction. Rejected
// operations never reach the ledger, so no other status is persisted.
const StatusStarted = "INICIADA"

// Account is a single-currency balance inside a wallet. Balances are mutated
// only through Credit and Transfer and never go negative.
type Account struct {
	ID        string
	WalletID  string
	Currency  currency.Code
	Balance   decimal.Decimal
	CreatedAt time.Time
}

// Transaction is an immutable record of one balance-affecting event. Amount is
// signed: positive for credits (recarga, recibo), negative for debits (envio).
// CounterpartyID carries the other user's id on transfer legs and is empty for
// top-ups.
type Transaction struct {
	ID             string
	AccountID      string
	WalletID       string
	Amount         decimal.Decimal
	Currency       currency.Code
	Concept        string
	Detail         string
	CounterpartyID string
	Status         string
	CreatedAt      time.Time
}

// CreditInput describes a unilateral credit.
type CreditInput struct {
	WalletID       string
	Currency       currency.Code
	Amount         decimal.Decimal
	Concept        string
	Detail         string
	CounterpartyID string
}

// TransferInput describes a two-leg funds movement between wallets.
type TransferInput struct {
	FromWalletID string
	FromUserID   string
	ToWalletID   string
	ToUserID     string
	Currency     currency.Code
	Amount       decimal.Decimal
	Detail       string
}

// TransferResult reports both appended legs and the post-transfer balances.
type TransferResult struct {
	Debit       Transaction
	Credit      Transaction
	FromBalance decimal.Decimal
	ToBalance   decimal.Decimal
}

// Store is the ledger contract implemented by the in-memory and Postgres
// backends. Credit and Transfer each execute as one atomic unit: the balance
// mutation and its transaction record(s) are committed together or not at all,
// and the sufficiency check happens inside the same unit.
type Store interface {
	CreateAccount(ctx context.Context, walletID string, code currency.Code) (Account, error)
	Account(ctx context.Context, walletID string, code currency.Code) (Account, error)
	Accounts(ctx context.Context, walletID string) ([]Account, error)
	Credit(ctx context.Context, input CreditInput) (Transaction, error)
	Transfer(ctx context.Context, input TransferInput) (TransferResult, error)
	// Transactions returns the wallet's records in ascending append order,
	// which is also non-decreasing in CreatedAt. An empty code returns all
	// currencies.
	Transactions(ctx context.Context, walletID string, code currency.Code) ([]Transaction, error)
}
