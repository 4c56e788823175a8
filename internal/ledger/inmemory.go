package ledger

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/JuanaSF/BilleteraVirtual/internal/currency"
)

type inMemoryStore struct {
	mu       sync.RWMutex
	accounts map[string]map[currency.Code]*Account
	entries  []Transaction
}

// NewInMemory creates a concurrency-safe in-memory ledger store. Every mutator
// runs under one lock, so the balance change and its record are observed
// together or not at all.
func NewInMemory() Store {
	return &inMemoryStore{accounts: make(map[string]map[currency.Code]*Account)}
}

func (s *inMemoryStore) CreateAccount(_ context.Context, walletID string, code currency.Code) (Account, error) {
	if !currency.Valid(code) {
		return Account{}, ErrInvalidCurrency
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	byCurrency, ok := s.accounts[walletID]
	if !ok {
		byCurrency = make(map[currency.Code]*Account)
		s.accounts[walletID] = byCurrency
	}
	if _, exists := byCurrency[code]; exists {
		return Account{}, ErrAccountExists
	}

	account := &Account{
		ID:        uuid.NewString(),
		WalletID:  walletID,
		Currency:  code,
		Balance:   decimal.Zero,
		CreatedAt: time.Now().UTC(),
	}
	byCurrency[code] = account
	return *account, nil
}

func (s *inMemoryStore) Account(_ context.Context, walletID string, code currency.Code) (Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	account, err := s.locate(walletID, code)
	if err != nil {
		return Account{}, err
	}
	return *account, nil
}

func (s *inMemoryStore) Accounts(_ context.Context, walletID string) ([]Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	byCurrency, ok := s.accounts[walletID]
	if !ok {
		return nil, ErrWalletNotFound
	}

	accounts := make([]Account, 0, len(byCurrency))
	for _, account := range byCurrency {
		accounts = append(accounts, *account)
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].Currency < accounts[j].Currency })
	return accounts, nil
}

func (s *inMemoryStore) Credit(_ context.Context, input CreditInput) (Transaction, error) {
	if !input.Amount.IsPositive() {
		return Transaction{}, ErrInvalidAmount
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	account, err := s.locate(input.WalletID, input.Currency)
	if err != nil {
		return Transaction{}, err
	}

	account.Balance = account.Balance.Add(input.Amount)

	concept := input.Concept
	if concept == "" {
		concept = ConceptTopUp
	}
	tx := s.append(account, input.Amount, concept, input.Detail, input.CounterpartyID)
	return tx, nil
}

func (s *inMemoryStore) Transfer(_ context.Context, input TransferInput) (TransferResult, error) {
	if !input.Amount.IsPositive() {
		return TransferResult{}, ErrInvalidAmount
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	from, err := s.locate(input.FromWalletID, input.Currency)
	if err != nil {
		return TransferResult{}, err
	}
	to, err := s.locate(input.ToWalletID, input.Currency)
	if err != nil {
		return TransferResult{}, err
	}
	if from.Currency != to.Currency {
		return TransferResult{}, ErrCurrencyMismatch
	}
	if from.Balance.LessThan(input.Amount) {
		return TransferResult{}, ErrInsufficientFunds
	}

	from.Balance = from.Balance.Sub(input.Amount)
	to.Balance = to.Balance.Add(input.Amount)

	debit := s.append(from, input.Amount.Neg(), ConceptSend, input.Detail, input.ToUserID)
	credit := s.append(to, input.Amount, ConceptReceive, input.Detail, input.FromUserID)

	return TransferResult{
		Debit:       debit,
		Credit:      credit,
		FromBalance: from.Balance,
		ToBalance:   to.Balance,
	}, nil
}

func (s *inMemoryStore) Transactions(_ context.Context, walletID string, code currency.Code) ([]Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.accounts[walletID]; !ok {
		return nil, ErrWalletNotFound
	}

	var out []Transaction
	for _, tx := range s.entries {
		if tx.WalletID != walletID {
			continue
		}
		if code != "" && tx.Currency != code {
			continue
		}
		out = append(out, tx)
	}
	return out, nil
}

// locate expects the caller to hold the lock.
func (s *inMemoryStore) locate(walletID string, code currency.Code) (*Account, error) {
	byCurrency, ok := s.accounts[walletID]
	if !ok {
		return nil, ErrWalletNotFound
	}
	account, ok := byCurrency[code]
	if !ok {
		return nil, ErrAccountNotFound
	}
	return account, nil
}

// append expects the caller to hold the lock.
func (s *inMemoryStore) append(account *Account, amount decimal.Decimal, concept, detail, counterpartyID string) Transaction {
	tx := Transaction{
		ID:             uuid.NewString(),
		AccountID:      account.ID,
		WalletID:       account.WalletID,
		Amount:         amount,
		Currency:       account.Currency,
		Concept:        concept,
		Detail:         detail,
		CounterpartyID: counterpartyID,
		Status:         StatusStarted,
		CreatedAt:      time.Now().UTC(),
	}
	s.entries = append(s.entries, tx)
	return tx
}
