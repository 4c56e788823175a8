package wallet

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/JuanaSF/BilleteraVirtual/internal/currency"
	"github.com/JuanaSF/BilleteraVirtual/internal/ledger"
)

const statusActive = "active"

// Directory resolves user ids to email addresses for movement projections.
type Directory interface {
	EmailByUserID(ctx context.Context, userID string) (string, error)
}

// Service exposes wallet provisioning and the read-only query views backed by
// the ledger store.
type Service struct {
	repo      Repository
	store     ledger.Store
	directory Directory
}

// NewService builds a wallet service instance. The directory may be nil, in
// which case movements carry no counterparty email.
func NewService(repo Repository, store ledger.Store, directory Directory) *Service {
	return &Service{repo: repo, store: store, directory: directory}
}

// Create provisions a wallet with one ledger account per requested currency.
func (s *Service) Create(ctx context.Context, ownerID string, codes ...currency.Code) (Wallet, error) {
	if _, err := uuid.Parse(ownerID); err != nil {
		return Wallet{}, err
	}
	if len(codes) == 0 {
		codes = currency.Onboarding
	}

	wallet := Wallet{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		Status:    statusActive,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, wallet); err != nil {
		return Wallet{}, err
	}
	for _, code := range codes {
		if _, err := s.store.CreateAccount(ctx, wallet.ID, code); err != nil {
			return Wallet{}, err
		}
	}
	return wallet, nil
}

// Get retrieves wallet metadata.
func (s *Service) Get(ctx context.Context, id string) (Wallet, error) {
	return s.repo.Get(ctx, id)
}

// GetByOwner retrieves the wallet owned by the given user.
func (s *Service) GetByOwner(ctx context.Context, ownerID string) (Wallet, error) {
	return s.repo.GetByOwner(ctx, ownerID)
}

// WalletIDByOwner resolves a user id to its wallet id.
func (s *Service) WalletIDByOwner(ctx context.Context, ownerID string) (string, error) {
	wallet, err := s.repo.GetByOwner(ctx, ownerID)
	if err != nil {
		return "", err
	}
	return wallet.ID, nil
}

// Balance returns the maintained balance of one account.
func (s *Service) Balance(ctx context.Context, walletID string, code currency.Code) (Balance, error) {
	account, err := s.store.Account(ctx, walletID, code)
	if err != nil {
		return Balance{}, err
	}
	return Balance{
		WalletID: walletID,
		Currency: account.Currency,
		Amount:   account.Balance,
		AsOf:     time.Now().UTC(),
	}, nil
}

// Balances returns one entry per account owned by the wallet.
func (s *Service) Balances(ctx context.Context, walletID string) ([]Balance, error) {
	accounts, err := s.store.Accounts(ctx, walletID)
	if err != nil {
		return nil, err
	}
	asOf := time.Now().UTC()
	balances := make([]Balance, 0, len(accounts))
	for _, account := range accounts {
		balances = append(balances, Balance{
			WalletID: walletID,
			Currency: account.Currency,
			Amount:   account.Balance,
			AsOf:     asOf,
		})
	}
	return balances, nil
}

// Movements lists the wallet's ledger records in occurrence order, projected
// with the counterparty email. An empty code lists all currencies.
func (s *Service) Movements(ctx context.Context, walletID string, code currency.Code) ([]Movement, error) {
	records, err := s.store.Transactions(ctx, walletID, code)
	if err != nil {
		return nil, err
	}

	movements := make([]Movement, 0, len(records))
	for _, tx := range records {
		movement := Movement{
			TransactionID: tx.ID,
			Date:          tx.CreatedAt,
			Amount:        tx.Amount,
			Currency:      tx.Currency,
			Concept:       tx.Concept,
			Detail:        tx.Detail,
		}
		if tx.CounterpartyID != "" && s.directory != nil {
			if email, err := s.directory.EmailByUserID(ctx, tx.CounterpartyID); err == nil {
				movement.CounterpartyEmail = email
			}
		}
		movements = append(movements, movement)
	}
	return movements, nil
}
