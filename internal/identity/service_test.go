package identity

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/JuanaSF/BilleteraVirtual/internal/currency"
	"github.com/JuanaSF/BilleteraVirtual/internal/ledger"
	"github.com/JuanaSF/BilleteraVirtual/internal/wallet"
)

func newTestService() (*Service, ledger.Store) {
	store := ledger.NewInMemory()
	repo := NewMemoryRepository()
	wallets := wallet.NewService(wallet.NewMemoryRepository(), store, Directory{Repo: repo})
	return NewService(repo, wallets, store), store
}

func TestRegisterProvisionsWalletWithWelcomeGift(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()

	reg, err := svc.Register(ctx, RegisterInput{Name: "Ana", Email: "Ana@Example.com", Password: "secreta123"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if reg.User.Email != "ana@example.com" {
		t.Fatalf("expected normalized email, got %q", reg.User.Email)
	}
	if reg.WalletID == "" {
		t.Fatal("expected wallet id")
	}

	ars, err := store.Account(ctx, reg.WalletID, currency.ARS)
	if err != nil {
		t.Fatalf("ars account: %v", err)
	}
	if !ars.Balance.Equal(welcomeGift) {
		t.Fatalf("expected welcome gift %s, got %s", welcomeGift, ars.Balance)
	}

	usd, err := store.Account(ctx, reg.WalletID, currency.USD)
	if err != nil {
		t.Fatalf("usd account: %v", err)
	}
	if !usd.Balance.Equal(decimal.Zero) {
		t.Fatalf("expected empty USD account, got %s", usd.Balance)
	}

	records, err := store.Transactions(ctx, reg.WalletID, "")
	if err != nil {
		t.Fatalf("transactions: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected one welcome record, got %d", len(records))
	}
	if records[0].Concept != welcomeConcept || records[0].Detail != welcomeDetail {
		t.Fatalf("unexpected welcome record: %+v", records[0])
	}
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, RegisterInput{Name: "Ana", Email: "ana@example.com", Password: "secreta123"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	_, err := svc.Register(ctx, RegisterInput{Name: "Otra", Email: "ANA@example.com", Password: "secreta123"})
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestRegisterValidatesInput(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, RegisterInput{Name: "Ana", Email: "sin-arroba", Password: "secreta123"}); err == nil {
		t.Fatal("expected error for malformed email")
	}
	if _, err := svc.Register(ctx, RegisterInput{Name: "Ana", Email: "ana@example.com", Password: "corta"}); err == nil {
		t.Fatal("expected error for short password")
	}
}

type failingCreditStore struct {
	ledger.Store
}

func (failingCreditStore) Credit(context.Context, ledger.CreditInput) (ledger.Transaction, error) {
	return ledger.Transaction{}, errors.New("storage down")
}

func TestRegisterRollsBackUserWhenWelcomeCreditFails(t *testing.T) {
	store := failingCreditStore{ledger.NewInMemory()}
	repo := NewMemoryRepository()
	wallets := wallet.NewService(wallet.NewMemoryRepository(), store, Directory{Repo: repo})
	svc := NewService(repo, wallets, store)
	ctx := context.Background()

	input := RegisterInput{Name: "Ana", Email: "ana@example.com", Password: "secreta123"}
	if _, err := svc.Register(ctx, input); err == nil {
		t.Fatal("expected registration to fail")
	}
	if _, err := repo.FindByEmail(ctx, "ana@example.com"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("user not rolled back: %v", err)
	}

	// The same email registers cleanly once the store recovers.
	healthy := ledger.NewInMemory()
	retry := NewService(repo, wallet.NewService(wallet.NewMemoryRepository(), healthy, Directory{Repo: repo}), healthy)
	if _, err := retry.Register(ctx, input); err != nil {
		t.Fatalf("re-register after rollback: %v", err)
	}
}

func TestAuthenticate(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	reg, err := svc.Register(ctx, RegisterInput{Name: "Ana", Email: "ana@example.com", Password: "secreta123"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	user, err := svc.Authenticate(ctx, "ANA@example.com ", "secreta123")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if user.ID != reg.User.ID {
		t.Fatalf("expected user %s, got %s", reg.User.ID, user.ID)
	}

	if _, err := svc.Authenticate(ctx, "ana@example.com", "equivocada"); err == nil {
		t.Fatal("expected error for wrong password")
	}
	if _, err := svc.Authenticate(ctx, "nadie@example.com", "secreta123"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
