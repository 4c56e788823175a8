package identity

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/JuanaSF/BilleteraVirtual/internal/currency"
	"github.com/JuanaSF/BilleteraVirtual/internal/ledger"
	"github.com/JuanaSF/BilleteraVirtual/internal/wallet"
)

// Welcome gift credited to every new wallet, in ARS.
var welcomeGift = decimal.NewFromInt(500)

const (
	welcomeConcept = "regalo"
	welcomeDetail  = "Bienvenida por creacion de usuario"
)

// Service manages the user lifecycle. Registration provisions the user's
// wallet with one account per onboarding currency and credits the welcome
// gift through the ledger.
type Service struct {
	repo    Repository
	wallets *wallet.Service
	store   ledger.Store
}

// NewService creates a new identity service.
func NewService(repo Repository, wallets *wallet.Service, store ledger.Store) *Service {
	return &Service{repo: repo, wallets: wallets, store: store}
}

// RegisterInput captures data required to create a user.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// Registration reports the created user and wallet.
type Registration struct {
	User     User
	WalletID string
}

// Register creates a user, provisions the wallet and credits the welcome gift.
func (s *Service) Register(ctx context.Context, input RegisterInput) (Registration, error) {
	email := normalizeEmail(input.Email)
	if email == "" || !strings.Contains(email, "@") {
		return Registration{}, errors.New("a valid email is required")
	}
	if len(input.Password) < 8 {
		return Registration{}, errors.New("password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return Registration{}, err
	}

	user := User{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(input.Name),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return Registration{}, err
	}

	w, err := s.wallets.Create(ctx, user.ID, currency.Onboarding...)
	if err != nil {
		// Roll the user back so the email can register again. A wallet row
		// left behind is unreachable without its user.
		_ = s.repo.Delete(ctx, user.ID)
		return Registration{}, err
	}

	if _, err := s.store.Credit(ctx, ledger.CreditInput{
		WalletID: w.ID,
		Currency: currency.ARS,
		Amount:   welcomeGift,
		Concept:  welcomeConcept,
		Detail:   welcomeDetail,
	}); err != nil {
		_ = s.repo.Delete(ctx, user.ID)
		return Registration{}, err
	}

	return Registration{User: user, WalletID: w.ID}, nil
}

// Authenticate verifies email and password.
func (s *Service) Authenticate(ctx context.Context, email, password string) (User, error) {
	user, err := s.repo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return User{}, err
	}
	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return User{}, errors.New("invalid password")
	}
	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
