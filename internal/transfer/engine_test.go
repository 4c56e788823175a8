package transfer

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/JuanaSF/BilleteraVirtual/internal/currency"
	"github.com/JuanaSF/BilleteraVirtual/internal/identity"
	"github.com/JuanaSF/BilleteraVirtual/internal/ledger"
	"github.com/JuanaSF/BilleteraVirtual/internal/notification"
	"github.com/JuanaSF/BilleteraVirtual/internal/wallet"
)

type testNotifier struct {
	last notification.Message
}

func (n *testNotifier) Send(_ context.Context, msg notification.Message) error {
	n.last = msg
	return nil
}

type fixture struct {
	store    ledger.Store
	wallets  *wallet.Service
	ids      *identity.Service
	engine   *Engine
	notifier *testNotifier
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := ledger.NewInMemory()
	idRepo := identity.NewMemoryRepository()
	directory := identity.Directory{Repo: idRepo}
	wallets := wallet.NewService(wallet.NewMemoryRepository(), store, directory)
	ids := identity.NewService(idRepo, wallets, store)
	notifier := &testNotifier{}
	engine := NewEngine(store, wallets, directory, notifier)
	return &fixture{store: store, wallets: wallets, ids: ids, engine: engine, notifier: notifier}
}

func (f *fixture) register(t *testing.T, email string) identity.Registration {
	t.Helper()
	reg, err := f.ids.Register(context.Background(), identity.RegisterInput{
		Name:     "Test User",
		Email:    email,
		Password: "secreto123",
	})
	if err != nil {
		t.Fatalf("register %s: %v", email, err)
	}
	return reg
}

func TestTopUpCreditsBalanceAndRecordsOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	reg := f.register(t, "ana@example.com")

	// USD starts at 0, so the credited amount is observable without the welcome gift.
	if _, err := f.engine.TopUp(ctx, TopUpInput{
		WalletID: reg.WalletID,
		Currency: currency.USD,
		Amount:   decimal.NewFromInt(500),
	}); err != nil {
		t.Fatalf("top-up failed: %v", err)
	}

	balance, err := f.wallets.Balance(ctx, reg.WalletID, currency.USD)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if !balance.Amount.Equal(decimal.NewFromInt(500)) {
		t.Fatalf("expected balance 500, got %s", balance.Amount)
	}

	records, err := f.store.Transactions(ctx, reg.WalletID, currency.USD)
	if err != nil {
		t.Fatalf("transactions: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected one ledger entry, got %d", len(records))
	}
	if records[0].Concept != ledger.ConceptTopUp {
		t.Fatalf("expected concept %q, got %q", ledger.ConceptTopUp, records[0].Concept)
	}
}

func TestTopUpRejectsNonPositiveAmount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	reg := f.register(t, "ana@example.com")

	before, _ := f.wallets.Balance(ctx, reg.WalletID, currency.ARS)

	for _, amount := range []decimal.Decimal{decimal.Zero, decimal.NewFromInt(-50)} {
		_, err := f.engine.TopUp(ctx, TopUpInput{WalletID: reg.WalletID, Currency: currency.ARS, Amount: amount})
		if OutcomeFor(err) != OutcomeInvalidAmount {
			t.Fatalf("amount %s: expected MONTO_INVALIDO, got %v", amount, err)
		}
	}

	after, _ := f.wallets.Balance(ctx, reg.WalletID, currency.ARS)
	if !after.Amount.Equal(before.Amount) {
		t.Fatalf("rejected top-up mutated balance: %s -> %s", before.Amount, after.Amount)
	}
}

func TestSendMovesFundsBetweenWallets(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ana := f.register(t, "ana@example.com") // welcome gift: 500 ARS
	berta := f.register(t, "berta@example.com")
	// Reset Berta's welcome gift so the received amount is observable alone.
	ledger.SeedBalance(f.store, berta.WalletID, currency.ARS, decimal.Zero)

	receipt, err := f.engine.Send(ctx, SendInput{
		FromWalletID:   ana.WalletID,
		FromUserID:     ana.User.ID,
		Currency:       currency.ARS,
		Amount:         decimal.NewFromInt(200),
		RecipientEmail: "berta@example.com",
		Reason:         "alquiler",
	})
	if err != nil {
		t.Fatalf("send failed: %v", err)
	}
	if receipt.Outcome != OutcomeStarted {
		t.Fatalf("expected INICIADA, got %s", receipt.Outcome)
	}
	if !receipt.FromBalance.Equal(decimal.NewFromInt(300)) {
		t.Fatalf("expected source balance 300, got %s", receipt.FromBalance)
	}

	toBalance, _ := f.wallets.Balance(ctx, berta.WalletID, currency.ARS)
	if !toBalance.Amount.Equal(decimal.NewFromInt(200)) {
		t.Fatalf("expected destination balance 200, got %s", toBalance.Amount)
	}

	if receipt.Debit.Concept != ledger.ConceptSend {
		t.Fatalf("expected debit leg %q, got %q", ledger.ConceptSend, receipt.Debit.Concept)
	}
	if receipt.Credit.Concept != ledger.ConceptReceive {
		t.Fatalf("expected credit leg %q, got %q", ledger.ConceptReceive, receipt.Credit.Concept)
	}
	if receipt.Debit.CounterpartyID != berta.User.ID || receipt.Credit.CounterpartyID != ana.User.ID {
		t.Fatalf("counterparties not crossed: %s / %s", receipt.Debit.CounterpartyID, receipt.Credit.CounterpartyID)
	}

	if f.notifier.last.Kind != notification.KindTransferReceived {
		t.Fatalf("expected recipient notification, got %+v", f.notifier.last)
	}
	if f.notifier.last.Destination != berta.User.ID {
		t.Fatalf("notification sent to %s, want %s", f.notifier.last.Destination, berta.User.ID)
	}
}

func TestSendInsufficientFundsLeavesEverythingUntouched(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ana := f.register(t, "ana@example.com")
	f.register(t, "berta@example.com")
	ledger.SeedBalance(f.store, ana.WalletID, currency.ARS, decimal.NewFromInt(100))

	recordsBefore, _ := f.store.Transactions(ctx, ana.WalletID, "")

	_, err := f.engine.Send(ctx, SendInput{
		FromWalletID:   ana.WalletID,
		FromUserID:     ana.User.ID,
		Currency:       currency.ARS,
		Amount:         decimal.NewFromInt(500),
		RecipientEmail: "berta@example.com",
	})
	if OutcomeFor(err) != OutcomeInsufficientFunds {
		t.Fatalf("expected SALDO_INSUFICIENTE, got %v", err)
	}

	balance, _ := f.wallets.Balance(ctx, ana.WalletID, currency.ARS)
	if !balance.Amount.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("failed send mutated balance: %s", balance.Amount)
	}
	recordsAfter, _ := f.store.Transactions(ctx, ana.WalletID, "")
	if len(recordsAfter) != len(recordsBefore) {
		t.Fatalf("failed send appended records: %d -> %d", len(recordsBefore), len(recordsAfter))
	}
	if f.notifier.last.Kind != "" {
		t.Fatalf("failed send must not notify, got %+v", f.notifier.last)
	}
}

func TestSendUnknownRecipient(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ana := f.register(t, "ana@example.com")

	_, err := f.engine.Send(ctx, SendInput{
		FromWalletID:   ana.WalletID,
		FromUserID:     ana.User.ID,
		Currency:       currency.ARS,
		Amount:         decimal.NewFromInt(50),
		RecipientEmail: "nadie@example.com",
	})
	if OutcomeFor(err) != OutcomeUnknownRecipient {
		t.Fatalf("expected DESTINATARIO_INEXISTENTE, got %v", err)
	}

	balance, _ := f.wallets.Balance(ctx, ana.WalletID, currency.ARS)
	if !balance.Amount.Equal(decimal.NewFromInt(500)) {
		t.Fatalf("failed send mutated balance: %s", balance.Amount)
	}
}

func TestSendRecipientWithoutCurrencyAccount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ana := f.register(t, "ana@example.com")
	// Berta's wallet only has the onboarding currencies; EUR is missing.
	f.register(t, "berta@example.com")
	if _, err := f.store.CreateAccount(ctx, ana.WalletID, currency.EUR); err != nil {
		t.Fatalf("create EUR account: %v", err)
	}
	ledger.SeedBalance(f.store, ana.WalletID, currency.EUR, decimal.NewFromInt(100))

	_, err := f.engine.Send(ctx, SendInput{
		FromWalletID:   ana.WalletID,
		FromUserID:     ana.User.ID,
		Currency:       currency.EUR,
		Amount:         decimal.NewFromInt(10),
		RecipientEmail: "berta@example.com",
	})
	if OutcomeFor(err) != OutcomeUnknownRecipient {
		t.Fatalf("expected DESTINATARIO_INEXISTENTE, got %v", err)
	}
}

func TestSendFromMissingAccount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ana := f.register(t, "ana@example.com")
	f.register(t, "berta@example.com")

	_, err := f.engine.Send(ctx, SendInput{
		FromWalletID:   ana.WalletID,
		FromUserID:     ana.User.ID,
		Currency:       currency.EUR, // not provisioned at onboarding
		Amount:         decimal.NewFromInt(10),
		RecipientEmail: "berta@example.com",
	})
	if OutcomeFor(err) != OutcomeAccountNotFound {
		t.Fatalf("expected CUENTA_INEXISTENTE, got %v", err)
	}
}
