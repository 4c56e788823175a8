package transfer

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/JuanaSF/BilleteraVirtual/internal/currency"
	"github.com/JuanaSF/BilleteraVirtual/internal/ledger"
	"github.com/JuanaSF/BilleteraVirtual/internal/notification"
	"github.com/JuanaSF/BilleteraVirtual/internal/wallet"
)

// Directory resolves recipient emails to user ids.
type Directory interface {
	UserIDByEmail(ctx context.Context, email string) (string, error)
}

// Engine validates and executes funds movements. All balance mutations go
// through here; every precondition is checked before anything is written and
// the ledger store commits each movement atomically.
type Engine struct {
	store     ledger.Store
	wallets   *wallet.Service
	directory Directory
	notifier  notification.Notifier
}

// NewEngine constructs the transfer engine.
func NewEngine(store ledger.Store, wallets *wallet.Service, directory Directory, notifier notification.Notifier) *Engine {
	return &Engine{store: store, wallets: wallets, directory: directory, notifier: notifier}
}

// TopUpInput captures a unilateral credit request.
type TopUpInput struct {
	WalletID string
	Currency currency.Code
	Amount   decimal.Decimal
	Concept  string
	Detail   string
}

// TopUp credits the wallet's account in the given currency. Credits are never
// refused for balance reasons; a non-positive amount or missing account fails
// without any mutation.
func (e *Engine) TopUp(ctx context.Context, input TopUpInput) (ledger.Transaction, error) {
	if !input.Amount.IsPositive() {
		return ledger.Transaction{}, ledger.ErrInvalidAmount
	}
	return e.store.Credit(ctx, ledger.CreditInput{
		WalletID: input.WalletID,
		Currency: input.Currency,
		Amount:   input.Amount,
		Concept:  input.Concept,
		Detail:   input.Detail,
	})
}

// SendInput captures a two-party transfer request. The recipient is addressed
// by email.
type SendInput struct {
	FromWalletID   string
	FromUserID     string
	Currency       currency.Code
	Amount         decimal.Decimal
	RecipientEmail string
	Reason         string
	Detail         string
}

// SendReceipt reports an accepted transfer.
type SendReceipt struct {
	Outcome     Outcome
	Debit       ledger.Transaction
	Credit      ledger.Transaction
	FromBalance decimal.Decimal
}

// Send moves funds between two wallets of the same currency as one atomic
// unit. Any precondition failure returns a sentinel error (see OutcomeFor)
// with no balance changed and no record appended.
func (e *Engine) Send(ctx context.Context, input SendInput) (SendReceipt, error) {
	if !input.Amount.IsPositive() {
		return SendReceipt{}, ledger.ErrInvalidAmount
	}

	if _, err := e.store.Account(ctx, input.FromWalletID, input.Currency); err != nil {
		return SendReceipt{}, err
	}

	toUserID, err := e.directory.UserIDByEmail(ctx, input.RecipientEmail)
	if err != nil {
		return SendReceipt{}, ErrRecipientNotFound
	}
	toWalletID, err := e.wallets.WalletIDByOwner(ctx, toUserID)
	if err != nil {
		return SendReceipt{}, ErrRecipientNotFound
	}
	if _, err := e.store.Account(ctx, toWalletID, input.Currency); err != nil {
		// The recipient exists but holds no account in this currency.
		return SendReceipt{}, ErrRecipientNotFound
	}

	res, err := e.store.Transfer(ctx, ledger.TransferInput{
		FromWalletID: input.FromWalletID,
		FromUserID:   input.FromUserID,
		ToWalletID:   toWalletID,
		ToUserID:     toUserID,
		Currency:     input.Currency,
		Amount:       input.Amount,
		Detail:       joinDetail(input.Reason, input.Detail),
	})
	if err != nil {
		return SendReceipt{}, err
	}

	if e.notifier != nil {
		_ = e.notifier.Send(ctx, notification.Message{
			Kind:        notification.KindTransferReceived,
			Destination: toUserID,
			Body:        fmt.Sprintf("Recibiste %s %s", input.Amount, input.Currency),
		})
	}

	return SendReceipt{
		Outcome:     OutcomeStarted,
		Debit:       res.Debit,
		Credit:      res.Credit,
		FromBalance: res.FromBalance,
	}, nil
}

func joinDetail(reason, detail string) string {
	switch {
	case reason == "":
		return detail
	case detail == "":
		return reason
	default:
		return reason + ": " + detail
	}
}
