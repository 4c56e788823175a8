package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/JuanaSF/BilleteraVirtual/internal/currency"
)

// PostgresStore persists accounts and transactions in PostgreSQL. Balances are
// maintained on the account row (reads stay O(1)); the transaction insert and
// the balance update share one database transaction with row locks taken in
// account-id order, so crossing transfers cannot deadlock.
type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgresStore constructs a Postgres-backed ledger store.
func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) CreateAccount(ctx context.Context, walletID string, code currency.Code) (Account, error) {
	if !currency.Valid(code) {
		return Account{}, ErrInvalidCurrency
	}

	account := Account{
		ID:        uuid.NewString(),
		WalletID:  walletID,
		Currency:  code,
		Balance:   decimal.Zero,
		CreatedAt: time.Now().UTC(),
	}

	tag, err := s.db.Exec(ctx, `INSERT INTO accounts (id, wallet_id, currency, balance, created_at)
        VALUES ($1, $2, $3, 0, $4)
        ON CONFLICT (wallet_id, currency) DO NOTHING`,
		account.ID, walletID, string(code), account.CreatedAt)
	if err != nil {
		return Account{}, err
	}
	if tag.RowsAffected() == 0 {
		return Account{}, ErrAccountExists
	}
	return account, nil
}

func (s *PostgresStore) Account(ctx context.Context, walletID string, code currency.Code) (Account, error) {
	const query = `SELECT id, wallet_id, currency, balance::text, created_at
        FROM accounts WHERE wallet_id = $1 AND currency = $2`
	account, err := scanAccount(s.db.QueryRow(ctx, query, walletID, string(code)))
	if err == nil {
		return account, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return Account{}, err
	}

	var exists bool
	if err := s.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM accounts WHERE wallet_id = $1)`, walletID).Scan(&exists); err != nil {
		return Account{}, err
	}
	if !exists {
		return Account{}, ErrWalletNotFound
	}
	return Account{}, ErrAccountNotFound
}

func (s *PostgresStore) Accounts(ctx context.Context, walletID string) ([]Account, error) {
	const query = `SELECT id, wallet_id, currency, balance::text, created_at
        FROM accounts WHERE wallet_id = $1 ORDER BY currency`
	rows, err := s.db.Query(ctx, query, walletID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(accounts) == 0 {
		return nil, ErrWalletNotFound
	}
	return accounts, nil
}

func (s *PostgresStore) Credit(ctx context.Context, input CreditInput) (Transaction, error) {
	if !input.Amount.IsPositive() {
		return Transaction{}, ErrInvalidAmount
	}

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Transaction{}, err
	}
	defer tx.Rollback(ctx) // nolint:errcheck

	account, err := lockAccount(ctx, tx, input.WalletID, input.Currency)
	if err != nil {
		return Transaction{}, err
	}

	newBalance := account.Balance.Add(input.Amount)
	if _, err := tx.Exec(ctx, `UPDATE accounts SET balance = $1 WHERE id = $2`, newBalance.String(), account.ID); err != nil {
		return Transaction{}, err
	}

	concept := input.Concept
	if concept == "" {
		concept = ConceptTopUp
	}
	record, err := insertTransaction(ctx, tx, account, input.Amount, concept, input.Detail, input.CounterpartyID)
	if err != nil {
		return Transaction{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Transaction{}, err
	}
	return record, nil
}

func (s *PostgresStore) Transfer(ctx context.Context, input TransferInput) (TransferResult, error) {
	if !input.Amount.IsPositive() {
		return TransferResult{}, ErrInvalidAmount
	}

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return TransferResult{}, err
	}
	defer tx.Rollback(ctx) // nolint:errcheck

	fromID, err := accountID(ctx, tx, input.FromWalletID, input.Currency)
	if err != nil {
		return TransferResult{}, err
	}
	toID, err := accountID(ctx, tx, input.ToWalletID, input.Currency)
	if err != nil {
		return TransferResult{}, err
	}

	from, to, err := lockPair(ctx, tx, fromID, toID)
	if err != nil {
		return TransferResult{}, err
	}
	if from.Currency != to.Currency {
		return TransferResult{}, ErrCurrencyMismatch
	}
	if from.Balance.LessThan(input.Amount) {
		return TransferResult{}, ErrInsufficientFunds
	}

	fromBalance := from.Balance.Sub(input.Amount)
	toBalance := to.Balance.Add(input.Amount)
	if from.ID == to.ID {
		// Self-transfer: both legs land on the same account.
		fromBalance = from.Balance
		toBalance = to.Balance
	}

	if _, err := tx.Exec(ctx, `UPDATE accounts SET balance = $1 WHERE id = $2`, fromBalance.String(), from.ID); err != nil {
		return TransferResult{}, err
	}
	if from.ID != to.ID {
		if _, err := tx.Exec(ctx, `UPDATE accounts SET balance = $1 WHERE id = $2`, toBalance.String(), to.ID); err != nil {
			return TransferResult{}, err
		}
	}

	debit, err := insertTransaction(ctx, tx, from, input.Amount.Neg(), ConceptSend, input.Detail, input.ToUserID)
	if err != nil {
		return TransferResult{}, err
	}
	credit, err := insertTransaction(ctx, tx, to, input.Amount, ConceptReceive, input.Detail, input.FromUserID)
	if err != nil {
		return TransferResult{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return TransferResult{}, err
	}

	return TransferResult{Debit: debit, Credit: credit, FromBalance: fromBalance, ToBalance: toBalance}, nil
}

func (s *PostgresStore) Transactions(ctx context.Context, walletID string, code currency.Code) ([]Transaction, error) {
	query := `SELECT id, account_id, wallet_id, amount::text, currency, concept, detail,
            COALESCE(counterparty_id, ''), status, created_at
        FROM transactions WHERE wallet_id = $1`
	args := []any{walletID}
	if code != "" {
		query += ` AND currency = $2`
		args = append(args, string(code))
	}
	query += ` ORDER BY seq`

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Transaction
	for rows.Next() {
		var (
			record    Transaction
			amount    string
			currCode  string
			createdAt time.Time
		)
		if err := rows.Scan(&record.ID, &record.AccountID, &record.WalletID, &amount, &currCode,
			&record.Concept, &record.Detail, &record.CounterpartyID, &record.Status, &createdAt); err != nil {
			return nil, err
		}
		record.Amount, err = decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("decode amount: %w", err)
		}
		record.Currency = currency.Code(currCode)
		record.CreatedAt = createdAt.UTC()
		out = append(out, record)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(out) == 0 {
		var exists bool
		if err := s.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM accounts WHERE wallet_id = $1)`, walletID).Scan(&exists); err != nil {
			return nil, err
		}
		if !exists {
			return nil, ErrWalletNotFound
		}
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (Account, error) {
	var (
		account   Account
		code      string
		balance   string
		createdAt time.Time
	)
	if err := row.Scan(&account.ID, &account.WalletID, &code, &balance, &createdAt); err != nil {
		return Account{}, err
	}
	parsed, err := decimal.NewFromString(balance)
	if err != nil {
		return Account{}, fmt.Errorf("decode balance: %w", err)
	}
	account.Currency = currency.Code(code)
	account.Balance = parsed
	account.CreatedAt = createdAt.UTC()
	return account, nil
}

func accountID(ctx context.Context, tx pgx.Tx, walletID string, code currency.Code) (string, error) {
	var id string
	err := tx.QueryRow(ctx, `SELECT id FROM accounts WHERE wallet_id = $1 AND currency = $2`,
		walletID, string(code)).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return "", err
	}
	var exists bool
	if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM accounts WHERE wallet_id = $1)`, walletID).Scan(&exists); err != nil {
		return "", err
	}
	if !exists {
		return "", ErrWalletNotFound
	}
	return "", ErrAccountNotFound
}

func lockAccount(ctx context.Context, tx pgx.Tx, walletID string, code currency.Code) (Account, error) {
	const query = `SELECT id, wallet_id, currency, balance::text, created_at
        FROM accounts WHERE wallet_id = $1 AND currency = $2 FOR UPDATE`
	account, err := scanAccount(tx.QueryRow(ctx, query, walletID, string(code)))
	if err == nil {
		return account, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return Account{}, err
	}
	var exists bool
	if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM accounts WHERE wallet_id = $1)`, walletID).Scan(&exists); err != nil {
		return Account{}, err
	}
	if !exists {
		return Account{}, ErrWalletNotFound
	}
	return Account{}, ErrAccountNotFound
}

// lockPair acquires both account rows FOR UPDATE in id order so two transfers
// crossing the same pair in opposite directions never deadlock.
func lockPair(ctx context.Context, tx pgx.Tx, fromID, toID string) (Account, Account, error) {
	lockByID := func(id string) (Account, error) {
		const query = `SELECT id, wallet_id, currency, balance::text, created_at
            FROM accounts WHERE id = $1 FOR UPDATE`
		return scanAccount(tx.QueryRow(ctx, query, id))
	}

	if fromID == toID {
		account, err := lockByID(fromID)
		if err != nil {
			return Account{}, Account{}, err
		}
		return account, account, nil
	}

	first, second := fromID, toID
	if second < first {
		first, second = second, first
	}
	a, err := lockByID(first)
	if err != nil {
		return Account{}, Account{}, err
	}
	b, err := lockByID(second)
	if err != nil {
		return Account{}, Account{}, err
	}
	if a.ID == fromID {
		return a, b, nil
	}
	return b, a, nil
}

func insertTransaction(ctx context.Context, tx pgx.Tx, account Account, amount decimal.Decimal, concept, detail, counterpartyID string) (Transaction, error) {
	record := Transaction{
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

	var counterparty any
	if counterpartyID != "" {
		counterparty = counterpartyID
	}
	_, err := tx.Exec(ctx, `INSERT INTO transactions (id, account_id, wallet_id, amount, currency, concept, detail, counterparty_id, status, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		record.ID, record.AccountID, record.WalletID, amount.String(), string(record.Currency),
		concept, detail, counterparty, record.Status, record.CreatedAt)
	if err != nil {
		return Transaction{}, err
	}
	return record, nil
}
