package repositories

import (
	"context"
	"time"

	"github.com/KopSinergi/koperasi_backend/internal/core/domain"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// CashAccountReader defines read operations for cash accounts.
type CashAccountReader interface {
	// FindCashAccountByID retrieves a cash account by its unique identifier.
	FindCashAccountByID(ctx context.Context, cashAccountID string) (*domain.CashAccount, error)

	// FindCashAccountByCode retrieves a cash account by its unique code.
	FindCashAccountByCode(ctx context.Context, code string) (*domain.CashAccount, error)

	// ListCashAccounts retrieves all cash accounts, optionally including inactive ones.
	ListCashAccounts(ctx context.Context, includeInactive bool) ([]domain.CashAccount, error)
}

// CashAccountWriter defines write operations for cash accounts.
type CashAccountWriter interface {
	// SaveCashAccount inserts a new cash account.
	SaveCashAccount(ctx context.Context, account domain.CashAccount) error

	// UpdateCashAccount updates mutable fields (name, active flag) of a cash account.
	UpdateCashAccount(ctx context.Context, account domain.CashAccount) error
}

// CashAccountTxOps are the building blocks other repositories compose into a
// single atomic unit: lock the cash rows, then apply signed deltas. The
// insufficient-funds check runs under the row lock so concurrent debits of
// the same account serialize.
type CashAccountTxOps interface {
	// LockCashAccountsInTx retrieves the given cash accounts FOR UPDATE.
	// Must be called within a transaction.
	LockCashAccountsInTx(ctx context.Context, tx pgx.Tx, cashAccountIDs []string) (map[string]domain.CashAccount, error)

	// ApplyCashDeltasInTx adds the signed deltas to the locked balances.
	// Fails with ErrInsufficientFunds if any balance would go negative.
	ApplyCashDeltasInTx(ctx context.Context, tx pgx.Tx, deltas map[string]decimal.Decimal, actorID string, now time.Time) error
}

// CashAccountRepositoryFacade combines all cash account repository interfaces.
type CashAccountRepositoryFacade interface {
	CashAccountReader
	CashAccountWriter
	CashAccountTxOps
}
