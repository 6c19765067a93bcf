package repositories

import (
	"context"

	"github.com/KopSinergi/koperasi_backend/internal/core/domain"
)

// ChartOfAccountReader defines read operations for the chart of accounts.
type ChartOfAccountReader interface {
	// FindAccountByID retrieves a ledger account by its unique identifier.
	FindAccountByID(ctx context.Context, accountID string) (*domain.ChartOfAccount, error)

	// FindAccountByCode retrieves a ledger account by its unique code.
	FindAccountByCode(ctx context.Context, code string) (*domain.ChartOfAccount, error)

	// FindAccountsByIDs retrieves multiple ledger accounts keyed by ID.
	FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.ChartOfAccount, error)

	// ListAccounts retrieves all ledger accounts, optionally including inactive ones.
	ListAccounts(ctx context.Context, includeInactive bool) ([]domain.ChartOfAccount, error)

	// IsReferencedByJournal reports whether any posted journal line references the account.
	IsReferencedByJournal(ctx context.Context, accountID string) (bool, error)
}

// ChartOfAccountWriter defines write operations for the chart of accounts.
type ChartOfAccountWriter interface {
	// SaveAccount inserts a new ledger account.
	SaveAccount(ctx context.Context, account domain.ChartOfAccount) error

	// UpdateAccount updates mutable fields (name, active flag) of a ledger account.
	UpdateAccount(ctx context.Context, account domain.ChartOfAccount) error

	// DeleteAccount removes a ledger account. Only safe for accounts never
	// referenced by a journal; callers must check first.
	DeleteAccount(ctx context.Context, accountID string) error
}

// ChartOfAccountRepositoryFacade combines all chart-of-accounts repository interfaces.
type ChartOfAccountRepositoryFacade interface {
	ChartOfAccountReader
	ChartOfAccountWriter
}
