package pgsql

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/KopSinergi/koperasi_backend/internal/apperrors"
	"github.com/KopSinergi/koperasi_backend/internal/core/domain"
	portsrepo "github.com/KopSinergi/koperasi_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PgxCashAccountRepository struct {
	BaseRepository
}

// newPgxCashAccountRepository creates a new repository for cash accounts.
func newPgxCashAccountRepository(pool *pgxpool.Pool) portsrepo.CashAccountRepositoryFacade {
	return &PgxCashAccountRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.CashAccountRepositoryFacade = (*PgxCashAccountRepository)(nil)

const cashAccountColumns = `cash_account_id, code, name, type, ledger_account_id, balance, is_active,
	created_at, created_by, last_updated_at, last_updated_by`

func scanCashAccount(row pgx.Row) (domain.CashAccount, error) {
	var a domain.CashAccount
	err := row.Scan(
		&a.CashAccountID,
		&a.Code,
		&a.Name,
		&a.Type,
		&a.LedgerAccount,
		&a.Balance,
		&a.IsActive,
		&a.CreatedAt,
		&a.CreatedBy,
		&a.LastUpdatedAt,
		&a.LastUpdatedBy,
	)
	return a, err
}

// SaveCashAccount inserts a new cash account.
func (r *PgxCashAccountRepository) SaveCashAccount(ctx context.Context, account domain.CashAccount) error {
	query := `
		INSERT INTO cash_accounts (` + cashAccountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := r.Pool.Exec(ctx, query,
		account.CashAccountID,
		account.Code,
		account.Name,
		account.Type,
		account.LedgerAccount,
		account.Balance,
		account.IsActive,
		account.CreatedAt,
		account.CreatedBy,
		account.LastUpdatedAt,
		account.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("cash account code %s: %w", account.Code, apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to insert cash account %s: %w", account.CashAccountID, err)
	}
	return nil
}

// UpdateCashAccount updates the mutable fields of a cash account.
// The balance is deliberately not touched here; balances change only via
// ApplyCashDeltasInTx alongside a journal posting.
func (r *PgxCashAccountRepository) UpdateCashAccount(ctx context.Context, account domain.CashAccount) error {
	query := `
		UPDATE cash_accounts
		SET name = $2,
		    is_active = $3,
		    last_updated_at = $4,
		    last_updated_by = $5
		WHERE cash_account_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		account.CashAccountID,
		account.Name,
		account.IsActive,
		account.LastUpdatedAt,
		account.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update cash account %s: %w", account.CashAccountID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// FindCashAccountByID retrieves a cash account by its ID.
func (r *PgxCashAccountRepository) FindCashAccountByID(ctx context.Context, cashAccountID string) (*domain.CashAccount, error) {
	query := `SELECT ` + cashAccountColumns + ` FROM cash_accounts WHERE cash_account_id = $1;`
	account, err := scanCashAccount(r.Pool.QueryRow(ctx, query, cashAccountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find cash account by ID %s: %w", cashAccountID, err)
	}
	return &account, nil
}

// FindCashAccountByCode retrieves a cash account by its unique code.
func (r *PgxCashAccountRepository) FindCashAccountByCode(ctx context.Context, code string) (*domain.CashAccount, error) {
	query := `SELECT ` + cashAccountColumns + ` FROM cash_accounts WHERE code = $1;`
	account, err := scanCashAccount(r.Pool.QueryRow(ctx, query, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find cash account by code %s: %w", code, err)
	}
	return &account, nil
}

// ListCashAccounts retrieves all cash accounts ordered by code.
func (r *PgxCashAccountRepository) ListCashAccounts(ctx context.Context, includeInactive bool) ([]domain.CashAccount, error) {
	query := `SELECT ` + cashAccountColumns + ` FROM cash_accounts`
	if !includeInactive {
		query += ` WHERE is_active = TRUE`
	}
	query += ` ORDER BY code;`

	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query cash accounts: %w", err)
	}
	defer rows.Close()

	accounts := []domain.CashAccount{}
	for rows.Next() {
		a, err := scanCashAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cash account row: %w", err)
		}
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cash account rows: %w", err)
	}
	return accounts, nil
}

// LockCashAccountsInTx retrieves the given cash accounts FOR UPDATE.
// IDs are sorted before locking so concurrent multi-account operations
// acquire row locks in the same order and cannot deadlock each other.
func (r *PgxCashAccountRepository) LockCashAccountsInTx(ctx context.Context, tx pgx.Tx, cashAccountIDs []string) (map[string]domain.CashAccount, error) {
	if len(cashAccountIDs) == 0 {
		return map[string]domain.CashAccount{}, nil
	}

	ids := make([]string, len(cashAccountIDs))
	copy(ids, cashAccountIDs)
	sort.Strings(ids)

	query := `SELECT ` + cashAccountColumns + ` FROM cash_accounts WHERE cash_account_id = ANY($1) ORDER BY cash_account_id FOR UPDATE;`
	rows, err := tx.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to lock cash accounts: %w", err)
	}
	defer rows.Close()

	accounts := make(map[string]domain.CashAccount, len(ids))
	for rows.Next() {
		a, err := scanCashAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan locked cash account row: %w", err)
		}
		accounts[a.CashAccountID] = a
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating locked cash account rows: %w", err)
	}

	for _, id := range ids {
		if _, ok := accounts[id]; !ok {
			return nil, fmt.Errorf("cash account %s: %w", id, apperrors.ErrNotFound)
		}
	}
	return accounts, nil
}

// ApplyCashDeltasInTx adds the signed deltas to the cash balances within the
// given transaction. The guarded UPDATE refuses to drive a balance negative;
// callers must have locked the rows first via LockCashAccountsInTx.
func (r *PgxCashAccountRepository) ApplyCashDeltasInTx(ctx context.Context, tx pgx.Tx, deltas map[string]decimal.Decimal, actorID string, now time.Time) error {
	query := `
		UPDATE cash_accounts
		SET balance = balance + $2,
		    last_updated_at = $3,
		    last_updated_by = $4
		WHERE cash_account_id = $1 AND balance + $2 >= 0;
	`

	ids := make([]string, 0, len(deltas))
	for id := range deltas {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		delta := deltas[id]
		if delta.IsZero() {
			continue
		}
		cmdTag, err := tx.Exec(ctx, query, id, delta, now, actorID)
		if err != nil {
			return fmt.Errorf("failed to apply balance delta to cash account %s: %w", id, err)
		}
		if cmdTag.RowsAffected() == 0 {
			return fmt.Errorf("cash account %s: %w", id, apperrors.ErrInsufficientFunds)
		}
	}
	return nil
}
