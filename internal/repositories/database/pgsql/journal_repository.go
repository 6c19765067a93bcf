package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/KopSinergi/koperasi_backend/internal/apperrors"
	"github.com/KopSinergi/koperasi_backend/internal/core/domain"
	portsrepo "github.com/KopSinergi/koperasi_backend/internal/core/ports/repositories"
	"github.com/KopSinergi/koperasi_backend/internal/models"
	"github.com/KopSinergi/koperasi_backend/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PgxJournalRepository struct {
	BaseRepository
	cashAccountRepo portsrepo.CashAccountRepositoryFacade
}

// newPgxJournalRepository creates a new repository for journal and line data.
func newPgxJournalRepository(pool *pgxpool.Pool, cashAccountRepo portsrepo.CashAccountRepositoryFacade) portsrepo.JournalRepositoryFacade {
	return &PgxJournalRepository{
		BaseRepository:  BaseRepository{Pool: pool},
		cashAccountRepo: cashAccountRepo,
	}
}

var _ portsrepo.JournalRepositoryFacade = (*PgxJournalRepository)(nil)

const journalColumns = `journal_id, journal_number, journal_type, journal_date, description, period_id,
	status, auto_generated, source_kind, source_id, amount, original_journal_id, reversing_journal_id,
	created_at, created_by, last_updated_at, last_updated_by`

const journalLineColumns = `line_id, journal_id, account_id, debit, credit, memo,
	created_at, created_by, last_updated_at, last_updated_by`

// SaveJournal persists a journal with its lines and applies cash balance
// deltas within a single database transaction. The cash rows are locked
// before the deltas are applied so a debit that would overdraw a pool aborts
// the whole posting.
func (r *PgxJournalRepository) SaveJournal(ctx context.Context, journal domain.Journal, lines []domain.JournalLine, cashDeltas map[string]decimal.Decimal) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if journal.JournalNumber == "" {
		number, err := r.NextJournalNumberInTx(ctx, tx, journal.JournalDate)
		if err != nil {
			return err
		}
		journal.JournalNumber = number
	}

	if err := r.InsertJournalInTx(ctx, tx, journal, lines); err != nil {
		return err
	}

	if len(cashDeltas) > 0 {
		ids := make([]string, 0, len(cashDeltas))
		for id := range cashDeltas {
			ids = append(ids, id)
		}
		if _, err := r.cashAccountRepo.LockCashAccountsInTx(ctx, tx, ids); err != nil {
			return err
		}
		if err := r.cashAccountRepo.ApplyCashDeltasInTx(ctx, tx, cashDeltas, journal.CreatedBy, journal.CreatedAt); err != nil {
			return err
		}
	}

	return r.Commit(ctx, tx)
}

// InsertJournalInTx inserts a journal header and its lines using the given
// transaction. Lines are queued in a batch; pgx pipelines them in one round trip.
func (r *PgxJournalRepository) InsertJournalInTx(ctx context.Context, tx pgx.Tx, journal domain.Journal, lines []domain.JournalLine) error {
	m := mapping.ToModelJournal(journal)
	journalQuery := `
		INSERT INTO journals (` + journalColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17);
	`
	_, err := tx.Exec(ctx, journalQuery,
		m.JournalID,
		m.JournalNumber,
		m.JournalType,
		m.JournalDate,
		m.Description,
		m.PeriodID,
		m.Status,
		m.AutoGenerated,
		m.SourceKind,
		m.SourceID,
		m.Amount,
		m.OriginalJournalID,
		m.ReversingJournalID,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("journal number %s: %w", m.JournalNumber, apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to insert journal %s: %w", m.JournalID, err)
	}

	lineQuery := `
		INSERT INTO journal_lines (` + journalLineColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	batch := &pgx.Batch{}
	for _, line := range lines {
		ml := mapping.ToModelJournalLine(line)
		ml.JournalID = m.JournalID
		ml.CreatedAt = m.CreatedAt
		ml.CreatedBy = m.CreatedBy
		ml.LastUpdatedAt = m.LastUpdatedAt
		ml.LastUpdatedBy = m.LastUpdatedBy
		batch.Queue(lineQuery,
			ml.LineID,
			ml.JournalID,
			ml.AccountID,
			ml.Debit,
			ml.Credit,
			ml.Memo,
			ml.CreatedAt,
			ml.CreatedBy,
			ml.LastUpdatedAt,
			ml.LastUpdatedBy,
		)
	}
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to insert lines for journal %s: %w", m.JournalID, err)
	}
	return nil
}

// NextJournalNumberInTx allocates the next journal number for the month of
// the given date. The counter row is upserted and incremented atomically, so
// concurrent postings in the same month get distinct sequences.
func (r *PgxJournalRepository) NextJournalNumberInTx(ctx context.Context, tx pgx.Tx, date time.Time) (string, error) {
	monthKey := date.Format("200601")
	query := `
		INSERT INTO journal_counters (month_key, last_value)
		VALUES ($1, 1)
		ON CONFLICT (month_key) DO UPDATE SET last_value = journal_counters.last_value + 1
		RETURNING last_value;
	`
	var seq int64
	if err := tx.QueryRow(ctx, query, monthKey).Scan(&seq); err != nil {
		return "", fmt.Errorf("failed to allocate journal number for %s: %w", monthKey, err)
	}
	return fmt.Sprintf("JRN-%s-%04d", monthKey, seq), nil
}

func scanJournal(row pgx.Row) (models.Journal, error) {
	var m models.Journal
	err := row.Scan(
		&m.JournalID,
		&m.JournalNumber,
		&m.JournalType,
		&m.JournalDate,
		&m.Description,
		&m.PeriodID,
		&m.Status,
		&m.AutoGenerated,
		&m.SourceKind,
		&m.SourceID,
		&m.Amount,
		&m.OriginalJournalID,
		&m.ReversingJournalID,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// FindJournalByID retrieves a journal by its ID, without lines.
func (r *PgxJournalRepository) FindJournalByID(ctx context.Context, journalID string) (*domain.Journal, error) {
	query := `SELECT ` + journalColumns + ` FROM journals WHERE journal_id = $1;`
	m, err := scanJournal(r.Pool.QueryRow(ctx, query, journalID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find journal by ID %s: %w", journalID, err)
	}
	journal := mapping.ToDomainJournal(m)
	return &journal, nil
}

// FindLinesByJournalID retrieves all lines of a journal in insertion order.
func (r *PgxJournalRepository) FindLinesByJournalID(ctx context.Context, journalID string) ([]domain.JournalLine, error) {
	query := `SELECT ` + journalLineColumns + ` FROM journal_lines WHERE journal_id = $1 ORDER BY line_id;`
	rows, err := r.Pool.Query(ctx, query, journalID)
	if err != nil {
		return nil, fmt.Errorf("failed to query lines for journal %s: %w", journalID, err)
	}
	defer rows.Close()

	modelLines := []models.JournalLine{}
	for rows.Next() {
		var l models.JournalLine
		if err := rows.Scan(
			&l.LineID,
			&l.JournalID,
			&l.AccountID,
			&l.Debit,
			&l.Credit,
			&l.Memo,
			&l.CreatedAt,
			&l.CreatedBy,
			&l.LastUpdatedAt,
			&l.LastUpdatedBy,
		); err != nil {
			return nil, fmt.Errorf("failed to scan line row for journal %s: %w", journalID, err)
		}
		modelLines = append(modelLines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating line rows for journal %s: %w", journalID, err)
	}
	return mapping.ToDomainJournalLines(modelLines), nil
}

// ListJournals retrieves journals whose journal date falls inside [from, to],
// newest first.
func (r *PgxJournalRepository) ListJournals(ctx context.Context, from, to time.Time, limit int) ([]domain.Journal, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
		SELECT ` + journalColumns + `
		FROM journals
		WHERE journal_date >= $1 AND journal_date <= $2
		ORDER BY journal_date DESC, created_at DESC
		LIMIT $3;
	`
	rows, err := r.Pool.Query(ctx, query, from, to, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query journals: %w", err)
	}
	defer rows.Close()

	journals := []domain.Journal{}
	for rows.Next() {
		m, err := scanJournal(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan journal row: %w", err)
		}
		journals = append(journals, mapping.ToDomainJournal(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating journal rows: %w", err)
	}
	return journals, nil
}

// ListLinesByAccountID retrieves the ledger lines posted against one account,
// newest journal first.
func (r *PgxJournalRepository) ListLinesByAccountID(ctx context.Context, accountID string, limit int) ([]domain.JournalLine, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
		SELECT l.line_id, l.journal_id, l.account_id, l.debit, l.credit, l.memo,
		       l.created_at, l.created_by, l.last_updated_at, l.last_updated_by
		FROM journal_lines l
		JOIN journals j ON l.journal_id = j.journal_id
		WHERE l.account_id = $1
		ORDER BY j.journal_date DESC, l.created_at DESC
		LIMIT $2;
	`
	rows, err := r.Pool.Query(ctx, query, accountID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query lines for account %s: %w", accountID, err)
	}
	defer rows.Close()

	modelLines := []models.JournalLine{}
	for rows.Next() {
		var l models.JournalLine
		if err := rows.Scan(
			&l.LineID,
			&l.JournalID,
			&l.AccountID,
			&l.Debit,
			&l.Credit,
			&l.Memo,
			&l.CreatedAt,
			&l.CreatedBy,
			&l.LastUpdatedAt,
			&l.LastUpdatedBy,
		); err != nil {
			return nil, fmt.Errorf("failed to scan line row for account %s: %w", accountID, err)
		}
		modelLines = append(modelLines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating line rows for account %s: %w", accountID, err)
	}
	return mapping.ToDomainJournalLines(modelLines), nil
}

// SaveReversal persists a reversing journal and flips the original from
// posted to reversed in one transaction. The status guard makes concurrent
// reversals race for a single winner: the loser's reversing journal rolls
// back with the failed status flip instead of surviving in the ledger.
func (r *PgxJournalRepository) SaveReversal(ctx context.Context, reversing domain.Journal, lines []domain.JournalLine, originalJournalID string) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if reversing.JournalNumber == "" {
		number, err := r.NextJournalNumberInTx(ctx, tx, reversing.JournalDate)
		if err != nil {
			return err
		}
		reversing.JournalNumber = number
	}
	if err := r.InsertJournalInTx(ctx, tx, reversing, lines); err != nil {
		return err
	}

	query := `
		UPDATE journals
		SET status = 'REVERSED',
		    reversing_journal_id = $2,
		    last_updated_at = $3,
		    last_updated_by = $4
		WHERE journal_id = $1 AND status = 'POSTED';
	`
	cmdTag, err := tx.Exec(ctx, query, originalJournalID, reversing.JournalID, reversing.LastUpdatedAt, reversing.LastUpdatedBy)
	if err != nil {
		return fmt.Errorf("failed to mark journal %s reversed: %w", originalJournalID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("journal %s is no longer posted: %w", originalJournalID, apperrors.ErrConflict)
	}

	return r.Commit(ctx, tx)
}
