package repositories

import (
	"context"
	"time"

	"github.com/KopSinergi/koperasi_backend/internal/core/domain"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// JournalReader defines read operations for journal data.
type JournalReader interface {
	// FindJournalByID retrieves a specific journal by its unique identifier.
	FindJournalByID(ctx context.Context, journalID string) (*domain.Journal, error)

	// FindLinesByJournalID retrieves all lines of a journal in posting order.
	FindLinesByJournalID(ctx context.Context, journalID string) ([]domain.JournalLine, error)

	// ListJournals retrieves journals filtered by date range, newest first.
	ListJournals(ctx context.Context, from, to time.Time, limit int) ([]domain.Journal, error)

	// ListLinesByAccountID retrieves the ledger lines posted against one account.
	ListLinesByAccountID(ctx context.Context, accountID string, limit int) ([]domain.JournalLine, error)
}

// JournalWriter defines write operations for journal data.
type JournalWriter interface {
	// SaveJournal persists a journal with its lines and applies cash balance
	// deltas, all within a single transaction. A nil/empty delta map posts a
	// journal without touching cash balances.
	SaveJournal(ctx context.Context, journal domain.Journal, lines []domain.JournalLine, cashDeltas map[string]decimal.Decimal) error

	// SaveReversal persists a reversing journal with its lines and flips the
	// original journal from posted to reversed, all within a single
	// transaction. Fails with ErrConflict if the original is no longer
	// posted, in which case the reversing journal is not persisted either.
	SaveReversal(ctx context.Context, reversing domain.Journal, lines []domain.JournalLine, originalJournalID string) error
}

// JournalTxOps are building blocks composed by other repositories whose
// business events must post a journal inside their own transaction.
type JournalTxOps interface {
	// InsertJournalInTx inserts a journal header and its lines using the given transaction.
	InsertJournalInTx(ctx context.Context, tx pgx.Tx, journal domain.Journal, lines []domain.JournalLine) error

	// NextJournalNumberInTx allocates the next journal number for the month of
	// the given date, e.g. JRN-202601-0042.
	NextJournalNumberInTx(ctx context.Context, tx pgx.Tx, date time.Time) (string, error)
}

// JournalRepositoryFacade combines all journal repository interfaces.
type JournalRepositoryFacade interface {
	JournalReader
	JournalWriter
	JournalTxOps
}
