package services

import (
	"context"
	"time"

	"github.com/KopSinergi/koperasi_backend/internal/core/domain"
	"github.com/KopSinergi/koperasi_backend/internal/dto"
	"github.com/shopspring/decimal"
)

// JournalDraft is an internal posting request assembled by other services for
// auto-generated journals. Manual postings arrive as dto.PostJournalRequest.
type JournalDraft struct {
	Date          time.Time
	Type          domain.JournalType
	Description   string
	AutoGenerated bool
	Source        domain.SourceRef
	Lines         []domain.JournalLine
	// CashDeltas are signed balance changes applied to cash accounts in the
	// same transaction as the posting.
	CashDeltas map[string]decimal.Decimal
}

// JournalSvcFacade exposes the ledger poster.
type JournalSvcFacade interface {
	// PostJournal validates and persists a manual journal draft.
	PostJournal(ctx context.Context, req dto.PostJournalRequest, creatorID string) (*domain.Journal, error)

	// PostDraft validates and persists an internal draft (auto-generated postings).
	PostDraft(ctx context.Context, draft JournalDraft, creatorID string) (*domain.Journal, error)

	// BuildJournal validates a draft and returns the journal and lines ready
	// for persistence, without persisting. Used by services that must persist
	// the posting inside a wider transaction of their own.
	BuildJournal(ctx context.Context, draft JournalDraft, creatorID string) (*domain.Journal, []domain.JournalLine, error)

	GetJournalByID(ctx context.Context, journalID string) (*domain.Journal, error)
	ListJournals(ctx context.Context, from, to time.Time, limit int) ([]domain.Journal, error)

	// ListAccountLedger retrieves the posted lines against one ledger account,
	// newest first.
	ListAccountLedger(ctx context.Context, accountID string, limit int) ([]domain.JournalLine, error)

	// ReverseJournal posts a reversing journal for a previously posted one.
	ReverseJournal(ctx context.Context, journalID string, actorID string) (*domain.Journal, error)
}
