package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/KopSinergi/koperasi_backend/internal/apperrors"
	"github.com/KopSinergi/koperasi_backend/internal/core/domain"
	portsrepo "github.com/KopSinergi/koperasi_backend/internal/core/ports/repositories"
	portssvc "github.com/KopSinergi/koperasi_backend/internal/core/ports/services"
	"github.com/KopSinergi/koperasi_backend/internal/dto"
	"github.com/KopSinergi/koperasi_backend/internal/middleware"
	"github.com/KopSinergi/koperasi_backend/internal/utils/accounting"
)

var (
	// ErrReverseAutoGenerated rejects reversal of auto-generated journals;
	// those are corrected through the business operation that produced them.
	ErrReverseAutoGenerated = errors.New("auto-generated journals cannot be reversed directly")
)

// journalService is the ledger poster: it validates drafts against the chart
// of accounts and the period calendar, then persists them immutably.
type journalService struct {
	journalRepo portsrepo.JournalRepositoryFacade
	accountRepo portsrepo.ChartOfAccountRepositoryFacade
	periodSvc   portssvc.PeriodSvcFacade
}

// NewJournalService creates a new journal service.
func NewJournalService(journalRepo portsrepo.JournalRepositoryFacade, accountRepo portsrepo.ChartOfAccountRepositoryFacade, periodSvc portssvc.PeriodSvcFacade) portssvc.JournalSvcFacade {
	return &journalService{
		journalRepo: journalRepo,
		accountRepo: accountRepo,
		periodSvc:   periodSvc,
	}
}

var _ portssvc.JournalSvcFacade = (*journalService)(nil)

// PostJournal validates and persists a manual journal draft. Manual postings
// never carry cash deltas; cash movements go through the cash account service
// so balances and journals stay paired.
func (s *journalService) PostJournal(ctx context.Context, req dto.PostJournalRequest, creatorID string) (*domain.Journal, error) {
	journalType := domain.JournalType(req.Type)
	if journalType == "" {
		journalType = domain.GeneralJournal
	}

	lines := make([]domain.JournalLine, len(req.Lines))
	for i, lr := range req.Lines {
		lines[i] = domain.JournalLine{
			AccountID: lr.AccountID,
			Debit:     lr.Debit,
			Credit:    lr.Credit,
			Memo:      lr.Memo,
		}
	}

	draft := portssvc.JournalDraft{
		Date:        req.Date,
		Type:        journalType,
		Description: req.Description,
		Source:      domain.SourceRef{Kind: domain.SourceManual},
		Lines:       lines,
	}
	return s.PostDraft(ctx, draft, creatorID)
}

// PostDraft validates and persists a draft, returning the stored journal with
// its allocated journal number.
func (s *journalService) PostDraft(ctx context.Context, draft portssvc.JournalDraft, creatorID string) (*domain.Journal, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	journal, lines, err := s.BuildJournal(ctx, draft, creatorID)
	if err != nil {
		return nil, err
	}

	if err := s.journalRepo.SaveJournal(ctx, *journal, lines, draft.CashDeltas); err != nil {
		logger.Error("Failed to save journal", slog.String("error", err.Error()), slog.String("journal_id", journal.JournalID))
		return nil, err
	}

	// Re-read to pick up the journal number allocated inside the transaction.
	stored, err := s.journalRepo.FindJournalByID(ctx, journal.JournalID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload journal %s: %w", journal.JournalID, err)
	}

	logger.Info("Journal posted",
		slog.String("journal_id", stored.JournalID),
		slog.String("journal_number", stored.JournalNumber),
		slog.String("amount", stored.Amount.String()),
	)
	return stored, nil
}

// BuildJournal validates a draft and returns the journal header and lines
// ready for persistence, without persisting. Services whose business event
// must commit atomically with the posting persist the result inside their own
// transaction.
func (s *journalService) BuildJournal(ctx context.Context, draft portssvc.JournalDraft, creatorID string) (*domain.Journal, []domain.JournalLine, error) {
	if draft.Description == "" {
		return nil, nil, fmt.Errorf("%w: journal description is required", apperrors.ErrValidation)
	}

	if err := accounting.ValidateJournalLines(draft.Lines); err != nil {
		return nil, nil, err
	}

	period, err := s.periodSvc.AssertDateOpen(ctx, draft.Date)
	if err != nil {
		return nil, nil, err
	}

	accountIDs := make([]string, 0, len(draft.Lines))
	seen := make(map[string]bool, len(draft.Lines))
	for _, line := range draft.Lines {
		if !seen[line.AccountID] {
			seen[line.AccountID] = true
			accountIDs = append(accountIDs, line.AccountID)
		}
	}
	if len(accountIDs) < 2 {
		return nil, nil, fmt.Errorf("%w: journal must affect at least two different accounts", apperrors.ErrValidation)
	}

	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, accountIDs)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch accounts: %w", err)
	}
	for _, id := range accountIDs {
		if !accounts[id].IsActive {
			return nil, nil, fmt.Errorf("account %s: %w", accounts[id].Code, apperrors.ErrAccountInactive)
		}
	}

	now := time.Now().UTC()
	journalID := uuid.NewString()
	audit := domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     creatorID,
		LastUpdatedAt: now,
		LastUpdatedBy: creatorID,
	}

	lines := make([]domain.JournalLine, len(draft.Lines))
	for i, line := range draft.Lines {
		line.LineID = uuid.NewString()
		line.JournalID = journalID
		line.AuditFields = audit
		lines[i] = line
	}

	var periodID *string
	if period != nil {
		periodID = &period.PeriodID
	}

	journal := domain.Journal{
		JournalID:     journalID,
		JournalType:   draft.Type,
		JournalDate:   draft.Date,
		Description:   draft.Description,
		PeriodID:      periodID,
		Status:        domain.Posted,
		AutoGenerated: draft.AutoGenerated,
		Source:        draft.Source,
		Amount:        accounting.JournalAmount(lines),
		AuditFields:   audit,
	}
	return &journal, lines, nil
}

// GetJournalByID retrieves a journal with its lines.
func (s *journalService) GetJournalByID(ctx context.Context, journalID string) (*domain.Journal, error) {
	journal, err := s.journalRepo.FindJournalByID(ctx, journalID)
	if err != nil {
		return nil, err
	}
	lines, err := s.journalRepo.FindLinesByJournalID(ctx, journalID)
	if err != nil {
		return nil, fmt.Errorf("failed to load lines for journal %s: %w", journalID, err)
	}
	journal.Lines = lines
	return journal, nil
}

// ListJournals retrieves journals in a date range, newest first.
func (s *journalService) ListJournals(ctx context.Context, from, to time.Time, limit int) ([]domain.Journal, error) {
	return s.journalRepo.ListJournals(ctx, from, to, limit)
}

// ListAccountLedger retrieves the posted lines against one ledger account.
// The account is resolved first so an unknown ID answers not-found rather
// than an empty ledger.
func (s *journalService) ListAccountLedger(ctx context.Context, accountID string, limit int) ([]domain.JournalLine, error) {
	if _, err := s.accountRepo.FindAccountByID(ctx, accountID); err != nil {
		return nil, err
	}
	return s.journalRepo.ListLinesByAccountID(ctx, accountID, limit)
}

// ReverseJournal posts a reversing journal that mirrors the original with
// debits and credits swapped, then links the pair. The original stays in the
// ledger untouched except for its status.
func (s *journalService) ReverseJournal(ctx context.Context, journalID string, actorID string) (*domain.Journal, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	original, err := s.journalRepo.FindJournalByID(ctx, journalID)
	if err != nil {
		return nil, err
	}
	if original.Status != domain.Posted {
		return nil, fmt.Errorf("journal %s is %s: %w", journalID, original.Status, apperrors.ErrConflict)
	}
	if original.AutoGenerated {
		return nil, fmt.Errorf("journal %s: %w", journalID, ErrReverseAutoGenerated)
	}

	originalLines, err := s.journalRepo.FindLinesByJournalID(ctx, journalID)
	if err != nil {
		return nil, fmt.Errorf("failed to load lines for journal %s: %w", journalID, err)
	}

	reversedLines := make([]domain.JournalLine, len(originalLines))
	for i, line := range originalLines {
		reversedLines[i] = domain.JournalLine{
			AccountID: line.AccountID,
			Debit:     line.Credit,
			Credit:    line.Debit,
			Memo:      line.Memo,
		}
	}

	draft := portssvc.JournalDraft{
		Date:        time.Now().UTC(),
		Type:        domain.ReversingJournal,
		Description: "Reversal of " + original.JournalNumber + ": " + original.Description,
		Source:      domain.SourceRef{Kind: domain.SourceManual, ID: original.JournalID},
		Lines:       reversedLines,
	}
	reversing, lines, err := s.BuildJournal(ctx, draft, actorID)
	if err != nil {
		return nil, err
	}
	reversing.OriginalJournalID = &original.JournalID

	// The reversing journal and the original's status flip commit together;
	// if another reversal won the race the whole posting rolls back.
	if err := s.journalRepo.SaveReversal(ctx, *reversing, lines, original.JournalID); err != nil {
		logger.Error("Failed to save reversing journal", slog.String("error", err.Error()), slog.String("original_journal_id", journalID))
		return nil, err
	}

	stored, err := s.journalRepo.FindJournalByID(ctx, reversing.JournalID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload journal %s: %w", reversing.JournalID, err)
	}

	logger.Info("Journal reversed",
		slog.String("original_journal_id", journalID),
		slog.String("reversing_journal_id", stored.JournalID),
	)
	return stored, nil
}
