package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/KopSinergi/koperasi_backend/internal/apperrors"
	"github.com/KopSinergi/koperasi_backend/internal/core/domain"
	portsrepo "github.com/KopSinergi/koperasi_backend/internal/core/ports/repositories"
	portssvc "github.com/KopSinergi/koperasi_backend/internal/core/ports/services"
	"github.com/KopSinergi/koperasi_backend/internal/dto"
	"github.com/KopSinergi/koperasi_backend/internal/middleware"
)

// cashAccountService is the balance manager for physical cash pools. Every
// balance change it makes rides on a journal posted in the same transaction.
type cashAccountService struct {
	cashAccountRepo portsrepo.CashAccountRepositoryFacade
	accountRepo     portsrepo.ChartOfAccountRepositoryFacade
	journalSvc      portssvc.JournalSvcFacade
}

// NewCashAccountService creates a new cash account service.
func NewCashAccountService(cashAccountRepo portsrepo.CashAccountRepositoryFacade, accountRepo portsrepo.ChartOfAccountRepositoryFacade, journalSvc portssvc.JournalSvcFacade) portssvc.CashAccountSvcFacade {
	return &cashAccountService{
		cashAccountRepo: cashAccountRepo,
		accountRepo:     accountRepo,
		journalSvc:      journalSvc,
	}
}

var _ portssvc.CashAccountSvcFacade = (*cashAccountService)(nil)

// CreateCashAccount registers a new cash pool backed by an asset ledger
// account. A positive opening balance is brought in through an opening
// journal against the opening equity account, so the ledger and the pool
// agree from day one.
func (s *cashAccountService) CreateCashAccount(ctx context.Context, req dto.CreateCashAccountRequest, creatorID string) (*domain.CashAccount, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.OpeningBalance.IsNegative() {
		return nil, fmt.Errorf("%w: opening balance must not be negative", apperrors.ErrValidation)
	}

	ledger, err := s.accountRepo.FindAccountByID(ctx, req.LedgerAccountID)
	if err != nil {
		return nil, fmt.Errorf("ledger account %s: %w", req.LedgerAccountID, err)
	}
	if ledger.Category != domain.Assets {
		return nil, fmt.Errorf("%w: ledger account %s is not an asset account", apperrors.ErrValidation, ledger.Code)
	}
	if !ledger.IsActive {
		return nil, fmt.Errorf("ledger account %s: %w", ledger.Code, apperrors.ErrAccountInactive)
	}

	now := time.Now().UTC()
	account := domain.CashAccount{
		CashAccountID: uuid.NewString(),
		Code:          req.Code,
		Name:          req.Name,
		Type:          domain.CashAccountType(req.Type),
		LedgerAccount: req.LedgerAccountID,
		Balance:       decimal.Zero,
		IsActive:      true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorID,
		},
	}

	if err := s.cashAccountRepo.SaveCashAccount(ctx, account); err != nil {
		logger.Error("Failed to save cash account", slog.String("error", err.Error()), slog.String("code", req.Code))
		return nil, err
	}

	if req.OpeningBalance.IsPositive() {
		equity, err := s.accountRepo.FindAccountByCode(ctx, domain.CodeOpeningEquity)
		if err != nil {
			return nil, fmt.Errorf("opening equity account %s: %w", domain.CodeOpeningEquity, err)
		}
		draft := portssvc.JournalDraft{
			Date:          now,
			Type:          domain.GeneralJournal,
			Description:   "Opening balance for cash account " + account.Code,
			AutoGenerated: true,
			Source:        domain.SourceRef{Kind: domain.SourceCashTransfer, ID: account.CashAccountID},
			Lines: []domain.JournalLine{
				{AccountID: ledger.AccountID, Debit: req.OpeningBalance},
				{AccountID: equity.AccountID, Credit: req.OpeningBalance},
			},
			CashDeltas: map[string]decimal.Decimal{account.CashAccountID: req.OpeningBalance},
		}
		if _, err := s.journalSvc.PostDraft(ctx, draft, creatorID); err != nil {
			return nil, fmt.Errorf("failed to post opening balance for %s: %w", account.Code, err)
		}
		account.Balance = req.OpeningBalance
	}

	logger.Info("Cash account created", slog.String("cash_account_id", account.CashAccountID), slog.String("code", account.Code))
	return &account, nil
}

// GetCashAccountByID retrieves one cash account.
func (s *cashAccountService) GetCashAccountByID(ctx context.Context, cashAccountID string) (*domain.CashAccount, error) {
	return s.cashAccountRepo.FindCashAccountByID(ctx, cashAccountID)
}

// ListCashAccounts retrieves all cash accounts.
func (s *cashAccountService) ListCashAccounts(ctx context.Context, includeInactive bool) ([]domain.CashAccount, error) {
	return s.cashAccountRepo.ListCashAccounts(ctx, includeInactive)
}

// Adjust moves money into or out of one cash account against the adjustment
// equity account, posting the paired journal in the same transaction.
func (s *cashAccountService) Adjust(ctx context.Context, cashAccountID string, amount decimal.Decimal, direction portssvc.CashDirection, memo string, actorID string) (decimal.Decimal, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !amount.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: adjustment amount must be positive", apperrors.ErrValidation)
	}

	account, err := s.cashAccountRepo.FindCashAccountByID(ctx, cashAccountID)
	if err != nil {
		return decimal.Zero, err
	}
	if !account.IsActive {
		return decimal.Zero, fmt.Errorf("cash account %s: %w", account.Code, apperrors.ErrAccountInactive)
	}

	adjustment, err := s.accountRepo.FindAccountByCode(ctx, domain.CodeCashAdjustment)
	if err != nil {
		return decimal.Zero, fmt.Errorf("adjustment account %s: %w", domain.CodeCashAdjustment, err)
	}

	var lines []domain.JournalLine
	delta := amount
	if direction == portssvc.CashCredit {
		lines = []domain.JournalLine{
			{AccountID: account.LedgerAccount, Debit: amount, Memo: memo},
			{AccountID: adjustment.AccountID, Credit: amount, Memo: memo},
		}
	} else {
		delta = amount.Neg()
		lines = []domain.JournalLine{
			{AccountID: adjustment.AccountID, Debit: amount, Memo: memo},
			{AccountID: account.LedgerAccount, Credit: amount, Memo: memo},
		}
	}

	draft := portssvc.JournalDraft{
		Date:          time.Now().UTC(),
		Type:          domain.GeneralJournal,
		Description:   "Cash adjustment on " + account.Code + ": " + memo,
		AutoGenerated: true,
		Source:        domain.SourceRef{Kind: domain.SourceCashTransfer, ID: account.CashAccountID},
		Lines:         lines,
		CashDeltas:    map[string]decimal.Decimal{account.CashAccountID: delta},
	}
	if _, err := s.journalSvc.PostDraft(ctx, draft, actorID); err != nil {
		return decimal.Zero, err
	}

	updated, err := s.cashAccountRepo.FindCashAccountByID(ctx, cashAccountID)
	if err != nil {
		return decimal.Zero, err
	}

	logger.Info("Cash account adjusted",
		slog.String("cash_account_id", cashAccountID),
		slog.String("direction", string(direction)),
		slog.String("amount", amount.String()),
	)
	return updated.Balance, nil
}

// TransferCash atomically moves money between two cash accounts: one balanced
// journal between their ledger accounts plus the two balance deltas, all in
// one transaction. An insufficient source balance aborts with no effect.
func (s *cashAccountService) TransferCash(ctx context.Context, req dto.TransferCashRequest, actorID string) (*domain.CashTransferResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: transfer amount must be positive", apperrors.ErrValidation)
	}
	if req.FromAccountID == req.ToAccountID {
		return nil, fmt.Errorf("%w: cannot transfer to the same cash account", apperrors.ErrValidation)
	}

	from, err := s.cashAccountRepo.FindCashAccountByID(ctx, req.FromAccountID)
	if err != nil {
		return nil, fmt.Errorf("source cash account: %w", err)
	}
	to, err := s.cashAccountRepo.FindCashAccountByID(ctx, req.ToAccountID)
	if err != nil {
		return nil, fmt.Errorf("destination cash account: %w", err)
	}
	if !from.IsActive {
		return nil, fmt.Errorf("cash account %s: %w", from.Code, apperrors.ErrAccountInactive)
	}
	if !to.IsActive {
		return nil, fmt.Errorf("cash account %s: %w", to.Code, apperrors.ErrAccountInactive)
	}
	// Two pools on one ledger account would produce a journal against a
	// single account, which the poster rejects. Such a move is a custody
	// change, not a ledger event.
	if from.LedgerAccount == to.LedgerAccount {
		return nil, fmt.Errorf("%w: cash accounts %s and %s share one ledger account; record the move as paired adjustments instead", apperrors.ErrValidation, from.Code, to.Code)
	}

	transferID := uuid.NewString()
	draft := portssvc.JournalDraft{
		Date:          req.Date,
		Type:          domain.GeneralJournal,
		Description:   "Cash transfer " + from.Code + " to " + to.Code + ": " + req.Purpose,
		AutoGenerated: true,
		Source:        domain.SourceRef{Kind: domain.SourceCashTransfer, ID: transferID},
		Lines: []domain.JournalLine{
			{AccountID: to.LedgerAccount, Debit: req.Amount, Memo: req.Purpose},
			{AccountID: from.LedgerAccount, Credit: req.Amount, Memo: req.Purpose},
		},
		CashDeltas: map[string]decimal.Decimal{
			from.CashAccountID: req.Amount.Neg(),
			to.CashAccountID:   req.Amount,
		},
	}

	journal, err := s.journalSvc.PostDraft(ctx, draft, actorID)
	if err != nil {
		return nil, err
	}

	fromAfter, err := s.cashAccountRepo.FindCashAccountByID(ctx, req.FromAccountID)
	if err != nil {
		return nil, err
	}
	toAfter, err := s.cashAccountRepo.FindCashAccountByID(ctx, req.ToAccountID)
	if err != nil {
		return nil, err
	}

	logger.Info("Cash transfer completed",
		slog.String("transfer_id", transferID),
		slog.String("journal_id", journal.JournalID),
		slog.String("amount", req.Amount.String()),
	)
	return &domain.CashTransferResult{
		TransferID:       transferID,
		JournalID:        journal.JournalID,
		FromAccountID:    req.FromAccountID,
		ToAccountID:      req.ToAccountID,
		Amount:           req.Amount,
		FromBalanceAfter: fromAfter.Balance,
		ToBalanceAfter:   toAfter.Balance,
		Purpose:          req.Purpose,
	}, nil
}
