package services

import (
	"context"
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
)

// accountService manages the chart of accounts registry.
type accountService struct {
	accountRepo portsrepo.ChartOfAccountRepositoryFacade
}

// NewAccountService creates a new chart-of-accounts service.
func NewAccountService(accountRepo portsrepo.ChartOfAccountRepositoryFacade) portssvc.ChartOfAccountSvcFacade {
	return &accountService{accountRepo: accountRepo}
}

var _ portssvc.ChartOfAccountSvcFacade = (*accountService)(nil)

// CreateAccount registers a new ledger account.
func (s *accountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest, creatorID string) (*domain.ChartOfAccount, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	now := time.Now().UTC()
	account := domain.ChartOfAccount{
		AccountID:  uuid.NewString(),
		Code:       req.Code,
		Name:       req.Name,
		Category:   domain.AccountCategory(req.Category),
		NormalSide: domain.NormalSide(req.NormalSide),
		IsContra:   req.IsContra,
		IsActive:   true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorID,
		},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		logger.Error("Failed to save account", slog.String("error", err.Error()), slog.String("code", req.Code))
		return nil, err
	}

	logger.Info("Account created", slog.String("account_id", account.AccountID), slog.String("code", account.Code))
	return &account, nil
}

// GetAccountByID retrieves one ledger account.
func (s *accountService) GetAccountByID(ctx context.Context, accountID string) (*domain.ChartOfAccount, error) {
	return s.accountRepo.FindAccountByID(ctx, accountID)
}

// GetAccountByCode retrieves one ledger account by its code.
func (s *accountService) GetAccountByCode(ctx context.Context, code string) (*domain.ChartOfAccount, error) {
	return s.accountRepo.FindAccountByCode(ctx, code)
}

// ListAccounts retrieves the chart of accounts.
func (s *accountService) ListAccounts(ctx context.Context, includeInactive bool) ([]domain.ChartOfAccount, error) {
	return s.accountRepo.ListAccounts(ctx, includeInactive)
}

// DeactivateAccount removes an account from use. An account never referenced
// by a journal is deleted outright; one with postings is deactivated instead
// so historic journals keep a valid reference.
func (s *accountService) DeactivateAccount(ctx context.Context, accountID string, actorID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return err
	}

	referenced, err := s.accountRepo.IsReferencedByJournal(ctx, accountID)
	if err != nil {
		return fmt.Errorf("failed to check references for account %s: %w", accountID, err)
	}

	if !referenced {
		if err := s.accountRepo.DeleteAccount(ctx, accountID); err != nil {
			return err
		}
		logger.Info("Account deleted", slog.String("account_id", accountID))
		return nil
	}

	if !account.IsActive {
		return fmt.Errorf("account %s is already inactive: %w", accountID, apperrors.ErrConflict)
	}

	account.IsActive = false
	account.LastUpdatedAt = time.Now().UTC()
	account.LastUpdatedBy = actorID
	if err := s.accountRepo.UpdateAccount(ctx, *account); err != nil {
		return err
	}

	logger.Info("Account deactivated", slog.String("account_id", accountID))
	return nil
}
