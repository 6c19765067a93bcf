package services

import (
	"context"

	"github.com/KopSinergi/koperasi_backend/internal/core/domain"
	"github.com/KopSinergi/koperasi_backend/internal/dto"
)

// ChartOfAccountSvcFacade exposes chart-of-accounts registry operations.
type ChartOfAccountSvcFacade interface {
	CreateAccount(ctx context.Context, req dto.CreateAccountRequest, creatorID string) (*domain.ChartOfAccount, error)
	GetAccountByID(ctx context.Context, accountID string) (*domain.ChartOfAccount, error)
	GetAccountByCode(ctx context.Context, code string) (*domain.ChartOfAccount, error)
	ListAccounts(ctx context.Context, includeInactive bool) ([]domain.ChartOfAccount, error)
	DeactivateAccount(ctx context.Context, accountID string, actorID string) error
}
