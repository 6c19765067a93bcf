package services

import (
	"context"
	"time"

	"github.com/KopSinergi/koperasi_backend/internal/core/domain"
	"github.com/KopSinergi/koperasi_backend/internal/dto"
)

// PeriodSvcFacade exposes accounting period lifecycle operations.
type PeriodSvcFacade interface {
	CreatePeriod(ctx context.Context, req dto.CreatePeriodRequest, creatorID string) (*domain.AccountingPeriod, error)
	GetPeriodByID(ctx context.Context, periodID string) (*domain.AccountingPeriod, error)
	ListPeriods(ctx context.Context) ([]domain.AccountingPeriod, error)

	// ClosePeriod locks the period against new postings.
	ClosePeriod(ctx context.Context, periodID string, closedByID string) error

	// ReopenPeriod reverses a close for correction.
	ReopenPeriod(ctx context.Context, periodID string, actorID string) error

	// AssertDateOpen fails with ErrPeriodClosed if the date falls inside a
	// closed period. Dates outside any period are allowed.
	AssertDateOpen(ctx context.Context, date time.Time) (*domain.AccountingPeriod, error)
}
