package repositories

import (
	"context"
	"time"

	"github.com/KopSinergi/koperasi_backend/internal/core/domain"
)

// PeriodReader defines read operations for accounting periods.
type PeriodReader interface {
	// FindPeriodByID retrieves a period by its unique identifier.
	FindPeriodByID(ctx context.Context, periodID string) (*domain.AccountingPeriod, error)

	// FindPeriodForDate retrieves the period whose range contains the date, if any.
	FindPeriodForDate(ctx context.Context, date time.Time) (*domain.AccountingPeriod, error)

	// FindOverlappingPeriods retrieves periods whose range intersects [start, end],
	// excluding the given period ID (empty string excludes nothing).
	FindOverlappingPeriods(ctx context.Context, start, end time.Time, excludePeriodID string) ([]domain.AccountingPeriod, error)

	// ListPeriods retrieves all periods ordered by start date.
	ListPeriods(ctx context.Context) ([]domain.AccountingPeriod, error)
}

// PeriodWriter defines write operations for accounting periods.
type PeriodWriter interface {
	// SavePeriod inserts a new accounting period.
	SavePeriod(ctx context.Context, period domain.AccountingPeriod) error

	// UpdatePeriodStatus transitions a period between open and closed.
	UpdatePeriodStatus(ctx context.Context, periodID string, status domain.PeriodStatus, actorID string, at time.Time) error
}

// PeriodRepositoryFacade combines all period repository interfaces.
type PeriodRepositoryFacade interface {
	PeriodReader
	PeriodWriter
}
