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
)

// periodService manages the accounting period lifecycle.
type periodService struct {
	periodRepo portsrepo.PeriodRepositoryFacade
}

// NewPeriodService creates a new accounting period service.
func NewPeriodService(periodRepo portsrepo.PeriodRepositoryFacade) portssvc.PeriodSvcFacade {
	return &periodService{periodRepo: periodRepo}
}

var _ portssvc.PeriodSvcFacade = (*periodService)(nil)

// CreatePeriod registers a new open period after checking it does not overlap
// an existing one.
func (s *periodService) CreatePeriod(ctx context.Context, req dto.CreatePeriodRequest, creatorID string) (*domain.AccountingPeriod, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.EndDate.Before(req.StartDate) {
		return nil, fmt.Errorf("%w: end date before start date", apperrors.ErrValidation)
	}

	overlapping, err := s.periodRepo.FindOverlappingPeriods(ctx, req.StartDate, req.EndDate, "")
	if err != nil {
		return nil, fmt.Errorf("failed to check period overlap: %w", err)
	}
	if len(overlapping) > 0 {
		return nil, fmt.Errorf("%w: overlaps period %s", apperrors.ErrPeriodOverlap, overlapping[0].Name)
	}

	now := time.Now().UTC()
	period := domain.AccountingPeriod{
		PeriodID:  uuid.NewString(),
		Name:      req.Name,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Status:    domain.PeriodOpen,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorID,
		},
	}

	if err := s.periodRepo.SavePeriod(ctx, period); err != nil {
		logger.Error("Failed to save period", slog.String("error", err.Error()), slog.String("name", req.Name))
		return nil, err
	}

	logger.Info("Period created", slog.String("period_id", period.PeriodID), slog.String("name", period.Name))
	return &period, nil
}

// GetPeriodByID retrieves one period.
func (s *periodService) GetPeriodByID(ctx context.Context, periodID string) (*domain.AccountingPeriod, error) {
	return s.periodRepo.FindPeriodByID(ctx, periodID)
}

// ListPeriods retrieves all periods.
func (s *periodService) ListPeriods(ctx context.Context) ([]domain.AccountingPeriod, error) {
	return s.periodRepo.ListPeriods(ctx)
}

// ClosePeriod locks the period against new postings.
func (s *periodService) ClosePeriod(ctx context.Context, periodID string, closedByID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	period, err := s.periodRepo.FindPeriodByID(ctx, periodID)
	if err != nil {
		return err
	}
	if period.Status == domain.PeriodClosed {
		return fmt.Errorf("period %s: %w", period.Name, apperrors.ErrPeriodClosed)
	}

	if err := s.periodRepo.UpdatePeriodStatus(ctx, periodID, domain.PeriodClosed, closedByID, time.Now().UTC()); err != nil {
		return err
	}
	logger.Info("Period closed", slog.String("period_id", periodID), slog.String("name", period.Name))
	return nil
}

// ReopenPeriod reverses a close for correction.
func (s *periodService) ReopenPeriod(ctx context.Context, periodID string, actorID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	period, err := s.periodRepo.FindPeriodByID(ctx, periodID)
	if err != nil {
		return err
	}
	if period.Status == domain.PeriodOpen {
		return fmt.Errorf("period %s is already open: %w", period.Name, apperrors.ErrConflict)
	}

	if err := s.periodRepo.UpdatePeriodStatus(ctx, periodID, domain.PeriodOpen, actorID, time.Now().UTC()); err != nil {
		return err
	}
	logger.Info("Period reopened", slog.String("period_id", periodID), slog.String("name", period.Name))
	return nil
}

// AssertDateOpen resolves the period containing the date, if any, and fails
// with ErrPeriodClosed when that period is closed. Dates outside any period
// post freely.
func (s *periodService) AssertDateOpen(ctx context.Context, date time.Time) (*domain.AccountingPeriod, error) {
	period, err := s.periodRepo.FindPeriodForDate(ctx, date)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if period.Status == domain.PeriodClosed {
		return nil, fmt.Errorf("period %s: %w", period.Name, apperrors.ErrPeriodClosed)
	}
	return period, nil
}
