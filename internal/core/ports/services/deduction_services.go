package services

import (
	"context"

	"github.com/KopSinergi/koperasi_backend/internal/core/domain"
	"github.com/KopSinergi/koperasi_backend/internal/dto"
)

// DeductionSvcFacade exposes the payroll deduction distributor.
type DeductionSvcFacade interface {
	// DistributeSalaryDeduction runs the salary deduction for one member and
	// month: pays the due installments of salary/mixed loans and records the
	// snapshot. Fails with ErrDuplicate if the run already happened.
	DistributeSalaryDeduction(ctx context.Context, req dto.DistributeDeductionRequest, actorID string) (*domain.SalaryDeduction, error)

	// DistributeServiceAllowanceDeduction is the companion run covering
	// service-allowance/mixed loans.
	DistributeServiceAllowanceDeduction(ctx context.Context, req dto.DistributeDeductionRequest, actorID string) (*domain.SalaryDeduction, error)

	GetDeductionByID(ctx context.Context, deductionID string) (*domain.SalaryDeduction, error)
	ListDeductionsByMember(ctx context.Context, memberID string) ([]domain.SalaryDeduction, error)
}
