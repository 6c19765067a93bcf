package repositories

import (
	"context"

	"github.com/KopSinergi/koperasi_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// DeductionReader defines read operations for payroll deduction snapshots.
type DeductionReader interface {
	// FindDeductionByID retrieves a deduction snapshot.
	FindDeductionByID(ctx context.Context, deductionID string) (*domain.SalaryDeduction, error)

	// ExistsForPeriod reports whether a snapshot already exists for the
	// member, month, year and run type.
	ExistsForPeriod(ctx context.Context, memberID string, month, year int, runType domain.DeductionRunType) (bool, error)

	// ListDeductionsByMember retrieves a member's snapshots, newest first.
	ListDeductionsByMember(ctx context.Context, memberID string) ([]domain.SalaryDeduction, error)
}

// DeductionWriter defines write operations for payroll deduction runs.
type DeductionWriter interface {
	// SaveDeductionRun atomically persists the snapshot, the installment
	// payments it funded, the per-loan principal reductions, the aggregate
	// journal and the cash delta. Loans are locked in a stable order before
	// mutation so overlapping runs serialize, and their balances are reduced
	// relative to the locked rows. Fails with ErrDuplicate if a snapshot for
	// the same (member, month, year, run type) was inserted concurrently.
	SaveDeductionRun(ctx context.Context, deduction domain.SalaryDeduction, payments []InstallmentPayment, loanPrincipalDeltas map[string]decimal.Decimal, journal *domain.Journal, lines []domain.JournalLine, cashDeltas map[string]decimal.Decimal) error
}

// DeductionRepositoryFacade combines all deduction repository interfaces.
type DeductionRepositoryFacade interface {
	DeductionReader
	DeductionWriter
}
