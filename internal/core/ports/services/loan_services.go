package services

import (
	"context"
	"time"

	"github.com/KopSinergi/koperasi_backend/internal/core/domain"
	"github.com/KopSinergi/koperasi_backend/internal/dto"
	"github.com/shopspring/decimal"
)

// LoanSvcFacade exposes the loan lifecycle manager.
type LoanSvcFacade interface {
	// CalculateInstallment previews the fixed monthly installment.
	CalculateInstallment(ctx context.Context, principal, annualRatePercent decimal.Decimal, months int) (decimal.Decimal, error)

	ApplyLoan(ctx context.Context, req dto.ApplyLoanRequest, creatorID string) (*domain.Loan, error)
	ApproveLoan(ctx context.Context, loanID string, approverID string) (*domain.Loan, error)
	RejectLoan(ctx context.Context, loanID string, approverID string) (*domain.Loan, error)

	// DisburseLoan activates an approved loan: freezes the installment
	// amount, generates the schedule, pays out the principal from the cash
	// account and posts the disbursement journal atomically.
	DisburseLoan(ctx context.Context, loanID string, req dto.DisburseLoanRequest, actorID string) (*domain.Loan, error)

	GetLoanByID(ctx context.Context, loanID string) (*domain.Loan, error)
	ListLoansByMember(ctx context.Context, memberID string) ([]domain.Loan, error)

	// PayInstallment records a manual or deduction-sourced payment against one
	// installment, advancing the loan to paid off when the schedule completes.
	PayInstallment(ctx context.Context, installmentID string, req dto.PayInstallmentRequest, confirmedByID string) (*domain.Installment, error)

	// MarkOverdue flips pending installments past their due date to overdue.
	MarkOverdue(ctx context.Context, asOf time.Time) (int64, error)

	// SettleEarly pays off the remaining principal, cancelling all future
	// installments with no further interest charged.
	SettleEarly(ctx context.Context, loanID string, req dto.SettleEarlyRequest, settledByID string) (*domain.SettlementSummary, error)
}
