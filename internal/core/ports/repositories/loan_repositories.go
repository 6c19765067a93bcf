package repositories

import (
	"context"
	"time"

	"github.com/KopSinergi/koperasi_backend/internal/core/domain"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// LoanReader defines read operations for loans and installments.
type LoanReader interface {
	// FindLoanByID retrieves a loan by its unique identifier.
	FindLoanByID(ctx context.Context, loanID string) (*domain.Loan, error)

	// ListLoansByMember retrieves all loans of one member, newest first.
	ListLoansByMember(ctx context.Context, memberID string) ([]domain.Loan, error)

	// ListOpenDeductionLoans retrieves a member's open loans collected via any
	// of the given deduction methods.
	ListOpenDeductionLoans(ctx context.Context, memberID string, methods []domain.DeductionMethod) ([]domain.Loan, error)

	// FindInstallmentByID retrieves one installment.
	FindInstallmentByID(ctx context.Context, installmentID string) (*domain.Installment, error)

	// ListInstallmentsByLoanID retrieves a loan's schedule ordered by number.
	ListInstallmentsByLoanID(ctx context.Context, loanID string) ([]domain.Installment, error)

	// ListPayableInstallmentsDueBetween retrieves pending/overdue/partially
	// paid installments of a loan with due dates inside [from, to].
	ListPayableInstallmentsDueBetween(ctx context.Context, loanID string, from, to time.Time) ([]domain.Installment, error)
}

// InstallmentPayment pairs an installment's new payment state with the paid
// amount that state was computed from. The repository only applies the write
// while the stored paid amount still matches PriorPaidAmount, so a payment
// based on a stale read aborts instead of overwriting a concurrent one.
type InstallmentPayment struct {
	Installment     domain.Installment
	PriorPaidAmount decimal.Decimal
}

// LoanWriter defines write operations for loans and installments.
type LoanWriter interface {
	// SaveLoan inserts a new loan application.
	SaveLoan(ctx context.Context, loan domain.Loan) error

	// UpdateLoanDecision transitions a pending loan to approved or rejected.
	// Fails with ErrConflict if the loan left the pending state concurrently.
	UpdateLoanDecision(ctx context.Context, loanID string, status domain.LoanStatus, actorID string, at time.Time) error

	// DisburseLoan atomically activates an approved loan: freezes the
	// installment amount, inserts the schedule, posts the disbursement
	// journal and applies the cash debit. Fails with ErrAlreadyDisbursed if
	// the loan is not in the approved state when the row lock is taken.
	DisburseLoan(ctx context.Context, loan domain.Loan, installments []domain.Installment, journal domain.Journal, lines []domain.JournalLine, cashDeltas map[string]decimal.Decimal) error

	// PayInstallments atomically records payments against installments of one
	// loan, reduces the loan's remaining principal by principalDelta, posts
	// the payment journal and applies cash deltas. The loan row is locked
	// first so concurrent payments of the same loan serialize; the loan's new
	// balance and status are derived from the locked row, never from the
	// caller's read.
	PayInstallments(ctx context.Context, loanID string, principalDelta decimal.Decimal, payments []InstallmentPayment, journal *domain.Journal, lines []domain.JournalLine, cashDeltas map[string]decimal.Decimal) error

	// SettleLoan atomically performs an early settlement: cancels the given
	// installments, marks the loan paid off, posts the settlement journal and
	// applies the cash credit. Fails with ErrConflict if the loan's remaining
	// principal no longer matches the settlement amount when the row lock is
	// taken.
	SettleLoan(ctx context.Context, loan domain.Loan, cancelledInstallmentIDs []string, journal domain.Journal, lines []domain.JournalLine, cashDeltas map[string]decimal.Decimal) error

	// MarkInstallmentsOverdue flips pending installments past their due date
	// to overdue. Returns the number of installments transitioned.
	MarkInstallmentsOverdue(ctx context.Context, asOf time.Time) (int64, error)
}

// LoanTxOps are building blocks for repositories that settle installments
// inside their own transaction (the deduction distributor).
type LoanTxOps interface {
	// LockLoanInTx retrieves a loan row FOR UPDATE.
	LockLoanInTx(ctx context.Context, tx pgx.Tx, loanID string) (*domain.Loan, error)

	// UpdateLoanInTx persists loan principal/status changes using the given transaction.
	UpdateLoanInTx(ctx context.Context, tx pgx.Tx, loan domain.Loan) error

	// ApplyLoanPaymentInTx reduces a loan's remaining principal by the given
	// delta using the given transaction, deriving the new status from the
	// stored row. Fails with ErrConflict if the delta exceeds the stored
	// remaining principal.
	ApplyLoanPaymentInTx(ctx context.Context, tx pgx.Tx, loanID string, principalDelta decimal.Decimal, actorID string, at time.Time) error

	// ApplyInstallmentPaymentInTx persists installment payment state using the
	// given transaction. Fails with ErrAlreadyPaid if the installment is no
	// longer payable or its paid amount moved since the caller's read.
	ApplyInstallmentPaymentInTx(ctx context.Context, tx pgx.Tx, payment InstallmentPayment) error
}

// LoanRepositoryFacade combines all loan repository interfaces.
type LoanRepositoryFacade interface {
	LoanReader
	LoanWriter
	LoanTxOps
}
