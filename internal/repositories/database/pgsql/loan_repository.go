package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/KopSinergi/koperasi_backend/internal/apperrors"
	"github.com/KopSinergi/koperasi_backend/internal/core/domain"
	portsrepo "github.com/KopSinergi/koperasi_backend/internal/core/ports/repositories"
	"github.com/KopSinergi/koperasi_backend/internal/models"
	"github.com/KopSinergi/koperasi_backend/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PgxLoanRepository struct {
	BaseRepository
	journalRepo     portsrepo.JournalTxOps
	cashAccountRepo portsrepo.CashAccountTxOps
}

// newPgxLoanRepository creates a new repository for loans and installments.
// Journal and cash building blocks are injected so loan lifecycle events post
// their journals inside the loan's own transaction.
func newPgxLoanRepository(pool *pgxpool.Pool, journalRepo portsrepo.JournalTxOps, cashAccountRepo portsrepo.CashAccountTxOps) portsrepo.LoanRepositoryFacade {
	return &PgxLoanRepository{
		BaseRepository:  BaseRepository{Pool: pool},
		journalRepo:     journalRepo,
		cashAccountRepo: cashAccountRepo,
	}
}

var _ portsrepo.LoanRepositoryFacade = (*PgxLoanRepository)(nil)

const loanColumns = `loan_id, member_id, principal, annual_rate_percent, tenure_months,
	installment_amount, remaining_principal, status, deduction_method,
	salary_deduction_percent, allowance_deduction_percent, disbursed_at,
	early_settlement, settlement_amount, settled_at,
	created_at, created_by, last_updated_at, last_updated_by`

const installmentColumns = `installment_id, loan_id, number, due_date, principal_portion,
	interest_portion, total_amount, paid_amount, status, paid_at, confirmed_by,
	created_at, created_by, last_updated_at, last_updated_by`

func scanLoan(row pgx.Row) (models.Loan, error) {
	var m models.Loan
	err := row.Scan(
		&m.LoanID,
		&m.MemberID,
		&m.Principal,
		&m.AnnualRatePercent,
		&m.TenureMonths,
		&m.InstallmentAmount,
		&m.RemainingPrincipal,
		&m.Status,
		&m.DeductionMethod,
		&m.SalaryDeductionPercent,
		&m.AllowanceDeductionPercent,
		&m.DisbursedAt,
		&m.EarlySettlement,
		&m.SettlementAmount,
		&m.SettledAt,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func scanInstallment(row pgx.Row) (models.Installment, error) {
	var m models.Installment
	err := row.Scan(
		&m.InstallmentID,
		&m.LoanID,
		&m.Number,
		&m.DueDate,
		&m.PrincipalPortion,
		&m.InterestPortion,
		&m.TotalAmount,
		&m.PaidAmount,
		&m.Status,
		&m.PaidAt,
		&m.ConfirmedBy,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// SaveLoan inserts a new loan application.
func (r *PgxLoanRepository) SaveLoan(ctx context.Context, loan domain.Loan) error {
	m := mapping.ToModelLoan(loan)
	query := `
		INSERT INTO loans (` + loanColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.LoanID,
		m.MemberID,
		m.Principal,
		m.AnnualRatePercent,
		m.TenureMonths,
		m.InstallmentAmount,
		m.RemainingPrincipal,
		m.Status,
		m.DeductionMethod,
		m.SalaryDeductionPercent,
		m.AllowanceDeductionPercent,
		m.DisbursedAt,
		m.EarlySettlement,
		m.SettlementAmount,
		m.SettledAt,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert loan %s: %w", m.LoanID, err)
	}
	return nil
}

// UpdateLoanDecision transitions a pending loan to approved or rejected.
// The status guard in the WHERE clause makes the decision idempotent-safe:
// a second decision on the same loan fails with ErrConflict.
func (r *PgxLoanRepository) UpdateLoanDecision(ctx context.Context, loanID string, status domain.LoanStatus, actorID string, at time.Time) error {
	query := `
		UPDATE loans
		SET status = $2,
		    last_updated_at = $3,
		    last_updated_by = $4
		WHERE loan_id = $1 AND status = 'PENDING';
	`
	cmdTag, err := r.Pool.Exec(ctx, query, loanID, status, at, actorID)
	if err != nil {
		return fmt.Errorf("failed to update decision for loan %s: %w", loanID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		if _, findErr := r.FindLoanByID(ctx, loanID); findErr != nil {
			return findErr
		}
		return fmt.Errorf("loan %s is not pending: %w", loanID, apperrors.ErrConflict)
	}
	return nil
}

// DisburseLoan activates an approved loan in one transaction: the loan row is
// locked and its state frozen, the schedule inserted, the disbursement
// journal posted and the cash debit applied.
func (r *PgxLoanRepository) DisburseLoan(ctx context.Context, loan domain.Loan, installments []domain.Installment, journal domain.Journal, lines []domain.JournalLine, cashDeltas map[string]decimal.Decimal) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	current, err := r.LockLoanInTx(ctx, tx, loan.LoanID)
	if err != nil {
		return err
	}
	if current.Status != domain.LoanApproved {
		return fmt.Errorf("loan %s is %s: %w", loan.LoanID, current.Status, apperrors.ErrAlreadyDisbursed)
	}

	if err := r.UpdateLoanInTx(ctx, tx, loan); err != nil {
		return err
	}
	if err := r.insertInstallmentsInTx(ctx, tx, installments); err != nil {
		return err
	}
	if err := r.postJournalInTx(ctx, tx, &journal, lines, cashDeltas); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// PayInstallments records payments against installments of one loan within a
// single transaction. The loan row lock serializes concurrent payments; the
// loan's balance is reduced relative to the locked row and each installment
// write is guarded against concurrent payment, so a payment computed from a
// stale read rolls back instead of overwriting an interleaved one. A nil
// journal records installment state only; the deduction distributor posts its
// own aggregate journal instead.
func (r *PgxLoanRepository) PayInstallments(ctx context.Context, loanID string, principalDelta decimal.Decimal, payments []portsrepo.InstallmentPayment, journal *domain.Journal, lines []domain.JournalLine, cashDeltas map[string]decimal.Decimal) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	current, err := r.LockLoanInTx(ctx, tx, loanID)
	if err != nil {
		return err
	}
	if current.Status != domain.LoanDisbursed && current.Status != domain.LoanActive {
		return fmt.Errorf("loan %s is %s: %w", loanID, current.Status, apperrors.ErrNotActive)
	}

	var actorID string
	var at time.Time
	for _, p := range payments {
		if err := r.ApplyInstallmentPaymentInTx(ctx, tx, p); err != nil {
			return err
		}
		actorID = p.Installment.LastUpdatedBy
		at = p.Installment.LastUpdatedAt
	}
	if err := r.ApplyLoanPaymentInTx(ctx, tx, loanID, principalDelta, actorID, at); err != nil {
		return err
	}
	if err := r.postJournalInTx(ctx, tx, journal, lines, cashDeltas); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// SettleLoan performs an early settlement in one transaction: remaining
// installments are cancelled, the loan is marked paid off and the settlement
// journal posted with its cash credit.
func (r *PgxLoanRepository) SettleLoan(ctx context.Context, loan domain.Loan, cancelledInstallmentIDs []string, journal domain.Journal, lines []domain.JournalLine, cashDeltas map[string]decimal.Decimal) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	current, err := r.LockLoanInTx(ctx, tx, loan.LoanID)
	if err != nil {
		return err
	}
	if current.Status != domain.LoanDisbursed && current.Status != domain.LoanActive {
		return fmt.Errorf("loan %s is %s: %w", loan.LoanID, current.Status, apperrors.ErrAlreadySettled)
	}
	// The settlement journal credits the receivable by the settlement amount,
	// so it must still equal the stored remaining principal under the lock. A
	// payment that slipped in between the caller's read and this lock makes
	// the settlement stale.
	if !current.RemainingPrincipal.Equal(loan.SettlementAmount) {
		return fmt.Errorf("remaining principal of loan %s changed concurrently: %w", loan.LoanID, apperrors.ErrConflict)
	}

	if err := r.UpdateLoanInTx(ctx, tx, loan); err != nil {
		return err
	}

	if len(cancelledInstallmentIDs) > 0 {
		cancelQuery := `
			UPDATE installments
			SET status = 'CANCELLED',
			    last_updated_at = $2,
			    last_updated_by = $3
			WHERE installment_id = ANY($1) AND status IN ('PENDING', 'OVERDUE', 'MANUAL_PENDING');
		`
		cmdTag, err := tx.Exec(ctx, cancelQuery, cancelledInstallmentIDs, loan.LastUpdatedAt, loan.LastUpdatedBy)
		if err != nil {
			return fmt.Errorf("failed to cancel installments for loan %s: %w", loan.LoanID, err)
		}
		if cmdTag.RowsAffected() != int64(len(cancelledInstallmentIDs)) {
			return fmt.Errorf("installments of loan %s changed concurrently: %w", loan.LoanID, apperrors.ErrConflict)
		}
	}

	if err := r.postJournalInTx(ctx, tx, &journal, lines, cashDeltas); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// MarkInstallmentsOverdue flips pending installments past their due date to
// overdue and returns the number of rows transitioned.
func (r *PgxLoanRepository) MarkInstallmentsOverdue(ctx context.Context, asOf time.Time) (int64, error) {
	query := `
		UPDATE installments
		SET status = 'OVERDUE',
		    last_updated_at = $1
		WHERE status = 'PENDING' AND due_date < $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, asOf)
	if err != nil {
		return 0, fmt.Errorf("failed to mark installments overdue: %w", err)
	}
	return cmdTag.RowsAffected(), nil
}

// LockLoanInTx retrieves a loan row FOR UPDATE.
func (r *PgxLoanRepository) LockLoanInTx(ctx context.Context, tx pgx.Tx, loanID string) (*domain.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE loan_id = $1 FOR UPDATE;`
	m, err := scanLoan(tx.QueryRow(ctx, query, loanID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to lock loan %s: %w", loanID, err)
	}
	loan := mapping.ToDomainLoan(m)
	return &loan, nil
}

// UpdateLoanInTx persists loan state using the given transaction.
func (r *PgxLoanRepository) UpdateLoanInTx(ctx context.Context, tx pgx.Tx, loan domain.Loan) error {
	m := mapping.ToModelLoan(loan)
	query := `
		UPDATE loans
		SET installment_amount = $2,
		    remaining_principal = $3,
		    status = $4,
		    disbursed_at = $5,
		    early_settlement = $6,
		    settlement_amount = $7,
		    settled_at = $8,
		    last_updated_at = $9,
		    last_updated_by = $10
		WHERE loan_id = $1;
	`
	cmdTag, err := tx.Exec(ctx, query,
		m.LoanID,
		m.InstallmentAmount,
		m.RemainingPrincipal,
		m.Status,
		m.DisbursedAt,
		m.EarlySettlement,
		m.SettlementAmount,
		m.SettledAt,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update loan %s: %w", m.LoanID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// ApplyLoanPaymentInTx reduces a loan's remaining principal by the given
// delta using the given transaction. The new status is derived from the
// stored row, not from the caller's read: a loan that reaches zero is paid
// off, a disbursed loan becomes active.
func (r *PgxLoanRepository) ApplyLoanPaymentInTx(ctx context.Context, tx pgx.Tx, loanID string, principalDelta decimal.Decimal, actorID string, at time.Time) error {
	query := `
		UPDATE loans
		SET remaining_principal = remaining_principal - $2,
		    status = CASE
		        WHEN remaining_principal - $2 = 0 THEN 'PAID_OFF'
		        WHEN status = 'DISBURSED' THEN 'ACTIVE'
		        ELSE status
		    END,
		    last_updated_at = $3,
		    last_updated_by = $4
		WHERE loan_id = $1 AND remaining_principal >= $2;
	`
	cmdTag, err := tx.Exec(ctx, query, loanID, principalDelta, at, actorID)
	if err != nil {
		return fmt.Errorf("failed to apply payment to loan %s: %w", loanID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("payment of %s exceeds remaining principal of loan %s: %w", principalDelta.String(), loanID, apperrors.ErrConflict)
	}
	return nil
}

// ApplyInstallmentPaymentInTx persists installment payment state using the
// given transaction. The status guard refuses to touch an installment that
// was settled concurrently; the paid-amount guard refuses a write whose
// interest/principal split was computed from a paid amount that has since
// moved.
func (r *PgxLoanRepository) ApplyInstallmentPaymentInTx(ctx context.Context, tx pgx.Tx, payment portsrepo.InstallmentPayment) error {
	m := mapping.ToModelInstallment(payment.Installment)
	query := `
		UPDATE installments
		SET paid_amount = $2,
		    status = $3,
		    paid_at = $4,
		    confirmed_by = $5,
		    last_updated_at = $6,
		    last_updated_by = $7
		WHERE installment_id = $1
		  AND status IN ('PENDING', 'OVERDUE', 'MANUAL_PENDING')
		  AND paid_amount = $8;
	`
	cmdTag, err := tx.Exec(ctx, query,
		m.InstallmentID,
		m.PaidAmount,
		m.Status,
		m.PaidAt,
		m.ConfirmedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
		payment.PriorPaidAmount,
	)
	if err != nil {
		return fmt.Errorf("failed to update installment %s: %w", m.InstallmentID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("installment %s: %w", m.InstallmentID, apperrors.ErrAlreadyPaid)
	}
	return nil
}

// FindLoanByID retrieves a loan by its ID, without its schedule.
func (r *PgxLoanRepository) FindLoanByID(ctx context.Context, loanID string) (*domain.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE loan_id = $1;`
	m, err := scanLoan(r.Pool.QueryRow(ctx, query, loanID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find loan by ID %s: %w", loanID, err)
	}
	loan := mapping.ToDomainLoan(m)
	return &loan, nil
}

// ListLoansByMember retrieves all loans of one member, newest first.
func (r *PgxLoanRepository) ListLoansByMember(ctx context.Context, memberID string) ([]domain.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE member_id = $1 ORDER BY created_at DESC;`
	return r.queryLoans(ctx, query, memberID)
}

// ListOpenDeductionLoans retrieves a member's disbursed or active loans
// collected via any of the given deduction methods, oldest first so older
// loans are deducted before newer ones.
func (r *PgxLoanRepository) ListOpenDeductionLoans(ctx context.Context, memberID string, methods []domain.DeductionMethod) ([]domain.Loan, error) {
	methodStrs := make([]string, 0, len(methods))
	for _, m := range methods {
		methodStrs = append(methodStrs, string(m))
	}
	query := `
		SELECT ` + loanColumns + `
		FROM loans
		WHERE member_id = $1
		  AND status IN ('DISBURSED', 'ACTIVE')
		  AND deduction_method = ANY($2)
		ORDER BY disbursed_at;
	`
	return r.queryLoans(ctx, query, memberID, methodStrs)
}

func (r *PgxLoanRepository) queryLoans(ctx context.Context, query string, args ...any) ([]domain.Loan, error) {
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query loans: %w", err)
	}
	defer rows.Close()

	loans := []domain.Loan{}
	for rows.Next() {
		m, err := scanLoan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan loan row: %w", err)
		}
		loans = append(loans, mapping.ToDomainLoan(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating loan rows: %w", err)
	}
	return loans, nil
}

// FindInstallmentByID retrieves one installment.
func (r *PgxLoanRepository) FindInstallmentByID(ctx context.Context, installmentID string) (*domain.Installment, error) {
	query := `SELECT ` + installmentColumns + ` FROM installments WHERE installment_id = $1;`
	m, err := scanInstallment(r.Pool.QueryRow(ctx, query, installmentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find installment by ID %s: %w", installmentID, err)
	}
	inst := mapping.ToDomainInstallment(m)
	return &inst, nil
}

// ListInstallmentsByLoanID retrieves a loan's schedule ordered by number.
func (r *PgxLoanRepository) ListInstallmentsByLoanID(ctx context.Context, loanID string) ([]domain.Installment, error) {
	query := `SELECT ` + installmentColumns + ` FROM installments WHERE loan_id = $1 ORDER BY number;`
	return r.queryInstallments(ctx, query, loanID)
}

// ListPayableInstallmentsDueBetween retrieves still-payable installments of a
// loan with due dates inside [from, to], ordered by number.
func (r *PgxLoanRepository) ListPayableInstallmentsDueBetween(ctx context.Context, loanID string, from, to time.Time) ([]domain.Installment, error) {
	query := `
		SELECT ` + installmentColumns + `
		FROM installments
		WHERE loan_id = $1
		  AND status IN ('PENDING', 'OVERDUE', 'MANUAL_PENDING')
		  AND due_date >= $2 AND due_date <= $3
		ORDER BY number;
	`
	return r.queryInstallments(ctx, query, loanID, from, to)
}

func (r *PgxLoanRepository) queryInstallments(ctx context.Context, query string, args ...any) ([]domain.Installment, error) {
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query installments: %w", err)
	}
	defer rows.Close()

	modelInsts := []models.Installment{}
	for rows.Next() {
		m, err := scanInstallment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan installment row: %w", err)
		}
		modelInsts = append(modelInsts, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating installment rows: %w", err)
	}
	return mapping.ToDomainInstallments(modelInsts), nil
}

// insertInstallmentsInTx batch inserts a loan's schedule.
func (r *PgxLoanRepository) insertInstallmentsInTx(ctx context.Context, tx pgx.Tx, installments []domain.Installment) error {
	query := `
		INSERT INTO installments (` + installmentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);
	`
	batch := &pgx.Batch{}
	for _, inst := range installments {
		m := mapping.ToModelInstallment(inst)
		batch.Queue(query,
			m.InstallmentID,
			m.LoanID,
			m.Number,
			m.DueDate,
			m.PrincipalPortion,
			m.InterestPortion,
			m.TotalAmount,
			m.PaidAmount,
			m.Status,
			m.PaidAt,
			m.ConfirmedBy,
			m.CreatedAt,
			m.CreatedBy,
			m.LastUpdatedAt,
			m.LastUpdatedBy,
		)
	}
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to insert installments: %w", err)
	}
	return nil
}

// postJournalInTx posts a journal with its lines and cash deltas inside the
// caller's transaction. A nil journal is a no-op.
func (r *PgxLoanRepository) postJournalInTx(ctx context.Context, tx pgx.Tx, journal *domain.Journal, lines []domain.JournalLine, cashDeltas map[string]decimal.Decimal) error {
	if journal == nil {
		return nil
	}
	if journal.JournalNumber == "" {
		number, err := r.journalRepo.NextJournalNumberInTx(ctx, tx, journal.JournalDate)
		if err != nil {
			return err
		}
		journal.JournalNumber = number
	}
	if err := r.journalRepo.InsertJournalInTx(ctx, tx, *journal, lines); err != nil {
		return err
	}
	if len(cashDeltas) == 0 {
		return nil
	}
	ids := make([]string, 0, len(cashDeltas))
	for id := range cashDeltas {
		ids = append(ids, id)
	}
	if _, err := r.cashAccountRepo.LockCashAccountsInTx(ctx, tx, ids); err != nil {
		return err
	}
	return r.cashAccountRepo.ApplyCashDeltasInTx(ctx, tx, cashDeltas, journal.CreatedBy, journal.CreatedAt)
}
