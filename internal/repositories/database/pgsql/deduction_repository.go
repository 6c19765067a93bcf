package pgsql

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/KopSinergi/koperasi_backend/internal/apperrors"
	"github.com/KopSinergi/koperasi_backend/internal/core/domain"
	portsrepo "github.com/KopSinergi/koperasi_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PgxDeductionRepository struct {
	BaseRepository
	journalRepo     portsrepo.JournalTxOps
	cashAccountRepo portsrepo.CashAccountTxOps
	loanRepo        portsrepo.LoanTxOps
}

// newPgxDeductionRepository creates a new repository for payroll deduction runs.
func newPgxDeductionRepository(pool *pgxpool.Pool, journalRepo portsrepo.JournalTxOps, cashAccountRepo portsrepo.CashAccountTxOps, loanRepo portsrepo.LoanTxOps) portsrepo.DeductionRepositoryFacade {
	return &PgxDeductionRepository{
		BaseRepository:  BaseRepository{Pool: pool},
		journalRepo:     journalRepo,
		cashAccountRepo: cashAccountRepo,
		loanRepo:        loanRepo,
	}
}

var _ portsrepo.DeductionRepositoryFacade = (*PgxDeductionRepository)(nil)

const deductionColumns = `deduction_id, member_id, month, year, run_type, gross_salary,
	loan_deduction, savings_deduction, other_deduction, net_salary, paid_installment_ids,
	created_at, created_by, last_updated_at, last_updated_by`

func scanDeduction(row pgx.Row) (domain.SalaryDeduction, error) {
	var d domain.SalaryDeduction
	err := row.Scan(
		&d.DeductionID,
		&d.MemberID,
		&d.Month,
		&d.Year,
		&d.RunType,
		&d.GrossSalary,
		&d.LoanDeduction,
		&d.SavingsDeduction,
		&d.OtherDeduction,
		&d.NetSalary,
		&d.PaidInstallments,
		&d.CreatedAt,
		&d.CreatedBy,
		&d.LastUpdatedAt,
		&d.LastUpdatedBy,
	)
	return d, err
}

// SaveDeductionRun persists one payroll deduction run atomically: the
// snapshot row, the installment payments it funded, the per-loan principal
// reductions, the aggregate journal and the cash delta. The snapshot is
// inserted first so the unique constraint on (member, month, year, run type)
// aborts a duplicate run before any loan state changes. Loans are locked in
// loan ID order so overlapping runs cannot deadlock, and their balances are
// reduced relative to the locked rows so a manual payment landing between the
// run's reads and this transaction is never overwritten.
func (r *PgxDeductionRepository) SaveDeductionRun(ctx context.Context, deduction domain.SalaryDeduction, payments []portsrepo.InstallmentPayment, loanPrincipalDeltas map[string]decimal.Decimal, journal *domain.Journal, lines []domain.JournalLine, cashDeltas map[string]decimal.Decimal) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	insertQuery := `
		INSERT INTO salary_deductions (` + deductionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);
	`
	_, err = tx.Exec(ctx, insertQuery,
		deduction.DeductionID,
		deduction.MemberID,
		deduction.Month,
		deduction.Year,
		deduction.RunType,
		deduction.GrossSalary,
		deduction.LoanDeduction,
		deduction.SavingsDeduction,
		deduction.OtherDeduction,
		deduction.NetSalary,
		deduction.PaidInstallments,
		deduction.CreatedAt,
		deduction.CreatedBy,
		deduction.LastUpdatedAt,
		deduction.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("deduction run for member %s %d-%02d: %w", deduction.MemberID, deduction.Year, deduction.Month, apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to insert deduction %s: %w", deduction.DeductionID, err)
	}

	loanIDs := make([]string, 0, len(loanPrincipalDeltas))
	for loanID := range loanPrincipalDeltas {
		loanIDs = append(loanIDs, loanID)
	}
	sort.Strings(loanIDs)

	for _, loanID := range loanIDs {
		current, err := r.loanRepo.LockLoanInTx(ctx, tx, loanID)
		if err != nil {
			return err
		}
		if current.Status != domain.LoanDisbursed && current.Status != domain.LoanActive {
			return fmt.Errorf("loan %s is %s: %w", loanID, current.Status, apperrors.ErrNotActive)
		}
		if err := r.loanRepo.ApplyLoanPaymentInTx(ctx, tx, loanID, loanPrincipalDeltas[loanID], deduction.CreatedBy, deduction.CreatedAt); err != nil {
			return err
		}
	}
	for _, p := range payments {
		if err := r.loanRepo.ApplyInstallmentPaymentInTx(ctx, tx, p); err != nil {
			return err
		}
	}

	if journal != nil {
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
		if len(cashDeltas) > 0 {
			ids := make([]string, 0, len(cashDeltas))
			for id := range cashDeltas {
				ids = append(ids, id)
			}
			if _, err := r.cashAccountRepo.LockCashAccountsInTx(ctx, tx, ids); err != nil {
				return err
			}
			if err := r.cashAccountRepo.ApplyCashDeltasInTx(ctx, tx, cashDeltas, journal.CreatedBy, journal.CreatedAt); err != nil {
				return err
			}
		}
	}

	return r.Commit(ctx, tx)
}

// FindDeductionByID retrieves a deduction snapshot.
func (r *PgxDeductionRepository) FindDeductionByID(ctx context.Context, deductionID string) (*domain.SalaryDeduction, error) {
	query := `SELECT ` + deductionColumns + ` FROM salary_deductions WHERE deduction_id = $1;`
	d, err := scanDeduction(r.Pool.QueryRow(ctx, query, deductionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find deduction by ID %s: %w", deductionID, err)
	}
	return &d, nil
}

// ExistsForPeriod reports whether a snapshot already exists for the member,
// month, year and run type.
func (r *PgxDeductionRepository) ExistsForPeriod(ctx context.Context, memberID string, month, year int, runType domain.DeductionRunType) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM salary_deductions
			WHERE member_id = $1 AND month = $2 AND year = $3 AND run_type = $4
		);
	`
	var exists bool
	if err := r.Pool.QueryRow(ctx, query, memberID, month, year, runType).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check deduction existence for member %s: %w", memberID, err)
	}
	return exists, nil
}

// ListDeductionsByMember retrieves a member's snapshots, newest first.
func (r *PgxDeductionRepository) ListDeductionsByMember(ctx context.Context, memberID string) ([]domain.SalaryDeduction, error) {
	query := `
		SELECT ` + deductionColumns + `
		FROM salary_deductions
		WHERE member_id = $1
		ORDER BY year DESC, month DESC, run_type;
	`
	rows, err := r.Pool.Query(ctx, query, memberID)
	if err != nil {
		return nil, fmt.Errorf("failed to query deductions for member %s: %w", memberID, err)
	}
	defer rows.Close()

	deductions := []domain.SalaryDeduction{}
	for rows.Next() {
		d, err := scanDeduction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan deduction row: %w", err)
		}
		deductions = append(deductions, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating deduction rows: %w", err)
	}
	return deductions, nil
}
