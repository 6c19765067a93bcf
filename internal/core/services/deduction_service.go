package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/KopSinergi/koperasi_backend/internal/apperrors"
	"github.com/KopSinergi/koperasi_backend/internal/core/domain"
	portsrepo "github.com/KopSinergi/koperasi_backend/internal/core/ports/repositories"
	portssvc "github.com/KopSinergi/koperasi_backend/internal/core/ports/services"
	"github.com/KopSinergi/koperasi_backend/internal/dto"
	"github.com/KopSinergi/koperasi_backend/internal/middleware"
)

// deductionService runs monthly payroll deductions: it collects due
// installments out of a member's salary or service allowance and records an
// immutable snapshot per run.
type deductionService struct {
	deductionRepo   portsrepo.DeductionRepositoryFacade
	loanRepo        portsrepo.LoanRepositoryFacade
	cashAccountRepo portsrepo.CashAccountRepositoryFacade
	accountRepo     portsrepo.ChartOfAccountRepositoryFacade
	memberRepo      portsrepo.MemberRepositoryFacade
	journalSvc      portssvc.JournalSvcFacade
}

// NewDeductionService creates a new payroll deduction service.
func NewDeductionService(deductionRepo portsrepo.DeductionRepositoryFacade, loanRepo portsrepo.LoanRepositoryFacade, cashAccountRepo portsrepo.CashAccountRepositoryFacade, accountRepo portsrepo.ChartOfAccountRepositoryFacade, memberRepo portsrepo.MemberRepositoryFacade, journalSvc portssvc.JournalSvcFacade) portssvc.DeductionSvcFacade {
	return &deductionService{
		deductionRepo:   deductionRepo,
		loanRepo:        loanRepo,
		cashAccountRepo: cashAccountRepo,
		accountRepo:     accountRepo,
		memberRepo:      memberRepo,
		journalSvc:      journalSvc,
	}
}

var _ portssvc.DeductionSvcFacade = (*deductionService)(nil)

// DistributeSalaryDeduction runs the salary deduction for one member and
// month, covering loans collected from salary or the salary share of mixed
// loans.
func (s *deductionService) DistributeSalaryDeduction(ctx context.Context, req dto.DistributeDeductionRequest, actorID string) (*domain.SalaryDeduction, error) {
	return s.distribute(ctx, req, domain.RunSalary, actorID)
}

// DistributeServiceAllowanceDeduction is the companion run collecting from
// the service allowance.
func (s *deductionService) DistributeServiceAllowanceDeduction(ctx context.Context, req dto.DistributeDeductionRequest, actorID string) (*domain.SalaryDeduction, error) {
	return s.distribute(ctx, req, domain.RunServiceAllowance, actorID)
}

// deductionShare is the amount one run may take from an installment. Pure
// single-method loans surrender the full outstanding amount; mixed loans
// surrender their configured percentage of the installment's face value,
// capped by what is still outstanding.
func deductionShare(loan domain.Loan, inst domain.Installment, runType domain.DeductionRunType) decimal.Decimal {
	outstanding := inst.Outstanding()
	if loan.DeductionMethod != domain.DeductionMixed {
		return outstanding
	}
	pct := loan.SalaryDeductionPercent
	if runType == domain.RunServiceAllowance {
		pct = loan.AllowanceDeductionPercent
	}
	share := inst.TotalAmount.Mul(pct).Div(oneHundred).Round(0)
	return decimal.Min(share, outstanding)
}

func (s *deductionService) distribute(ctx context.Context, req dto.DistributeDeductionRequest, runType domain.DeductionRunType, actorID string) (*domain.SalaryDeduction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	member, err := s.memberRepo.FindMemberByID(ctx, req.MemberID)
	if err != nil {
		return nil, fmt.Errorf("member %s: %w", req.MemberID, err)
	}
	if !member.IsActive {
		return nil, fmt.Errorf("%w: member %s is inactive", apperrors.ErrValidation, member.MemberNumber)
	}

	exists, err := s.deductionRepo.ExistsForPeriod(ctx, req.MemberID, req.Month, req.Year, runType)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%s run for member %s %d-%02d: %w", runType, member.MemberNumber, req.Year, req.Month, apperrors.ErrDuplicate)
	}

	cash, err := s.cashAccountRepo.FindCashAccountByID(ctx, req.CashAccountID)
	if err != nil {
		return nil, fmt.Errorf("cash account %s: %w", req.CashAccountID, err)
	}
	if !cash.IsActive {
		return nil, fmt.Errorf("cash account %s: %w", cash.Code, apperrors.ErrAccountInactive)
	}

	methods := []domain.DeductionMethod{domain.DeductionSalary, domain.DeductionMixed}
	if runType == domain.RunServiceAllowance {
		methods = []domain.DeductionMethod{domain.DeductionServiceAllowance, domain.DeductionMixed}
	}
	loans, err := s.loanRepo.ListOpenDeductionLoans(ctx, req.MemberID, methods)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	// Anything due up to the end of the payroll month is collected, so
	// overdue installments from earlier months catch up here.
	monthEnd := time.Date(req.Year, time.Month(req.Month)+1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)

	totalDeducted := decimal.Zero
	totalInterest := decimal.Zero
	totalPrincipal := decimal.Zero
	paidInstallmentIDs := []string{}
	payments := []portsrepo.InstallmentPayment{}
	// New balances and statuses of the touched loans are derived inside the
	// run's transaction from the locked rows; only the deltas travel there.
	loanPrincipalDeltas := map[string]decimal.Decimal{}

	for i := range loans {
		loan := loans[i]
		due, err := s.loanRepo.ListPayableInstallmentsDueBetween(ctx, loan.LoanID, time.Time{}, monthEnd)
		if err != nil {
			return nil, err
		}

		for _, inst := range due {
			amount := deductionShare(loan, inst, runType)
			if !amount.IsPositive() {
				continue
			}

			interestPart, principalPart := splitPayment(inst, amount)

			priorPaid := inst.PaidAmount
			inst.PaidAmount = inst.PaidAmount.Add(amount)
			inst.LastUpdatedAt = now
			inst.LastUpdatedBy = actorID
			if inst.Outstanding().IsZero() {
				inst.Status = domain.InstallmentAutoPaid
				inst.PaidAt = &now
				inst.ConfirmedBy = &actorID
			} else {
				// The other run, or a manual payment, covers the rest.
				inst.Status = domain.InstallmentManualPending
			}

			loanPrincipalDeltas[loan.LoanID] = loanPrincipalDeltas[loan.LoanID].Add(principalPart)

			totalDeducted = totalDeducted.Add(amount)
			totalInterest = totalInterest.Add(interestPart)
			totalPrincipal = totalPrincipal.Add(principalPart)
			paidInstallmentIDs = append(paidInstallmentIDs, inst.InstallmentID)
			payments = append(payments, portsrepo.InstallmentPayment{Installment: inst, PriorPaidAmount: priorPaid})
		}
	}

	netSalary := req.GrossSalary.Sub(totalDeducted).Sub(req.SavingsDeduction).Sub(req.OtherDeduction)
	if netSalary.IsNegative() {
		return nil, fmt.Errorf("%w: deductions %s exceed gross salary %s", apperrors.ErrValidation,
			totalDeducted.Add(req.SavingsDeduction).Add(req.OtherDeduction).String(), req.GrossSalary.String())
	}

	deduction := domain.SalaryDeduction{
		DeductionID:      uuid.NewString(),
		MemberID:         req.MemberID,
		Month:            req.Month,
		Year:             req.Year,
		RunType:          runType,
		GrossSalary:      req.GrossSalary,
		LoanDeduction:    totalDeducted,
		SavingsDeduction: req.SavingsDeduction,
		OtherDeduction:   req.OtherDeduction,
		NetSalary:        netSalary,
		PaidInstallments: paidInstallmentIDs,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}

	var journal *domain.Journal
	var lines []domain.JournalLine
	var cashDeltas map[string]decimal.Decimal
	if totalDeducted.IsPositive() {
		receivable, err := s.accountRepo.FindAccountByCode(ctx, domain.CodeLoanReceivable)
		if err != nil {
			return nil, fmt.Errorf("loan receivable account %s: %w", domain.CodeLoanReceivable, err)
		}
		journalLines := []domain.JournalLine{
			{AccountID: cash.LedgerAccount, Debit: totalDeducted},
		}
		if totalInterest.IsPositive() {
			income, err := s.accountRepo.FindAccountByCode(ctx, domain.CodeInterestIncome)
			if err != nil {
				return nil, fmt.Errorf("interest income account %s: %w", domain.CodeInterestIncome, err)
			}
			journalLines = append(journalLines, domain.JournalLine{AccountID: income.AccountID, Credit: totalInterest})
		}
		if totalPrincipal.IsPositive() {
			journalLines = append(journalLines, domain.JournalLine{AccountID: receivable.AccountID, Credit: totalPrincipal})
		}

		draft := portssvc.JournalDraft{
			Date:          now,
			Type:          domain.SpecialJournal,
			Description:   fmt.Sprintf("%s deduction for member %s, %d-%02d", runType, member.MemberNumber, req.Year, req.Month),
			AutoGenerated: true,
			Source:        domain.SourceRef{Kind: domain.SourceSalaryDeduction, ID: deduction.DeductionID},
			Lines:         journalLines,
		}
		journal, lines, err = s.journalSvc.BuildJournal(ctx, draft, actorID)
		if err != nil {
			return nil, err
		}
		cashDeltas = map[string]decimal.Decimal{cash.CashAccountID: totalDeducted}
	}

	if err := s.deductionRepo.SaveDeductionRun(ctx, deduction, payments, loanPrincipalDeltas, journal, lines, cashDeltas); err != nil {
		logger.Error("Failed to save deduction run", slog.String("error", err.Error()), slog.String("member_id", req.MemberID))
		return nil, err
	}

	logger.Info("Deduction run completed",
		slog.String("deduction_id", deduction.DeductionID),
		slog.String("run_type", string(runType)),
		slog.String("member_id", req.MemberID),
		slog.String("loan_deduction", totalDeducted.String()),
		slog.Int("installments_paid", len(paidInstallmentIDs)),
	)
	return &deduction, nil
}

// GetDeductionByID retrieves one deduction snapshot.
func (s *deductionService) GetDeductionByID(ctx context.Context, deductionID string) (*domain.SalaryDeduction, error) {
	return s.deductionRepo.FindDeductionByID(ctx, deductionID)
}

// ListDeductionsByMember retrieves a member's snapshots.
func (s *deductionService) ListDeductionsByMember(ctx context.Context, memberID string) ([]domain.SalaryDeduction, error) {
	return s.deductionRepo.ListDeductionsByMember(ctx, memberID)
}
