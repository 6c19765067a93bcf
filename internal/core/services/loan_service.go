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
	"github.com/KopSinergi/koperasi_backend/internal/utils/accounting"
)

var oneHundred = decimal.NewFromInt(100)

// loanService manages the loan lifecycle from application to payoff.
type loanService struct {
	loanRepo        portsrepo.LoanRepositoryFacade
	cashAccountRepo portsrepo.CashAccountRepositoryFacade
	accountRepo     portsrepo.ChartOfAccountRepositoryFacade
	memberRepo      portsrepo.MemberRepositoryFacade
	journalSvc      portssvc.JournalSvcFacade
}

// NewLoanService creates a new loan service.
func NewLoanService(loanRepo portsrepo.LoanRepositoryFacade, cashAccountRepo portsrepo.CashAccountRepositoryFacade, accountRepo portsrepo.ChartOfAccountRepositoryFacade, memberRepo portsrepo.MemberRepositoryFacade, journalSvc portssvc.JournalSvcFacade) portssvc.LoanSvcFacade {
	return &loanService{
		loanRepo:        loanRepo,
		cashAccountRepo: cashAccountRepo,
		accountRepo:     accountRepo,
		memberRepo:      memberRepo,
		journalSvc:      journalSvc,
	}
}

var _ portssvc.LoanSvcFacade = (*loanService)(nil)

// CalculateInstallment previews the fixed monthly installment.
func (s *loanService) CalculateInstallment(ctx context.Context, principal, annualRatePercent decimal.Decimal, months int) (decimal.Decimal, error) {
	return accounting.ComputeInstallment(principal, annualRatePercent, months)
}

// ApplyLoan registers a new loan application in the pending state.
func (s *loanService) ApplyLoan(ctx context.Context, req dto.ApplyLoanRequest, creatorID string) (*domain.Loan, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	// Validates principal, rate and tenure in one place.
	if _, err := accounting.ComputeInstallment(req.Principal, req.AnnualRatePercent, req.TenureMonths); err != nil {
		return nil, err
	}

	member, err := s.memberRepo.FindMemberByID(ctx, req.MemberID)
	if err != nil {
		return nil, fmt.Errorf("member %s: %w", req.MemberID, err)
	}
	if !member.IsActive {
		return nil, fmt.Errorf("%w: member %s is inactive", apperrors.ErrValidation, member.MemberNumber)
	}

	method := domain.DeductionMethod(req.DeductionMethod)
	if method == "" {
		method = domain.DeductionNone
	}
	salaryPct := req.SalaryDeductionPercent
	allowancePct := req.AllowanceDeductionPercent
	switch method {
	case domain.DeductionNone:
		salaryPct, allowancePct = decimal.Zero, decimal.Zero
	case domain.DeductionSalary:
		salaryPct, allowancePct = oneHundred, decimal.Zero
	case domain.DeductionServiceAllowance:
		salaryPct, allowancePct = decimal.Zero, oneHundred
	case domain.DeductionMixed:
		if !salaryPct.IsPositive() || !allowancePct.IsPositive() {
			return nil, fmt.Errorf("%w: mixed deduction requires both percentages", apperrors.ErrValidation)
		}
		if !salaryPct.Add(allowancePct).Equal(oneHundred) {
			return nil, fmt.Errorf("%w: deduction percentages must sum to 100", apperrors.ErrValidation)
		}
	}

	now := time.Now().UTC()
	loan := domain.Loan{
		LoanID:                    uuid.NewString(),
		MemberID:                  req.MemberID,
		Principal:                 req.Principal,
		AnnualRatePercent:         req.AnnualRatePercent,
		TenureMonths:              req.TenureMonths,
		InstallmentAmount:         decimal.Zero, // Frozen at disbursement
		RemainingPrincipal:        req.Principal,
		Status:                    domain.LoanPending,
		DeductionMethod:           method,
		SalaryDeductionPercent:    salaryPct,
		AllowanceDeductionPercent: allowancePct,
		SettlementAmount:          decimal.Zero,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorID,
		},
	}

	if err := s.loanRepo.SaveLoan(ctx, loan); err != nil {
		logger.Error("Failed to save loan", slog.String("error", err.Error()), slog.String("member_id", req.MemberID))
		return nil, err
	}

	logger.Info("Loan application created",
		slog.String("loan_id", loan.LoanID),
		slog.String("member_id", loan.MemberID),
		slog.String("principal", loan.Principal.String()),
	)
	return &loan, nil
}

// ApproveLoan transitions a pending loan to approved.
func (s *loanService) ApproveLoan(ctx context.Context, loanID string, approverID string) (*domain.Loan, error) {
	return s.decideLoan(ctx, loanID, domain.LoanApproved, approverID)
}

// RejectLoan transitions a pending loan to rejected.
func (s *loanService) RejectLoan(ctx context.Context, loanID string, approverID string) (*domain.Loan, error) {
	return s.decideLoan(ctx, loanID, domain.LoanRejected, approverID)
}

func (s *loanService) decideLoan(ctx context.Context, loanID string, status domain.LoanStatus, approverID string) (*domain.Loan, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.loanRepo.UpdateLoanDecision(ctx, loanID, status, approverID, time.Now().UTC()); err != nil {
		return nil, err
	}
	logger.Info("Loan decision recorded", slog.String("loan_id", loanID), slog.String("status", string(status)))
	return s.loanRepo.FindLoanByID(ctx, loanID)
}

// DisburseLoan activates an approved loan: the installment amount is computed
// and frozen, the schedule generated, the principal paid out of the cash
// account and the disbursement journal posted, all atomically.
func (s *loanService) DisburseLoan(ctx context.Context, loanID string, req dto.DisburseLoanRequest, actorID string) (*domain.Loan, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	loan, err := s.loanRepo.FindLoanByID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	if loan.Status != domain.LoanApproved {
		return nil, fmt.Errorf("loan %s is %s: %w", loanID, loan.Status, apperrors.ErrAlreadyDisbursed)
	}

	cash, err := s.cashAccountRepo.FindCashAccountByID(ctx, req.CashAccountID)
	if err != nil {
		return nil, fmt.Errorf("cash account %s: %w", req.CashAccountID, err)
	}
	if !cash.IsActive {
		return nil, fmt.Errorf("cash account %s: %w", cash.Code, apperrors.ErrAccountInactive)
	}

	installmentAmount, err := accounting.ComputeInstallment(loan.Principal, loan.AnnualRatePercent, loan.TenureMonths)
	if err != nil {
		return nil, err
	}
	schedule, err := accounting.BuildSchedule(loan.Principal, loan.AnnualRatePercent, loan.TenureMonths, installmentAmount, req.Date)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	audit := domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     actorID,
		LastUpdatedAt: now,
		LastUpdatedBy: actorID,
	}
	installments := make([]domain.Installment, len(schedule))
	for i, entry := range schedule {
		installments[i] = domain.Installment{
			InstallmentID:    uuid.NewString(),
			LoanID:           loan.LoanID,
			Number:           entry.Number,
			DueDate:          entry.DueDate,
			PrincipalPortion: entry.PrincipalPortion,
			InterestPortion:  entry.InterestPortion,
			TotalAmount:      entry.TotalAmount,
			PaidAmount:       decimal.Zero,
			Status:           domain.InstallmentPending,
			AuditFields:      audit,
		}
	}

	receivable, err := s.accountRepo.FindAccountByCode(ctx, domain.CodeLoanReceivable)
	if err != nil {
		return nil, fmt.Errorf("loan receivable account %s: %w", domain.CodeLoanReceivable, err)
	}

	draft := portssvc.JournalDraft{
		Date:          req.Date,
		Type:          domain.SpecialJournal,
		Description:   "Loan disbursement " + loan.LoanID,
		AutoGenerated: true,
		Source:        domain.SourceRef{Kind: domain.SourceLoanDisbursement, ID: loan.LoanID},
		Lines: []domain.JournalLine{
			{AccountID: receivable.AccountID, Debit: loan.Principal},
			{AccountID: cash.LedgerAccount, Credit: loan.Principal},
		},
	}
	journal, lines, err := s.journalSvc.BuildJournal(ctx, draft, actorID)
	if err != nil {
		return nil, err
	}
	cashDeltas := map[string]decimal.Decimal{cash.CashAccountID: loan.Principal.Neg()}

	disbursedAt := req.Date
	loan.InstallmentAmount = installmentAmount
	loan.RemainingPrincipal = loan.Principal
	loan.Status = domain.LoanDisbursed
	loan.DisbursedAt = &disbursedAt
	loan.LastUpdatedAt = now
	loan.LastUpdatedBy = actorID

	if err := s.loanRepo.DisburseLoan(ctx, *loan, installments, *journal, lines, cashDeltas); err != nil {
		logger.Error("Failed to disburse loan", slog.String("error", err.Error()), slog.String("loan_id", loanID))
		return nil, err
	}

	logger.Info("Loan disbursed",
		slog.String("loan_id", loan.LoanID),
		slog.String("installment_amount", installmentAmount.String()),
		slog.String("cash_account_id", cash.CashAccountID),
	)
	loan.Installments = installments
	return loan, nil
}

// GetLoanByID retrieves a loan with its schedule.
func (s *loanService) GetLoanByID(ctx context.Context, loanID string) (*domain.Loan, error) {
	loan, err := s.loanRepo.FindLoanByID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	installments, err := s.loanRepo.ListInstallmentsByLoanID(ctx, loanID)
	if err != nil {
		return nil, fmt.Errorf("failed to load schedule for loan %s: %w", loanID, err)
	}
	loan.Installments = installments
	return loan, nil
}

// ListLoansByMember retrieves all loans of one member.
func (s *loanService) ListLoansByMember(ctx context.Context, memberID string) ([]domain.Loan, error) {
	return s.loanRepo.ListLoansByMember(ctx, memberID)
}

// splitPayment allocates a payment across an installment's interest and
// principal, interest first. Earlier partial payments are assumed to have
// followed the same allocation.
func splitPayment(inst domain.Installment, amount decimal.Decimal) (interestPart, principalPart decimal.Decimal) {
	interestCovered := decimal.Min(inst.PaidAmount, inst.InterestPortion)
	interestRemaining := inst.InterestPortion.Sub(interestCovered)
	interestPart = decimal.Min(amount, interestRemaining)
	principalPart = amount.Sub(interestPart)
	return interestPart, principalPart
}

// PayInstallment records a payment against one installment. A zero request
// amount pays the full outstanding balance; a smaller amount leaves the
// installment partially paid until later payments cover it.
func (s *loanService) PayInstallment(ctx context.Context, installmentID string, req dto.PayInstallmentRequest, confirmedByID string) (*domain.Installment, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	inst, err := s.loanRepo.FindInstallmentByID(ctx, installmentID)
	if err != nil {
		return nil, err
	}
	if !inst.Status.IsPayable() {
		return nil, fmt.Errorf("installment %d of loan %s: %w", inst.Number, inst.LoanID, apperrors.ErrAlreadyPaid)
	}

	loan, err := s.loanRepo.FindLoanByID(ctx, inst.LoanID)
	if err != nil {
		return nil, err
	}
	if loan.Status != domain.LoanDisbursed && loan.Status != domain.LoanActive {
		return nil, fmt.Errorf("loan %s is %s: %w", loan.LoanID, loan.Status, apperrors.ErrNotActive)
	}

	outstanding := inst.Outstanding()
	amount := req.Amount
	if amount.IsZero() {
		amount = outstanding
	}
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: payment amount must be positive", apperrors.ErrValidation)
	}
	if amount.GreaterThan(outstanding) {
		return nil, fmt.Errorf("%w: payment %s exceeds outstanding %s", apperrors.ErrValidation, amount.String(), outstanding.String())
	}

	cash, err := s.cashAccountRepo.FindCashAccountByID(ctx, req.CashAccountID)
	if err != nil {
		return nil, fmt.Errorf("cash account %s: %w", req.CashAccountID, err)
	}
	if !cash.IsActive {
		return nil, fmt.Errorf("cash account %s: %w", cash.Code, apperrors.ErrAccountInactive)
	}

	interestPart, principalPart := splitPayment(*inst, amount)

	journal, lines, cashDeltas, err := s.buildPaymentJournal(ctx, cash, amount, interestPart, principalPart,
		fmt.Sprintf("Installment %d payment for loan %s", inst.Number, loan.LoanID),
		domain.SourceRef{Kind: domain.SourceInstallmentPayment, ID: inst.InstallmentID},
		time.Now().UTC(), confirmedByID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	priorPaid := inst.PaidAmount
	inst.PaidAmount = inst.PaidAmount.Add(amount)
	inst.LastUpdatedAt = now
	inst.LastUpdatedBy = confirmedByID
	if inst.Outstanding().IsZero() {
		if req.Method == string(domain.PaymentDeduction) {
			inst.Status = domain.InstallmentAutoPaid
		} else {
			inst.Status = domain.InstallmentPaid
		}
		inst.PaidAt = &now
		inst.ConfirmedBy = &confirmedByID
	} else {
		inst.Status = domain.InstallmentManualPending
	}

	// The loan's balance and status are derived inside the repository
	// transaction from the locked row; only the delta travels there.
	payment := portsrepo.InstallmentPayment{Installment: *inst, PriorPaidAmount: priorPaid}
	if err := s.loanRepo.PayInstallments(ctx, loan.LoanID, principalPart, []portsrepo.InstallmentPayment{payment}, journal, lines, cashDeltas); err != nil {
		logger.Error("Failed to record installment payment", slog.String("error", err.Error()), slog.String("installment_id", installmentID))
		return nil, err
	}

	logger.Info("Installment payment recorded",
		slog.String("installment_id", inst.InstallmentID),
		slog.String("loan_id", loan.LoanID),
		slog.String("amount", amount.String()),
		slog.String("status", string(inst.Status)),
	)
	return inst, nil
}

// buildPaymentJournal assembles the validated journal for money coming in
// against a loan: cash in, interest income and receivable reduction.
func (s *loanService) buildPaymentJournal(ctx context.Context, cash *domain.CashAccount, amount, interestPart, principalPart decimal.Decimal, description string, source domain.SourceRef, date time.Time, actorID string) (*domain.Journal, []domain.JournalLine, map[string]decimal.Decimal, error) {
	receivable, err := s.accountRepo.FindAccountByCode(ctx, domain.CodeLoanReceivable)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("loan receivable account %s: %w", domain.CodeLoanReceivable, err)
	}

	journalLines := []domain.JournalLine{
		{AccountID: cash.LedgerAccount, Debit: amount},
	}
	if interestPart.IsPositive() {
		income, err := s.accountRepo.FindAccountByCode(ctx, domain.CodeInterestIncome)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("interest income account %s: %w", domain.CodeInterestIncome, err)
		}
		journalLines = append(journalLines, domain.JournalLine{AccountID: income.AccountID, Credit: interestPart})
	}
	if principalPart.IsPositive() {
		journalLines = append(journalLines, domain.JournalLine{AccountID: receivable.AccountID, Credit: principalPart})
	}

	draft := portssvc.JournalDraft{
		Date:          date,
		Type:          domain.SpecialJournal,
		Description:   description,
		AutoGenerated: true,
		Source:        source,
		Lines:         journalLines,
	}
	journal, lines, err := s.journalSvc.BuildJournal(ctx, draft, actorID)
	if err != nil {
		return nil, nil, nil, err
	}
	cashDeltas := map[string]decimal.Decimal{cash.CashAccountID: amount}
	return journal, lines, cashDeltas, nil
}

// MarkOverdue flips pending installments past their due date to overdue.
func (s *loanService) MarkOverdue(ctx context.Context, asOf time.Time) (int64, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	count, err := s.loanRepo.MarkInstallmentsOverdue(ctx, asOf)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		logger.Info("Installments marked overdue", slog.Int64("count", count))
	}
	return count, nil
}

// SettleEarly pays off the remaining principal in one payment. Future
// installments are cancelled and their interest waived; the settlement
// journal carries the remaining principal only.
func (s *loanService) SettleEarly(ctx context.Context, loanID string, req dto.SettleEarlyRequest, settledByID string) (*domain.SettlementSummary, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	loan, err := s.loanRepo.FindLoanByID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	if loan.Status != domain.LoanDisbursed && loan.Status != domain.LoanActive {
		return nil, fmt.Errorf("loan %s is %s: %w", loanID, loan.Status, apperrors.ErrNotActive)
	}
	if !loan.RemainingPrincipal.IsPositive() {
		return nil, fmt.Errorf("loan %s: %w", loanID, apperrors.ErrAlreadySettled)
	}

	cash, err := s.cashAccountRepo.FindCashAccountByID(ctx, req.CashAccountID)
	if err != nil {
		return nil, fmt.Errorf("cash account %s: %w", req.CashAccountID, err)
	}
	if !cash.IsActive {
		return nil, fmt.Errorf("cash account %s: %w", cash.Code, apperrors.ErrAccountInactive)
	}

	installments, err := s.loanRepo.ListInstallmentsByLoanID(ctx, loanID)
	if err != nil {
		return nil, fmt.Errorf("failed to load schedule for loan %s: %w", loanID, err)
	}

	cancelledIDs := []string{}
	waivedInterest := decimal.Zero
	for _, inst := range installments {
		if !inst.Status.IsPayable() {
			continue
		}
		cancelledIDs = append(cancelledIDs, inst.InstallmentID)
		interestCovered := decimal.Min(inst.PaidAmount, inst.InterestPortion)
		waivedInterest = waivedInterest.Add(inst.InterestPortion.Sub(interestCovered))
	}

	settlementAmount := loan.RemainingPrincipal
	description := "Early settlement of loan " + loanID
	if req.Notes != "" {
		description += ": " + req.Notes
	}

	receivable, err := s.accountRepo.FindAccountByCode(ctx, domain.CodeLoanReceivable)
	if err != nil {
		return nil, fmt.Errorf("loan receivable account %s: %w", domain.CodeLoanReceivable, err)
	}
	draft := portssvc.JournalDraft{
		Date:          time.Now().UTC(),
		Type:          domain.SpecialJournal,
		Description:   description,
		AutoGenerated: true,
		Source:        domain.SourceRef{Kind: domain.SourceEarlySettlement, ID: loanID},
		Lines: []domain.JournalLine{
			{AccountID: cash.LedgerAccount, Debit: settlementAmount},
			{AccountID: receivable.AccountID, Credit: settlementAmount},
		},
	}
	journal, lines, err := s.journalSvc.BuildJournal(ctx, draft, settledByID)
	if err != nil {
		return nil, err
	}
	cashDeltas := map[string]decimal.Decimal{cash.CashAccountID: settlementAmount}

	now := time.Now().UTC()
	loan.Status = domain.LoanPaidOff
	loan.EarlySettlement = true
	loan.SettlementAmount = settlementAmount
	loan.SettledAt = &now
	loan.RemainingPrincipal = decimal.Zero
	loan.LastUpdatedAt = now
	loan.LastUpdatedBy = settledByID

	if err := s.loanRepo.SettleLoan(ctx, *loan, cancelledIDs, *journal, lines, cashDeltas); err != nil {
		logger.Error("Failed to settle loan", slog.String("error", err.Error()), slog.String("loan_id", loanID))
		return nil, err
	}

	logger.Info("Loan settled early",
		slog.String("loan_id", loanID),
		slog.String("settlement_amount", settlementAmount.String()),
		slog.Int("cancelled_installments", len(cancelledIDs)),
	)
	return &domain.SettlementSummary{
		LoanID:                loanID,
		SettlementAmount:      settlementAmount,
		CancelledInstallments: len(cancelledIDs),
		WaivedInterest:        waivedInterest,
		JournalID:             journal.JournalID,
		SettledAt:             now,
	}, nil
}
