package services_test

import (
	"context"
	"time"

	"github.com/KopSinergi/koperasi_backend/internal/core/domain"
	portsrepo "github.com/KopSinergi/koperasi_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// --- Mock ChartOfAccountRepository ---

type MockAccountRepository struct {
	mock.Mock
}

var _ portsrepo.ChartOfAccountRepositoryFacade = (*MockAccountRepository)(nil)

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.ChartOfAccount) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) UpdateAccount(ctx context.Context, account domain.ChartOfAccount) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) DeleteAccount(ctx context.Context, accountID string) error {
	args := m.Called(ctx, accountID)
	return args.Error(0)
}

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.ChartOfAccount, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ChartOfAccount), args.Error(1)
}

func (m *MockAccountRepository) FindAccountByCode(ctx context.Context, code string) (*domain.ChartOfAccount, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ChartOfAccount), args.Error(1)
}

func (m *MockAccountRepository) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.ChartOfAccount, error) {
	args := m.Called(ctx, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.ChartOfAccount), args.Error(1)
}

func (m *MockAccountRepository) ListAccounts(ctx context.Context, includeInactive bool) ([]domain.ChartOfAccount, error) {
	args := m.Called(ctx, includeInactive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ChartOfAccount), args.Error(1)
}

func (m *MockAccountRepository) IsReferencedByJournal(ctx context.Context, accountID string) (bool, error) {
	args := m.Called(ctx, accountID)
	return args.Bool(0), args.Error(1)
}

// --- Mock PeriodRepository ---

type MockPeriodRepository struct {
	mock.Mock
}

var _ portsrepo.PeriodRepositoryFacade = (*MockPeriodRepository)(nil)

func (m *MockPeriodRepository) SavePeriod(ctx context.Context, period domain.AccountingPeriod) error {
	args := m.Called(ctx, period)
	return args.Error(0)
}

func (m *MockPeriodRepository) UpdatePeriodStatus(ctx context.Context, periodID string, status domain.PeriodStatus, actorID string, at time.Time) error {
	args := m.Called(ctx, periodID, status, actorID, at)
	return args.Error(0)
}

func (m *MockPeriodRepository) FindPeriodByID(ctx context.Context, periodID string) (*domain.AccountingPeriod, error) {
	args := m.Called(ctx, periodID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountingPeriod), args.Error(1)
}

func (m *MockPeriodRepository) FindPeriodForDate(ctx context.Context, date time.Time) (*domain.AccountingPeriod, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountingPeriod), args.Error(1)
}

func (m *MockPeriodRepository) FindOverlappingPeriods(ctx context.Context, start, end time.Time, excludePeriodID string) ([]domain.AccountingPeriod, error) {
	args := m.Called(ctx, start, end, excludePeriodID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AccountingPeriod), args.Error(1)
}

func (m *MockPeriodRepository) ListPeriods(ctx context.Context) ([]domain.AccountingPeriod, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AccountingPeriod), args.Error(1)
}

// --- Mock JournalRepository ---

type MockJournalRepository struct {
	mock.Mock
}

var _ portsrepo.JournalRepositoryFacade = (*MockJournalRepository)(nil)

func (m *MockJournalRepository) SaveJournal(ctx context.Context, journal domain.Journal, lines []domain.JournalLine, cashDeltas map[string]decimal.Decimal) error {
	args := m.Called(ctx, journal, lines, cashDeltas)
	return args.Error(0)
}

func (m *MockJournalRepository) SaveReversal(ctx context.Context, reversing domain.Journal, lines []domain.JournalLine, originalJournalID string) error {
	args := m.Called(ctx, reversing, lines, originalJournalID)
	return args.Error(0)
}

func (m *MockJournalRepository) FindJournalByID(ctx context.Context, journalID string) (*domain.Journal, error) {
	args := m.Called(ctx, journalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Journal), args.Error(1)
}

func (m *MockJournalRepository) FindLinesByJournalID(ctx context.Context, journalID string) ([]domain.JournalLine, error) {
	args := m.Called(ctx, journalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JournalLine), args.Error(1)
}

func (m *MockJournalRepository) ListJournals(ctx context.Context, from, to time.Time, limit int) ([]domain.Journal, error) {
	args := m.Called(ctx, from, to, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Journal), args.Error(1)
}

func (m *MockJournalRepository) ListLinesByAccountID(ctx context.Context, accountID string, limit int) ([]domain.JournalLine, error) {
	args := m.Called(ctx, accountID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JournalLine), args.Error(1)
}

func (m *MockJournalRepository) InsertJournalInTx(ctx context.Context, tx pgx.Tx, journal domain.Journal, lines []domain.JournalLine) error {
	args := m.Called(ctx, tx, journal, lines)
	return args.Error(0)
}

func (m *MockJournalRepository) NextJournalNumberInTx(ctx context.Context, tx pgx.Tx, date time.Time) (string, error) {
	args := m.Called(ctx, tx, date)
	return args.String(0), args.Error(1)
}

// --- Mock CashAccountRepository ---

type MockCashAccountRepository struct {
	mock.Mock
}

var _ portsrepo.CashAccountRepositoryFacade = (*MockCashAccountRepository)(nil)

func (m *MockCashAccountRepository) SaveCashAccount(ctx context.Context, account domain.CashAccount) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockCashAccountRepository) UpdateCashAccount(ctx context.Context, account domain.CashAccount) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockCashAccountRepository) FindCashAccountByID(ctx context.Context, cashAccountID string) (*domain.CashAccount, error) {
	args := m.Called(ctx, cashAccountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CashAccount), args.Error(1)
}

func (m *MockCashAccountRepository) FindCashAccountByCode(ctx context.Context, code string) (*domain.CashAccount, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CashAccount), args.Error(1)
}

func (m *MockCashAccountRepository) ListCashAccounts(ctx context.Context, includeInactive bool) ([]domain.CashAccount, error) {
	args := m.Called(ctx, includeInactive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CashAccount), args.Error(1)
}

func (m *MockCashAccountRepository) LockCashAccountsInTx(ctx context.Context, tx pgx.Tx, cashAccountIDs []string) (map[string]domain.CashAccount, error) {
	args := m.Called(ctx, tx, cashAccountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.CashAccount), args.Error(1)
}

func (m *MockCashAccountRepository) ApplyCashDeltasInTx(ctx context.Context, tx pgx.Tx, deltas map[string]decimal.Decimal, actorID string, now time.Time) error {
	args := m.Called(ctx, tx, deltas, actorID, now)
	return args.Error(0)
}

// --- Mock LoanRepository ---

type MockLoanRepository struct {
	mock.Mock
}

var _ portsrepo.LoanRepositoryFacade = (*MockLoanRepository)(nil)

func (m *MockLoanRepository) SaveLoan(ctx context.Context, loan domain.Loan) error {
	args := m.Called(ctx, loan)
	return args.Error(0)
}

func (m *MockLoanRepository) UpdateLoanDecision(ctx context.Context, loanID string, status domain.LoanStatus, actorID string, at time.Time) error {
	args := m.Called(ctx, loanID, status, actorID, at)
	return args.Error(0)
}

func (m *MockLoanRepository) DisburseLoan(ctx context.Context, loan domain.Loan, installments []domain.Installment, journal domain.Journal, lines []domain.JournalLine, cashDeltas map[string]decimal.Decimal) error {
	args := m.Called(ctx, loan, installments, journal, lines, cashDeltas)
	return args.Error(0)
}

func (m *MockLoanRepository) PayInstallments(ctx context.Context, loanID string, principalDelta decimal.Decimal, payments []portsrepo.InstallmentPayment, journal *domain.Journal, lines []domain.JournalLine, cashDeltas map[string]decimal.Decimal) error {
	args := m.Called(ctx, loanID, principalDelta, payments, journal, lines, cashDeltas)
	return args.Error(0)
}

func (m *MockLoanRepository) SettleLoan(ctx context.Context, loan domain.Loan, cancelledInstallmentIDs []string, journal domain.Journal, lines []domain.JournalLine, cashDeltas map[string]decimal.Decimal) error {
	args := m.Called(ctx, loan, cancelledInstallmentIDs, journal, lines, cashDeltas)
	return args.Error(0)
}

func (m *MockLoanRepository) MarkInstallmentsOverdue(ctx context.Context, asOf time.Time) (int64, error) {
	args := m.Called(ctx, asOf)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLoanRepository) FindLoanByID(ctx context.Context, loanID string) (*domain.Loan, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}

func (m *MockLoanRepository) ListLoansByMember(ctx context.Context, memberID string) ([]domain.Loan, error) {
	args := m.Called(ctx, memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Loan), args.Error(1)
}

func (m *MockLoanRepository) ListOpenDeductionLoans(ctx context.Context, memberID string, methods []domain.DeductionMethod) ([]domain.Loan, error) {
	args := m.Called(ctx, memberID, methods)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Loan), args.Error(1)
}

func (m *MockLoanRepository) FindInstallmentByID(ctx context.Context, installmentID string) (*domain.Installment, error) {
	args := m.Called(ctx, installmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Installment), args.Error(1)
}

func (m *MockLoanRepository) ListInstallmentsByLoanID(ctx context.Context, loanID string) ([]domain.Installment, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Installment), args.Error(1)
}

func (m *MockLoanRepository) ListPayableInstallmentsDueBetween(ctx context.Context, loanID string, from, to time.Time) ([]domain.Installment, error) {
	args := m.Called(ctx, loanID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Installment), args.Error(1)
}

func (m *MockLoanRepository) LockLoanInTx(ctx context.Context, tx pgx.Tx, loanID string) (*domain.Loan, error) {
	args := m.Called(ctx, tx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}

func (m *MockLoanRepository) UpdateLoanInTx(ctx context.Context, tx pgx.Tx, loan domain.Loan) error {
	args := m.Called(ctx, tx, loan)
	return args.Error(0)
}

func (m *MockLoanRepository) ApplyLoanPaymentInTx(ctx context.Context, tx pgx.Tx, loanID string, principalDelta decimal.Decimal, actorID string, at time.Time) error {
	args := m.Called(ctx, tx, loanID, principalDelta, actorID, at)
	return args.Error(0)
}

func (m *MockLoanRepository) ApplyInstallmentPaymentInTx(ctx context.Context, tx pgx.Tx, payment portsrepo.InstallmentPayment) error {
	args := m.Called(ctx, tx, payment)
	return args.Error(0)
}

// --- Mock DeductionRepository ---

type MockDeductionRepository struct {
	mock.Mock
}

var _ portsrepo.DeductionRepositoryFacade = (*MockDeductionRepository)(nil)

func (m *MockDeductionRepository) SaveDeductionRun(ctx context.Context, deduction domain.SalaryDeduction, payments []portsrepo.InstallmentPayment, loanPrincipalDeltas map[string]decimal.Decimal, journal *domain.Journal, lines []domain.JournalLine, cashDeltas map[string]decimal.Decimal) error {
	args := m.Called(ctx, deduction, payments, loanPrincipalDeltas, journal, lines, cashDeltas)
	return args.Error(0)
}

func (m *MockDeductionRepository) FindDeductionByID(ctx context.Context, deductionID string) (*domain.SalaryDeduction, error) {
	args := m.Called(ctx, deductionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SalaryDeduction), args.Error(1)
}

func (m *MockDeductionRepository) ExistsForPeriod(ctx context.Context, memberID string, month, year int, runType domain.DeductionRunType) (bool, error) {
	args := m.Called(ctx, memberID, month, year, runType)
	return args.Bool(0), args.Error(1)
}

func (m *MockDeductionRepository) ListDeductionsByMember(ctx context.Context, memberID string) ([]domain.SalaryDeduction, error) {
	args := m.Called(ctx, memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SalaryDeduction), args.Error(1)
}

// --- Mock MemberRepository ---

type MockMemberRepository struct {
	mock.Mock
}

var _ portsrepo.MemberRepositoryFacade = (*MockMemberRepository)(nil)

func (m *MockMemberRepository) SaveMember(ctx context.Context, member domain.Member) error {
	args := m.Called(ctx, member)
	return args.Error(0)
}

func (m *MockMemberRepository) UpdateMember(ctx context.Context, member domain.Member) error {
	args := m.Called(ctx, member)
	return args.Error(0)
}

func (m *MockMemberRepository) FindMemberByID(ctx context.Context, memberID string) (*domain.Member, error) {
	args := m.Called(ctx, memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Member), args.Error(1)
}

func (m *MockMemberRepository) FindMemberByEmail(ctx context.Context, email string) (*domain.Member, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Member), args.Error(1)
}

func (m *MockMemberRepository) ListMembers(ctx context.Context) ([]domain.Member, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Member), args.Error(1)
}
