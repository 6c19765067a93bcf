package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/KopSinergi/koperasi_backend/internal/apperrors"
	"github.com/KopSinergi/koperasi_backend/internal/core/domain"
	portsrepo "github.com/KopSinergi/koperasi_backend/internal/core/ports/repositories"
	portssvc "github.com/KopSinergi/koperasi_backend/internal/core/ports/services"
	"github.com/KopSinergi/koperasi_backend/internal/core/services"
	"github.com/KopSinergi/koperasi_backend/internal/dto"
)

type DeductionServiceTestSuite struct {
	suite.Suite
	mockDeductionRepo *MockDeductionRepository
	mockLoanRepo      *MockLoanRepository
	mockCashRepo      *MockCashAccountRepository
	mockAccountRepo   *MockAccountRepository
	mockMemberRepo    *MockMemberRepository
	mockJournalRepo   *MockJournalRepository
	mockPeriodRepo    *MockPeriodRepository
	service           portssvc.DeductionSvcFacade
	ctx               context.Context

	actorID    string
	member     domain.Member
	ledger     domain.ChartOfAccount
	receivable domain.ChartOfAccount
	income     domain.ChartOfAccount
	cash       domain.CashAccount
}

func (suite *DeductionServiceTestSuite) SetupTest() {
	suite.mockDeductionRepo = new(MockDeductionRepository)
	suite.mockLoanRepo = new(MockLoanRepository)
	suite.mockCashRepo = new(MockCashAccountRepository)
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.mockMemberRepo = new(MockMemberRepository)
	suite.mockJournalRepo = new(MockJournalRepository)
	suite.mockPeriodRepo = new(MockPeriodRepository)
	journalSvc := services.NewJournalService(suite.mockJournalRepo, suite.mockAccountRepo, services.NewPeriodService(suite.mockPeriodRepo))
	suite.service = services.NewDeductionService(suite.mockDeductionRepo, suite.mockLoanRepo, suite.mockCashRepo, suite.mockAccountRepo, suite.mockMemberRepo, journalSvc)
	suite.ctx = context.Background()

	suite.actorID = uuid.NewString()
	suite.member = domain.Member{
		MemberID:     uuid.NewString(),
		MemberNumber: "AGT-0007",
		Name:         "Siti Rahayu",
		Email:        "siti@example.com",
		Role:         domain.RoleMember,
		IsActive:     true,
	}
	suite.ledger = domain.ChartOfAccount{
		AccountID:  uuid.NewString(),
		Code:       "1-1001",
		Name:       "Kas Besar",
		Category:   domain.Assets,
		NormalSide: domain.NormalDebit,
		IsActive:   true,
	}
	suite.receivable = domain.ChartOfAccount{
		AccountID:  uuid.NewString(),
		Code:       domain.CodeLoanReceivable,
		Name:       "Piutang Pinjaman Anggota",
		Category:   domain.Assets,
		NormalSide: domain.NormalDebit,
		IsActive:   true,
	}
	suite.income = domain.ChartOfAccount{
		AccountID:  uuid.NewString(),
		Code:       domain.CodeInterestIncome,
		Name:       "Pendapatan Jasa Pinjaman",
		Category:   domain.Revenue,
		NormalSide: domain.NormalCredit,
		IsActive:   true,
	}
	suite.cash = domain.CashAccount{
		CashAccountID: uuid.NewString(),
		Code:          "KAS-01",
		Name:          "Kas Besar",
		Type:          domain.CashOnHand,
		LedgerAccount: suite.ledger.AccountID,
		Balance:       decimal.NewFromInt(50000000),
		IsActive:      true,
	}
}

func (suite *DeductionServiceTestSuite) expectJournalBuild() {
	accounts := map[string]domain.ChartOfAccount{
		suite.ledger.AccountID:     suite.ledger,
		suite.receivable.AccountID: suite.receivable,
		suite.income.AccountID:     suite.income,
	}
	suite.mockPeriodRepo.On("FindPeriodForDate", suite.ctx, mock.AnythingOfType("time.Time")).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockAccountRepo.On("FindAccountsByIDs", suite.ctx, mock.AnythingOfType("[]string")).Return(accounts, nil).Once()
}

func (suite *DeductionServiceTestSuite) salaryLoan() domain.Loan {
	return domain.Loan{
		LoanID:                 uuid.NewString(),
		MemberID:               suite.member.MemberID,
		Principal:              decimal.NewFromInt(12000000),
		AnnualRatePercent:      decimal.NewFromInt(12),
		TenureMonths:           12,
		InstallmentAmount:      decimal.NewFromInt(1066185),
		RemainingPrincipal:     decimal.NewFromInt(12000000),
		Status:                 domain.LoanDisbursed,
		DeductionMethod:        domain.DeductionSalary,
		SalaryDeductionPercent: decimal.NewFromInt(100),
	}
}

func (suite *DeductionServiceTestSuite) dueInstallment(loanID string) domain.Installment {
	return domain.Installment{
		InstallmentID:    uuid.NewString(),
		LoanID:           loanID,
		Number:           1,
		DueDate:          time.Date(2026, 2, 25, 0, 0, 0, 0, time.UTC),
		PrincipalPortion: decimal.NewFromInt(946185),
		InterestPortion:  decimal.NewFromInt(120000),
		TotalAmount:      decimal.NewFromInt(1066185),
		PaidAmount:       decimal.Zero,
		Status:           domain.InstallmentPending,
	}
}

func (suite *DeductionServiceTestSuite) baseRequest() dto.DistributeDeductionRequest {
	return dto.DistributeDeductionRequest{
		MemberID:         suite.member.MemberID,
		Month:            2,
		Year:             2026,
		GrossSalary:      decimal.NewFromInt(5000000),
		SavingsDeduction: decimal.NewFromInt(100000),
		OtherDeduction:   decimal.Zero,
		CashAccountID:    suite.cash.CashAccountID,
	}
}

func (suite *DeductionServiceTestSuite) TestDistributeSalaryDeduction_Success() {
	req := suite.baseRequest()
	loan := suite.salaryLoan()
	inst := suite.dueInstallment(loan.LoanID)

	suite.mockMemberRepo.On("FindMemberByID", suite.ctx, suite.member.MemberID).Return(&suite.member, nil).Once()
	suite.mockDeductionRepo.On("ExistsForPeriod", suite.ctx, suite.member.MemberID, 2, 2026, domain.RunSalary).Return(false, nil).Once()
	suite.mockCashRepo.On("FindCashAccountByID", suite.ctx, suite.cash.CashAccountID).Return(&suite.cash, nil).Once()
	suite.mockLoanRepo.On("ListOpenDeductionLoans", suite.ctx, suite.member.MemberID, []domain.DeductionMethod{domain.DeductionSalary, domain.DeductionMixed}).Return([]domain.Loan{loan}, nil).Once()
	suite.mockLoanRepo.On("ListPayableInstallmentsDueBetween", suite.ctx, loan.LoanID, time.Time{}, mock.AnythingOfType("time.Time")).Return([]domain.Installment{inst}, nil).Once()
	suite.mockAccountRepo.On("FindAccountByCode", suite.ctx, domain.CodeLoanReceivable).Return(&suite.receivable, nil).Once()
	suite.mockAccountRepo.On("FindAccountByCode", suite.ctx, domain.CodeInterestIncome).Return(&suite.income, nil).Once()
	suite.expectJournalBuild()

	var savedDeduction domain.SalaryDeduction
	var savedPayments []portsrepo.InstallmentPayment
	var savedLoanDeltas map[string]decimal.Decimal
	var savedJournal *domain.Journal
	var savedLines []domain.JournalLine
	var savedDeltas map[string]decimal.Decimal
	suite.mockDeductionRepo.On("SaveDeductionRun", suite.ctx, mock.AnythingOfType("domain.SalaryDeduction"), mock.AnythingOfType("[]repositories.InstallmentPayment"), mock.AnythingOfType("map[string]decimal.Decimal"), mock.AnythingOfType("*domain.Journal"), mock.AnythingOfType("[]domain.JournalLine"), mock.AnythingOfType("map[string]decimal.Decimal")).
		Run(func(args mock.Arguments) {
			savedDeduction = args.Get(1).(domain.SalaryDeduction)
			savedPayments = args.Get(2).([]portsrepo.InstallmentPayment)
			savedLoanDeltas = args.Get(3).(map[string]decimal.Decimal)
			savedJournal = args.Get(4).(*domain.Journal)
			savedLines = args.Get(5).([]domain.JournalLine)
			savedDeltas = args.Get(6).(map[string]decimal.Decimal)
		}).Return(nil).Once()

	result, err := suite.service.DistributeSalaryDeduction(suite.ctx, req, suite.actorID)

	suite.Require().NoError(err)
	suite.Equal(domain.RunSalary, result.RunType)
	suite.True(result.LoanDeduction.Equal(decimal.NewFromInt(1066185)))
	suite.True(result.NetSalary.Equal(decimal.NewFromInt(3833815)))
	suite.Len(result.PaidInstallments, 1)

	suite.Require().Len(savedPayments, 1)
	suite.Equal(domain.InstallmentAutoPaid, savedPayments[0].Installment.Status)
	suite.True(savedPayments[0].Installment.PaidAmount.Equal(inst.TotalAmount))
	suite.True(savedPayments[0].PriorPaidAmount.IsZero())
	// The loan balance change travels as a principal delta per loan.
	suite.Require().Len(savedLoanDeltas, 1)
	suite.True(savedLoanDeltas[loan.LoanID].Equal(decimal.NewFromInt(946185)))

	suite.Require().NotNil(savedJournal)
	suite.Equal(domain.SourceSalaryDeduction, savedJournal.Source.Kind)
	suite.Equal(savedDeduction.DeductionID, savedJournal.Source.ID)
	suite.Require().Len(savedLines, 3)
	suite.True(savedLines[0].Debit.Equal(decimal.NewFromInt(1066185)))
	suite.True(savedLines[1].Credit.Equal(decimal.NewFromInt(120000)))
	suite.True(savedLines[2].Credit.Equal(decimal.NewFromInt(946185)))
	suite.True(savedDeltas[suite.cash.CashAccountID].Equal(decimal.NewFromInt(1066185)))
	suite.mockDeductionRepo.AssertExpectations(suite.T())
}

func (suite *DeductionServiceTestSuite) TestDistribute_DuplicateRun() {
	req := suite.baseRequest()

	suite.mockMemberRepo.On("FindMemberByID", suite.ctx, suite.member.MemberID).Return(&suite.member, nil).Once()
	suite.mockDeductionRepo.On("ExistsForPeriod", suite.ctx, suite.member.MemberID, 2, 2026, domain.RunSalary).Return(true, nil).Once()

	_, err := suite.service.DistributeSalaryDeduction(suite.ctx, req, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.mockDeductionRepo.AssertNotCalled(suite.T(), "SaveDeductionRun", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *DeductionServiceTestSuite) TestDistribute_MixedLoanTakesShare() {
	req := suite.baseRequest()
	loan := suite.salaryLoan()
	loan.DeductionMethod = domain.DeductionMixed
	loan.SalaryDeductionPercent = decimal.NewFromInt(60)
	loan.AllowanceDeductionPercent = decimal.NewFromInt(40)
	inst := suite.dueInstallment(loan.LoanID)
	inst.PrincipalPortion = decimal.NewFromInt(900000)
	inst.InterestPortion = decimal.NewFromInt(100000)
	inst.TotalAmount = decimal.NewFromInt(1000000)

	suite.mockMemberRepo.On("FindMemberByID", suite.ctx, suite.member.MemberID).Return(&suite.member, nil).Once()
	suite.mockDeductionRepo.On("ExistsForPeriod", suite.ctx, suite.member.MemberID, 2, 2026, domain.RunSalary).Return(false, nil).Once()
	suite.mockCashRepo.On("FindCashAccountByID", suite.ctx, suite.cash.CashAccountID).Return(&suite.cash, nil).Once()
	suite.mockLoanRepo.On("ListOpenDeductionLoans", suite.ctx, suite.member.MemberID, []domain.DeductionMethod{domain.DeductionSalary, domain.DeductionMixed}).Return([]domain.Loan{loan}, nil).Once()
	suite.mockLoanRepo.On("ListPayableInstallmentsDueBetween", suite.ctx, loan.LoanID, time.Time{}, mock.AnythingOfType("time.Time")).Return([]domain.Installment{inst}, nil).Once()
	suite.mockAccountRepo.On("FindAccountByCode", suite.ctx, domain.CodeLoanReceivable).Return(&suite.receivable, nil).Once()
	suite.mockAccountRepo.On("FindAccountByCode", suite.ctx, domain.CodeInterestIncome).Return(&suite.income, nil).Once()
	suite.expectJournalBuild()

	var savedPayments []portsrepo.InstallmentPayment
	suite.mockDeductionRepo.On("SaveDeductionRun", suite.ctx, mock.AnythingOfType("domain.SalaryDeduction"), mock.AnythingOfType("[]repositories.InstallmentPayment"), mock.AnythingOfType("map[string]decimal.Decimal"), mock.AnythingOfType("*domain.Journal"), mock.AnythingOfType("[]domain.JournalLine"), mock.AnythingOfType("map[string]decimal.Decimal")).
		Run(func(args mock.Arguments) {
			savedPayments = args.Get(2).([]portsrepo.InstallmentPayment)
		}).Return(nil).Once()

	result, err := suite.service.DistributeSalaryDeduction(suite.ctx, req, suite.actorID)

	suite.Require().NoError(err)
	// 60 percent of the 1000000 installment comes out of salary.
	suite.True(result.LoanDeduction.Equal(decimal.NewFromInt(600000)))
	suite.Require().Len(savedPayments, 1)
	suite.Equal(domain.InstallmentManualPending, savedPayments[0].Installment.Status)
	suite.True(savedPayments[0].Installment.PaidAmount.Equal(decimal.NewFromInt(600000)))
	suite.True(savedPayments[0].PriorPaidAmount.IsZero())
}

func (suite *DeductionServiceTestSuite) TestDistribute_NetSalaryNegative() {
	req := suite.baseRequest()
	req.GrossSalary = decimal.NewFromInt(1000000)
	loan := suite.salaryLoan()
	inst := suite.dueInstallment(loan.LoanID)

	suite.mockMemberRepo.On("FindMemberByID", suite.ctx, suite.member.MemberID).Return(&suite.member, nil).Once()
	suite.mockDeductionRepo.On("ExistsForPeriod", suite.ctx, suite.member.MemberID, 2, 2026, domain.RunSalary).Return(false, nil).Once()
	suite.mockCashRepo.On("FindCashAccountByID", suite.ctx, suite.cash.CashAccountID).Return(&suite.cash, nil).Once()
	suite.mockLoanRepo.On("ListOpenDeductionLoans", suite.ctx, suite.member.MemberID, []domain.DeductionMethod{domain.DeductionSalary, domain.DeductionMixed}).Return([]domain.Loan{loan}, nil).Once()
	suite.mockLoanRepo.On("ListPayableInstallmentsDueBetween", suite.ctx, loan.LoanID, time.Time{}, mock.AnythingOfType("time.Time")).Return([]domain.Installment{inst}, nil).Once()

	_, err := suite.service.DistributeSalaryDeduction(suite.ctx, req, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockDeductionRepo.AssertNotCalled(suite.T(), "SaveDeductionRun", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *DeductionServiceTestSuite) TestDistribute_NoOpenLoans() {
	req := suite.baseRequest()

	suite.mockMemberRepo.On("FindMemberByID", suite.ctx, suite.member.MemberID).Return(&suite.member, nil).Once()
	suite.mockDeductionRepo.On("ExistsForPeriod", suite.ctx, suite.member.MemberID, 2, 2026, domain.RunServiceAllowance).Return(false, nil).Once()
	suite.mockCashRepo.On("FindCashAccountByID", suite.ctx, suite.cash.CashAccountID).Return(&suite.cash, nil).Once()
	suite.mockLoanRepo.On("ListOpenDeductionLoans", suite.ctx, suite.member.MemberID, []domain.DeductionMethod{domain.DeductionServiceAllowance, domain.DeductionMixed}).Return([]domain.Loan{}, nil).Once()

	var savedJournal *domain.Journal
	suite.mockDeductionRepo.On("SaveDeductionRun", suite.ctx, mock.AnythingOfType("domain.SalaryDeduction"), mock.AnythingOfType("[]repositories.InstallmentPayment"), mock.AnythingOfType("map[string]decimal.Decimal"), mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			if j, ok := args.Get(4).(*domain.Journal); ok {
				savedJournal = j
			}
		}).Return(nil).Once()

	result, err := suite.service.DistributeServiceAllowanceDeduction(suite.ctx, req, suite.actorID)

	suite.Require().NoError(err)
	suite.True(result.LoanDeduction.IsZero())
	suite.True(result.NetSalary.Equal(decimal.NewFromInt(4900000)))
	suite.Empty(result.PaidInstallments)
	// Nothing collected means no journal is posted.
	suite.Nil(savedJournal)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "SaveJournal", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *DeductionServiceTestSuite) TestGetDeductionByID() {
	deduction := domain.SalaryDeduction{DeductionID: uuid.NewString(), MemberID: suite.member.MemberID, RunType: domain.RunSalary}

	suite.mockDeductionRepo.On("FindDeductionByID", suite.ctx, deduction.DeductionID).Return(&deduction, nil).Once()

	result, err := suite.service.GetDeductionByID(suite.ctx, deduction.DeductionID)

	suite.Require().NoError(err)
	suite.Equal(deduction.DeductionID, result.DeductionID)
	suite.mockDeductionRepo.AssertExpectations(suite.T())
}

func TestDeductionService(t *testing.T) {
	suite.Run(t, new(DeductionServiceTestSuite))
}
