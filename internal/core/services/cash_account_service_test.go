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
	portssvc "github.com/KopSinergi/koperasi_backend/internal/core/ports/services"
	"github.com/KopSinergi/koperasi_backend/internal/core/services"
	"github.com/KopSinergi/koperasi_backend/internal/dto"
)

type CashAccountServiceTestSuite struct {
	suite.Suite
	mockCashRepo    *MockCashAccountRepository
	mockAccountRepo *MockAccountRepository
	mockJournalRepo *MockJournalRepository
	mockPeriodRepo  *MockPeriodRepository
	service         portssvc.CashAccountSvcFacade
	ctx             context.Context

	actorID    string
	ledgerFrom domain.ChartOfAccount
	ledgerTo   domain.ChartOfAccount
	fromCash   domain.CashAccount
	toCash     domain.CashAccount
}

func (suite *CashAccountServiceTestSuite) SetupTest() {
	suite.mockCashRepo = new(MockCashAccountRepository)
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.mockJournalRepo = new(MockJournalRepository)
	suite.mockPeriodRepo = new(MockPeriodRepository)
	journalSvc := services.NewJournalService(suite.mockJournalRepo, suite.mockAccountRepo, services.NewPeriodService(suite.mockPeriodRepo))
	suite.service = services.NewCashAccountService(suite.mockCashRepo, suite.mockAccountRepo, journalSvc)
	suite.ctx = context.Background()

	suite.actorID = uuid.NewString()
	suite.ledgerFrom = domain.ChartOfAccount{
		AccountID:  uuid.NewString(),
		Code:       "1-1001",
		Name:       "Kas Besar",
		Category:   domain.Assets,
		NormalSide: domain.NormalDebit,
		IsActive:   true,
	}
	suite.ledgerTo = domain.ChartOfAccount{
		AccountID:  uuid.NewString(),
		Code:       "1-1002",
		Name:       "Bank Operasional",
		Category:   domain.Assets,
		NormalSide: domain.NormalDebit,
		IsActive:   true,
	}
	suite.fromCash = domain.CashAccount{
		CashAccountID: uuid.NewString(),
		Code:          "KAS-01",
		Name:          "Kas Besar",
		Type:          domain.CashOnHand,
		LedgerAccount: suite.ledgerFrom.AccountID,
		Balance:       decimal.NewFromInt(1000000),
		IsActive:      true,
	}
	suite.toCash = domain.CashAccount{
		CashAccountID: uuid.NewString(),
		Code:          "BNK-01",
		Name:          "Bank Operasional",
		Type:          domain.CashInBank,
		LedgerAccount: suite.ledgerTo.AccountID,
		Balance:       decimal.NewFromInt(500000),
		IsActive:      true,
	}
}

// expectPosting wires the journal plumbing shared by every cash operation:
// no period covers the date, the given ledger accounts are active, and the
// save succeeds.
func (suite *CashAccountServiceTestSuite) expectPosting(accounts map[string]domain.ChartOfAccount, captured *domain.Journal, capturedDeltas *map[string]decimal.Decimal) {
	suite.mockPeriodRepo.On("FindPeriodForDate", suite.ctx, mock.AnythingOfType("time.Time")).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockAccountRepo.On("FindAccountsByIDs", suite.ctx, mock.AnythingOfType("[]string")).Return(accounts, nil).Once()
	suite.mockJournalRepo.On("SaveJournal", suite.ctx, mock.AnythingOfType("domain.Journal"), mock.AnythingOfType("[]domain.JournalLine"), mock.AnythingOfType("map[string]decimal.Decimal")).
		Run(func(args mock.Arguments) {
			*captured = args.Get(1).(domain.Journal)
			*capturedDeltas = args.Get(3).(map[string]decimal.Decimal)
		}).Return(nil).Once()
	suite.mockJournalRepo.On("FindJournalByID", suite.ctx, mock.AnythingOfType("string")).Return(&domain.Journal{JournalID: uuid.NewString(), JournalNumber: "JRN-202601-0042", Status: domain.Posted}, nil).Once()
}

func (suite *CashAccountServiceTestSuite) TestTransferCash_Success() {
	amount := decimal.NewFromInt(250000)
	req := dto.TransferCashRequest{
		FromAccountID: suite.fromCash.CashAccountID,
		ToAccountID:   suite.toCash.CashAccountID,
		Amount:        amount,
		Date:          time.Date(2026, 1, 20, 0, 0, 0, 0, time.UTC),
		Purpose:       "Weekly bank deposit",
	}

	fromBefore := suite.fromCash
	toBefore := suite.toCash
	fromAfter := suite.fromCash
	fromAfter.Balance = fromBefore.Balance.Sub(amount)
	toAfter := suite.toCash
	toAfter.Balance = toBefore.Balance.Add(amount)

	suite.mockCashRepo.On("FindCashAccountByID", suite.ctx, req.FromAccountID).Return(&fromBefore, nil).Once()
	suite.mockCashRepo.On("FindCashAccountByID", suite.ctx, req.ToAccountID).Return(&toBefore, nil).Once()

	accounts := map[string]domain.ChartOfAccount{
		suite.ledgerFrom.AccountID: suite.ledgerFrom,
		suite.ledgerTo.AccountID:   suite.ledgerTo,
	}
	var journal domain.Journal
	var deltas map[string]decimal.Decimal
	suite.expectPosting(accounts, &journal, &deltas)

	suite.mockCashRepo.On("FindCashAccountByID", suite.ctx, req.FromAccountID).Return(&fromAfter, nil).Once()
	suite.mockCashRepo.On("FindCashAccountByID", suite.ctx, req.ToAccountID).Return(&toAfter, nil).Once()

	result, err := suite.service.TransferCash(suite.ctx, req, suite.actorID)

	suite.Require().NoError(err)
	suite.True(result.FromBalanceAfter.Equal(decimal.NewFromInt(750000)))
	suite.True(result.ToBalanceAfter.Equal(decimal.NewFromInt(750000)))
	suite.Equal(domain.SourceCashTransfer, journal.Source.Kind)
	suite.True(journal.AutoGenerated)
	suite.Require().Len(deltas, 2)
	suite.True(deltas[suite.fromCash.CashAccountID].Equal(amount.Neg()))
	suite.True(deltas[suite.toCash.CashAccountID].Equal(amount))
	suite.mockCashRepo.AssertExpectations(suite.T())
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *CashAccountServiceTestSuite) TestTransferCash_SameAccount() {
	req := dto.TransferCashRequest{
		FromAccountID: suite.fromCash.CashAccountID,
		ToAccountID:   suite.fromCash.CashAccountID,
		Amount:        decimal.NewFromInt(1000),
		Date:          time.Now().UTC(),
		Purpose:       "loop",
	}

	_, err := suite.service.TransferCash(suite.ctx, req, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockCashRepo.AssertNotCalled(suite.T(), "FindCashAccountByID", mock.Anything, mock.Anything)
}

func (suite *CashAccountServiceTestSuite) TestTransferCash_InsufficientFunds() {
	req := dto.TransferCashRequest{
		FromAccountID: suite.fromCash.CashAccountID,
		ToAccountID:   suite.toCash.CashAccountID,
		Amount:        decimal.NewFromInt(5000000),
		Date:          time.Date(2026, 1, 21, 0, 0, 0, 0, time.UTC),
		Purpose:       "Oversized deposit",
	}

	suite.mockCashRepo.On("FindCashAccountByID", suite.ctx, req.FromAccountID).Return(&suite.fromCash, nil).Once()
	suite.mockCashRepo.On("FindCashAccountByID", suite.ctx, req.ToAccountID).Return(&suite.toCash, nil).Once()

	accounts := map[string]domain.ChartOfAccount{
		suite.ledgerFrom.AccountID: suite.ledgerFrom,
		suite.ledgerTo.AccountID:   suite.ledgerTo,
	}
	suite.mockPeriodRepo.On("FindPeriodForDate", suite.ctx, mock.AnythingOfType("time.Time")).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockAccountRepo.On("FindAccountsByIDs", suite.ctx, mock.AnythingOfType("[]string")).Return(accounts, nil).Once()
	suite.mockJournalRepo.On("SaveJournal", suite.ctx, mock.AnythingOfType("domain.Journal"), mock.AnythingOfType("[]domain.JournalLine"), mock.AnythingOfType("map[string]decimal.Decimal")).
		Return(apperrors.ErrInsufficientFunds).Once()

	_, err := suite.service.TransferCash(suite.ctx, req, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInsufficientFunds)
	// The aborted transaction means no balance re-read happens.
	suite.mockCashRepo.AssertNumberOfCalls(suite.T(), "FindCashAccountByID", 2)
}

func (suite *CashAccountServiceTestSuite) TestTransferCash_InactiveDestination() {
	inactive := suite.toCash
	inactive.IsActive = false
	req := dto.TransferCashRequest{
		FromAccountID: suite.fromCash.CashAccountID,
		ToAccountID:   inactive.CashAccountID,
		Amount:        decimal.NewFromInt(1000),
		Date:          time.Now().UTC(),
		Purpose:       "to a closed pool",
	}

	suite.mockCashRepo.On("FindCashAccountByID", suite.ctx, req.FromAccountID).Return(&suite.fromCash, nil).Once()
	suite.mockCashRepo.On("FindCashAccountByID", suite.ctx, req.ToAccountID).Return(&inactive, nil).Once()

	_, err := suite.service.TransferCash(suite.ctx, req, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrAccountInactive)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "SaveJournal", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *CashAccountServiceTestSuite) TestTransferCash_SharedLedgerAccount() {
	// Two pools posting to the same ledger account cannot form a balanced
	// two-account journal, so the transfer is rejected up front.
	sibling := suite.toCash
	sibling.LedgerAccount = suite.ledgerFrom.AccountID
	req := dto.TransferCashRequest{
		FromAccountID: suite.fromCash.CashAccountID,
		ToAccountID:   sibling.CashAccountID,
		Amount:        decimal.NewFromInt(1000),
		Date:          time.Now().UTC(),
		Purpose:       "drawer to drawer",
	}

	suite.mockCashRepo.On("FindCashAccountByID", suite.ctx, req.FromAccountID).Return(&suite.fromCash, nil).Once()
	suite.mockCashRepo.On("FindCashAccountByID", suite.ctx, req.ToAccountID).Return(&sibling, nil).Once()

	_, err := suite.service.TransferCash(suite.ctx, req, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Contains(err.Error(), "share one ledger account")
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "SaveJournal", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *CashAccountServiceTestSuite) TestAdjust_Debit() {
	amount := decimal.NewFromInt(15000)
	adjustment := domain.ChartOfAccount{
		AccountID:  uuid.NewString(),
		Code:       domain.CodeCashAdjustment,
		Name:       "Penyesuaian Kas",
		Category:   domain.Equity,
		NormalSide: domain.NormalCredit,
		IsActive:   true,
	}
	after := suite.fromCash
	after.Balance = suite.fromCash.Balance.Sub(amount)

	suite.mockCashRepo.On("FindCashAccountByID", suite.ctx, suite.fromCash.CashAccountID).Return(&suite.fromCash, nil).Once()
	suite.mockAccountRepo.On("FindAccountByCode", suite.ctx, domain.CodeCashAdjustment).Return(&adjustment, nil).Once()

	accounts := map[string]domain.ChartOfAccount{
		suite.ledgerFrom.AccountID: suite.ledgerFrom,
		adjustment.AccountID:       adjustment,
	}
	var journal domain.Journal
	var deltas map[string]decimal.Decimal
	suite.expectPosting(accounts, &journal, &deltas)

	suite.mockCashRepo.On("FindCashAccountByID", suite.ctx, suite.fromCash.CashAccountID).Return(&after, nil).Once()

	balance, err := suite.service.Adjust(suite.ctx, suite.fromCash.CashAccountID, amount, portssvc.CashDebit, "Shortage found at count", suite.actorID)

	suite.Require().NoError(err)
	suite.True(balance.Equal(after.Balance))
	suite.True(deltas[suite.fromCash.CashAccountID].Equal(amount.Neg()))
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *CashAccountServiceTestSuite) TestAdjust_NonPositiveAmount() {
	_, err := suite.service.Adjust(suite.ctx, suite.fromCash.CashAccountID, decimal.Zero, portssvc.CashCredit, "nothing", suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *CashAccountServiceTestSuite) TestCreateCashAccount_WithOpeningBalance() {
	opening := decimal.NewFromInt(2000000)
	equity := domain.ChartOfAccount{
		AccountID:  uuid.NewString(),
		Code:       domain.CodeOpeningEquity,
		Name:       "Modal Saldo Awal",
		Category:   domain.Equity,
		NormalSide: domain.NormalCredit,
		IsActive:   true,
	}
	req := dto.CreateCashAccountRequest{
		Code:            "KAS-02",
		Name:            "Kas Kecil",
		Type:            string(domain.PettyCash),
		LedgerAccountID: suite.ledgerFrom.AccountID,
		OpeningBalance:  opening,
	}

	suite.mockAccountRepo.On("FindAccountByID", suite.ctx, suite.ledgerFrom.AccountID).Return(&suite.ledgerFrom, nil).Once()

	var saved domain.CashAccount
	suite.mockCashRepo.On("SaveCashAccount", suite.ctx, mock.AnythingOfType("domain.CashAccount")).
		Run(func(args mock.Arguments) { saved = args.Get(1).(domain.CashAccount) }).Return(nil).Once()
	suite.mockAccountRepo.On("FindAccountByCode", suite.ctx, domain.CodeOpeningEquity).Return(&equity, nil).Once()

	accounts := map[string]domain.ChartOfAccount{
		suite.ledgerFrom.AccountID: suite.ledgerFrom,
		equity.AccountID:           equity,
	}
	var journal domain.Journal
	var deltas map[string]decimal.Decimal
	suite.expectPosting(accounts, &journal, &deltas)

	account, err := suite.service.CreateCashAccount(suite.ctx, req, suite.actorID)

	suite.Require().NoError(err)
	suite.True(saved.Balance.IsZero())
	suite.True(account.Balance.Equal(opening))
	suite.True(deltas[account.CashAccountID].Equal(opening))
	suite.True(journal.AutoGenerated)
	suite.mockCashRepo.AssertExpectations(suite.T())
}

func (suite *CashAccountServiceTestSuite) TestCreateCashAccount_NonAssetLedger() {
	liability := domain.ChartOfAccount{
		AccountID:  uuid.NewString(),
		Code:       "2-1000",
		Name:       "Hutang Usaha",
		Category:   domain.Liabilities,
		NormalSide: domain.NormalCredit,
		IsActive:   true,
	}
	req := dto.CreateCashAccountRequest{
		Code:            "KAS-03",
		Name:            "Invalid",
		Type:            string(domain.CashOnHand),
		LedgerAccountID: liability.AccountID,
		OpeningBalance:  decimal.Zero,
	}

	suite.mockAccountRepo.On("FindAccountByID", suite.ctx, liability.AccountID).Return(&liability, nil).Once()

	_, err := suite.service.CreateCashAccount(suite.ctx, req, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockCashRepo.AssertNotCalled(suite.T(), "SaveCashAccount", mock.Anything, mock.Anything)
}

func (suite *CashAccountServiceTestSuite) TestCreateCashAccount_NegativeOpeningBalance() {
	req := dto.CreateCashAccountRequest{
		Code:            "KAS-04",
		Name:            "Invalid",
		Type:            string(domain.CashOnHand),
		LedgerAccountID: suite.ledgerFrom.AccountID,
		OpeningBalance:  decimal.NewFromInt(-100),
	}

	_, err := suite.service.CreateCashAccount(suite.ctx, req, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func TestCashAccountService(t *testing.T) {
	suite.Run(t, new(CashAccountServiceTestSuite))
}
