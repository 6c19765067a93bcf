package services_test

import (
	"context"
	"fmt"
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

type JournalServiceTestSuite struct {
	suite.Suite
	mockJournalRepo *MockJournalRepository
	mockAccountRepo *MockAccountRepository
	mockPeriodRepo  *MockPeriodRepository
	service         portssvc.JournalSvcFacade
	ctx             context.Context

	actorID     string
	cashAcct    domain.ChartOfAccount
	revenueAcct domain.ChartOfAccount
}

func (suite *JournalServiceTestSuite) SetupTest() {
	suite.mockJournalRepo = new(MockJournalRepository)
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.mockPeriodRepo = new(MockPeriodRepository)
	periodSvc := services.NewPeriodService(suite.mockPeriodRepo)
	suite.service = services.NewJournalService(suite.mockJournalRepo, suite.mockAccountRepo, periodSvc)
	suite.ctx = context.Background()

	suite.actorID = uuid.NewString()
	suite.cashAcct = domain.ChartOfAccount{
		AccountID:  uuid.NewString(),
		Code:       "1-1001",
		Name:       "Kas Besar",
		Category:   domain.Assets,
		NormalSide: domain.NormalDebit,
		IsActive:   true,
	}
	suite.revenueAcct = domain.ChartOfAccount{
		AccountID:  uuid.NewString(),
		Code:       "4-1100",
		Name:       "Pendapatan Jasa Pinjaman",
		Category:   domain.Revenue,
		NormalSide: domain.NormalCredit,
		IsActive:   true,
	}
}

func (suite *JournalServiceTestSuite) activeAccounts() map[string]domain.ChartOfAccount {
	return map[string]domain.ChartOfAccount{
		suite.cashAcct.AccountID:    suite.cashAcct,
		suite.revenueAcct.AccountID: suite.revenueAcct,
	}
}

func (suite *JournalServiceTestSuite) TestPostJournal_Success() {
	date := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	req := dto.PostJournalRequest{
		Date:        date,
		Description: "Cash sale of services",
		Lines: []dto.JournalLineRequest{
			{AccountID: suite.cashAcct.AccountID, Debit: decimal.NewFromInt(150000)},
			{AccountID: suite.revenueAcct.AccountID, Credit: decimal.NewFromInt(150000)},
		},
	}

	suite.mockPeriodRepo.On("FindPeriodForDate", suite.ctx, date).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockAccountRepo.On("FindAccountsByIDs", suite.ctx, mock.AnythingOfType("[]string")).Return(suite.activeAccounts(), nil).Once()

	var saved domain.Journal
	var savedLines []domain.JournalLine
	suite.mockJournalRepo.On("SaveJournal", suite.ctx, mock.AnythingOfType("domain.Journal"), mock.AnythingOfType("[]domain.JournalLine"), map[string]decimal.Decimal(nil)).
		Run(func(args mock.Arguments) {
			saved = args.Get(1).(domain.Journal)
			savedLines = args.Get(2).([]domain.JournalLine)
		}).Return(nil).Once()

	stored := domain.Journal{
		JournalNumber: "JRN-202601-0001",
		JournalType:   domain.GeneralJournal,
		Status:        domain.Posted,
		Amount:        decimal.NewFromInt(150000),
	}
	suite.mockJournalRepo.On("FindJournalByID", suite.ctx, mock.AnythingOfType("string")).Return(&stored, nil).Once()

	journal, err := suite.service.PostJournal(suite.ctx, req, suite.actorID)

	suite.Require().NoError(err)
	suite.Equal("JRN-202601-0001", journal.JournalNumber)
	suite.Equal(domain.Posted, saved.Status)
	suite.Equal(domain.GeneralJournal, saved.JournalType)
	suite.Equal(domain.SourceManual, saved.Source.Kind)
	suite.False(saved.AutoGenerated)
	suite.True(saved.Amount.Equal(decimal.NewFromInt(150000)))
	suite.Require().Len(savedLines, 2)
	suite.Equal(saved.JournalID, savedLines[0].JournalID)
	suite.Equal(saved.JournalID, savedLines[1].JournalID)
	suite.mockJournalRepo.AssertExpectations(suite.T())
	suite.mockAccountRepo.AssertExpectations(suite.T())
	suite.mockPeriodRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestPostJournal_Unbalanced() {
	req := dto.PostJournalRequest{
		Date:        time.Now().UTC(),
		Description: "Broken entry",
		Lines: []dto.JournalLineRequest{
			{AccountID: suite.cashAcct.AccountID, Debit: decimal.NewFromInt(100)},
			{AccountID: suite.revenueAcct.AccountID, Credit: decimal.NewFromInt(90)},
		},
	}

	journal, err := suite.service.PostJournal(suite.ctx, req, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrUnbalanced)
	suite.Nil(journal)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "SaveJournal", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestPostJournal_BothSidesOnOneLine() {
	req := dto.PostJournalRequest{
		Date:        time.Now().UTC(),
		Description: "Line with both sides",
		Lines: []dto.JournalLineRequest{
			{AccountID: suite.cashAcct.AccountID, Debit: decimal.NewFromInt(100), Credit: decimal.NewFromInt(100)},
			{AccountID: suite.revenueAcct.AccountID, Credit: decimal.NewFromInt(100)},
		},
	}

	_, err := suite.service.PostJournal(suite.ctx, req, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *JournalServiceTestSuite) TestPostJournal_SingleAccount() {
	date := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	req := dto.PostJournalRequest{
		Date:        date,
		Description: "Self transfer",
		Lines: []dto.JournalLineRequest{
			{AccountID: suite.cashAcct.AccountID, Debit: decimal.NewFromInt(100)},
			{AccountID: suite.cashAcct.AccountID, Credit: decimal.NewFromInt(100)},
		},
	}

	suite.mockPeriodRepo.On("FindPeriodForDate", suite.ctx, date).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.PostJournal(suite.ctx, req, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockPeriodRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestPostJournal_InactiveAccount() {
	date := time.Date(2026, 1, 20, 0, 0, 0, 0, time.UTC)
	inactive := suite.revenueAcct
	inactive.IsActive = false
	accounts := map[string]domain.ChartOfAccount{
		suite.cashAcct.AccountID: suite.cashAcct,
		inactive.AccountID:       inactive,
	}
	req := dto.PostJournalRequest{
		Date:        date,
		Description: "Posting to a retired account",
		Lines: []dto.JournalLineRequest{
			{AccountID: suite.cashAcct.AccountID, Debit: decimal.NewFromInt(5000)},
			{AccountID: inactive.AccountID, Credit: decimal.NewFromInt(5000)},
		},
	}

	suite.mockPeriodRepo.On("FindPeriodForDate", suite.ctx, date).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockAccountRepo.On("FindAccountsByIDs", suite.ctx, mock.AnythingOfType("[]string")).Return(accounts, nil).Once()

	_, err := suite.service.PostJournal(suite.ctx, req, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrAccountInactive)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "SaveJournal", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestPostJournal_ClosedPeriod() {
	date := time.Date(2025, 12, 10, 0, 0, 0, 0, time.UTC)
	closed := domain.AccountingPeriod{
		PeriodID:  uuid.NewString(),
		Name:      "2025-12",
		StartDate: time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC),
		Status:    domain.PeriodClosed,
	}
	req := dto.PostJournalRequest{
		Date:        date,
		Description: "Late posting",
		Lines: []dto.JournalLineRequest{
			{AccountID: suite.cashAcct.AccountID, Debit: decimal.NewFromInt(1000)},
			{AccountID: suite.revenueAcct.AccountID, Credit: decimal.NewFromInt(1000)},
		},
	}

	suite.mockPeriodRepo.On("FindPeriodForDate", suite.ctx, date).Return(&closed, nil).Once()

	_, err := suite.service.PostJournal(suite.ctx, req, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrPeriodClosed)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "SaveJournal", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestPostJournal_ResolvesPeriodID() {
	date := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	open := domain.AccountingPeriod{
		PeriodID:  uuid.NewString(),
		Name:      "2026-01",
		StartDate: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC),
		Status:    domain.PeriodOpen,
	}
	req := dto.PostJournalRequest{
		Date:        date,
		Description: "In-period posting",
		Lines: []dto.JournalLineRequest{
			{AccountID: suite.cashAcct.AccountID, Debit: decimal.NewFromInt(2500)},
			{AccountID: suite.revenueAcct.AccountID, Credit: decimal.NewFromInt(2500)},
		},
	}

	suite.mockPeriodRepo.On("FindPeriodForDate", suite.ctx, date).Return(&open, nil).Once()
	suite.mockAccountRepo.On("FindAccountsByIDs", suite.ctx, mock.AnythingOfType("[]string")).Return(suite.activeAccounts(), nil).Once()

	var saved domain.Journal
	suite.mockJournalRepo.On("SaveJournal", suite.ctx, mock.AnythingOfType("domain.Journal"), mock.AnythingOfType("[]domain.JournalLine"), map[string]decimal.Decimal(nil)).
		Run(func(args mock.Arguments) { saved = args.Get(1).(domain.Journal) }).Return(nil).Once()
	suite.mockJournalRepo.On("FindJournalByID", suite.ctx, mock.AnythingOfType("string")).Return(&domain.Journal{JournalNumber: "JRN-202601-0002"}, nil).Once()

	_, err := suite.service.PostJournal(suite.ctx, req, suite.actorID)

	suite.Require().NoError(err)
	suite.Require().NotNil(saved.PeriodID)
	suite.Equal(open.PeriodID, *saved.PeriodID)
}

func (suite *JournalServiceTestSuite) TestReverseJournal_Success() {
	originalID := uuid.NewString()
	original := domain.Journal{
		JournalID:     originalID,
		JournalNumber: "JRN-202601-0007",
		JournalType:   domain.GeneralJournal,
		JournalDate:   time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC),
		Description:   "Mistyped revenue entry",
		Status:        domain.Posted,
		Source:        domain.SourceRef{Kind: domain.SourceManual},
		Amount:        decimal.NewFromInt(75000),
	}
	originalLines := []domain.JournalLine{
		{LineID: uuid.NewString(), JournalID: originalID, AccountID: suite.cashAcct.AccountID, Debit: decimal.NewFromInt(75000)},
		{LineID: uuid.NewString(), JournalID: originalID, AccountID: suite.revenueAcct.AccountID, Credit: decimal.NewFromInt(75000)},
	}

	suite.mockJournalRepo.On("FindJournalByID", suite.ctx, originalID).Return(&original, nil).Once()
	suite.mockJournalRepo.On("FindLinesByJournalID", suite.ctx, originalID).Return(originalLines, nil).Once()
	suite.mockPeriodRepo.On("FindPeriodForDate", suite.ctx, mock.AnythingOfType("time.Time")).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockAccountRepo.On("FindAccountsByIDs", suite.ctx, mock.AnythingOfType("[]string")).Return(suite.activeAccounts(), nil).Once()

	var reversing domain.Journal
	var reversingLines []domain.JournalLine
	suite.mockJournalRepo.On("SaveReversal", suite.ctx, mock.AnythingOfType("domain.Journal"), mock.AnythingOfType("[]domain.JournalLine"), originalID).
		Run(func(args mock.Arguments) {
			reversing = args.Get(1).(domain.Journal)
			reversingLines = args.Get(2).([]domain.JournalLine)
		}).Return(nil).Once()
	stored := domain.Journal{JournalNumber: "JRN-202601-0008", JournalType: domain.ReversingJournal, Status: domain.Posted}
	suite.mockJournalRepo.On("FindJournalByID", suite.ctx, mock.MatchedBy(func(id string) bool { return id != originalID })).Return(&stored, nil).Once()

	result, err := suite.service.ReverseJournal(suite.ctx, originalID, suite.actorID)

	suite.Require().NoError(err)
	suite.Equal("JRN-202601-0008", result.JournalNumber)
	suite.Equal(domain.ReversingJournal, reversing.JournalType)
	suite.Require().NotNil(reversing.OriginalJournalID)
	suite.Equal(originalID, *reversing.OriginalJournalID)
	suite.Require().Len(reversingLines, 2)
	// Debits and credits swap sides on the mirror.
	suite.True(reversingLines[0].Credit.Equal(decimal.NewFromInt(75000)))
	suite.True(reversingLines[1].Debit.Equal(decimal.NewFromInt(75000)))
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

// When two reversals race, the repository persists the mirror and flips the
// original's status in one transaction; the loser gets a conflict and leaves
// no journal behind.
func (suite *JournalServiceTestSuite) TestReverseJournal_ConcurrentReversalConflict() {
	originalID := uuid.NewString()
	original := domain.Journal{
		JournalID:     originalID,
		JournalNumber: "JRN-202601-0009",
		JournalType:   domain.GeneralJournal,
		JournalDate:   time.Date(2026, 1, 12, 0, 0, 0, 0, time.UTC),
		Description:   "Duplicate charge",
		Status:        domain.Posted,
		Source:        domain.SourceRef{Kind: domain.SourceManual},
		Amount:        decimal.NewFromInt(40000),
	}
	originalLines := []domain.JournalLine{
		{LineID: uuid.NewString(), JournalID: originalID, AccountID: suite.cashAcct.AccountID, Debit: decimal.NewFromInt(40000)},
		{LineID: uuid.NewString(), JournalID: originalID, AccountID: suite.revenueAcct.AccountID, Credit: decimal.NewFromInt(40000)},
	}

	suite.mockJournalRepo.On("FindJournalByID", suite.ctx, originalID).Return(&original, nil).Once()
	suite.mockJournalRepo.On("FindLinesByJournalID", suite.ctx, originalID).Return(originalLines, nil).Once()
	suite.mockPeriodRepo.On("FindPeriodForDate", suite.ctx, mock.AnythingOfType("time.Time")).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockAccountRepo.On("FindAccountsByIDs", suite.ctx, mock.AnythingOfType("[]string")).Return(suite.activeAccounts(), nil).Once()
	suite.mockJournalRepo.On("SaveReversal", suite.ctx, mock.AnythingOfType("domain.Journal"), mock.AnythingOfType("[]domain.JournalLine"), originalID).
		Return(fmt.Errorf("journal %s is no longer posted: %w", originalID, apperrors.ErrConflict)).Once()

	_, err := suite.service.ReverseJournal(suite.ctx, originalID, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	// No second lookup happens when the reversal does not commit.
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestReverseJournal_AutoGeneratedRejected() {
	journalID := uuid.NewString()
	auto := domain.Journal{
		JournalID:     journalID,
		Status:        domain.Posted,
		AutoGenerated: true,
		Source:        domain.SourceRef{Kind: domain.SourceLoanDisbursement, ID: uuid.NewString()},
	}

	suite.mockJournalRepo.On("FindJournalByID", suite.ctx, journalID).Return(&auto, nil).Once()

	_, err := suite.service.ReverseJournal(suite.ctx, journalID, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrReverseAutoGenerated)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "SaveReversal", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestReverseJournal_AlreadyReversed() {
	journalID := uuid.NewString()
	reversed := domain.Journal{
		JournalID: journalID,
		Status:    domain.Reversed,
		Source:    domain.SourceRef{Kind: domain.SourceManual},
	}

	suite.mockJournalRepo.On("FindJournalByID", suite.ctx, journalID).Return(&reversed, nil).Once()

	_, err := suite.service.ReverseJournal(suite.ctx, journalID, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
}

func (suite *JournalServiceTestSuite) TestGetJournalByID_LoadsLines() {
	journalID := uuid.NewString()
	journal := domain.Journal{JournalID: journalID, JournalNumber: "JRN-202602-0001", Status: domain.Posted}
	lines := []domain.JournalLine{
		{LineID: uuid.NewString(), JournalID: journalID, AccountID: suite.cashAcct.AccountID, Debit: decimal.NewFromInt(100)},
		{LineID: uuid.NewString(), JournalID: journalID, AccountID: suite.revenueAcct.AccountID, Credit: decimal.NewFromInt(100)},
	}

	suite.mockJournalRepo.On("FindJournalByID", suite.ctx, journalID).Return(&journal, nil).Once()
	suite.mockJournalRepo.On("FindLinesByJournalID", suite.ctx, journalID).Return(lines, nil).Once()

	result, err := suite.service.GetJournalByID(suite.ctx, journalID)

	suite.Require().NoError(err)
	suite.Len(result.Lines, 2)
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestListAccountLedger() {
	lines := []domain.JournalLine{
		{LineID: uuid.NewString(), AccountID: suite.cashAcct.AccountID, Debit: decimal.NewFromInt(250000)},
		{LineID: uuid.NewString(), AccountID: suite.cashAcct.AccountID, Credit: decimal.NewFromInt(50000)},
	}

	suite.mockAccountRepo.On("FindAccountByID", suite.ctx, suite.cashAcct.AccountID).Return(&suite.cashAcct, nil).Once()
	suite.mockJournalRepo.On("ListLinesByAccountID", suite.ctx, suite.cashAcct.AccountID, 10).Return(lines, nil).Once()

	result, err := suite.service.ListAccountLedger(suite.ctx, suite.cashAcct.AccountID, 10)

	suite.Require().NoError(err)
	suite.Len(result, 2)
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestListAccountLedger_UnknownAccount() {
	accountID := uuid.NewString()

	suite.mockAccountRepo.On("FindAccountByID", suite.ctx, accountID).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.ListAccountLedger(suite.ctx, accountID, 0)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "ListLinesByAccountID", mock.Anything, mock.Anything, mock.Anything)
}

func TestJournalService(t *testing.T) {
	suite.Run(t, new(JournalServiceTestSuite))
}
