package repositories

// RepositoryProvider bundles all repository facades for injection into the
// service layer.
type RepositoryProvider struct {
	AccountRepo     ChartOfAccountRepositoryFacade
	PeriodRepo      PeriodRepositoryFacade
	JournalRepo     JournalRepositoryFacade
	CashAccountRepo CashAccountRepositoryFacade
	LoanRepo        LoanRepositoryFacade
	DeductionRepo   DeductionRepositoryFacade
	MemberRepo      MemberRepositoryFacade
}
