package services

// ServiceContainer holds all the services for injection into handlers.
type ServiceContainer struct {
	Account     ChartOfAccountSvcFacade
	Period      PeriodSvcFacade
	Journal     JournalSvcFacade
	CashAccount CashAccountSvcFacade
	Loan        LoanSvcFacade
	Deduction   DeductionSvcFacade
	Member      MemberSvcFacade
}
