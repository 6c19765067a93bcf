package services

import (
	portsrepo "github.com/KopSinergi/koperasi_backend/internal/core/ports/repositories"
	portssvc "github.com/KopSinergi/koperasi_backend/internal/core/ports/services"
)

// NewServiceContainer creates the service container with properly wired dependencies.
func NewServiceContainer(repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// Period and account services come first since the journal poster
	// validates every draft against both.
	container.Period = NewPeriodService(repos.PeriodRepo)
	container.Account = NewAccountService(repos.AccountRepo)
	container.Journal = NewJournalService(repos.JournalRepo, repos.AccountRepo, container.Period)

	container.CashAccount = NewCashAccountService(repos.CashAccountRepo, repos.AccountRepo, container.Journal)
	container.Loan = NewLoanService(repos.LoanRepo, repos.CashAccountRepo, repos.AccountRepo, repos.MemberRepo, container.Journal)
	container.Deduction = NewDeductionService(repos.DeductionRepo, repos.LoanRepo, repos.CashAccountRepo, repos.AccountRepo, repos.MemberRepo, container.Journal)
	container.Member = NewMemberService(repos.MemberRepo)

	return container
}
