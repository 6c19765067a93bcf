package pgsql

import (
	portsrepo "github.com/KopSinergi/koperasi_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	accountRepo := newPgxAccountRepository(dbPool)
	periodRepo := newPgxPeriodRepository(dbPool)
	cashAccountRepo := newPgxCashAccountRepository(dbPool)
	journalRepo := newPgxJournalRepository(dbPool, cashAccountRepo)
	loanRepo := newPgxLoanRepository(dbPool, journalRepo, cashAccountRepo)
	deductionRepo := newPgxDeductionRepository(dbPool, journalRepo, cashAccountRepo, loanRepo)
	memberRepo := newPgxMemberRepository(dbPool)

	return portsrepo.RepositoryProvider{
		AccountRepo:     accountRepo,
		PeriodRepo:      periodRepo,
		JournalRepo:     journalRepo,
		CashAccountRepo: cashAccountRepo,
		LoanRepo:        loanRepo,
		DeductionRepo:   deductionRepo,
		MemberRepo:      memberRepo,
	}
}
