package domain

// AccountCategory defines the fundamental accounting category of a ledger account.
type AccountCategory string

const (
	Assets      AccountCategory = "ASSETS"
	Liabilities AccountCategory = "LIABILITIES"
	Equity      AccountCategory = "EQUITY"
	Revenue     AccountCategory = "REVENUE"
	Expenses    AccountCategory = "EXPENSES"
)

// NormalSide indicates which side increases an account's balance.
type NormalSide string

const (
	NormalDebit  NormalSide = "DEBIT"
	NormalCredit NormalSide = "CREDIT"
)

// ChartOfAccount is a ledger account definition in the chart of accounts.
// Once referenced by a posted journal its code and category are immutable;
// only the active flag may change.
type ChartOfAccount struct {
	AccountID  string          `json:"accountID"`  // Primary Key (UUID)
	Code       string          `json:"code"`       // Unique account code, e.g. "1-1001"
	Name       string          `json:"name"`       // Display name
	Category   AccountCategory `json:"category"`   // ASSETS, LIABILITIES, ...
	NormalSide NormalSide      `json:"normalSide"` // Side that increases the balance
	IsContra   bool            `json:"isContra"`   // Flips the effective normal side
	IsActive   bool            `json:"isActive"`
	AuditFields
}

// Well-known account codes seeded by the initial migration. Services resolve
// these by code when building auto-generated journals.
const (
	CodeLoanReceivable = "1-1200" // Piutang Pinjaman Anggota
	CodeInterestIncome = "4-1100" // Pendapatan Jasa Pinjaman
	CodeOpeningEquity  = "3-1000" // Modal Saldo Awal
	CodeCashAdjustment = "3-9000" // Penyesuaian Kas
)

// EffectiveNormalSide resolves the side that increases this account's
// balance, taking the contra flag into account.
func (a ChartOfAccount) EffectiveNormalSide() NormalSide {
	if !a.IsContra {
		return a.NormalSide
	}
	if a.NormalSide == NormalDebit {
		return NormalCredit
	}
	return NormalDebit
}
