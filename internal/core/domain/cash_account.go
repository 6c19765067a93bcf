package domain

import "github.com/shopspring/decimal"

// CashAccountType is a classification tag for a cash account.
type CashAccountType string

const (
	CashOnHand  CashAccountType = "CASH_ON_HAND"
	CashInBank  CashAccountType = "CASH_IN_BANK"
	PettyCash   CashAccountType = "PETTY_CASH"
	CashSavings CashAccountType = "SAVINGS_POOL"
)

// CashAccount is a physical or bank cash pool. Its balance is never negative
// and is mutated only through the balance manager inside the same database
// transaction as the paired journal posting.
type CashAccount struct {
	CashAccountID string          `json:"cashAccountID"` // Primary Key (UUID)
	Code          string          `json:"code"`          // Unique short code, e.g. "KAS-01"
	Name          string          `json:"name"`
	Type          CashAccountType `json:"type"`
	LedgerAccount string          `json:"ledgerAccountID"` // FK -> ChartOfAccount backing this pool
	Balance       decimal.Decimal `json:"balance"`
	IsActive      bool            `json:"isActive"`
	AuditFields
}

// CashTransferResult summarises a completed transfer between cash accounts.
type CashTransferResult struct {
	TransferID         string          `json:"transferID"`
	JournalID          string          `json:"journalID"`
	FromAccountID      string          `json:"fromAccountID"`
	ToAccountID        string          `json:"toAccountID"`
	Amount             decimal.Decimal `json:"amount"`
	FromBalanceAfter   decimal.Decimal `json:"fromBalanceAfter"`
	ToBalanceAfter     decimal.Decimal `json:"toBalanceAfter"`
	Purpose            string          `json:"purpose"`
}
