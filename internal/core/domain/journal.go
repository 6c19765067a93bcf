package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalType classifies a journal entry.
type JournalType string

const (
	GeneralJournal   JournalType = "GENERAL"
	SpecialJournal   JournalType = "SPECIAL"
	AdjustingJournal JournalType = "ADJUSTING"
	ClosingJournal   JournalType = "CLOSING"
	ReversingJournal JournalType = "REVERSING"
)

// JournalStatus indicates the state of a journal entry.
type JournalStatus string

const (
	Posted   JournalStatus = "POSTED"
	Reversed JournalStatus = "REVERSED"
)

// SourceKind identifies the business event that generated a journal.
// Replaces the loosely typed entity-name reference of the legacy system.
type SourceKind string

const (
	SourceManual             SourceKind = "MANUAL"
	SourceLoanDisbursement   SourceKind = "LOAN_DISBURSEMENT"
	SourceInstallmentPayment SourceKind = "INSTALLMENT_PAYMENT"
	SourceEarlySettlement    SourceKind = "EARLY_SETTLEMENT"
	SourceCashTransfer       SourceKind = "CASH_TRANSFER"
	SourceSalaryDeduction    SourceKind = "SALARY_DEDUCTION"
)

// SourceRef ties an auto-generated journal back to the entity that caused it.
type SourceRef struct {
	Kind SourceKind `json:"kind"`
	ID   string     `json:"id"`
}

// Journal represents a single, balanced financial event composed of multiple lines.
// A journal is immutable after creation; corrections are made via a new
// reversing journal, never by mutation.
type Journal struct {
	JournalID          string          `json:"journalID"`     // Primary Key (UUID)
	JournalNumber      string          `json:"journalNumber"` // Unique, generated, e.g. JRN-202601-0001
	JournalType        JournalType     `json:"journalType"`
	JournalDate        time.Time       `json:"journalDate"` // Date the event occurred
	Description        string          `json:"description"`
	PeriodID           *string         `json:"periodID"` // Resolved accounting period, if any
	Status             JournalStatus   `json:"status"`
	AutoGenerated      bool            `json:"autoGenerated"`
	Source             SourceRef       `json:"source"`
	Amount             decimal.Decimal `json:"amount"` // Sum of the debit side
	OriginalJournalID  *string         `json:"originalJournalID,omitempty"`
	ReversingJournalID *string         `json:"reversingJournalID,omitempty"`
	Lines              []JournalLine   `json:"lines,omitempty"`
	AuditFields
}

// EntrySide indicates whether a journal line is a Debit or a Credit.
type EntrySide string

const (
	Debit  EntrySide = "DEBIT"
	Credit EntrySide = "CREDIT"
)

// JournalLine is a single posting within a Journal, affecting one ledger account.
// Exactly one of Debit/Credit is greater than zero.
type JournalLine struct {
	LineID    string          `json:"lineID"`    // Primary Key (UUID)
	JournalID string          `json:"journalID"` // FK -> Journal
	AccountID string          `json:"accountID"` // FK -> ChartOfAccount
	Debit     decimal.Decimal `json:"debit"`
	Credit    decimal.Decimal `json:"credit"`
	Memo      string          `json:"memo"`
	AuditFields
}

// Side reports which side of the ledger this line posts to.
func (l JournalLine) Side() EntrySide {
	if l.Debit.IsPositive() {
		return Debit
	}
	return Credit
}

// Amount returns the posted amount regardless of side.
func (l JournalLine) AmountPosted() decimal.Decimal {
	if l.Debit.IsPositive() {
		return l.Debit
	}
	return l.Credit
}
