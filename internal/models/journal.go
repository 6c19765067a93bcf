package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Journal is the persistence model for the journals table.
type Journal struct {
	JournalID          string
	JournalNumber      string
	JournalType        string
	JournalDate        time.Time
	Description        string
	PeriodID           *string
	Status             string
	AutoGenerated      bool
	SourceKind         string
	SourceID           string
	Amount             decimal.Decimal
	OriginalJournalID  *string
	ReversingJournalID *string
	AuditFields
}

// JournalLine is the persistence model for the journal_lines table.
type JournalLine struct {
	LineID    string
	JournalID string
	AccountID string
	Debit     decimal.Decimal
	Credit    decimal.Decimal
	Memo      string
	AuditFields
}
