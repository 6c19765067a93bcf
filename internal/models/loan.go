package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Loan is the persistence model for the loans table.
type Loan struct {
	LoanID                    string
	MemberID                  string
	Principal                 decimal.Decimal
	AnnualRatePercent         decimal.Decimal
	TenureMonths              int
	InstallmentAmount         decimal.Decimal
	RemainingPrincipal        decimal.Decimal
	Status                    string
	DeductionMethod           string
	SalaryDeductionPercent    decimal.Decimal
	AllowanceDeductionPercent decimal.Decimal
	DisbursedAt               *time.Time
	EarlySettlement           bool
	SettlementAmount          decimal.Decimal
	SettledAt                 *time.Time
	AuditFields
}

// Installment is the persistence model for the installments table.
type Installment struct {
	InstallmentID    string
	LoanID           string
	Number           int
	DueDate          time.Time
	PrincipalPortion decimal.Decimal
	InterestPortion  decimal.Decimal
	TotalAmount      decimal.Decimal
	PaidAmount       decimal.Decimal
	Status           string
	PaidAt           *time.Time
	ConfirmedBy      *string
	AuditFields
}
