package domain

import "github.com/shopspring/decimal"

// DeductionRunType distinguishes the payroll source of a deduction run.
type DeductionRunType string

const (
	RunSalary           DeductionRunType = "SALARY"
	RunServiceAllowance DeductionRunType = "SERVICE_ALLOWANCE"
)

// SalaryDeduction is an immutable snapshot of one member's payroll deduction
// for a given month. Unique per (member, month, year, run type).
type SalaryDeduction struct {
	DeductionID      string           `json:"deductionID"` // Primary Key (UUID)
	MemberID         string           `json:"memberID"`
	Month            int              `json:"month"` // 1..12
	Year             int              `json:"year"`
	RunType          DeductionRunType `json:"runType"`
	GrossSalary      decimal.Decimal  `json:"grossSalary"`
	LoanDeduction    decimal.Decimal  `json:"loanDeduction"`
	SavingsDeduction decimal.Decimal  `json:"savingsDeduction"`
	OtherDeduction   decimal.Decimal  `json:"otherDeduction"`
	NetSalary        decimal.Decimal  `json:"netSalary"`
	PaidInstallments []string         `json:"paidInstallmentIDs,omitempty"`
	AuditFields
}
