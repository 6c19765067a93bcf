package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LoanStatus is the lifecycle state of a loan.
type LoanStatus string

const (
	LoanPending   LoanStatus = "PENDING"
	LoanApproved  LoanStatus = "APPROVED"
	LoanRejected  LoanStatus = "REJECTED"
	LoanDisbursed LoanStatus = "DISBURSED"
	LoanActive    LoanStatus = "ACTIVE"
	LoanPaidOff   LoanStatus = "PAID_OFF"
)

// IsOpen reports whether the loan accepts payments or settlement.
func (s LoanStatus) IsOpen() bool {
	return s == LoanApproved || s == LoanDisbursed || s == LoanActive
}

// DeductionMethod is how a loan's installments are collected.
type DeductionMethod string

const (
	DeductionNone             DeductionMethod = "NONE"
	DeductionSalary           DeductionMethod = "SALARY"
	DeductionServiceAllowance DeductionMethod = "SERVICE_ALLOWANCE"
	DeductionMixed            DeductionMethod = "MIXED"
)

// Loan is a member loan repaid in monthly installments computed with the
// reducing-balance method. InstallmentAmount is frozen at disbursement.
type Loan struct {
	LoanID                    string          `json:"loanID"` // Primary Key (UUID)
	MemberID                  string          `json:"memberID"`
	Principal                 decimal.Decimal `json:"principal"`
	AnnualRatePercent         decimal.Decimal `json:"annualRatePercent"`
	TenureMonths              int             `json:"tenureMonths"`
	InstallmentAmount         decimal.Decimal `json:"installmentAmount"` // Frozen at disbursement
	RemainingPrincipal        decimal.Decimal `json:"remainingPrincipal"`
	Status                    LoanStatus      `json:"status"`
	DeductionMethod           DeductionMethod `json:"deductionMethod"`
	SalaryDeductionPercent    decimal.Decimal `json:"salaryDeductionPercent"`
	AllowanceDeductionPercent decimal.Decimal `json:"allowanceDeductionPercent"`
	DisbursedAt               *time.Time      `json:"disbursedAt,omitempty"`
	EarlySettlement           bool            `json:"earlySettlement"`
	SettlementAmount          decimal.Decimal `json:"settlementAmount"`
	SettledAt                 *time.Time      `json:"settledAt,omitempty"`
	Installments              []Installment   `json:"installments,omitempty"`
	AuditFields
}

// InstallmentStatus is the state of a single installment.
type InstallmentStatus string

const (
	InstallmentPending       InstallmentStatus = "PENDING"
	InstallmentAutoPaid      InstallmentStatus = "AUTO_PAID"
	InstallmentManualPending InstallmentStatus = "MANUAL_PENDING"
	InstallmentPaid          InstallmentStatus = "PAID"
	InstallmentOverdue       InstallmentStatus = "OVERDUE"
	InstallmentCancelled     InstallmentStatus = "CANCELLED"
)

// IsSettled reports whether the installment no longer contributes to the
// loan's remaining principal.
func (s InstallmentStatus) IsSettled() bool {
	return s == InstallmentPaid || s == InstallmentAutoPaid || s == InstallmentCancelled
}

// IsPayable reports whether the installment can still accept a payment.
func (s InstallmentStatus) IsPayable() bool {
	return s == InstallmentPending || s == InstallmentOverdue || s == InstallmentManualPending
}

// Installment is one scheduled repayment of a loan.
type Installment struct {
	InstallmentID    string            `json:"installmentID"` // Primary Key (UUID)
	LoanID           string            `json:"loanID"`
	Number           int               `json:"number"` // 1-based position in the schedule
	DueDate          time.Time         `json:"dueDate"`
	PrincipalPortion decimal.Decimal   `json:"principalPortion"`
	InterestPortion  decimal.Decimal   `json:"interestPortion"`
	TotalAmount      decimal.Decimal   `json:"totalAmount"`
	PaidAmount       decimal.Decimal   `json:"paidAmount"`
	Status           InstallmentStatus `json:"status"`
	PaidAt           *time.Time        `json:"paidAt,omitempty"`
	ConfirmedBy      *string           `json:"confirmedBy,omitempty"`
	AuditFields
}

// Outstanding returns the unpaid part of the installment's face amount.
func (i Installment) Outstanding() decimal.Decimal {
	return i.TotalAmount.Sub(i.PaidAmount)
}

// PaymentMethod distinguishes how an installment was collected.
type PaymentMethod string

const (
	PaymentManual    PaymentMethod = "MANUAL"
	PaymentDeduction PaymentMethod = "DEDUCTION"
)

// SettlementSummary reports the outcome of an early settlement.
type SettlementSummary struct {
	LoanID                string          `json:"loanID"`
	SettlementAmount      decimal.Decimal `json:"settlementAmount"`
	CancelledInstallments int             `json:"cancelledInstallments"`
	WaivedInterest        decimal.Decimal `json:"waivedInterest"`
	JournalID             string          `json:"journalID"`
	SettledAt             time.Time       `json:"settledAt"`
}
