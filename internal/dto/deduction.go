package dto

import (
	"github.com/KopSinergi/koperasi_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// DistributeDeductionRequest defines the payload for a payroll deduction run
// for one member and month.
type DistributeDeductionRequest struct {
	MemberID         string          `json:"memberID" binding:"required"`
	Month            int             `json:"month" binding:"required,min=1,max=12"`
	Year             int             `json:"year" binding:"required,min=2000"`
	GrossSalary      decimal.Decimal `json:"grossSalary" binding:"required"`
	SavingsDeduction decimal.Decimal `json:"savingsDeduction"`
	OtherDeduction   decimal.Decimal `json:"otherDeduction"`
	CashAccountID    string          `json:"cashAccountID" binding:"required"`
}

// DeductionResponse defines the data returned for a deduction snapshot.
type DeductionResponse struct {
	DeductionID      string          `json:"deductionID"`
	MemberID         string          `json:"memberID"`
	Month            int             `json:"month"`
	Year             int             `json:"year"`
	RunType          string          `json:"runType"`
	GrossSalary      decimal.Decimal `json:"grossSalary"`
	LoanDeduction    decimal.Decimal `json:"loanDeduction"`
	SavingsDeduction decimal.Decimal `json:"savingsDeduction"`
	OtherDeduction   decimal.Decimal `json:"otherDeduction"`
	NetSalary        decimal.Decimal `json:"netSalary"`
	PaidInstallments []string        `json:"paidInstallmentIDs,omitempty"`
}

// ToDeductionResponse converts a domain.SalaryDeduction to its response DTO.
func ToDeductionResponse(d *domain.SalaryDeduction) DeductionResponse {
	return DeductionResponse{
		DeductionID:      d.DeductionID,
		MemberID:         d.MemberID,
		Month:            d.Month,
		Year:             d.Year,
		RunType:          string(d.RunType),
		GrossSalary:      d.GrossSalary,
		LoanDeduction:    d.LoanDeduction,
		SavingsDeduction: d.SavingsDeduction,
		OtherDeduction:   d.OtherDeduction,
		NetSalary:        d.NetSalary,
		PaidInstallments: d.PaidInstallments,
	}
}

// ToDeductionResponses converts a slice of snapshots to response DTOs.
func ToDeductionResponses(deductions []domain.SalaryDeduction) []DeductionResponse {
	responses := make([]DeductionResponse, len(deductions))
	for i := range deductions {
		responses[i] = ToDeductionResponse(&deductions[i])
	}
	return responses
}
