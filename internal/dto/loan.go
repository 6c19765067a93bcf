package dto

import (
	"time"

	"github.com/KopSinergi/koperasi_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ApplyLoanRequest defines the payload for a new loan application.
type ApplyLoanRequest struct {
	MemberID                  string          `json:"memberID" binding:"required"`
	Principal                 decimal.Decimal `json:"principal" binding:"required"`
	AnnualRatePercent         decimal.Decimal `json:"annualRatePercent"`
	TenureMonths              int             `json:"tenureMonths" binding:"required,min=1"`
	DeductionMethod           string          `json:"deductionMethod" binding:"omitempty,oneof=NONE SALARY SERVICE_ALLOWANCE MIXED"`
	SalaryDeductionPercent    decimal.Decimal `json:"salaryDeductionPercent"`
	AllowanceDeductionPercent decimal.Decimal `json:"allowanceDeductionPercent"`
}

// DisburseLoanRequest defines the payload for disbursing an approved loan.
type DisburseLoanRequest struct {
	CashAccountID string    `json:"cashAccountID" binding:"required"`
	Date          time.Time `json:"date" binding:"required"`
}

// PayInstallmentRequest defines the payload for paying one installment.
type PayInstallmentRequest struct {
	Method        string          `json:"method" binding:"required,oneof=MANUAL DEDUCTION"`
	CashAccountID string          `json:"cashAccountID" binding:"required"`
	Amount        decimal.Decimal `json:"amount"` // Zero pays the full outstanding amount
}

// SettleEarlyRequest defines the payload for early loan settlement.
type SettleEarlyRequest struct {
	CashAccountID string `json:"cashAccountID" binding:"required"`
	Notes         string `json:"notes"`
}

// CalculateInstallmentRequest defines the payload for the installment preview.
type CalculateInstallmentRequest struct {
	Principal         decimal.Decimal `json:"principal" binding:"required"`
	AnnualRatePercent decimal.Decimal `json:"annualRatePercent"`
	TenureMonths      int             `json:"tenureMonths" binding:"required,min=1"`
}

// InstallmentResponse defines the data returned for one installment.
type InstallmentResponse struct {
	InstallmentID    string          `json:"installmentID"`
	Number           int             `json:"number"`
	DueDate          time.Time       `json:"dueDate"`
	PrincipalPortion decimal.Decimal `json:"principalPortion"`
	InterestPortion  decimal.Decimal `json:"interestPortion"`
	TotalAmount      decimal.Decimal `json:"totalAmount"`
	PaidAmount       decimal.Decimal `json:"paidAmount"`
	Status           string          `json:"status"`
	PaidAt           *time.Time      `json:"paidAt,omitempty"`
}

// LoanResponse defines the data returned for a loan.
type LoanResponse struct {
	LoanID             string                `json:"loanID"`
	MemberID           string                `json:"memberID"`
	Principal          decimal.Decimal       `json:"principal"`
	AnnualRatePercent  decimal.Decimal       `json:"annualRatePercent"`
	TenureMonths       int                   `json:"tenureMonths"`
	InstallmentAmount  decimal.Decimal       `json:"installmentAmount"`
	RemainingPrincipal decimal.Decimal       `json:"remainingPrincipal"`
	Status             string                `json:"status"`
	DeductionMethod    string                `json:"deductionMethod"`
	EarlySettlement    bool                  `json:"earlySettlement"`
	SettlementAmount   decimal.Decimal       `json:"settlementAmount"`
	DisbursedAt        *time.Time            `json:"disbursedAt,omitempty"`
	Installments       []InstallmentResponse `json:"installments,omitempty"`
}

// SettlementResponse defines the data returned after an early settlement.
type SettlementResponse struct {
	LoanID                string          `json:"loanID"`
	SettlementAmount      decimal.Decimal `json:"settlementAmount"`
	CancelledInstallments int             `json:"cancelledInstallments"`
	WaivedInterest        decimal.Decimal `json:"waivedInterest"`
	JournalID             string          `json:"journalID"`
	SettledAt             time.Time       `json:"settledAt"`
}

// ToInstallmentResponse converts a domain.Installment to its response DTO.
func ToInstallmentResponse(i *domain.Installment) InstallmentResponse {
	return InstallmentResponse{
		InstallmentID:    i.InstallmentID,
		Number:           i.Number,
		DueDate:          i.DueDate,
		PrincipalPortion: i.PrincipalPortion,
		InterestPortion:  i.InterestPortion,
		TotalAmount:      i.TotalAmount,
		PaidAmount:       i.PaidAmount,
		Status:           string(i.Status),
		PaidAt:           i.PaidAt,
	}
}

// ToLoanResponse converts a domain.Loan (with any loaded installments) to its response DTO.
func ToLoanResponse(l *domain.Loan) LoanResponse {
	resp := LoanResponse{
		LoanID:             l.LoanID,
		MemberID:           l.MemberID,
		Principal:          l.Principal,
		AnnualRatePercent:  l.AnnualRatePercent,
		TenureMonths:       l.TenureMonths,
		InstallmentAmount:  l.InstallmentAmount,
		RemainingPrincipal: l.RemainingPrincipal,
		Status:             string(l.Status),
		DeductionMethod:    string(l.DeductionMethod),
		EarlySettlement:    l.EarlySettlement,
		SettlementAmount:   l.SettlementAmount,
		DisbursedAt:        l.DisbursedAt,
	}
	if len(l.Installments) > 0 {
		resp.Installments = make([]InstallmentResponse, len(l.Installments))
		for i := range l.Installments {
			resp.Installments[i] = ToInstallmentResponse(&l.Installments[i])
		}
	}
	return resp
}

// ToLoanResponses converts a slice of loans to response DTOs.
func ToLoanResponses(loans []domain.Loan) []LoanResponse {
	responses := make([]LoanResponse, len(loans))
	for i := range loans {
		responses[i] = ToLoanResponse(&loans[i])
	}
	return responses
}

// ToSettlementResponse converts a domain.SettlementSummary to its response DTO.
func ToSettlementResponse(s *domain.SettlementSummary) SettlementResponse {
	return SettlementResponse{
		LoanID:                s.LoanID,
		SettlementAmount:      s.SettlementAmount,
		CancelledInstallments: s.CancelledInstallments,
		WaivedInterest:        s.WaivedInterest,
		JournalID:             s.JournalID,
		SettledAt:             s.SettledAt,
	}
}
