package dto

import (
	"github.com/KopSinergi/koperasi_backend/internal/core/domain"
)

// CreateAccountRequest defines the payload for creating a chart-of-accounts entry.
type CreateAccountRequest struct {
	Code       string `json:"code" binding:"required"`
	Name       string `json:"name" binding:"required"`
	Category   string `json:"category" binding:"required,oneof=ASSETS LIABILITIES EQUITY REVENUE EXPENSES"`
	NormalSide string `json:"normalSide" binding:"required,oneof=DEBIT CREDIT"`
	IsContra   bool   `json:"isContra"`
}

// AccountResponse defines the data returned for a ledger account.
type AccountResponse struct {
	AccountID  string `json:"accountID"`
	Code       string `json:"code"`
	Name       string `json:"name"`
	Category   string `json:"category"`
	NormalSide string `json:"normalSide"`
	IsContra   bool   `json:"isContra"`
	IsActive   bool   `json:"isActive"`
}

// ToAccountResponse converts a domain.ChartOfAccount to its response DTO.
func ToAccountResponse(a *domain.ChartOfAccount) AccountResponse {
	return AccountResponse{
		AccountID:  a.AccountID,
		Code:       a.Code,
		Name:       a.Name,
		Category:   string(a.Category),
		NormalSide: string(a.NormalSide),
		IsContra:   a.IsContra,
		IsActive:   a.IsActive,
	}
}

// ToAccountResponses converts a slice of accounts to response DTOs.
func ToAccountResponses(accounts []domain.ChartOfAccount) []AccountResponse {
	responses := make([]AccountResponse, len(accounts))
	for i := range accounts {
		responses[i] = ToAccountResponse(&accounts[i])
	}
	return responses
}
