package dto

import (
	"time"

	"github.com/KopSinergi/koperasi_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateCashAccountRequest defines the payload for creating a cash account.
type CreateCashAccountRequest struct {
	Code            string          `json:"code" binding:"required"`
	Name            string          `json:"name" binding:"required"`
	Type            string          `json:"type" binding:"required,oneof=CASH_ON_HAND CASH_IN_BANK PETTY_CASH SAVINGS_POOL"`
	LedgerAccountID string          `json:"ledgerAccountID" binding:"required"`
	OpeningBalance  decimal.Decimal `json:"openingBalance"`
}

// TransferCashRequest defines the payload for moving money between cash accounts.
type TransferCashRequest struct {
	FromAccountID string          `json:"fromAccountID" binding:"required"`
	ToAccountID   string          `json:"toAccountID" binding:"required"`
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	Date          time.Time       `json:"date" binding:"required"`
	Purpose       string          `json:"purpose" binding:"required"`
}

// AdjustCashRequest defines the payload for a manual balance adjustment.
type AdjustCashRequest struct {
	Amount    decimal.Decimal `json:"amount" binding:"required"`
	Direction string          `json:"direction" binding:"required,oneof=CREDIT DEBIT"`
	Memo      string          `json:"memo" binding:"required"`
}

// CashAccountResponse defines the data returned for a cash account.
type CashAccountResponse struct {
	CashAccountID   string          `json:"cashAccountID"`
	Code            string          `json:"code"`
	Name            string          `json:"name"`
	Type            string          `json:"type"`
	LedgerAccountID string          `json:"ledgerAccountID"`
	Balance         decimal.Decimal `json:"balance"`
	IsActive        bool            `json:"isActive"`
}

// CashTransferResponse defines the data returned after a completed transfer.
type CashTransferResponse struct {
	TransferID       string          `json:"transferID"`
	JournalID        string          `json:"journalID"`
	FromAccountID    string          `json:"fromAccountID"`
	ToAccountID      string          `json:"toAccountID"`
	Amount           decimal.Decimal `json:"amount"`
	FromBalanceAfter decimal.Decimal `json:"fromBalanceAfter"`
	ToBalanceAfter   decimal.Decimal `json:"toBalanceAfter"`
	Purpose          string          `json:"purpose"`
}

// ToCashAccountResponse converts a domain.CashAccount to its response DTO.
func ToCashAccountResponse(a *domain.CashAccount) CashAccountResponse {
	return CashAccountResponse{
		CashAccountID:   a.CashAccountID,
		Code:            a.Code,
		Name:            a.Name,
		Type:            string(a.Type),
		LedgerAccountID: a.LedgerAccount,
		Balance:         a.Balance,
		IsActive:        a.IsActive,
	}
}

// ToCashAccountResponses converts a slice of cash accounts to response DTOs.
func ToCashAccountResponses(accounts []domain.CashAccount) []CashAccountResponse {
	responses := make([]CashAccountResponse, len(accounts))
	for i := range accounts {
		responses[i] = ToCashAccountResponse(&accounts[i])
	}
	return responses
}

// ToCashTransferResponse converts a domain.CashTransferResult to its response DTO.
func ToCashTransferResponse(r *domain.CashTransferResult) CashTransferResponse {
	return CashTransferResponse{
		TransferID:       r.TransferID,
		JournalID:        r.JournalID,
		FromAccountID:    r.FromAccountID,
		ToAccountID:      r.ToAccountID,
		Amount:           r.Amount,
		FromBalanceAfter: r.FromBalanceAfter,
		ToBalanceAfter:   r.ToBalanceAfter,
		Purpose:          r.Purpose,
	}
}
