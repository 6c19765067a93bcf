package services

import (
	"context"

	"github.com/KopSinergi/koperasi_backend/internal/core/domain"
	"github.com/KopSinergi/koperasi_backend/internal/dto"
	"github.com/shopspring/decimal"
)

// CashDirection is the direction of a balance adjustment.
type CashDirection string

const (
	CashCredit CashDirection = "CREDIT" // Money into the cash account
	CashDebit  CashDirection = "DEBIT"  // Money out of the cash account
)

// CashAccountSvcFacade exposes the cash balance manager.
type CashAccountSvcFacade interface {
	CreateCashAccount(ctx context.Context, req dto.CreateCashAccountRequest, creatorID string) (*domain.CashAccount, error)
	GetCashAccountByID(ctx context.Context, cashAccountID string) (*domain.CashAccount, error)
	ListCashAccounts(ctx context.Context, includeInactive bool) ([]domain.CashAccount, error)

	// Adjust moves money into or out of one cash account, posting the paired
	// journal in the same transaction. Returns the new balance.
	Adjust(ctx context.Context, cashAccountID string, amount decimal.Decimal, direction CashDirection, memo string, actorID string) (decimal.Decimal, error)

	// TransferCash atomically moves money between two cash accounts with one
	// balanced journal. Fails with ErrInsufficientFunds without any effect if
	// the source balance is too low.
	TransferCash(ctx context.Context, req dto.TransferCashRequest, actorID string) (*domain.CashTransferResult, error)
}
