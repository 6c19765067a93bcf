package accounting

import (
	"fmt"

	"github.com/KopSinergi/koperasi_backend/internal/apperrors"
	"github.com/KopSinergi/koperasi_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SignedBalanceDelta computes how a journal line changes the balance of its
// account: positive when the line posts to the account's effective normal
// side, negative otherwise. Used by both services and repositories so the
// convention lives in exactly one place.
func SignedBalanceDelta(line domain.JournalLine, account domain.ChartOfAccount) decimal.Decimal {
	amount := line.AmountPosted()
	if string(line.Side()) == string(account.EffectiveNormalSide()) {
		return amount
	}
	return amount.Neg()
}

// ValidateJournalLines enforces the structural invariants of a journal draft:
// at least two lines, each line posting exactly one positive side, and equal
// debit and credit totals.
func ValidateJournalLines(lines []domain.JournalLine) error {
	if len(lines) < 2 {
		return fmt.Errorf("%w: journal must have at least two lines, got %d", apperrors.ErrValidation, len(lines))
	}

	debitSum := decimal.Zero
	creditSum := decimal.Zero
	for i, line := range lines {
		hasDebit := line.Debit.IsPositive()
		hasCredit := line.Credit.IsPositive()
		if line.Debit.IsNegative() || line.Credit.IsNegative() {
			return fmt.Errorf("%w: line %d has a negative amount", apperrors.ErrValidation, i+1)
		}
		if hasDebit == hasCredit {
			// Both set or both zero.
			return fmt.Errorf("%w: line %d must have exactly one of debit or credit greater than zero", apperrors.ErrValidation, i+1)
		}
		debitSum = debitSum.Add(line.Debit)
		creditSum = creditSum.Add(line.Credit)
	}

	if !debitSum.Equal(creditSum) {
		return fmt.Errorf("%w: debits sum to %s, credits sum to %s", apperrors.ErrUnbalanced, debitSum.String(), creditSum.String())
	}
	return nil
}

// JournalAmount is the economic value of a balanced journal: the debit side total.
func JournalAmount(lines []domain.JournalLine) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.Debit)
	}
	return total
}
