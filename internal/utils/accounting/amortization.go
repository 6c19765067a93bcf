package accounting

import (
	"fmt"
	"time"

	"github.com/KopSinergi/koperasi_backend/internal/apperrors"
	"github.com/shopspring/decimal"
)

// twelve and hundred are shared divisors for the monthly rate conversion.
var (
	twelve  = decimal.NewFromInt(12)
	hundred = decimal.NewFromInt(100)
)

// MonthlyRate converts an annual percentage rate into a monthly decimal rate.
func MonthlyRate(annualRatePercent decimal.Decimal) decimal.Decimal {
	return annualRatePercent.Div(twelve).Div(hundred)
}

// ComputeInstallment returns the fixed monthly installment for a
// reducing-balance loan, rounded half away from zero to whole currency units.
// Amounts are whole rupiah; no fractional units are retained.
//
// Zero-rate loans split the principal evenly. Otherwise the standard annuity
// formula applies: P * i * (1+i)^n / ((1+i)^n - 1).
func ComputeInstallment(principal, annualRatePercent decimal.Decimal, months int) (decimal.Decimal, error) {
	if months <= 0 {
		return decimal.Zero, fmt.Errorf("%w: tenure must be at least one month, got %d", apperrors.ErrValidation, months)
	}
	if principal.IsNegative() || principal.IsZero() {
		return decimal.Zero, fmt.Errorf("%w: principal must be positive, got %s", apperrors.ErrValidation, principal.String())
	}
	if annualRatePercent.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: rate must not be negative, got %s", apperrors.ErrValidation, annualRatePercent.String())
	}

	n := decimal.NewFromInt(int64(months))
	if annualRatePercent.IsZero() {
		return principal.Div(n).Round(0), nil
	}

	i := MonthlyRate(annualRatePercent)
	factor := i.Add(decimal.NewFromInt(1)).Pow(n) // (1+i)^n, exact for integer n
	installment := principal.Mul(i).Mul(factor).Div(factor.Sub(decimal.NewFromInt(1)))
	return installment.Round(0), nil
}

// ScheduleEntry is one month of a computed amortization schedule.
type ScheduleEntry struct {
	Number           int
	DueDate          time.Time
	InterestPortion  decimal.Decimal
	PrincipalPortion decimal.Decimal
	TotalAmount      decimal.Decimal
	RemainingAfter   decimal.Decimal
}

// BuildSchedule expands a loan into its full installment schedule. Interest
// for month k is the outstanding principal times the monthly rate, rounded to
// whole units; the principal portion is the fixed installment minus that
// interest. The final installment absorbs all rounding drift so that the
// principal portions sum exactly to the principal and the balance reaches
// zero. Due dates are disbursementDate + k months.
func BuildSchedule(principal, annualRatePercent decimal.Decimal, months int, installment decimal.Decimal, disbursedAt time.Time) ([]ScheduleEntry, error) {
	if months <= 0 {
		return nil, fmt.Errorf("%w: tenure must be at least one month, got %d", apperrors.ErrValidation, months)
	}

	monthlyRate := MonthlyRate(annualRatePercent)
	remaining := principal
	entries := make([]ScheduleEntry, 0, months)

	for k := 1; k <= months; k++ {
		interest := remaining.Mul(monthlyRate).Round(0)
		principalPortion := installment.Sub(interest)
		if k == months {
			// Absorb rounding drift: the last installment repays whatever is left.
			principalPortion = remaining
		}
		remaining = remaining.Sub(principalPortion)

		entries = append(entries, ScheduleEntry{
			Number:           k,
			DueDate:          disbursedAt.AddDate(0, k, 0),
			InterestPortion:  interest,
			PrincipalPortion: principalPortion,
			TotalAmount:      principalPortion.Add(interest),
			RemainingAfter:   remaining,
		})
	}

	return entries, nil
}
