package mapping

import (
	"github.com/KopSinergi/koperasi_backend/internal/core/domain"
	"github.com/KopSinergi/koperasi_backend/internal/models"
)

// ToModelLoan converts a domain loan to its persistence model.
func ToModelLoan(l domain.Loan) models.Loan {
	return models.Loan{
		LoanID:                    l.LoanID,
		MemberID:                  l.MemberID,
		Principal:                 l.Principal,
		AnnualRatePercent:         l.AnnualRatePercent,
		TenureMonths:              l.TenureMonths,
		InstallmentAmount:         l.InstallmentAmount,
		RemainingPrincipal:        l.RemainingPrincipal,
		Status:                    string(l.Status),
		DeductionMethod:           string(l.DeductionMethod),
		SalaryDeductionPercent:    l.SalaryDeductionPercent,
		AllowanceDeductionPercent: l.AllowanceDeductionPercent,
		DisbursedAt:               l.DisbursedAt,
		EarlySettlement:           l.EarlySettlement,
		SettlementAmount:          l.SettlementAmount,
		SettledAt:                 l.SettledAt,
		AuditFields: models.AuditFields{
			CreatedAt:     l.CreatedAt,
			CreatedBy:     l.CreatedBy,
			LastUpdatedAt: l.LastUpdatedAt,
			LastUpdatedBy: l.LastUpdatedBy,
		},
	}
}

// ToDomainLoan converts a persistence model to a domain loan.
func ToDomainLoan(m models.Loan) domain.Loan {
	return domain.Loan{
		LoanID:                    m.LoanID,
		MemberID:                  m.MemberID,
		Principal:                 m.Principal,
		AnnualRatePercent:         m.AnnualRatePercent,
		TenureMonths:              m.TenureMonths,
		InstallmentAmount:         m.InstallmentAmount,
		RemainingPrincipal:        m.RemainingPrincipal,
		Status:                    domain.LoanStatus(m.Status),
		DeductionMethod:           domain.DeductionMethod(m.DeductionMethod),
		SalaryDeductionPercent:    m.SalaryDeductionPercent,
		AllowanceDeductionPercent: m.AllowanceDeductionPercent,
		DisbursedAt:               m.DisbursedAt,
		EarlySettlement:           m.EarlySettlement,
		SettlementAmount:          m.SettlementAmount,
		SettledAt:                 m.SettledAt,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}

// ToModelInstallment converts a domain installment to its persistence model.
func ToModelInstallment(i domain.Installment) models.Installment {
	return models.Installment{
		InstallmentID:    i.InstallmentID,
		LoanID:           i.LoanID,
		Number:           i.Number,
		DueDate:          i.DueDate,
		PrincipalPortion: i.PrincipalPortion,
		InterestPortion:  i.InterestPortion,
		TotalAmount:      i.TotalAmount,
		PaidAmount:       i.PaidAmount,
		Status:           string(i.Status),
		PaidAt:           i.PaidAt,
		ConfirmedBy:      i.ConfirmedBy,
		AuditFields: models.AuditFields{
			CreatedAt:     i.CreatedAt,
			CreatedBy:     i.CreatedBy,
			LastUpdatedAt: i.LastUpdatedAt,
			LastUpdatedBy: i.LastUpdatedBy,
		},
	}
}

// ToDomainInstallment converts a persistence model to a domain installment.
func ToDomainInstallment(m models.Installment) domain.Installment {
	return domain.Installment{
		InstallmentID:    m.InstallmentID,
		LoanID:           m.LoanID,
		Number:           m.Number,
		DueDate:          m.DueDate,
		PrincipalPortion: m.PrincipalPortion,
		InterestPortion:  m.InterestPortion,
		TotalAmount:      m.TotalAmount,
		PaidAmount:       m.PaidAmount,
		Status:           domain.InstallmentStatus(m.Status),
		PaidAt:           m.PaidAt,
		ConfirmedBy:      m.ConfirmedBy,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}

// ToDomainInstallments converts a slice of persistence installments.
func ToDomainInstallments(ms []models.Installment) []domain.Installment {
	out := make([]domain.Installment, 0, len(ms))
	for _, m := range ms {
		out = append(out, ToDomainInstallment(m))
	}
	return out
}
