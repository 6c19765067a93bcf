package mapping

import (
	"github.com/KopSinergi/koperasi_backend/internal/core/domain"
	"github.com/KopSinergi/koperasi_backend/internal/models"
)

// ToModelJournal converts a domain journal to its persistence model.
func ToModelJournal(j domain.Journal) models.Journal {
	return models.Journal{
		JournalID:          j.JournalID,
		JournalNumber:      j.JournalNumber,
		JournalType:        string(j.JournalType),
		JournalDate:        j.JournalDate,
		Description:        j.Description,
		PeriodID:           j.PeriodID,
		Status:             string(j.Status),
		AutoGenerated:      j.AutoGenerated,
		SourceKind:         string(j.Source.Kind),
		SourceID:           j.Source.ID,
		Amount:             j.Amount,
		OriginalJournalID:  j.OriginalJournalID,
		ReversingJournalID: j.ReversingJournalID,
		AuditFields: models.AuditFields{
			CreatedAt:     j.CreatedAt,
			CreatedBy:     j.CreatedBy,
			LastUpdatedAt: j.LastUpdatedAt,
			LastUpdatedBy: j.LastUpdatedBy,
		},
	}
}

// ToDomainJournal converts a persistence model to a domain journal.
func ToDomainJournal(m models.Journal) domain.Journal {
	return domain.Journal{
		JournalID:          m.JournalID,
		JournalNumber:      m.JournalNumber,
		JournalType:        domain.JournalType(m.JournalType),
		JournalDate:        m.JournalDate,
		Description:        m.Description,
		PeriodID:           m.PeriodID,
		Status:             domain.JournalStatus(m.Status),
		AutoGenerated:      m.AutoGenerated,
		Source:             domain.SourceRef{Kind: domain.SourceKind(m.SourceKind), ID: m.SourceID},
		Amount:             m.Amount,
		OriginalJournalID:  m.OriginalJournalID,
		ReversingJournalID: m.ReversingJournalID,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}

// ToModelJournalLine converts a domain journal line to its persistence model.
func ToModelJournalLine(l domain.JournalLine) models.JournalLine {
	return models.JournalLine{
		LineID:    l.LineID,
		JournalID: l.JournalID,
		AccountID: l.AccountID,
		Debit:     l.Debit,
		Credit:    l.Credit,
		Memo:      l.Memo,
		AuditFields: models.AuditFields{
			CreatedAt:     l.CreatedAt,
			CreatedBy:     l.CreatedBy,
			LastUpdatedAt: l.LastUpdatedAt,
			LastUpdatedBy: l.LastUpdatedBy,
		},
	}
}

// ToDomainJournalLine converts a persistence model to a domain journal line.
func ToDomainJournalLine(m models.JournalLine) domain.JournalLine {
	return domain.JournalLine{
		LineID:    m.LineID,
		JournalID: m.JournalID,
		AccountID: m.AccountID,
		Debit:     m.Debit,
		Credit:    m.Credit,
		Memo:      m.Memo,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}

// ToDomainJournalLines converts a slice of persistence lines.
func ToDomainJournalLines(ms []models.JournalLine) []domain.JournalLine {
	lines := make([]domain.JournalLine, 0, len(ms))
	for _, m := range ms {
		lines = append(lines, ToDomainJournalLine(m))
	}
	return lines
}
