package dto

import (
	"time"

	"github.com/KopSinergi/koperasi_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// JournalLineRequest is one draft line of a journal to post. Exactly one of
// debit/credit must be positive; the service enforces this beyond binding.
type JournalLineRequest struct {
	AccountID string          `json:"accountID" binding:"required"`
	Debit     decimal.Decimal `json:"debit"`
	Credit    decimal.Decimal `json:"credit"`
	Memo      string          `json:"memo"`
}

// PostJournalRequest defines the payload for posting a manual journal.
type PostJournalRequest struct {
	Date        time.Time            `json:"date" binding:"required"`
	Type        string               `json:"type" binding:"omitempty,oneof=GENERAL SPECIAL ADJUSTING CLOSING REVERSING"`
	Description string               `json:"description" binding:"required"`
	Lines       []JournalLineRequest `json:"lines" binding:"required,min=2,dive"`
}

// JournalLineResponse defines the data returned for a journal line.
type JournalLineResponse struct {
	LineID    string          `json:"lineID"`
	AccountID string          `json:"accountID"`
	Debit     decimal.Decimal `json:"debit"`
	Credit    decimal.Decimal `json:"credit"`
	Memo      string          `json:"memo"`
}

// JournalResponse defines the data returned for a journal entry.
type JournalResponse struct {
	JournalID     string                `json:"journalID"`
	JournalNumber string                `json:"journalNumber"`
	Type          string                `json:"type"`
	Date          time.Time             `json:"date"`
	Description   string                `json:"description"`
	Status        string                `json:"status"`
	AutoGenerated bool                  `json:"autoGenerated"`
	SourceKind    string                `json:"sourceKind,omitempty"`
	SourceID      string                `json:"sourceID,omitempty"`
	Amount        decimal.Decimal       `json:"amount"`
	Lines         []JournalLineResponse `json:"lines,omitempty"`
	CreatedAt     time.Time             `json:"createdAt"`
	CreatedBy     string                `json:"createdBy"`
}

// ToJournalLineResponse converts a domain.JournalLine to its response DTO.
func ToJournalLineResponse(l *domain.JournalLine) JournalLineResponse {
	return JournalLineResponse{
		LineID:    l.LineID,
		AccountID: l.AccountID,
		Debit:     l.Debit,
		Credit:    l.Credit,
		Memo:      l.Memo,
	}
}

// ToJournalResponse converts a domain.Journal (with any loaded lines) to its response DTO.
func ToJournalResponse(j *domain.Journal) JournalResponse {
	resp := JournalResponse{
		JournalID:     j.JournalID,
		JournalNumber: j.JournalNumber,
		Type:          string(j.JournalType),
		Date:          j.JournalDate,
		Description:   j.Description,
		Status:        string(j.Status),
		AutoGenerated: j.AutoGenerated,
		SourceKind:    string(j.Source.Kind),
		SourceID:      j.Source.ID,
		Amount:        j.Amount,
		CreatedAt:     j.CreatedAt,
		CreatedBy:     j.CreatedBy,
	}
	if len(j.Lines) > 0 {
		resp.Lines = make([]JournalLineResponse, len(j.Lines))
		for i := range j.Lines {
			resp.Lines[i] = ToJournalLineResponse(&j.Lines[i])
		}
	}
	return resp
}

// ToJournalResponses converts a slice of journals to response DTOs.
func ToJournalResponses(journals []domain.Journal) []JournalResponse {
	responses := make([]JournalResponse, len(journals))
	for i := range journals {
		responses[i] = ToJournalResponse(&journals[i])
	}
	return responses
}
