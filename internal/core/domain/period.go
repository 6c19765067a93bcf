package domain

import "time"

// PeriodStatus is the lifecycle state of an accounting period.
type PeriodStatus string

const (
	PeriodOpen   PeriodStatus = "OPEN"
	PeriodClosed PeriodStatus = "CLOSED"
)

// AccountingPeriod is a non-overlapping, inclusive date range that can be
// locked against new postings. Created open; closed by an explicit action.
type AccountingPeriod struct {
	PeriodID  string       `json:"periodID"` // Primary Key (UUID)
	Name      string       `json:"name"`     // e.g. "2026-01"
	StartDate time.Time    `json:"startDate"`
	EndDate   time.Time    `json:"endDate"` // Inclusive
	Status    PeriodStatus `json:"status"`
	ClosedBy  *string      `json:"closedBy,omitempty"`
	ClosedAt  *time.Time   `json:"closedAt,omitempty"`
	AuditFields
}

// Contains reports whether the given date falls within the period (inclusive).
func (p AccountingPeriod) Contains(date time.Time) bool {
	d := date.Truncate(24 * time.Hour)
	return !d.Before(p.StartDate.Truncate(24*time.Hour)) && !d.After(p.EndDate.Truncate(24*time.Hour))
}

// Overlaps reports whether two date ranges intersect.
func (p AccountingPeriod) Overlaps(start, end time.Time) bool {
	return !p.EndDate.Before(start) && !end.Before(p.StartDate)
}
