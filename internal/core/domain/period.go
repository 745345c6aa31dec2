package domain

import "time"

// PeriodStatus indicates whether postings dated inside the period are permitted.
type PeriodStatus string

const (
	PeriodOpen   PeriodStatus = "OPEN"
	PeriodClosed PeriodStatus = "CLOSED"
)

// Period is a bounded date range for an organization. Transactions may only
// be posted while the period containing their date is open.
type Period struct {
	PeriodID  string       `json:"periodID"`
	OrgID     string       `json:"orgID"`
	Name      string       `json:"name"` // e.g. "2026-08"
	StartDate time.Time    `json:"startDate"`
	EndDate   time.Time    `json:"endDate"` // Inclusive
	Status    PeriodStatus `json:"status"`
	AuditFields
}

// Contains reports whether the given date falls inside the period.
func (p Period) Contains(date time.Time) bool {
	d := date.Truncate(24 * time.Hour)
	return !d.Before(p.StartDate) && !d.After(p.EndDate)
}

// IsOpen reports whether postings are currently permitted in the period.
func (p Period) IsOpen() bool {
	return p.Status == PeriodOpen
}
