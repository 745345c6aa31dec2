package dto

import (
	"time"

	"github.com/finbooks/posting-engine/internal/core/domain"
)

// PeriodResponse mirrors an accounting period.
type PeriodResponse struct {
	PeriodID  string    `json:"periodID"`
	OrgID     string    `json:"orgID"`
	Name      string    `json:"name"`
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
	Status    string    `json:"status"`
}

// ToPeriodResponse converts a domain period.
func ToPeriodResponse(p *domain.Period) PeriodResponse {
	return PeriodResponse{
		PeriodID:  p.PeriodID,
		OrgID:     p.OrgID,
		Name:      p.Name,
		StartDate: p.StartDate,
		EndDate:   p.EndDate,
		Status:    string(p.Status),
	}
}
