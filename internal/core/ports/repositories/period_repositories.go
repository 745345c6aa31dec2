package repositories

import (
	"context"
	"time"

	"github.com/finbooks/posting-engine/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// PeriodRepository resolves accounting periods by date and manages the
// open/closed flag.
type PeriodRepository interface {
	FindPeriodByID(ctx context.Context, orgID, periodID string) (*domain.Period, error)
	// FindPeriodForDate returns the period containing the date, or
	// apperrors.ErrNotFound when none is configured.
	FindPeriodForDate(ctx context.Context, orgID string, date time.Time) (*domain.Period, error)
	// FindPeriodForDateInTx is the commit-time re-check inside the posting
	// transaction.
	FindPeriodForDateInTx(ctx context.Context, tx pgx.Tx, orgID string, date time.Time) (*domain.Period, error)
	// UpdatePeriodStatus flips a period's status, guarded by the current one.
	UpdatePeriodStatus(ctx context.Context, orgID, periodID string, from, to domain.PeriodStatus, actorID string, at time.Time) error
}
