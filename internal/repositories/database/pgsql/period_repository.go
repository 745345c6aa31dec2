package pgsql

import (
	"context"
	"errors"
	"time"

	"github.com/finbooks/posting-engine/internal/apperrors"
	"github.com/finbooks/posting-engine/internal/core/domain"
	portsrepo "github.com/finbooks/posting-engine/internal/core/ports/repositories"
	"github.com/finbooks/posting-engine/internal/models"
	"github.com/finbooks/posting-engine/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxPeriodRepository struct {
	BaseRepository
}

// newPgxPeriodRepository creates a new repository for accounting periods.
func newPgxPeriodRepository(pool *pgxpool.Pool) portsrepo.PeriodRepository {
	return &PgxPeriodRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.PeriodRepository = (*PgxPeriodRepository)(nil)

const periodColumns = `period_id, org_id, name, start_date, end_date, status, created_at, created_by, last_updated_at, last_updated_by`

func scanPeriod(row pgx.Row) (models.Period, error) {
	var m models.Period
	err := row.Scan(
		&m.PeriodID,
		&m.OrgID,
		&m.Name,
		&m.StartDate,
		&m.EndDate,
		&m.Status,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// FindPeriodByID retrieves a period scoped to the organization.
func (r *PgxPeriodRepository) FindPeriodByID(ctx context.Context, orgID, periodID string) (*domain.Period, error) {
	query := `SELECT ` + periodColumns + ` FROM periods WHERE org_id = $1 AND period_id = $2;`
	m, err := scanPeriod(r.Pool.QueryRow(ctx, query, orgID, periodID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find period by ID "+periodID, err)
	}
	d := mapping.ToDomainPeriod(m)
	return &d, nil
}

// FindPeriodForDate returns the period whose date range contains the given
// date, or apperrors.ErrNotFound when none is configured.
func (r *PgxPeriodRepository) FindPeriodForDate(ctx context.Context, orgID string, date time.Time) (*domain.Period, error) {
	query := `SELECT ` + periodColumns + ` FROM periods WHERE org_id = $1 AND start_date <= $2 AND end_date >= $2;`
	m, err := scanPeriod(r.Pool.QueryRow(ctx, query, orgID, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find period for date", err)
	}
	d := mapping.ToDomainPeriod(m)
	return &d, nil
}

// FindPeriodForDateInTx is the commit-time re-check inside the posting
// transaction. It reads through the caller's transaction so it observes the
// period row the posting will commit against.
func (r *PgxPeriodRepository) FindPeriodForDateInTx(ctx context.Context, tx pgx.Tx, orgID string, date time.Time) (*domain.Period, error) {
	query := `SELECT ` + periodColumns + ` FROM periods WHERE org_id = $1 AND start_date <= $2 AND end_date >= $2;`
	m, err := scanPeriod(tx.QueryRow(ctx, query, orgID, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find period for date in tx", err)
	}
	d := mapping.ToDomainPeriod(m)
	return &d, nil
}

// UpdatePeriodStatus flips a period's status, guarded by the current one so a
// concurrent flip loses cleanly.
func (r *PgxPeriodRepository) UpdatePeriodStatus(ctx context.Context, orgID, periodID string, from, to domain.PeriodStatus, actorID string, at time.Time) error {
	query := `
		UPDATE periods
		SET status = $1, last_updated_at = $2, last_updated_by = $3
		WHERE org_id = $4 AND period_id = $5 AND status = $6;
	`
	tag, err := r.Pool.Exec(ctx, query, string(to), at, actorID, orgID, periodID, string(from))
	if err != nil {
		return apperrors.NewAppError(500, "failed to update period status for "+periodID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.Newf(apperrors.KindInvalidStatusTransition, "period %s is not %s", periodID, from)
	}
	return nil
}
