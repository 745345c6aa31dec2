package pgsql

import (
	"context"

	"github.com/finbooks/posting-engine/internal/apperrors"
	"github.com/finbooks/posting-engine/internal/core/domain"
	portsrepo "github.com/finbooks/posting-engine/internal/core/ports/repositories"
	"github.com/finbooks/posting-engine/internal/models"
	"github.com/finbooks/posting-engine/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxAuditRepository struct {
	BaseRepository
}

// newPgxAuditRepository creates a new repository for the append-only audit
// trail.
func newPgxAuditRepository(pool *pgxpool.Pool) portsrepo.AuditRepository {
	return &PgxAuditRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.AuditRepository = (*PgxAuditRepository)(nil)

const auditInsertQuery = `
	INSERT INTO audit_events (event_id, org_id, transaction_id, action, actor_id, occurred_at, from_status, to_status, details)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
`

func auditArgs(event domain.AuditEvent) []interface{} {
	var txnID *string
	if event.TransactionID != "" {
		txnID = &event.TransactionID
	}
	return []interface{}{
		event.EventID, event.OrgID, txnID, string(event.Action), event.ActorID,
		event.OccurredAt, event.FromStatus, event.ToStatus, event.Details,
	}
}

// SaveEvent appends an event using the pool.
func (r *PgxAuditRepository) SaveEvent(ctx context.Context, event domain.AuditEvent) error {
	if _, err := r.Pool.Exec(ctx, auditInsertQuery, auditArgs(event)...); err != nil {
		return apperrors.NewAppError(500, "failed to insert audit event", err)
	}
	return nil
}

// InsertEventInTx appends an event inside the posting transaction so it
// commits or rolls back with the posting itself.
func (r *PgxAuditRepository) InsertEventInTx(ctx context.Context, tx pgx.Tx, event domain.AuditEvent) error {
	if _, err := tx.Exec(ctx, auditInsertQuery, auditArgs(event)...); err != nil {
		return apperrors.NewAppError(500, "failed to insert audit event in tx", err)
	}
	return nil
}

// ListEventsByTransaction retrieves the audit trail of one transaction in
// chronological order.
func (r *PgxAuditRepository) ListEventsByTransaction(ctx context.Context, orgID, txnID string) ([]domain.AuditEvent, error) {
	query := `
		SELECT event_id, org_id, transaction_id, action, actor_id, occurred_at, from_status, to_status, details
		FROM audit_events
		WHERE org_id = $1 AND transaction_id = $2
		ORDER BY occurred_at, event_id;
	`
	rows, err := r.Pool.Query(ctx, query, orgID, txnID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query audit events for "+txnID, err)
	}
	defer rows.Close()

	var events []domain.AuditEvent
	for rows.Next() {
		var m models.AuditEvent
		err := rows.Scan(
			&m.EventID, &m.OrgID, &m.TransactionID, &m.Action, &m.ActorID,
			&m.OccurredAt, &m.FromStatus, &m.ToStatus, &m.Details,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan audit event row", err)
		}
		events = append(events, mapping.ToDomainAuditEvent(m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating audit event rows", err)
	}
	return events, nil
}
