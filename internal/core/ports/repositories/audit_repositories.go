package repositories

import (
	"context"

	"github.com/finbooks/posting-engine/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// AuditRepository appends audit events. Events are never updated or deleted.
type AuditRepository interface {
	SaveEvent(ctx context.Context, event domain.AuditEvent) error
	// InsertEventInTx appends an event inside the posting transaction so the
	// audit trail commits or rolls back with the posting itself.
	InsertEventInTx(ctx context.Context, tx pgx.Tx, event domain.AuditEvent) error
	ListEventsByTransaction(ctx context.Context, orgID, txnID string) ([]domain.AuditEvent, error)
}
