package models

import "time"

// AuditEvent represents one append-only audit trail row. Details is stored
// as a jsonb column.
type AuditEvent struct {
	EventID       string            `db:"event_id"`
	OrgID         string            `db:"org_id"`
	TransactionID *string           `db:"transaction_id"` // Nullable for period-level events
	Action        string            `db:"action"`
	ActorID       string            `db:"actor_id"`
	OccurredAt    time.Time         `db:"occurred_at"`
	FromStatus    string            `db:"from_status"`
	ToStatus      string            `db:"to_status"`
	Details       map[string]string `db:"details"`
}
