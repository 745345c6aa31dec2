package domain

import "time"

// AuditAction identifies what happened to a transaction.
type AuditAction string

const (
	AuditCreated        AuditAction = "TRANSACTION_CREATED"
	AuditUpdated        AuditAction = "TRANSACTION_UPDATED"
	AuditSubmitted      AuditAction = "TRANSACTION_SUBMITTED"
	AuditApproved       AuditAction = "TRANSACTION_APPROVED"
	AuditRejected       AuditAction = "TRANSACTION_REJECTED"
	AuditPosted         AuditAction = "TRANSACTION_POSTED"
	AuditReversed       AuditAction = "TRANSACTION_REVERSED"
	AuditBudgetWarning  AuditAction = "BUDGET_WARNING"
	AuditBudgetOverride AuditAction = "BUDGET_OVERRIDE"
	AuditPeriodReopened AuditAction = "PERIOD_REOPENED"
)

// AuditEvent is an append-only record of who did what to which transaction,
// when, with before/after values and free-text context. Never mutated.
type AuditEvent struct {
	EventID       string            `json:"eventID"`
	OrgID         string            `json:"orgID"`
	TransactionID string            `json:"transactionID,omitempty"` // Empty for period-level events
	Action        AuditAction       `json:"action"`
	ActorID       string            `json:"actorID"`
	OccurredAt    time.Time         `json:"occurredAt"`
	FromStatus    string            `json:"fromStatus,omitempty"`
	ToStatus      string            `json:"toStatus,omitempty"`
	Details       map[string]string `json:"details,omitempty"` // e.g. override justification, budget scope
}
