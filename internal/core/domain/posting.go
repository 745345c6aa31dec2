package domain

import "time"

// PostResult is what a successful posting (or an idempotent replay of one)
// returns to the caller.
type PostResult struct {
	TransactionID  string            `json:"transactionID"`
	DocumentNumber int64             `json:"documentNumber"`
	Status         TransactionStatus `json:"status"`
	PostedAt       time.Time         `json:"postedAt"`
	Warnings       []string          `json:"warnings,omitempty"` // Budget warn-policy annotations
}

// OverrideRecord captures who overrode a budget ceiling and why.
type OverrideRecord struct {
	ActorID       string
	Justification string
}

// PostingPlan carries everything the atomic posting unit needs beyond the
// transaction itself: re-check inputs, inventory policy, reversal linkage and
// audit annotations. Built by the posting service, consumed by the
// repository inside one database transaction.
type PostingPlan struct {
	ActorID            string
	Now                time.Time
	Precision          int32
	PeriodID           string
	InventoryAffecting bool
	AllowNegativeStock bool
	ReversalOfID       *string // When set, the original flips to REVERSED in the same unit
	IdempotencyKey     *string
	BudgetWarnings     []string
	Override           *OverrideRecord
	AccountTypes       map[string]AccountType // Snapshot for delta calculation, re-checked under lock
}
