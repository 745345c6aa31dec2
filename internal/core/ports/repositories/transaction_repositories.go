package repositories

import (
	"context"
	"time"

	"github.com/finbooks/posting-engine/internal/core/domain"
)

// TransactionReader defines read operations for transactions and their
// posted ledger entries.
type TransactionReader interface {
	// FindTransactionByID returns the transaction with its lines.
	FindTransactionByID(ctx context.Context, orgID, txnID string) (*domain.Transaction, error)
	// FindTransactionByIdempotencyKey returns the transaction a key was used
	// on, or apperrors.ErrNotFound.
	FindTransactionByIdempotencyKey(ctx context.Context, orgID, key string) (*domain.Transaction, error)
	// ListLedgerEntriesByAccount returns token-paginated ledger entries for
	// an account, newest first.
	ListLedgerEntriesByAccount(ctx context.Context, orgID, accountID string, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error)
}

// TransactionWriter defines draft mutations and the guarded status update.
type TransactionWriter interface {
	// SaveDraft inserts a new transaction header plus lines.
	SaveDraft(ctx context.Context, txn domain.Transaction) error
	// UpdateDraft replaces the header fields and line set of a draft.
	UpdateDraft(ctx context.Context, txn domain.Transaction) error
	// UpdateTransactionStatus flips status from -> to. The update is guarded
	// by the current status so a concurrent transition loses cleanly.
	UpdateTransactionStatus(ctx context.Context, orgID, txnID string, from, to domain.TransactionStatus, actorID string, at time.Time) error
}

// TransactionPoster runs the atomic posting unit: sequence allocation, ledger
// writes, inventory writes, audit event and status flip in one database
// transaction. Any failure leaves no visible side effects.
type TransactionPoster interface {
	PostTransaction(ctx context.Context, txn domain.Transaction, plan domain.PostingPlan) (*domain.PostResult, error)
}

// TransactionRepositoryWithTx is the full repository surface the posting
// service depends on.
type TransactionRepositoryWithTx interface {
	TransactionReader
	TransactionWriter
	TransactionPoster
}
