package services

import (
	"context"

	"github.com/finbooks/posting-engine/internal/apperrors"
	"github.com/finbooks/posting-engine/internal/core/domain"
	"github.com/finbooks/posting-engine/internal/dto"
)

// PostingSvcFacade is the engine's main entry point: draft lifecycle, the
// posting state machine and reversal.
type PostingSvcFacade interface {
	CreateDraft(ctx context.Context, orgID string, req dto.CreateTransactionRequest, actor domain.Actor) (*domain.Transaction, error)
	UpdateDraft(ctx context.Context, orgID, txnID string, req dto.UpdateTransactionRequest, actor domain.Actor) (*domain.Transaction, error)
	GetTransaction(ctx context.Context, orgID, txnID string) (*domain.Transaction, error)

	// Validate runs the full pipeline and returns every violation found.
	Validate(ctx context.Context, orgID, txnID string) ([]apperrors.Violation, error)

	Submit(ctx context.Context, orgID, txnID string, actor domain.Actor) (*domain.Transaction, error)
	Approve(ctx context.Context, orgID, txnID string, actor domain.Actor) (*domain.Transaction, error)
	Reject(ctx context.Context, orgID, txnID string, actor domain.Actor) (*domain.Transaction, error)

	// Post runs the DRAFT/APPROVED -> POSTED transition: validation, budget
	// guard and the atomic posting unit.
	Post(ctx context.Context, orgID, txnID string, actor domain.Actor, req dto.PostRequest) (*domain.PostResult, error)

	// Reverse creates and posts the mirror transaction of a posted one.
	Reverse(ctx context.Context, orgID, txnID string, actor domain.Actor) (*domain.PostResult, error)

	ListLedgerEntries(ctx context.Context, orgID, accountID string, params dto.ListLedgerEntriesParams) (*dto.ListLedgerEntriesResponse, error)
}

// ValidationSvcFacade runs the ordered validation pipeline. Pure with respect
// to state: it reads lookups but never writes or locks.
type ValidationSvcFacade interface {
	ValidateTransaction(ctx context.Context, txn *domain.Transaction) ([]apperrors.Violation, error)
}

// BudgetSvcFacade evaluates spending ceilings before a posting commits.
type BudgetSvcFacade interface {
	// Evaluate returns warn-policy annotations and, when an override was
	// exercised, the override record to audit. Block and unsatisfied
	// require-override policies come back as BUDGET_EXCEEDED errors.
	Evaluate(ctx context.Context, txn *domain.Transaction, periodID string, override bool, justification string, actor domain.Actor) ([]string, *domain.OverrideRecord, error)
}

// PermissionSvcFacade answers whether an actor may perform a guarded action.
type PermissionSvcFacade interface {
	Allows(actor domain.Actor, action domain.Action) bool
}

// PeriodSvcFacade covers the administrative period operations.
type PeriodSvcFacade interface {
	ReopenPeriod(ctx context.Context, orgID, periodID string, actor domain.Actor) (*domain.Period, error)
}
