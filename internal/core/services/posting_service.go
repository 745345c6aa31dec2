package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/finbooks/posting-engine/internal/apperrors"
	"github.com/finbooks/posting-engine/internal/core/domain"
	"github.com/finbooks/posting-engine/internal/core/ports/repositories"
	"github.com/finbooks/posting-engine/internal/core/ports/services"
	"github.com/finbooks/posting-engine/internal/dto"
	"github.com/finbooks/posting-engine/internal/middleware"
	"github.com/finbooks/posting-engine/internal/utils/accounting"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	defaultSchemaVersion  = 1
	defaultLedgerPageSize = 50
	maxLedgerPageSize     = 200
)

// PostingService orchestrates the transaction lifecycle: draft management,
// the state machine transitions and the atomic posting unit. All multi-row
// atomicity lives in the repository; this service decides what to do, the
// repository makes it stick.
type PostingService struct {
	txnRepo       repositories.TransactionRepositoryWithTx
	accountRepo   repositories.AccountRepository
	periodRepo    repositories.PeriodRepository
	typeRepo      repositories.TransactionTypeRepository
	currencyRepo  repositories.CurrencyRepository
	orgRepo       repositories.OrganizationRepository
	auditRepo     repositories.AuditRepository
	validationSvc services.ValidationSvcFacade
	budgetSvc     services.BudgetSvcFacade
	permSvc       services.PermissionSvcFacade
}

// NewPostingService creates a new PostingService.
func NewPostingService(
	repos *repositories.RepositoryProvider,
	validationSvc services.ValidationSvcFacade,
	budgetSvc services.BudgetSvcFacade,
	permSvc services.PermissionSvcFacade,
) *PostingService {
	return &PostingService{
		txnRepo:       repos.TransactionRepo,
		accountRepo:   repos.AccountRepo,
		periodRepo:    repos.PeriodRepo,
		typeRepo:      repos.TypeRepo,
		currencyRepo:  repos.CurrencyRepo,
		orgRepo:       repos.OrgRepo,
		auditRepo:     repos.AuditRepo,
		validationSvc: validationSvc,
		budgetSvc:     budgetSvc,
		permSvc:       permSvc,
	}
}

// CreateDraft builds and stores a new DRAFT transaction from the request.
func (s *PostingService) CreateDraft(ctx context.Context, orgID string, req dto.CreateTransactionRequest, actor domain.Actor) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !s.permSvc.Allows(actor, domain.ActionEdit) {
		return nil, apperrors.Newf(apperrors.KindPermissionDenied, "actor %s may not create transactions", actor.UserID)
	}

	now := time.Now().UTC()
	txn := domain.Transaction{
		TransactionID:  uuid.NewString(),
		OrgID:          orgID,
		TypeCode:       req.TypeCode,
		Date:           req.Date,
		Reference:      req.Reference,
		Narration:      req.Narration,
		CurrencyCode:   req.CurrencyCode,
		ExchangeRate:   req.ExchangeRate,
		Status:         domain.Draft,
		SchemaVersion:  req.SchemaVersion,
		IdempotencyKey: req.IdempotencyKey,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor.UserID,
			LastUpdatedAt: now,
			LastUpdatedBy: actor.UserID,
		},
	}
	if txn.ExchangeRate.IsZero() {
		txn.ExchangeRate = decimal.NewFromInt(1)
	}
	if txn.SchemaVersion == 0 {
		txn.SchemaVersion = defaultSchemaVersion
	}
	txn.Lines = buildLines(txn.TransactionID, req.Lines)

	if err := s.txnRepo.SaveDraft(ctx, txn); err != nil {
		return nil, err
	}

	s.recordEvent(ctx, domain.AuditEvent{
		EventID:       uuid.NewString(),
		OrgID:         orgID,
		TransactionID: txn.TransactionID,
		Action:        domain.AuditCreated,
		ActorID:       actor.UserID,
		OccurredAt:    now,
		ToStatus:      string(domain.Draft),
	})

	logger.Info("Draft created", "transaction_id", txn.TransactionID, "type_code", txn.TypeCode)
	return &txn, nil
}

// UpdateDraft edits a draft in place. A rejected transaction moves back to
// DRAFT on its first edit. Posted and reversed transactions are immutable.
func (s *PostingService) UpdateDraft(ctx context.Context, orgID, txnID string, req dto.UpdateTransactionRequest, actor domain.Actor) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !s.permSvc.Allows(actor, domain.ActionEdit) {
		return nil, apperrors.Newf(apperrors.KindPermissionDenied, "actor %s may not edit transactions", actor.UserID)
	}

	txn, err := s.txnRepo.FindTransactionByID(ctx, orgID, txnID)
	if err != nil {
		return nil, err
	}

	switch {
	case txn.Status.IsLocked():
		return nil, apperrors.Newf(apperrors.KindTransactionLocked, "transaction %s is %s and cannot be edited", txnID, txn.Status)
	case txn.Status == domain.Draft:
		// editable as-is
	case txn.Status == domain.Rejected:
		// first edit routes the transaction back to DRAFT
		txn.Status = domain.Draft
	default:
		return nil, apperrors.Newf(apperrors.KindInvalidStatusTransition, "transaction %s is %s; only drafts can be edited", txnID, txn.Status)
	}

	if req.Date != nil {
		txn.Date = *req.Date
	}
	if req.Reference != nil {
		txn.Reference = *req.Reference
	}
	if req.Narration != nil {
		txn.Narration = *req.Narration
	}
	if req.Lines != nil {
		txn.Lines = buildLines(txn.TransactionID, *req.Lines)
	}

	now := time.Now().UTC()
	txn.LastUpdatedAt = now
	txn.LastUpdatedBy = actor.UserID

	if err := s.txnRepo.UpdateDraft(ctx, *txn); err != nil {
		return nil, err
	}

	s.recordEvent(ctx, domain.AuditEvent{
		EventID:       uuid.NewString(),
		OrgID:         orgID,
		TransactionID: txnID,
		Action:        domain.AuditUpdated,
		ActorID:       actor.UserID,
		OccurredAt:    now,
		ToStatus:      string(txn.Status),
	})

	logger.Info("Draft updated", "transaction_id", txnID)
	return txn, nil
}

// GetTransaction returns a transaction with its lines.
func (s *PostingService) GetTransaction(ctx context.Context, orgID, txnID string) (*domain.Transaction, error) {
	return s.txnRepo.FindTransactionByID(ctx, orgID, txnID)
}

// Validate runs the full pipeline against the stored transaction and returns
// every violation found.
func (s *PostingService) Validate(ctx context.Context, orgID, txnID string) ([]apperrors.Violation, error) {
	txn, err := s.txnRepo.FindTransactionByID(ctx, orgID, txnID)
	if err != nil {
		return nil, err
	}
	return s.validationSvc.ValidateTransaction(ctx, txn)
}

// Submit moves a valid draft into AWAITING_APPROVAL.
func (s *PostingService) Submit(ctx context.Context, orgID, txnID string, actor domain.Actor) (*domain.Transaction, error) {
	return s.transition(ctx, orgID, txnID, actor, domain.ActionSubmit, domain.AwaitingApproval, domain.AuditSubmitted, true)
}

// Approve moves a submitted transaction into APPROVED. The approver must not
// be the transaction's creator.
func (s *PostingService) Approve(ctx context.Context, orgID, txnID string, actor domain.Actor) (*domain.Transaction, error) {
	txn, err := s.txnRepo.FindTransactionByID(ctx, orgID, txnID)
	if err != nil {
		return nil, err
	}
	if txn.CreatedBy == actor.UserID {
		return nil, apperrors.Newf(apperrors.KindPermissionDenied, "actor %s may not approve their own transaction", actor.UserID)
	}
	return s.transition(ctx, orgID, txnID, actor, domain.ActionApprove, domain.Approved, domain.AuditApproved, false)
}

// Reject routes a submitted transaction to REJECTED, from where it can be
// edited back into a draft.
func (s *PostingService) Reject(ctx context.Context, orgID, txnID string, actor domain.Actor) (*domain.Transaction, error) {
	return s.transition(ctx, orgID, txnID, actor, domain.ActionReject, domain.Rejected, domain.AuditRejected, false)
}

// transition performs one guarded state machine step: permission, legality,
// optional validation, the status-guarded update and the audit event.
func (s *PostingService) transition(ctx context.Context, orgID, txnID string, actor domain.Actor, action domain.Action, to domain.TransactionStatus, auditAction domain.AuditAction, validate bool) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !s.permSvc.Allows(actor, action) {
		return nil, apperrors.Newf(apperrors.KindPermissionDenied, "actor %s may not perform %s", actor.UserID, action)
	}

	txn, err := s.txnRepo.FindTransactionByID(ctx, orgID, txnID)
	if err != nil {
		return nil, err
	}
	if !domain.CanTransition(txn.Status, to) {
		return nil, apperrors.Newf(apperrors.KindInvalidStatusTransition, "cannot move transaction %s from %s to %s", txnID, txn.Status, to).
			WithContext("from", string(txn.Status)).
			WithContext("to", string(to))
	}

	if validate {
		violations, err := s.validationSvc.ValidateTransaction(ctx, txn)
		if err != nil {
			return nil, err
		}
		if len(violations) > 0 {
			return nil, &apperrors.ValidationError{Violations: violations}
		}
	}

	now := time.Now().UTC()
	from := txn.Status
	if err := s.txnRepo.UpdateTransactionStatus(ctx, orgID, txnID, from, to, actor.UserID, now); err != nil {
		return nil, err
	}

	txn.Status = to
	txn.LastUpdatedAt = now
	txn.LastUpdatedBy = actor.UserID
	if to == domain.Approved {
		txn.ApprovedBy = actor.UserID
	}

	s.recordEvent(ctx, domain.AuditEvent{
		EventID:       uuid.NewString(),
		OrgID:         orgID,
		TransactionID: txnID,
		Action:        auditAction,
		ActorID:       actor.UserID,
		OccurredAt:    now,
		FromStatus:    string(from),
		ToStatus:      string(to),
	})

	logger.Info("Transaction status changed", "transaction_id", txnID, "from", from, "to", to)
	return txn, nil
}

// Post runs the full posting pass: idempotency check, state machine guard,
// validation, base conversion, budget guard and the atomic posting unit.
// Posting an approved reversal mirror carries the original's id into the
// plan so the original flips to REVERSED in the same unit.
func (s *PostingService) Post(ctx context.Context, orgID, txnID string, actor domain.Actor, req dto.PostRequest) (*domain.PostResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !s.permSvc.Allows(actor, domain.ActionPost) {
		return nil, apperrors.Newf(apperrors.KindPermissionDenied, "actor %s may not post transactions", actor.UserID)
	}

	txn, err := s.txnRepo.FindTransactionByID(ctx, orgID, txnID)
	if err != nil {
		return nil, err
	}

	if req.IdempotencyKey != "" {
		if result, err := s.checkIdempotency(ctx, orgID, txnID, req.IdempotencyKey); result != nil || err != nil {
			return result, err
		}
	}

	if txn.Status == domain.Posted {
		return nil, apperrors.Newf(apperrors.KindInvalidStatusTransition, "transaction %s is already posted", txnID)
	}
	if !domain.CanTransition(txn.Status, domain.Posted) {
		return nil, apperrors.Newf(apperrors.KindInvalidStatusTransition, "cannot post transaction %s from %s", txnID, txn.Status).
			WithContext("from", string(txn.Status))
	}

	cfg, err := s.typeRepo.FindTypeConfig(ctx, orgID, txn.TypeCode)
	if err != nil {
		return nil, err
	}
	if cfg.RequiresApproval && txn.Status == domain.Draft {
		return nil, apperrors.Newf(apperrors.KindInvalidStatusTransition, "type %s requires approval before posting", txn.TypeCode)
	}

	violations, err := s.validationSvc.ValidateTransaction(ctx, txn)
	if err != nil {
		return nil, err
	}
	if len(violations) > 0 {
		return nil, &apperrors.ValidationError{Violations: violations}
	}

	plan, err := s.buildPlan(ctx, txn, cfg, actor)
	if err != nil {
		return nil, err
	}
	if txn.ReversesID != nil {
		plan.ReversalOfID = txn.ReversesID
	}

	txn.Lines = accounting.ConvertToBase(txn.ActiveLines(), txn.ExchangeRate, plan.Precision)

	// A reversal restores budget headroom rather than consuming it, so the
	// budget guard only runs for ordinary transactions.
	if txn.ReversesID == nil {
		warnings, overrideRecord, err := s.budgetSvc.Evaluate(ctx, txn, plan.PeriodID, req.Override, req.Justification, actor)
		if err != nil {
			return nil, err
		}
		plan.BudgetWarnings = warnings
		plan.Override = overrideRecord
	}
	if req.IdempotencyKey != "" {
		key := req.IdempotencyKey
		plan.IdempotencyKey = &key
	}

	result, err := s.txnRepo.PostTransaction(ctx, *txn, *plan)
	if err != nil {
		return nil, err
	}

	logger.Info("Transaction posted", "transaction_id", txnID, "document_number", result.DocumentNumber)
	return result, nil
}

// Reverse builds the mirror of a posted transaction and runs it through the
// same pipeline as any other transaction: full validation, then either the
// atomic posting unit or, for approval-required types, the approval workflow.
// The mirror swaps every line's sides and flips stock movement directions;
// posting it and flipping the original to REVERSED happen in one atomic unit.
func (s *PostingService) Reverse(ctx context.Context, orgID, txnID string, actor domain.Actor) (*domain.PostResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !s.permSvc.Allows(actor, domain.ActionReverse) {
		return nil, apperrors.Newf(apperrors.KindPermissionDenied, "actor %s may not reverse transactions", actor.UserID)
	}

	original, err := s.txnRepo.FindTransactionByID(ctx, orgID, txnID)
	if err != nil {
		return nil, err
	}
	if original.Status != domain.Posted {
		return nil, apperrors.Newf(apperrors.KindInvalidStatusTransition, "only posted transactions can be reversed; transaction %s is %s", txnID, original.Status)
	}
	if original.ReversedByID != nil {
		return nil, apperrors.Newf(apperrors.KindAlreadyReversed, "transaction %s was already reversed by %s", txnID, *original.ReversedByID).
			WithContext("reversedByID", *original.ReversedByID)
	}

	cfg, err := s.typeRepo.FindTypeConfig(ctx, orgID, original.TypeCode)
	if err != nil {
		return nil, err
	}

	mirror := s.buildMirror(original, actor)
	if err := s.txnRepo.SaveDraft(ctx, mirror); err != nil {
		return nil, err
	}

	violations, err := s.validationSvc.ValidateTransaction(ctx, &mirror)
	if err != nil {
		return nil, err
	}
	if len(violations) > 0 {
		return nil, &apperrors.ValidationError{Violations: violations}
	}

	if cfg.RequiresApproval {
		now := time.Now().UTC()
		if err := s.txnRepo.UpdateTransactionStatus(ctx, orgID, mirror.TransactionID, domain.Draft, domain.AwaitingApproval, actor.UserID, now); err != nil {
			return nil, err
		}
		s.recordEvent(ctx, domain.AuditEvent{
			EventID:       uuid.NewString(),
			OrgID:         orgID,
			TransactionID: mirror.TransactionID,
			Action:        domain.AuditSubmitted,
			ActorID:       actor.UserID,
			OccurredAt:    now,
			FromStatus:    string(domain.Draft),
			ToStatus:      string(domain.AwaitingApproval),
		})
		logger.Info("Reversal submitted for approval", "transaction_id", txnID, "reversal_id", mirror.TransactionID)
		return &domain.PostResult{
			TransactionID: mirror.TransactionID,
			Status:        domain.AwaitingApproval,
		}, nil
	}

	plan, err := s.buildPlan(ctx, &mirror, cfg, actor)
	if err != nil {
		return nil, err
	}
	plan.ReversalOfID = &original.TransactionID

	result, err := s.txnRepo.PostTransaction(ctx, mirror, *plan)
	if err != nil {
		return nil, err
	}

	logger.Info("Transaction reversed", "transaction_id", txnID, "reversal_id", mirror.TransactionID, "document_number", result.DocumentNumber)
	return result, nil
}

// ListLedgerEntries returns a token-paginated page of an account's posted
// ledger entries, newest first.
func (s *PostingService) ListLedgerEntries(ctx context.Context, orgID, accountID string, params dto.ListLedgerEntriesParams) (*dto.ListLedgerEntriesResponse, error) {
	if _, err := s.accountRepo.FindAccountByID(ctx, orgID, accountID); err != nil {
		return nil, err
	}

	limit := params.Limit
	if limit <= 0 {
		limit = defaultLedgerPageSize
	}
	if limit > maxLedgerPageSize {
		limit = maxLedgerPageSize
	}

	entries, nextToken, err := s.txnRepo.ListLedgerEntriesByAccount(ctx, orgID, accountID, limit, params.NextToken)
	if err != nil {
		return nil, err
	}
	return &dto.ListLedgerEntriesResponse{
		Entries:   dto.ToLedgerEntryResponses(entries),
		NextToken: nextToken,
	}, nil
}

// checkIdempotency resolves a posting idempotency key. A key already bound to
// this transaction replays the original result; a key bound to another
// transaction is a duplicate submission.
func (s *PostingService) checkIdempotency(ctx context.Context, orgID, txnID, key string) (*domain.PostResult, error) {
	existing, err := s.txnRepo.FindTransactionByIdempotencyKey(ctx, orgID, key)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if existing.TransactionID != txnID {
		return nil, apperrors.Newf(apperrors.KindDuplicateSubmission, "idempotency key already used by transaction %s", existing.TransactionID).
			WithContext("transactionID", existing.TransactionID)
	}
	if existing.Status == domain.Posted && existing.PostedAt != nil {
		return &domain.PostResult{
			TransactionID:  existing.TransactionID,
			DocumentNumber: existing.DocumentNumber,
			Status:         existing.Status,
			PostedAt:       *existing.PostedAt,
		}, nil
	}
	return nil, nil
}

// buildPlan gathers everything the atomic posting unit needs: tenant policy,
// base currency precision, the open period and the account type snapshot.
func (s *PostingService) buildPlan(ctx context.Context, txn *domain.Transaction, cfg *domain.TransactionTypeConfig, actor domain.Actor) (*domain.PostingPlan, error) {
	org, err := s.orgRepo.FindOrganizationByID(ctx, txn.OrgID)
	if err != nil {
		return nil, err
	}

	precision := domain.DefaultPrecision
	if baseCurrency, err := s.currencyRepo.FindCurrencyByCode(ctx, org.BaseCurrencyCode); err == nil {
		precision = baseCurrency.Precision
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	period, err := s.periodRepo.FindPeriodForDate(ctx, txn.OrgID, txn.Date)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.Newf(apperrors.KindPeriodClosed, "no accounting period covers %s", txn.Date.Format("2006-01-02"))
		}
		return nil, err
	}
	if !period.IsOpen() {
		return nil, apperrors.Newf(apperrors.KindPeriodClosed, "period %s is closed", period.Name)
	}

	lines := txn.ActiveLines()
	ids := make([]string, 0, len(lines))
	seen := make(map[string]bool, len(lines))
	for _, l := range lines {
		if !seen[l.AccountID] {
			seen[l.AccountID] = true
			ids = append(ids, l.AccountID)
		}
	}
	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, txn.OrgID, ids)
	if err != nil {
		return nil, err
	}
	types := make(map[string]domain.AccountType, len(accounts))
	for id, account := range accounts {
		types[id] = account.AccountType
	}

	return &domain.PostingPlan{
		ActorID:            actor.UserID,
		Now:                time.Now().UTC(),
		Precision:          precision,
		PeriodID:           period.PeriodID,
		InventoryAffecting: cfg.InventoryAffecting,
		AllowNegativeStock: org.AllowNegativeStock,
		AccountTypes:       types,
	}, nil
}

// buildMirror constructs the reversal draft: same accounts, swapped sides,
// flipped movement directions, linked back to the original.
func (s *PostingService) buildMirror(original *domain.Transaction, actor domain.Actor) domain.Transaction {
	now := time.Now().UTC()
	mirror := domain.Transaction{
		TransactionID: uuid.NewString(),
		OrgID:         original.OrgID,
		TypeCode:      original.TypeCode,
		Date:          now,
		Reference:     original.Reference,
		Narration:     fmt.Sprintf("Reversal of #%d: %s", original.DocumentNumber, original.Narration),
		CurrencyCode:  original.CurrencyCode,
		ExchangeRate:  original.ExchangeRate,
		Status:        domain.Draft,
		SchemaVersion: original.SchemaVersion,
		ReversesID:    &original.TransactionID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor.UserID,
			LastUpdatedAt: now,
			LastUpdatedBy: actor.UserID,
		},
	}

	for _, l := range original.ActiveLines() {
		flipped := domain.TransactionLine{
			LineID:        uuid.NewString(),
			TransactionID: mirror.TransactionID,
			LineNo:        l.LineNo,
			AccountID:     l.AccountID,
			Debit:         l.Credit,
			Credit:        l.Debit,
			BaseDebit:     l.BaseCredit,
			BaseCredit:    l.BaseDebit,
			DepartmentID:  l.DepartmentID,
			ProjectID:     l.ProjectID,
			CostCenterID:  l.CostCenterID,
			TaxRate:       l.TaxRate,
			TaxAmount:     l.TaxAmount,
			Description:   l.Description,
			ProductID:     l.ProductID,
			WarehouseID:   l.WarehouseID,
			Quantity:      l.Quantity,
			UnitCost:      l.UnitCost,
		}
		switch l.Direction {
		case domain.MovementIn:
			flipped.Direction = domain.MovementOut
		case domain.MovementOut:
			flipped.Direction = domain.MovementIn
		}
		mirror.Lines = append(mirror.Lines, flipped)
	}
	return mirror
}

// recordEvent appends an audit event outside the posting unit. A failure is
// logged but never fails the business operation it annotates.
func (s *PostingService) recordEvent(ctx context.Context, event domain.AuditEvent) {
	if err := s.auditRepo.SaveEvent(ctx, event); err != nil {
		middleware.GetLoggerFromCtx(ctx).Error("Failed to record audit event",
			"transaction_id", event.TransactionID, "action", event.Action, "error", err)
	}
}

// buildLines materializes request lines into domain lines with stable,
// 1-based line numbers.
func buildLines(txnID string, reqLines []dto.CreateLineRequest) []domain.TransactionLine {
	lines := make([]domain.TransactionLine, 0, len(reqLines))
	for i, rl := range reqLines {
		lines = append(lines, domain.TransactionLine{
			LineID:        uuid.NewString(),
			TransactionID: txnID,
			LineNo:        i + 1,
			AccountID:     rl.AccountID,
			Debit:         rl.Debit,
			Credit:        rl.Credit,
			DepartmentID:  rl.DepartmentID,
			ProjectID:     rl.ProjectID,
			CostCenterID:  rl.CostCenterID,
			TaxRate:       rl.TaxRate,
			TaxAmount:     rl.TaxAmount,
			Description:   rl.Description,
			ProductID:     rl.ProductID,
			WarehouseID:   rl.WarehouseID,
			Quantity:      rl.Quantity,
			UnitCost:      rl.UnitCost,
			Direction:     domain.MovementDirection(rl.Direction),
		})
	}
	return lines
}
