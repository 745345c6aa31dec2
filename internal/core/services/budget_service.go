package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/finbooks/posting-engine/internal/apperrors"
	"github.com/finbooks/posting-engine/internal/core/domain"
	"github.com/finbooks/posting-engine/internal/core/ports/repositories"
	"github.com/finbooks/posting-engine/internal/core/ports/services"
	"github.com/finbooks/posting-engine/internal/middleware"
	"github.com/shopspring/decimal"
)

// BudgetService evaluates spending ceilings before a posting commits. Spend
// is measured as the sum of base-currency debit amounts, so the transaction's
// lines must already carry base amounts when Evaluate runs.
type BudgetService struct {
	budgetRepo  repositories.BudgetRepository
	accountRepo repositories.AccountRepository
	permSvc     services.PermissionSvcFacade
}

// NewBudgetService creates a new BudgetService.
func NewBudgetService(budgetRepo repositories.BudgetRepository, accountRepo repositories.AccountRepository, permSvc services.PermissionSvcFacade) *BudgetService {
	return &BudgetService{budgetRepo: budgetRepo, accountRepo: accountRepo, permSvc: permSvc}
}

// Evaluate checks every budget whose scope the transaction touches.
// WARN policies come back as warning strings, BLOCK policies as a
// BUDGET_EXCEEDED error, REQUIRE_OVERRIDE as an error unless the caller
// exercised an authorized, justified override.
func (s *BudgetService) Evaluate(ctx context.Context, txn *domain.Transaction, periodID string, override bool, justification string, actor domain.Actor) ([]string, *domain.OverrideRecord, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	impacts, err := s.scopeImpacts(ctx, txn)
	if err != nil {
		return nil, nil, err
	}
	if len(impacts) == 0 {
		return nil, nil, nil
	}

	scopes := make([]domain.BudgetScope, 0, len(impacts))
	for scope := range impacts {
		scopes = append(scopes, scope)
	}

	budgets, err := s.budgetRepo.FindBudgetsForScopes(ctx, txn.OrgID, periodID, scopes)
	if err != nil {
		return nil, nil, err
	}

	var warnings []string
	var overrideRecord *domain.OverrideRecord
	for _, budget := range budgets {
		impact := s.impactForBudget(budget, impacts)
		if !impact.IsPositive() {
			continue
		}

		spent, err := s.budgetRepo.AccumulatedSpend(ctx, txn.OrgID, periodID, budget.Scope())
		if err != nil {
			return nil, nil, err
		}

		projected := spent.Add(impact)
		if projected.LessThanOrEqual(budget.LimitAmount) {
			continue
		}

		excess := projected.Sub(budget.LimitAmount)
		scopeDesc := fmt.Sprintf("%s %s", strings.ToLower(string(budget.ScopeType)), budget.ScopeID)

		switch budget.Policy {
		case domain.PolicyWarn:
			warnings = append(warnings, fmt.Sprintf("budget for %s exceeded by %s", scopeDesc, excess.String()))

		case domain.PolicyBlock:
			return nil, nil, apperrors.Newf(apperrors.KindBudgetExceeded, "budget for %s would be exceeded by %s", scopeDesc, excess.String()).
				WithContext("scopeType", string(budget.ScopeType)).
				WithContext("scopeID", budget.ScopeID).
				WithContext("excess", excess.String())

		case domain.PolicyRequireOverride:
			if !override {
				return nil, nil, apperrors.Newf(apperrors.KindBudgetExceeded, "budget for %s would be exceeded by %s; an override is required", scopeDesc, excess.String()).
					WithContext("scopeType", string(budget.ScopeType)).
					WithContext("scopeID", budget.ScopeID)
			}
			if !s.permSvc.Allows(actor, domain.ActionBudgetOverride) {
				return nil, nil, apperrors.Newf(apperrors.KindPermissionDenied, "actor %s may not override budgets", actor.UserID)
			}
			if justification == "" {
				return nil, nil, apperrors.New(apperrors.KindBudgetExceeded, "a budget override requires a justification")
			}
			logger.Info("Budget override exercised", "transaction_id", txn.TransactionID, "scope", scopeDesc, "actor_id", actor.UserID)
			warnings = append(warnings, fmt.Sprintf("budget for %s exceeded by %s (override by %s)", scopeDesc, excess.String(), actor.UserID))
			overrideRecord = &domain.OverrideRecord{ActorID: actor.UserID, Justification: justification}
		}
	}
	return warnings, overrideRecord, nil
}

// scopeImpacts sums the base debit amounts the transaction contributes to
// each budget scope it touches. Account-group scopes are keyed by the full
// account code; the repository matches configured prefixes against it.
func (s *BudgetService) scopeImpacts(ctx context.Context, txn *domain.Transaction) (map[domain.BudgetScope]decimal.Decimal, error) {
	lines := txn.ActiveLines()
	if len(lines) == 0 {
		return nil, nil
	}

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

	impacts := make(map[domain.BudgetScope]decimal.Decimal)
	add := func(scope domain.BudgetScope, amount decimal.Decimal) {
		impacts[scope] = impacts[scope].Add(amount)
	}

	for _, l := range lines {
		if !l.BaseDebit.IsPositive() {
			continue
		}
		add(domain.BudgetScope{Type: domain.ScopeOrganization, ID: txn.OrgID}, l.BaseDebit)
		if account, ok := accounts[l.AccountID]; ok {
			add(domain.BudgetScope{Type: domain.ScopeAccountGroup, ID: account.Code}, l.BaseDebit)
		}
		if l.CostCenterID != nil {
			add(domain.BudgetScope{Type: domain.ScopeCostCenter, ID: *l.CostCenterID}, l.BaseDebit)
		}
		if l.ProjectID != nil {
			add(domain.BudgetScope{Type: domain.ScopeProject, ID: *l.ProjectID}, l.BaseDebit)
		}
		if l.DepartmentID != nil {
			add(domain.BudgetScope{Type: domain.ScopeDepartment, ID: *l.DepartmentID}, l.BaseDebit)
		}
	}
	return impacts, nil
}

// impactForBudget resolves the transaction's contribution to one budget.
// Account-group budgets store a code prefix, so their impact is the sum over
// every account-code scope the prefix matches.
func (s *BudgetService) impactForBudget(budget domain.Budget, impacts map[domain.BudgetScope]decimal.Decimal) decimal.Decimal {
	if budget.ScopeType != domain.ScopeAccountGroup {
		return impacts[budget.Scope()]
	}
	total := decimal.Zero
	for scope, amount := range impacts {
		if scope.Type == domain.ScopeAccountGroup && strings.HasPrefix(scope.ID, budget.ScopeID) {
			total = total.Add(amount)
		}
	}
	return total
}
