package repositories

import (
	"context"

	"github.com/finbooks/posting-engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// BudgetRepository serves budget configuration and the derived accumulated
// spend per scope. Spend is computed from posted lines, never stored.
type BudgetRepository interface {
	// FindBudgetsForScopes returns the budgets configured for any of the
	// given scopes in the given period.
	FindBudgetsForScopes(ctx context.Context, orgID, periodID string, scopes []domain.BudgetScope) ([]domain.Budget, error)
	// AccumulatedSpend sums the base debit amounts of posted lines matching
	// the scope within the period.
	AccumulatedSpend(ctx context.Context, orgID, periodID string, scope domain.BudgetScope) (decimal.Decimal, error)
}
