package pgsql

import (
	"context"

	"github.com/finbooks/posting-engine/internal/apperrors"
	"github.com/finbooks/posting-engine/internal/core/domain"
	portsrepo "github.com/finbooks/posting-engine/internal/core/ports/repositories"
	"github.com/finbooks/posting-engine/internal/models"
	"github.com/finbooks/posting-engine/internal/utils/mapping"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PgxBudgetRepository struct {
	BaseRepository
}

// newPgxBudgetRepository creates a new repository for budget configuration
// and derived spend.
func newPgxBudgetRepository(pool *pgxpool.Pool) portsrepo.BudgetRepository {
	return &PgxBudgetRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.BudgetRepository = (*PgxBudgetRepository)(nil)

// FindBudgetsForScopes returns budgets matching any of the given scopes for
// the period. Account-group scopes arrive keyed by the full account code and
// match budgets whose scope_id is a prefix of it.
func (r *PgxBudgetRepository) FindBudgetsForScopes(ctx context.Context, orgID, periodID string, scopes []domain.BudgetScope) ([]domain.Budget, error) {
	if len(scopes) == 0 {
		return nil, nil
	}

	exactTypes := make([]string, 0, len(scopes))
	exactIDs := make([]string, 0, len(scopes))
	accountCodes := make([]string, 0)
	for _, scope := range scopes {
		if scope.Type == domain.ScopeAccountGroup {
			accountCodes = append(accountCodes, scope.ID)
			continue
		}
		exactTypes = append(exactTypes, string(scope.Type))
		exactIDs = append(exactIDs, scope.ID)
	}

	query := `
		SELECT budget_id, org_id, scope_type, scope_id, period_id, limit_amount, policy,
		       created_at, created_by, last_updated_at, last_updated_by
		FROM budgets
		WHERE org_id = $1 AND period_id = $2
		  AND (
		      (scope_type, scope_id) IN (SELECT unnest($3::text[]), unnest($4::text[]))
		      OR (scope_type = 'ACCOUNT_GROUP' AND EXISTS (
		          SELECT 1 FROM unnest($5::text[]) AS code WHERE code LIKE scope_id || '%'
		      ))
		  );
	`
	rows, err := r.Pool.Query(ctx, query, orgID, periodID, exactTypes, exactIDs, accountCodes)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query budgets for scopes", err)
	}
	defer rows.Close()

	var budgets []domain.Budget
	for rows.Next() {
		var m models.Budget
		err := rows.Scan(
			&m.BudgetID,
			&m.OrgID,
			&m.ScopeType,
			&m.ScopeID,
			&m.PeriodID,
			&m.LimitAmount,
			&m.Policy,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan budget row", err)
		}
		budgets = append(budgets, mapping.ToDomainBudget(m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating budget rows", err)
	}
	return budgets, nil
}

// AccumulatedSpend sums base debit amounts of posted lines in the scope and
// period. Spend is always derived from posted lines so it can never drift
// from the ledger.
func (r *PgxBudgetRepository) AccumulatedSpend(ctx context.Context, orgID, periodID string, scope domain.BudgetScope) (decimal.Decimal, error) {
	base := `
		SELECT COALESCE(SUM(l.base_debit), 0)
		FROM transaction_lines l
		JOIN transactions t ON t.transaction_id = l.transaction_id
		JOIN periods p ON p.org_id = t.org_id AND t.txn_date >= p.start_date AND t.txn_date <= p.end_date
		WHERE t.org_id = $1 AND p.period_id = $2 AND t.status = 'POSTED' AND NOT l.deleted
	`

	var clause string
	args := []interface{}{orgID, periodID}
	switch scope.Type {
	case domain.ScopeOrganization:
		clause = ``
	case domain.ScopeAccountGroup:
		clause = ` AND l.account_id IN (SELECT account_id FROM accounts WHERE org_id = $1 AND code LIKE $3 || '%')`
		args = append(args, scope.ID)
	case domain.ScopeCostCenter:
		clause = ` AND l.cost_center_id = $3`
		args = append(args, scope.ID)
	case domain.ScopeProject:
		clause = ` AND l.project_id = $3`
		args = append(args, scope.ID)
	case domain.ScopeDepartment:
		clause = ` AND l.department_id = $3`
		args = append(args, scope.ID)
	default:
		return decimal.Zero, apperrors.Newf(apperrors.KindInternal, "unknown budget scope type %q", scope.Type)
	}

	var spend decimal.Decimal
	if err := r.Pool.QueryRow(ctx, base+clause+";", args...).Scan(&spend); err != nil {
		return decimal.Zero, apperrors.NewAppError(500, "failed to compute accumulated spend", err)
	}
	return spend, nil
}
