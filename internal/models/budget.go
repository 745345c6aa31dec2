package models

import "github.com/shopspring/decimal"

// Budget represents a spending ceiling row.
type Budget struct {
	BudgetID    string          `db:"budget_id"`
	OrgID       string          `db:"org_id"`
	ScopeType   string          `db:"scope_type"`
	ScopeID     string          `db:"scope_id"`
	PeriodID    string          `db:"period_id"`
	LimitAmount decimal.Decimal `db:"limit_amount"`
	Policy      string          `db:"policy"`
	AuditFields
}
