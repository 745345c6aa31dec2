package domain

import "github.com/shopspring/decimal"

// BudgetScopeType is the dimension against which a spending ceiling applies.
type BudgetScopeType string

const (
	ScopeOrganization BudgetScopeType = "ORGANIZATION"
	ScopeAccountGroup BudgetScopeType = "ACCOUNT_GROUP" // Matched by account code prefix
	ScopeCostCenter   BudgetScopeType = "COST_CENTER"
	ScopeProject      BudgetScopeType = "PROJECT"
	ScopeDepartment   BudgetScopeType = "DEPARTMENT"
)

// BudgetPolicy decides what happens when a posting would exceed the limit.
type BudgetPolicy string

const (
	PolicyBlock           BudgetPolicy = "BLOCK"
	PolicyWarn            BudgetPolicy = "WARN"
	PolicyRequireOverride BudgetPolicy = "REQUIRE_OVERRIDE"
)

// BudgetScope identifies one (scope-type, scope-id) pair touched by a
// transaction's lines.
type BudgetScope struct {
	Type BudgetScopeType `json:"type"`
	ID   string          `json:"id"`
}

// Budget is a spending ceiling for a scope and period. Accumulated spend is
// derived from posted lines, never stored redundantly.
type Budget struct {
	BudgetID    string          `json:"budgetID"`
	OrgID       string          `json:"orgID"`
	ScopeType   BudgetScopeType `json:"scopeType"`
	ScopeID     string          `json:"scopeID"`
	PeriodID    string          `json:"periodID"`
	LimitAmount decimal.Decimal `json:"limitAmount"`
	Policy      BudgetPolicy    `json:"policy"`
	AuditFields
}

// Scope returns the budget's scope key.
func (b Budget) Scope() BudgetScope {
	return BudgetScope{Type: b.ScopeType, ID: b.ScopeID}
}
