package models

import (
	"github.com/shopspring/decimal"
)

// Account represents a ledger account row.
type Account struct {
	AccountID    string          `db:"account_id"`
	OrgID        string          `db:"org_id"`
	Code         string          `db:"code"`
	Name         string          `db:"name"`
	AccountType  string          `db:"account_type"`
	CurrencyCode string          `db:"currency_code"`
	Description  string          `db:"description"`
	IsActive     bool            `db:"is_active"`
	Balance      decimal.Decimal `db:"balance"` // Persisted running balance
	AuditFields
}
