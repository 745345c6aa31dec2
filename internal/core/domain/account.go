package domain

import (
	"github.com/shopspring/decimal"
)

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Income    AccountType = "INCOME"
	Expense   AccountType = "EXPENSE"
)

// NaturalSide returns the side on which an account of this type normally
// carries its balance.
func (t AccountType) NaturalSide() EntrySide {
	switch t {
	case Asset, Expense:
		return Debit
	default:
		return Credit
	}
}

// Account is a ledger account. Its running balance is mutated only by the
// posting unit, under row-level locking.
type Account struct {
	AccountID    string          `json:"accountID"`
	OrgID        string          `json:"orgID"`
	Code         string          `json:"code"` // Chart-of-accounts code, unique per org
	Name         string          `json:"name"`
	AccountType  AccountType     `json:"accountType"`
	CurrencyCode string          `json:"currencyCode"`
	Description  string          `json:"description"`
	IsActive     bool            `json:"isActive"`
	Balance      decimal.Decimal `json:"balance"` // Signed toward the natural side
	AuditFields
}
