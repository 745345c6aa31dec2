package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction represents a transaction header row.
type Transaction struct {
	TransactionID  string          `db:"transaction_id"`
	OrgID          string          `db:"org_id"`
	TypeCode       string          `db:"type_code"`
	Date           time.Time       `db:"txn_date"`
	Reference      string          `db:"reference"`
	Narration      string          `db:"narration"`
	CurrencyCode   string          `db:"currency_code"`
	ExchangeRate   decimal.Decimal `db:"exchange_rate"`
	Status         string          `db:"status"`
	SchemaVersion  int             `db:"schema_version"`
	DocumentNumber int64           `db:"document_number"` // 0 until posted
	IdempotencyKey *string         `db:"idempotency_key"` // Nullable
	ReversesID     *string         `db:"reverses_id"`     // Nullable
	ReversedByID   *string         `db:"reversed_by_id"`  // Nullable
	ApprovedBy     string          `db:"approved_by"`
	PostedBy       string          `db:"posted_by"`
	PostedAt       *time.Time      `db:"posted_at"` // Nullable
	AuditFields
}

// TransactionLine represents one debit-or-credit row of a transaction.
type TransactionLine struct {
	LineID        string          `db:"line_id"`
	TransactionID string          `db:"transaction_id"`
	LineNo        int             `db:"line_no"`
	AccountID     string          `db:"account_id"`
	Debit         decimal.Decimal `db:"debit"`
	Credit        decimal.Decimal `db:"credit"`
	BaseDebit     decimal.Decimal `db:"base_debit"`
	BaseCredit    decimal.Decimal `db:"base_credit"`
	DepartmentID  *string         `db:"department_id"`  // Nullable
	ProjectID     *string         `db:"project_id"`     // Nullable
	CostCenterID  *string         `db:"cost_center_id"` // Nullable
	TaxRate       decimal.Decimal `db:"tax_rate"`
	TaxAmount     decimal.Decimal `db:"tax_amount"`
	Description   string          `db:"description"`
	Deleted       bool            `db:"deleted"`
	ProductID     *string         `db:"product_id"`   // Nullable
	WarehouseID   *string         `db:"warehouse_id"` // Nullable
	Quantity      decimal.Decimal `db:"quantity"`
	UnitCost      decimal.Decimal `db:"unit_cost"`
	Direction     string          `db:"direction"` // Empty for non-inventory lines
}
