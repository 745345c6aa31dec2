package dto

import (
	"time"

	"github.com/finbooks/posting-engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateLineRequest is one debit-or-credit leg of a new draft.
type CreateLineRequest struct {
	AccountID    string          `json:"accountID" binding:"required"`
	Debit        decimal.Decimal `json:"debit"`
	Credit       decimal.Decimal `json:"credit"`
	DepartmentID *string         `json:"departmentID,omitempty"`
	ProjectID    *string         `json:"projectID,omitempty"`
	CostCenterID *string         `json:"costCenterID,omitempty"`
	TaxRate      decimal.Decimal `json:"taxRate"`
	TaxAmount    decimal.Decimal `json:"taxAmount"`
	Description  string          `json:"description"`

	// Inventory metadata, required only on lines of inventory-affecting types.
	ProductID   *string         `json:"productID,omitempty"`
	WarehouseID *string         `json:"warehouseID,omitempty"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitCost    decimal.Decimal `json:"unitCost"`
	Direction   string          `json:"direction,omitempty" binding:"omitempty,oneof=IN OUT"`
}

// CreateTransactionRequest creates a draft transaction with its lines.
type CreateTransactionRequest struct {
	TypeCode       string              `json:"typeCode" binding:"required"`
	Date           time.Time           `json:"date" binding:"required"`
	Reference      string              `json:"reference"`
	Narration      string              `json:"narration"`
	CurrencyCode   string              `json:"currencyCode" binding:"required,len=3"`
	ExchangeRate   decimal.Decimal     `json:"exchangeRate"`
	SchemaVersion  int                 `json:"schemaVersion"`
	IdempotencyKey *string             `json:"idempotencyKey,omitempty"`
	Lines          []CreateLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// UpdateTransactionRequest edits a draft. Nil fields are left unchanged; a
// non-nil Lines replaces the whole line set.
type UpdateTransactionRequest struct {
	Date      *time.Time           `json:"date,omitempty"`
	Reference *string              `json:"reference,omitempty"`
	Narration *string              `json:"narration,omitempty"`
	Lines     *[]CreateLineRequest `json:"lines,omitempty" binding:"omitempty,min=1,dive"`
}

// LineResponse mirrors a transaction line.
type LineResponse struct {
	LineID       string          `json:"lineID"`
	LineNo       int             `json:"lineNo"`
	AccountID    string          `json:"accountID"`
	Debit        decimal.Decimal `json:"debit"`
	Credit       decimal.Decimal `json:"credit"`
	BaseDebit    decimal.Decimal `json:"baseDebit"`
	BaseCredit   decimal.Decimal `json:"baseCredit"`
	DepartmentID *string         `json:"departmentID,omitempty"`
	ProjectID    *string         `json:"projectID,omitempty"`
	CostCenterID *string         `json:"costCenterID,omitempty"`
	TaxRate      decimal.Decimal `json:"taxRate"`
	TaxAmount    decimal.Decimal `json:"taxAmount"`
	Description  string          `json:"description"`
	ProductID    *string         `json:"productID,omitempty"`
	WarehouseID  *string         `json:"warehouseID,omitempty"`
	Quantity     decimal.Decimal `json:"quantity"`
	UnitCost     decimal.Decimal `json:"unitCost"`
	Direction    string          `json:"direction,omitempty"`
}

// TransactionResponse mirrors a transaction header with its lines.
type TransactionResponse struct {
	TransactionID  string          `json:"transactionID"`
	OrgID          string          `json:"orgID"`
	TypeCode       string          `json:"typeCode"`
	Date           time.Time       `json:"date"`
	Reference      string          `json:"reference"`
	Narration      string          `json:"narration"`
	CurrencyCode   string          `json:"currencyCode"`
	ExchangeRate   decimal.Decimal `json:"exchangeRate"`
	Status         string          `json:"status"`
	SchemaVersion  int             `json:"schemaVersion"`
	DocumentNumber int64           `json:"documentNumber,omitempty"`
	ReversesID     *string         `json:"reversesID,omitempty"`
	ReversedByID   *string         `json:"reversedByID,omitempty"`
	PostedBy       string          `json:"postedBy,omitempty"`
	PostedAt       *time.Time      `json:"postedAt,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
	CreatedBy      string          `json:"createdBy"`
	Lines          []LineResponse  `json:"lines,omitempty"`
}

// ToTransactionResponse converts a domain transaction for the API surface.
func ToTransactionResponse(t *domain.Transaction) TransactionResponse {
	resp := TransactionResponse{
		TransactionID:  t.TransactionID,
		OrgID:          t.OrgID,
		TypeCode:       t.TypeCode,
		Date:           t.Date,
		Reference:      t.Reference,
		Narration:      t.Narration,
		CurrencyCode:   t.CurrencyCode,
		ExchangeRate:   t.ExchangeRate,
		Status:         string(t.Status),
		SchemaVersion:  t.SchemaVersion,
		DocumentNumber: t.DocumentNumber,
		ReversesID:     t.ReversesID,
		ReversedByID:   t.ReversedByID,
		PostedBy:       t.PostedBy,
		PostedAt:       t.PostedAt,
		CreatedAt:      t.CreatedAt,
		CreatedBy:      t.CreatedBy,
	}
	for _, l := range t.ActiveLines() {
		resp.Lines = append(resp.Lines, LineResponse{
			LineID:       l.LineID,
			LineNo:       l.LineNo,
			AccountID:    l.AccountID,
			Debit:        l.Debit,
			Credit:       l.Credit,
			BaseDebit:    l.BaseDebit,
			BaseCredit:   l.BaseCredit,
			DepartmentID: l.DepartmentID,
			ProjectID:    l.ProjectID,
			CostCenterID: l.CostCenterID,
			TaxRate:      l.TaxRate,
			TaxAmount:    l.TaxAmount,
			Description:  l.Description,
			ProductID:    l.ProductID,
			WarehouseID:  l.WarehouseID,
			Quantity:     l.Quantity,
			UnitCost:     l.UnitCost,
			Direction:    string(l.Direction),
		})
	}
	return resp
}
