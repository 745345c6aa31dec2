package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionStatus is the state of a transaction in the posting workflow.
type TransactionStatus string

const (
	Draft            TransactionStatus = "DRAFT"
	AwaitingApproval TransactionStatus = "AWAITING_APPROVAL"
	Approved         TransactionStatus = "APPROVED"
	Posted           TransactionStatus = "POSTED"
	Rejected         TransactionStatus = "REJECTED"
	Reversed         TransactionStatus = "REVERSED"
)

// transitions is the closed transition table of the posting state machine.
// A transition absent from this table is illegal regardless of permissions.
var transitions = map[TransactionStatus][]TransactionStatus{
	Draft:            {AwaitingApproval, Posted},
	AwaitingApproval: {Approved, Rejected},
	Approved:         {Posted},
	Rejected:         {Draft},
	Posted:           {Reversed},
	Reversed:         {},
}

// CanTransition reports whether the state machine permits moving from one
// status to another. Guards (permissions, validation) are checked separately.
func CanTransition(from, to TransactionStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsLocked reports whether the status freezes the transaction's line set.
func (s TransactionStatus) IsLocked() bool {
	return s == Posted || s == Reversed
}

// EntrySide indicates whether a line is a debit or a credit leg.
type EntrySide string

const (
	Debit  EntrySide = "DEBIT"
	Credit EntrySide = "CREDIT"
)

// Transaction is one voucher: a header plus its debit/credit lines. It is
// mutable while in DRAFT (or routed back to DRAFT after rejection) and
// becomes immutable once posted.
type Transaction struct {
	TransactionID  string            `json:"transactionID"`
	OrgID          string            `json:"orgID"`
	TypeCode       string            `json:"typeCode"` // FK -> transaction_types.type_code
	Date           time.Time         `json:"date"`
	Reference      string            `json:"reference"` // Free-text external reference
	Narration      string            `json:"narration"`
	CurrencyCode   string            `json:"currencyCode"`
	ExchangeRate   decimal.Decimal   `json:"exchangeRate"` // To base currency, > 0
	Status         TransactionStatus `json:"status"`
	SchemaVersion  int               `json:"schemaVersion"`
	DocumentNumber int64             `json:"documentNumber"` // 0 until posted
	IdempotencyKey *string           `json:"idempotencyKey,omitempty"`
	ReversesID     *string           `json:"reversesID,omitempty"`   // Set on a reversal, points at the original
	ReversedByID   *string           `json:"reversedByID,omitempty"` // Set on the original once reversed
	ApprovedBy     string            `json:"approvedBy,omitempty"`
	PostedBy       string            `json:"postedBy,omitempty"`
	PostedAt       *time.Time        `json:"postedAt,omitempty"`
	Lines          []TransactionLine `json:"lines,omitempty"`
	AuditFields
}

// TransactionLine is one debit-or-credit leg of a transaction. Exactly one of
// Debit/Credit is strictly positive; the other is zero.
type TransactionLine struct {
	LineID        string          `json:"lineID"`
	TransactionID string          `json:"transactionID"`
	LineNo        int             `json:"lineNo"` // 1-based, stable processing order
	AccountID     string          `json:"accountID"`
	Debit         decimal.Decimal `json:"debit"`
	Credit        decimal.Decimal `json:"credit"`
	BaseDebit     decimal.Decimal `json:"baseDebit"`  // Converted via header exchange rate
	BaseCredit    decimal.Decimal `json:"baseCredit"` // Converted via header exchange rate
	DepartmentID  *string         `json:"departmentID,omitempty"`
	ProjectID     *string         `json:"projectID,omitempty"`
	CostCenterID  *string         `json:"costCenterID,omitempty"`
	TaxRate       decimal.Decimal `json:"taxRate"`
	TaxAmount     decimal.Decimal `json:"taxAmount"`
	Description   string          `json:"description"`
	Deleted       bool            `json:"deleted"`

	// Inventory metadata, set only on lines of inventory-affecting types.
	ProductID   *string           `json:"productID,omitempty"`
	WarehouseID *string           `json:"warehouseID,omitempty"`
	Quantity    decimal.Decimal   `json:"quantity"`
	UnitCost    decimal.Decimal   `json:"unitCost"`
	Direction   MovementDirection `json:"direction,omitempty"`
}

// Side returns which leg the line is, judged by its nonzero amount.
func (l TransactionLine) Side() EntrySide {
	if l.Debit.IsPositive() {
		return Debit
	}
	return Credit
}

// Amount returns the line's single nonzero amount.
func (l TransactionLine) Amount() decimal.Decimal {
	if l.Debit.IsPositive() {
		return l.Debit
	}
	return l.Credit
}

// HasInventory reports whether the line carries stock movement metadata.
func (l TransactionLine) HasInventory() bool {
	return l.ProductID != nil && l.WarehouseID != nil && l.Direction != ""
}

// ActiveLines returns the non-deleted lines in stable LineNo order. The
// caller may mutate the returned slice without affecting the transaction.
func (t Transaction) ActiveLines() []TransactionLine {
	active := make([]TransactionLine, 0, len(t.Lines))
	for _, l := range t.Lines {
		if !l.Deleted {
			active = append(active, l)
		}
	}
	return active
}
