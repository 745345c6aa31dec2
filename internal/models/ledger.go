package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerEntry represents one immutable ledger row written at posting time.
type LedgerEntry struct {
	EntryID        string          `db:"entry_id"`
	OrgID          string          `db:"org_id"`
	TransactionID  string          `db:"transaction_id"`
	LineNo         int             `db:"line_no"`
	AccountID      string          `db:"account_id"`
	Debit          decimal.Decimal `db:"debit"`
	Credit         decimal.Decimal `db:"credit"`
	RunningBalance decimal.Decimal `db:"running_balance"`
	CreatedAt      time.Time       `db:"created_at"`
	CreatedBy      string          `db:"created_by"`
}

// SequenceCounter represents the per-(org, type) document number counter row.
type SequenceCounter struct {
	OrgID      string `db:"org_id"`
	TypeCode   string `db:"type_code"`
	NextNumber int64  `db:"next_number"`
}
