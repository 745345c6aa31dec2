package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerEntry is one immutable row per posted transaction line. Entries are
// never updated or deleted; corrections happen via new transactions.
type LedgerEntry struct {
	EntryID        string          `json:"entryID"`
	OrgID          string          `json:"orgID"`
	TransactionID  string          `json:"transactionID"`
	LineNo         int             `json:"lineNo"`
	AccountID      string          `json:"accountID"`
	Debit          decimal.Decimal `json:"debit"`
	Credit         decimal.Decimal `json:"credit"`
	RunningBalance decimal.Decimal `json:"runningBalance"` // Account balance after this entry
	CreatedAt      time.Time       `json:"createdAt"`
	CreatedBy      string          `json:"createdBy"`
}

// SequenceCounter is one row per (organization, transaction type), holding
// the next document number to assign. It is incremented exactly once per
// successful posting, under an exclusive row lock, and never decremented.
type SequenceCounter struct {
	OrgID      string `json:"orgID"`
	TypeCode   string `json:"typeCode"`
	NextNumber int64  `json:"nextNumber"`
}
