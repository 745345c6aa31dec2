package dto

import (
	"time"

	"github.com/finbooks/posting-engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ListLedgerEntriesParams controls ledger entry pagination.
type ListLedgerEntriesParams struct {
	Limit     int     `form:"limit"`
	NextToken *string `form:"nextToken"`
}

// LedgerEntryResponse mirrors one immutable ledger row.
type LedgerEntryResponse struct {
	EntryID        string          `json:"entryID"`
	TransactionID  string          `json:"transactionID"`
	LineNo         int             `json:"lineNo"`
	AccountID      string          `json:"accountID"`
	Debit          decimal.Decimal `json:"debit"`
	Credit         decimal.Decimal `json:"credit"`
	RunningBalance decimal.Decimal `json:"runningBalance"`
	CreatedAt      time.Time       `json:"createdAt"`
}

// ListLedgerEntriesResponse is a token-paginated page of ledger entries.
type ListLedgerEntriesResponse struct {
	Entries   []LedgerEntryResponse `json:"entries"`
	NextToken *string               `json:"nextToken,omitempty"`
}

// ToLedgerEntryResponses converts domain entries for the API surface.
func ToLedgerEntryResponses(entries []domain.LedgerEntry) []LedgerEntryResponse {
	out := make([]LedgerEntryResponse, len(entries))
	for i, e := range entries {
		out[i] = LedgerEntryResponse{
			EntryID:        e.EntryID,
			TransactionID:  e.TransactionID,
			LineNo:         e.LineNo,
			AccountID:      e.AccountID,
			Debit:          e.Debit,
			Credit:         e.Credit,
			RunningBalance: e.RunningBalance,
			CreatedAt:      e.CreatedAt,
		}
	}
	return out
}
