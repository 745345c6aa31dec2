package mapping

import (
	"github.com/finbooks/posting-engine/internal/core/domain"
	"github.com/finbooks/posting-engine/internal/models"
)

// ToModelTransaction converts a domain Transaction header to a model Transaction.
func ToModelTransaction(d domain.Transaction) models.Transaction {
	return models.Transaction{
		TransactionID:  d.TransactionID,
		OrgID:          d.OrgID,
		TypeCode:       d.TypeCode,
		Date:           d.Date,
		Reference:      d.Reference,
		Narration:      d.Narration,
		CurrencyCode:   d.CurrencyCode,
		ExchangeRate:   d.ExchangeRate,
		Status:         string(d.Status),
		SchemaVersion:  d.SchemaVersion,
		DocumentNumber: d.DocumentNumber,
		IdempotencyKey: d.IdempotencyKey,
		ReversesID:     d.ReversesID,
		ReversedByID:   d.ReversedByID,
		ApprovedBy:     d.ApprovedBy,
		PostedBy:       d.PostedBy,
		PostedAt:       d.PostedAt,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainTransaction converts a model Transaction header to a domain Transaction.
func ToDomainTransaction(m models.Transaction) domain.Transaction {
	return domain.Transaction{
		TransactionID:  m.TransactionID,
		OrgID:          m.OrgID,
		TypeCode:       m.TypeCode,
		Date:           m.Date,
		Reference:      m.Reference,
		Narration:      m.Narration,
		CurrencyCode:   m.CurrencyCode,
		ExchangeRate:   m.ExchangeRate,
		Status:         domain.TransactionStatus(m.Status),
		SchemaVersion:  m.SchemaVersion,
		DocumentNumber: m.DocumentNumber,
		IdempotencyKey: m.IdempotencyKey,
		ReversesID:     m.ReversesID,
		ReversedByID:   m.ReversedByID,
		ApprovedBy:     m.ApprovedBy,
		PostedBy:       m.PostedBy,
		PostedAt:       m.PostedAt,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelTransactionLine converts a domain TransactionLine to a model TransactionLine.
func ToModelTransactionLine(d domain.TransactionLine) models.TransactionLine {
	return models.TransactionLine{
		LineID:        d.LineID,
		TransactionID: d.TransactionID,
		LineNo:        d.LineNo,
		AccountID:     d.AccountID,
		Debit:         d.Debit,
		Credit:        d.Credit,
		BaseDebit:     d.BaseDebit,
		BaseCredit:    d.BaseCredit,
		DepartmentID:  d.DepartmentID,
		ProjectID:     d.ProjectID,
		CostCenterID:  d.CostCenterID,
		TaxRate:       d.TaxRate,
		TaxAmount:     d.TaxAmount,
		Description:   d.Description,
		Deleted:       d.Deleted,
		ProductID:     d.ProductID,
		WarehouseID:   d.WarehouseID,
		Quantity:      d.Quantity,
		UnitCost:      d.UnitCost,
		Direction:     string(d.Direction),
	}
}

// ToDomainTransactionLine converts a model TransactionLine to a domain TransactionLine.
func ToDomainTransactionLine(m models.TransactionLine) domain.TransactionLine {
	return domain.TransactionLine{
		LineID:        m.LineID,
		TransactionID: m.TransactionID,
		LineNo:        m.LineNo,
		AccountID:     m.AccountID,
		Debit:         m.Debit,
		Credit:        m.Credit,
		BaseDebit:     m.BaseDebit,
		BaseCredit:    m.BaseCredit,
		DepartmentID:  m.DepartmentID,
		ProjectID:     m.ProjectID,
		CostCenterID:  m.CostCenterID,
		TaxRate:       m.TaxRate,
		TaxAmount:     m.TaxAmount,
		Description:   m.Description,
		Deleted:       m.Deleted,
		ProductID:     m.ProductID,
		WarehouseID:   m.WarehouseID,
		Quantity:      m.Quantity,
		UnitCost:      m.UnitCost,
		Direction:     domain.MovementDirection(m.Direction),
	}
}

// ToDomainTransactionLineSlice converts a slice of model lines to domain lines.
func ToDomainTransactionLineSlice(ms []models.TransactionLine) []domain.TransactionLine {
	ds := make([]domain.TransactionLine, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainTransactionLine(m)
	}
	return ds
}

// ToDomainLedgerEntry converts a model LedgerEntry to a domain LedgerEntry.
func ToDomainLedgerEntry(m models.LedgerEntry) domain.LedgerEntry {
	return domain.LedgerEntry{
		EntryID:        m.EntryID,
		OrgID:          m.OrgID,
		TransactionID:  m.TransactionID,
		LineNo:         m.LineNo,
		AccountID:      m.AccountID,
		Debit:          m.Debit,
		Credit:         m.Credit,
		RunningBalance: m.RunningBalance,
		CreatedAt:      m.CreatedAt,
		CreatedBy:      m.CreatedBy,
	}
}
