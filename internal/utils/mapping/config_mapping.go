package mapping

import (
	"github.com/finbooks/posting-engine/internal/core/domain"
	"github.com/finbooks/posting-engine/internal/models"
)

// ToDomainPeriod converts a model Period to a domain Period.
func ToDomainPeriod(m models.Period) domain.Period {
	return domain.Period{
		PeriodID:    m.PeriodID,
		OrgID:       m.OrgID,
		Name:        m.Name,
		StartDate:   m.StartDate,
		EndDate:     m.EndDate,
		Status:      domain.PeriodStatus(m.Status),
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainTransactionType converts a model TransactionType to a domain
// TransactionTypeConfig.
func ToDomainTransactionType(m models.TransactionType) domain.TransactionTypeConfig {
	allowed := make([]domain.AccountType, len(m.AllowedAccountTypes))
	for i, t := range m.AllowedAccountTypes {
		allowed[i] = domain.AccountType(t)
	}
	versions := make([]int, len(m.SupportedSchemaVersions))
	for i, v := range m.SupportedSchemaVersions {
		versions[i] = int(v)
	}
	return domain.TransactionTypeConfig{
		TypeCode:                m.TypeCode,
		OrgID:                   m.OrgID,
		Name:                    m.Name,
		RequiresApproval:        m.RequiresApproval,
		InventoryAffecting:      m.InventoryAffecting,
		AllowedAccountTypes:     allowed,
		RequireReference:        m.RequireReference,
		DisallowedCodePrefixes:  m.DisallowedCodePrefixes,
		SupportedSchemaVersions: versions,
		AuditFields:             ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainCurrency converts a model Currency to a domain Currency.
func ToDomainCurrency(m models.Currency) domain.Currency {
	return domain.Currency{
		CurrencyCode: m.CurrencyCode,
		Symbol:       m.Symbol,
		Name:         m.Name,
		Precision:    m.Precision,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainOrganization converts a model Organization to a domain Organization.
func ToDomainOrganization(m models.Organization) domain.Organization {
	return domain.Organization{
		OrgID:              m.OrgID,
		Name:               m.Name,
		BaseCurrencyCode:   m.BaseCurrencyCode,
		AllowNegativeStock: m.AllowNegativeStock,
		AuditFields:        ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainBudget converts a model Budget to a domain Budget.
func ToDomainBudget(m models.Budget) domain.Budget {
	return domain.Budget{
		BudgetID:    m.BudgetID,
		OrgID:       m.OrgID,
		ScopeType:   domain.BudgetScopeType(m.ScopeType),
		ScopeID:     m.ScopeID,
		PeriodID:    m.PeriodID,
		LimitAmount: m.LimitAmount,
		Policy:      domain.BudgetPolicy(m.Policy),
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainStockLevel converts a model StockLevel to a domain StockLevel.
func ToDomainStockLevel(m models.StockLevel) domain.StockLevel {
	return domain.StockLevel{
		OrgID:       m.OrgID,
		ProductID:   m.ProductID,
		WarehouseID: m.WarehouseID,
		OnHand:      m.OnHand,
		AvgCost:     m.AvgCost,
	}
}

// ToDomainAuditEvent converts a model AuditEvent to a domain AuditEvent.
func ToDomainAuditEvent(m models.AuditEvent) domain.AuditEvent {
	event := domain.AuditEvent{
		EventID:    m.EventID,
		OrgID:      m.OrgID,
		Action:     domain.AuditAction(m.Action),
		ActorID:    m.ActorID,
		OccurredAt: m.OccurredAt,
		FromStatus: m.FromStatus,
		ToStatus:   m.ToStatus,
		Details:    m.Details,
	}
	if m.TransactionID != nil {
		event.TransactionID = *m.TransactionID
	}
	return event
}
