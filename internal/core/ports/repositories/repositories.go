package repositories

// RepositoryProvider bundles every repository implementation so wiring stays
// in one place.
type RepositoryProvider struct {
	TransactionRepo TransactionRepositoryWithTx
	AccountRepo     AccountRepository
	PeriodRepo      PeriodRepository
	TypeRepo        TransactionTypeRepository
	CurrencyRepo    CurrencyRepository
	OrgRepo         OrganizationRepository
	SequenceRepo    SequenceRepository
	BudgetRepo      BudgetRepository
	InventoryRepo   InventoryRepository
	AuditRepo       AuditRepository
}
