package pgsql

import (
	portsrepo "github.com/finbooks/posting-engine/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider wires every pgx-backed repository over a shared pool.
// The transaction repository receives its siblings so the atomic posting unit
// can reuse their in-tx operations.
func NewRepositoryProvider(pool *pgxpool.Pool) *portsrepo.RepositoryProvider {
	accountRepo := newPgxAccountRepository(pool)
	periodRepo := newPgxPeriodRepository(pool)
	typeRepo := newPgxTransactionTypeRepository(pool)
	currencyRepo := newPgxCurrencyRepository(pool)
	orgRepo := newPgxOrganizationRepository(pool)
	sequenceRepo := newPgxSequenceRepository(pool)
	budgetRepo := newPgxBudgetRepository(pool)
	inventoryRepo := newPgxInventoryRepository(pool)
	auditRepo := newPgxAuditRepository(pool)

	return &portsrepo.RepositoryProvider{
		TransactionRepo: newPgxTransactionRepository(pool, accountRepo, periodRepo, sequenceRepo, inventoryRepo, auditRepo),
		AccountRepo:     accountRepo,
		PeriodRepo:      periodRepo,
		TypeRepo:        typeRepo,
		CurrencyRepo:    currencyRepo,
		OrgRepo:         orgRepo,
		SequenceRepo:    sequenceRepo,
		BudgetRepo:      budgetRepo,
		InventoryRepo:   inventoryRepo,
		AuditRepo:       auditRepo,
	}
}
