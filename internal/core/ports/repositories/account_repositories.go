package repositories

import (
	"context"
	"time"

	"github.com/finbooks/posting-engine/internal/core/domain"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// AccountRepository provides account lookups and the locked balance updates
// used inside the posting unit.
type AccountRepository interface {
	SaveAccount(ctx context.Context, account domain.Account) error
	FindAccountByID(ctx context.Context, orgID, accountID string) (*domain.Account, error)
	// FindAccountsByIDs returns a map keyed by account id; missing ids are
	// simply absent from the map.
	FindAccountsByIDs(ctx context.Context, orgID string, accountIDs []string) (map[string]domain.Account, error)
	// FindAccountsByIDsForUpdate locks the account rows in ascending id
	// order. Must be called within a transaction.
	FindAccountsByIDsForUpdate(ctx context.Context, tx pgx.Tx, orgID string, accountIDs []string) (map[string]domain.Account, error)
	// UpdateAccountBalancesInTx applies signed deltas to locked accounts.
	UpdateAccountBalancesInTx(ctx context.Context, tx pgx.Tx, changes map[string]decimal.Decimal, actorID string, at time.Time) error
}
