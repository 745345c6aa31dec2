package repositories

import (
	"context"

	"github.com/finbooks/posting-engine/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// InventoryRepository maintains stock levels and the append-only movement
// log. The InTx methods run inside the posting unit.
type InventoryRepository interface {
	GetStockLevel(ctx context.Context, orgID, productID, warehouseID string) (*domain.StockLevel, error)
	// LockStockLevelsInTx locks (creating when absent) the stock rows for
	// the given keys, in ascending (product, warehouse) order.
	LockStockLevelsInTx(ctx context.Context, tx pgx.Tx, orgID string, keys []domain.StockKey) (map[domain.StockKey]domain.StockLevel, error)
	UpdateStockLevelInTx(ctx context.Context, tx pgx.Tx, level domain.StockLevel) error
	InsertMovementsInTx(ctx context.Context, tx pgx.Tx, movements []domain.StockMovement) error
}
