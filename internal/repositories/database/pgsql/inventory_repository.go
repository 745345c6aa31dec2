package pgsql

import (
	"context"
	"errors"
	"sort"

	"github.com/finbooks/posting-engine/internal/apperrors"
	"github.com/finbooks/posting-engine/internal/core/domain"
	portsrepo "github.com/finbooks/posting-engine/internal/core/ports/repositories"
	"github.com/finbooks/posting-engine/internal/models"
	"github.com/finbooks/posting-engine/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxInventoryRepository struct {
	BaseRepository
}

// newPgxInventoryRepository creates a new repository for stock levels and
// movements.
func newPgxInventoryRepository(pool *pgxpool.Pool) portsrepo.InventoryRepository {
	return &PgxInventoryRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.InventoryRepository = (*PgxInventoryRepository)(nil)

// GetStockLevel retrieves one stock row.
func (r *PgxInventoryRepository) GetStockLevel(ctx context.Context, orgID, productID, warehouseID string) (*domain.StockLevel, error) {
	query := `
		SELECT org_id, product_id, warehouse_id, on_hand, avg_cost
		FROM stock_levels
		WHERE org_id = $1 AND product_id = $2 AND warehouse_id = $3;
	`
	var m models.StockLevel
	err := r.Pool.QueryRow(ctx, query, orgID, productID, warehouseID).Scan(
		&m.OrgID, &m.ProductID, &m.WarehouseID, &m.OnHand, &m.AvgCost,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find stock level for "+productID, err)
	}
	d := mapping.ToDomainStockLevel(m)
	return &d, nil
}

// LockStockLevelsInTx locks (creating when absent) the stock rows for the
// given keys. Rows are seeded and locked in ascending (product, warehouse)
// order so concurrent postings cannot deadlock on stock.
func (r *PgxInventoryRepository) LockStockLevelsInTx(ctx context.Context, tx pgx.Tx, orgID string, keys []domain.StockKey) (map[domain.StockKey]domain.StockLevel, error) {
	if len(keys) == 0 {
		return map[domain.StockKey]domain.StockLevel{}, nil
	}

	ordered := make([]domain.StockKey, len(keys))
	copy(ordered, keys)
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].ProductID != ordered[j].ProductID {
			return ordered[i].ProductID < ordered[j].ProductID
		}
		return ordered[i].WarehouseID < ordered[j].WarehouseID
	})

	products := make([]string, len(ordered))
	warehouses := make([]string, len(ordered))
	for i, k := range ordered {
		products[i] = k.ProductID
		warehouses[i] = k.WarehouseID
	}

	_, err := tx.Exec(ctx, `
		INSERT INTO stock_levels (org_id, product_id, warehouse_id, on_hand, avg_cost)
		SELECT $1, p, w, 0, 0 FROM unnest($2::text[], $3::text[]) AS t(p, w)
		ON CONFLICT (org_id, product_id, warehouse_id) DO NOTHING;
	`, orgID, products, warehouses)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to seed stock level rows", err)
	}

	rows, err := tx.Query(ctx, `
		SELECT org_id, product_id, warehouse_id, on_hand, avg_cost
		FROM stock_levels
		WHERE org_id = $1 AND (product_id, warehouse_id) IN (SELECT p, w FROM unnest($2::text[], $3::text[]) AS t(p, w))
		ORDER BY product_id, warehouse_id
		FOR UPDATE;
	`, orgID, products, warehouses)
	if err != nil {
		return nil, mapLockError(err, "timed out waiting for stock locks")
	}
	defer rows.Close()

	levels := make(map[domain.StockKey]domain.StockLevel, len(ordered))
	for rows.Next() {
		var m models.StockLevel
		if err := rows.Scan(&m.OrgID, &m.ProductID, &m.WarehouseID, &m.OnHand, &m.AvgCost); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan locked stock row", err)
		}
		levels[domain.StockKey{ProductID: m.ProductID, WarehouseID: m.WarehouseID}] = mapping.ToDomainStockLevel(m)
	}
	if err := rows.Err(); err != nil {
		return nil, mapLockError(err, "timed out waiting for stock locks")
	}
	return levels, nil
}

// UpdateStockLevelInTx writes back a mutated stock row.
func (r *PgxInventoryRepository) UpdateStockLevelInTx(ctx context.Context, tx pgx.Tx, level domain.StockLevel) error {
	query := `
		UPDATE stock_levels SET on_hand = $1, avg_cost = $2
		WHERE org_id = $3 AND product_id = $4 AND warehouse_id = $5;
	`
	_, err := tx.Exec(ctx, query, level.OnHand, level.AvgCost, level.OrgID, level.ProductID, level.WarehouseID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update stock level for "+level.ProductID, err)
	}
	return nil
}

// InsertMovementsInTx appends the movement log rows for one posting.
func (r *PgxInventoryRepository) InsertMovementsInTx(ctx context.Context, tx pgx.Tx, movements []domain.StockMovement) error {
	if len(movements) == 0 {
		return nil
	}
	query := `
		INSERT INTO stock_movements (movement_id, org_id, transaction_id, line_no, product_id, warehouse_id, direction, quantity, unit_cost, moved_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	batch := &pgx.Batch{}
	for _, mv := range movements {
		batch.Queue(query,
			mv.MovementID, mv.OrgID, mv.TransactionID, mv.LineNo,
			mv.ProductID, mv.WarehouseID, string(mv.Direction),
			mv.Quantity, mv.UnitCost, mv.MovedAt, mv.CreatedBy,
		)
	}
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to insert stock movements", err)
	}
	return nil
}
