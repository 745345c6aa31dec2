package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockLevel represents on-hand quantity and weighted-average cost per
// (product, warehouse) row.
type StockLevel struct {
	OrgID       string          `db:"org_id"`
	ProductID   string          `db:"product_id"`
	WarehouseID string          `db:"warehouse_id"`
	OnHand      decimal.Decimal `db:"on_hand"`
	AvgCost     decimal.Decimal `db:"avg_cost"`
}

// StockMovement represents one append-only inventory movement row.
type StockMovement struct {
	MovementID    string          `db:"movement_id"`
	OrgID         string          `db:"org_id"`
	TransactionID string          `db:"transaction_id"`
	LineNo        int             `db:"line_no"`
	ProductID     string          `db:"product_id"`
	WarehouseID   string          `db:"warehouse_id"`
	Direction     string          `db:"direction"`
	Quantity      decimal.Decimal `db:"quantity"`
	UnitCost      decimal.Decimal `db:"unit_cost"`
	MovedAt       time.Time       `db:"moved_at"`
	CreatedBy     string          `db:"created_by"`
}
