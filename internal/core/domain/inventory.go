package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementDirection tells whether stock enters or leaves a warehouse.
type MovementDirection string

const (
	MovementIn  MovementDirection = "IN"
	MovementOut MovementDirection = "OUT"
)

// StockLevel holds on-hand quantity and weighted-average unit cost per
// (product, warehouse) pair. Mutated only inside the posting unit, under
// row-level locking.
type StockLevel struct {
	OrgID       string          `json:"orgID"`
	ProductID   string          `json:"productID"`
	WarehouseID string          `json:"warehouseID"`
	OnHand      decimal.Decimal `json:"onHand"`
	AvgCost     decimal.Decimal `json:"avgCost"`
}

// StockKey identifies a stock row.
type StockKey struct {
	ProductID   string
	WarehouseID string
}

// StockMovement is the append-only record of one inventory effect.
type StockMovement struct {
	MovementID    string            `json:"movementID"`
	OrgID         string            `json:"orgID"`
	TransactionID string            `json:"transactionID"`
	LineNo        int               `json:"lineNo"`
	ProductID     string            `json:"productID"`
	WarehouseID   string            `json:"warehouseID"`
	Direction     MovementDirection `json:"direction"`
	Quantity      decimal.Decimal   `json:"quantity"`
	UnitCost      decimal.Decimal   `json:"unitCost"` // Inbound: supplied cost; outbound: average at consumption
	MovedAt       time.Time         `json:"movedAt"`
	CreatedBy     string            `json:"createdBy"`
}
