package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// SequenceRepository issues gap-free, per-(organization, type) document
// numbers. Allocation happens inside the caller's transaction so an aborted
// posting rolls the counter back with everything else.
type SequenceRepository interface {
	// NextNumberInTx locks the counter row exclusively, returns its current
	// value and increments it. Creates the row on first use.
	NextNumberInTx(ctx context.Context, tx pgx.Tx, orgID, typeCode string) (int64, error)
}
