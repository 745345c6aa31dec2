package pgsql

import (
	"context"

	"github.com/finbooks/posting-engine/internal/apperrors"
	portsrepo "github.com/finbooks/posting-engine/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxSequenceRepository struct {
	BaseRepository
}

// newPgxSequenceRepository creates a new repository for document number
// counters.
func newPgxSequenceRepository(pool *pgxpool.Pool) portsrepo.SequenceRepository {
	return &PgxSequenceRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.SequenceRepository = (*PgxSequenceRepository)(nil)

// NextNumberInTx allocates the next document number for (org, type) inside
// the caller's transaction. The counter row is created on first use, then
// locked with FOR UPDATE so concurrent postings of the same type serialize
// here; an aborted posting rolls the increment back, which keeps the
// sequence gap-free.
func (r *PgxSequenceRepository) NextNumberInTx(ctx context.Context, tx pgx.Tx, orgID, typeCode string) (int64, error) {
	_, err := tx.Exec(ctx, `
		INSERT INTO sequence_counters (org_id, type_code, next_number)
		VALUES ($1, $2, 1)
		ON CONFLICT (org_id, type_code) DO NOTHING;
	`, orgID, typeCode)
	if err != nil {
		return 0, apperrors.NewAppError(500, "failed to seed sequence counter for "+typeCode, err)
	}

	var number int64
	err = tx.QueryRow(ctx, `
		SELECT next_number FROM sequence_counters
		WHERE org_id = $1 AND type_code = $2
		FOR UPDATE;
	`, orgID, typeCode).Scan(&number)
	if err != nil {
		return 0, mapLockError(err, "timed out waiting for sequence counter lock")
	}

	_, err = tx.Exec(ctx, `
		UPDATE sequence_counters SET next_number = next_number + 1
		WHERE org_id = $1 AND type_code = $2;
	`, orgID, typeCode)
	if err != nil {
		return 0, apperrors.NewAppError(500, "failed to increment sequence counter for "+typeCode, err)
	}
	return number, nil
}
