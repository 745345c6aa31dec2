package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/finbooks/posting-engine/internal/apperrors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// lockNotAvailable is the Postgres error code raised when lock_timeout
// expires while waiting for a row lock.
const lockNotAvailable = "55P03"

// BaseRepository provides common functionality for all repositories
type BaseRepository struct {
	Pool *pgxpool.Pool
}

// Begin starts a new database transaction
func (r *BaseRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.Pool.Begin(ctx)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to begin transaction", err)
	}
	return tx, nil
}

// Commit commits a transaction
func (r *BaseRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Commit(ctx); err != nil {
		return apperrors.NewAppError(500, "failed to commit transaction", err)
	}
	return nil
}

// Rollback rolls back a transaction
func (r *BaseRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return apperrors.NewAppError(500, "failed to rollback transaction", err)
	}
	return nil
}

// SetLockTimeout bounds how long the transaction waits for row locks.
// SET LOCAL scopes the setting to the current transaction.
func (r *BaseRepository) SetLockTimeout(ctx context.Context, tx pgx.Tx, millis int) error {
	_, err := tx.Exec(ctx, fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", millis))
	if err != nil {
		return apperrors.NewAppError(500, "failed to set lock timeout", err)
	}
	return nil
}

// IsLockTimeout reports whether the error is a Postgres lock_timeout expiry.
func IsLockTimeout(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == lockNotAvailable
}

// mapLockError converts a lock timeout into the retryable engine error and
// leaves everything else to the caller's wrapping.
func mapLockError(err error, message string) error {
	if IsLockTimeout(err) {
		return apperrors.Wrap(apperrors.KindLockTimeout, message, err)
	}
	return err
}
