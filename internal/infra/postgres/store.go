package postgres

import (
	"context"
	"errors"

	"color-quiz-service/internal/domain"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// lock keys for pg_advisory_xact_lock; each serializes one bootstrap transition.
const (
	questionsLockKey int64 = 0x71756973
	adminsLockKey    int64 = 0x61646d6e
)

const uniqueViolation = "23505"

// Connect opens a pool and verifies the connection.
func Connect(ctx context.Context, url string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.Connect(ctx, url)
	if err != nil {
		return nil, domain.StorageError("connect postgres", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, domain.StorageError("ping postgres", err)
	}
	return pool, nil
}

// withLockedTx runs fn in a transaction that holds the advisory lock key until commit.
func withLockedTx(ctx context.Context, pool *pgxpool.Pool, key int64, fn func(pgx.Tx) error) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return domain.StorageError("begin tx", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, key); err != nil {
		return domain.StorageError("advisory lock", err)
	}
	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return domain.StorageError("commit tx", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
