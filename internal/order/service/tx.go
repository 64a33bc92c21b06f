package service

import (
	"context"
	"database/sql"
	"errors"
	"math/rand"
	"time"

	"github.com/go-sql-driver/mysql"
	"go.uber.org/zap"

	apperrors "phonestore/internal/errors"
)

type TransactionManager interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

// runInTx runs fn inside a RepeatableRead transaction bounded by timeout.
// Phone rows read FOR UPDATE inside fn stay locked until commit, which is
// what keeps concurrent reservations on the same phone serialized.
func runInTx(ctx context.Context, db TransactionManager, timeout time.Duration, fn func(ctx context.Context, tx *sql.Tx) error) error {
	txCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	tx, err := db.BeginTx(txCtx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead})
	if err != nil {
		return err
	}
	// Rollback on any exit path. MySQL ignores it once committed.
	defer tx.Rollback()

	if err := fn(txCtx, tx); err != nil {
		return err
	}

	return tx.Commit()
}

// withDeadlockRetry re-runs fn when MySQL aborts it as a deadlock victim.
// Business errors pass through untouched on the first occurrence.
func withDeadlockRetry(ctx context.Context, logger *zap.Logger, maxAttempts int, fn func() error) error {
	backoffs := []time.Duration{0, 100 * time.Millisecond, 200 * time.Millisecond}

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}

		if !isDeadlockError(err) {
			return err
		}

		if attempt == maxAttempts {
			break
		}

		backoff := backoffs[len(backoffs)-1]
		if attempt-1 < len(backoffs) {
			backoff = backoffs[attempt-1]
		}
		jitter := time.Duration(float64(backoff) * (0.8 + rand.Float64()*0.4))
		logger.Warn("deadlock detected, retrying",
			zap.Int("attempt", attempt),
			zap.Int("maxAttempts", maxAttempts))

		select {
		case <-time.After(jitter):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	return apperrors.NewDeadlockError("max retries exceeded")
}

func isDeadlockError(err error) bool {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == 1213 || mysqlErr.Number == 1205
	}
	return false
}
