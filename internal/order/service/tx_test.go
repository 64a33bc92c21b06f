package service

import (
	"context"
	"errors"
	"testing"

	"github.com/go-sql-driver/mysql"
	"go.uber.org/zap"

	apperrors "phonestore/internal/errors"
)

func deadlockErr() error {
	return &mysql.MySQLError{Number: 1213}
}

func TestWithDeadlockRetry_BusinessErrorReturnsImmediately(t *testing.T) {
	calls := 0
	want := apperrors.NewInsufficientStockError(1, 5, 2)

	err := withDeadlockRetry(context.Background(), zap.NewNop(), 3, func() error {
		calls++
		return want
	})

	if err != want {
		t.Fatalf("expected the business error back, got %v", err)
	}
	if calls != 1 {
		t.Errorf("expected a single attempt, got %d", calls)
	}
}

func TestWithDeadlockRetry_RecoversAfterDeadlock(t *testing.T) {
	calls := 0

	err := withDeadlockRetry(context.Background(), zap.NewNop(), 3, func() error {
		calls++
		if calls == 1 {
			return deadlockErr()
		}
		return nil
	})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 2 {
		t.Errorf("expected 2 attempts, got %d", calls)
	}
}

func TestWithDeadlockRetry_ExhaustsAttempts(t *testing.T) {
	calls := 0

	err := withDeadlockRetry(context.Background(), zap.NewNop(), 3, func() error {
		calls++
		return deadlockErr()
	})

	if _, ok := apperrors.IsDeadlockError(err); !ok {
		t.Fatalf("expected DeadlockError, got %v", err)
	}
	if calls != 3 {
		t.Errorf("expected 3 attempts, got %d", calls)
	}
}

func TestIsDeadlockError(t *testing.T) {
	if !isDeadlockError(&mysql.MySQLError{Number: 1213}) {
		t.Error("1213 must be a deadlock")
	}
	if !isDeadlockError(&mysql.MySQLError{Number: 1205}) {
		t.Error("1205 must be a deadlock")
	}
	if isDeadlockError(&mysql.MySQLError{Number: 1062}) {
		t.Error("1062 is a duplicate key, not a deadlock")
	}
	if isDeadlockError(errors.New("plain")) {
		t.Error("plain errors are not deadlocks")
	}
}
