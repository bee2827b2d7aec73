package db

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	_ "modernc.org/sqlite"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`CREATE TABLE items (id INTEGER PRIMARY KEY, name TEXT NOT NULL)`)
	if err != nil {
		t.Fatalf("Failed to create table: %v", err)
	}

	return db
}

func countItems(t *testing.T, db *sql.DB) int {
	t.Helper()
	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM items").Scan(&n); err != nil {
		t.Fatalf("Failed to count items: %v", err)
	}
	return n
}

func TestRunInTransaction_Commit(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	err := RunInTransaction(ctx, db, func(txCtx context.Context) error {
		executor := GetExecutor(txCtx, db)
		_, err := executor.ExecContext(txCtx, "INSERT INTO items (name) VALUES ($1)", "one")
		return err
	})
	if err != nil {
		t.Fatalf("RunInTransaction failed: %v", err)
	}

	if got := countItems(t, db); got != 1 {
		t.Errorf("Item count = %d, want 1", got)
	}
}

func TestRunInTransaction_RollbackOnError(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	wantErr := errors.New("boom")
	err := RunInTransaction(ctx, db, func(txCtx context.Context) error {
		executor := GetExecutor(txCtx, db)
		if _, err := executor.ExecContext(txCtx, "INSERT INTO items (name) VALUES ($1)", "one"); err != nil {
			return err
		}
		return wantErr
	})

	if !errors.Is(err, wantErr) {
		t.Fatalf("Error = %v, want %v", err, wantErr)
	}

	if got := countItems(t, db); got != 0 {
		t.Errorf("Item count = %d after rollback, want 0", got)
	}
}

func TestRunInTransaction_ReusesOuterTransaction(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	err := RunInTransaction(ctx, db, func(outerCtx context.Context) error {
		return RunInTransaction(outerCtx, db, func(innerCtx context.Context) error {
			outer, _ := GetTx(outerCtx)
			inner, ok := GetTx(innerCtx)
			if !ok || inner != outer {
				t.Error("Inner call did not reuse outer transaction")
			}
			executor := GetExecutor(innerCtx, db)
			_, err := executor.ExecContext(innerCtx, "INSERT INTO items (name) VALUES ($1)", "nested")
			return err
		})
	})
	if err != nil {
		t.Fatalf("Nested RunInTransaction failed: %v", err)
	}

	if got := countItems(t, db); got != 1 {
		t.Errorf("Item count = %d, want 1", got)
	}
}

func TestGetExecutor_WithoutTransaction(t *testing.T) {
	db := setupTestDB(t)

	executor := GetExecutor(context.Background(), db)
	if executor != Executor(db) {
		t.Error("Expected base db as executor when no transaction in context")
	}
}
