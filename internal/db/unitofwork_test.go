package db_test

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/alexanderramin/agileplanner/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openUoW(t *testing.T) (*sql.DB, *db.SQLiteUnitOfWork) {
	t.Helper()
	database, err := db.OpenDB(db.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return database, db.NewSQLiteUnitOfWork(database)
}

func insertSnapshot(ctx context.Context, tx db.DBTX, id string) error {
	_, err := tx.ExecContext(ctx, `INSERT INTO snapshots (id, taken_at) VALUES (?, '2025-01-01T00:00:00Z')`, id)
	return err
}

func snapshotExists(t *testing.T, database *sql.DB, id string) bool {
	t.Helper()
	var n int
	require.NoError(t, database.QueryRow(`SELECT COUNT(*) FROM snapshots WHERE id = ?`, id).Scan(&n))
	return n == 1
}

func TestWithinTx_CommitOnSuccess(t *testing.T) {
	database, uow := openUoW(t)

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		return insertSnapshot(ctx, tx, "snap-1")
	})
	require.NoError(t, err)
	assert.True(t, snapshotExists(t, database, "snap-1"))
}

func TestWithinTx_RollbackOnError(t *testing.T) {
	database, uow := openUoW(t)

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		if err := insertSnapshot(ctx, tx, "snap-2"); err != nil {
			return err
		}
		return fmt.Errorf("deliberate failure")
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "deliberate failure")
	assert.False(t, snapshotExists(t, database, "snap-2"))
}

func TestWithinTx_RollbackOnPanic(t *testing.T) {
	database, uow := openUoW(t)

	assert.Panics(t, func() {
		_ = uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
			_ = insertSnapshot(ctx, tx, "snap-3")
			panic("boom")
		})
	})
	assert.False(t, snapshotExists(t, database, "snap-3"))
}

func TestWithinReadTx_SeesCommittedRows(t *testing.T) {
	database, uow := openUoW(t)
	ctx := context.Background()

	require.NoError(t, uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return insertSnapshot(ctx, tx, "snap-4")
	}))

	var n int
	err := uow.WithinReadTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM snapshots`).Scan(&n)
	})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.True(t, snapshotExists(t, database, "snap-4"))
}
