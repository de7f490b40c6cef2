package migration

import (
	"context"
	"database/sql"
	"io/fs"
	"testing"

	_ "github.com/glebarez/go-sqlite"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Additional-Code/tableside/db"
)

func TestGooseDialect(t *testing.T) {
	cases := map[string]goose.Dialect{
		"postgres": goose.DialectPostgres,
		"pgx":      goose.DialectPostgres,
		"mysql":    goose.DialectMySQL,
		"sqlite":   goose.DialectSQLite3,
	}
	for driver, want := range cases {
		got, err := gooseDialect(driver)
		require.NoError(t, err, driver)
		assert.Equal(t, want, got)
	}

	_, err := gooseDialect("oracle")
	assert.Error(t, err)
}

func TestMigrationsAreEmbedded(t *testing.T) {
	files, err := fs.Glob(db.Migrations, db.MigrationsDir+"/*.sql")
	require.NoError(t, err)
	assert.Len(t, files, 3)
}

func TestUpStatusDownOnSQLite(t *testing.T) {
	ctx := context.Background()
	sqldb, err := sql.Open("sqlite", "file::memory:")
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqldb.Close() })

	mig, err := NewForDB("sqlite", sqldb, zap.NewNop())
	require.NoError(t, err)

	require.NoError(t, mig.Up(ctx))
	require.NoError(t, mig.Up(ctx))

	statuses, err := mig.Status(ctx)
	require.NoError(t, err)
	require.Len(t, statuses, 3)
	for _, st := range statuses {
		assert.Equal(t, goose.StateApplied, st.State)
	}

	_, err = sqldb.ExecContext(ctx, `INSERT INTO dining_tables (id, number, capacity, section) VALUES ('t1', 'T1', 4, 'patio')`)
	require.NoError(t, err)

	require.NoError(t, mig.Down(ctx, 1, false))
	statuses, err = mig.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, goose.StatePending, statuses[2].State)

	require.NoError(t, mig.Down(ctx, 0, true))
	require.NoError(t, mig.Down(ctx, 1, false))

	_, err = sqldb.ExecContext(ctx, `SELECT 1 FROM dining_tables`)
	assert.Error(t, err)
}
