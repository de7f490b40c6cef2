// Package dbtest opens migrated in-memory databases for repository tests.
package dbtest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Additional-Code/tableside/internal/config"
	"github.com/Additional-Code/tableside/internal/database"
	"github.com/Additional-Code/tableside/internal/migration"
)

// Open returns writer and reader connections to a fresh SQLite database with every
// migration applied. The pool holds a single connection so the in-memory schema survives.
func Open(t testing.TB) *database.Connections {
	t.Helper()

	conns, err := database.Open(config.Database{
		Driver:       "sqlite",
		WriterDSN:    "file::memory:",
		MaxOpenConns: 1,
		MaxIdleConns: 1,
	}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = conns.Close() })

	mig, err := migration.NewForDB("sqlite", conns.Writer.DB, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, mig.Up(context.Background()))
	return conns
}
