package migration

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"
	"go.uber.org/zap"

	"github.com/Additional-Code/tableside/db"
	"github.com/Additional-Code/tableside/internal/config"
	"github.com/Additional-Code/tableside/internal/database"
)

// Migrator applies the embedded schema migrations.
type Migrator struct {
	provider *goose.Provider
	logger   *zap.Logger
}

// New builds a migrator on the writer pool.
func New(cfg config.Config, conns *database.Connections, logger *zap.Logger) (*Migrator, error) {
	return NewForDB(cfg.Database.Driver, conns.Writer.DB, logger)
}

// NewForDB builds a migrator for an already opened database.
func NewForDB(driver string, sqldb *sql.DB, logger *zap.Logger) (*Migrator, error) {
	dialect, err := gooseDialect(driver)
	if err != nil {
		return nil, err
	}
	migrations, err := fs.Sub(db.Migrations, db.MigrationsDir)
	if err != nil {
		return nil, err
	}
	provider, err := goose.NewProvider(dialect, sqldb, migrations)
	if err != nil {
		return nil, fmt.Errorf("goose provider: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Migrator{provider: provider, logger: logger}, nil
}

// Up applies all pending migrations.
func (m *Migrator) Up(ctx context.Context) error {
	results, err := m.provider.Up(ctx)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		m.logger.Info("schema already up to date")
		return nil
	}
	m.logResults("applied", results)

	version, err := m.provider.GetDBVersion(ctx)
	if err != nil {
		return err
	}
	m.logger.Info("migrations applied", zap.Int("count", len(results)), zap.Int64("version", version))
	return nil
}

// Down rolls back steps migrations (at least one), or every migration when all is set.
func (m *Migrator) Down(ctx context.Context, steps int, all bool) error {
	if all {
		results, err := m.provider.DownTo(ctx, 0)
		if err != nil {
			return err
		}
		m.logResults("rolled back", results)
		m.logger.Info("migrations rolled back", zap.String("mode", "all"), zap.Int("count", len(results)))
		return nil
	}

	steps = max(steps, 1)
	rolled := 0
	for ; rolled < steps; rolled++ {
		result, err := m.provider.Down(ctx)
		if errors.Is(err, goose.ErrNoNextVersion) {
			break
		}
		if err != nil {
			return err
		}
		m.logResults("rolled back", []*goose.MigrationResult{result})
	}
	if rolled == 0 {
		m.logger.Info("no migrations to roll back")
		return nil
	}
	m.logger.Info("migrations rolled back", zap.Int("steps", rolled))
	return nil
}

// Status reports every known migration and whether it is applied.
func (m *Migrator) Status(ctx context.Context) ([]*goose.MigrationStatus, error) {
	statuses, err := m.provider.Status(ctx)
	if err != nil {
		return nil, err
	}
	for _, st := range statuses {
		fields := []zap.Field{
			zap.Int64("version", st.Source.Version),
			zap.String("state", string(st.State)),
		}
		if !st.AppliedAt.IsZero() {
			fields = append(fields, zap.Time("applied_at", st.AppliedAt))
		}
		m.logger.Info("migration", fields...)
	}
	return statuses, nil
}

func (m *Migrator) logResults(action string, results []*goose.MigrationResult) {
	for _, r := range results {
		if r == nil || r.Source == nil {
			continue
		}
		m.logger.Debug("migration "+action,
			zap.Int64("version", r.Source.Version),
			zap.Duration("took", r.Duration),
		)
	}
}

func gooseDialect(driver string) (goose.Dialect, error) {
	switch driver {
	case "postgres", "pgx":
		return goose.DialectPostgres, nil
	case "mysql":
		return goose.DialectMySQL, nil
	case "sqlite":
		return goose.DialectSQLite3, nil
	default:
		return "", fmt.Errorf("unsupported goose dialect for driver %s", driver)
	}
}
