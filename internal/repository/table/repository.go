package table

import (
	"context"
	"database/sql"
	"errors"

	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Additional-Code/tableside/internal/database"
	"github.com/Additional-Code/tableside/internal/entity"
)

var repoTracer = otel.Tracer("github.com/Additional-Code/tableside/repository/table")

// ErrNotFound is returned when a table is missing.
var ErrNotFound = errors.New("table not found")

// Repository is the read side of the table registry.
type Repository struct {
	reader *bun.DB
}

// NewRepository wires a registry backed by the read connection.
func NewRepository(conns *database.Connections) *Repository {
	return &Repository{reader: conns.Reader}
}

// FindByID fetches a table by id.
func (r *Repository) FindByID(ctx context.Context, id string) (*entity.Table, error) {
	ctx, span := repoTracer.Start(ctx, "TableRepository.FindByID", trace.WithAttributes(attribute.String("table.id", id)))
	defer span.End()

	tbl := new(entity.Table)
	err := r.reader.NewSelect().Model(tbl).Where("t.id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}
	return tbl, nil
}
