package menu

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

var repoTracer = otel.Tracer("github.com/Additional-Code/tableside/repository/menu")

// ErrNotFound is returned when a menu item is missing.
var ErrNotFound = errors.New("menu item not found")

// Repository is the read side of the menu catalog.
type Repository struct {
	reader *bun.DB
}

// NewRepository wires a catalog backed by the read connection.
func NewRepository(conns *database.Connections) *Repository {
	return &Repository{reader: conns.Reader}
}

// FindByID fetches a single menu item.
func (r *Repository) FindByID(ctx context.Context, id string) (*entity.MenuItem, error) {
	ctx, span := repoTracer.Start(ctx, "MenuRepository.FindByID", trace.WithAttributes(attribute.String("menu_item.id", id)))
	defer span.End()

	item := new(entity.MenuItem)
	err := r.reader.NewSelect().Model(item).Where("mi.id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}
	return item, nil
}

// FindManyByIDs fetches every menu item whose id is in ids in a single query.
// Missing ids are simply absent from the result.
func (r *Repository) FindManyByIDs(ctx context.Context, ids []string) ([]entity.MenuItem, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	ctx, span := repoTracer.Start(ctx, "MenuRepository.FindManyByIDs", trace.WithAttributes(attribute.Int("menu_item.count", len(ids))))
	defer span.End()

	var items []entity.MenuItem
	err := r.reader.NewSelect().Model(&items).Where("mi.id IN (?)", bun.In(ids)).Scan(ctx)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}
	return items, nil
}

// ListActive returns the orderable menu sorted by category and name.
func (r *Repository) ListActive(ctx context.Context) ([]entity.MenuItem, error) {
	ctx, span := repoTracer.Start(ctx, "MenuRepository.ListActive")
	defer span.End()

	var items []entity.MenuItem
	err := r.reader.NewSelect().Model(&items).
		Where("mi.is_active = ?", true).
		Order("mi.category ASC", "mi.name ASC").
		Scan(ctx)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}
	return items, nil
}
