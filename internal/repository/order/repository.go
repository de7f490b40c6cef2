package order

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Additional-Code/tableside/internal/database"
	"github.com/Additional-Code/tableside/internal/entity"
)

var repoTracer = otel.Tracer("github.com/Additional-Code/tableside/repository/order")

var (
	// ErrNotFound is returned when an order is missing.
	ErrNotFound = errors.New("order not found")
	// ErrVersionConflict is returned when an update targets a stale version.
	ErrVersionConflict = errors.New("order version conflict")
)

// Filter narrows an order listing. Zero values disable a criterion.
type Filter struct {
	Status  entity.Status
	TableID string
	// VisibleSince hides completed and paid orders last updated before it.
	VisibleSince *time.Time
	Limit        int
}

// Repository encapsulates read/write access for orders.
type Repository struct {
	writer *bun.DB
	reader *bun.DB
}

// NewRepository wires a repository backed by configured database connections.
func NewRepository(conns *database.Connections) *Repository {
	return &Repository{
		writer: conns.Writer,
		reader: conns.Reader,
	}
}

// Create persists a new order and its items in one transaction.
func (r *Repository) Create(ctx context.Context, order *entity.Order) error {
	if order == nil {
		return errors.New("nil order")
	}
	ctx, span := repoTracer.Start(ctx, "OrderRepository.Create", trace.WithAttributes(
		attribute.String("order.id", order.ID),
		attribute.Int("order.items", len(order.Items)),
	))
	defer span.End()

	err := r.writer.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(order).Exec(ctx); err != nil {
			return err
		}
		if len(order.Items) == 0 {
			return nil
		}
		_, err := tx.NewInsert().Model(&order.Items).Exec(ctx)
		return err
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "insert failed")
	}
	return err
}

// GetByID fetches an order with its table, items, menu items and server populated.
// The writer connection is used so that lifecycle checks never read a lagging replica.
func (r *Repository) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	ctx, span := repoTracer.Start(ctx, "OrderRepository.GetByID", trace.WithAttributes(attribute.String("order.id", id)))
	defer span.End()

	order := new(entity.Order)
	err := populate(r.writer.NewSelect().Model(order)).
		Where("o.id = ?", id).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		span.SetStatus(codes.Error, "not found")
		return nil, ErrNotFound
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}
	return order, nil
}

// List returns populated orders matching the filter, newest first.
func (r *Repository) List(ctx context.Context, f Filter) ([]*entity.Order, error) {
	ctx, span := repoTracer.Start(ctx, "OrderRepository.List", trace.WithAttributes(
		attribute.String("filter.status", string(f.Status)),
		attribute.String("filter.table_id", f.TableID),
		attribute.Int("filter.limit", f.Limit),
	))
	defer span.End()

	var orders []*entity.Order
	q := populate(r.reader.NewSelect().Model(&orders))
	if f.Status != "" {
		q = q.Where("o.status = ?", f.Status)
	}
	if f.TableID != "" {
		q = q.Where("o.table_id = ?", f.TableID)
	}
	if f.VisibleSince != nil {
		cutoff := *f.VisibleSince
		q = q.WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("o.status <> ?", entity.StatusCompleted).
				WhereOr("o.payment_status <> ?", entity.PaymentPaid).
				WhereOr("o.updated_at >= ?", cutoff)
		})
	}
	q = q.Order("o.created_at DESC", "o.id DESC")
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}

	if err := q.Scan(ctx); err != nil && !errors.Is(err, sql.ErrNoRows) {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}
	return orders, nil
}

// UpdateState writes the order's status, payment status and attribution if the stored
// version still equals order.Version. On success order.Version is incremented.
func (r *Repository) UpdateState(ctx context.Context, order *entity.Order) error {
	ctx, span := repoTracer.Start(ctx, "OrderRepository.UpdateState", trace.WithAttributes(
		attribute.String("order.id", order.ID),
		attribute.Int64("order.version", order.Version),
	))
	defer span.End()

	expected := order.Version
	order.Version = expected + 1

	res, err := r.writer.NewUpdate().
		Model(order).
		Column("status", "payment_status", "served_by_id", "updated_at", "version").
		WherePK().
		Where("version = ?", expected).
		Exec(ctx)
	if err != nil {
		order.Version = expected
		span.RecordError(err)
		span.SetStatus(codes.Error, "update failed")
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		order.Version = expected
		return err
	}
	if affected == 0 {
		order.Version = expected
		span.SetStatus(codes.Error, "version conflict")
		return ErrVersionConflict
	}
	return nil
}

func populate(q *bun.SelectQuery) *bun.SelectQuery {
	return q.
		Relation("Table").
		Relation("ServedBy").
		Relation("Items", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Order("position ASC")
		}).
		Relation("Items.MenuItem")
}
