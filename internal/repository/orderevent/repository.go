package orderevent

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

var repoTracer = otel.Tracer("github.com/Additional-Code/tableside/repository/orderevent")

// Repository stores the append-only order audit trail.
type Repository struct {
	writer *bun.DB
	reader *bun.DB
}

// NewRepository wires the audit trail store.
func NewRepository(conns *database.Connections) *Repository {
	return &Repository{writer: conns.Writer, reader: conns.Reader}
}

// Append records an event. Redelivered events with a known id are ignored.
func (r *Repository) Append(ctx context.Context, event *entity.OrderEvent) error {
	ctx, span := repoTracer.Start(ctx, "OrderEventRepository.Append", trace.WithAttributes(
		attribute.String("event.id", event.ID),
		attribute.String("event.type", event.Type),
		attribute.String("order.id", event.OrderID),
	))
	defer span.End()

	_, err := r.writer.NewInsert().Model(event).
		Ignore().
		Exec(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "insert failed")
	}
	return err
}

// ListByOrder returns an order's events oldest first.
func (r *Repository) ListByOrder(ctx context.Context, orderID string) ([]entity.OrderEvent, error) {
	ctx, span := repoTracer.Start(ctx, "OrderEventRepository.ListByOrder", trace.WithAttributes(attribute.String("order.id", orderID)))
	defer span.End()

	var events []entity.OrderEvent
	err := r.reader.NewSelect().Model(&events).
		Where("oe.order_id = ?", orderID).
		Order("oe.occurred_at ASC", "oe.version ASC").
		Scan(ctx)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}
	return events, nil
}
