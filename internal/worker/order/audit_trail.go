package order

import (
	"context"
	"encoding/json"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Additional-Code/tableside/internal/config"
	"github.com/Additional-Code/tableside/internal/entity"
	"github.com/Additional-Code/tableside/internal/messaging"
	eventrepo "github.com/Additional-Code/tableside/internal/repository/orderevent"
	"github.com/Additional-Code/tableside/internal/worker"
)

var workerTracer = otel.Tracer("github.com/Additional-Code/tableside/worker/order")

// Module registers order-related worker handlers.
var Module = fx.Module("worker_order",
	fx.Provide(
		func(r *eventrepo.Repository) AuditWriter { return r },
		fx.Annotate(
			NewAuditTrailHandler,
			fx.ResultTags(`group:"worker.handlers"`),
		),
	),
)

// AuditWriter appends order events to durable storage.
type AuditWriter interface {
	Append(ctx context.Context, event *entity.OrderEvent) error
}

// NewAuditTrailHandler records every published order event in the audit trail.
// Malformed payloads are logged and skipped; storage failures are returned so the
// message is redelivered.
func NewAuditTrailHandler(writer AuditWriter, logger *zap.Logger, cfg config.Config) worker.HandlerRegistration {
	handler := func(ctx context.Context, msg messaging.Message) error {
		ctx, span := workerTracer.Start(ctx, "worker.orders.audit", trace.WithAttributes(
			attribute.String("messaging.topic", msg.Topic),
			attribute.Int64("messaging.offset", msg.Offset),
		))
		defer span.End()

		var event entity.OrderEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			logger.Error("dropping undecodable order event", zap.Int64("offset", msg.Offset), zap.Error(err))
			span.RecordError(err)
			span.SetStatus(codes.Error, "decode error")
			return nil
		}
		if err := validate(event); err != nil {
			logger.Error("dropping invalid order event", zap.Int64("offset", msg.Offset), zap.Error(err))
			span.SetStatus(codes.Error, "invalid event")
			return nil
		}

		span.SetAttributes(
			attribute.String("event.id", event.ID),
			attribute.String("event.type", event.Type),
			attribute.String("order.id", event.OrderID),
		)

		if err := writer.Append(ctx, &event); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "append failed")
			return err
		}

		logger.Info("order event recorded",
			zap.String("event_id", event.ID),
			zap.String("type", event.Type),
			zap.String("order_id", event.OrderID),
			zap.Int64("version", event.Version),
		)
		return nil
	}

	return worker.HandlerRegistration{
		Topic:   cfg.Messaging.Kafka.Topic,
		Handler: handler,
	}
}

func validate(event entity.OrderEvent) error {
	switch {
	case event.ID == "":
		return errors.New("missing event id")
	case event.OrderID == "":
		return errors.New("missing order id")
	case event.OccurredAt.IsZero():
		return errors.New("missing occurrence time")
	}
	switch event.Type {
	case entity.EventOrderCreated, entity.EventOrderStatusChanged, entity.EventOrderPaymentRecorded:
		return nil
	default:
		return errors.New("unknown event type " + event.Type)
	}
}
