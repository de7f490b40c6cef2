package order

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/Additional-Code/tableside/internal/entity"
	repo "github.com/Additional-Code/tableside/internal/repository/order"
	tablerepo "github.com/Additional-Code/tableside/internal/repository/table"
	userrepo "github.com/Additional-Code/tableside/internal/repository/user"
	"github.com/Additional-Code/tableside/pkg/errorbank"
)

// CreateInput describes a new order.
type CreateInput struct {
	TableID       string
	CustomerName  string
	CustomerEmail string
	Notes         string
	Items         []LineInput
}

// Create places an order with catalog-validated prices.
func (s *Service) Create(ctx context.Context, in CreateInput) (*entity.Order, error) {
	return s.create(ctx, in, true)
}

// CreateTrusted places an order using the submitted prices as-is. It is meant for
// back-office callers whose input is already trusted.
func (s *Service) CreateTrusted(ctx context.Context, in CreateInput) (*entity.Order, error) {
	return s.create(ctx, in, false)
}

func (s *Service) create(ctx context.Context, in CreateInput, validate bool) (*entity.Order, error) {
	ctx, span := serviceTracer.Start(ctx, "OrderService.Create", trace.WithAttributes(
		attribute.String("table.id", in.TableID),
		attribute.Int("order.lines", len(in.Items)),
		attribute.Bool("pricing.validate", validate),
	))
	defer span.End()

	if in.TableID == "" || len(in.Items) == 0 {
		return nil, errorbank.BadRequest("table id and at least one item are required")
	}
	if !validID(in.TableID) {
		return nil, errorbank.BadRequest("malformed table id", errorbank.WithDetail("table_id", in.TableID))
	}

	sctx, cancel := s.storageCtx(ctx)
	defer cancel()

	table, err := s.tables.FindByID(sctx, in.TableID)
	if errors.Is(err, tablerepo.ErrNotFound) {
		return nil, errorbank.NotFound("table not found", errorbank.WithDetail("table_id", in.TableID))
	}
	if err != nil {
		span.RecordError(err)
		return nil, storageFailure("failed to load table", err)
	}

	priced, err := PriceOrder(sctx, s.catalog, in.Items, validate)
	if err != nil {
		span.SetStatus(codes.Error, "pricing failed")
		return nil, err
	}

	name := strings.TrimSpace(in.CustomerName)
	if name == "" {
		name = entity.DefaultCustomerName
	}
	now := s.clock.Now()
	order := &entity.Order{
		ID:            uuid.NewString(),
		TableID:       table.ID,
		Customer:      entity.Customer{Name: name, Email: strings.TrimSpace(in.CustomerEmail)},
		Items:         priced.Items,
		TotalAmount:   priced.TotalAmount,
		Notes:         in.Notes,
		Status:        entity.StatusPending,
		PaymentStatus: entity.PaymentUnpaid,
		Version:       1,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	for _, item := range order.Items {
		item.ID = uuid.NewString()
		item.OrderID = order.ID
	}

	if err := s.orders.Create(sctx, order); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, storageFailure("failed to create order", err)
	}
	order.Table = table

	s.metrics.created.Add(ctx, 1, metric.WithAttributes(attribute.Bool("pricing.validate", validate)))
	if validate {
		s.storeInCache(ctx, order)
	} else {
		// Trusted lines carry no menu references; the first Get loads a populated copy.
		s.evictFromCache(ctx, order.ID)
	}
	s.publishEvent(ctx, entity.EventOrderCreated, order, "")

	s.logger.Info("order created",
		zap.String("order_id", order.ID),
		zap.String("table_id", order.TableID),
		zap.String("total", order.TotalAmount.StringFixed(2)),
	)
	return order, nil
}

// SetStatus moves an order to a new status on behalf of a staff member.
// Reaching served or completed records the actor as the order's server.
func (s *Service) SetStatus(ctx context.Context, orderID string, status entity.Status, actorID string) (*entity.Order, error) {
	ctx, span := serviceTracer.Start(ctx, "OrderService.SetStatus", trace.WithAttributes(
		attribute.String("order.id", orderID),
		attribute.String("order.status", string(status)),
	))
	defer span.End()

	return s.mutate(ctx, orderID, actorID, func(order *entity.Order) error {
		if !status.Valid() {
			return errorbank.BadRequest("valid status is required",
				errorbank.WithDetail("allowed", entity.Statuses()))
		}
		if s.rules.StrictTransitions && !entity.CanTransition(order.Status, status) {
			return errorbank.Unprocessable("status transition not allowed",
				errorbank.WithDetail("from", order.Status),
				errorbank.WithDetail("to", status))
		}
		order.Status = status
		if status.Attributes() {
			actor := actorID
			order.ServedByID = &actor
		}
		return nil
	}, entity.EventOrderStatusChanged, "status", string(status))
}

// SetPaymentStatus records whether an order has been paid.
func (s *Service) SetPaymentStatus(ctx context.Context, orderID string, status entity.PaymentStatus, actorID string) (*entity.Order, error) {
	ctx, span := serviceTracer.Start(ctx, "OrderService.SetPaymentStatus", trace.WithAttributes(
		attribute.String("order.id", orderID),
		attribute.String("order.payment_status", string(status)),
	))
	defer span.End()

	return s.mutate(ctx, orderID, actorID, func(order *entity.Order) error {
		if !status.Valid() {
			return errorbank.BadRequest("valid payment status is required",
				errorbank.WithDetail("allowed", []entity.PaymentStatus{entity.PaymentUnpaid, entity.PaymentPaid}))
		}
		order.PaymentStatus = status
		return nil
	}, entity.EventOrderPaymentRecorded, "payment", string(status))
}

// mutate loads the stored order, refuses locked orders, applies change and writes
// the result with a version check. Nothing is written if any step fails, and a
// change that leaves the order's state as stored writes nothing either, so it
// cannot push back the lock deadline.
func (s *Service) mutate(ctx context.Context, orderID, actorID string, change func(*entity.Order) error, eventType, kind, value string) (*entity.Order, error) {
	if !validID(orderID) {
		return nil, errorbank.NotFound("order not found")
	}
	if strings.TrimSpace(actorID) == "" {
		return nil, errorbank.BadRequest("acting user is required")
	}

	sctx, cancel := s.storageCtx(ctx)
	defer cancel()

	order, err := s.orders.GetByID(sctx, orderID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, errorbank.NotFound("order not found")
	}
	if err != nil {
		return nil, storageFailure("failed to load order", err)
	}

	now := s.clock.Now()
	if order.LockedAt(now, s.rules.LockWindow) {
		s.metrics.lockRejections.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", kind)))
		return nil, errorbank.OrderLocked("order is locked; no further changes allowed",
			errorbank.WithDetail("order_id", order.ID),
			errorbank.WithDetail("locked_since", order.UpdatedAt.Add(s.rules.LockWindow)))
	}

	before := stateOf(order)
	if err := change(order); err != nil {
		return nil, err
	}
	if stateOf(order) == before {
		s.logger.Debug("order unchanged",
			zap.String("order_id", order.ID),
			zap.String(kind, value),
			zap.String("actor_id", actorID),
		)
		return order, nil
	}
	if order.ServedByID != nil && before.servedBy != *order.ServedByID {
		if err := s.checkStaff(sctx, *order.ServedByID); err != nil {
			return nil, err
		}
	}
	order.UpdatedAt = now

	if err := s.orders.UpdateState(sctx, order); err != nil {
		if errors.Is(err, repo.ErrVersionConflict) {
			return nil, errorbank.Conflict("order was modified concurrently; reload and retry",
				errorbank.WithDetail("order_id", order.ID))
		}
		return nil, storageFailure("failed to update order", err)
	}

	s.countTransition(ctx, kind, value)
	s.publishEvent(ctx, eventType, order, actorID)

	updated, err := s.orders.GetByID(sctx, order.ID)
	if err != nil {
		s.logger.Warn("reload after update failed", zap.String("order_id", order.ID), zap.Error(err))
		s.evictFromCache(ctx, order.ID)
		// The write is committed; a retry of the same change is a no-op that returns the stored order.
		return nil, storageFailure("order updated but could not be reloaded", err)
	}
	s.storeInCache(ctx, updated)

	s.logger.Info("order updated",
		zap.String("order_id", updated.ID),
		zap.String(kind, value),
		zap.String("actor_id", actorID),
		zap.Int64("version", updated.Version),
	)
	return updated, nil
}

// orderState is the part of an order a mutation can change.
type orderState struct {
	status   entity.Status
	payment  entity.PaymentStatus
	servedBy string
}

func stateOf(order *entity.Order) orderState {
	st := orderState{status: order.Status, payment: order.PaymentStatus}
	if order.ServedByID != nil {
		st.servedBy = *order.ServedByID
	}
	return st
}

// checkStaff confirms that a user about to be recorded as the order's server exists.
func (s *Service) checkStaff(ctx context.Context, userID string) error {
	if s.staff == nil {
		return nil
	}
	if !validID(userID) {
		return errorbank.Unauthorized("unknown staff member", errorbank.WithDetail("actor_id", userID))
	}
	_, err := s.staff.FindByID(ctx, userID)
	if errors.Is(err, userrepo.ErrNotFound) {
		return errorbank.Unauthorized("unknown staff member", errorbank.WithDetail("actor_id", userID))
	}
	if err != nil {
		return storageFailure("failed to load staff member", err)
	}
	return nil
}
