package order

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/Additional-Code/tableside/internal/cache"
	"github.com/Additional-Code/tableside/internal/entity"
	repo "github.com/Additional-Code/tableside/internal/repository/order"
	tablerepo "github.com/Additional-Code/tableside/internal/repository/table"
	"github.com/Additional-Code/tableside/pkg/errorbank"
)

const menuCacheKey = "menu:active"

// ListFilter narrows a staff order listing.
type ListFilter struct {
	Status  entity.Status
	TableID string
}

// Get retrieves a populated order by id, consulting cache when available.
func (s *Service) Get(ctx context.Context, id string) (*entity.Order, error) {
	ctx, span := serviceTracer.Start(ctx, "OrderService.Get", trace.WithAttributes(attribute.String("order.id", id)))
	defer span.End()

	if !validID(id) {
		return nil, errorbank.NotFound("order not found")
	}

	if order, err := s.getFromCache(ctx, id); err == nil {
		return order, nil
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.Warn("orders cache read failed", zap.String("id", id), zap.Error(err))
	}

	sctx, cancel := s.storageCtx(ctx)
	defer cancel()

	order, err := s.orders.GetByID(sctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, errorbank.NotFound("order not found")
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, storageFailure("failed to load order", err)
	}

	s.storeInCache(ctx, order)
	return order, nil
}

// List returns populated orders, newest first, optionally filtered by status and table.
func (s *Service) List(ctx context.Context, f ListFilter) ([]*entity.Order, error) {
	ctx, span := serviceTracer.Start(ctx, "OrderService.List", trace.WithAttributes(
		attribute.String("filter.status", string(f.Status)),
		attribute.String("filter.table_id", f.TableID),
	))
	defer span.End()

	if f.Status != "" && !f.Status.Valid() {
		return nil, errorbank.BadRequest("unknown status filter", errorbank.WithDetail("status", f.Status))
	}
	if f.TableID != "" && !validID(f.TableID) {
		return nil, errorbank.BadRequest("malformed table id", errorbank.WithDetail("table_id", f.TableID))
	}

	sctx, cancel := s.storageCtx(ctx)
	defer cancel()

	orders, err := s.orders.List(sctx, repo.Filter{Status: f.Status, TableID: f.TableID})
	if err != nil {
		span.RecordError(err)
		return nil, storageFailure("failed to list orders", err)
	}
	return orders, nil
}

// ListForTable returns a table's most recent orders. Unless includeCompleted is set,
// completed and paid orders drop out once they have been untouched for the history window.
func (s *Service) ListForTable(ctx context.Context, tableID string, includeCompleted bool) ([]*entity.Order, error) {
	ctx, span := serviceTracer.Start(ctx, "OrderService.ListForTable", trace.WithAttributes(
		attribute.String("table.id", tableID),
		attribute.Bool("include_completed", includeCompleted),
	))
	defer span.End()

	if !validID(tableID) {
		return nil, errorbank.NotFound("table not found")
	}

	sctx, cancel := s.storageCtx(ctx)
	defer cancel()

	if _, err := s.tables.FindByID(sctx, tableID); err != nil {
		if errors.Is(err, tablerepo.ErrNotFound) {
			return nil, errorbank.NotFound("table not found")
		}
		span.RecordError(err)
		return nil, storageFailure("failed to load table", err)
	}

	filter := repo.Filter{TableID: tableID, Limit: s.rules.HistoryLimit}
	if !includeCompleted {
		cutoff := s.clock.Now().Add(-s.rules.HistoryWindow)
		filter.VisibleSince = &cutoff
	}

	orders, err := s.orders.List(sctx, filter)
	if err != nil {
		span.RecordError(err)
		return nil, storageFailure("failed to list table orders", err)
	}
	return orders, nil
}

// Events returns the recorded audit trail of an order.
func (s *Service) Events(ctx context.Context, orderID string) ([]entity.OrderEvent, error) {
	ctx, span := serviceTracer.Start(ctx, "OrderService.Events", trace.WithAttributes(attribute.String("order.id", orderID)))
	defer span.End()

	if _, err := s.Get(ctx, orderID); err != nil {
		return nil, err
	}

	sctx, cancel := s.storageCtx(ctx)
	defer cancel()

	events, err := s.events.ListByOrder(sctx, orderID)
	if err != nil {
		span.RecordError(err)
		return nil, storageFailure("failed to load order events", err)
	}
	return events, nil
}

// Menu returns the orderable menu, cached briefly.
func (s *Service) Menu(ctx context.Context) ([]entity.MenuItem, error) {
	ctx, span := serviceTracer.Start(ctx, "OrderService.Menu")
	defer span.End()

	if items, err := cache.GetJSON[[]entity.MenuItem](ctx, s.cache, menuCacheKey); err == nil {
		return items, nil
	}

	sctx, cancel := s.storageCtx(ctx)
	defer cancel()

	items, err := s.catalog.ListActive(sctx)
	if err != nil {
		span.RecordError(err)
		return nil, storageFailure("failed to load menu", err)
	}

	if err := cache.SetJSON(ctx, s.cache, menuCacheKey, items, s.menuTTL); err != nil {
		s.logger.Warn("menu cache write failed", zap.Error(err))
	}
	return items, nil
}

// Table returns a table's public details.
func (s *Service) Table(ctx context.Context, id string) (*entity.Table, error) {
	if !validID(id) {
		return nil, errorbank.NotFound("table not found")
	}

	sctx, cancel := s.storageCtx(ctx)
	defer cancel()

	table, err := s.tables.FindByID(sctx, id)
	if errors.Is(err, tablerepo.ErrNotFound) {
		return nil, errorbank.NotFound("table not found")
	}
	if err != nil {
		return nil, storageFailure("failed to load table", err)
	}
	return table, nil
}
