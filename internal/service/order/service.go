package order

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Additional-Code/tableside/internal/cache"
	"github.com/Additional-Code/tableside/internal/clock"
	"github.com/Additional-Code/tableside/internal/config"
	"github.com/Additional-Code/tableside/internal/database"
	"github.com/Additional-Code/tableside/internal/entity"
	"github.com/Additional-Code/tableside/internal/messaging"
	repo "github.com/Additional-Code/tableside/internal/repository/order"
	"github.com/Additional-Code/tableside/pkg/errorbank"
)

var (
	serviceTracer = otel.Tracer("github.com/Additional-Code/tableside/service/order")
	serviceMeter  = otel.Meter("github.com/Additional-Code/tableside/service/order")
)

// OrderStore persists orders.
type OrderStore interface {
	Create(ctx context.Context, order *entity.Order) error
	GetByID(ctx context.Context, id string) (*entity.Order, error)
	List(ctx context.Context, f repo.Filter) ([]*entity.Order, error)
	UpdateState(ctx context.Context, order *entity.Order) error
}

// MenuCatalog resolves menu items.
type MenuCatalog interface {
	FindByID(ctx context.Context, id string) (*entity.MenuItem, error)
	FindManyByIDs(ctx context.Context, ids []string) ([]entity.MenuItem, error)
	ListActive(ctx context.Context) ([]entity.MenuItem, error)
}

// TableRegistry resolves dining tables.
type TableRegistry interface {
	FindByID(ctx context.Context, id string) (*entity.Table, error)
}

// StaffDirectory resolves staff members recorded against orders.
type StaffDirectory interface {
	FindByID(ctx context.Context, id string) (*entity.User, error)
}

// EventLog reads an order's audit trail.
type EventLog interface {
	ListByOrder(ctx context.Context, orderID string) ([]entity.OrderEvent, error)
}

// Service owns order pricing, the order lifecycle and order queries.
type Service struct {
	orders    OrderStore
	catalog   MenuCatalog
	tables    TableRegistry
	staff     StaffDirectory
	events    EventLog
	cache     cache.Store
	cacheTTL  time.Duration
	menuTTL   time.Duration
	clock     clock.Clock
	rules     config.Orders
	logger    *zap.Logger
	publisher messaging.Client
	messaging messagingConfig
	metrics   serviceMetrics
}

// messagingConfig contains messaging specific knobs we care about.
type messagingConfig struct {
	enabled bool
	topic   string
}

type serviceMetrics struct {
	created        metric.Int64Counter
	transitions    metric.Int64Counter
	lockRejections metric.Int64Counter
}

// Params defines dependencies for constructing Service.
type Params struct {
	fx.In

	Orders    OrderStore
	Catalog   MenuCatalog
	Tables    TableRegistry
	Staff     StaffDirectory
	Events    EventLog
	Cache     cache.Store
	Clock     clock.Clock
	Config    config.Config
	Logger    *zap.Logger
	Publisher messaging.Client
}

// NewService wires a new Service instance.
func NewService(p Params) *Service {
	logger := p.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	clk := p.Clock
	if clk == nil {
		clk = clock.System{}
	}
	return &Service{
		orders:    p.Orders,
		catalog:   p.Catalog,
		tables:    p.Tables,
		staff:     p.Staff,
		events:    p.Events,
		cache:     p.Cache,
		cacheTTL:  p.Config.Cache.DefaultTTL,
		menuTTL:   p.Config.Cache.MenuTTL,
		clock:     clk,
		rules:     p.Config.Orders,
		logger:    logger,
		publisher: p.Publisher,
		messaging: messagingConfig{
			enabled: p.Config.Messaging.Enabled,
			topic:   p.Config.Messaging.Kafka.Topic,
		},
		metrics: newServiceMetrics(logger),
	}
}

func newServiceMetrics(logger *zap.Logger) serviceMetrics {
	fallback := noop.NewMeterProvider().Meter("noop")
	counter := func(name, desc string) metric.Int64Counter {
		c, err := serviceMeter.Int64Counter(name, metric.WithDescription(desc))
		if err != nil {
			logger.Warn("order metric unavailable", zap.String("metric", name), zap.Error(err))
			c, _ = fallback.Int64Counter(name)
		}
		return c
	}
	return serviceMetrics{
		created:        counter("orders.created", "Orders accepted and persisted"),
		transitions:    counter("orders.transitions", "Status and payment changes applied"),
		lockRejections: counter("orders.lock_rejections", "Mutations refused because the order is locked"),
	}
}

// storageCtx bounds a storage call so a stuck backend surfaces as unavailable.
func (s *Service) storageCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.rules.StorageTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.rules.StorageTimeout)
}

func storageFailure(message string, err error) error {
	var appErr *errorbank.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	if database.IsTransient(err) {
		return errorbank.Unavailable(message, errorbank.WithCause(err))
	}
	return errorbank.Internal(message, errorbank.WithCause(err))
}

func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func (s *Service) cacheKey(id string) string {
	return fmt.Sprintf("orders:%s", id)
}

func (s *Service) getFromCache(ctx context.Context, id string) (*entity.Order, error) {
	order, err := cache.GetJSON[entity.Order](ctx, s.cache, s.cacheKey(id))
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (s *Service) storeInCache(ctx context.Context, order *entity.Order) {
	if order == nil {
		return
	}
	if err := cache.SetJSON(ctx, s.cache, s.cacheKey(order.ID), order, s.cacheTTL); err != nil {
		s.logger.Warn("orders cache write failed", zap.String("id", order.ID), zap.Error(err))
	}
}

func (s *Service) evictFromCache(ctx context.Context, id string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, s.cacheKey(id)); err != nil {
		s.logger.Warn("orders cache evict failed", zap.String("id", id), zap.Error(err))
	}
}

// publishEvent emits an audit event for the order's current state. Failures are
// logged; the order write has already been committed.
func (s *Service) publishEvent(ctx context.Context, eventType string, order *entity.Order, actorID string) {
	if !s.messaging.enabled || s.publisher == nil {
		return
	}
	event := entity.OrderEvent{
		ID:            uuid.NewString(),
		Type:          eventType,
		OrderID:       order.ID,
		TableID:       order.TableID,
		Status:        order.Status,
		PaymentStatus: order.PaymentStatus,
		ActorID:       actorID,
		TotalAmount:   order.TotalAmount,
		Version:       order.Version,
		OccurredAt:    s.clock.Now(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Error("marshal order event", zap.String("type", eventType), zap.Error(err))
		return
	}
	env := messaging.Envelope{
		Key:   []byte(order.ID),
		Value: payload,
		Headers: map[string]string{
			messaging.HeaderEventType:   eventType,
			messaging.HeaderContentType: "application/json",
		},
	}
	if err := s.publisher.Publish(ctx, env); err != nil {
		s.logger.Error("publish order event", zap.String("type", eventType), zap.String("order_id", order.ID), zap.Error(err))
	}
}

func (s *Service) countTransition(ctx context.Context, kind, value string) {
	s.metrics.transitions.Add(ctx, 1, metric.WithAttributes(
		attribute.String("kind", kind),
		attribute.String("value", value),
	))
}
