package order_test

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/Additional-Code/tableside/internal/clock"
	"github.com/Additional-Code/tableside/internal/config"
	"github.com/Additional-Code/tableside/internal/entity"
	ordersvc "github.com/Additional-Code/tableside/internal/service/order"
	"github.com/Additional-Code/tableside/internal/service/order/ordertest"
)

var baseTime = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

type harness struct {
	svc       *ordersvc.Service
	store     *ordertest.Store
	catalog   *ordertest.Catalog
	tables    *ordertest.Tables
	events    *ordertest.EventLog
	publisher *ordertest.Publisher
	cache     *ordertest.Cache
	now       time.Time
}

func (h *harness) advance(d time.Duration) { h.now = h.now.Add(d) }

// staff registers a staff member and returns its id.
func (h *harness) staff(name string) string { return h.store.AddUser(name).ID }

func newHarness(t *testing.T, mutators ...func(*config.Config)) *harness {
	t.Helper()

	cfg := config.Config{
		Cache: config.Cache{DefaultTTL: time.Minute, MenuTTL: time.Minute},
		Orders: config.Orders{
			LockWindow:        5 * time.Minute,
			HistoryWindow:     24 * time.Hour,
			HistoryLimit:      20,
			StrictTransitions: true,
			StorageTimeout:    time.Second,
		},
		Messaging: config.Messaging{Enabled: true, Kafka: config.Kafka{Topic: "orders.events"}},
	}
	for _, m := range mutators {
		m(&cfg)
	}

	h := &harness{
		catalog:   ordertest.NewCatalog(),
		tables:    ordertest.NewTables(),
		events:    &ordertest.EventLog{},
		publisher: &ordertest.Publisher{},
		cache:     ordertest.NewCache(),
		now:       baseTime,
	}
	h.store = ordertest.NewStore(h.catalog, h.tables)
	h.svc = ordersvc.NewService(ordersvc.Params{
		Orders:    h.store,
		Catalog:   h.catalog,
		Tables:    h.tables,
		Staff:     h.store.Staff(),
		Events:    h.events,
		Cache:     h.cache,
		Clock:     clock.Func(func() time.Time { return h.now }),
		Config:    cfg,
		Publisher: h.publisher,
	})
	return h
}

// seedOrder stores an order directly with the given state and timestamps.
func (h *harness) seedOrder(tableID string, status entity.Status, payment entity.PaymentStatus, createdAt, updatedAt time.Time) *entity.Order {
	o := &entity.Order{
		ID:            uuid.NewString(),
		TableID:       tableID,
		Customer:      entity.Customer{Name: entity.DefaultCustomerName},
		Status:        status,
		PaymentStatus: payment,
		Version:       1,
		CreatedAt:     createdAt,
		UpdatedAt:     updatedAt,
	}
	h.store.Put(o)
	return o
}
