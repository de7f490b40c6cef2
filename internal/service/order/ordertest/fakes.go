// Package ordertest provides in-memory collaborators for exercising the order service.
package ordertest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Additional-Code/tableside/internal/cache"
	"github.com/Additional-Code/tableside/internal/entity"
	"github.com/Additional-Code/tableside/internal/messaging"
	menurepo "github.com/Additional-Code/tableside/internal/repository/menu"
	repo "github.com/Additional-Code/tableside/internal/repository/order"
	tablerepo "github.com/Additional-Code/tableside/internal/repository/table"
	userrepo "github.com/Additional-Code/tableside/internal/repository/user"
)

// Catalog is an in-memory menu catalog.
type Catalog struct {
	mu    sync.Mutex
	items map[string]entity.MenuItem
	// Err, when set, is returned by every lookup.
	Err error
	// BatchCalls counts FindManyByIDs invocations.
	BatchCalls int
}

func NewCatalog() *Catalog {
	return &Catalog{items: make(map[string]entity.MenuItem)}
}

// Add registers a menu item priced from a decimal string and returns it.
func (c *Catalog) Add(name, price string) entity.MenuItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	item := entity.MenuItem{
		ID:       uuid.NewString(),
		Name:     name,
		Price:    decimal.RequireFromString(price),
		IsActive: true,
	}
	c.items[item.ID] = item
	return item
}

func (c *Catalog) FindByID(_ context.Context, id string) (*entity.MenuItem, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Err != nil {
		return nil, c.Err
	}
	item, ok := c.items[id]
	if !ok {
		return nil, menurepo.ErrNotFound
	}
	return &item, nil
}

func (c *Catalog) FindManyByIDs(_ context.Context, ids []string) ([]entity.MenuItem, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.BatchCalls++
	if c.Err != nil {
		return nil, c.Err
	}
	var out []entity.MenuItem
	for _, id := range ids {
		if item, ok := c.items[id]; ok {
			out = append(out, item)
		}
	}
	return out, nil
}

func (c *Catalog) ListActive(_ context.Context) ([]entity.MenuItem, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Err != nil {
		return nil, c.Err
	}
	var out []entity.MenuItem
	for _, item := range c.items {
		if item.IsActive {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Tables is an in-memory table registry.
type Tables struct {
	mu     sync.Mutex
	tables map[string]entity.Table
}

func NewTables() *Tables {
	return &Tables{tables: make(map[string]entity.Table)}
}

// Add registers an active table with the given number.
func (t *Tables) Add(number string) entity.Table {
	t.mu.Lock()
	defer t.mu.Unlock()
	tbl := entity.Table{ID: uuid.NewString(), Number: number, Capacity: 4, Section: "Main", IsActive: true}
	t.tables[tbl.ID] = tbl
	return tbl
}

func (t *Tables) FindByID(_ context.Context, id string) (*entity.Table, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	tbl, ok := t.tables[id]
	if !ok {
		return nil, tablerepo.ErrNotFound
	}
	return &tbl, nil
}

// Store is an in-memory order store with the same filtering, ordering and
// version semantics as the relational repository.
type Store struct {
	mu      sync.Mutex
	orders  map[string]*entity.Order
	catalog *Catalog
	tables  *Tables
	users   map[string]*entity.User

	// Err, when set, is returned by every call.
	Err error
	// Creates counts successful Create calls.
	Creates int
}

func NewStore(catalog *Catalog, tables *Tables) *Store {
	return &Store{
		orders:  make(map[string]*entity.Order),
		catalog: catalog,
		tables:  tables,
		users:   make(map[string]*entity.User),
	}
}

// AddUser registers a staff member so that served-by references populate.
func (s *Store) AddUser(name string) entity.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := entity.User{ID: uuid.NewString(), Name: name, Email: name + "@example.com", Role: entity.RoleStaff}
	s.users[u.ID] = &u
	return u
}

// FindUser looks up a staff member registered with AddUser.
func (s *Store) FindUser(_ context.Context, id string) (*entity.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, userrepo.ErrNotFound
	}
	user := *u
	return &user, nil
}

// Staff exposes the store's users as a staff directory.
func (s *Store) Staff() Staff {
	return Staff{store: s}
}

// Staff resolves users registered on a Store.
type Staff struct {
	store *Store
}

func (d Staff) FindByID(ctx context.Context, id string) (*entity.User, error) {
	return d.store.FindUser(ctx, id)
}

// Put stores an order verbatim, bypassing version checks.
func (s *Store) Put(order *entity.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders[order.ID] = clone(order)
}

// Raw returns the stored order without population.
func (s *Store) Raw(id string) *entity.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	if o, ok := s.orders[id]; ok {
		return clone(o)
	}
	return nil
}

// Len reports how many orders are stored.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.orders)
}

func (s *Store) Create(_ context.Context, order *entity.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.orders[order.ID] = clone(order)
	s.Creates++
	return nil
}

func (s *Store) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	o, ok := s.orders[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return s.populate(ctx, clone(o)), nil
}

func (s *Store) List(ctx context.Context, f repo.Filter) ([]*entity.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	var out []*entity.Order
	for _, o := range s.orders {
		if f.Status != "" && o.Status != f.Status {
			continue
		}
		if f.TableID != "" && o.TableID != f.TableID {
			continue
		}
		if f.VisibleSince != nil && !o.VisibleInHistory(*f.VisibleSince) {
			continue
		}
		out = append(out, s.populate(ctx, clone(o)))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (s *Store) UpdateState(_ context.Context, order *entity.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	stored, ok := s.orders[order.ID]
	if !ok || stored.Version != order.Version {
		return repo.ErrVersionConflict
	}
	order.Version++
	stored.Status = order.Status
	stored.PaymentStatus = order.PaymentStatus
	stored.ServedByID = copyString(order.ServedByID)
	stored.UpdatedAt = order.UpdatedAt
	stored.Version = order.Version
	return nil
}

// Bump simulates a concurrent writer by advancing the stored version.
func (s *Store) Bump(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if o, ok := s.orders[id]; ok {
		o.Version++
	}
}

func (s *Store) populate(ctx context.Context, o *entity.Order) *entity.Order {
	if s.tables != nil {
		if tbl, err := s.tables.FindByID(ctx, o.TableID); err == nil {
			o.Table = tbl
		}
	}
	if o.ServedByID != nil {
		if u, ok := s.users[*o.ServedByID]; ok {
			user := *u
			o.ServedBy = &user
		}
	}
	if s.catalog != nil {
		for _, item := range o.Items {
			if mi, err := s.catalog.FindByID(ctx, item.MenuItemID); err == nil {
				item.MenuItem = mi
			}
		}
	}
	return o
}

func clone(o *entity.Order) *entity.Order {
	c := *o
	c.Table = nil
	c.ServedBy = nil
	c.ServedByID = copyString(o.ServedByID)
	c.Items = make([]*entity.OrderItem, 0, len(o.Items))
	for _, item := range o.Items {
		i := *item
		i.MenuItem = nil
		c.Items = append(c.Items, &i)
	}
	return &c
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

// EventLog is an in-memory audit trail.
type EventLog struct {
	mu     sync.Mutex
	events []entity.OrderEvent
	Err    error
}

func (l *EventLog) Append(_ context.Context, event *entity.OrderEvent) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.Err != nil {
		return l.Err
	}
	for _, e := range l.events {
		if e.ID == event.ID {
			return nil
		}
	}
	l.events = append(l.events, *event)
	return nil
}

func (l *EventLog) ListByOrder(_ context.Context, orderID string) ([]entity.OrderEvent, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.Err != nil {
		return nil, l.Err
	}
	var out []entity.OrderEvent
	for _, e := range l.events {
		if e.OrderID == orderID {
			out = append(out, e)
		}
	}
	return out, nil
}

// Len reports how many events were recorded.
func (l *EventLog) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.events)
}

// Publisher records published messages.
type Publisher struct {
	mu       sync.Mutex
	Messages []messaging.Message
	Err      error
}

var _ messaging.Client = (*Publisher)(nil)

func (p *Publisher) Publish(_ context.Context, env messaging.Envelope) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return p.Err
	}
	p.Messages = append(p.Messages, messaging.Message{
		Topic:   p.Topic(),
		Key:     env.Key,
		Value:   env.Value,
		Headers: env.Headers,
		Time:    time.Now(),
	})
	return nil
}

func (p *Publisher) Consume(ctx context.Context, _ messaging.Handler) error {
	<-ctx.Done()
	return ctx.Err()
}

func (p *Publisher) Topic() string { return "orders.events" }

// Published returns a copy of the recorded messages.
func (p *Publisher) Published() []messaging.Message {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]messaging.Message(nil), p.Messages...)
}

// Cache is an in-memory cache.Store.
type Cache struct {
	mu      sync.Mutex
	entries map[string][]byte
}

var _ cache.Store = (*Cache)(nil)

func NewCache() *Cache {
	return &Cache{entries: make(map[string][]byte)}
}

func (c *Cache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.entries[key]
	if !ok {
		return nil, cache.ErrCacheMiss
	}
	return append([]byte(nil), v...), nil
}

func (c *Cache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = append([]byte(nil), value...)
	return nil
}

func (c *Cache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	return nil
}

// Has reports whether key is cached.
func (c *Cache) Has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[key]
	return ok
}
