package seeder

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
	"go.uber.org/zap"

	"github.com/Additional-Code/tableside/internal/database"
	"github.com/Additional-Code/tableside/internal/entity"
	ordersvc "github.com/Additional-Code/tableside/internal/service/order"
)

// seedNamespace derives stable ids so repeated runs touch the same rows.
var seedNamespace = uuid.MustParse("6f1c3a52-8d0e-4b7a-9c55-1f2e3d4c5b6a")

func seedID(kind, key string) string {
	return uuid.NewSHA1(seedNamespace, []byte(kind+":"+key)).String()
}

// OrderCreator places orders through the trusted pricing path.
type OrderCreator interface {
	CreateTrusted(ctx context.Context, in ordersvc.CreateInput) (*entity.Order, error)
}

// Seeder performs database seeding for local/dev setups.
type Seeder struct {
	db     *bun.DB
	orders OrderCreator
	logger *zap.Logger
}

// New constructs a Seeder backed by the primary database connection.
func New(conns *database.Connections, orders *ordersvc.Service, logger *zap.Logger) *Seeder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Seeder{db: conns.Writer, orders: orders, logger: logger}
}

// Staff returns the users created by All.
func Staff() []entity.User {
	return []entity.User{
		{ID: seedID("user", "owner"), Name: "Olivia Owner", Email: "owner@tableside.local", Role: entity.RoleOwner},
		{ID: seedID("user", "manager"), Name: "Marco Manager", Email: "manager@tableside.local", Role: entity.RoleManager},
		{ID: seedID("user", "staff"), Name: "Sam Server", Email: "staff@tableside.local", Role: entity.RoleStaff},
	}
}

// Tables returns the dining tables created by All.
func Tables() []entity.Table {
	out := make([]entity.Table, 0, 6)
	for i := 1; i <= 6; i++ {
		number := fmt.Sprintf("T%d", i)
		section := "Main"
		if i > 4 {
			section = "Patio"
		}
		out = append(out, entity.Table{ID: seedID("table", number), Number: number, Capacity: 2 + i%3*2, Section: section, IsActive: true})
	}
	return out
}

// Menu returns the menu items created by All.
func Menu() []entity.MenuItem {
	item := func(name, category, price, description string) entity.MenuItem {
		return entity.MenuItem{
			ID:          seedID("menu", name),
			Name:        name,
			Description: description,
			Category:    category,
			Price:       decimal.RequireFromString(price),
			IsActive:    true,
		}
	}
	return []entity.MenuItem{
		item("Tomato Soup", "Starters", "5.50", "Roasted tomatoes, basil oil"),
		item("Garlic Bread", "Starters", "3.75", ""),
		item("Classic Burger", "Mains", "12.90", "Beef patty, cheddar, pickles"),
		item("Mushroom Risotto", "Mains", "14.20", ""),
		item("Fries", "Sides", "2.50", ""),
		item("Lemonade", "Drinks", "3.10", "House made"),
		item("Cheesecake", "Desserts", "6.40", ""),
	}
}

// All seeds staff, tables, menu and a few sample orders.
func (s *Seeder) All(ctx context.Context) error {
	if err := s.Catalog(ctx); err != nil {
		return err
	}
	return s.Orders(ctx)
}

// Catalog inserts staff, tables and menu items that are missing.
func (s *Seeder) Catalog(ctx context.Context) error {
	users := Staff()
	if _, err := s.db.NewInsert().Model(&users).Ignore().Exec(ctx); err != nil {
		return fmt.Errorf("seed users: %w", err)
	}
	tables := Tables()
	if _, err := s.db.NewInsert().Model(&tables).Ignore().Exec(ctx); err != nil {
		return fmt.Errorf("seed tables: %w", err)
	}
	menu := Menu()
	if _, err := s.db.NewInsert().Model(&menu).Ignore().Exec(ctx); err != nil {
		return fmt.Errorf("seed menu: %w", err)
	}

	s.logger.Info("seeded catalog",
		zap.Int("users", len(users)),
		zap.Int("tables", len(tables)),
		zap.Int("menu_items", len(menu)),
	)
	return nil
}

// Orders places sample orders unless the database already holds some.
func (s *Seeder) Orders(ctx context.Context) error {
	count, err := s.db.NewSelect().Model((*entity.Order)(nil)).Count(ctx)
	if err != nil {
		return fmt.Errorf("count orders: %w", err)
	}
	if count > 0 {
		s.logger.Info("orders already present; skipping sample orders", zap.Int("count", count))
		return nil
	}

	placed := 0
	for _, in := range SampleOrders() {
		if _, err := s.orders.CreateTrusted(ctx, in); err != nil {
			return fmt.Errorf("seed order for table %s: %w", in.TableID, err)
		}
		placed++
	}

	s.logger.Info("seeded orders", zap.Int("count", placed))
	return nil
}

// SampleOrders builds the demo orders placed by Orders, priced from Menu.
func SampleOrders() []ordersvc.CreateInput {
	menu := Menu()
	tables := Tables()
	line := func(idx, qty int) ordersvc.LineInput {
		return ordersvc.LineInput{MenuItemID: menu[idx].ID, Quantity: qty, Price: menu[idx].Price}
	}
	return []ordersvc.CreateInput{
		{TableID: tables[0].ID, CustomerName: "Ana", Items: []ordersvc.LineInput{line(2, 2), line(4, 2), line(5, 2)}},
		{TableID: tables[1].ID, Items: []ordersvc.LineInput{line(0, 1), line(3, 1)}, Notes: "No parmesan on the risotto"},
		{TableID: tables[4].ID, CustomerName: "Leo", CustomerEmail: "leo@example.com", Items: []ordersvc.LineInput{line(6, 3)}},
	}
}
