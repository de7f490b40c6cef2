package entity

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

// DefaultCustomerName is used when an order is placed without a name.
const DefaultCustomerName = "Guest"

// Customer is the contact embedded in an order.
type Customer struct {
	Name  string `bun:"name,notnull" json:"name"`
	Email string `bun:"email,nullzero" json:"email,omitempty"`
}

// Order is a customer's request placed against a table.
type Order struct {
	bun.BaseModel `bun:"table:orders,alias:o"`

	ID            string          `bun:"id,pk"`
	TableID       string          `bun:"table_id,notnull"`
	Table         *Table          `bun:"rel:belongs-to,join:table_id=id"`
	Customer      Customer        `bun:"embed:customer_"`
	Items         []*OrderItem    `bun:"rel:has-many,join:id=order_id"`
	TotalAmount   decimal.Decimal `bun:"total_amount,type:numeric(12,2),notnull"`
	Notes         string          `bun:"notes,nullzero"`
	Status        Status          `bun:"status,notnull"`
	PaymentStatus PaymentStatus   `bun:"payment_status,notnull"`
	ServedByID    *string         `bun:"served_by_id,nullzero"`
	ServedBy      *User           `bun:"rel:belongs-to,join:served_by_id=id"`
	Version       int64           `bun:"version,notnull"`
	CreatedAt     time.Time       `bun:"created_at,nullzero,notnull,default:CURRENT_TIMESTAMP"`
	UpdatedAt     time.Time       `bun:"updated_at,nullzero,notnull,default:CURRENT_TIMESTAMP"`
}

// OrderItem is one priced line of an order.
type OrderItem struct {
	bun.BaseModel `bun:"table:order_items,alias:oi"`

	ID         string          `bun:"id,pk"`
	OrderID    string          `bun:"order_id,notnull"`
	Position   int             `bun:"position,notnull"`
	MenuItemID string          `bun:"menu_item_id,notnull"`
	MenuItem   *MenuItem       `bun:"rel:belongs-to,join:menu_item_id=id"`
	Quantity   int             `bun:"quantity,notnull"`
	Price      decimal.Decimal `bun:"price,type:numeric(12,2),notnull"`
	Notes      string          `bun:"notes,nullzero"`
}

// Subtotal is the line's unit price times its quantity.
func (i *OrderItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Settled reports whether the order is both completed and paid.
func (o *Order) Settled() bool {
	return o.Status == StatusCompleted && o.PaymentStatus == PaymentPaid
}

// LockedAt reports whether a settled order's edit window has elapsed at now.
func (o *Order) LockedAt(now time.Time, window time.Duration) bool {
	return o.Settled() && now.Sub(o.UpdatedAt) >= window
}

// VisibleInHistory reports whether the order belongs in a table's customer-facing history.
// Unsettled orders are always visible; settled ones only while updated at or after cutoff.
func (o *Order) VisibleInHistory(cutoff time.Time) bool {
	return !o.Settled() || !o.UpdatedAt.Before(cutoff)
}
