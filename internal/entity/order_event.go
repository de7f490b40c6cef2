package entity

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

// Order event types.
const (
	EventOrderCreated         = "order.created"
	EventOrderStatusChanged   = "order.status_changed"
	EventOrderPaymentRecorded = "order.payment_changed"
)

// OrderEvent is one entry of an order's append-only audit trail.
type OrderEvent struct {
	bun.BaseModel `bun:"table:order_events,alias:oe"`

	ID            string          `bun:"id,pk" json:"event_id"`
	Type          string          `bun:"type,notnull" json:"event_type"`
	OrderID       string          `bun:"order_id,notnull" json:"order_id"`
	TableID       string          `bun:"table_id,notnull" json:"table_id"`
	Status        Status          `bun:"status,notnull" json:"status"`
	PaymentStatus PaymentStatus   `bun:"payment_status,notnull" json:"payment_status"`
	ActorID       string          `bun:"actor_id,nullzero" json:"actor_id,omitempty"`
	TotalAmount   decimal.Decimal `bun:"total_amount,type:numeric(12,2),notnull" json:"total_amount"`
	Version       int64           `bun:"version,notnull" json:"version"`
	OccurredAt    time.Time       `bun:"occurred_at,notnull" json:"occurred_at"`
}
