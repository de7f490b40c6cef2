package entity

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

// MenuItem is a dish on the restaurant menu.
type MenuItem struct {
	bun.BaseModel `bun:"table:menu_items,alias:mi"`

	ID          string          `bun:"id,pk"`
	Name        string          `bun:"name,notnull"`
	Description string          `bun:"description,nullzero"`
	Price       decimal.Decimal `bun:"price,type:numeric(12,2),notnull"`
	Category    string          `bun:"category,nullzero"`
	IsActive    bool            `bun:"is_active,notnull"`
	CreatedAt   time.Time       `bun:"created_at,nullzero,notnull,default:CURRENT_TIMESTAMP"`
}
