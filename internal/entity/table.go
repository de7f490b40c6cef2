package entity

import (
	"time"

	"github.com/uptrace/bun"
)

// Table is a dining table customers order from.
type Table struct {
	bun.BaseModel `bun:"table:dining_tables,alias:t"`

	ID        string    `bun:"id,pk"`
	Number    string    `bun:"number,notnull,unique"`
	Capacity  int       `bun:"capacity,notnull"`
	Section   string    `bun:"section,notnull"`
	IsActive  bool      `bun:"is_active,notnull"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:CURRENT_TIMESTAMP"`
}
