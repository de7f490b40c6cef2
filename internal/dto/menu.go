package dto

import (
	"time"

	"github.com/Additional-Code/tableside/internal/entity"
)

// MenuItemResponse is a dish as shown to customers.
type MenuItemResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty"`
	Price       string `json:"price"`
}

func FromMenu(items []entity.MenuItem) []MenuItemResponse {
	out := make([]MenuItemResponse, 0, len(items))
	for _, mi := range items {
		out = append(out, MenuItemResponse{
			ID:          mi.ID,
			Name:        mi.Name,
			Description: mi.Description,
			Category:    mi.Category,
			Price:       mi.Price.StringFixed(2),
		})
	}
	return out
}

// TableResponse is a table's public details.
type TableResponse struct {
	ID       string `json:"id"`
	Number   string `json:"number"`
	Capacity int    `json:"capacity"`
	Section  string `json:"section"`
	IsActive bool   `json:"is_active"`
}

func FromTable(t *entity.Table) TableResponse {
	return TableResponse{ID: t.ID, Number: t.Number, Capacity: t.Capacity, Section: t.Section, IsActive: t.IsActive}
}

// OrderEventResponse is one audit trail entry.
type OrderEventResponse struct {
	ID            string    `json:"id"`
	Type          string    `json:"type"`
	Status        string    `json:"status"`
	PaymentStatus string    `json:"payment_status"`
	ActorID       string    `json:"actor_id,omitempty"`
	TotalAmount   string    `json:"total_amount"`
	Version       int64     `json:"version"`
	OccurredAt    time.Time `json:"occurred_at"`
}

func FromEvents(events []entity.OrderEvent) []OrderEventResponse {
	out := make([]OrderEventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, OrderEventResponse{
			ID:            e.ID,
			Type:          e.Type,
			Status:        string(e.Status),
			PaymentStatus: string(e.PaymentStatus),
			ActorID:       e.ActorID,
			TotalAmount:   e.TotalAmount.StringFixed(2),
			Version:       e.Version,
			OccurredAt:    e.OccurredAt,
		})
	}
	return out
}
