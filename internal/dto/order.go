package dto

import (
	"time"

	"github.com/Additional-Code/tableside/internal/entity"
)

// TableSummary identifies the table an order belongs to.
type TableSummary struct {
	ID     string `json:"id"`
	Number string `json:"number"`
}

// StaffSummary identifies the staff member who served an order.
type StaffSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CustomerResponse is the customer attached to an order.
type CustomerResponse struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// OrderItemResponse is one line of an order.
type OrderItemResponse struct {
	MenuItemID string `json:"menu_item_id"`
	Name       string `json:"name,omitempty"`
	Quantity   int    `json:"quantity"`
	Price      string `json:"price"`
	Subtotal   string `json:"subtotal"`
	Notes      string `json:"notes,omitempty"`
}

// OrderResponse represents an order as exposed via transport layers.
type OrderResponse struct {
	ID            string              `json:"id"`
	Table         TableSummary        `json:"table"`
	Customer      CustomerResponse    `json:"customer"`
	Items         []OrderItemResponse `json:"items"`
	TotalAmount   string              `json:"total_amount"`
	Notes         string              `json:"notes,omitempty"`
	Status        string              `json:"status"`
	PaymentStatus string              `json:"payment_status"`
	ServedBy      *StaffSummary       `json:"served_by,omitempty"`
	Version       int64               `json:"version"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

// FromOrder maps a populated order. Money is rendered with two decimals.
func FromOrder(o *entity.Order) OrderResponse {
	resp := OrderResponse{
		ID:            o.ID,
		Table:         TableSummary{ID: o.TableID},
		Customer:      CustomerResponse{Name: o.Customer.Name, Email: o.Customer.Email},
		Items:         make([]OrderItemResponse, 0, len(o.Items)),
		TotalAmount:   o.TotalAmount.StringFixed(2),
		Notes:         o.Notes,
		Status:        string(o.Status),
		PaymentStatus: string(o.PaymentStatus),
		Version:       o.Version,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
	if o.Table != nil {
		resp.Table.Number = o.Table.Number
	}
	if o.ServedByID != nil {
		resp.ServedBy = &StaffSummary{ID: *o.ServedByID}
		if o.ServedBy != nil {
			resp.ServedBy.Name = o.ServedBy.Name
		}
	}
	for _, item := range o.Items {
		line := OrderItemResponse{
			MenuItemID: item.MenuItemID,
			Quantity:   item.Quantity,
			Price:      item.Price.StringFixed(2),
			Subtotal:   item.Subtotal().StringFixed(2),
			Notes:      item.Notes,
		}
		if item.MenuItem != nil {
			line.Name = item.MenuItem.Name
		}
		resp.Items = append(resp.Items, line)
	}
	return resp
}

// FromOrders maps a slice of orders.
func FromOrders(orders []*entity.Order) []OrderResponse {
	out := make([]OrderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, FromOrder(o))
	}
	return out
}
