package order

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Additional-Code/tableside/internal/entity"
	"github.com/Additional-Code/tableside/pkg/errorbank"
)

// LineInput is a line item as submitted by a client.
type LineInput struct {
	MenuItemID string
	Quantity   int
	// Price is the client's claimed unit price. It is only honoured on the trusted path.
	Price decimal.Decimal
	Notes string
}

// PricedOrder is the authoritative pricing of a set of lines.
type PricedOrder struct {
	TotalAmount decimal.Decimal
	Items       []*entity.OrderItem
}

// PriceOrder computes line prices and the order total. With validate set, every
// unit price comes from the catalog in one batch lookup and client prices are
// ignored; without it the client's prices are trusted.
func PriceOrder(ctx context.Context, catalog MenuCatalog, lines []LineInput, validate bool) (*PricedOrder, error) {
	if len(lines) == 0 {
		return nil, errorbank.BadRequest("at least one item is required")
	}

	ids := make([]string, 0, len(lines))
	seen := make(map[string]struct{}, len(lines))
	for i, line := range lines {
		if _, err := uuid.Parse(line.MenuItemID); err != nil {
			return nil, errorbank.BadRequest(fmt.Sprintf("items[%d]: malformed menu item id", i),
				errorbank.WithDetail("menu_item_id", line.MenuItemID))
		}
		if line.Quantity < 1 {
			return nil, errorbank.BadRequest(fmt.Sprintf("items[%d]: quantity must be at least 1", i),
				errorbank.WithDetail("quantity", line.Quantity))
		}
		if !validate && line.Price.IsNegative() {
			return nil, errorbank.BadRequest(fmt.Sprintf("items[%d]: price must not be negative", i))
		}
		if _, ok := seen[line.MenuItemID]; !ok {
			seen[line.MenuItemID] = struct{}{}
			ids = append(ids, line.MenuItemID)
		}
	}

	var menu map[string]*entity.MenuItem
	if validate {
		found, err := catalog.FindManyByIDs(ctx, ids)
		if err != nil {
			return nil, storageFailure("failed to load menu items", err)
		}
		menu = make(map[string]*entity.MenuItem, len(found))
		for i := range found {
			menu[found[i].ID] = &found[i]
		}
	}

	priced := &PricedOrder{
		TotalAmount: decimal.Zero,
		Items:       make([]*entity.OrderItem, 0, len(lines)),
	}
	for i, line := range lines {
		item := &entity.OrderItem{
			Position:   i,
			MenuItemID: line.MenuItemID,
			Quantity:   line.Quantity,
			Price:      line.Price,
			Notes:      line.Notes,
		}
		if validate {
			mi, ok := menu[line.MenuItemID]
			if !ok {
				return nil, errorbank.ItemNotFound(line.MenuItemID)
			}
			item.Price = mi.Price
			item.MenuItem = mi
		}
		priced.TotalAmount = priced.TotalAmount.Add(item.Subtotal())
		priced.Items = append(priced.Items, item)
	}
	return priced, nil
}
