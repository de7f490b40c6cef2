package order_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ordersvc "github.com/Additional-Code/tableside/internal/service/order"
	"github.com/Additional-Code/tableside/internal/service/order/ordertest"
	"github.com/Additional-Code/tableside/pkg/errorbank"
)

func TestPriceOrderUsesCatalogPrices(t *testing.T) {
	catalog := ordertest.NewCatalog()
	burger := catalog.Add("Burger", "2.50")

	priced, err := ordersvc.PriceOrder(context.Background(), catalog, []ordersvc.LineInput{
		{MenuItemID: burger.ID, Quantity: 3, Price: decimal.RequireFromString("0.01")},
	}, true)
	require.NoError(t, err)

	assert.True(t, priced.TotalAmount.Equal(decimal.RequireFromString("7.50")), "total %s", priced.TotalAmount)
	require.Len(t, priced.Items, 1)
	assert.True(t, priced.Items[0].Price.Equal(burger.Price))
	assert.Equal(t, burger.Name, priced.Items[0].MenuItem.Name)
}

func TestPriceOrderBatchesLookups(t *testing.T) {
	catalog := ordertest.NewCatalog()
	fries := catalog.Add("Fries", "1.25")
	soda := catalog.Add("Soda", "2.00")

	priced, err := ordersvc.PriceOrder(context.Background(), catalog, []ordersvc.LineInput{
		{MenuItemID: fries.ID, Quantity: 2},
		{MenuItemID: soda.ID, Quantity: 1},
		{MenuItemID: fries.ID, Quantity: 1, Notes: "extra salt"},
	}, true)
	require.NoError(t, err)

	assert.Equal(t, 1, catalog.BatchCalls)
	assert.True(t, priced.TotalAmount.Equal(decimal.RequireFromString("5.75")), "total %s", priced.TotalAmount)
	require.Len(t, priced.Items, 3)
	for i, item := range priced.Items {
		assert.Equal(t, i, item.Position)
	}
	assert.Equal(t, "extra salt", priced.Items[2].Notes)
}

func TestPriceOrderUnknownItem(t *testing.T) {
	catalog := ordertest.NewCatalog()
	burger := catalog.Add("Burger", "2.50")
	missing := uuid.NewString()

	_, err := ordersvc.PriceOrder(context.Background(), catalog, []ordersvc.LineInput{
		{MenuItemID: burger.ID, Quantity: 1},
		{MenuItemID: missing, Quantity: 1},
	}, true)
	require.Error(t, err)

	appErr := errorbank.From(err)
	assert.Equal(t, errorbank.KindItemNotFound, appErr.Kind())
	assert.Equal(t, missing, appErr.Details()["menu_item_id"])
}

func TestPriceOrderRejectsInvalidLines(t *testing.T) {
	catalog := ordertest.NewCatalog()
	burger := catalog.Add("Burger", "2.50")

	cases := []struct {
		name  string
		lines []ordersvc.LineInput
	}{
		{name: "empty", lines: nil},
		{name: "zero quantity", lines: []ordersvc.LineInput{{MenuItemID: burger.ID, Quantity: 0}}},
		{name: "negative quantity", lines: []ordersvc.LineInput{{MenuItemID: burger.ID, Quantity: -2}}},
		{name: "malformed id", lines: []ordersvc.LineInput{{MenuItemID: "burger", Quantity: 1}}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ordersvc.PriceOrder(context.Background(), catalog, tc.lines, true)
			assert.True(t, errorbank.Is(err, errorbank.KindBadRequest), "got %v", err)
		})
	}
	assert.Zero(t, catalog.BatchCalls)
}

func TestPriceOrderTrustedPath(t *testing.T) {
	catalog := ordertest.NewCatalog()
	unknown := uuid.NewString()

	priced, err := ordersvc.PriceOrder(context.Background(), catalog, []ordersvc.LineInput{
		{MenuItemID: unknown, Quantity: 2, Price: decimal.RequireFromString("4.20")},
	}, false)
	require.NoError(t, err)
	assert.True(t, priced.TotalAmount.Equal(decimal.RequireFromString("8.40")))
	assert.Zero(t, catalog.BatchCalls)

	_, err = ordersvc.PriceOrder(context.Background(), catalog, []ordersvc.LineInput{
		{MenuItemID: unknown, Quantity: 1, Price: decimal.RequireFromString("-1")},
	}, false)
	assert.True(t, errorbank.Is(err, errorbank.KindBadRequest))
}

func TestPriceOrderCatalogFailure(t *testing.T) {
	catalog := ordertest.NewCatalog()
	catalog.Err = errors.New("connection reset")

	_, err := ordersvc.PriceOrder(context.Background(), catalog, []ordersvc.LineInput{
		{MenuItemID: uuid.NewString(), Quantity: 1},
	}, true)
	assert.True(t, errorbank.Is(err, errorbank.KindInternal), "got %v", err)
}
