package menu

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Additional-Code/tableside/internal/database/dbtest"
	"github.com/Additional-Code/tableside/internal/entity"
)

func seedMenu(t *testing.T) (*Repository, []entity.MenuItem) {
	t.Helper()
	conns := dbtest.Open(t)
	items := []entity.MenuItem{
		{ID: uuid.NewString(), Name: "Soup", Price: decimal.RequireFromString("4.00"), Category: "Starters", IsActive: true},
		{ID: uuid.NewString(), Name: "Burger", Price: decimal.RequireFromString("2.50"), Category: "Mains", IsActive: true},
		{ID: uuid.NewString(), Name: "Apple Pie", Price: decimal.RequireFromString("3.25"), Category: "Desserts", IsActive: true},
		{ID: uuid.NewString(), Name: "Old Special", Price: decimal.RequireFromString("9.99"), Category: "Mains", IsActive: false},
	}
	_, err := conns.Writer.NewInsert().Model(&items).Exec(context.Background())
	require.NoError(t, err)
	return NewRepository(conns), items
}

func TestFindManyByIDsSkipsUnknownIDs(t *testing.T) {
	ctx := context.Background()
	repo, items := seedMenu(t)

	found, err := repo.FindManyByIDs(ctx, []string{items[0].ID, uuid.NewString(), items[1].ID})
	require.NoError(t, err)
	require.Len(t, found, 2)

	byID := map[string]entity.MenuItem{}
	for _, mi := range found {
		byID[mi.ID] = mi
	}
	assert.Equal(t, "Soup", byID[items[0].ID].Name)
	assert.True(t, byID[items[1].ID].Price.Equal(decimal.RequireFromString("2.50")))

	found, err = repo.FindManyByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestFindByID(t *testing.T) {
	ctx := context.Background()
	repo, items := seedMenu(t)

	got, err := repo.FindByID(ctx, items[2].ID)
	require.NoError(t, err)
	assert.Equal(t, "Apple Pie", got.Name)
	assert.True(t, got.IsActive)

	_, err = repo.FindByID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListActiveSortsByCategoryAndName(t *testing.T) {
	repo, _ := seedMenu(t)

	active, err := repo.ListActive(context.Background())
	require.NoError(t, err)

	var names []string
	for _, mi := range active {
		names = append(names, mi.Name)
	}
	assert.Equal(t, []string{"Apple Pie", "Burger", "Soup"}, names)
}
