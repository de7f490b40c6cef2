package orderevent

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Additional-Code/tableside/internal/database/dbtest"
	"github.com/Additional-Code/tableside/internal/entity"
)

func TestAppendIgnoresRedeliveryAndListsOldestFirst(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(dbtest.Open(t))
	orderID := uuid.NewString()
	at := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	event := func(version int64, typ string, status entity.Status) *entity.OrderEvent {
		return &entity.OrderEvent{
			ID:            uuid.NewString(),
			Type:          typ,
			OrderID:       orderID,
			TableID:       uuid.NewString(),
			Status:        status,
			PaymentStatus: entity.PaymentUnpaid,
			TotalAmount:   decimal.RequireFromString("7.50"),
			Version:       version,
			OccurredAt:    at.Add(time.Duration(version) * time.Minute),
		}
	}
	served := event(2, entity.EventOrderStatusChanged, entity.StatusServed)
	created := event(1, entity.EventOrderCreated, entity.StatusPending)

	require.NoError(t, repo.Append(ctx, served))
	require.NoError(t, repo.Append(ctx, created))
	require.NoError(t, repo.Append(ctx, served))

	events, err := repo.ListByOrder(ctx, orderID)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, entity.EventOrderCreated, events[0].Type)
	assert.Equal(t, entity.EventOrderStatusChanged, events[1].Type)
	assert.EqualValues(t, 2, events[1].Version)

	events, err = repo.ListByOrder(ctx, uuid.NewString())
	require.NoError(t, err)
	assert.Empty(t, events)
}
