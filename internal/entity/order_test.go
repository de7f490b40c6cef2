package entity

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to Status
		want     bool
	}{
		{StatusPending, StatusPreparing, true},
		{StatusPending, StatusServed, true},
		{StatusPreparing, StatusServed, true},
		{StatusServed, StatusCompleted, true},
		{StatusServed, StatusServed, true},
		{StatusPending, StatusCancelled, true},
		{StatusServed, StatusCancelled, true},
		{StatusCompleted, StatusCancelled, false},
		{StatusCompleted, StatusPending, false},
		{StatusServed, StatusPreparing, false},
		{StatusCancelled, StatusPending, false},
		{StatusCancelled, StatusCancelled, true},
		{StatusPending, Status("ready"), false},
	}

	for _, tc := range cases {
		t.Run(string(tc.from)+"->"+string(tc.to), func(t *testing.T) {
			assert.Equal(t, tc.want, CanTransition(tc.from, tc.to))
		})
	}
}

func TestStatusValidity(t *testing.T) {
	for _, s := range Statuses() {
		assert.True(t, s.Valid(), s)
	}
	assert.False(t, Status("").Valid())
	assert.True(t, PaymentPaid.Valid())
	assert.False(t, PaymentStatus("refunded").Valid())
	assert.True(t, StatusServed.Attributes())
	assert.True(t, StatusCompleted.Attributes())
	assert.False(t, StatusPreparing.Attributes())
}

func TestLockedAt(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	settled := &Order{Status: StatusCompleted, PaymentStatus: PaymentPaid}

	settled.UpdatedAt = now.Add(-10 * time.Minute)
	assert.True(t, settled.LockedAt(now, 5*time.Minute))

	settled.UpdatedAt = now.Add(-5 * time.Minute)
	assert.True(t, settled.LockedAt(now, 5*time.Minute), "boundary is inclusive")

	settled.UpdatedAt = now.Add(-2 * time.Minute)
	assert.False(t, settled.LockedAt(now, 5*time.Minute))

	unpaid := &Order{Status: StatusCompleted, PaymentStatus: PaymentUnpaid, UpdatedAt: now.Add(-time.Hour)}
	assert.False(t, unpaid.LockedAt(now, 5*time.Minute))
}

func TestVisibleInHistory(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	cutoff := now.Add(-24 * time.Hour)

	old := &Order{Status: StatusCompleted, PaymentStatus: PaymentPaid, UpdatedAt: now.Add(-25 * time.Hour)}
	recent := &Order{Status: StatusCompleted, PaymentStatus: PaymentPaid, UpdatedAt: now.Add(-time.Hour)}
	oldUnpaid := &Order{Status: StatusCompleted, PaymentStatus: PaymentUnpaid, UpdatedAt: now.Add(-72 * time.Hour)}
	oldActive := &Order{Status: StatusPreparing, PaymentStatus: PaymentPaid, UpdatedAt: now.Add(-72 * time.Hour)}

	assert.False(t, old.VisibleInHistory(cutoff))
	assert.True(t, recent.VisibleInHistory(cutoff))
	assert.True(t, oldUnpaid.VisibleInHistory(cutoff))
	assert.True(t, oldActive.VisibleInHistory(cutoff))
}

func TestSubtotal(t *testing.T) {
	item := &OrderItem{Price: decimal.RequireFromString("2.50"), Quantity: 3}

	assert.True(t, item.Subtotal().Equal(decimal.RequireFromString("7.50")))
}
