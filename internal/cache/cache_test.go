package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx/fxtest"
	"go.uber.org/zap"

	"github.com/Additional-Code/tableside/internal/config"
)

type mapStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMapStore() *mapStore { return &mapStore{data: map[string][]byte{}} }

func (m *mapStore) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return nil, ErrCacheMiss
	}
	return v, nil
}

func (m *mapStore) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *mapStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func TestNamespacePrefixesKeys(t *testing.T) {
	ctx := context.Background()
	inner := newMapStore()
	store := Namespace(inner, "tableside")

	require.NoError(t, store.Set(ctx, "orders:1", []byte("x"), time.Minute))
	_, ok := inner.data["tableside:orders:1"]
	assert.True(t, ok)

	got, err := store.Get(ctx, "orders:1")
	require.NoError(t, err)
	assert.Equal(t, []byte("x"), got)

	require.NoError(t, store.Delete(ctx, "orders:1"))
	assert.Empty(t, inner.data)

	assert.Same(t, inner, Namespace(inner, ""))
}

func TestJSONHelpers(t *testing.T) {
	ctx := context.Background()
	store := Instrument(newMapStore(), "memory")

	type payload struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	_, err := GetJSON[payload](ctx, store, "p")
	assert.ErrorIs(t, err, ErrCacheMiss)

	require.NoError(t, SetJSON(ctx, store, "p", payload{Name: "soup", Count: 2}, time.Minute))
	got, err := GetJSON[payload](ctx, store, "p")
	require.NoError(t, err)
	assert.Equal(t, payload{Name: "soup", Count: 2}, got)

	require.NoError(t, store.Set(ctx, "bad", []byte("{"), time.Minute))
	_, err = GetJSON[payload](ctx, store, "bad")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrCacheMiss)
}

func TestNilStoreHelpers(t *testing.T) {
	_, err := GetJSON[int](context.Background(), nil, "k")
	assert.ErrorIs(t, err, ErrCacheMiss)
	assert.NoError(t, SetJSON(context.Background(), nil, "k", 1, time.Minute))
}

func TestNewStoreDrivers(t *testing.T) {
	lc := fxtest.NewLifecycle(t)

	store, err := NewStore(lc, config.Config{Cache: config.Cache{Driver: "noop"}}, zap.NewNop())
	require.NoError(t, err)
	_, err = store.Get(context.Background(), "k")
	assert.ErrorIs(t, err, ErrCacheMiss)

	_, err = NewStore(lc, config.Config{Cache: config.Cache{Driver: "memcached"}}, zap.NewNop())
	assert.Error(t, err)
}
