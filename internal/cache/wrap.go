package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var cacheMeter = otel.Meter("github.com/Additional-Code/tableside/cache")

type namespaced struct {
	next   Store
	prefix string
}

// Namespace prefixes every key with "<prefix>:". An empty prefix returns next unchanged.
func Namespace(next Store, prefix string) Store {
	if prefix == "" {
		return next
	}
	return &namespaced{next: next, prefix: prefix + ":"}
}

func (n *namespaced) Get(ctx context.Context, key string) ([]byte, error) {
	return n.next.Get(ctx, n.prefix+key)
}

func (n *namespaced) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return n.next.Set(ctx, n.prefix+key, value, ttl)
}

func (n *namespaced) Delete(ctx context.Context, key string) error {
	return n.next.Delete(ctx, n.prefix+key)
}

type instrumented struct {
	next    Store
	lookups metric.Int64Counter
	attrs   attribute.KeyValue
}

// Instrument counts lookups on next by result (hit, miss, error).
func Instrument(next Store, backend string) Store {
	lookups, err := cacheMeter.Int64Counter("cache.lookups",
		metric.WithDescription("Cache lookups by result"))
	if err != nil {
		return next
	}
	return &instrumented{next: next, lookups: lookups, attrs: attribute.String("backend", backend)}
}

func (i *instrumented) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := i.next.Get(ctx, key)
	result := "hit"
	switch {
	case errors.Is(err, ErrCacheMiss):
		result = "miss"
	case err != nil:
		result = "error"
	}
	i.lookups.Add(ctx, 1, metric.WithAttributes(i.attrs, attribute.String("result", result)))
	return value, err
}

func (i *instrumented) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return i.next.Set(ctx, key, value, ttl)
}

func (i *instrumented) Delete(ctx context.Context, key string) error {
	return i.next.Delete(ctx, key)
}

// GetJSON loads key and decodes it into a T. A nil store always misses.
func GetJSON[T any](ctx context.Context, store Store, key string) (T, error) {
	var out T
	if store == nil {
		return out, ErrCacheMiss
	}
	raw, err := store.Get(ctx, key)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("decode cached %s: %w", key, err)
	}
	return out, nil
}

// SetJSON encodes value and stores it under key. A nil store is a no-op.
func SetJSON(ctx context.Context, store Store, key string, value any, ttl time.Duration) error {
	if store == nil {
		return nil
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return store.Set(ctx, key, raw, ttl)
}
