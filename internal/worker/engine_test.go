package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Additional-Code/tableside/internal/config"
	"github.com/Additional-Code/tableside/internal/messaging"
)

// scriptedClient delivers a fixed set of messages once and then blocks.
type scriptedClient struct {
	mu       sync.Mutex
	messages []messaging.Message
	results  []error
}

func (c *scriptedClient) Publish(context.Context, messaging.Envelope) error { return nil }

func (c *scriptedClient) Consume(ctx context.Context, handler messaging.Handler) error {
	c.mu.Lock()
	pending := c.messages
	c.messages = nil
	c.mu.Unlock()

	for _, msg := range pending {
		err := handler(ctx, msg)
		c.mu.Lock()
		c.results = append(c.results, err)
		c.mu.Unlock()
	}
	<-ctx.Done()
	return ctx.Err()
}

func (c *scriptedClient) Topic() string { return "orders.events" }

func (c *scriptedClient) handled() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.results)
}

func enabledConfig() config.Config {
	return config.Config{Messaging: config.Messaging{
		Enabled: true,
		Workers: config.Worker{Enabled: true, Concurrency: 1},
	}}
}

func TestEngineDispatchesByTopic(t *testing.T) {
	var got []string
	var mu sync.Mutex
	client := &scriptedClient{messages: []messaging.Message{
		{Topic: "orders.events", Value: []byte("a")},
		{Topic: "unknown", Value: []byte("b")},
		{Topic: "orders.events", Value: []byte("c")},
	}}

	engine := NewEngine(Params{
		Client: client,
		Logger: zap.NewNop(),
		Config: enabledConfig(),
		Registrations: []HandlerRegistration{{
			Topic: "orders.events",
			Handler: func(_ context.Context, msg messaging.Message) error {
				mu.Lock()
				defer mu.Unlock()
				got = append(got, string(msg.Value))
				return nil
			},
		}},
	})

	require.NoError(t, engine.start(context.Background()))
	assert.Eventually(t, func() bool { return client.handled() == 3 }, time.Second, 10*time.Millisecond)
	require.NoError(t, engine.stop(context.Background()))

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"a", "c"}, got)
}

func TestEngineSurfacesHandlerErrors(t *testing.T) {
	boom := errors.New("boom")
	engine := NewEngine(Params{
		Client: &scriptedClient{},
		Config: enabledConfig(),
		Registrations: []HandlerRegistration{{
			Topic:   "orders.events",
			Handler: func(context.Context, messaging.Message) error { return boom },
		}},
	})

	err := engine.dispatch(context.Background(), 0, messaging.Message{Topic: "orders.events"})
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, engine.dispatch(context.Background(), 0, messaging.Message{Topic: "other"}))
}

func TestEngineDisabled(t *testing.T) {
	engine := NewEngine(Params{Client: &scriptedClient{}, Logger: zap.NewNop()})

	require.NoError(t, engine.start(context.Background()))
	assert.Nil(t, engine.cancel)
	assert.NoError(t, engine.stop(context.Background()))
}

func TestNextBackoffCapsAtLimit(t *testing.T) {
	assert.Equal(t, 2*time.Second, nextBackoff(time.Second, 10*time.Second))
	assert.Equal(t, 10*time.Second, nextBackoff(8*time.Second, 10*time.Second))
	assert.Equal(t, 10*time.Second, nextBackoff(10*time.Second, 10*time.Second))
}
