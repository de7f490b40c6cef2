package messaging

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeReader struct {
	mu        sync.Mutex
	pending   []kafka.Message
	committed []int64
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	r.mu.Lock()
	if len(r.pending) > 0 {
		msg := r.pending[0]
		r.pending = r.pending[1:]
		r.mu.Unlock()
		return msg, nil
	}
	r.mu.Unlock()
	<-ctx.Done()
	return kafka.Message{}, ctx.Err()
}

func (r *fakeReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range msgs {
		r.committed = append(r.committed, m.Offset)
	}
	return nil
}

func (r *fakeReader) commits() []int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int64(nil), r.committed...)
}

func TestConsumeRetriesThenCommits(t *testing.T) {
	reader := &fakeReader{pending: []kafka.Message{
		{Topic: "orders.events", Offset: 1, Value: []byte("a"), Headers: []kafka.Header{{Key: HeaderEventType, Value: []byte("order.created")}}},
		{Topic: "orders.events", Offset: 2, Value: []byte("b")},
	}}
	client := &kafkaClient{reader: reader, topic: "orders.events", maxAttempts: 3, maxBackoff: time.Millisecond, logger: zap.NewNop()}

	var mu sync.Mutex
	calls := map[int64]int{}
	var firstHeaders map[string]string

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- client.Consume(ctx, func(_ context.Context, msg Message) error {
			mu.Lock()
			defer mu.Unlock()
			calls[msg.Offset]++
			if msg.Offset == 1 {
				firstHeaders = msg.Headers
				if calls[1] < 2 {
					return errors.New("transient")
				}
			}
			if msg.Offset == 2 {
				return errors.New("permanent")
			}
			return nil
		})
	}()

	assert.Eventually(t, func() bool { return len(reader.commits()) == 2 }, 2*time.Second, 5*time.Millisecond)
	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 2, calls[1])
	assert.Equal(t, 3, calls[2])
	assert.Equal(t, []int64{1, 2}, reader.commits())
	assert.Equal(t, "order.created", firstHeaders[HeaderEventType])
}

func TestHeaderConversion(t *testing.T) {
	assert.Nil(t, toKafkaHeaders(nil))

	headers := toKafkaHeaders(map[string]string{HeaderContentType: "application/json"})
	require.Len(t, headers, 1)
	msg := fromKafka(kafka.Message{Headers: headers, Key: []byte("k")})
	assert.Equal(t, "application/json", msg.Headers[HeaderContentType])
	assert.Equal(t, []byte("k"), msg.Key)
}

func TestNoopClient(t *testing.T) {
	client := Noop("orders.events")
	require.NoError(t, client.Publish(context.Background(), Envelope{Value: []byte("x")}))
	assert.Equal(t, "orders.events", client.Topic())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, client.Consume(ctx, nil), context.Canceled)
}
