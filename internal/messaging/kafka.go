package messaging

import (
	"context"
	"errors"
	"time"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Additional-Code/tableside/internal/config"
)

type kafkaReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
}

// kafkaClient implements the Client via kafka-go.
type kafkaClient struct {
	writer      *kafka.Writer
	reader      kafkaReader
	topic       string
	maxAttempts int
	maxBackoff  time.Duration
	logger      *zap.Logger
}

func newKafkaClient(lc fx.Lifecycle, cfg config.Messaging, logger *zap.Logger) *kafkaClient {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Kafka.Brokers...),
		Topic:        cfg.Kafka.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		WriteTimeout: cfg.Kafka.WriteTimeout,
		Logger:       kafka.LoggerFunc(logger.Sugar().Debugf),
		ErrorLogger:  kafka.LoggerFunc(logger.Sugar().Errorf),
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        cfg.Kafka.Brokers,
		GroupID:        cfg.ConsumerGroup,
		Topic:          cfg.Kafka.Topic,
		MinBytes:       cfg.Kafka.MinBytes,
		MaxBytes:       cfg.Kafka.MaxBytes,
		CommitInterval: cfg.Kafka.CommitInterval,
		Dialer: &kafka.Dialer{
			Timeout:  cfg.Kafka.ConnectTimeout,
			ClientID: cfg.Kafka.ClientID,
		},
	})

	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			logger.Info("closing kafka client", zap.String("topic", cfg.Kafka.Topic))
			return errors.Join(writer.Close(), reader.Close())
		},
	})

	return &kafkaClient{
		writer:      writer,
		reader:      reader,
		topic:       cfg.Kafka.Topic,
		maxAttempts: cfg.Workers.MaxAttempts,
		maxBackoff:  cfg.Workers.MaxBackoff,
		logger:      logger,
	}
}

// Publish writes env keyed by env.Key so one order's events stay on one partition.
func (k *kafkaClient) Publish(ctx context.Context, env Envelope) error {
	headers := make(map[string]string, len(env.Headers)+2)
	for key, v := range env.Headers {
		headers[key] = v
	}
	otel.GetTextMapPropagator().Inject(ctx, mapCarrier(headers))

	return k.writer.WriteMessages(ctx, kafka.Message{
		Key:     env.Key,
		Value:   env.Value,
		Headers: toKafkaHeaders(headers),
	})
}

// Consume fetches messages until ctx ends. A message is committed once its handler
// succeeds or its attempts are exhausted.
func (k *kafkaClient) Consume(ctx context.Context, handler Handler) error {
	for {
		msg, err := k.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}

		wrapped := fromKafka(msg)
		msgCtx := otel.GetTextMapPropagator().Extract(ctx, mapCarrier(wrapped.Headers))

		if err := k.handle(msgCtx, handler, wrapped); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			k.logger.Error("skipping message after retries",
				zap.String("topic", msg.Topic),
				zap.Int64("offset", msg.Offset),
				zap.Int("attempts", k.maxAttempts),
				zap.Error(err),
			)
		}

		if err := k.reader.CommitMessages(ctx, msg); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			k.logger.Warn("commit failed", zap.Int64("offset", msg.Offset), zap.Error(err))
		}
	}
}

func (k *kafkaClient) handle(ctx context.Context, handler Handler, msg Message) error {
	attempts := max(k.maxAttempts, 1)
	delay := 100 * time.Millisecond

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = handler(ctx, msg); err == nil {
			return nil
		}
		if attempt == attempts {
			break
		}
		k.logger.Warn("message handler failed; retrying",
			zap.Int64("offset", msg.Offset),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		if k.maxBackoff > 0 {
			delay = min(delay*2, k.maxBackoff)
		}
	}
	return err
}

func (k *kafkaClient) Topic() string { return k.topic }

func fromKafka(msg kafka.Message) Message {
	var headers map[string]string
	if len(msg.Headers) > 0 {
		headers = make(map[string]string, len(msg.Headers))
		for _, h := range msg.Headers {
			headers[h.Key] = string(h.Value)
		}
	}
	return Message{
		Topic:   msg.Topic,
		Key:     append([]byte(nil), msg.Key...),
		Value:   append([]byte(nil), msg.Value...),
		Headers: headers,
		Offset:  msg.Offset,
		Time:    msg.Time,
	}
}

func toKafkaHeaders(headers map[string]string) []kafka.Header {
	if len(headers) == 0 {
		return nil
	}
	out := make([]kafka.Header, 0, len(headers))
	for key, v := range headers {
		out = append(out, kafka.Header{Key: key, Value: []byte(v)})
	}
	return out
}

// mapCarrier adapts message headers to the otel propagation carrier.
type mapCarrier map[string]string

func (c mapCarrier) Get(key string) string { return c[key] }

func (c mapCarrier) Set(key, value string) {
	if c != nil {
		c[key] = value
	}
}

func (c mapCarrier) Keys() []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	return keys
}
