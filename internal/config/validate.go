package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// normalize fills derived defaults and rejects settings the application cannot run with.
func (c *Config) normalize() error {
	steps := []func() error{
		c.normalizeServers,
		c.normalizeCache,
		c.normalizeMessaging,
		c.normalizeDatabase,
		c.normalizeObservability,
		c.normalizeOrders,
		c.normalizeAuth,
		c.normalizeRateLimit,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) normalizeServers() error {
	if c.HTTP.Port <= 0 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTP.Port)
	}
	if c.GRPC.Port <= 0 {
		return fmt.Errorf("invalid gRPC port: %d", c.GRPC.Port)
	}
	return nil
}

func (c *Config) normalizeCache() error {
	if !c.Cache.Enabled {
		c.Cache.Driver = "noop"
	}
	c.Cache.Driver = lower(c.Cache.Driver, "redis")

	switch c.Cache.Driver {
	case "redis":
		if c.Cache.Redis.Addr == "" {
			return errors.New("missing REDIS_ADDR for redis cache")
		}
	case "noop":
	default:
		return fmt.Errorf("unsupported cache driver: %s", c.Cache.Driver)
	}

	if c.Cache.DefaultTTL < 0 {
		c.Cache.DefaultTTL = 5 * time.Minute
	}
	if c.Cache.MenuTTL < 0 {
		c.Cache.MenuTTL = time.Minute
	}
	c.Cache.Prefix = strings.Trim(strings.TrimSpace(c.Cache.Prefix), ":")
	return nil
}

func (c *Config) normalizeMessaging() error {
	if !c.Messaging.Enabled {
		c.Messaging.Driver = "noop"
	}
	c.Messaging.Driver = lower(c.Messaging.Driver, "kafka")

	switch c.Messaging.Driver {
	case "kafka":
		if len(c.Messaging.Kafka.Brokers) == 0 {
			return errors.New("KAFKA_BROKERS must be provided")
		}
		if c.Messaging.Kafka.Topic == "" {
			return errors.New("KAFKA_TOPIC must be provided")
		}
		if c.Messaging.ConsumerGroup == "" {
			return errors.New("KAFKA_CONSUMER_GROUP must be provided")
		}
	case "noop":
	default:
		return fmt.Errorf("unsupported messaging driver: %s", c.Messaging.Driver)
	}

	if c.Messaging.Workers.Concurrency <= 0 {
		c.Messaging.Workers.Concurrency = 1
	}
	if c.Messaging.Workers.MaxBackoff <= 0 {
		c.Messaging.Workers.MaxBackoff = 30 * time.Second
	}
	if c.Messaging.Workers.MaxAttempts <= 0 {
		c.Messaging.Workers.MaxAttempts = 1
	}
	return nil
}

func (c *Config) normalizeDatabase() error {
	c.Database.Driver = lower(c.Database.Driver, "postgres")
	switch c.Database.Driver {
	case "postgres", "pgx", "mysql", "sqlite":
	default:
		return fmt.Errorf("unsupported database driver: %s", c.Database.Driver)
	}

	if c.Database.WriterDSN == "" {
		return errors.New("missing DB_WRITER_DSN")
	}
	if c.Database.ReaderDSN == "" {
		c.Database.ReaderDSN = c.Database.WriterDSN
	}
	return nil
}

func (c *Config) normalizeObservability() error {
	o := &c.Observability
	o.LogLevel = lower(o.LogLevel, "info")
	o.LogEncoding = lower(o.LogEncoding, "json")
	o.TraceExporter = lower(o.TraceExporter, "stdout")
	o.MetricsExporter = lower(o.MetricsExporter, "prometheus")

	if o.TraceSampleRatio < 0 || o.TraceSampleRatio > 1 {
		return fmt.Errorf("OBS_TRACE_SAMPLE_RATIO must be within [0,1], got %v", o.TraceSampleRatio)
	}

	switch {
	case o.PrometheusPath == "":
		o.PrometheusPath = "/metrics"
	case !strings.HasPrefix(o.PrometheusPath, "/"):
		o.PrometheusPath = "/" + o.PrometheusPath
	}
	return nil
}

func (c *Config) normalizeOrders() error {
	if c.Orders.LockWindow < 0 {
		return fmt.Errorf("ORDER_LOCK_WINDOW must not be negative, got %s", c.Orders.LockWindow)
	}
	if c.Orders.HistoryWindow <= 0 {
		return fmt.Errorf("ORDER_HISTORY_WINDOW must be positive, got %s", c.Orders.HistoryWindow)
	}
	if c.Orders.HistoryLimit <= 0 {
		return fmt.Errorf("ORDER_HISTORY_LIMIT must be positive, got %d", c.Orders.HistoryLimit)
	}
	if c.Orders.StorageTimeout <= 0 {
		c.Orders.StorageTimeout = 3 * time.Second
	}
	return nil
}

func (c *Config) normalizeAuth() error {
	if strings.TrimSpace(c.Auth.JWTSecret) == "" {
		return errors.New("missing AUTH_JWT_SECRET")
	}
	if c.Auth.TokenTTL <= 0 {
		c.Auth.TokenTTL = 12 * time.Hour
	}
	return nil
}

func (c *Config) normalizeRateLimit() error {
	if !c.RateLimit.Enabled {
		return nil
	}
	if c.RateLimit.RequestsPerSecond <= 0 {
		return fmt.Errorf("RATE_LIMIT_RPS must be positive, got %v", c.RateLimit.RequestsPerSecond)
	}
	if c.RateLimit.Burst <= 0 {
		c.RateLimit.Burst = 1
	}
	return nil
}

func lower(value, fallback string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return fallback
	}
	return value
}
