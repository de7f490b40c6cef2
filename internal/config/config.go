package config

import (
	"sync"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
)

// HTTP holds HTTP server configuration.
type HTTP struct {
	Host string
	Port int
}

// GRPC holds gRPC server configuration.
type GRPC struct {
	Host string
	Port int
}

// Cache configures the order and menu cache.
type Cache struct {
	Enabled bool
	Driver  string
	// DefaultTTL applies to cached orders.
	DefaultTTL time.Duration
	MenuTTL    time.Duration
	Prefix     string
	Redis      Redis
}

// Redis contains redis-specific connection settings.
type Redis struct {
	Addr     string
	Password string
	DB       int
}

// Messaging configures the bus carrying order events.
type Messaging struct {
	Driver        string
	Enabled       bool
	Kafka         Kafka
	ConsumerGroup string
	Workers       Worker
}

// Kafka holds Kafka connection details.
type Kafka struct {
	Brokers        []string
	ClientID       string
	Topic          string
	CommitInterval time.Duration
	MinBytes       int
	MaxBytes       int
	ConnectTimeout time.Duration
	WriteTimeout   time.Duration
}

// Worker configures the audit trail consumers.
type Worker struct {
	Enabled     bool
	Concurrency int
	// MaxBackoff caps the delay between reconnect attempts after a consume failure.
	MaxBackoff time.Duration
	// MaxAttempts bounds handler retries for one message before it is skipped.
	MaxAttempts int
}

// Database holds primary and read replica connection settings.
type Database struct {
	Driver          string
	WriterDSN       string
	ReaderDSN       string
	MaxOpenConns    int
	MaxIdleConns    int
	MaxConnLifetime time.Duration
}

// Observability contains logging, tracing, and metrics configuration.
type Observability struct {
	ServiceName      string
	Environment      string
	LogLevel         string
	LogEncoding      string
	EnableTracing    bool
	TraceExporter    string
	TraceEndpoint    string
	TraceInsecure    bool
	TraceSampleRatio float64
	EnableMetrics    bool
	MetricsExporter  string
	PrometheusPath   string
}

// Orders holds the order lifecycle rules.
type Orders struct {
	// LockWindow is how long a completed and paid order stays editable after its last update.
	LockWindow time.Duration
	// HistoryWindow is how long a settled order stays visible in a table's history.
	HistoryWindow time.Duration
	HistoryLimit  int
	// StrictTransitions enforces forward-only status changes; false accepts any valid status.
	StrictTransitions bool
	StorageTimeout    time.Duration
}

// Auth configures staff token verification.
type Auth struct {
	JWTSecret string
	TokenTTL  time.Duration
}

// RateLimit configures the per-client request limiter.
type RateLimit struct {
	Enabled           bool
	RequestsPerSecond float64
	Burst             int
}

// Config wraps all application configuration knobs.
type Config struct {
	HTTP          HTTP
	GRPC          GRPC
	Cache         Cache
	Messaging     Messaging
	Database      Database
	Observability Observability
	Orders        Orders
	Auth          Auth
	RateLimit     RateLimit
}

// Module wires the configuration loader into the Fx graph.
var Module = fx.Provide(New)

var loadEnvOnce sync.Once

// New builds a Config from the environment, reading a local .env file first if present.
func New() (Config, error) {
	loadEnvOnce.Do(func() {
		_ = godotenv.Load()
	})

	cfg := Config{
		HTTP:          loadHTTP(),
		GRPC:          loadGRPC(),
		Cache:         loadCache(),
		Messaging:     loadMessaging(),
		Database:      loadDatabase(),
		Observability: loadObservability(),
		Orders:        loadOrders(),
		Auth:          loadAuth(),
		RateLimit:     loadRateLimit(),
	}
	if err := cfg.normalize(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
