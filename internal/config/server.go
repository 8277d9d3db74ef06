package config

import (
	"fmt"
	"time"

	"github.com/tasktrack/platform/internal/domain"
	"github.com/tasktrack/platform/internal/env"
)

// ServerConfig holds all configuration for the HTTP server binary (the Task
// API orchestrator, component I).
type ServerConfig struct {
	Database        DatabaseConfig
	Redis           RedisConfig
	HTTP            HTTPConfig
	JWT             JWTConfig
	Kafka           KafkaConfig
	Pagination      PaginationConfig
	Observability   ObservabilityConfig
	Chat            ChatConfig
	FrontendURL     string        `env:"FRONTEND_URL"`
	ShutdownTimeout time.Duration `env:"APP_SHUTDOWN_TIMEOUT"`
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Host              string        `env:"APP_HTTP_HOST"`
	Port              string        `env:"APP_HTTP_PORT"`
	ReadTimeout       time.Duration `env:"APP_HTTP_READ_TIMEOUT"`
	WriteTimeout      time.Duration `env:"APP_HTTP_WRITE_TIMEOUT"`
	IdleTimeout       time.Duration `env:"APP_HTTP_IDLE_TIMEOUT"`
	ReadHeaderTimeout time.Duration `env:"APP_HTTP_READ_HEADER_TIMEOUT"`
	MaxHeaderBytes    int           `env:"APP_HTTP_MAX_HEADER_BYTES"`
	MaxBodyBytes      int64         `env:"APP_HTTP_MAX_BODY_BYTES"`

	TLSEnabled  bool   `env:"APP_TLS_ENABLED"`
	TLSCertFile string `env:"APP_TLS_CERT_FILE"`
	TLSKeyFile  string `env:"APP_TLS_KEY_FILE"`
}

// JWTConfig holds access-token issuance/verification configuration.
type JWTConfig struct {
	Secret      string        `env:"JWT_SECRET"`
	Algorithm   string        `env:"JWT_ALGORITHM"`
	ExpiryDays  int           `env:"JWT_EXPIRY_DAYS"`
	CacheTTL    time.Duration `env:"JWT_CACHE_TTL"`
	CacheMaxLen int           `env:"JWT_CACHE_MAX_ENTRIES"`
}

// Expiry converts ExpiryDays to a time.Duration for the token issuer.
func (c JWTConfig) Expiry() time.Duration {
	return time.Duration(c.ExpiryDays) * 24 * time.Hour
}

// Validate enforces FATAL_CONFIG: a server refuses to start without a JWT
// secret, since every authenticated request depends on it.
func (c *JWTConfig) Validate() error {
	if c.Secret == "" {
		return fmt.Errorf("%w: JWT_SECRET is required", domain.ErrFatalConfig)
	}
	if c.Algorithm == "" {
		c.Algorithm = "HS256"
	}
	if c.ExpiryDays == 0 {
		c.ExpiryDays = 30
	}
	if c.CacheTTL == 0 {
		c.CacheTTL = 5 * time.Minute
	}
	if c.CacheMaxLen == 0 {
		c.CacheMaxLen = 1000
	}
	return nil
}

// KafkaConfig holds event-backbone connection and topic-durability knobs.
type KafkaConfig struct {
	Brokers           []string      `env:"KAFKA_BROKERS"`
	ReplicationFactor int           `env:"KAFKA_REPLICATION_FACTOR"`
	RetentionMS       int64         `env:"KAFKA_RETENTION_MS"`
	ClientID          string        `env:"KAFKA_CLIENT_ID"`
	SASLUsername      string        `env:"KAFKA_SASL_USERNAME"`
	SASLPassword      string        `env:"KAFKA_SASL_PASSWORD"`
	TLSEnabled        bool          `env:"KAFKA_TLS_ENABLED"`
	DialTimeout       time.Duration `env:"KAFKA_DIAL_TIMEOUT"`
}

func (c *KafkaConfig) Validate() error {
	if len(c.Brokers) == 0 {
		return fmt.Errorf("%w: KAFKA_BROKERS is required", domain.ErrFatalConfig)
	}
	if c.ReplicationFactor == 0 {
		c.ReplicationFactor = 1
	}
	if c.DialTimeout == 0 {
		c.DialTimeout = 10 * time.Second
	}
	return nil
}

// RedisConfig holds the connection string for the shared dedup/decode-cache
// key-value surface.
type RedisConfig struct {
	URL string `env:"REDIS_URL"`
}

func (c *RedisConfig) Validate() error {
	if c.URL == "" {
		return fmt.Errorf("%w: REDIS_URL is required", domain.ErrFatalConfig)
	}
	return nil
}

// LoadServerConfig loads and validates server configuration from environment.
func LoadServerConfig() (*ServerConfig, error) {
	cfg := &ServerConfig{}

	if err := env.Load(cfg); err != nil {
		return nil, fmt.Errorf("failed to load server config: %w", err)
	}

	return cfg, nil
}
