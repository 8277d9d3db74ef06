package config

import (
	"fmt"
	"time"

	"github.com/tasktrack/platform/internal/env"
)

// RecurringWorkerConfig holds configuration for the Recurring Generator
// consumer binary (component F).
type RecurringWorkerConfig struct {
	Database         DatabaseConfig
	Redis            RedisConfig
	Kafka            KafkaConfig
	Observability    ObservabilityConfig
	ConsumerGroup    string        `env:"APP_RECURRING_CONSUMER_GROUP"`
	OperationTimeout time.Duration `env:"APP_WORKER_OPERATION_TIMEOUT"`
}

func (c *RecurringWorkerConfig) Validate() error {
	if c.ConsumerGroup == "" {
		c.ConsumerGroup = "recurring-task-service-group"
	}
	if c.OperationTimeout == 0 {
		c.OperationTimeout = 30 * time.Second
	}
	return nil
}

// LoadRecurringWorkerConfig loads and validates the Recurring Generator's
// configuration from environment.
func LoadRecurringWorkerConfig() (*RecurringWorkerConfig, error) {
	cfg := &RecurringWorkerConfig{}
	if err := env.Load(cfg); err != nil {
		return nil, fmt.Errorf("failed to load recurring worker config: %w", err)
	}
	return cfg, nil
}

// ReminderConfig holds the Reminder Scheduler/Worker's cadence knobs (§4.G).
type ReminderConfig struct {
	CheckInterval time.Duration `env:"REMINDER_CHECK_INTERVAL"`
	EnableOverdue bool          `env:"REMINDER_ENABLE_OVERDUE"`
}

func (c *ReminderConfig) Validate() error {
	if c.CheckInterval == 0 {
		c.CheckInterval = 10 * time.Minute
	}
	return nil
}

// ReminderWorkerConfig holds configuration for the Reminder Service worker
// binary (component J).
type ReminderWorkerConfig struct {
	Database      DatabaseConfig
	Kafka         KafkaConfig
	Reminder      ReminderConfig
	Observability ObservabilityConfig
	HealthPort    string `env:"APP_HEALTH_PORT"`
}

func (c *ReminderWorkerConfig) Validate() error {
	if c.HealthPort == "" {
		c.HealthPort = "8081"
	}
	return nil
}

// LoadReminderWorkerConfig loads and validates the Reminder Service's
// configuration from environment.
func LoadReminderWorkerConfig() (*ReminderWorkerConfig, error) {
	cfg := &ReminderWorkerConfig{}
	if err := env.Load(cfg); err != nil {
		return nil, fmt.Errorf("failed to load reminder worker config: %w", err)
	}
	return cfg, nil
}
