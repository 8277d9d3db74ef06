package config

// ObservabilityConfig holds structured-logging/OTel export configuration,
// consumed by the same boot-time observability wiring across every binary.
type ObservabilityConfig struct {
	OTelEnabled bool   `env:"APP_OTEL_ENABLED"`
	ServiceName string `env:"OTEL_SERVICE_NAME"`
}
