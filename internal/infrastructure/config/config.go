package config

import (
	"errors"
	"fmt"

	"github.com/caarlos0/env/v10"
)

// Config holds all configuration for the risk service.
type Config struct {
	GRPCPort    string `env:"GRPC_PORT" envDefault:"9090"`
	HTTPPort    string `env:"HTTP_PORT" envDefault:"8080"`
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat   string `env:"LOG_FORMAT" envDefault:"json"`

	Kafka     KafkaConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
	Tracing   TracingConfig
	TLS       TLSConfig

	GRPCReflection bool `env:"GRPC_REFLECTION" envDefault:"false"`
}

// KafkaConfig controls event publishing and application intake.
type KafkaConfig struct {
	Brokers           []string `env:"KAFKA_BROKERS" envSeparator:"," envDefault:"localhost:9092"`
	EventsTopic       string   `env:"KAFKA_EVENTS_TOPIC" envDefault:"risk.events"`
	ApplicationsTopic string   `env:"KAFKA_APPLICATIONS_TOPIC" envDefault:"risk.applications"`
	ConsumerGroup     string   `env:"KAFKA_CONSUMER_GROUP" envDefault:"risk-service"`
	SASLUsername      string   `env:"KAFKA_SASL_USERNAME"`
	SASLPassword      string   `env:"KAFKA_SASL_PASSWORD"`
	SASLMechanism     string   `env:"KAFKA_SASL_MECHANISM" envDefault:"SCRAM-SHA-512"`
	PublishEnabled    bool     `env:"KAFKA_PUBLISH_ENABLED" envDefault:"false"`
	ConsumeEnabled    bool     `env:"KAFKA_CONSUME_ENABLED" envDefault:"false"`
	TLSEnabled        bool     `env:"KAFKA_TLS_ENABLED" envDefault:"false"`
}

// AuthConfig controls JWT validation on both transports.
type AuthConfig struct {
	JWTSecret        string `env:"JWT_SECRET"`
	JWTPublicKeyPath string `env:"JWT_PUBLIC_KEY_PATH"`
	JWTIssuer        string `env:"JWT_ISSUER" envDefault:"customer-risk-analysis"`
	Enabled          bool   `env:"AUTH_ENABLED" envDefault:"false"`
}

type RateLimitConfig struct {
	RequestsPerSecond float64 `env:"RATE_LIMIT_RPS" envDefault:"20"`
	Burst             int     `env:"RATE_LIMIT_BURST" envDefault:"40"`
}

type TracingConfig struct {
	Endpoint   string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"localhost:4317"`
	SampleRate float64 `env:"OTEL_TRACES_SAMPLE_RATE" envDefault:"1"`
	Enabled    bool    `env:"TRACING_ENABLED" envDefault:"false"`
}

type TLSConfig struct {
	CertFile string `env:"TLS_CERT_FILE"`
	KeyFile  string `env:"TLS_KEY_FILE"`
}

// Enabled reports whether both certificate and key are configured.
func (t TLSConfig) Enabled() bool {
	return t.CertFile != "" && t.KeyFile != ""
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks cross-field constraints env tags cannot express.
func (c *Config) Validate() error {
	if c.Auth.Enabled && c.Auth.JWTSecret == "" && c.Auth.JWTPublicKeyPath == "" {
		return errors.New("AUTH_ENABLED requires JWT_SECRET or JWT_PUBLIC_KEY_PATH")
	}
	if (c.Kafka.PublishEnabled || c.Kafka.ConsumeEnabled) && len(c.Kafka.Brokers) == 0 {
		return errors.New("kafka is enabled but KAFKA_BROKERS is empty")
	}
	if c.RateLimit.RequestsPerSecond < 0 || c.RateLimit.Burst < 0 {
		return errors.New("rate limit settings must not be negative")
	}
	return nil
}

// GRPCAddress returns the full gRPC listen address.
func (c *Config) GRPCAddress() string {
	return fmt.Sprintf(":%s", c.GRPCPort)
}

// HTTPAddress returns the full HTTP listen address.
func (c *Config) HTTPAddress() string {
	return fmt.Sprintf(":%s", c.HTTPPort)
}
