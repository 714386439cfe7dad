package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port                  string   `mapstructure:"PORT"`
	Env                   string   `mapstructure:"ENV"`
	DatabaseURL           string   `mapstructure:"DATABASE_URL"`
	DBMaxConns            int32    `mapstructure:"DB_MAX_CONNS"`
	DBMinConns            int32    `mapstructure:"DB_MIN_CONNS"`
	BillingServiceURL     string   `mapstructure:"BILLING_SERVICE_URL"`
	BillingTimeoutSeconds int      `mapstructure:"BILLING_TIMEOUT_SECONDS"`
	KafkaBrokers          []string `mapstructure:"KAFKA_BROKERS"`
	KafkaPatientTopic     string   `mapstructure:"KAFKA_PATIENT_TOPIC"`
	CORSOrigins           []string `mapstructure:"CORS_ORIGINS"`
	RequestTimeoutSeconds int      `mapstructure:"REQUEST_TIMEOUT_SECONDS"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("DB_MAX_CONNS", 20)
	v.SetDefault("DB_MIN_CONNS", 5)
	v.SetDefault("BILLING_SERVICE_URL", "http://localhost:9001")
	v.SetDefault("BILLING_TIMEOUT_SECONDS", 5)
	v.SetDefault("KAFKA_PATIENT_TOPIC", "patient")
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("REQUEST_TIMEOUT_SECONDS", 30)

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("PORT")
	v.BindEnv("ENV")
	v.BindEnv("DATABASE_URL")
	v.BindEnv("DB_MAX_CONNS")
	v.BindEnv("DB_MIN_CONNS")
	v.BindEnv("BILLING_SERVICE_URL")
	v.BindEnv("BILLING_TIMEOUT_SECONDS")
	v.BindEnv("KAFKA_BROKERS")
	v.BindEnv("KAFKA_PATIENT_TOPIC")
	v.BindEnv("CORS_ORIGINS")
	v.BindEnv("REQUEST_TIMEOUT_SECONDS")

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	// Comma-separated list values arrive as plain strings from env vars.
	if cfg.CORSOrigins == nil {
		if origins := v.GetString("CORS_ORIGINS"); origins != "" {
			cfg.CORSOrigins = strings.Split(origins, ",")
		}
	}
	if cfg.KafkaBrokers == nil {
		if brokers := v.GetString("KAFKA_BROKERS"); brokers != "" {
			cfg.KafkaBrokers = strings.Split(brokers, ",")
		}
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// BillingTimeout returns the billing call timeout as a duration.
func (c *Config) BillingTimeout() time.Duration {
	return time.Duration(c.BillingTimeoutSeconds) * time.Second
}

// RequestTimeout returns the per-request HTTP timeout as a duration.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// Validate checks that the configuration is safe to run with.
func (c *Config) Validate() error {
	if c.BillingServiceURL == "" {
		return fmt.Errorf("BILLING_SERVICE_URL is required")
	}
	if c.BillingTimeoutSeconds <= 0 {
		return fmt.Errorf("BILLING_TIMEOUT_SECONDS must be positive, got %d", c.BillingTimeoutSeconds)
	}
	if c.RequestTimeoutSeconds <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT_SECONDS must be positive, got %d", c.RequestTimeoutSeconds)
	}
	if len(c.KafkaBrokers) > 0 && c.KafkaPatientTopic == "" {
		return fmt.Errorf("KAFKA_PATIENT_TOPIC is required when KAFKA_BROKERS is set")
	}
	return nil
}
