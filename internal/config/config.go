package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/nikolayk812/foodcart/internal/database"
)

type Config struct {
	ServiceName string `env:"SERVICE_NAME" envDefault:"foodcart"`
	HTTPAddr    string `env:"HTTP_ADDR" envDefault:":8080"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// StoreBackend selects postgres or memory for products, orders and customers.
	StoreBackend string `env:"STORE_BACKEND" envDefault:"postgres"`
	// CartBackend selects redis or memory for session carts.
	CartBackend string `env:"CART_BACKEND" envDefault:"redis"`

	Postgres database.PostgresConfig `envPrefix:"POSTGRES_"`
	Redis    RedisConfig             `envPrefix:"REDIS_"`
	Kafka    KafkaConfig             `envPrefix:"KAFKA_"`
	Checkout CheckoutConfig          `envPrefix:"CHECKOUT_"`

	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"15s"`
}

type RedisConfig struct {
	Addr     string        `env:"ADDR" envDefault:"localhost:6379"`
	Password string        `env:"PASSWORD"`
	DB       int           `env:"DB" envDefault:"0"`
	CartTTL  time.Duration `env:"CART_TTL" envDefault:"30m"`
}

type KafkaConfig struct {
	// Brokers is empty when event publishing is disabled.
	Brokers []string `env:"BROKERS" envSeparator:","`
}

type CheckoutConfig struct {
	LowStockThreshold           int           `env:"LOW_STOCK_THRESHOLD" envDefault:"5"`
	CompensationInitialInterval time.Duration `env:"COMPENSATION_INITIAL_INTERVAL" envDefault:"100ms"`
	CompensationMaxInterval     time.Duration `env:"COMPENSATION_MAX_INTERVAL" envDefault:"5s"`
	// CompensationMaxElapsed of zero retries compensation until it succeeds.
	CompensationMaxElapsed time.Duration `env:"COMPENSATION_MAX_ELAPSED" envDefault:"0s"`
}

func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("env.Parse: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) validate() error {
	switch c.StoreBackend {
	case "postgres", "memory":
	default:
		return fmt.Errorf("STORE_BACKEND[%s] must be postgres or memory", c.StoreBackend)
	}

	switch c.CartBackend {
	case "redis", "memory":
	default:
		return fmt.Errorf("CART_BACKEND[%s] must be redis or memory", c.CartBackend)
	}

	if c.Checkout.LowStockThreshold < 0 {
		return fmt.Errorf("CHECKOUT_LOW_STOCK_THRESHOLD[%d] must not be negative", c.Checkout.LowStockThreshold)
	}

	return nil
}
