package config

import (
	"os"
	"strings"
	"time"
)

// Config is the storefront's runtime configuration, loaded from environment
// variables with development defaults. PAYMENT_GATEWAY_KEY has no default:
// main fails fast without it.
type Config struct {
	HTTPPort string

	// BackendBaseURL is the backend API the collaborator clients talk to.
	BackendBaseURL string

	// RedisAddr is optional; when empty, carts live in process memory only.
	RedisAddr     string
	RedisPassword string

	// KafkaBrokers is optional; when empty, lifecycle events are disabled.
	KafkaBrokers []string
	KafkaTopic   string

	// PaymentGatewayKey is the public key the hosted widget is opened with.
	PaymentGatewayKey string

	RequestTimeout  time.Duration
	WidgetTTL       time.Duration
	SweepInterval   time.Duration
	ShutdownTimeout time.Duration
}

func Load() *Config {
	cfg := &Config{
		HTTPPort:          getEnv("HTTP_PORT", "8080"),
		BackendBaseURL:    getEnv("BACKEND_BASE_URL", "http://localhost:5000/api"),
		RedisAddr:         os.Getenv("REDIS_ADDR"),
		RedisPassword:     os.Getenv("REDIS_PASSWORD"),
		KafkaTopic:        getEnv("KAFKA_TOPIC", "storefront-events"),
		PaymentGatewayKey: os.Getenv("PAYMENT_GATEWAY_KEY"),
		RequestTimeout:    30 * time.Second,
		WidgetTTL:         15 * time.Minute,
		SweepInterval:     time.Minute,
		ShutdownTimeout:   5 * time.Second,
	}

	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		cfg.KafkaBrokers = strings.Split(brokers, ",")
	}
	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
