package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server       ServerConfig
	Database     DatabaseConfig
	Redis        RedisConfig
	Kafka        KafkaConfig
	Stripe       StripeConfig
	Registration RegistrationConfig
}

type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

type DatabaseConfig struct {
	Host         string
	Port         string
	Username     string
	Password     string
	Database     string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  time.Duration
}

type RedisConfig struct {
	Addr string
}

type KafkaConfig struct {
	Brokers []string
	Topic   string
	Enabled bool
}

type StripeConfig struct {
	SecretKey     string
	WebhookSecret string
	Currency      string
	// CallTimeout bounds every call to the processor so the orchestrator can
	// fail an attempt cleanly instead of leaving it ambiguously pending.
	CallTimeout time.Duration
	MaxRetries  int
}

type RegistrationConfig struct {
	// PendingTTL is the payment window. A reserved registration older than
	// this releases its capacity slot.
	PendingTTL time.Duration
	// SweepInterval is how often the background expiry sweep runs.
	SweepInterval time.Duration
	// TicketSecret keys the HMAC embedded in ticket QR payloads.
	TicketSecret string
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 5 * time.Second,
		},
		Database: DatabaseConfig{
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnv("DB_PORT", "5432"),
			Username:     getEnv("DB_USERNAME", "registration_user"),
			Password:     getEnv("DB_PASSWORD", "registration_pass"),
			Database:     getEnv("DB_NAME", "registration"),
			MaxOpenConns: getEnvInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns: getEnvInt("DB_MAX_IDLE_CONNS", 25),
			MaxLifetime:  time.Duration(getEnvInt("DB_MAX_LIFETIME_MINUTES", 5)) * time.Minute,
		},
		Redis: RedisConfig{
			Addr: getEnv("REDIS_ADDR", "localhost:6379"),
		},
		Kafka: KafkaConfig{
			Brokers: []string{getEnv("KAFKA_BROKERS", "localhost:9092")},
			Topic:   getEnv("KAFKA_TOPIC_REGISTRATIONS", "registration-events"),
			Enabled: getEnvBool("KAFKA_ENABLED", false),
		},
		Stripe: StripeConfig{
			SecretKey:     getEnv("STRIPE_SECRET_KEY", ""),
			WebhookSecret: getEnv("STRIPE_WEBHOOK_SECRET", ""),
			Currency:      getEnv("STRIPE_CURRENCY", "usd"),
			CallTimeout:   time.Duration(getEnvInt("STRIPE_TIMEOUT_SECONDS", 10)) * time.Second,
			MaxRetries:    getEnvInt("STRIPE_MAX_RETRIES", 3),
		},
		Registration: RegistrationConfig{
			PendingTTL:    time.Duration(getEnvInt("PENDING_TTL_MINUTES", 30)) * time.Minute,
			SweepInterval: time.Duration(getEnvInt("SWEEP_INTERVAL_MINUTES", 5)) * time.Minute,
			TicketSecret:  getEnv("TICKET_SECRET", "dev-ticket-secret"),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
