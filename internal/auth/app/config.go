package app

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Issuer string // Issuer claim for session tokens (default: gatekey)

	DatabaseFile  string // Path to SQLite database file (default: ./gatekey.db)
	RedisAddr     string // Redis host:port for challenge and code records (default: localhost:6379)
	RedisPassword string // Optional Redis auth

	ChallengeTTL time.Duration // Lifetime of a pending choice challenge (default: 5m)
	CodeTTL      time.Duration // Lifetime of an issued one-time code (default: 5m)
	SessionTTL   time.Duration // Lifetime of issued session tokens (default: 1h)

	SMTPHost     string // SMTP relay for email codes; log sender when empty
	SMTPPort     int
	SMTPFrom     string
	SMTPUsername string
	SMTPPassword string

	OTLPEndpoint string // OTLP gRPC collector; tracing disabled when empty

	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

func LoadConfig() Config {
	return Config{
		Issuer: getEnvOrDefault("GATEKEY_ISSUER", "gatekey"),

		DatabaseFile:  getEnvOrDefault("GATEKEY_DATABASE_FILE", "gatekey.db"),
		RedisAddr:     getEnvOrDefault("GATEKEY_REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("GATEKEY_REDIS_PASSWORD"),

		ChallengeTTL: getEnvDurationOrDefault("GATEKEY_CHALLENGE_TTL", 5*time.Minute),
		CodeTTL:      getEnvDurationOrDefault("GATEKEY_CODE_TTL", 5*time.Minute),
		SessionTTL:   getEnvDurationOrDefault("GATEKEY_SESSION_TTL", time.Hour),

		SMTPHost:     os.Getenv("GATEKEY_SMTP_HOST"),
		SMTPPort:     getEnvIntOrDefault("GATEKEY_SMTP_PORT", 587),
		SMTPFrom:     os.Getenv("GATEKEY_SMTP_FROM"),
		SMTPUsername: os.Getenv("GATEKEY_SMTP_USERNAME"),
		SMTPPassword: os.Getenv("GATEKEY_SMTP_PASSWORD"),

		OTLPEndpoint: os.Getenv("GATEKEY_OTLP_ENDPOINT"),

		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	return defaultValue
}
