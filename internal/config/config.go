package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port    string
	GinMode string

	// Database
	DatabaseURL       string
	DBMaxOpenConns    int
	DBMaxIdleConns    int
	DBConnMaxIdleTime int // in minutes
	DBConnMaxLifetime int // in minutes

	// Orchestrator backend (chunked stream endpoint)
	OrchestratorURL          string
	StreamReadTimeoutMinutes int

	// Records API base URL used by the save orchestrator.
	// Defaults to this server's own address so saves loop back locally.
	RecordsAPIURL string

	// Event bus
	NatsURL string

	// Session retention
	SessionRetentionDays int
	RetentionCronSpec    string

	// Classifier
	ClassifierConfigPath string

	// CORS
	CORSAllowedOrigins string

	// Server
	ServerShutdownTimeoutSeconds int

	// Logging
	LogLevel  string
	LogFormat string
}

var AppConfig *Config

func LoadConfig() {
	// Load .env file if it exists
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	AppConfig = &Config{
		Port:    getEnvOrDefault("PORT", "8080"),
		GinMode: getEnvOrDefault("GIN_MODE", "release"),

		// Database
		DatabaseURL:       getEnvOrDefault("DATABASE_URL", "postgres://localhost/lifeos?sslmode=disable"),
		DBMaxOpenConns:    getEnvIntOrDefault("DB_MAX_OPEN_CONNS", 25),
		DBMaxIdleConns:    getEnvIntOrDefault("DB_MAX_IDLE_CONNS", 5),
		DBConnMaxIdleTime: getEnvIntOrDefault("DB_CONN_MAX_IDLE_TIME", 5),
		DBConnMaxLifetime: getEnvIntOrDefault("DB_CONN_MAX_LIFETIME", 30),

		// Orchestrator
		OrchestratorURL:          getEnvOrDefault("ORCHESTRATOR_URL", "http://localhost:8000/api/chat/stream/"),
		StreamReadTimeoutMinutes: getEnvIntOrDefault("STREAM_READ_TIMEOUT_MINUTES", 10),

		RecordsAPIURL: getEnvOrDefault("RECORDS_API_URL", ""),

		// NATS (optional - event publishing disabled when empty)
		NatsURL: getEnvOrDefault("NATS_URL", ""),

		// Retention
		SessionRetentionDays: getEnvIntOrDefault("SESSION_RETENTION_DAYS", 90),
		RetentionCronSpec:    getEnvOrDefault("RETENTION_CRON_SPEC", "0 4 * * *"),

		// Classifier (empty path = compiled-in defaults)
		ClassifierConfigPath: getEnvOrDefault("CLASSIFIER_CONFIG_PATH", ""),

		// CORS
		CORSAllowedOrigins: getEnvOrDefault("CORS_ALLOWED_ORIGINS", "*"),

		// Server
		ServerShutdownTimeoutSeconds: getEnvIntOrDefault("SERVER_SHUTDOWN_TIMEOUT_SECONDS", 30),

		// Logging
		LogLevel:  getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat: getEnvOrDefault("LOG_FORMAT", ""),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
		log.Printf("Invalid integer for %s, using default %d", key, defaultValue)
	}
	return defaultValue
}
