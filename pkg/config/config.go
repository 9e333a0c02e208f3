package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string

	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Vendor pattern snapshot refresh
	PatternRefreshInterval time.Duration

	// Catalog enrichment
	EnrichTimeout    time.Duration
	SafiloCatalogURL string
	ScrapeUserAgent  string

	// Inbound webhook
	WebhookToken string

	// Optional Pub/Sub ingest events
	GoogleProjectID   string
	GoogleCredentials string
	PubSubTopic       string

	// Optional IMAP intake
	IMAPServer       string
	IMAPPort         string
	IMAPUsername     string
	IMAPPassword     string
	IMAPAccountID    string
	IMAPPollInterval time.Duration
}

func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	return &Config{
		Port: getEnv("PORT", "8080"),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "postgres"),
		DBName:     getEnv("DB_NAME", "optiledger"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		PatternRefreshInterval: getDuration("PATTERN_REFRESH_INTERVAL", 5*time.Minute),

		EnrichTimeout:    getDuration("ENRICH_TIMEOUT", 5*time.Second),
		SafiloCatalogURL: getEnv("SAFILO_CATALOG_URL", "https://www.mysafilo.com"),
		ScrapeUserAgent:  getEnv("SCRAPE_USER_AGENT", "optiledger-catalog/1.0"),

		WebhookToken: getEnv("WEBHOOK_TOKEN", ""),

		GoogleProjectID:   getEnv("GOOGLE_PROJECT_ID", ""),
		GoogleCredentials: getEnv("GOOGLE_APPLICATION_CREDENTIALS", ""),
		PubSubTopic:       getEnv("PUBSUB_TOPIC", "ingest-events"),

		IMAPServer:       getEnv("IMAP_SERVER", ""),
		IMAPPort:         getEnv("IMAP_PORT", "993"),
		IMAPUsername:     getEnv("IMAP_USERNAME", ""),
		IMAPPassword:     getEnv("IMAP_PASSWORD", ""),
		IMAPAccountID:    getEnv("IMAP_ACCOUNT_ID", ""),
		IMAPPollInterval: getDuration("IMAP_POLL_INTERVAL", 2*time.Minute),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
