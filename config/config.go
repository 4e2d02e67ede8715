package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort  string
	DBPath      string
	Environment string
	// External judicial monitoring/search provider
	ProviderBaseURL   string
	ProviderAPIKey    string
	ProviderTimeoutMs int // Request timeout for provider calls
	// Webhook
	WebhookToken string
	// Background refresh
	RefreshCronSpec string
	RefreshTimezone string
	// Email (Resend)
	ResendAPIKey  string
	EmailFrom     string
	EmailFromName string
	EmailTestMode bool // When true, emails are logged to console instead of sent
	// Cloudflare R2 Storage (raw capture archive)
	R2AccountID       string
	R2AccessKeyID     string
	R2SecretAccessKey string
	R2BucketName      string
	ArchiveDir        string // Local fallback when R2 is not configured
}

func Load() *Config {
	// Load .env file (ignore error if not present - use system env vars)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	return &Config{
		ServerPort:        getEnv("SERVER_PORT", "8080"),
		DBPath:            getEnv("DB_PATH", "db/app.db"),
		Environment:       getEnv("ENVIRONMENT", "development"),
		ProviderBaseURL:   getEnv("PROVIDER_BASE_URL", "https://api.tribunais.example.com/v1"),
		ProviderAPIKey:    getEnv("PROVIDER_API_KEY", ""),
		ProviderTimeoutMs: getEnvInt("PROVIDER_TIMEOUT_MS", 60000),
		WebhookToken:      getEnv("WEBHOOK_TOKEN", ""),
		RefreshCronSpec:   getEnv("REFRESH_CRON_SPEC", "0 6 * * *"),
		RefreshTimezone:   getEnv("REFRESH_TIMEZONE", "America/Sao_Paulo"),
		ResendAPIKey:      getEnv("RESEND_API_KEY", ""),
		EmailFrom:         getEnv("EMAIL_FROM", "noreply@legaloffice.app"),
		EmailFromName:     getEnv("EMAIL_FROM_NAME", "Legal Office"),
		EmailTestMode:     getEnvBool("EMAIL_TEST_MODE", true), // Default true for safety
		R2AccountID:       getEnv("R2_ACCOUNT_ID", ""),
		R2AccessKeyID:     getEnv("R2_ACCESS_KEY_ID", ""),
		R2SecretAccessKey: getEnv("R2_SECRET_ACCESS_KEY", ""),
		R2BucketName:      getEnv("R2_BUCKET_NAME", ""),
		ArchiveDir:        getEnv("ARCHIVE_DIR", "data/captures"),
	}
}

// ProviderTimeout returns the provider call timeout as a duration
func (c *Config) ProviderTimeout() time.Duration {
	return time.Duration(c.ProviderTimeoutMs) * time.Millisecond
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	// Accept common boolean representations
	switch strings.ToLower(value) {
	case "true", "1", "yes", "on":
		return true
	case "false", "0", "no", "off":
		return false
	default:
		return defaultValue
	}
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Invalid integer for %s: %q, using default %d", key, value, defaultValue)
		return defaultValue
	}
	return n
}
