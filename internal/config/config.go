package config

import (
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// StoreDriver selects the relational store: "postgres" or "memory".
	StoreDriver  string
	StoreTimeout time.Duration

	// JWT
	JWTSecret        string
	JWTAccessExpiry  time.Duration
	JWTRefreshExpiry time.Duration

	// Reminders are bucketed by calendar day in this zone.
	Timezone string

	// Blob storage
	BlobBackend            string
	UploadDir              string
	UploadBaseURL          string
	AzureStorageAccountURL string
	AzureStorageContainer  string

	// Monitoring
	SentryDSN  string
	AppEnv     string
	AdminToken string

	// Server
	Port        string
	CORSOrigins string
}

// Load reads the environment. A .env file in the working directory, when
// present, fills variables that are not already set.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to read .env file", "error", err)
	}

	return &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "broker_crm"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		StoreDriver:  strings.ToLower(getEnv("STORE_DRIVER", "postgres")),
		StoreTimeout: parseDuration(getEnv("STORE_TIMEOUT", "5s"), 5*time.Second),

		JWTSecret:        getEnv("JWT_SECRET", ""),
		JWTAccessExpiry:  parseDuration(getEnv("JWT_ACCESS_EXPIRY", "15m"), 15*time.Minute),
		JWTRefreshExpiry: parseDuration(getEnv("JWT_REFRESH_EXPIRY", "168h"), 168*time.Hour),

		Timezone: getEnv("TIMEZONE", "Local"),

		BlobBackend:            strings.ToLower(getEnv("BLOB_BACKEND", "local")),
		UploadDir:              getEnv("UPLOAD_DIR", "public/uploads/boats"),
		UploadBaseURL:          getEnv("UPLOAD_BASE_URL", "/uploads/boats"),
		AzureStorageAccountURL: getEnv("AZURE_STORAGE_ACCOUNT_URL", ""),
		AzureStorageContainer:  getEnv("AZURE_STORAGE_CONTAINER", "boats"),

		SentryDSN:  getEnv("SENTRY_DSN", ""),
		AppEnv:     getEnv("APP_ENV", "development"),
		AdminToken: getEnv("ADMIN_TOKEN", ""),

		Port:        getEnv("PORT", "8080"),
		CORSOrigins: getEnv("CORS_ORIGINS", "*"),
	}
}

func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}

// Location resolves Timezone, falling back to the process zone.
func (c *Config) Location() *time.Location {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		slog.Warn("unknown TIMEZONE, using local zone", "timezone", c.Timezone, "error", err)
		return time.Local
	}
	return loc
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
