package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// This function will Load the ENVIORNMENT VARIABLES from .env if GO_ENV variable is not set
func LoadENV() error {
	goEnv := os.Getenv("GO_ENV")

	if goEnv == "" || goEnv == "development" {
		err := godotenv.Load()
		if err != nil && !os.IsNotExist(err) {
			return err
		}
	}

	return nil
}

type EnviornmentVariable struct {
	// All variables
	GO_ENV    string
	PORT      int
	BIND_ADDR string
	LOG_LEVEL string
	// Database Configuration
	DB_DRIVER    string
	DB_PATH      string
	DB_USER_NAME string
	DB_PASSWORD  string
	DB_NAME      string
	DB_HOST      string
	DB_PORT      string
	DB_SSL_MODE  string
	// Redis Configuration
	REDIS_URL        string
	EXPORT_CACHE_TTL time.Duration
	// DigitalOcean Spaces Configuration
	DO_SPACES_KEY      string
	DO_SPACES_SECRET   string
	DO_SPACES_BUCKET   string
	DO_SPACES_REGION   string
	DO_SPACES_ENDPOINT string
	DO_SPACES_CDN_URL  string
	// Scheduled jobs
	CRON_ENABLED bool
	// CORS
	ALLOWED_ORIGINS string
}

func Get() (*EnviornmentVariable, error) {

	port, err := strconv.Atoi(os.Getenv("PORT"))
	if err != nil {
		port = 8080
	}

	cacheTTL, err := time.ParseDuration(os.Getenv("EXPORT_CACHE_TTL"))
	if err != nil || cacheTTL <= 0 {
		cacheTTL = 10 * time.Minute
	}

	cronEnabled, err := strconv.ParseBool(os.Getenv("CRON_ENABLED"))
	if err != nil {
		cronEnabled = true
	}

	envVariables := &EnviornmentVariable{
		GO_ENV:    os.Getenv("GO_ENV"),
		PORT:      port,
		BIND_ADDR: getOrDefault("BIND_ADDR", "127.0.0.1"),
		LOG_LEVEL: strings.ToLower(getOrDefault("LOG_LEVEL", "info")),
		// Database
		DB_DRIVER:    strings.ToLower(getOrDefault("DB_DRIVER", "sqlite")),
		DB_PATH:      getOrDefault("DB_PATH", "shortlist.db"),
		DB_USER_NAME: os.Getenv("DB_USER_NAME"),
		DB_PASSWORD:  os.Getenv("DB_PASSWORD"),
		DB_NAME:      os.Getenv("DB_NAME"),
		DB_HOST:      getOrDefault("DB_HOST", "localhost"),
		DB_PORT:      getOrDefault("DB_PORT", "5432"),
		DB_SSL_MODE:  getOrDefault("DB_SSL_MODE", "disable"),
		// Redis
		REDIS_URL:        os.Getenv("REDIS_URL"),
		EXPORT_CACHE_TTL: cacheTTL,
		// DigitalOcean Spaces
		DO_SPACES_KEY:      os.Getenv("DO_SPACES_KEY"),
		DO_SPACES_SECRET:   os.Getenv("DO_SPACES_SECRET"),
		DO_SPACES_BUCKET:   os.Getenv("DO_SPACES_BUCKET"),
		DO_SPACES_REGION:   getOrDefault("DO_SPACES_REGION", "blr1"),
		DO_SPACES_ENDPOINT: os.Getenv("DO_SPACES_ENDPOINT"),
		DO_SPACES_CDN_URL:  os.Getenv("DO_SPACES_CDN_URL"),
		// Cron
		CRON_ENABLED: cronEnabled,
		// CORS
		ALLOWED_ORIGINS: getOrDefault("ALLOWED_ORIGINS", "http://localhost:3000,http://127.0.0.1:3000"),
	}

	return envVariables, nil
}

// SpacesConfigured reports whether object storage credentials are present
func (e *EnviornmentVariable) SpacesConfigured() bool {
	return e.DO_SPACES_KEY != "" && e.DO_SPACES_SECRET != "" && e.DO_SPACES_BUCKET != ""
}

func getOrDefault(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
