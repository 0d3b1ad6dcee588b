package config

import (
	"fmt"
	"os"
	"strings"
)

// Config holds application configuration
type Config struct {
	Port     string
	DBConn   string
	LogLevel string

	JWTSecret         string
	AdminUsername     string
	AdminPasswordHash string

	INEGIURL       string
	INEGIAPIKey    string
	INEGIIndicator string
	INEGIFormat    string

	// UMARefreshSchedule is a cron spec; empty disables scheduled refreshes.
	UMARefreshSchedule string

	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	SenderEmail  string
	NotifyEmail  string
}

// NewConfig loads configuration from environment variables
func NewConfig() (*Config, error) {
	cfg := &Config{
		Port:               getEnv("PORT", "8080"),
		DBConn:             getEnv("DB_CONN", "host=localhost port=5436 user=test password=test dbname=vouchers sslmode=disable"),
		LogLevel:           getEnv("LOG_LEVEL", "INFO"),
		JWTSecret:          getEnv("JWT_SECRET", "secret"),
		AdminUsername:      getEnv("ADMIN_USERNAME", "admin"),
		AdminPasswordHash:  getEnv("ADMIN_PASSWORD_HASH", ""),
		INEGIURL:           getEnv("INEGI_URL", "https://www.inegi.org.mx/app/api/indicadores/desarrolladores/jsonxml"),
		INEGIAPIKey:        getEnv("INEGI_API_KEY", ""),
		INEGIIndicator:     getEnv("INEGI_INDICATOR", "628194"),
		INEGIFormat:        strings.ToLower(getEnv("INEGI_FORMAT", "json")),
		UMARefreshSchedule: getEnv("UMA_REFRESH_SCHEDULE", "0 6 * * *"),
		SMTPHost:           getEnv("SMTP_HOST", ""),
		SMTPPort:           getEnv("SMTP_PORT", "587"),
		SMTPUsername:       getEnv("SMTP_USERNAME", ""),
		SMTPPassword:       getEnv("SMTP_PASSWORD", ""),
		SenderEmail:        getEnv("SENDER_EMAIL", ""),
		NotifyEmail:        getEnv("NOTIFY_EMAIL", ""),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks required values and enumerations
func (c *Config) Validate() error {
	if c.DBConn == "" {
		return fmt.Errorf("DB_CONN is required")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.INEGIFormat != "json" && c.INEGIFormat != "xml" {
		return fmt.Errorf("INEGI_FORMAT must be json or xml, got %q", c.INEGIFormat)
	}
	return nil
}

// INEGIEnabled reports whether the INEGI integration can be used
func (c *Config) INEGIEnabled() bool {
	return c.INEGIAPIKey != ""
}

// EmailEnabled reports whether SMTP notifications are configured
func (c *Config) EmailEnabled() bool {
	return c.SMTPHost != "" && c.SenderEmail != "" && c.NotifyEmail != ""
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}
