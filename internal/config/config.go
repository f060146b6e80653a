package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Default trusted proxies cover loopback and RFC1918 ranges, which is where a
// reverse proxy in front of this service normally lives.
const defaultTrustedProxies = "127.0.0.1,::1,10.0.0.0/8,172.16.0.0/12,192.168.0.0/16"

// Config holds all application configuration
type Config struct {
	Port string

	// Storage backend
	DatabaseType string // "sqlite" or "postgres"
	DBPath       string // SQLite file path
	DatabaseURL  string // PostgreSQL connection string
	MaxDBConns   int    // PostgreSQL pool size (0 = driver default)

	// Rate limiting
	RateLimitMessages      int    // Accepted submissions per client per window
	RateLimitWindowDays    int    // Rolling window length
	RateLimitFailMode      string // "open" or "closed" - behavior on store errors
	CleanupIntervalMinutes int    // Expired-record sweep interval

	// Client identity / trust boundary
	TrustProxyHeaders string // "true", "false", or "auto"
	TrustedProxyIPs   string // Comma-separated IPs/CIDR ranges

	// Email dispatch
	MailProvider string // "resend" or "smtp"
	ResendAPIKey string
	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPass     string
	SMTPSSL      bool
	MailFrom     string
	OwnerEmail   string

	// Links used in the auto-reply
	SiteURL      string
	PortfolioURL string
	InstagramURL string
}

// Load reads configuration from environment variables with sensible defaults
func Load() (*Config, error) {
	cfg := &Config{
		Port:                   getEnv("PORT", "8080"),
		DatabaseType:           strings.ToLower(getEnv("DATABASE_TYPE", "sqlite")),
		DBPath:                 getEnv("DB_PATH", "./shotbypascual.db"),
		DatabaseURL:            getEnv("DATABASE_URL", ""),
		MaxDBConns:             getEnvInt("MAX_DB_CONNS", 0),
		RateLimitMessages:      getEnvInt("RATE_LIMIT_MESSAGES", 10),
		RateLimitWindowDays:    getEnvInt("RATE_LIMIT_WINDOW_DAYS", 30),
		RateLimitFailMode:      strings.ToLower(getEnv("RATE_LIMIT_FAIL_MODE", "open")),
		CleanupIntervalMinutes: getEnvInt("CLEANUP_INTERVAL_MINUTES", 60),
		TrustProxyHeaders:      strings.ToLower(getEnv("TRUST_PROXY_HEADERS", "auto")),
		TrustedProxyIPs:        getEnv("TRUSTED_PROXY_IPS", defaultTrustedProxies),
		MailProvider:           strings.ToLower(getEnv("MAIL_PROVIDER", "resend")),
		ResendAPIKey:           getEnv("RESEND_API_KEY", ""),
		SMTPHost:               getEnv("SMTP_HOST", ""),
		SMTPPort:               getEnvInt("SMTP_PORT", 587),
		SMTPUser:               getEnv("SMTP_USER", ""),
		SMTPPass:               getEnv("SMTP_PASS", ""),
		SMTPSSL:                getEnvBool("SMTP_SSL", false),
		MailFrom:               getEnv("MAIL_FROM", "ShotByPascual <noreply@shotbypascual.com>"),
		OwnerEmail:             getEnv("OWNER_EMAIL", "gabepmedia@gmail.com"),
		SiteURL:                getEnv("SITE_URL", "https://shotbypascual.com"),
		PortfolioURL:           getEnv("PORTFOLIO_URL", "https://shotbypascual.com/portfolio"),
		InstagramURL:           getEnv("INSTAGRAM_URL", "https://instagram.com/shotbypascual"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// RateLimitWindow returns the rolling window as a duration.
func (c *Config) RateLimitWindow() time.Duration {
	return time.Duration(c.RateLimitWindowDays) * 24 * time.Hour
}

// FailOpen reports whether rate-limit store errors should let requests through.
func (c *Config) FailOpen() bool {
	return c.RateLimitFailMode != "closed"
}

// validate ensures configuration values are sensible
func (c *Config) validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}

	switch c.DatabaseType {
	case "sqlite":
		if c.DBPath == "" {
			return fmt.Errorf("DB_PATH cannot be empty when DATABASE_TYPE is sqlite")
		}
	case "postgres":
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required when DATABASE_TYPE is postgres")
		}
	default:
		return fmt.Errorf("DATABASE_TYPE must be 'sqlite' or 'postgres', got %q", c.DatabaseType)
	}

	if c.RateLimitMessages <= 0 {
		return fmt.Errorf("RATE_LIMIT_MESSAGES must be positive, got %d", c.RateLimitMessages)
	}

	if c.RateLimitWindowDays <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW_DAYS must be positive, got %d", c.RateLimitWindowDays)
	}

	if c.RateLimitFailMode != "open" && c.RateLimitFailMode != "closed" {
		return fmt.Errorf("RATE_LIMIT_FAIL_MODE must be 'open' or 'closed', got %q", c.RateLimitFailMode)
	}

	if c.CleanupIntervalMinutes <= 0 {
		return fmt.Errorf("CLEANUP_INTERVAL_MINUTES must be positive, got %d", c.CleanupIntervalMinutes)
	}

	switch c.TrustProxyHeaders {
	case "true", "false", "auto":
	default:
		return fmt.Errorf("TRUST_PROXY_HEADERS must be 'true', 'false', or 'auto', got %q", c.TrustProxyHeaders)
	}

	switch c.MailProvider {
	case "resend":
		if c.ResendAPIKey == "" {
			return fmt.Errorf("RESEND_API_KEY is required when MAIL_PROVIDER is resend")
		}
	case "smtp":
		if c.SMTPHost == "" {
			return fmt.Errorf("SMTP_HOST is required when MAIL_PROVIDER is smtp")
		}
		if c.SMTPPort <= 0 || c.SMTPPort > 65535 {
			return fmt.Errorf("SMTP_PORT must be a valid port, got %d", c.SMTPPort)
		}
	default:
		return fmt.Errorf("MAIL_PROVIDER must be 'resend' or 'smtp', got %q", c.MailProvider)
	}

	if c.MailFrom == "" {
		return fmt.Errorf("MAIL_FROM cannot be empty")
	}

	if c.OwnerEmail == "" {
		return fmt.Errorf("OWNER_EMAIL cannot be empty")
	}

	return nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt retrieves an integer environment variable or returns a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvBool retrieves a boolean environment variable or returns a default value
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
