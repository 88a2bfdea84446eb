package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	// Environment
	Env string // "development", "production", etc.

	// Server
	ServerAddr  string
	BaseURL     string
	CORSOrigins string // Comma-separated allowed origins
	MaxUploadMB int

	// Storage
	DatabaseURL string // empty keeps notes and run logs in memory
	RedisURL    string // empty keeps sessions and uploads in process memory
	UploadTTL   time.Duration

	// Login gate
	AppPassword   string
	SessionSecret string // Used for signing cookies (min 32 chars)

	// OIDC (optional, replaces the password form when set)
	OIDCIssuer       string
	OIDCClientID     string
	OIDCClientSecret string
	OIDCRedirectURL  string

	// Keyword vocabulary
	KeywordsFile    string
	KeywordsRefresh time.Duration // 0 disables periodic reloads

	// Report rules
	ReportsFile  string
	WarehouseURL string

	// Site Branding
	SiteTitle   string // env: SITE_TITLE, default: "CS Automation"
	SiteTagline string // env: SITE_TAGLINE
	SiteFooter  string // env: SITE_FOOTER
	SiteLogoURL string // env: SITE_LOGO_URL, default: "" (no logo, text only)
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		Env:         getEnv("ENV", "development"),
		ServerAddr:  getEnv("SERVER_ADDR", ":3000"),
		BaseURL:     getEnv("BASE_URL", "http://localhost:3000"),
		CORSOrigins: getEnv("CORS_ORIGINS", ""),
		MaxUploadMB: getEnvInt("MAX_UPLOAD_MB", 25),

		DatabaseURL: getEnv("DATABASE_URL", ""),
		RedisURL:    getEnv("REDIS_URL", ""),
		UploadTTL:   getEnvDuration("UPLOAD_TTL", 2*time.Hour),

		AppPassword:   getEnv("APP_PASSWORD", ""),
		SessionSecret: getEnv("SESSION_SECRET", "change-me-in-production-min-32-chars"),

		OIDCIssuer:       getEnv("OIDC_ISSUER", ""),
		OIDCClientID:     getEnv("OIDC_CLIENT_ID", ""),
		OIDCClientSecret: getEnv("OIDC_CLIENT_SECRET", ""),
		OIDCRedirectURL:  getEnv("OIDC_REDIRECT_URL", "http://localhost:3000/auth/callback"),

		KeywordsFile:    getEnv("KEYWORDS_FILE", "keywords.txt"),
		KeywordsRefresh: getEnvDuration("KEYWORDS_REFRESH", 5*time.Minute),

		ReportsFile:  getEnv("REPORTS_FILE", "reports.yaml"),
		WarehouseURL: getEnv("WAREHOUSE_URL", "https://moverdatawarehouse.azurewebsites.net"),

		SiteTitle:   getEnv("SITE_TITLE", "CS Automation"),
		SiteTagline: getEnv("SITE_TAGLINE", "Customer Success Automation site"),
		SiteFooter:  getEnv("SITE_FOOTER", "CS Automation - internal reporting dashboards"),
		SiteLogoURL: getEnv("SITE_LOGO_URL", ""),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil && v > 0 {
		return v
	}
	return fallback
}

// getEnvDuration accepts Go durations ("90s", "2h"); "0" is a valid value.
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	if raw == "0" {
		return 0
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d < 0 {
		return fallback
	}
	return d
}

// IsDev returns true if the environment is set to development.
func (c *Config) IsDev() bool {
	return c.Env == "development" || c.Env == "dev"
}

// IsOIDCEnabled returns true if an OIDC issuer is configured.
func (c *Config) IsOIDCEnabled() bool {
	return c.OIDCIssuer != ""
}

// HasDatabase returns true if notes and run logs go to Postgres.
func (c *Config) HasDatabase() bool {
	return c.DatabaseURL != ""
}

// IsPasswordEnabled returns true if the shared password login is configured.
func (c *Config) IsPasswordEnabled() bool {
	return c.AppPassword != ""
}

// MaxUploadBytes is the upload size limit in bytes.
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) << 20
}
