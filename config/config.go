package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	FrontendURL string
	LogLevel    string
	// Email provider (Resend API, SMTP as fallback)
	ResendAPIKey   string
	ContactFrom    string // "Name <address>" used for the owner notification
	AutoReplyFrom  string // "Name <address>" used for the auto-reply
	ContactEmailTo string // Site owner inbox
	OwnerName      string
	SMTPHost       string
	SMTPPort       string
	SMTPUsername   string
	SMTPPassword   string
	// Redis/Upstash Configuration
	UpstashRedisURL      string
	UpstashRedisPassword string
	// Rate Limiting Configuration
	RateLimitWindowSeconds int
	ContactRateLimit       int
	// Contact client (terminal form)
	ContactBackend     string // relay, mock or web3forms
	ContactAPIURL      string // Base URL of this backend as seen by the client
	Web3FormsAccessKey string
	Web3FormsURL       string
}

func LoadConfig() (*Config, error) {
	// Load .env file (only present locally, ignored in production)
	_ = godotenv.Load()

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		FrontendURL: strings.TrimRight(getEnv("FRONTEND_URL", "http://localhost:3000"), "/"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		// Email provider
		ResendAPIKey:   getEnv("RESEND_API_KEY", ""),
		ContactFrom:    getEnv("CONTACT_FROM", "Portfolio Contact <onboarding@resend.dev>"),
		AutoReplyFrom:  getEnv("AUTO_REPLY_FROM", getEnv("CONTACT_FROM", "Portfolio Contact <onboarding@resend.dev>")),
		ContactEmailTo: getEnv("CONTACT_EMAIL_TO", ""),
		OwnerName:      getEnv("OWNER_NAME", "Portfolio Owner"),
		SMTPHost:       getEnv("SMTP_HOST", ""),
		SMTPPort:       getEnv("SMTP_PORT", "587"),
		SMTPUsername:   getEnv("SMTP_USERNAME", ""),
		SMTPPassword:   getEnv("SMTP_PASSWORD", ""),
		// Redis/Upstash Configuration
		UpstashRedisURL:      getEnv("UPSTASH_REDIS_URL", ""),
		UpstashRedisPassword: getEnv("UPSTASH_REDIS_PASSWORD", ""),
		// Rate Limiting Configuration
		RateLimitWindowSeconds: getEnvInt("RATE_LIMIT_WINDOW_SECONDS", 60), // 1 minute window
		ContactRateLimit:       getEnvInt("CONTACT_RATE_LIMIT", 5),         // 5 messages per window
		// Contact client
		ContactBackend:     strings.ToLower(getEnv("CONTACT_BACKEND", "relay")),
		ContactAPIURL:      strings.TrimRight(getEnv("CONTACT_API_URL", "http://localhost:8080"), "/"),
		Web3FormsAccessKey: getEnv("WEB3FORMS_ACCESS_KEY", getEnv("NEXT_PUBLIC_WEB3FORMS_ACCESS_KEY", "")),
		Web3FormsURL:       getEnv("WEB3FORMS_URL", "https://api.web3forms.com/submit"),
	}

	if cfg.ContactEmailTo == "" {
		log.Println("WARNING: CONTACT_EMAIL_TO is missing. Contact relay will answer with 500.")
	}

	if cfg.UpstashRedisURL == "" {
		log.Println("WARNING: UPSTASH_REDIS_URL not configured. Rate limiting will use in-memory fallback.")
	}

	return cfg, nil
}

// EmailConfigured reports whether at least one email provider has credentials.
func (c *Config) EmailConfigured() bool {
	if c.ContactEmailTo == "" {
		return false
	}
	return c.ResendAPIKey != "" || (c.SMTPHost != "" && c.SMTPUsername != "" && c.SMTPPassword != "")
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt returns an integer environment variable or fallback if not set/invalid
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}
