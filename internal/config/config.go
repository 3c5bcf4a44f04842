package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/ba5maa/FileBlogSystem/internal/logger"
)

// Config holds all configuration for the application.
type Config struct {
	// Server configuration
	ServerPort   string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	// Content configuration
	ContentRoot string
	SiteConfig  string

	// Token configuration
	JWTSecret   string
	JWTIssuer   string
	JWTAudience string
	JWTTTL      time.Duration
	// JWTSecretGenerated is set when JWT_SECRET was empty. Tokens then do
	// not survive a restart.
	JWTSecretGenerated bool

	CORSAllowedOrigins []string

	// Login throttling, per client IP
	LoginRateLimit  int
	LoginRateWindow time.Duration

	// Logging configuration
	LogLevel  string
	LogFormat string
}

// Load loads configuration from a .env file, when present, and environment
// variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		ServerPort:         getEnv("SERVER_PORT", "8080"),
		ReadTimeout:        getEnvDuration("HTTP_READ_TIMEOUT", 15*time.Second),
		WriteTimeout:       getEnvDuration("HTTP_WRITE_TIMEOUT", 15*time.Second),
		IdleTimeout:        getEnvDuration("HTTP_IDLE_TIMEOUT", 60*time.Second),
		ContentRoot:        getEnv("CONTENT_ROOT", "./content"),
		SiteConfig:         getEnv("SITE_CONFIG", "./config/site.yaml"),
		JWTSecret:          getEnv("JWT_SECRET", ""),
		JWTIssuer:          getEnv("JWT_ISSUER", "FileBlogSystem"),
		JWTAudience:        getEnv("JWT_AUDIENCE", "FileBlogSystemUsers"),
		JWTTTL:             getEnvDuration("JWT_TTL", time.Hour),
		CORSAllowedOrigins: splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		LoginRateLimit:     getEnvInt("LOGIN_RATE_LIMIT", 5),
		LoginRateWindow:    getEnvDuration("LOGIN_RATE_WINDOW", time.Minute),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		LogFormat:          strings.ToLower(getEnv("LOG_FORMAT", "json")),
	}

	if cfg.JWTSecret == "" {
		cfg.JWTSecret = uuid.NewString()
		cfg.JWTSecretGenerated = true
		logger.Warn("JWT_SECRET is not set; using a random secret for this process")
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate validates the configuration.
func (c *Config) validate() error {
	if c.ServerPort == "" {
		return fmt.Errorf("SERVER_PORT is required")
	}
	if c.ContentRoot == "" {
		return fmt.Errorf("CONTENT_ROOT is required")
	}
	if c.JWTTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be positive")
	}
	if c.LoginRateLimit < 1 {
		return fmt.Errorf("LOGIN_RATE_LIMIT must be at least 1")
	}
	if c.LoginRateWindow <= 0 {
		return fmt.Errorf("LOGIN_RATE_WINDOW must be positive")
	}
	if c.LogFormat != "json" && c.LogFormat != "text" {
		return fmt.Errorf("LOG_FORMAT must be json or text, got %q", c.LogFormat)
	}
	return nil
}

// getEnv gets an environment variable with a default value.
func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an environment variable as int with a default value.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvDuration gets an environment variable as duration with a default value.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if item := strings.TrimSpace(part); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
