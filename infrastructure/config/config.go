package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL  string
	JWTSecret    string
	JWTAlgorithm string
	AccessTTL    time.Duration
	RefreshTTL   time.Duration

	ServerHost  string
	ServerPort  string
	Environment string

	BcryptCost int

	RedisURL          string
	RateLimitEnabled  bool
	RateLimitAttempts int
	RateLimitWindow   time.Duration

	LogLevel  string
	LogFormat string

	CORSEnabled          bool
	CORSAllowedOrigins   []string
	CORSAllowCredentials bool
}

var (
	ErrMissingDatabaseURL  = errors.New("DATABASE_URL is required")
	ErrMissingJWTSecret    = errors.New("JWT_SECRET is required")
	ErrPlaceholderSecret   = errors.New("JWT_SECRET is a placeholder value; set a real secret outside development")
	ErrInvalidJWTAlgorithm = errors.New("unsupported JWT algorithm")
	ErrInvalidTokenTTL     = errors.New("refresh token TTL must exceed access token TTL")
)

// placeholderSecrets are values that must never sign tokens outside a
// development environment.
var placeholderSecrets = map[string]struct{}{
	"secret":          {},
	"changeme":        {},
	"change-me":       {},
	"default":         {},
	"your-secret-key": {},
	"dev-secret":      {},
}

func Load() (*Config, error) {
	// Load .env if present; real env vars win.
	_ = godotenv.Load()

	cfg := &Config{
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		JWTSecret:    os.Getenv("JWT_SECRET"),
		JWTAlgorithm: getEnvOrDefault("JWT_ALG", "HS256"),

		ServerHost:  getEnvOrDefault("SERVER_HOST", "0.0.0.0"),
		ServerPort:  getEnvOrDefault("SERVER_PORT", "8080"),
		Environment: getEnvOrDefault("ENV", "development"),

		BcryptCost: getEnvOrDefaultInt("BCRYPT_COST", 10),

		RedisURL:          getEnvOrDefault("REDIS_URL", "redis://localhost:6379/0"),
		RateLimitEnabled:  getEnvOrDefaultBool("RATE_LIMIT_ENABLED", false),
		RateLimitAttempts: getEnvOrDefaultInt("RATE_LIMIT_ATTEMPTS", 5),

		LogLevel:  getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat: getEnvOrDefault("LOG_FORMAT", "json"),

		CORSEnabled:          getEnvOrDefaultBool("CORS_ENABLED", false),
		CORSAllowCredentials: getEnvOrDefaultBool("CORS_ALLOW_CREDENTIALS", true),
		CORSAllowedOrigins:   splitAndTrim(os.Getenv("CORS_ALLOWED_ORIGINS")),
	}

	// Minutes for access, days for refresh: defaults 30m / 7d.
	cfg.AccessTTL = time.Duration(getEnvOrDefaultInt("ACCESS_TOKEN_EXPIRE_MINUTES", 30)) * time.Minute
	cfg.RefreshTTL = time.Duration(getEnvOrDefaultInt("REFRESH_TOKEN_EXPIRE_DAYS", 7)) * 24 * time.Hour
	cfg.RateLimitWindow = time.Duration(getEnvOrDefaultInt("RATE_LIMIT_WINDOW_SECONDS", 900)) * time.Second

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.DatabaseURL == "" {
		return ErrMissingDatabaseURL
	}
	if c.JWTAlgorithm != "HS256" {
		return fmt.Errorf("%w: %s", ErrInvalidJWTAlgorithm, c.JWTAlgorithm)
	}
	if c.JWTSecret == "" {
		return ErrMissingJWTSecret
	}
	if _, placeholder := placeholderSecrets[strings.ToLower(c.JWTSecret)]; placeholder && !c.IsDevelopment() {
		return ErrPlaceholderSecret
	}
	if c.RefreshTTL <= c.AccessTTL {
		return ErrInvalidTokenTTL
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func (c *Config) ServerAddr() string {
	return fmt.Sprintf("%s:%s", c.ServerHost, c.ServerPort)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvOrDefaultBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.ParseBool(value)
		if err != nil {
			return defaultValue
		}
		return parsed
	}
	return defaultValue
}

func getEnvOrDefaultInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return defaultValue
		}
		return parsed
	}
	return defaultValue
}

func splitAndTrim(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	res := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			res = append(res, trimmed)
		}
	}
	return res
}
