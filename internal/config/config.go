package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port        string
	Environment string
	PodHost     string // Host part of local diaspora handles (user@PodHost)
	DatabaseURL string // Empty selects the in-memory store
	CORSOrigins string
	LogDir      string // Optional directory for rotated log files
	// Access tokens
	TokenSecret string // HS256 secret for locally minted tokens
	JWKSURL     string // When set, tokens are verified against this key set instead
	TokenTTL    time.Duration
	// Federation
	RedisAddr       string // Empty selects the logging dispatcher
	DispatchTimeout time.Duration
	// Debug flags
	Debug bool
}

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")

	return &Config{
		Port:            getEnv("PORT", "8080"),
		Environment:     env,
		PodHost:         getEnv("POD_HOST", "localhost:8080"),
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		CORSOrigins:     getEnv("CORS_ORIGINS", "http://localhost:3000"),
		LogDir:          getEnv("LOG_DIR", ""),
		TokenSecret:     getEnv("TOKEN_SECRET", getDefaultSecret(env)),
		JWKSURL:         getEnv("JWKS_URL", ""),
		TokenTTL:        getDuration("TOKEN_TTL", 24*time.Hour),
		RedisAddr:       getEnv("REDIS_ADDR", ""),
		DispatchTimeout: getDuration("DISPATCH_TIMEOUT", 5*time.Second),
		Debug:           getEnv("DEBUG", getDefaultDebug(env)) == "true",
	}
}

// UseMemoryStore reports whether no database is configured.
func (c *Config) UseMemoryStore() bool {
	return c.DatabaseURL == ""
}

// IsProd reports whether the server runs in production.
func (c *Config) IsProd() bool {
	return c.Environment == "prod"
}

// SeedMemoryStore reports whether the in-memory store should start with
// demo accounts, so development tokens have someone to authenticate as.
func (c *Config) SeedMemoryStore() bool {
	return c.UseMemoryStore() && !c.IsProd()
}

// getDefaultDebug returns the default debug setting based on environment
func getDefaultDebug(env string) string {
	if env == "prod" {
		return "false"
	}
	return "true"
}

// getDefaultSecret returns an insecure secret outside production so dev
// tokens work out of the box. Production must set TOKEN_SECRET or JWKS_URL.
func getDefaultSecret(env string) string {
	if env == "prod" {
		return ""
	}
	return "dev-secret-change-me"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getDuration parses a Go duration ("30s") or a plain number of seconds.
func getDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}
