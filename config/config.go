package config

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"

	"github.com/redis/go-redis/v9"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	ServerPort string
	ServerHost string

	// Database configuration
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Redis configuration
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	RedisURL      string

	// JWT configuration
	JWTSecret string

	// Local media directory used when S3 is not configured
	MediaDir string
}

// LoadConfig builds a Config from environment variables, falling back to
// Docker secrets for values not present in the environment.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		ServerPort:    getValue("SERVER_PORT", "8080"),
		ServerHost:    getValue("SERVER_HOST", "0.0.0.0"),
		DBHost:        getValue("DB_HOST", "localhost"),
		DBPort:        getValue("DB_PORT", "5432"),
		DBUser:        getValue("DB_USER", ""),
		DBPassword:    getValue("DB_PASSWORD", ""),
		DBName:        getValue("DB_NAME", "grocery_assistant"),
		DBSSLMode:     getValue("DB_SSL_MODE", "disable"),
		RedisHost:     getValue("REDIS_HOST", "localhost"),
		RedisPort:     getValue("REDIS_PORT", "6379"),
		RedisPassword: getValue("REDIS_PASSWORD", ""),
		RedisDB:       0,
		RedisURL:      getValue("REDIS_URL", ""),
		JWTSecret:     getValue("JWT_SECRET", ""),
		MediaDir:      getValue("MEDIA_DIR", "media/recipes"),
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// ValidateConfig checks that values the server cannot run without are set.
func ValidateConfig(cfg *Config) error {
	var missing []string
	if cfg.DBUser == "" {
		missing = append(missing, "DB_USER")
	}
	if cfg.DBPassword == "" {
		missing = append(missing, "DB_PASSWORD")
	}
	if cfg.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if len(missing) > 0 {
		return fmt.Errorf("required configuration not set: %s", strings.Join(missing, ", "))
	}
	return nil
}

// RedisOptions resolves the Redis client options. REDIS_URL takes
// precedence over the discrete host/port settings when set.
func (c *Config) RedisOptions() (*redis.Options, error) {
	if c.RedisURL != "" {
		opts, err := redis.ParseURL(c.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse REDIS_URL: %w", err)
		}
		return opts, nil
	}
	return &redis.Options{
		Addr:     net.JoinHostPort(c.RedisHost, c.RedisPort),
		Password: c.RedisPassword,
		DB:       c.RedisDB,
	}, nil
}

// getValue reads an environment variable, then the matching Docker secret,
// then the default.
func getValue(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	if v := readSecret(strings.ToLower(name)); v != "" {
		return v
	}
	return fallback
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	if data, err := os.ReadFile(filepath.Join(secretsDir, name)); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}
