// Package config collects runtime settings from the environment.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultHost       = "127.0.0.1"
	DefaultPort       = "3000"
	DefaultDBPath     = "gato.db"
	DefaultAPIURL     = "http://localhost:3000"
	DefaultAPITimeout = 15 * time.Second
)

// Config holds every setting of the server and the CLI.
type Config struct {
	Host string
	Port string

	Database DatabaseConfig
	Redis    RedisConfig

	// EncryptionKey seals API keys at rest when set.
	EncryptionKey string
	// AllowedOrigins lists extra CORS origins; localhost is always allowed.
	AllowedOrigins []string
	// AdminPassword enables basic auth on the dashboard and /api when set.
	AdminPassword string
	Debug         bool

	Client ClientConfig
}

type DatabaseConfig struct {
	Path string // SQLite file, used when URL is empty
	URL  string // PostgreSQL DSN
}

type RedisConfig struct {
	Address  string // empty disables the shared lock
	Password string
	DB       int
	LockTTL  time.Duration
}

type ClientConfig struct {
	BaseURL string
	Timeout time.Duration
}

// Load reads the configuration from the environment.
func Load() *Config {
	return &Config{
		Host: getEnvString("HOST", DefaultHost),
		Port: getEnvString("PORT", DefaultPort),
		Database: DatabaseConfig{
			Path: getEnvString("GATO_DB_PATH", DefaultDBPath),
			URL:  getEnvString("GATO_DATABASE_URL", ""),
		},
		Redis: RedisConfig{
			Address:  getEnvString("GATO_REDIS_ADDR", ""),
			Password: getEnvString("GATO_REDIS_PASSWORD", ""),
			DB:       getEnvInt("GATO_REDIS_DB", 0),
			LockTTL:  getEnvDuration("GATO_LOCK_TTL", 30*time.Second),
		},
		EncryptionKey:  getEnvString("GATO_ENCRYPTION_KEY", ""),
		AllowedOrigins: getEnvList("GATO_ALLOWED_ORIGINS"),
		AdminPassword:  getEnvString("GATO_ADMIN_PASSWORD", ""),
		Debug:          getEnvBool("GATO_DEBUG", false),
		Client: ClientConfig{
			BaseURL: strings.TrimRight(getEnvString("GATO_API_URL", DefaultAPIURL), "/"),
			Timeout: getEnvDuration("GATO_API_TIMEOUT", DefaultAPITimeout),
		},
	}
}

// Addr is the listen address.
func (c *Config) Addr() string {
	return c.Host + ":" + c.Port
}

// DisplayURL is the address to print for humans.
func (c *Config) DisplayURL() string {
	if c.Host == "0.0.0.0" {
		return "<your-ip>:" + c.Port
	}
	return "localhost:" + c.Port
}

func getEnvString(key, defaultValue string) string {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return defaultValue
	}
	return val
}

func getEnvInt(key string, defaultValue int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultValue
	}
	intVal, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return intVal
}

func getEnvBool(key string, defaultValue bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return defaultValue
	}
	return b
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return defaultValue
	}
	duration, err := time.ParseDuration(val)
	if err != nil || duration <= 0 {
		return defaultValue
	}
	return duration
}

func getEnvList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
