package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// DefaultSourceURL is the public doctor feed the directory was built against.
const DefaultSourceURL = "https://srijandubey.github.io/campus-api-mock/SRM-C1-25.json"

// Config holds all application configuration
type Config struct {
	App    AppConfig
	Server ServerConfig
	Source SourceConfig
	Redis  RedisConfig
	Cache  CacheConfig
	CORS   CORSConfig
	OTEL   OTELConfig
}

// AppConfig identifies the running deployment
type AppConfig struct {
	Name        string
	Environment string
	Version     string
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// SourceConfig describes where doctor records come from. With both URL and
// FixturePath set, the fixture is used only when the URL fetch fails.
type SourceConfig struct {
	URL         string
	FixturePath string
	Timeout     time.Duration
	MaxAttempts int
	CacheTTL    time.Duration
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

// CacheConfig controls the HTTP response cache
type CacheConfig struct {
	ResponseTTL time.Duration
}

// CORSConfig lists the origins allowed to call the API
type CORSConfig struct {
	AllowedOrigins []string
}

// OTELConfig holds OpenTelemetry configuration
type OTELConfig struct {
	ServiceName    string
	ServiceVersion string
	Endpoint       string
	Enabled        bool
}

// Load loads configuration from environment variables. A .env file in the
// working directory is read first when present; real environment variables win.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg("Failed to read .env file, using process environment")
	}

	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "doctor-directory"),
			Environment: getEnv("APP_ENV", "development"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
		},
		Server: ServerConfig{
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			Port:            getEnvAsInt("SERVER_PORT", 8080),
			ReadTimeout:     getEnvAsDuration("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getEnvAsDuration("SERVER_WRITE_TIMEOUT", 15*time.Second),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second),
		},
		Source: SourceConfig{
			URL:         getEnv("DOCTORS_SOURCE_URL", DefaultSourceURL),
			FixturePath: getEnv("DOCTORS_FIXTURE_PATH", ""),
			Timeout:     getEnvAsDuration("DOCTORS_SOURCE_TIMEOUT", 10*time.Second),
			MaxAttempts: getEnvAsInt("DOCTORS_SOURCE_MAX_ATTEMPTS", 3),
			CacheTTL:    getEnvAsDuration("DOCTORS_SOURCE_CACHE_TTL", 10*time.Minute),
		},
		Redis: RedisConfig{
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvAsInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Cache: CacheConfig{
			ResponseTTL: getEnvAsDuration("RESPONSE_CACHE_TTL", time.Minute),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		},
		OTEL: OTELConfig{
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "doctor-directory"),
			ServiceVersion: getEnv("OTEL_SERVICE_VERSION", "1.0.0"),
			Endpoint:       getEnv("OTEL_ENDPOINT", ""),
			Enabled:        getEnvAsBool("OTEL_ENABLED", false),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations the service cannot start with
func (c *Config) Validate() error {
	if c.Source.URL == "" && c.Source.FixturePath == "" {
		return fmt.Errorf("config: one of DOCTORS_SOURCE_URL or DOCTORS_FIXTURE_PATH is required")
	}
	if c.Source.MaxAttempts < 1 {
		return fmt.Errorf("config: DOCTORS_SOURCE_MAX_ATTEMPTS must be at least 1, got %d", c.Source.MaxAttempts)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("config: SERVER_PORT out of range: %d", c.Server.Port)
	}
	return nil
}

// IsDevelopment reports whether the app runs in the development environment
func (c *AppConfig) IsDevelopment() bool {
	return c.Environment == "development"
}

// Addr returns the listen address
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// RedisAddr returns the Redis address
func (c *RedisConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

// getEnvAsList splits a comma separated variable, dropping blank entries
func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
