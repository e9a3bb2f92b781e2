package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Gateway backends.
const (
	BackendFirestore = "firestore"
	BackendPostgres  = "postgres"
	BackendMemory    = "memory"
)

type Config struct {
	Server   ServerConfig
	Gateway  GatewayConfig
	Firebase FirebaseConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Catalog  CatalogConfig
	App      AppConfig
}

type ServerConfig struct {
	Port               string
	CORSAllowedOrigins []string
}

type GatewayConfig struct {
	Backend string
}

type FirebaseConfig struct {
	CredentialsPath string
	ProjectID       string

	// APIKey is the web API key used for password sign-in through Identity Toolkit.
	APIKey         string
	AuthRatePerSec float64
	AuthRateBurst  int
}

type DatabaseConfig struct {
	DSN       string
	ConnectTO time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// Enabled reports whether a Redis address was configured.
func (r RedisConfig) Enabled() bool {
	return r.Addr != ""
}

type CatalogConfig struct {
	RefreshSpec string
	SnapshotTTL time.Duration
}

type AppConfig struct {
	Environment string
	LogLevel    string
	Version     string
}

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:               getEnv("PORT", "8080"),
			CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173"}),
		},
		Gateway: GatewayConfig{
			Backend: getEnv("GATEWAY_BACKEND", BackendFirestore),
		},
		Firebase: FirebaseConfig{
			CredentialsPath: getEnv("FIREBASE_CREDENTIALS_PATH", ""),
			ProjectID:       getEnv("FIREBASE_PROJECT_ID", ""),
			APIKey:          getEnv("FIREBASE_API_KEY", ""),
			AuthRatePerSec:  getEnvAsFloat("AUTH_RATE_PER_SEC", 5),
			AuthRateBurst:   getEnvAsInt("AUTH_RATE_BURST", 10),
		},
		Database: DatabaseConfig{
			DSN:       getEnv("DB_DSN", ""),
			ConnectTO: getEnvAsDuration("DB_CONNECT_TIMEOUT", 5*time.Second),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Catalog: CatalogConfig{
			RefreshSpec: getEnv("CATALOG_REFRESH_SPEC", "@every 5m"),
			SnapshotTTL: getEnvAsDuration("CATALOG_SNAPSHOT_TTL", 10*time.Minute),
		},
		App: AppConfig{
			Environment: getEnv("APP_ENV", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	switch c.Gateway.Backend {
	case BackendFirestore:
		if c.Firebase.APIKey == "" {
			return fmt.Errorf("FIREBASE_API_KEY is required for the %s backend", c.Gateway.Backend)
		}
	case BackendPostgres:
		if c.Database.DSN == "" {
			return fmt.Errorf("DB_DSN is required for the postgres backend")
		}
		if c.Firebase.APIKey == "" {
			return fmt.Errorf("FIREBASE_API_KEY is required for the %s backend", c.Gateway.Backend)
		}
	case BackendMemory:
	default:
		return fmt.Errorf("unknown GATEWAY_BACKEND %q", c.Gateway.Backend)
	}

	if c.Firebase.AuthRatePerSec <= 0 {
		return fmt.Errorf("AUTH_RATE_PER_SEC must be positive")
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer for %s, using default: %d", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		log.Printf("Warning: Invalid number for %s, using default: %g", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid duration for %s, using default: %s", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
