package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	CartStoreSQL   = "sql"
	CartStoreMongo = "mongo"
)

type Config struct {
	HTTPPort string
	AppEnv   string
	LogLevel string

	DBDriver     string
	DatabasePath string
	DatabaseURL  string

	CartStore   string
	MongoURI    string
	MongoDBName string

	RedisAddr       string
	RedisPassword   string
	CatalogCacheTTL time.Duration

	KafkaBrokers []string
	KafkaTopic   string

	RequestTimeout     time.Duration
	ShutdownTimeout    time.Duration
	MaxRequestBodySize int64
	CORSAllowOrigins   []string
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{
		HTTPPort:      getEnv("HTTP_PORT", "3001"),
		AppEnv:        getEnv("APP_ENV", "development"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		DBDriver:      getEnv("DB_DRIVER", "sqlite"),
		DatabasePath:  getEnv("DATABASE_PATH", "./database.sqlite"),
		DatabaseURL:   getEnv("DATABASE_URL", ""),
		CartStore:     getEnv("CART_STORE", CartStoreSQL),
		MongoURI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDBName:   getEnv("MONGO_DB_NAME", "cartdb"),
		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		KafkaBrokers:  splitCSV(getEnv("KAFKA_BROKERS", "")),
		KafkaTopic:    getEnv("KAFKA_TOPIC", "checkout-completed"),

		CORSAllowOrigins: splitCSV(getEnv("CORS_ALLOW_ORIGINS", "*")),
	}

	var err error
	if cfg.CatalogCacheTTL, err = parseDuration("CATALOG_CACHE_TTL", "15m"); err != nil {
		return nil, err
	}
	if cfg.RequestTimeout, err = parseDuration("REQUEST_TIMEOUT", "30s"); err != nil {
		return nil, err
	}
	if cfg.ShutdownTimeout, err = parseDuration("SHUTDOWN_TIMEOUT", "10s"); err != nil {
		return nil, err
	}

	bodySize := getEnv("MAX_REQUEST_BODY_BYTES", "1048576")
	cfg.MaxRequestBodySize, err = strconv.ParseInt(bodySize, 10, 64)
	if err != nil || cfg.MaxRequestBodySize <= 0 {
		return nil, fmt.Errorf("invalid MAX_REQUEST_BODY_BYTES %q", bodySize)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.DBDriver {
	case "sqlite":
	case "postgres":
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required when DB_DRIVER=postgres")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}

	if c.CartStore != CartStoreSQL && c.CartStore != CartStoreMongo {
		return fmt.Errorf("unsupported CART_STORE %q", c.CartStore)
	}
	return nil
}

// DSN is the data source name for the configured SQL driver.
func (c *Config) DSN() string {
	if c.DBDriver == "postgres" {
		return c.DatabaseURL
	}
	return c.DatabasePath
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDuration(key, defaultValue string) (time.Duration, error) {
	raw := getEnv(key, defaultValue)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return d, nil
}

func splitCSV(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
