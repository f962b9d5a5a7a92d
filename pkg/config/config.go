package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Catalog sources understood by the API and indexer
const (
	CatalogSourcePostgres  = "postgres"
	CatalogSourceTypesense = "typesense"
	CatalogSourceFile      = "file"
)

// Config holds all application configuration
type Config struct {
	App       AppConfig
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Typesense TypesenseConfig
	OTEL      OTELConfig
	Catalog   CatalogConfig
	Ranking   RankingConfig
}

// AppConfig holds process-wide settings
type AppConfig struct {
	Environment string
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host           string
	Port           int
	AllowedOrigins []string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// TypesenseConfig holds Typesense configuration
type TypesenseConfig struct {
	URL    string
	APIKey string
}

// OTELConfig holds OpenTelemetry configuration
type OTELConfig struct {
	ServiceName    string
	ServiceVersion string
	Endpoint       string
	Enabled        bool
}

// CatalogConfig selects where hotel and restaurant records are fetched from
type CatalogConfig struct {
	Source          string
	HotelsFile      string
	RestaurantsFile string
	CacheTTLSeconds int
	// WarmCities and WarmAirports are kept in the catalog cache
	WarmCities   []string
	WarmAirports []string
	WarmInterval int
}

// RankingConfig holds the scorer constants
type RankingConfig struct {
	Prior          float64
	Confidence     float64
	FeatureDivisor float64
}

// Load loads configuration from environment variables.
// A .env file in the working directory is applied first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		App: AppConfig{
			Environment: getEnv("APP_ENV", "development"),
		},
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnvAsInt("SERVER_PORT", 8080),
			// wildcard is meant for development only
			AllowedOrigins: getEnvAsSlice("ALLOWED_ORIGINS", []string{"*"}),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "tripwise"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvAsInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Typesense: TypesenseConfig{
			URL:    getEnv("TYPESENSE_URL", "http://localhost:8108"),
			APIKey: getEnv("TYPESENSE_API_KEY", "xyz"),
		},
		OTEL: OTELConfig{
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "tripwise-search"),
			ServiceVersion: getEnv("OTEL_SERVICE_VERSION", "1.0.0"),
			Endpoint:       getEnv("OTEL_ENDPOINT", ""),
			Enabled:        getEnvAsBool("OTEL_ENABLED", false),
		},
		Catalog: CatalogConfig{
			Source:          strings.ToLower(getEnv("CATALOG_SOURCE", CatalogSourcePostgres)),
			HotelsFile:      getEnv("CATALOG_HOTELS_FILE", ""),
			RestaurantsFile: getEnv("CATALOG_RESTAURANTS_FILE", ""),
			CacheTTLSeconds: getEnvAsInt("CATALOG_CACHE_TTL_SECONDS", 120),
			WarmCities:      getEnvAsSlice("CATALOG_WARM_CITIES", nil),
			WarmAirports:    getEnvAsSlice("CATALOG_WARM_AIRPORTS", nil),
			WarmInterval:    getEnvAsInt("CATALOG_WARM_INTERVAL_SECONDS", 300),
		},
		Ranking: RankingConfig{
			Prior:          getEnvAsFloat("RANKING_PRIOR", 3.9),
			Confidence:     getEnvAsFloat("RANKING_CONFIDENCE", 150),
			FeatureDivisor: getEnvAsFloat("RANKING_FEATURE_DIVISOR", 12),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations the service cannot start with
func (c *Config) Validate() error {
	switch c.Catalog.Source {
	case CatalogSourcePostgres, CatalogSourceTypesense:
	case CatalogSourceFile:
		if c.Catalog.HotelsFile == "" && c.Catalog.RestaurantsFile == "" {
			return fmt.Errorf("catalog source %q needs CATALOG_HOTELS_FILE or CATALOG_RESTAURANTS_FILE", c.Catalog.Source)
		}
	default:
		return fmt.Errorf("unknown catalog source %q", c.Catalog.Source)
	}

	if c.Ranking.Prior < 0 || c.Ranking.Prior > 5 {
		return fmt.Errorf("ranking prior must be within [0, 5], got %v", c.Ranking.Prior)
	}
	if c.Ranking.Confidence <= 0 {
		return fmt.Errorf("ranking confidence must be positive, got %v", c.Ranking.Confidence)
	}
	if c.Ranking.FeatureDivisor <= 0 {
		return fmt.Errorf("ranking feature divisor must be positive, got %v", c.Ranking.FeatureDivisor)
	}
	warming := len(c.Catalog.WarmCities) > 0 || len(c.Catalog.WarmAirports) > 0
	if warming && c.Catalog.WarmInterval <= 0 {
		return fmt.Errorf("catalog warm interval must be positive when warm targets are set, got %d", c.Catalog.WarmInterval)
	}
	return nil
}

// DatabaseDSN returns the PostgreSQL connection string
func (c *DatabaseConfig) DatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
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

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
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

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
