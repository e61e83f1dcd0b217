package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for our application
type Config struct {
	Port        string
	Origin      string
	Environment string
	Database    DatabaseConfig
	Auth        AuthConfig
	Redis       RedisConfig
}

// DatabaseConfig holds database connection details
type DatabaseConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	Name     string
	DSN      string
}

// AuthConfig holds the settings for the external auth collaborator. Mode is
// either "remote" (every credential is verified by the auth service) or
// "local" (tokens issued by the auth service are checked against the shared
// secret without a network round trip).
type AuthConfig struct {
	ServiceURL string
	Mode       string
	SecretKey  string
	CacheTTL   time.Duration
}

// RedisConfig holds the optional verification-cache settings. An empty Addr
// disables caching.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	dbConfig := DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "3306"),
		Username: getEnv("DB_USERNAME", "root"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "appointments"),
	}

	// Build DSN (Data Source Name) for MySQL connection
	dbConfig.DSN = fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		dbConfig.Username, dbConfig.Password, dbConfig.Host, dbConfig.Port, dbConfig.Name)

	cacheTTLSeconds, err := strconv.Atoi(getEnv("AUTH_CACHE_TTL_SECONDS", "60"))
	if err != nil {
		return nil, fmt.Errorf("invalid AUTH_CACHE_TTL_SECONDS: %w", err)
	}

	authConfig := AuthConfig{
		ServiceURL: getEnv("AUTH_SERVICE_URL", "http://localhost:8000"),
		Mode:       getEnv("AUTH_MODE", "remote"),
		SecretKey:  getEnv("SECRET_KEY", ""),
		CacheTTL:   time.Duration(cacheTTLSeconds) * time.Second,
	}
	if authConfig.Mode != "remote" && authConfig.Mode != "local" {
		return nil, fmt.Errorf("invalid AUTH_MODE %q: must be remote or local", authConfig.Mode)
	}
	if authConfig.Mode == "local" && authConfig.SecretKey == "" {
		return nil, fmt.Errorf("SECRET_KEY is required when AUTH_MODE is local")
	}

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	redisConfig := RedisConfig{
		Addr:     getEnv("REDIS_ADDR", ""),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       redisDB,
	}

	return &Config{
		Port:        getEnv("PORT", "3001"),
		Origin:      getEnv("ORIGIN", "http://localhost:3000"),
		Environment: getEnv("ENVIRONMENT", "development"),
		Database:    dbConfig,
		Auth:        authConfig,
		Redis:       redisConfig,
	}, nil
}

// Helper function to get environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
