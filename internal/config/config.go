package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds the simulation service's configuration.
type Config struct {
	JWT   JWTConfig   `json:"jwt"`
	Auth  AuthConfig  `json:"auth"`
	API   APIConfig   `json:"api"`
	Store StoreConfig `json:"store"`
}

// JWTConfig holds JWT-related configuration.
type JWTConfig struct {
	SecretKey   string        `json:"secret_key"`
	ExpiryTime  time.Duration `json:"expiry_time"`
	RefreshTime time.Duration `json:"refresh_time"`
	Issuer      string        `json:"issuer"`
	Audience    string        `json:"audience"`
}

// APIConfig holds API server configuration.
type APIConfig struct {
	Listen      string          `json:"listen"`
	TLSEnabled  bool            `json:"tls_enabled"`
	CertFile    string          `json:"cert_file"`
	KeyFile     string          `json:"key_file"`
	MaxBodySize int64           `json:"max_body_size"`
	RateLimit   RateLimitConfig `json:"rate_limit"`
	Cors        CorsConfig      `json:"cors"`
}

// AuthConfig holds authentication configuration.
type AuthConfig struct {
	Enabled     bool          `json:"enabled"`
	TokenExpiry time.Duration `json:"token_expiry"`
	SecretKey   string        `json:"secret_key"`
	RefreshTime time.Duration `json:"refresh_time"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	Enabled     bool          `json:"enabled"`
	RequestsPer int           `json:"requests_per"`
	Duration    time.Duration `json:"duration"`
	BurstSize   int           `json:"burst_size"`
}

// CorsConfig holds CORS configuration.
type CorsConfig struct {
	Enabled          bool     `json:"enabled"`
	AllowedOrigins   []string `json:"allowed_origins"`
	AllowedMethods   []string `json:"allowed_methods"`
	AllowedHeaders   []string `json:"allowed_headers"`
	AllowCredentials bool     `json:"allow_credentials"`
	MaxAge           int      `json:"max_age"`
}

// StoreConfig holds the run-history Postgres connection and the
// compute-result Redis cache connection.
type StoreConfig struct {
	PGHost     string `json:"pg_host"`
	PGPort     int    `json:"pg_port"`
	PGName     string `json:"pg_name"`
	PGUser     string `json:"pg_user"`
	PGPassword string `json:"pg_password"`
	PGSSLMode  string `json:"pg_ssl_mode"`

	RedisAddr     string        `json:"redis_addr"`
	RedisPassword string        `json:"redis_password"`
	RedisDB       int           `json:"redis_db"`
	RedisTTL      time.Duration `json:"redis_ttl"`
}

// DefaultConfig returns the default configuration, with environment
// variables overriding each field that sets one.
func DefaultConfig() *Config {
	return &Config{
		JWT: JWTConfig{
			SecretKey:   getEnvOrDefault("CPUSCHEDSIM_JWT_SECRET", "change-this-secret"),
			ExpiryTime:  24 * time.Hour,
			RefreshTime: 7 * 24 * time.Hour,
			Issuer:      "cpuschedsim",
			Audience:    "cpuschedsim-clients",
		},
		Auth: AuthConfig{
			Enabled:     getEnvBoolOrDefault("CPUSCHEDSIM_AUTH_ENABLED", false),
			TokenExpiry: 24 * time.Hour,
			SecretKey:   getEnvOrDefault("CPUSCHEDSIM_AUTH_SECRET", "change-this-secret"),
			RefreshTime: 7 * 24 * time.Hour,
		},
		API: APIConfig{
			Listen:      getEnvOrDefault("CPUSCHEDSIM_LISTEN", "0.0.0.0:8080"),
			TLSEnabled:  getEnvBoolOrDefault("CPUSCHEDSIM_TLS_ENABLED", false),
			CertFile:    getEnvOrDefault("CPUSCHEDSIM_CERT_FILE", ""),
			KeyFile:     getEnvOrDefault("CPUSCHEDSIM_KEY_FILE", ""),
			MaxBodySize: int64(getEnvIntOrDefault("CPUSCHEDSIM_MAX_BODY_SIZE", 1024*1024)),
			RateLimit: RateLimitConfig{
				Enabled:     getEnvBoolOrDefault("CPUSCHEDSIM_RATE_LIMIT_ENABLED", true),
				RequestsPer: getEnvIntOrDefault("CPUSCHEDSIM_RATE_LIMIT_REQUESTS", 60),
				Duration:    time.Minute,
				BurstSize:   getEnvIntOrDefault("CPUSCHEDSIM_RATE_LIMIT_BURST", 10),
			},
			Cors: CorsConfig{
				Enabled:          getEnvBoolOrDefault("CPUSCHEDSIM_CORS_ENABLED", true),
				AllowedOrigins:   []string{"*"},
				AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
				AllowedHeaders:   []string{"*"},
				AllowCredentials: false,
			},
		},
		Store: StoreConfig{
			PGHost:     getEnvOrDefault("CPUSCHEDSIM_PG_HOST", "localhost"),
			PGPort:     getEnvIntOrDefault("CPUSCHEDSIM_PG_PORT", 5432),
			PGName:     getEnvOrDefault("CPUSCHEDSIM_PG_NAME", "cpuschedsim"),
			PGUser:     getEnvOrDefault("CPUSCHEDSIM_PG_USER", "cpuschedsim"),
			PGPassword: getEnvOrDefault("CPUSCHEDSIM_PG_PASSWORD", ""),
			PGSSLMode:  getEnvOrDefault("CPUSCHEDSIM_PG_SSLMODE", "prefer"),

			RedisAddr:     getEnvOrDefault("CPUSCHEDSIM_REDIS_ADDR", "localhost:6379"),
			RedisPassword: getEnvOrDefault("CPUSCHEDSIM_REDIS_PASSWORD", ""),
			RedisDB:       getEnvIntOrDefault("CPUSCHEDSIM_REDIS_DB", 0),
			RedisTTL:      time.Hour,
		},
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// LoadConfig loads configuration from environment variables.
func LoadConfig() *Config {
	return DefaultConfig()
}
