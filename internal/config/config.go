package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	envPort                  = "PORT"
	envServerReadTimeout     = "SERVER_READ_TIMEOUT"
	envServerWriteTimeout    = "SERVER_WRITE_TIMEOUT"
	envServerShutdownTimeout = "SERVER_SHUTDOWN_TIMEOUT"
	envDBHost                = "DB_HOST"
	envDBPort                = "DB_PORT"
	envDBName                = "DB_NAME"
	envDBUser                = "DB_USER"
	envDBPassword            = "DB_PASSWORD"
	envDBSSLMode             = "DB_SSL_MODE"
	envDBMaxConns            = "DB_MAX_CONNS"
	envDBMinConns            = "DB_MIN_CONNS"
	envRedisAddr             = "REDIS_ADDR"
	envRedisPassword         = "REDIS_PASSWORD"
	envRedisDB               = "REDIS_DB"
	envRoleCacheTTL          = "ROLE_CACHE_TTL"
	envJWTSecret             = "JWT_SECRET"
	envJWTIssuer             = "JWT_ISSUER"
	envJWTExpiry             = "JWT_EXPIRY"
	envRateLimitRPS          = "RATE_LIMIT_RPS"
	envRateLimitBurst        = "RATE_LIMIT_BURST"
	envLogLevel              = "LOG_LEVEL"
	envLogFormat             = "LOG_FORMAT"
)

const (
	defaultServerPort          = "8080"
	defaultServerReadTimeout   = 10 * time.Second
	defaultServerWriteTimeout  = 10 * time.Second
	defaultServerShutdown      = 10 * time.Second
	defaultDBHost              = "localhost"
	defaultDBPort              = 5432
	defaultDBName              = "compliance"
	defaultDBUser              = "compliance_app"
	defaultDBSSLMode           = "disable"
	defaultDBMaxConns          = 10
	defaultDBMinConns          = 2
	defaultRedisDB             = 0
	defaultRoleCacheTTL        = 5 * time.Minute
	defaultJWTIssuer           = "compliance-service"
	defaultJWTExpiry           = 24 * time.Hour
	defaultRateLimitRPS        = 50
	defaultRateLimitBurst      = 100
	defaultLogLevel            = "info"
	defaultLogFormat           = "json"
	minJWTSecretLength         = 32
	minUniqueCharsInSecret     = 16
	minRepeatedCharThreshold   = 4
	maxRepeatedChars           = 2
	errInvalidConfigurationFmt = "invalid configuration: %w"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	RateLimit RateLimitConfig
	Log       LogConfig
}

type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

type DatabaseConfig struct {
	Host     string
	Port     int
	Database string
	User     string
	Password string
	SSLMode  string
	MaxConns int
	MinConns int
}

// RedisConfig is optional: an empty Addr selects the in-process role cache.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

type JWTConfig struct {
	Secret string
	Issuer string
	Expiry time.Duration
}

type RateLimitConfig struct {
	RequestsPerSecond int
	Burst             int
}

type LogConfig struct {
	Level  string
	Format string
}

// Load reads the configuration from the environment and validates it.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv(envPort, defaultServerPort),
			ReadTimeout:     getDurationEnv(envServerReadTimeout, defaultServerReadTimeout),
			WriteTimeout:    getDurationEnv(envServerWriteTimeout, defaultServerWriteTimeout),
			ShutdownTimeout: getDurationEnv(envServerShutdownTimeout, defaultServerShutdown),
		},
		Database: DatabaseConfig{
			Host:     getEnv(envDBHost, defaultDBHost),
			Port:     getIntEnv(envDBPort, defaultDBPort),
			Database: getEnv(envDBName, defaultDBName),
			User:     getEnv(envDBUser, defaultDBUser),
			Password: os.Getenv(envDBPassword),
			SSLMode:  getEnv(envDBSSLMode, defaultDBSSLMode),
			MaxConns: getIntEnv(envDBMaxConns, defaultDBMaxConns),
			MinConns: getIntEnv(envDBMinConns, defaultDBMinConns),
		},
		Redis: RedisConfig{
			Addr:     os.Getenv(envRedisAddr),
			Password: os.Getenv(envRedisPassword),
			DB:       getIntEnv(envRedisDB, defaultRedisDB),
			TTL:      getDurationEnv(envRoleCacheTTL, defaultRoleCacheTTL),
		},
		JWT: JWTConfig{
			Secret: os.Getenv(envJWTSecret),
			Issuer: getEnv(envJWTIssuer, defaultJWTIssuer),
			Expiry: getDurationEnv(envJWTExpiry, defaultJWTExpiry),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: getIntEnv(envRateLimitRPS, defaultRateLimitRPS),
			Burst:             getIntEnv(envRateLimitBurst, defaultRateLimitBurst),
		},
		Log: LogConfig{
			Level:  getEnv(envLogLevel, defaultLogLevel),
			Format: getEnv(envLogFormat, defaultLogFormat),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf(errInvalidConfigurationFmt, err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return errors.New(errPortRequired)
	}

	if c.Database.Password == "" {
		return errors.New(messages.requiredEnvNotSet(envDBPassword))
	}

	if c.Database.MinConns > c.Database.MaxConns {
		return errors.New(messages.poolSizeOutOfOrder(c.Database.MinConns, c.Database.MaxConns))
	}

	if c.Redis.TTL <= 0 {
		return errors.New(messages.mustBePositive(envRoleCacheTTL))
	}

	if c.RateLimit.RequestsPerSecond <= 0 || c.RateLimit.Burst <= 0 {
		return errors.New(errRateLimitNotPositive)
	}

	if c.JWT.Secret == "" {
		return errors.New(messages.requiredEnvNotSet(envJWTSecret))
	}

	if c.JWT.Expiry <= 0 {
		return errors.New(messages.mustBePositive(envJWTExpiry))
	}

	if len(c.JWT.Secret) < minJWTSecretLength {
		return errors.New(messages.jwtSecretTooShort(minJWTSecretLength))
	}

	if !hasMinimumEntropy(c.JWT.Secret) {
		return errors.New(errJWTSecretLowEntropy)
	}

	return nil
}

func hasMinimumEntropy(secret string) bool {
	if len(secret) < minJWTSecretLength {
		return false
	}

	charCounts := make(map[rune]int)
	for _, char := range secret {
		charCounts[char]++
	}

	uniqueChars := len(charCounts)
	if uniqueChars < minUniqueCharsInSecret {
		return false
	}

	repeatedChars := 0
	for _, count := range charCounts {
		if count > len(secret)/minRepeatedCharThreshold {
			repeatedChars++
		}
	}

	return repeatedChars <= maxRepeatedChars
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// Address returns the listen address for the HTTP server.
func (c *ServerConfig) Address() string {
	return ":" + c.Port
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		if minutes, err := strconv.Atoi(value); err == nil {
			return time.Duration(minutes) * time.Minute
		}
	}
	return defaultValue
}
