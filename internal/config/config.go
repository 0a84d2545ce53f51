package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Storage backends
const (
	StorageBackendPostgres = "postgres"
	StorageBackendMemory   = "memory"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	Logger   LoggerConfig
	Storage  StorageConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Events   EventsConfig
	Auth     AuthConfig
	CORS     CORSConfig
	App      AppConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

// StorageConfig selects where accounts and transactions live
type StorageConfig struct {
	Backend string // postgres, memory
}

// DatabaseConfig holds database connection configuration
type DatabaseConfig struct {
	Driver          string // postgres (lib/pq), pgx
	Host            string
	Port            string
	User            string
	Password        string
	DBName          string
	SSLMode         string
	ConnMaxLifetime time.Duration
	MaxOpenConns    int
	MaxIdleConns    int
	AutoMigrate     bool
}

// RedisConfig holds the idempotency cache configuration. An empty Addr disables Redis.
type RedisConfig struct {
	Addr           string
	Password       string
	DB             int
	IdempotencyTTL time.Duration
	LockTimeout    time.Duration
}

// EventsConfig holds Kafka publisher configuration. No brokers means events are dropped.
type EventsConfig struct {
	Brokers []string
}

// AuthConfig holds token and credential settings
type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
	// AdminCredentials maps admin email to an argon2id password hash.
	AdminCredentials map[string]string
	Argon2           Argon2Config
}

// Argon2Config holds password hashing parameters
type Argon2Config struct {
	Time       int
	MemoryKB   int
	Threads    int
	KeyLength  int
	SaltLength int
}

// CORSConfig holds allowed browser origins
type CORSConfig struct {
	AllowedOrigins []string
}

// AppConfig holds application-specific configuration
type AppConfig struct {
	CryptoWithdrawalFeePercent decimal.Decimal
	BankWithdrawalFeePercent   decimal.Decimal
	MinBankWithdrawal          decimal.Decimal
	FailureRate                float64
	BalanceWriteFailureRate    float64
	MinLatencyMS               int
	MaxLatencyMS               int
}

// LoggerConfig holds logging configuration
type LoggerConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, text
}

// Load loads configuration from an optional .env file and environment variables
// with sensible defaults
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env file: %w", err)
	}

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	cfg := &Config{
		Server: ServerConfig{
			Port:            v.GetString("PORT"),
			ReadTimeout:     v.GetDuration("SERVER_READ_TIMEOUT"),
			WriteTimeout:    v.GetDuration("SERVER_WRITE_TIMEOUT"),
			IdleTimeout:     v.GetDuration("SERVER_IDLE_TIMEOUT"),
			RequestTimeout:  v.GetDuration("SERVER_REQUEST_TIMEOUT"),
			ShutdownTimeout: v.GetDuration("SERVER_SHUTDOWN_TIMEOUT"),
		},
		Storage: StorageConfig{
			Backend: strings.ToLower(v.GetString("STORAGE_BACKEND")),
		},
		Database: DatabaseConfig{
			Driver:          strings.ToLower(v.GetString("DB_DRIVER")),
			Host:            v.GetString("DB_HOST"),
			Port:            v.GetString("DB_PORT"),
			User:            v.GetString("DB_USER"),
			Password:        v.GetString("DB_PASSWORD"),
			DBName:          v.GetString("DB_NAME"),
			SSLMode:         v.GetString("DB_SSLMODE"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: v.GetDuration("DB_CONN_MAX_LIFETIME"),
			AutoMigrate:     v.GetBool("DB_AUTO_MIGRATE"),
		},
		Redis: RedisConfig{
			Addr:           v.GetString("REDIS_ADDR"),
			Password:       v.GetString("REDIS_PASSWORD"),
			DB:             v.GetInt("REDIS_DB"),
			IdempotencyTTL: v.GetDuration("REDIS_IDEMPOTENCY_TTL"),
			LockTimeout:    v.GetDuration("REDIS_LOCK_TIMEOUT"),
		},
		Events: EventsConfig{
			Brokers: splitList(v.GetString("KAFKA_BROKERS")),
		},
		Auth: AuthConfig{
			JWTSecret:        v.GetString("JWT_SECRET"),
			TokenTTL:         v.GetDuration("JWT_TTL"),
			AdminCredentials: parseCredentials(v.GetString("ADMIN_CREDENTIALS")),
			Argon2: Argon2Config{
				Time:       v.GetInt("ARGON2_TIME"),
				MemoryKB:   v.GetInt("ARGON2_MEMORY_KB"),
				Threads:    v.GetInt("ARGON2_THREADS"),
				KeyLength:  v.GetInt("ARGON2_KEY_LENGTH"),
				SaltLength: v.GetInt("ARGON2_SALT_LENGTH"),
			},
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
		App: AppConfig{
			FailureRate:             v.GetFloat64("FAILURE_RATE"),
			BalanceWriteFailureRate: v.GetFloat64("BALANCE_WRITE_FAILURE_RATE"),
			MinLatencyMS:            v.GetInt("MIN_LATENCY_MS"),
			MaxLatencyMS:            v.GetInt("MAX_LATENCY_MS"),
		},
		Logger: LoggerConfig{
			Level:  strings.ToLower(v.GetString("LOG_LEVEL")),
			Format: strings.ToLower(v.GetString("LOG_FORMAT")),
		},
	}

	var err error
	if cfg.App.CryptoWithdrawalFeePercent, err = decimal.NewFromString(v.GetString("CRYPTO_WITHDRAWAL_FEE_PERCENT")); err != nil {
		return nil, fmt.Errorf("invalid CRYPTO_WITHDRAWAL_FEE_PERCENT: %w", err)
	}
	if cfg.App.BankWithdrawalFeePercent, err = decimal.NewFromString(v.GetString("BANK_WITHDRAWAL_FEE_PERCENT")); err != nil {
		return nil, fmt.Errorf("invalid BANK_WITHDRAWAL_FEE_PERCENT: %w", err)
	}
	if cfg.App.MinBankWithdrawal, err = decimal.NewFromString(v.GetString("MIN_BANK_WITHDRAWAL")); err != nil {
		return nil, fmt.Errorf("invalid MIN_BANK_WITHDRAWAL: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("SERVER_READ_TIMEOUT", "15s")
	v.SetDefault("SERVER_WRITE_TIMEOUT", "15s")
	v.SetDefault("SERVER_IDLE_TIMEOUT", "60s")
	v.SetDefault("SERVER_REQUEST_TIMEOUT", "10s")
	v.SetDefault("SERVER_SHUTDOWN_TIMEOUT", "30s")

	v.SetDefault("STORAGE_BACKEND", StorageBackendPostgres)

	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "ledger")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 25)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_CONN_MAX_LIFETIME", "5m")
	v.SetDefault("DB_AUTO_MIGRATE", true)

	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_IDEMPOTENCY_TTL", "24h")
	v.SetDefault("REDIS_LOCK_TIMEOUT", "10s")

	v.SetDefault("JWT_SECRET", "local-development-secret-change-me")
	v.SetDefault("JWT_TTL", "24h")
	v.SetDefault("ARGON2_TIME", 1)
	v.SetDefault("ARGON2_MEMORY_KB", 64*1024)
	v.SetDefault("ARGON2_THREADS", 4)
	v.SetDefault("ARGON2_KEY_LENGTH", 32)
	v.SetDefault("ARGON2_SALT_LENGTH", 16)

	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:5173")

	v.SetDefault("CRYPTO_WITHDRAWAL_FEE_PERCENT", "10")
	v.SetDefault("BANK_WITHDRAWAL_FEE_PERCENT", "2")
	v.SetDefault("MIN_BANK_WITHDRAWAL", "50")
	v.SetDefault("FAILURE_RATE", 0.0)
	v.SetDefault("BALANCE_WRITE_FAILURE_RATE", 0.0)
	v.SetDefault("MIN_LATENCY_MS", 0)
	v.SetDefault("MAX_LATENCY_MS", 0)

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port cannot be empty")
	}

	switch c.Storage.Backend {
	case StorageBackendPostgres:
		if c.Database.Host == "" {
			return fmt.Errorf("database host cannot be empty")
		}
		if c.Database.DBName == "" {
			return fmt.Errorf("database name cannot be empty")
		}
		if c.Database.Driver != "postgres" && c.Database.Driver != "pgx" {
			return fmt.Errorf("invalid database driver: %s (must be postgres or pgx)", c.Database.Driver)
		}
	case StorageBackendMemory:
	default:
		return fmt.Errorf("invalid storage backend: %s (must be postgres or memory)", c.Storage.Backend)
	}

	if len(c.Auth.JWTSecret) < 16 {
		return fmt.Errorf("jwt secret must be at least 16 characters")
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("jwt ttl must be positive")
	}

	hundred := decimal.NewFromInt(100)
	for name, pct := range map[string]decimal.Decimal{
		"crypto withdrawal fee": c.App.CryptoWithdrawalFeePercent,
		"bank withdrawal fee":   c.App.BankWithdrawalFeePercent,
	} {
		if pct.IsNegative() || pct.GreaterThan(hundred) {
			return fmt.Errorf("%s must be between 0 and 100, got %s", name, pct)
		}
	}
	if c.App.MinBankWithdrawal.IsNegative() {
		return fmt.Errorf("minimum bank withdrawal cannot be negative")
	}

	if c.App.FailureRate < 0 || c.App.FailureRate > 1 {
		return fmt.Errorf("failure rate must be between 0 and 1, got %f", c.App.FailureRate)
	}
	if c.App.BalanceWriteFailureRate < 0 || c.App.BalanceWriteFailureRate > 1 {
		return fmt.Errorf("balance write failure rate must be between 0 and 1, got %f", c.App.BalanceWriteFailureRate)
	}

	if c.App.MinLatencyMS < 0 {
		return fmt.Errorf("min latency cannot be negative")
	}
	if c.App.MaxLatencyMS < c.App.MinLatencyMS {
		return fmt.Errorf("max latency (%d) must be >= min latency (%d)", c.App.MaxLatencyMS, c.App.MinLatencyMS)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logger.Level] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}
	if c.Logger.Format != "json" && c.Logger.Format != "text" {
		return fmt.Errorf("invalid log format: %s (must be json or text)", c.Logger.Format)
	}

	return nil
}

// DSN returns the PostgreSQL connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// Enabled reports whether a Redis address was configured
func (c *RedisConfig) Enabled() bool {
	return c.Addr != ""
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// parseCredentials reads "email:hash,email:hash". Hashes never contain ':'.
func parseCredentials(raw string) map[string]string {
	creds := make(map[string]string)
	for _, entry := range splitList(raw) {
		email, hash, ok := strings.Cut(entry, ":")
		if !ok || email == "" || hash == "" {
			continue
		}
		creds[strings.ToLower(strings.TrimSpace(email))] = strings.TrimSpace(hash)
	}
	return creds
}
