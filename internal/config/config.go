package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env     string
	Server  ServerConfig
	Storage StorageConfig
	Secrets SecretsConfig
	Reset   ResetConfig
	Rate    RateLimitConfig
}

type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type StorageConfig struct {
	Driver        string
	DataDir       string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	Postgres      PostgresConfig
}

type PostgresConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxOpenConns    int
	ConnMaxIdleTime time.Duration
	ConnMaxLifetime time.Duration
}

type SecretsConfig struct {
	Dir string
}

type ResetConfig struct {
	TokenSecret string
	TokenIssuer string
	TokenTTL    time.Duration
}

type RateLimitConfig struct {
	PerMinute int
	Burst     int
}

const (
	StorageDriverFile     = "file"
	StorageDriverRedis    = "redis"
	StorageDriverPostgres = "postgres"
)

// Load загружает конфигурацию приложения из окружения и .env.
func Load() (Config, error) {
	cfg := Config{}

	if err := loadEnv(); err != nil {
		return cfg, err
	}

	cfg.Env = getEnv("APP_ENV", "local")

	serverPort, err := parseIntEnv("SERVER_PORT", 8080)
	if err != nil {
		return cfg, err
	}

	readTimeout, err := parseDurationEnv("SERVER_READ_TIMEOUT", 5*time.Second)
	if err != nil {
		return cfg, err
	}

	writeTimeout, err := parseDurationEnv("SERVER_WRITE_TIMEOUT", 10*time.Second)
	if err != nil {
		return cfg, err
	}

	idleTimeout, err := parseDurationEnv("SERVER_IDLE_TIMEOUT", 60*time.Second)
	if err != nil {
		return cfg, err
	}

	cfg.Server = ServerConfig{
		Host:         getEnv("SERVER_HOST", "0.0.0.0"),
		Port:         serverPort,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}

	redisDB, err := parseIntEnv("STORAGE_REDIS_DB", 0)
	if err != nil {
		return cfg, err
	}

	pgPort, err := parseIntEnv("STORAGE_PG_PORT", 5432)
	if err != nil {
		return cfg, err
	}

	pgMaxConns, err := parseIntEnv("STORAGE_PG_MAX_OPEN_CONNS", 4)
	if err != nil {
		return cfg, err
	}

	pgIdleTime, err := parseDurationEnv("STORAGE_PG_CONN_MAX_IDLE_TIME", 5*time.Minute)
	if err != nil {
		return cfg, err
	}

	pgLifetime, err := parseDurationEnv("STORAGE_PG_CONN_MAX_LIFETIME", 30*time.Minute)
	if err != nil {
		return cfg, err
	}

	cfg.Storage = StorageConfig{
		Driver:        strings.ToLower(getEnv("STORAGE_DRIVER", StorageDriverFile)),
		DataDir:       getEnv("STORAGE_DATA_DIR", "data"),
		RedisAddr:     getEnv("STORAGE_REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("STORAGE_REDIS_PASSWORD", ""),
		RedisDB:       redisDB,
		Postgres: PostgresConfig{
			Host:            getEnv("STORAGE_PG_HOST", "localhost"),
			Port:            pgPort,
			User:            getEnv("STORAGE_PG_USER", "utang"),
			Password:        getEnv("STORAGE_PG_PASSWORD", "utang"),
			Name:            getEnv("STORAGE_PG_NAME", "utang_tracker"),
			SSLMode:         getEnv("STORAGE_PG_SSLMODE", "disable"),
			MaxOpenConns:    pgMaxConns,
			ConnMaxIdleTime: pgIdleTime,
			ConnMaxLifetime: pgLifetime,
		},
	}

	cfg.Secrets = SecretsConfig{
		Dir: getEnv("SECRETS_DIR", "secrets"),
	}

	resetTTL, err := parseDurationEnv("RESET_TOKEN_TTL", 2*time.Minute)
	if err != nil {
		return cfg, err
	}

	cfg.Reset = ResetConfig{
		TokenSecret: getEnv("RESET_TOKEN_SECRET", ""),
		TokenIssuer: getEnv("RESET_TOKEN_ISSUER", "utang-tracker"),
		TokenTTL:    resetTTL,
	}

	ratePerMinute, err := parseIntEnv("RATE_LIMIT_PER_MINUTE", 120)
	if err != nil {
		return cfg, err
	}

	rateBurst, err := parseIntEnv("RATE_LIMIT_BURST", 20)
	if err != nil {
		return cfg, err
	}

	cfg.Rate = RateLimitConfig{
		PerMinute: ratePerMinute,
		Burst:     rateBurst,
	}

	if err := cfg.validate(); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// DSN возвращает строку подключения к базе данных.
func (c PostgresConfig) DSN() string {
	user := url.UserPassword(c.User, c.Password)
	dsn := url.URL{
		Scheme: "postgres",
		User:   user,
		Host:   fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:   c.Name,
	}

	query := url.Values{}
	query.Set("sslmode", c.SSLMode)
	return dsn.String() + "?" + query.Encode()
}

func (c Config) validate() error {
	if c.Server.Port <= 0 {
		return fmt.Errorf("SERVER_PORT must be greater than 0")
	}

	switch c.Storage.Driver {
	case StorageDriverFile:
		if c.Storage.DataDir == "" {
			return fmt.Errorf("STORAGE_DATA_DIR is required for the file driver")
		}
	case StorageDriverRedis:
		if c.Storage.RedisAddr == "" {
			return fmt.Errorf("STORAGE_REDIS_ADDR is required for the redis driver")
		}
	case StorageDriverPostgres:
		if c.Storage.Postgres.Host == "" {
			return fmt.Errorf("STORAGE_PG_HOST is required for the postgres driver")
		}
		if c.Storage.Postgres.User == "" {
			return fmt.Errorf("STORAGE_PG_USER is required for the postgres driver")
		}
		if c.Storage.Postgres.Name == "" {
			return fmt.Errorf("STORAGE_PG_NAME is required for the postgres driver")
		}
	default:
		return fmt.Errorf("STORAGE_DRIVER must be one of file, redis, postgres")
	}

	if c.Secrets.Dir == "" {
		return fmt.Errorf("SECRETS_DIR is required")
	}

	if c.Reset.TokenSecret == "" {
		return fmt.Errorf("RESET_TOKEN_SECRET is required")
	}

	if c.Reset.TokenTTL <= 0 {
		return fmt.Errorf("RESET_TOKEN_TTL must be greater than 0")
	}

	if c.Rate.PerMinute <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be greater than 0")
	}

	if c.Rate.Burst <= 0 {
		return fmt.Errorf("RATE_LIMIT_BURST must be greater than 0")
	}

	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}

	return fallback
}

func parseIntEnv(key string, fallback int) (int, error) {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback, nil
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}

	if parsed < 0 {
		return 0, fmt.Errorf("%s must not be negative", key)
	}

	return parsed, nil
}

func parseDurationEnv(key string, fallback time.Duration) (time.Duration, error) {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback, nil
	}

	parsed, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration: %w", key, err)
	}

	if parsed <= 0 {
		return 0, fmt.Errorf("%s must be greater than 0", key)
	}

	return parsed, nil
}

func loadEnv() error {
	if envFile := os.Getenv("ENV_FILE"); envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return fmt.Errorf("load env file %s: %w", envFile, err)
		}
		return nil
	}

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("load .env: %w", err)
	}

	return nil
}
