package config

import (
	"errors"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

var ErrMissingJWTSecret = errors.New("JWT_SECRET must be set")

type Config struct {
	Port     string
	JWTKey   []byte
	LogLevel slog.Level

	DBHost            string
	DBPort            string
	DBUser            string
	DBPassword        string
	DBName            string
	DBSslMode         string
	DBMaintenanceName string

	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	PostEventsQueue string

	// DotEnvLoaded reports whether Load found a .env file.
	DotEnvLoaded bool
}

// Load reads an optional .env file and then the process environment.
// It fails when the token signing secret is absent.
func Load() (*Config, error) {
	loaded := godotenv.Load() == nil
	cfg, err := FromEnv()
	if err != nil {
		return nil, err
	}
	cfg.DotEnvLoaded = loaded
	return cfg, nil
}

// FromEnv builds a Config from the process environment only.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Port:              getEnv("PORT", "3000"),
		JWTKey:            []byte(getEnv("JWT_SECRET", "")),
		LogLevel:          parseLevel(getEnv("LOG_LEVEL", "info")),
		DBHost:            getEnv("DB_HOST", "localhost"),
		DBPort:            getEnv("DB_PORT", "5432"),
		DBUser:            getEnv("DB_USER", "postgres"),
		DBPassword:        getEnv("DB_PASSWORD", ""),
		DBName:            getEnv("DB_NAME", "minisocial"),
		DBSslMode:         getEnv("DB_SSLMODE", "disable"),
		DBMaintenanceName: getEnv("DB_MAINTENANCE_NAME", "postgres"),
		RedisAddr:         getEnv("REDIS_ADDR", ""),
		RedisPassword:     getEnv("REDIS_PASSWORD", ""),
		RedisDB:           getEnvAsInt("REDIS_DB", 0),
		PostEventsQueue:   getEnv("POST_EVENTS_QUEUE", "post_events"),
	}

	if len(cfg.JWTKey) == 0 {
		return nil, ErrMissingJWTSecret
	}
	return cfg, nil
}

// DSN returns the connection string for the application database.
func (c *Config) DSN() string {
	return c.dsn(c.DBName)
}

// MaintenanceDSN points at the database used to create the application database.
func (c *Config) MaintenanceDSN() string {
	return c.dsn(c.DBMaintenanceName)
}

func (c *Config) dsn(dbName string) string {
	parts := []string{
		"host=" + c.DBHost,
		"port=" + c.DBPort,
		"user=" + c.DBUser,
	}
	if c.DBPassword != "" {
		parts = append(parts, "password="+c.DBPassword)
	}
	parts = append(parts, "dbname="+dbName, "sslmode="+c.DBSslMode)
	return strings.Join(parts, " ")
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return fallback
}

func parseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return level
}
