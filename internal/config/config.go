package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type DBConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	SSLMode         string
	TimeZone        string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifeTime int // minutes
}

type Config struct {
	DB DBConfig

	HTTPAddr string

	// Admin auth: bearer JWT whose email claim must appear in AdminEmails.
	JWTSecret   string
	AdminEmails []string

	// Fallback unit price for uninvoiced completed bookings, e.g. "200.00".
	DefaultServiceCost string
}

// Load reads configuration from the environment. A .env file is applied
// first when present (local runs); real deployments set env vars directly.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		DB: DBConfig{
			Host:            getEnv("DB_HOST", "postgres"),
			User:            getEnv("DB_USER", "booking"),
			Password:        getEnv("DB_PASSWORD", "booking"),
			Name:            getEnv("DB_NAME", "booking_db"),
			SSLMode:         getEnv("DB_SSLMODE", "disable"),
			TimeZone:        getEnv("DB_TIMEZONE", "UTC"),
			Port:            getEnvInt("DB_PORT", 5432),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifeTime: getEnvInt("DB_CONN_MAX_LIFETIME_MIN", 30),
		},
		HTTPAddr:           getEnv("HTTP_ADDR", ":8080"),
		JWTSecret:          getEnv("JWT_SECRET", ""),
		AdminEmails:        splitCSV(getEnv("ADMIN_EMAILS", "")),
		DefaultServiceCost: getEnv("DEFAULT_SERVICE_COST", ""),
	}

	if cfg.DB.Host == "" || cfg.DB.User == "" || cfg.DB.Name == "" {
		return nil, fmt.Errorf("invalid DB config: host/user/name must not be empty")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET must be set")
	}
	if len(cfg.AdminEmails) == 0 {
		return nil, fmt.Errorf("ADMIN_EMAILS must list at least one allowed admin")
	}

	return cfg, nil
}

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if v := strings.ToLower(strings.TrimSpace(part)); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}
