package config

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

const (
	defaultDatabaseDSN = "host=localhost user=postgres password=postgres dbname=enku port=5432 sslmode=disable"
	defaultCORSOrigins = "http://localhost:3000"
)

type Config struct {
	HTTPPort       string
	DatabaseDSN    string
	DatabaseDSNSet bool // DATABASE_DSN given explicitly
	JWTSecret      string
	CORSOrigins    string
	FinanceAPIURL  string // Income, Expenses, CashFlow, Sales
	StockAPIURL    string // Suppliers, stockmanagement, users
	SessionBackend string // postgres | redis | memory
	RedisURL       string
	SecureCookies  bool
}

func Load() *Config {
	// .env is optional; real deployments pass plain env vars
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("[WARN] could not read .env: %v", err)
	}

	cfg := &Config{
		HTTPPort:       getEnv("HTTP_PORT", "8080"),
		DatabaseDSN:    getEnv("DATABASE_DSN", defaultDatabaseDSN),
		JWTSecret:      getEnv("JWT_SECRET", ""),
		CORSOrigins:    getEnv("CORS_ALLOWED_ORIGINS", defaultCORSOrigins),
		FinanceAPIURL:  strings.TrimRight(getEnv("FINANCE_API_URL", "http://localhost:34393/api"), "/"),
		StockAPIURL:    strings.TrimRight(getEnv("STOCK_API_URL", "http://localhost:7251/api"), "/"),
		SessionBackend: strings.ToLower(getEnv("SESSION_BACKEND", "postgres")),
		RedisURL:       getEnv("REDIS_URL", "localhost:6379"),
		SecureCookies:  getEnv("SECURE_COOKIES", "false") == "true",
	}
	cfg.DatabaseDSNSet = os.Getenv("DATABASE_DSN") != ""

	if cfg.JWTSecret == "" {
		log.Fatal("[FATAL] JWT_SECRET is not set")
	}
	if len(cfg.JWTSecret) < 32 {
		log.Fatal("[FATAL] JWT_SECRET must be at least 32 characters")
	}
	switch cfg.SessionBackend {
	case "postgres", "redis", "memory":
	default:
		log.Fatalf("[FATAL] SESSION_BACKEND %q is not one of postgres|redis|memory", cfg.SessionBackend)
	}
	if cfg.SessionBackend == "postgres" && cfg.DatabaseDSN == defaultDatabaseDSN {
		log.Println("[WARN] DATABASE_DSN is using the default value, set your own Postgres connection for production.")
	}
	if cfg.CORSOrigins == defaultCORSOrigins {
		log.Println("[WARN] CORS_ALLOWED_ORIGINS is using the default value, set your own domain for production.")
	}

	return cfg
}

// UsesDatabase is false only for the memory backend without an explicit
// DATABASE_DSN: sessions and activity then stay in process.
func (c *Config) UsesDatabase() bool {
	return c.SessionBackend != "memory" || c.DatabaseDSNSet
}

// Origins returns CORS_ALLOWED_ORIGINS split and trimmed.
func (c *Config) Origins() []string {
	parts := strings.Split(c.CORSOrigins, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
