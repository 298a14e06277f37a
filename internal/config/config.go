package config

import (
	"os"
	"strconv"

	"github.com/shopspring/decimal"
)

// Config holds everything the service reads from the environment.
// main loads .env first (godotenv), so a local file and real env
// variables both work.
type Config struct {
	Port string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// DemoMode swaps Postgres and the quote API for the in-memory
	// store and the price simulator.
	DemoMode bool

	QuoteAPIURL string
	QuoteAPIKey string

	StartingCash decimal.Decimal
	TradeWorkers int

	LogLevel  string
	LogPretty bool
}

func Load() Config {
	return Config{
		Port: getEnv("PORT", "8080"),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "trader"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "stockledger"),

		DemoMode: getBool("DEMO_MODE", false),

		QuoteAPIURL: getEnv("QUOTE_API_URL", ""),
		QuoteAPIKey: getEnv("QUOTE_API_KEY", ""),

		StartingCash: getDecimal("STARTING_CASH", decimal.NewFromInt(10000)),
		TradeWorkers: getInt("TRADE_WORKERS", 5),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogPretty: getBool("LOG_PRETTY", false),
	}
}

// Helper to get environment variable with a default
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getInt(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return defaultValue
}

func getDecimal(key string, defaultValue decimal.Decimal) decimal.Decimal {
	if v := os.Getenv(key); v != "" {
		if d, err := decimal.NewFromString(v); err == nil {
			return d
		}
	}
	return defaultValue
}
