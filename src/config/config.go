package config

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port           string
	DatabaseURL    string
	JWTSecret      string
	PlaidClientID  string
	PlaidSecret    string
	PlaidEnv       string
	OpenAIAPIKey   string
	AllowedOrigins []string
	DemoMode       bool
	DemoSeed       bool
}

func Load() Config {
	// Load .env file if present
	_ = godotenv.Load()

	cfg := Config{
		Port:           getEnv("PORT", "8080"),
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		JWTSecret:      getEnv("JWT_SECRET", ""),
		PlaidClientID:  getEnv("PLAID_CLIENT_ID", ""),
		PlaidSecret:    getEnv("PLAID_SECRET", ""),
		PlaidEnv:       getEnv("PLAID_ENV", "sandbox"),
		OpenAIAPIKey:   getEnv("OPENAI_API_KEY", ""),
		AllowedOrigins: splitEnv(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
		DemoMode:       getEnv("DEMO_MODE", "false") == "true",
		DemoSeed:       getEnv("DEMO_SEED", "false") == "true",
	}

	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func splitEnv(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
