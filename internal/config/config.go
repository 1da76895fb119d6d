package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// OpenAI
	OpenAIAPIKey string
	OpenAIModel  string

	// Discord Bot (optional; bot disabled when empty)
	DiscordToken string

	// Database (optional; split history disabled when empty)
	DatabaseURL string

	// Web Server
	WebBind string

	// TibiaData API
	TibiaDataBaseURL string

	// Parser
	ReconstructThreshold int
}

func Load() (*Config, error) {
	// Load environment variables from .env if present (non-fatal if missing)
	_ = godotenv.Load()

	cfg := &Config{
		OpenAIAPIKey:     os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:      getEnvDefault("OPENAI_MODEL", "gpt-4o-mini"),
		DiscordToken:     os.Getenv("DISCORD_TOKEN"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		WebBind:          getEnvDefault("WEB_BIND", "0.0.0.0:8000"),
		TibiaDataBaseURL: getEnvDefault("TIBIADATA_BASE_URL", "https://api.tibiadata.com/v4"),
	}

	threshold, err := getEnvIntDefault("RECONSTRUCT_THRESHOLD", 100)
	if err != nil {
		return nil, err
	}
	cfg.ReconstructThreshold = threshold

	return cfg, nil
}

func getEnvDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntDefault(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}
