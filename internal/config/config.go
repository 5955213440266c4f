package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

const (
	PlatformTelegram = "telegram"
	PlatformDiscord  = "discord"
)

type Config struct {
	// Chat transport
	Platform string
	BotToken string

	// Persistence: DatabaseURL selects Postgres, otherwise JSON files
	// under DataDir.
	DataDir     string
	DatabaseURL string

	// Operator API
	WebBind       string
	JWTSecret     string
	AdminPassword string
}

func Load() (*Config, error) {
	// Load environment variables from .env if present (non-fatal if missing)
	_ = godotenv.Load()

	cfg := &Config{
		Platform:      getEnvDefault("PLATFORM", PlatformTelegram),
		BotToken:      os.Getenv("BOT_TOKEN"),
		DataDir:       getEnvDefault("DATA_DIR", "."),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		WebBind:       getEnvDefault("WEB_BIND", "0.0.0.0:3000"),
		JWTSecret:     getEnvDefault("JWT_SECRET", "dev-only-change-me"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
	}

	if cfg.BotToken == "" {
		return nil, fmt.Errorf("BOT_TOKEN is required")
	}
	if cfg.Platform != PlatformTelegram && cfg.Platform != PlatformDiscord {
		return nil, fmt.Errorf("PLATFORM must be %q or %q, got %q", PlatformTelegram, PlatformDiscord, cfg.Platform)
	}

	return cfg, nil
}

func getEnvDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
