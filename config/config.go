package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	TelegramToken      string
	OpenAIKey          string
	OpenAIBaseURL      string
	OpenAIModel        string
	OpenAIWhisperModel string
	StoreBackend       string
	DatabaseURL        string
	SQLitePath         string
	AllowedChatIDs     []int64
	SuperuserChatIDs   []int64
}

// LoadConfig loads configuration from environment variables
// It first tries to load from .env file, then falls back to system environment variables
func LoadConfig() *Config {
	// Load .env file if it exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or couldn't be loaded: %v", err)
	}

	return &Config{
		TelegramToken:      getEnv("TELEGRAM_API_KEY", ""),
		OpenAIKey:          getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL:      getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		OpenAIModel:        getEnv("OPENAI_MODEL", "gpt-3.5-turbo"),
		OpenAIWhisperModel: getEnv("OPENAI_WHISPER_MODEL", "whisper-1"),
		StoreBackend:       getEnv("STORE_BACKEND", "sqlite"),
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		SQLitePath:         getEnv("SQLITE_PATH", "var/db/cerebro.db"),
		AllowedChatIDs:     getEnvIDs("ALLOWED_CHAT_IDS"),
		SuperuserChatIDs:   getEnvIDs("SUPERUSER_CHAT_IDS"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvIDs parses a comma-separated list of chat ids. Malformed entries are
// skipped with a warning rather than aborting startup.
func getEnvIDs(key string) []int64 {
	raw := os.Getenv(key)
	if raw == "" {
		return nil
	}

	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			log.Printf("Warning: ignoring invalid chat id %q in %s", part, key)
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

func (c *Config) Validate() error {
	if c.TelegramToken == "" {
		return fmt.Errorf("TELEGRAM_API_KEY is required")
	}
	if c.OpenAIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required")
	}
	switch c.StoreBackend {
	case "postgres":
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required when STORE_BACKEND=postgres")
		}
	case "sqlite":
		if c.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required when STORE_BACKEND=sqlite")
		}
	default:
		return fmt.Errorf("STORE_BACKEND must be 'postgres' or 'sqlite', got %q", c.StoreBackend)
	}
	if len(c.AllowedChatIDs) == 0 {
		log.Println("Warning: ALLOWED_CHAT_IDS is empty, the bot will deny every chat")
	}
	return nil
}
