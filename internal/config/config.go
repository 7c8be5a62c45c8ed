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
	Addr                     string
	DBPath                   string
	LogLevel                 string
	OpenAIAPIKey             string
	OpenAIModel              string
	DistractorTimeoutSeconds int
	WarmupWorkerCount        int
	WarmupQueueSize          int
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying sensible defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:                     envOr("ADDR", ":8080"),
		DBPath:                   envOr("DB_PATH", "file:memoflash.db"),
		LogLevel:                 envOr("LOG_LEVEL", "INFO"),
		OpenAIAPIKey:             envOr("OPENAI_API_KEY", ""),
		OpenAIModel:              envOr("OPENAI_MODEL", "gpt-4o-mini"),
		DistractorTimeoutSeconds: envIntOr("DISTRACTOR_TIMEOUT_SECONDS", 15),
		WarmupWorkerCount:        envIntOr("WARMUP_WORKER_COUNT", 2),
		WarmupQueueSize:          envIntOr("WARMUP_QUEUE_SIZE", 32),
	}
}

// Validate checks the configuration and reports every problem at once.
func (c Config) Validate() error {
	var problems []string

	if c.Addr == "" {
		problems = append(problems, "ADDR cannot be empty")
	}
	if c.DBPath == "" {
		problems = append(problems, "DB_PATH cannot be empty")
	}
	switch strings.ToUpper(c.LogLevel) {
	case "DEBUG", "INFO", "WARN", "ERROR":
	default:
		problems = append(problems, fmt.Sprintf("LOG_LEVEL must be DEBUG, INFO, WARN or ERROR, got %q", c.LogLevel))
	}
	if c.DistractorTimeoutSeconds <= 0 {
		problems = append(problems, "DISTRACTOR_TIMEOUT_SECONDS must be positive")
	}
	if c.WarmupWorkerCount <= 0 {
		problems = append(problems, "WARMUP_WORKER_COUNT must be positive")
	}
	if c.WarmupQueueSize <= 0 {
		problems = append(problems, "WARMUP_QUEUE_SIZE must be positive")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}
