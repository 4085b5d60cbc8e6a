package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all environmentally dependent settings for the JubilGo API.
type Config struct {
	HTTPAddr    string
	SQLiteDSN   string
	StoreDriver string // "bun" or "sqlite"

	OllamaHost             string
	OllamaEmbedModel       string
	GeminiAPIKey           string
	GeminiEmbedModel       string
	UseLocalOnlyEmbeddings bool

	EmbeddingTimeout    time.Duration
	EmbeddingRetries    int
	EmbeddingWriteChunk int

	HistoryLimit int
}

// Validate ensures that all required configuration is present and valid.
func (c *Config) Validate() error {
	if !c.UseLocalOnlyEmbeddings && c.GeminiAPIKey == "" {
		return fmt.Errorf("JG_GEMINI_API_KEY is required when JG_USE_LOCAL_ONLY_EMBEDDINGS is false")
	}
	if c.StoreDriver != "bun" && c.StoreDriver != "sqlite" {
		return fmt.Errorf("JG_STORE_DRIVER must be \"bun\" or \"sqlite\", got %q", c.StoreDriver)
	}
	if c.EmbeddingWriteChunk <= 0 {
		return fmt.Errorf("JG_EMBEDDING_WRITE_CHUNK must be positive")
	}
	return nil
}

// Load reads settings from environment variables with sensible defaults.
func Load() *Config {
	cfg := &Config{
		HTTPAddr:    getEnv("JG_HTTP_ADDR", ":8080"),
		SQLiteDSN:   getEnv("JG_SQLITE_DSN", "file:jubilgo.db?cache=shared"),
		StoreDriver: getEnv("JG_STORE_DRIVER", "bun"),

		OllamaHost:             getEnv("JG_OLLAMA_HOST", "http://localhost:11434"),
		OllamaEmbedModel:       getEnv("JG_OLLAMA_EMBED_MODEL", "nomic-embed-text"),
		GeminiAPIKey:           getEnv("JG_GEMINI_API_KEY", ""),
		GeminiEmbedModel:       getEnv("JG_GEMINI_EMBED_MODEL", "text-embedding-004"),
		UseLocalOnlyEmbeddings: getEnvBool("JG_USE_LOCAL_ONLY_EMBEDDINGS", false),

		EmbeddingTimeout:    getEnvDuration("JG_EMBEDDING_TIMEOUT_SEC", 30) * time.Second,
		EmbeddingRetries:    getEnvInt("JG_EMBEDDING_RETRIES", 3),
		EmbeddingWriteChunk: getEnvInt("JG_EMBEDDING_WRITE_CHUNK", 300),

		HistoryLimit: getEnvInt("JG_HISTORY_LIMIT", 120),
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("[Config] Validation failed: %v", err)
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		return strings.ToLower(value) == "true" || value == "1"
	}
	return fallback
}

func getEnvDuration(key string, fallback int) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return time.Duration(fallback)
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("[Config] Warning: Invalid duration for %s: %v. Using fallback %d", key, err, fallback)
		return time.Duration(fallback)
	}
	return time.Duration(value)
}

func getEnvInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("[Config] Warning: Invalid int for %s: %v. Using fallback %d", key, err, fallback)
		return fallback
	}
	return value
}
