package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Vector store backends accepted by VECTOR_STORE.
const (
	VectorStoreQdrant = "qdrant"
	VectorStoreMemory = "memory"
)

// Config holds all configuration for the application.
type Config struct {
	APIPort   string
	LogLevel  slog.Level
	LogFormat string

	DBPath         string
	UploadDir      string
	MaxUploadBytes int64

	VectorStore string
	QdrantURL   string

	EmbeddingBaseURL   string
	EmbeddingModelName string
	EmbeddingAPIKey    string
	EmbeddingDimension int

	ChunkSize    int
	ChunkOverlap int
	TopK         int

	GenerationTimeout     time.Duration
	GenerationMaxTokens   int
	GenerationTemperature float32
	GenerationRateLimit   float64

	OpenRouterAPIKey  string
	OpenRouterBaseURL string
	OpenRouterModel   string

	HFEnabled bool
	HFAPIKey  string
	HFBaseURL string
	HFModel   string

	LocalLLMBaseURL string
	LocalLLMModel   string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	QueueName     string

	CallbackURL     string
	CallbackTimeout time.Duration
	RetryDelay      time.Duration
	IngestTimeout   time.Duration
	// WorkerMetricsPort serves worker metrics when set.
	WorkerMetricsPort string
}

// Load reads configuration from environment variables and returns a Config struct.
// A .env file in the working directory or up to five parents is loaded first;
// variables already set in the environment take precedence.
func Load() (*Config, error) {
	loadDotEnv()

	cfg := &Config{
		APIPort:   getEnv("API_PORT", "8000"),
		LogFormat: strings.ToLower(getEnv("LOG_FORMAT", "text")),

		DBPath:    getEnv("DB_PATH", "./data/paperqa.db"),
		UploadDir: getEnv("UPLOAD_DIR", os.TempDir()),

		VectorStore: strings.ToLower(getEnv("VECTOR_STORE", VectorStoreQdrant)),
		QdrantURL:   getEnv("QDRANT_URL", "http://localhost:6333"),

		EmbeddingBaseURL:   getEnv("EMBEDDINGS_BASE_URL", "http://localhost:8080"),
		EmbeddingModelName: getEnv("EMBEDDINGS_MODEL", "all-MiniLM-L6-v2"),
		EmbeddingAPIKey:    getEnv("EMBEDDINGS_API_KEY", ""),

		OpenRouterAPIKey:  getEnv("OPENROUTER_API_KEY", ""),
		OpenRouterBaseURL: getEnv("OPENROUTER_BASE_URL", "https://openrouter.ai/api"),
		OpenRouterModel:   getEnv("OPENROUTER_MODEL", "deepseek/deepseek-r1-0528:free"),

		HFAPIKey:  getEnv("HF_API_KEY", ""),
		HFBaseURL: getEnv("HF_BASE_URL", "https://api-inference.huggingface.co"),
		HFModel:   getEnv("HF_MODEL", "microsoft/DialoGPT-medium"),

		LocalLLMBaseURL: getEnv("LOCAL_LLM_BASE_URL", "http://localhost:8081"),
		LocalLLMModel:   getEnv("LOCAL_LLM_MODEL", ""),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		QueueName:     getEnv("QUEUE_NAME", "doc-processing-queue"),

		CallbackURL:       getEnv("CALLBACK_URL", "http://localhost:8081/api/v1/documents/callback/status"),
		WorkerMetricsPort: getEnv("WORKER_METRICS_PORT", ""),
	}

	var err error
	if cfg.LogLevel, err = parseLevel(getEnv("LOG_LEVEL", "info")); err != nil {
		return nil, err
	}
	if cfg.MaxUploadBytes, err = parseInt64("MAX_UPLOAD_BYTES", 50<<20); err != nil {
		return nil, err
	}
	if cfg.EmbeddingDimension, err = parseInt("EMBEDDINGS_VECTOR_SIZE", 384); err != nil {
		return nil, err
	}
	if cfg.ChunkSize, err = parseInt("CHUNK_SIZE", 1000); err != nil {
		return nil, err
	}
	if cfg.ChunkOverlap, err = parseInt("CHUNK_OVERLAP", 250); err != nil {
		return nil, err
	}
	if cfg.TopK, err = parseInt("TOP_K", 5); err != nil {
		return nil, err
	}
	if cfg.GenerationTimeout, err = parseDuration("GENERATION_TIMEOUT", 60*time.Second); err != nil {
		return nil, err
	}
	if cfg.GenerationMaxTokens, err = parseInt("GENERATION_MAX_TOKENS", 1000); err != nil {
		return nil, err
	}
	temperature, err := parseFloat("GENERATION_TEMPERATURE", 0.3)
	if err != nil {
		return nil, err
	}
	cfg.GenerationTemperature = float32(temperature)
	if cfg.GenerationRateLimit, err = parseFloat("GENERATION_RATE_LIMIT", 0); err != nil {
		return nil, err
	}
	if cfg.HFEnabled, err = parseBool("HF_INFERENCE_ENABLED", false); err != nil {
		return nil, err
	}
	if cfg.RedisDB, err = parseInt("REDIS_DB", 0); err != nil {
		return nil, err
	}
	if cfg.CallbackTimeout, err = parseDuration("CALLBACK_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.RetryDelay, err = parseDuration("WORKER_RETRY_DELAY", 5*time.Second); err != nil {
		return nil, err
	}
	if cfg.IngestTimeout, err = parseDuration("INGEST_TIMEOUT", 10*time.Minute); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	// Create the database directory if it doesn't exist
	dataDir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("LOG_FORMAT must be text or json, got %q", c.LogFormat)
	}
	if c.VectorStore != VectorStoreQdrant && c.VectorStore != VectorStoreMemory {
		return fmt.Errorf("VECTOR_STORE must be %s or %s, got %q", VectorStoreQdrant, VectorStoreMemory, c.VectorStore)
	}
	if c.EmbeddingDimension <= 0 {
		return fmt.Errorf("EMBEDDINGS_VECTOR_SIZE must be greater than 0")
	}
	if c.ChunkSize <= 0 {
		return fmt.Errorf("CHUNK_SIZE must be greater than 0")
	}
	if c.ChunkOverlap < 0 || c.ChunkOverlap >= c.ChunkSize {
		return fmt.Errorf("CHUNK_OVERLAP must be in [0, CHUNK_SIZE)")
	}
	if c.TopK <= 0 {
		return fmt.Errorf("TOP_K must be greater than 0")
	}
	if c.GenerationTimeout <= 0 {
		return fmt.Errorf("GENERATION_TIMEOUT must be positive")
	}
	if c.GenerationRateLimit < 0 {
		return fmt.Errorf("GENERATION_RATE_LIMIT must not be negative")
	}
	if c.HFEnabled && c.HFAPIKey == "" {
		return fmt.Errorf("HF_API_KEY is required when HF_INFERENCE_ENABLED is set")
	}
	if c.RetryDelay <= 0 {
		return fmt.Errorf("WORKER_RETRY_DELAY must be positive")
	}
	if c.IngestTimeout <= 0 {
		return fmt.Errorf("INGEST_TIMEOUT must be positive")
	}
	return nil
}

// loadDotEnv loads the nearest .env file, walking up from the working directory.
func loadDotEnv() {
	_ = godotenv.Load()

	wd, err := os.Getwd()
	if err != nil {
		return
	}
	dir := wd
	for i := 0; i < 5; i++ {
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			_ = godotenv.Load(envPath)
			return
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return
		}
		dir = parent
	}
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseInt(key string, defaultValue int) (int, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid integer: %w", key, err)
	}
	return v, nil
}

func parseInt64(key string, defaultValue int64) (int64, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid integer: %w", key, err)
	}
	return v, nil
}

func parseFloat(key string, defaultValue float64) (float64, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid number: %w", key, err)
	}
	return v, nil
}

func parseBool(key string, defaultValue bool) (bool, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%s must be a boolean: %w", key, err)
	}
	return v, nil
}

func parseDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration: %w", key, err)
	}
	return v, nil
}

func parseLevel(raw string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(raw)); err != nil {
		return 0, fmt.Errorf("LOG_LEVEL must be one of debug, info, warn, error: %w", err)
	}
	return level, nil
}
