package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// setEnv sets an environment variable, ignoring errors (for test setup)
func setEnv(key, value string) {
	_ = os.Setenv(key, value)
}

// unsetEnv unsets an environment variable, ignoring errors (for test cleanup)
func unsetEnv(key string) {
	_ = os.Unsetenv(key)
}

var envVars = []string{
	"API_PORT", "LOG_LEVEL", "LOG_FORMAT", "DB_PATH", "UPLOAD_DIR", "MAX_UPLOAD_BYTES",
	"VECTOR_STORE", "QDRANT_URL",
	"EMBEDDINGS_BASE_URL", "EMBEDDINGS_MODEL", "EMBEDDINGS_API_KEY", "EMBEDDINGS_VECTOR_SIZE",
	"CHUNK_SIZE", "CHUNK_OVERLAP", "TOP_K",
	"GENERATION_TIMEOUT", "GENERATION_MAX_TOKENS", "GENERATION_TEMPERATURE", "GENERATION_RATE_LIMIT",
	"OPENROUTER_API_KEY", "OPENROUTER_BASE_URL", "OPENROUTER_MODEL",
	"HF_INFERENCE_ENABLED", "HF_API_KEY", "HF_BASE_URL", "HF_MODEL",
	"LOCAL_LLM_BASE_URL", "LOCAL_LLM_MODEL",
	"REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB", "QUEUE_NAME",
	"CALLBACK_URL", "CALLBACK_TIMEOUT", "WORKER_RETRY_DELAY", "WORKER_METRICS_PORT", "INGEST_TIMEOUT",
}

// isolateEnv clears all config variables and moves into an empty directory
// so no .env file is picked up. Everything is restored on cleanup.
func isolateEnv(t *testing.T) {
	t.Helper()

	originalEnv := make(map[string]string)
	for _, key := range envVars {
		originalEnv[key] = os.Getenv(key)
		unsetEnv(key)
	}
	originalWd, _ := os.Getwd()
	_ = os.Chdir(t.TempDir())

	t.Cleanup(func() {
		_ = os.Chdir(originalWd)
		for key, value := range originalEnv {
			if value != "" {
				setEnv(key, value)
			} else {
				unsetEnv(key)
			}
		}
	})
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		setupEnv    func(*testing.T)
		wantErr     bool
		checkConfig func(*Config) bool
	}{
		{
			name: "default values",
			setupEnv: func(t *testing.T) {
				setEnv("DB_PATH", filepath.Join(t.TempDir(), "paperqa.db"))
			},
			checkConfig: func(cfg *Config) bool {
				return cfg.APIPort == "8000" &&
					cfg.LogLevel == slog.LevelInfo &&
					cfg.LogFormat == "text" &&
					cfg.VectorStore == VectorStoreQdrant &&
					cfg.QdrantURL == "http://localhost:6333" &&
					cfg.EmbeddingDimension == 384 &&
					cfg.ChunkSize == 1000 &&
					cfg.ChunkOverlap == 250 &&
					cfg.TopK == 5 &&
					cfg.GenerationTimeout == 60*time.Second &&
					cfg.OpenRouterBaseURL == "https://openrouter.ai/api" &&
					cfg.OpenRouterModel == "deepseek/deepseek-r1-0528:free" &&
					!cfg.HFEnabled &&
					cfg.LocalLLMModel == "" &&
					cfg.RedisAddr == "localhost:6379" &&
					cfg.QueueName == "doc-processing-queue" &&
					cfg.CallbackURL == "http://localhost:8081/api/v1/documents/callback/status" &&
					cfg.RetryDelay == 5*time.Second &&
					cfg.IngestTimeout == 10*time.Minute &&
					cfg.WorkerMetricsPort == ""
			},
		},
		{
			name: "custom values",
			setupEnv: func(t *testing.T) {
				setEnv("DB_PATH", filepath.Join(t.TempDir(), "custom", "db.db"))
				setEnv("LOG_LEVEL", "debug")
				setEnv("LOG_FORMAT", "JSON")
				setEnv("VECTOR_STORE", "memory")
				setEnv("CHUNK_SIZE", "500")
				setEnv("CHUNK_OVERLAP", "50")
				setEnv("TOP_K", "3")
				setEnv("GENERATION_TIMEOUT", "15s")
				setEnv("GENERATION_TEMPERATURE", "0.7")
				setEnv("HF_INFERENCE_ENABLED", "true")
				setEnv("HF_API_KEY", "hf-key")
				setEnv("WORKER_RETRY_DELAY", "250ms")
				setEnv("INGEST_TIMEOUT", "2m")
			},
			checkConfig: func(cfg *Config) bool {
				return cfg.LogLevel == slog.LevelDebug &&
					cfg.LogFormat == "json" &&
					cfg.VectorStore == VectorStoreMemory &&
					cfg.ChunkSize == 500 &&
					cfg.ChunkOverlap == 50 &&
					cfg.TopK == 3 &&
					cfg.GenerationTimeout == 15*time.Second &&
					cfg.GenerationTemperature == 0.7 &&
					cfg.HFEnabled &&
					cfg.RetryDelay == 250*time.Millisecond &&
					cfg.IngestTimeout == 2*time.Minute &&
					filepath.Base(cfg.DBPath) == "db.db"
			},
		},
		{
			name: "invalid LOG_LEVEL",
			setupEnv: func(t *testing.T) {
				setEnv("LOG_LEVEL", "loud")
			},
			wantErr: true,
		},
		{
			name: "invalid LOG_FORMAT",
			setupEnv: func(t *testing.T) {
				setEnv("LOG_FORMAT", "xml")
			},
			wantErr: true,
		},
		{
			name: "unknown VECTOR_STORE",
			setupEnv: func(t *testing.T) {
				setEnv("VECTOR_STORE", "chroma")
			},
			wantErr: true,
		},
		{
			name: "invalid EMBEDDINGS_VECTOR_SIZE",
			setupEnv: func(t *testing.T) {
				setEnv("EMBEDDINGS_VECTOR_SIZE", "invalid")
			},
			wantErr: true,
		},
		{
			name: "zero EMBEDDINGS_VECTOR_SIZE",
			setupEnv: func(t *testing.T) {
				setEnv("EMBEDDINGS_VECTOR_SIZE", "0")
			},
			wantErr: true,
		},
		{
			name: "overlap not smaller than chunk size",
			setupEnv: func(t *testing.T) {
				setEnv("CHUNK_SIZE", "100")
				setEnv("CHUNK_OVERLAP", "100")
			},
			wantErr: true,
		},
		{
			name: "invalid GENERATION_TIMEOUT",
			setupEnv: func(t *testing.T) {
				setEnv("GENERATION_TIMEOUT", "soon")
			},
			wantErr: true,
		},
		{
			name: "zero INGEST_TIMEOUT",
			setupEnv: func(t *testing.T) {
				setEnv("INGEST_TIMEOUT", "0s")
			},
			wantErr: true,
		},
		{
			name: "HF enabled without key",
			setupEnv: func(t *testing.T) {
				setEnv("HF_INFERENCE_ENABLED", "true")
			},
			wantErr: true,
		},
		{
			name: "invalid HF_INFERENCE_ENABLED",
			setupEnv: func(t *testing.T) {
				setEnv("HF_INFERENCE_ENABLED", "maybe")
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolateEnv(t)
			if os.Getenv("DB_PATH") == "" {
				setEnv("DB_PATH", filepath.Join(t.TempDir(), "paperqa.db"))
			}
			tt.setupEnv(t)

			cfg, err := Load()

			if tt.wantErr {
				if err == nil {
					t.Errorf("Load() expected error, got nil")
				}
				return
			}

			if err != nil {
				t.Errorf("Load() unexpected error: %v", err)
				return
			}

			if cfg == nil {
				t.Fatal("Load() returned nil config")
			}

			if tt.checkConfig != nil && !tt.checkConfig(cfg) {
				t.Errorf("Load() config validation failed: %+v", cfg)
			}
		})
	}
}

func TestLoad_CreatesDataDirectory(t *testing.T) {
	isolateEnv(t)

	dbPath := filepath.Join(t.TempDir(), "test", "db.db")
	setEnv("DB_PATH", dbPath)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if _, err := os.Stat(filepath.Dir(dbPath)); os.IsNotExist(err) {
		t.Errorf("Load() should create data directory: %v", err)
	}

	if cfg.DBPath != dbPath {
		t.Errorf("Load() DBPath = %v, want %v", cfg.DBPath, dbPath)
	}
}

func TestLoad_ReadsDotEnv(t *testing.T) {
	isolateEnv(t)

	dir, _ := os.Getwd()
	content := "TOP_K=7\nQUEUE_NAME=from-dotenv\nDB_PATH=" + filepath.Join(dir, "data", "db.db") + "\n"
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte(content), 0644); err != nil {
		t.Fatalf("failed to write .env: %v", err)
	}
	t.Cleanup(func() {
		unsetEnv("TOP_K")
		unsetEnv("QUEUE_NAME")
	})

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.TopK != 7 {
		t.Errorf("TopK = %d, want 7", cfg.TopK)
	}
	if cfg.QueueName != "from-dotenv" {
		t.Errorf("QueueName = %q, want from-dotenv", cfg.QueueName)
	}
}

func TestGetEnv(t *testing.T) {
	originalValue := os.Getenv("TEST_ENV_VAR")
	defer func() {
		if originalValue != "" {
			setEnv("TEST_ENV_VAR", originalValue)
		} else {
			unsetEnv("TEST_ENV_VAR")
		}
	}()

	tests := []struct {
		name         string
		setupEnv     func()
		key          string
		defaultValue string
		want         string
	}{
		{
			name: "env var set",
			setupEnv: func() {
				setEnv("TEST_ENV_VAR", "set-value")
			},
			key:          "TEST_ENV_VAR",
			defaultValue: "default",
			want:         "set-value",
		},
		{
			name: "env var not set",
			setupEnv: func() {
				unsetEnv("TEST_ENV_VAR")
			},
			key:          "TEST_ENV_VAR",
			defaultValue: "default",
			want:         "default",
		},
		{
			name: "empty env var uses default",
			setupEnv: func() {
				setEnv("TEST_ENV_VAR", "")
			},
			key:          "TEST_ENV_VAR",
			defaultValue: "default",
			want:         "default",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupEnv()
			got := getEnv(tt.key, tt.defaultValue)
			if got != tt.want {
				t.Errorf("getEnv(%q, %q) = %q, want %q", tt.key, tt.defaultValue, got, tt.want)
			}
		})
	}
}
