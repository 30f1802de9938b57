package config

import (
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	pkgRetry "github.com/futig/tutor-backend/internal/pkg/retry"
	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	// Server configuration
	ServerAddr string `env:"SERVER_ADDR,notEmpty"`

	// Database configuration
	DatabaseURL         string               `env:"DATABASE_URL,notEmpty"`
	DBMaxConns          int                  `env:"DB_MAX_CONNS" envDefault:"25"`
	DBMinConns          int                  `env:"DB_MIN_CONNS" envDefault:"5"`
	DBMaxConnLifetime   time.Duration        `env:"DB_MAX_CONN_LIFETIME" envDefault:"1h"`
	DBMaxConnIdleTime   time.Duration        `env:"DB_MAX_CONN_IDLE_TIME" envDefault:"30m"`
	DBHealthCheckPeriod time.Duration        `env:"DB_HEALTH_CHECK_PERIOD" envDefault:"1m"`
	DBConnectRetry      pkgRetry.RetryConfig `envPrefix:"DB_CONNECT_RETRY_"`

	// External service configurations
	ObjectStorageCfg ObjectStorageConfig `envPrefix:"OBJECT_STORAGE_"`
	LLMCfg           LLMConfig           `envPrefix:"LLM_"`
	EmbeddingCfg     EmbeddingConfig     `envPrefix:"EMBEDDING_"`

	// Retrieval pipeline configuration
	RAGCfg RAGConfig `envPrefix:"RAG_"`

	// Storage quota, in MiB per user
	StorageLimitMB float64 `env:"USER_STORAGE_LIMIT_MB" envDefault:"100"`

	// Authentication configuration
	AuthCfg AuthConfig `envPrefix:"AUTH_"`

	// Provider used to grade submissions
	GradingProvider string `env:"GRADING_PROVIDER" envDefault:"TogetherAI"`

	// Logging configuration
	LogLevel string `env:"LOG_LEVEL,notEmpty"`

	// File upload configuration
	FileUploadCfg FileUploadConfig `envPrefix:"FILE_UPLOAD_"`

	// Mock configuration
	EnableMocks bool `env:"ENABLE_MOCKS" envDefault:"false"`

	// Grace period for in-flight requests on shutdown
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`

	// Environment (set from flag, not from env var)
	Environment string
}

// ObjectStorageConfig holds the blob store that keeps serialized indexes
type ObjectStorageConfig struct {
	Endpoint  string               `env:"ENDPOINT,notEmpty"`
	AccessKey string               `env:"ACCESS_KEY,notEmpty"`
	SecretKey string               `env:"SECRET_KEY,notEmpty"`
	Bucket    string               `env:"BUCKET" envDefault:"tutor-indexes"`
	UseSSL    bool                 `env:"USE_SSL" envDefault:"false"`
	Retry     pkgRetry.RetryConfig `envPrefix:"RETRY_"`
}

// LLMConfig holds per-provider model names and transport settings.
// API keys are not configured here: they are looked up by well-known
// variable names when a request is dispatched.
type LLMConfig struct {
	HTTPClientConfig
	TogetherModel   string `env:"TOGETHER_MODEL" envDefault:"meta-llama/Llama-3.3-70B-Instruct-Turbo-Free"`
	TogetherBaseURL string `env:"TOGETHER_BASE_URL" envDefault:"https://api.together.xyz/v1"`
	OpenAIModel     string `env:"OPENAI_MODEL" envDefault:"gpt-4-turbo"`
	OpenAIBaseURL   string `env:"OPENAI_BASE_URL" envDefault:"https://api.openai.com/v1"`
	GoogleModel     string `env:"GOOGLE_MODEL" envDefault:"gemini-1.5-pro-latest"`
	GoogleBaseURL   string `env:"GOOGLE_BASE_URL" envDefault:"https://generativelanguage.googleapis.com/v1beta"`
}

type EmbeddingConfig struct {
	Model     string        `env:"MODEL" envDefault:"togethercomputer/m2-bert-80M-8k-retrieval"`
	BaseURL   string        `env:"BASE_URL" envDefault:"https://api.together.xyz/v1"`
	APIKeyEnv string        `env:"API_KEY_ENV" envDefault:"TOGETHER_API_KEY"`
	BatchSize int           `env:"BATCH_SIZE" envDefault:"32"`
	Timeout   time.Duration `env:"TIMEOUT" envDefault:"60s"`
}

type RAGConfig struct {
	ChunkSize     int    `env:"CHUNK_SIZE" envDefault:"1000"`
	ChunkOverlap  int    `env:"CHUNK_OVERLAP" envDefault:"100"`
	ChunkStrategy string `env:"CHUNK_STRATEGY" envDefault:"fixed"`
	TopK          int    `env:"TOP_K" envDefault:"3"`
	MaxScopeLoads int    `env:"MAX_SCOPE_LOADS" envDefault:"4"`
}

type AuthConfig struct {
	JWTSecret string        `env:"JWT_SECRET,notEmpty"`
	Issuer    string        `env:"ISSUER" envDefault:"tutor-backend"`
	TokenTTL  time.Duration `env:"TOKEN_TTL" envDefault:"30m"`
}

type HTTPClientConfig struct {
	RequestTimeout        time.Duration `env:"TIMEOUT" envDefault:"60s"`
	ConnTimeout           time.Duration `env:"CONN_TIMEOUT" envDefault:"10s"`
	KeepAlive             time.Duration `env:"KEEP_ALIVE" envDefault:"90s"`
	IdleConnTimeout       time.Duration `env:"IDLE_CONN_TIMEOUT" envDefault:"90s"`
	ResponseHeaderTimeout time.Duration `env:"RESPONSE_HEADER_TIMEOUT" envDefault:"60s"`
	TLSHandshakeTimeout   time.Duration `env:"TLS_HANDSHAKE_TIMEOUT" envDefault:"10s"`
	MaxIdleConnsPerHost   int           `env:"MAX_IDLE_CONNS_PER_HOST" envDefault:"16"`
}

// FileUploadConfig holds file upload limits
type FileUploadConfig struct {
	MaxFileSize   int64 `env:"MAX_FILE_SIZE" envDefault:"26214400"`   // 25 MiB
	MaxUploadSize int64 `env:"MAX_UPLOAD_SIZE" envDefault:"33554432"` // 32 MiB
}

func LoadConfig() (*Config, error) {
	envFlag := flag.String("env", "local", "Environment to run (local, prod, or custom)")
	flag.Parse()

	envFile := getEnvFile(*envFlag)
	// Try to load env file, but don't fail if it's missing.
	// In containerized/prod environments variables are usually set externally.
	if err := godotenv.Load(envFile); err != nil {
		fmt.Printf("Warning: could not load %s file (this is ok if env vars are set externally): %v\n", envFile, err)
	}

	cfg, err := Parse()
	if err != nil {
		return nil, err
	}

	cfg.Environment = *envFlag

	return cfg, nil
}

// Parse reads the configuration from the process environment and validates it.
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func validateConfig(cfg *Config) error {
	var errors []string

	// Validate Database configuration
	if cfg.DBMaxConns < 1 || cfg.DBMaxConns > 200 {
		errors = append(errors, fmt.Sprintf("DB_MAX_CONNS must be between 1 and 200, got %d", cfg.DBMaxConns))
	}

	if cfg.DBMinConns < 0 || cfg.DBMinConns > cfg.DBMaxConns {
		errors = append(errors, fmt.Sprintf("DB_MIN_CONNS must be between 0 and DB_MAX_CONNS(%d), got %d", cfg.DBMaxConns, cfg.DBMinConns))
	}

	// Validate retrieval configuration
	if cfg.RAGCfg.ChunkSize < 1 {
		errors = append(errors, fmt.Sprintf("RAG_CHUNK_SIZE must be positive, got %d", cfg.RAGCfg.ChunkSize))
	}

	if cfg.RAGCfg.ChunkOverlap < 0 || cfg.RAGCfg.ChunkOverlap >= cfg.RAGCfg.ChunkSize {
		errors = append(errors, fmt.Sprintf("RAG_CHUNK_OVERLAP must be between 0 and RAG_CHUNK_SIZE(%d) exclusive, got %d", cfg.RAGCfg.ChunkSize, cfg.RAGCfg.ChunkOverlap))
	}

	if cfg.RAGCfg.ChunkStrategy != "fixed" && cfg.RAGCfg.ChunkStrategy != "recursive" {
		errors = append(errors, fmt.Sprintf("RAG_CHUNK_STRATEGY must be fixed or recursive, got %q", cfg.RAGCfg.ChunkStrategy))
	}

	if cfg.RAGCfg.TopK < 1 || cfg.RAGCfg.TopK > 50 {
		errors = append(errors, fmt.Sprintf("RAG_TOP_K must be between 1 and 50, got %d", cfg.RAGCfg.TopK))
	}

	if cfg.RAGCfg.MaxScopeLoads < 1 {
		errors = append(errors, fmt.Sprintf("RAG_MAX_SCOPE_LOADS must be positive, got %d", cfg.RAGCfg.MaxScopeLoads))
	}

	if cfg.EmbeddingCfg.BatchSize < 1 {
		errors = append(errors, fmt.Sprintf("EMBEDDING_BATCH_SIZE must be positive, got %d", cfg.EmbeddingCfg.BatchSize))
	}

	// Validate quota configuration
	if cfg.StorageLimitMB <= 0 {
		errors = append(errors, fmt.Sprintf("USER_STORAGE_LIMIT_MB must be positive, got %v", cfg.StorageLimitMB))
	}

	if len(cfg.AuthCfg.JWTSecret) < 16 {
		errors = append(errors, "AUTH_JWT_SECRET must be at least 16 characters")
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation errors:\n  - %s", strings.Join(errors, "\n  - "))
	}

	return nil
}

func getEnvFile(environment string) string {
	switch environment {
	case "prod", "production":
		return ".env.prod"
	case "local", "dev", "development":
		return ".env.local"
	default:
		return fmt.Sprintf(".env.%s", environment)
	}
}
