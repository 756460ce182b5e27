// Package config provides application configuration.
package config

import (
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvConfig holds all environment-based configuration.
// Field names map to environment variables with the VECSYNC_ prefix.
// Nested structs use underscore delimiter (e.g., VECSYNC_EMBEDDING_API_KEY).
type EnvConfig struct {
	// DataDir is the data directory path.
	// Env: VECSYNC_DATA_DIR
	// Default: ~/.vecsync
	DataDir string `envconfig:"DATA_DIR"`

	// DBURL is the ledger database connection URL.
	// Env: VECSYNC_DB_URL
	// Default: sqlite:///{data_dir}/vecsync.db
	DBURL string `envconfig:"DB_URL"`

	// LogLevel is the log verbosity level.
	// Env: VECSYNC_LOG_LEVEL (default: INFO)
	LogLevel string `envconfig:"LOG_LEVEL" default:"INFO"`

	// LogFormat is the log output format (text or json).
	// Env: VECSYNC_LOG_FORMAT (default: text)
	LogFormat string `envconfig:"LOG_FORMAT" default:"text"`

	// BatchSize is the number of documents written per sync batch.
	// Env: VECSYNC_BATCH_SIZE (default: 100)
	BatchSize int `envconfig:"BATCH_SIZE" default:"100"`

	// DeleteBatchSize is the page size for cleanup deletions.
	// Env: VECSYNC_DELETE_BATCH_SIZE (default: 1000)
	DeleteBatchSize int `envconfig:"DELETE_BATCH_SIZE" default:"1000"`

	// Embedding configures the embedding provider.
	Embedding EmbeddingEnv `envconfig:"EMBEDDING"`

	// Weaviate configures the Weaviate vector store.
	Weaviate WeaviateEnv `envconfig:"WEAVIATE"`
}

// EmbeddingEnv holds environment configuration for the embedding provider.
type EmbeddingEnv struct {
	// BaseURL is the API base URL.
	// Env: VECSYNC_EMBEDDING_BASE_URL
	BaseURL string `envconfig:"BASE_URL"`

	// Model is the embedding model identifier.
	// Env: VECSYNC_EMBEDDING_MODEL (default: text-embedding-3-small)
	Model string `envconfig:"MODEL" default:"text-embedding-3-small"`

	// APIKey is the API key for authentication.
	// Env: VECSYNC_EMBEDDING_API_KEY
	APIKey string `envconfig:"API_KEY"`

	// Timeout is the request timeout in seconds.
	// Env: VECSYNC_EMBEDDING_TIMEOUT (default: 60)
	Timeout float64 `envconfig:"TIMEOUT" default:"60"`

	// MaxRetries is the maximum number of retries.
	// Env: VECSYNC_EMBEDDING_MAX_RETRIES (default: 5)
	MaxRetries int `envconfig:"MAX_RETRIES" default:"5"`

	// InitialDelay is the initial retry delay in seconds.
	// Env: VECSYNC_EMBEDDING_INITIAL_DELAY (default: 2.0)
	InitialDelay float64 `envconfig:"INITIAL_DELAY" default:"2.0"`

	// BackoffFactor is the retry backoff multiplier.
	// Env: VECSYNC_EMBEDDING_BACKOFF_FACTOR (default: 2.0)
	BackoffFactor float64 `envconfig:"BACKOFF_FACTOR" default:"2.0"`
}

// WeaviateEnv holds environment configuration for Weaviate.
type WeaviateEnv struct {
	// Host is the Weaviate host (host:port).
	// Env: VECSYNC_WEAVIATE_HOST
	Host string `envconfig:"HOST"`

	// Scheme is the connection scheme.
	// Env: VECSYNC_WEAVIATE_SCHEME (default: http)
	Scheme string `envconfig:"SCHEME" default:"http"`

	// APIKey is the API key for authentication.
	// Env: VECSYNC_WEAVIATE_API_KEY
	APIKey string `envconfig:"API_KEY"`

	// ClassName is the Weaviate class used for documents.
	// Env: VECSYNC_WEAVIATE_CLASS_NAME (default: VecsyncDocument)
	ClassName string `envconfig:"CLASS_NAME" default:"VecsyncDocument"`
}

// EnvPrefix is the prefix for all environment variables.
const EnvPrefix = "VECSYNC"

// LoadFromEnv loads configuration from environment variables.
func LoadFromEnv() (EnvConfig, error) {
	var cfg EnvConfig
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return EnvConfig{}, err
	}
	return cfg, nil
}

// ToAppConfig converts EnvConfig to AppConfig.
func (e EnvConfig) ToAppConfig() AppConfig {
	cfg := NewAppConfig()

	if e.DataDir != "" {
		cfg = cfg.Apply(WithDataDir(e.DataDir))
	}
	if e.DBURL != "" {
		cfg = cfg.Apply(WithDBURL(e.DBURL))
	}
	if e.LogLevel != "" {
		cfg = cfg.Apply(WithLogLevel(e.LogLevel))
	}
	if e.LogFormat != "" {
		cfg = cfg.Apply(WithLogFormat(ParseLogFormat(e.LogFormat)))
	}
	cfg = cfg.Apply(
		WithBatchSize(e.BatchSize),
		WithDeleteBatchSize(e.DeleteBatchSize),
		WithEmbeddingConfig(e.Embedding.ToEmbeddingConfig()),
	)
	if e.Weaviate.IsConfigured() {
		cfg = cfg.Apply(WithWeaviateConfig(e.Weaviate.ToWeaviateConfig()))
	}

	return cfg
}

// ToEmbeddingConfig converts EmbeddingEnv to EmbeddingConfig.
func (e EmbeddingEnv) ToEmbeddingConfig() EmbeddingConfig {
	opts := []EmbeddingOption{
		WithEmbeddingTimeout(time.Duration(e.Timeout * float64(time.Second))),
		WithEmbeddingMaxRetries(e.MaxRetries),
		WithEmbeddingInitialDelay(time.Duration(e.InitialDelay * float64(time.Second))),
		WithEmbeddingBackoffFactor(e.BackoffFactor),
	}

	if e.BaseURL != "" {
		opts = append(opts, WithEmbeddingBaseURL(e.BaseURL))
	}
	if e.Model != "" {
		opts = append(opts, WithEmbeddingModel(e.Model))
	}
	if e.APIKey != "" {
		opts = append(opts, WithEmbeddingAPIKey(e.APIKey))
	}

	return NewEmbeddingConfigWithOptions(opts...)
}

// IsConfigured returns true if a Weaviate host is set.
func (w WeaviateEnv) IsConfigured() bool {
	return w.Host != ""
}

// ToWeaviateConfig converts WeaviateEnv to WeaviateConfig.
func (w WeaviateEnv) ToWeaviateConfig() WeaviateConfig {
	opts := []WeaviateOption{
		WithWeaviateHost(w.Host),
	}

	if w.Scheme != "" {
		opts = append(opts, WithWeaviateScheme(w.Scheme))
	}
	if w.APIKey != "" {
		opts = append(opts, WithWeaviateAPIKey(w.APIKey))
	}
	if w.ClassName != "" {
		opts = append(opts, WithWeaviateClassName(w.ClassName))
	}

	return NewWeaviateConfigWithOptions(opts...)
}

// ParseLogFormat parses a log format string.
func ParseLogFormat(s string) LogFormat {
	switch strings.ToLower(s) {
	case "json":
		return LogFormatJSON
	default:
		return LogFormatText
	}
}
