// Package config provides application configuration.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// Default configuration values.
const (
	DefaultLogLevel              = "INFO"
	DefaultBatchSize             = 100
	DefaultDeleteBatchSize       = 1000
	DefaultEmbeddingModel        = "text-embedding-3-small"
	DefaultEmbeddingTimeout      = 60 * time.Second
	DefaultEmbeddingMaxRetries   = 5
	DefaultEmbeddingInitialDelay = 2 * time.Second
	DefaultEmbeddingBackoff      = 2.0
	DefaultWeaviateScheme        = "http"
	DefaultWeaviateClass         = "VecsyncDocument"
)

// LogFormat represents the log output format.
type LogFormat string

// LogFormat values.
const (
	LogFormatText LogFormat = "text"
	LogFormatJSON LogFormat = "json"
)

// EmbeddingConfig configures the embedding provider endpoint.
type EmbeddingConfig struct {
	baseURL       string
	model         string
	apiKey        string
	timeout       time.Duration
	maxRetries    int
	initialDelay  time.Duration
	backoffFactor float64
}

// NewEmbeddingConfig creates an EmbeddingConfig with defaults.
func NewEmbeddingConfig() EmbeddingConfig {
	return EmbeddingConfig{
		model:         DefaultEmbeddingModel,
		timeout:       DefaultEmbeddingTimeout,
		maxRetries:    DefaultEmbeddingMaxRetries,
		initialDelay:  DefaultEmbeddingInitialDelay,
		backoffFactor: DefaultEmbeddingBackoff,
	}
}

// BaseURL returns the API base URL.
func (e EmbeddingConfig) BaseURL() string { return e.baseURL }

// Model returns the embedding model identifier.
func (e EmbeddingConfig) Model() string { return e.model }

// APIKey returns the API key.
func (e EmbeddingConfig) APIKey() string { return e.apiKey }

// Timeout returns the request timeout.
func (e EmbeddingConfig) Timeout() time.Duration { return e.timeout }

// MaxRetries returns the maximum retry count.
func (e EmbeddingConfig) MaxRetries() int { return e.maxRetries }

// InitialDelay returns the initial retry delay.
func (e EmbeddingConfig) InitialDelay() time.Duration { return e.initialDelay }

// BackoffFactor returns the retry backoff multiplier.
func (e EmbeddingConfig) BackoffFactor() float64 { return e.backoffFactor }

// IsConfigured returns true if the provider can be constructed.
func (e EmbeddingConfig) IsConfigured() bool {
	return e.apiKey != ""
}

// EmbeddingOption is a functional option for EmbeddingConfig.
type EmbeddingOption func(*EmbeddingConfig)

// WithEmbeddingBaseURL sets the API base URL.
func WithEmbeddingBaseURL(url string) EmbeddingOption {
	return func(e *EmbeddingConfig) { e.baseURL = url }
}

// WithEmbeddingModel sets the model identifier.
func WithEmbeddingModel(model string) EmbeddingOption {
	return func(e *EmbeddingConfig) { e.model = model }
}

// WithEmbeddingAPIKey sets the API key.
func WithEmbeddingAPIKey(key string) EmbeddingOption {
	return func(e *EmbeddingConfig) { e.apiKey = key }
}

// WithEmbeddingTimeout sets the request timeout.
func WithEmbeddingTimeout(d time.Duration) EmbeddingOption {
	return func(e *EmbeddingConfig) { e.timeout = d }
}

// WithEmbeddingMaxRetries sets the maximum retry count.
func WithEmbeddingMaxRetries(n int) EmbeddingOption {
	return func(e *EmbeddingConfig) { e.maxRetries = n }
}

// WithEmbeddingInitialDelay sets the initial retry delay.
func WithEmbeddingInitialDelay(d time.Duration) EmbeddingOption {
	return func(e *EmbeddingConfig) { e.initialDelay = d }
}

// WithEmbeddingBackoffFactor sets the retry backoff multiplier.
func WithEmbeddingBackoffFactor(f float64) EmbeddingOption {
	return func(e *EmbeddingConfig) { e.backoffFactor = f }
}

// NewEmbeddingConfigWithOptions creates an EmbeddingConfig with options.
func NewEmbeddingConfigWithOptions(opts ...EmbeddingOption) EmbeddingConfig {
	e := NewEmbeddingConfig()
	for _, opt := range opts {
		opt(&e)
	}
	return e
}

// WeaviateConfig configures a Weaviate vector store.
type WeaviateConfig struct {
	host      string
	scheme    string
	apiKey    string
	className string
}

// NewWeaviateConfig creates a WeaviateConfig with defaults.
func NewWeaviateConfig() WeaviateConfig {
	return WeaviateConfig{
		scheme:    DefaultWeaviateScheme,
		className: DefaultWeaviateClass,
	}
}

// Host returns the Weaviate host (host:port).
func (w WeaviateConfig) Host() string { return w.host }

// Scheme returns the connection scheme.
func (w WeaviateConfig) Scheme() string { return w.scheme }

// APIKey returns the API key.
func (w WeaviateConfig) APIKey() string { return w.apiKey }

// ClassName returns the Weaviate class used for documents.
func (w WeaviateConfig) ClassName() string { return w.className }

// IsConfigured returns true if a Weaviate host is set.
func (w WeaviateConfig) IsConfigured() bool {
	return w.host != ""
}

// WeaviateOption is a functional option for WeaviateConfig.
type WeaviateOption func(*WeaviateConfig)

// WithWeaviateHost sets the host.
func WithWeaviateHost(host string) WeaviateOption {
	return func(w *WeaviateConfig) { w.host = host }
}

// WithWeaviateScheme sets the scheme.
func WithWeaviateScheme(scheme string) WeaviateOption {
	return func(w *WeaviateConfig) { w.scheme = scheme }
}

// WithWeaviateAPIKey sets the API key.
func WithWeaviateAPIKey(key string) WeaviateOption {
	return func(w *WeaviateConfig) { w.apiKey = key }
}

// WithWeaviateClassName sets the class name.
func WithWeaviateClassName(name string) WeaviateOption {
	return func(w *WeaviateConfig) { w.className = name }
}

// NewWeaviateConfigWithOptions creates a WeaviateConfig with options.
func NewWeaviateConfigWithOptions(opts ...WeaviateOption) WeaviateConfig {
	w := NewWeaviateConfig()
	for _, opt := range opts {
		opt(&w)
	}
	return w
}

// Apply returns a new WeaviateConfig with the given options applied.
func (w WeaviateConfig) Apply(opts ...WeaviateOption) WeaviateConfig {
	for _, opt := range opts {
		opt(&w)
	}
	return w
}

// AppConfig holds the main application configuration.
type AppConfig struct {
	dataDir         string
	dbURL           string
	logLevel        string
	logFormat       LogFormat
	batchSize       int
	deleteBatchSize int
	embedding       EmbeddingConfig
	weaviate        WeaviateConfig
}

// DefaultDataDir returns the default data directory.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".vecsync"
	}
	return filepath.Join(home, ".vecsync")
}

// NewAppConfig creates a new AppConfig with defaults.
func NewAppConfig() AppConfig {
	dataDir := DefaultDataDir()
	return AppConfig{
		dataDir:         dataDir,
		dbURL:           "sqlite:///" + filepath.Join(dataDir, "vecsync.db"),
		logLevel:        DefaultLogLevel,
		logFormat:       LogFormatText,
		batchSize:       DefaultBatchSize,
		deleteBatchSize: DefaultDeleteBatchSize,
		embedding:       NewEmbeddingConfig(),
		weaviate:        NewWeaviateConfig(),
	}
}

// DataDir returns the data directory path.
func (c AppConfig) DataDir() string { return c.dataDir }

// DBURL returns the ledger database connection URL.
func (c AppConfig) DBURL() string { return c.dbURL }

// LogLevel returns the log level.
func (c AppConfig) LogLevel() string { return c.logLevel }

// LogFormat returns the log format.
func (c AppConfig) LogFormat() LogFormat { return c.logFormat }

// BatchSize returns the sync write batch size.
func (c AppConfig) BatchSize() int { return c.batchSize }

// DeleteBatchSize returns the cleanup delete batch size.
func (c AppConfig) DeleteBatchSize() int { return c.deleteBatchSize }

// Embedding returns the embedding provider config.
func (c AppConfig) Embedding() EmbeddingConfig { return c.embedding }

// Weaviate returns the Weaviate config.
func (c AppConfig) Weaviate() WeaviateConfig { return c.weaviate }

// EnsureDataDir creates the data directory if it doesn't exist.
func (c AppConfig) EnsureDataDir() error {
	if err := os.MkdirAll(c.dataDir, 0o755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}
	return nil
}

// AppConfigOption is a functional option for AppConfig.
type AppConfigOption func(*AppConfig)

// WithDataDir sets the data directory.
func WithDataDir(dir string) AppConfigOption {
	return func(c *AppConfig) {
		c.dataDir = dir
		if c.dbURL == "" || c.dbURL == "sqlite:///"+filepath.Join(DefaultDataDir(), "vecsync.db") {
			c.dbURL = "sqlite:///" + filepath.Join(dir, "vecsync.db")
		}
	}
}

// WithDBURL sets the ledger database URL.
func WithDBURL(url string) AppConfigOption {
	return func(c *AppConfig) { c.dbURL = url }
}

// WithLogLevel sets the log level.
func WithLogLevel(level string) AppConfigOption {
	return func(c *AppConfig) { c.logLevel = level }
}

// WithLogFormat sets the log format.
func WithLogFormat(format LogFormat) AppConfigOption {
	return func(c *AppConfig) { c.logFormat = format }
}

// WithBatchSize sets the sync write batch size.
func WithBatchSize(n int) AppConfigOption {
	return func(c *AppConfig) {
		if n > 0 {
			c.batchSize = n
		}
	}
}

// WithDeleteBatchSize sets the cleanup delete batch size.
func WithDeleteBatchSize(n int) AppConfigOption {
	return func(c *AppConfig) {
		if n > 0 {
			c.deleteBatchSize = n
		}
	}
}

// WithEmbeddingConfig sets the embedding provider config.
func WithEmbeddingConfig(e EmbeddingConfig) AppConfigOption {
	return func(c *AppConfig) { c.embedding = e }
}

// WithWeaviateConfig sets the Weaviate config.
func WithWeaviateConfig(w WeaviateConfig) AppConfigOption {
	return func(c *AppConfig) { c.weaviate = w }
}

// NewAppConfigWithOptions creates an AppConfig with functional options.
func NewAppConfigWithOptions(opts ...AppConfigOption) AppConfig {
	c := NewAppConfig()
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// Apply returns a new AppConfig with the given options applied.
func (c AppConfig) Apply(opts ...AppConfigOption) AppConfig {
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// LogAttrs returns slog attributes for logging the configuration.
// Sensitive values like API keys are masked.
func (c AppConfig) LogAttrs() []slog.Attr {
	return []slog.Attr{
		slog.String("data_dir", c.dataDir),
		slog.String("db_url", c.maskedDBURL()),
		slog.String("log_level", c.logLevel),
		slog.Int("batch_size", c.batchSize),
		slog.Int("delete_batch_size", c.deleteBatchSize),
		slog.String("embedding_model", c.embedding.Model()),
		slog.Bool("embedding_configured", c.embedding.IsConfigured()),
		slog.String("weaviate_host", c.weaviate.Host()),
	}
}

func (c AppConfig) maskedDBURL() string {
	if c.dbURL == "" {
		return "(default)"
	}
	if len(c.dbURL) >= 7 && c.dbURL[:7] == "sqlite:" {
		return c.dbURL
	}
	return "postgres://***@***"
}
