package vecsync

import (
	"log/slog"

	"github.com/anchorage-ai/vecsync/infrastructure/provider"
	"github.com/anchorage-ai/vecsync/internal/config"
)

// clientConfig holds configuration for Client construction.
// Use newClientConfig() to create with defaults from internal/config.
type clientConfig struct {
	dbURL    string
	embedder provider.Embedder
	weaviate config.WeaviateConfig
	logger   *slog.Logger
}

// newClientConfig creates a clientConfig with defaults from internal/config.
func newClientConfig() *clientConfig {
	return &clientConfig{
		weaviate: config.NewWeaviateConfig(),
	}
}

// Option configures the Client.
type Option func(*clientConfig)

// WithSQLite configures SQLite as the ledger database at the given path.
// Unless WithWeaviate is also set, vectors are stored in the same file.
func WithSQLite(path string) Option {
	return func(c *clientConfig) {
		c.dbURL = "sqlite:///" + path
	}
}

// WithPostgres configures PostgreSQL as the ledger database.
func WithPostgres(dsn string) Option {
	return func(c *clientConfig) {
		c.dbURL = dsn
	}
}

// WithDatabaseURL sets the ledger database URL directly
// (sqlite:///path or postgres://...).
func WithDatabaseURL(url string) Option {
	return func(c *clientConfig) {
		c.dbURL = url
	}
}

// WithOpenAIEmbedder sets OpenAI as the embedding provider.
func WithOpenAIEmbedder(apiKey string) Option {
	return func(c *clientConfig) {
		c.embedder = provider.NewOpenAIEmbedder(provider.OpenAIConfig{APIKey: apiKey})
	}
}

// WithOpenAIConfig sets OpenAI as the embedding provider with custom
// configuration.
func WithOpenAIConfig(cfg provider.OpenAIConfig) Option {
	return func(c *clientConfig) {
		c.embedder = provider.NewOpenAIEmbedder(cfg)
	}
}

// WithEmbedder sets a custom embedding provider.
func WithEmbedder(e provider.Embedder) Option {
	return func(c *clientConfig) {
		c.embedder = e
	}
}

// WithWeaviate stores vectors in a Weaviate instance instead of SQLite.
// If no embedder is configured, the class is created with Weaviate's
// server-side vectorizer.
func WithWeaviate(host, scheme string) Option {
	return func(c *clientConfig) {
		c.weaviate = c.weaviate.Apply(
			config.WithWeaviateHost(host),
			config.WithWeaviateScheme(scheme),
		)
	}
}

// WithWeaviateAPIKey sets the API key for the Weaviate connection.
func WithWeaviateAPIKey(key string) Option {
	return func(c *clientConfig) {
		c.weaviate = c.weaviate.Apply(config.WithWeaviateAPIKey(key))
	}
}

// WithWeaviateClass sets the Weaviate class documents are stored under.
// Defaults to "VecsyncDocument".
func WithWeaviateClass(name string) Option {
	return func(c *clientConfig) {
		c.weaviate = c.weaviate.Apply(config.WithWeaviateClassName(name))
	}
}

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *clientConfig) {
		c.logger = l
	}
}
