// Package vecsync provides an index synchronization engine for vector
// stores.
//
// Vecsync fingerprints loaded documents, writes only the ones not yet
// indexed, and removes stale entries according to a cleanup policy. A
// record ledger tracks which document uids are indexed so that repeated
// runs over the same content are cheap and idempotent.
//
// Basic usage:
//
//	client, err := vecsync.New(
//	    vecsync.WithSQLite(".vecsync/data.db"),
//	    vecsync.WithOpenAIEmbedder(os.Getenv("OPENAI_API_KEY")),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	// Synchronize documents, deleting stale ones from the same sources
//	result, err := client.Sync.Run(ctx, service.Documents(docs), service.SyncParams{
//	    Cleanup:   service.CleanupIncremental,
//	    SourceKey: document.SourceKeyField(document.MetaSource),
//	})
//
//	fmt.Println(result.Added, result.Skipped, result.Deleted)
package vecsync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/weaviate/weaviate-go-client/v5/weaviate"
	"github.com/weaviate/weaviate-go-client/v5/weaviate/auth"

	"github.com/anchorage-ai/vecsync/application/service"
	"github.com/anchorage-ai/vecsync/domain/vector"
	"github.com/anchorage-ai/vecsync/infrastructure/persistence"
	"github.com/anchorage-ai/vecsync/infrastructure/search"
	weavstore "github.com/anchorage-ai/vecsync/infrastructure/weaviate"
	"github.com/anchorage-ai/vecsync/internal/database"
)

// Client errors.
var (
	// ErrNoDatabase is returned by New when no database option was given.
	ErrNoDatabase = errors.New("vecsync: no database configured, use WithSQLite or WithPostgres")

	// ErrNoEmbedder is returned by New when the SQLite vector store is
	// selected without an embedding provider.
	ErrNoEmbedder = errors.New("vecsync: no embedding provider configured, use WithOpenAIEmbedder or WithEmbedder")

	// ErrClientClosed is returned when the client is used after Close.
	ErrClientClosed = errors.New("vecsync: client is closed")

	// ErrSearchUnavailable is returned by Search when vectors are stored
	// in Weaviate; query them through Weaviate directly.
	ErrSearchUnavailable = errors.New("vecsync: search is only available with the SQLite vector store")
)

// Client is the main entry point for the vecsync library.
//
// Run synchronizations via the Sync field:
//
//	client.Sync.Run(ctx, source, params)
type Client struct {
	// Sync reconciles document sources against the stores.
	Sync *service.Sync

	db          database.Database
	records     persistence.RecordStore
	vectors     vector.Store
	searchStore *search.SQLiteVectorStore

	logger *slog.Logger
	closed atomic.Bool
}

// New creates a new Client with the given options.
func New(opts ...Option) (*Client, error) {
	cfg := newClientConfig()

	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.dbURL == "" {
		return nil, ErrNoDatabase
	}

	logger := cfg.logger
	if logger == nil {
		logger = slog.Default()
	}

	if dir := sqliteDir(cfg.dbURL); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	ctx := context.Background()
	db, err := database.NewDatabase(ctx, cfg.dbURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := persistence.AutoMigrate(db); err != nil {
		errClose := db.Close()
		return nil, errors.Join(fmt.Errorf("auto migrate: %w", err), errClose)
	}

	client := &Client{
		db:      db,
		records: persistence.NewRecordStore(db),
		logger:  logger,
	}

	if cfg.weaviate.IsConfigured() {
		store, err := buildWeaviateStore(ctx, cfg, logger)
		if err != nil {
			errClose := db.Close()
			return nil, errors.Join(err, errClose)
		}
		client.vectors = store
	} else {
		if cfg.embedder == nil {
			errClose := db.Close()
			return nil, errors.Join(ErrNoEmbedder, errClose)
		}
		store := search.NewSQLiteVectorStore(db, cfg.embedder, logger)
		if err := store.Migrate(); err != nil {
			errClose := db.Close()
			return nil, errors.Join(fmt.Errorf("migrate vector store: %w", err), errClose)
		}
		client.vectors = store
		client.searchStore = store
	}

	client.Sync = service.NewSync(client.records, client.vectors, logger)

	return client, nil
}

// Search runs a similarity query against the SQLite vector store.
// Returns ErrSearchUnavailable when vectors live in Weaviate.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]search.Result, error) {
	if c.closed.Load() {
		return nil, ErrClientClosed
	}
	if c.searchStore == nil {
		return nil, ErrSearchUnavailable
	}
	return c.searchStore.Search(ctx, query, limit)
}

// Records returns the ledger store for inspection.
func (c *Client) Records() persistence.RecordStore {
	return c.records
}

// Vectors returns the configured vector store.
func (c *Client) Vectors() vector.Store {
	return c.vectors
}

// Logger returns the client's logger.
func (c *Client) Logger() *slog.Logger {
	return c.logger
}

// Close releases the database connection.
func (c *Client) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return ErrClientClosed
	}

	if err := c.db.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}

	c.logger.Debug("vecsync client closed")
	return nil
}

// buildWeaviateStore connects to Weaviate and ensures the document class
// exists.
func buildWeaviateStore(ctx context.Context, cfg *clientConfig, logger *slog.Logger) (*weavstore.Store, error) {
	wCfg := weaviate.Config{
		Host:   cfg.weaviate.Host(),
		Scheme: cfg.weaviate.Scheme(),
	}
	if key := cfg.weaviate.APIKey(); key != "" {
		wCfg.AuthConfig = auth.ApiKey{Value: key}
	}

	wClient, err := weaviate.NewClient(wCfg)
	if err != nil {
		return nil, fmt.Errorf("create weaviate client: %w", err)
	}

	store := weavstore.NewStore(wClient, cfg.weaviate.ClassName(), cfg.embedder, logger)
	if err := store.EnsureClass(ctx); err != nil {
		return nil, fmt.Errorf("ensure weaviate class: %w", err)
	}
	return store, nil
}

// sqliteDir returns the parent directory of a sqlite database URL, or ""
// for other schemes and in-memory databases.
func sqliteDir(url string) string {
	var path string
	switch {
	case strings.HasPrefix(url, "sqlite:///"):
		path = url[len("sqlite:///"):]
	case strings.HasPrefix(url, "sqlite:"):
		path = url[len("sqlite:"):]
	default:
		return ""
	}
	if path == "" || strings.Contains(path, ":memory:") || strings.Contains(path, "mode=memory") {
		return ""
	}
	return filepath.Dir(path)
}
