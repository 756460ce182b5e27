package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/anchorage-ai/vecsync"
	"github.com/anchorage-ai/vecsync/application/service"
	"github.com/anchorage-ai/vecsync/domain/document"
	"github.com/anchorage-ai/vecsync/infrastructure/loading"
	"github.com/anchorage-ai/vecsync/internal/log"
)

func ingestCmd() *cobra.Command {
	var (
		envFile      string
		manifestPath string
		extensions   []string
		cleanup      string
		sourceKey    string
		batchSize    int
		deleteBatch  int
		force        bool
		chunkSize    int
		chunkOverlap int
	)

	cmd := &cobra.Command{
		Use:   "ingest [path]",
		Short: "Synchronize files into the vector store",
		Long: `Synchronize a file or directory into the vector store.

Files are chunked, fingerprinted, and compared against the ledger; only
chunks not yet indexed are embedded and written. With --cleanup, chunks
that disappeared from the corpus are deleted.

Cleanup modes:
  none         never delete (default)
  incremental  delete stale chunks from the sources seen in this run
  full         delete everything not seen in this run

Configuration is loaded in the following order (later sources override
earlier): defaults, .env file, environment variables, flags.

Environment variables:
  VECSYNC_DB_URL                  Ledger database URL (default: sqlite:///~/.vecsync/vecsync.db)
  VECSYNC_LOG_LEVEL               DEBUG, INFO, WARN, ERROR (default: INFO)
  VECSYNC_LOG_FORMAT              text, json (default: text)
  VECSYNC_BATCH_SIZE              Documents per sync batch (default: 100)
  VECSYNC_DELETE_BATCH_SIZE       Keys per cleanup page (default: 1000)

  VECSYNC_EMBEDDING_*             Embedding provider configuration
    API_KEY                       API key (required for SQLite vectors)
    BASE_URL                      OpenAI-compatible base URL
    MODEL                         Model (default: text-embedding-3-small)

  VECSYNC_WEAVIATE_*              Store vectors in Weaviate instead of SQLite
    HOST                          host:port
    SCHEME                        http or https (default: http)
    API_KEY                       API key
    CLASS_NAME                    Class (default: VecsyncDocument)`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) > 0 {
				path = args[0]
			}
			if path == "" && manifestPath == "" {
				return fmt.Errorf("either a path argument or --manifest is required")
			}
			return runIngest(ingestParams{
				envFile:      envFile,
				path:         path,
				manifestPath: manifestPath,
				extensions:   extensions,
				cleanup:      cleanup,
				sourceKey:    sourceKey,
				batchSize:    batchSize,
				deleteBatch:  deleteBatch,
				force:        force,
				chunkSize:    chunkSize,
				chunkOverlap: chunkOverlap,
			})
		},
	}

	cmd.Flags().StringVar(&envFile, "env-file", "", "Path to .env file (default: .env in current directory)")
	cmd.Flags().StringVar(&manifestPath, "manifest", "", "YAML manifest listing sources to ingest")
	cmd.Flags().StringSliceVar(&extensions, "ext", nil, "File extensions to include when ingesting a directory (e.g. .md)")
	cmd.Flags().StringVar(&cleanup, "cleanup", "", "Cleanup mode: none, incremental, full")
	cmd.Flags().StringVar(&sourceKey, "source-key", document.MetaSource, "Metadata key that groups chunks by origin")
	cmd.Flags().IntVar(&batchSize, "batch-size", 0, "Documents per sync batch (default from config)")
	cmd.Flags().IntVar(&deleteBatch, "delete-batch-size", 0, "Keys per cleanup page (default from config)")
	cmd.Flags().BoolVar(&force, "force", false, "Re-embed documents even when already indexed")
	cmd.Flags().IntVar(&chunkSize, "chunk-size", 0, "Chunk size in runes (default 1500)")
	cmd.Flags().IntVar(&chunkOverlap, "chunk-overlap", 0, "Chunk overlap in runes (default 200)")

	return cmd
}

type ingestParams struct {
	envFile      string
	path         string
	manifestPath string
	extensions   []string
	cleanup      string
	sourceKey    string
	batchSize    int
	deleteBatch  int
	force        bool
	chunkSize    int
	chunkOverlap int
}

func runIngest(p ingestParams) error {
	cfg, err := loadConfig(p.envFile)
	if err != nil {
		return err
	}

	logger := log.Configure(cfg)
	slogger := logger.Slog()
	slogger.LogAttrs(context.Background(), slog.LevelDebug, "configuration loaded", cfg.LogAttrs()...)

	if err := cfg.EnsureDataDir(); err != nil {
		return fmt.Errorf("ensure data directory: %w", err)
	}

	mode, err := service.ParseCleanupMode(p.cleanup)
	if err != nil {
		return err
	}

	source, err := buildSource(p)
	if err != nil {
		return err
	}

	opts := append(clientOptions(cfg), vecsync.WithLogger(slogger))

	client, err := vecsync.New(opts...)
	if err != nil {
		return fmt.Errorf("create vecsync client: %w", err)
	}
	defer func() {
		if err := client.Close(); err != nil {
			slogger.Error("failed to close vecsync client", slog.Any("error", err))
		}
	}()

	batchSize := p.batchSize
	if batchSize <= 0 {
		batchSize = cfg.BatchSize()
	}
	deleteBatch := p.deleteBatch
	if deleteBatch <= 0 {
		deleteBatch = cfg.DeleteBatchSize()
	}

	ctx := log.WithRunID(context.Background(), uuid.NewString())
	result, err := client.Sync.Run(ctx, source, service.SyncParams{
		BatchSize:       batchSize,
		Cleanup:         mode,
		DeleteBatchSize: deleteBatch,
		ForceUpdate:     p.force,
		SourceKey:       document.SourceKeyField(p.sourceKey),
	})
	if err != nil {
		return fmt.Errorf("sync: %w", err)
	}

	fmt.Printf("added %d, skipped %d, deleted %d\n", result.Added, result.Skipped, result.Deleted)
	return nil
}

// buildSource assembles the document source from the path argument or the
// manifest.
func buildSource(p ingestParams) (service.Source, error) {
	if p.manifestPath != "" {
		m, err := loadManifest(p.manifestPath)
		if err != nil {
			return service.Source{}, err
		}
		return manifestSource(m)
	}

	params := chunkParamsFromFlags(p)
	loader, err := pathLoader(p.path, p.extensions, params)
	if err != nil {
		return service.Source{}, err
	}
	return service.Loader(loader), nil
}

// manifestSource concatenates documents from every manifest source, in
// manifest order.
func manifestSource(m Manifest) (service.Source, error) {
	params := m.chunkParams()

	loaders := make([]service.LoaderFunc, 0, len(m.Sources))
	for _, src := range m.Sources {
		loader, err := pathLoader(src.Path, src.Extensions, params)
		if err != nil {
			return service.Source{}, err
		}
		loaders = append(loaders, loader)
	}

	return service.Loader(func(ctx context.Context) ([]document.Document, error) {
		var docs []document.Document
		for _, loader := range loaders {
			loaded, err := loader(ctx)
			if err != nil {
				return nil, err
			}
			docs = append(docs, loaded...)
		}
		return docs, nil
	}), nil
}

// pathLoader returns a loader for a file or directory path.
func pathLoader(path string, extensions []string, params loading.ChunkParams) (service.LoaderFunc, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return loading.NewDirLoader(path, extensions, params).Load, nil
	}
	return loading.NewFileLoader(path, params).Load, nil
}

func chunkParamsFromFlags(p ingestParams) loading.ChunkParams {
	params := loading.DefaultChunkParams()
	if p.chunkSize > 0 {
		params.Size = p.chunkSize
	}
	if p.chunkOverlap > 0 && p.chunkOverlap < params.Size {
		params.Overlap = p.chunkOverlap
	}
	return params
}
