package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/anchorage-ai/vecsync"
	"github.com/anchorage-ai/vecsync/domain/document"
	"github.com/anchorage-ai/vecsync/internal/log"
)

func searchCmd() *cobra.Command {
	var (
		envFile string
		limit   int
	)

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Run a similarity query against the indexed documents",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(envFile, args[0], limit)
		},
	}

	cmd.Flags().StringVar(&envFile, "env-file", "", "Path to .env file (default: .env in current directory)")
	cmd.Flags().IntVar(&limit, "limit", 10, "Maximum number of results")

	return cmd
}

func runSearch(envFile, query string, limit int) error {
	cfg, err := loadConfig(envFile)
	if err != nil {
		return err
	}

	logger := log.Configure(cfg)
	slogger := logger.Slog()

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

	results, err := client.Search(context.Background(), query, limit)
	if err != nil {
		return fmt.Errorf("search: %w", err)
	}

	for _, r := range results {
		doc := r.Document()
		fmt.Printf("%.4f  %s\n", r.Score(), doc.Source())
		if title := doc.Meta(document.MetaTitle); title != "" {
			fmt.Printf("        %s\n", title)
		}
	}
	return nil
}
