package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/anchorage-ai/vecsync"
	"github.com/anchorage-ai/vecsync/domain/ledger"
	"github.com/anchorage-ai/vecsync/internal/log"
)

func purgeCmd() *cobra.Command {
	var (
		envFile string
		group   string
		yes     bool
	)

	cmd := &cobra.Command{
		Use:   "purge",
		Short: "Delete indexed documents from both stores",
		Long: `Delete indexed documents from the vector store and the ledger.

Without --group, everything is purged. With --group, only the documents
belonging to that source group are removed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPurge(envFile, group, yes)
		},
	}

	cmd.Flags().StringVar(&envFile, "env-file", "", "Path to .env file (default: .env in current directory)")
	cmd.Flags().StringVar(&group, "group", "", "Only purge documents from this source group")
	cmd.Flags().BoolVar(&yes, "yes", false, "Skip the confirmation prompt")

	return cmd
}

func runPurge(envFile, group string, yes bool) error {
	cfg, err := loadConfig(envFile)
	if err != nil {
		return err
	}

	logger := log.Configure(cfg)
	slogger := logger.Slog()

	if !yes && !confirmPurge(group) {
		fmt.Println("aborted")
		return nil
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

	ctx := context.Background()
	filter := ledger.ListFilter{Limit: cfg.DeleteBatchSize()}
	if group != "" {
		filter.GroupIDs = []string{group}
	}

	purged := 0
	for {
		uids, err := client.Records().ListKeys(ctx, filter)
		if err != nil {
			return fmt.Errorf("list indexed keys: %w", err)
		}
		if len(uids) == 0 {
			break
		}

		if err := client.Vectors().Delete(ctx, uids); err != nil {
			return fmt.Errorf("delete from vector store: %w", err)
		}
		if err := client.Records().DeleteKeys(ctx, uids); err != nil {
			return fmt.Errorf("delete from ledger: %w", err)
		}
		purged += len(uids)
	}

	fmt.Printf("purged %d documents\n", purged)
	return nil
}

func confirmPurge(group string) bool {
	if group != "" {
		fmt.Printf("Delete all indexed documents in group %q? [y/N] ", group)
	} else {
		fmt.Print("Delete ALL indexed documents? [y/N] ")
	}

	reader := bufio.NewReader(os.Stdin)
	answer, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(answer), "y")
}
