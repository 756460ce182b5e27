// Package main is the entry point for the vecsync CLI.
package main

import (
	"fmt"
	"os"

	"github.com/anchorage-ai/vecsync/internal/config"
	"github.com/spf13/cobra"
)

// Version information set via ldflags during build.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vecsync",
		Short: "Vecsync index synchronization",
		Long:  `Vecsync keeps a vector store in sync with a document corpus: it fingerprints documents, indexes only what changed, and removes what disappeared.`,
	}

	cmd.AddCommand(ingestCmd())
	cmd.AddCommand(searchCmd())
	cmd.AddCommand(purgeCmd())
	cmd.AddCommand(versionCmd())

	return cmd
}

// loadConfig loads configuration from .env file and environment variables.
func loadConfig(envFile string) (config.AppConfig, error) {
	cfg, err := config.LoadConfig(envFile)
	if err != nil {
		return config.AppConfig{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}
