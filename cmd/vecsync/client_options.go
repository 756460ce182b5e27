package main

import (
	"github.com/anchorage-ai/vecsync"
	"github.com/anchorage-ai/vecsync/infrastructure/provider"
	"github.com/anchorage-ai/vecsync/internal/config"
)

// clientOptions returns the vecsync.Option slice derived from AppConfig:
// ledger database, embedding provider, and vector store backend. Callers
// append entrypoint-specific options (logger) before passing the full
// slice to vecsync.New.
func clientOptions(cfg config.AppConfig) []vecsync.Option {
	opts := []vecsync.Option{
		vecsync.WithDatabaseURL(cfg.DBURL()),
	}

	if emb := cfg.Embedding(); emb.IsConfigured() {
		opts = append(opts, vecsync.WithOpenAIConfig(provider.OpenAIConfig{
			APIKey:        emb.APIKey(),
			BaseURL:       emb.BaseURL(),
			Model:         emb.Model(),
			Timeout:       emb.Timeout(),
			MaxRetries:    emb.MaxRetries(),
			InitialDelay:  emb.InitialDelay(),
			BackoffFactor: emb.BackoffFactor(),
		}))
	}

	if weav := cfg.Weaviate(); weav.IsConfigured() {
		opts = append(opts, vecsync.WithWeaviate(weav.Host(), weav.Scheme()))
		if weav.APIKey() != "" {
			opts = append(opts, vecsync.WithWeaviateAPIKey(weav.APIKey()))
		}
		if weav.ClassName() != "" {
			opts = append(opts, vecsync.WithWeaviateClass(weav.ClassName()))
		}
	}

	return opts
}
