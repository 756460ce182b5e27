package service

import (
	"context"

	"github.com/anchorage-ai/vecsync/domain/document"
)

// LoaderFunc produces documents on demand. Loaders are drained exactly once,
// before any batch is processed; the engine does not stream partial
// failures across an unbounded source.
type LoaderFunc func(ctx context.Context) ([]document.Document, error)

// Source is the tagged document input for a synchronization run: either a
// materialized collection or a lazy loader.
type Source struct {
	docs   []document.Document
	loader LoaderFunc
	set    bool
}

// Documents creates a Source from a materialized collection.
func Documents(docs []document.Document) Source {
	return Source{docs: docs, set: true}
}

// Loader creates a Source from a lazy loader.
func Loader(fn LoaderFunc) Source {
	return Source{loader: fn, set: true}
}

// resolve materializes the source. Loader errors abort the run before any
// store interaction.
func (s Source) resolve(ctx context.Context) ([]document.Document, error) {
	if !s.set {
		return nil, ErrNoSource
	}
	if s.loader != nil {
		return s.loader(ctx)
	}
	return s.docs, nil
}
