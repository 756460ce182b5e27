// Package weaviate provides a vector.Store backed by a Weaviate instance,
// for deployments where the index lives outside the relational database.
package weaviate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-openapi/strfmt"
	"github.com/google/uuid"
	"github.com/weaviate/weaviate-go-client/v5/weaviate"
	"github.com/weaviate/weaviate-go-client/v5/weaviate/fault"
	"github.com/weaviate/weaviate/entities/models"

	"github.com/anchorage-ai/vecsync/domain/document"
	"github.com/anchorage-ai/vecsync/domain/vector"
	"github.com/anchorage-ai/vecsync/infrastructure/provider"
)

// DefaultClassName is the Weaviate class used when none is configured.
const DefaultClassName = "VecsyncDocument"

// Store implements vector.Store against a Weaviate class. Document uids map
// to deterministic object UUIDs, so re-adding a uid replaces its object and
// deleting by uid needs no lookup.
type Store struct {
	client    *weaviate.Client
	className string
	embedder  provider.Embedder
	logger    *slog.Logger
}

// NewStore creates a Store. When embedder is nil, vectors are left to the
// class's server-side vectorizer module; otherwise embeddings are computed
// client-side and sent with each object.
func NewStore(client *weaviate.Client, className string, embedder provider.Embedder, logger *slog.Logger) *Store {
	if className == "" {
		className = DefaultClassName
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		client:    client,
		className: className,
		embedder:  embedder,
		logger:    logger,
	}
}

// EnsureClass creates the class if it does not exist yet.
func (s *Store) EnsureClass(ctx context.Context) error {
	exists, err := s.client.Schema().ClassExistenceChecker().
		WithClassName(s.className).
		Do(ctx)
	if err != nil {
		return fmt.Errorf("check class %s: %w", s.className, err)
	}
	if exists {
		return nil
	}

	class := &models.Class{Class: s.className}
	if s.embedder != nil {
		// Client-side embeddings; the server must not re-vectorize.
		class.Vectorizer = "none"
	}
	if err := s.client.Schema().ClassCreator().WithClass(class).Do(ctx); err != nil {
		return fmt.Errorf("create class %s: %w", s.className, err)
	}
	s.logger.Info("created weaviate class", slog.String("class", s.className))
	return nil
}

// AddDocuments indexes docs under the given ids in one batch call.
func (s *Store) AddDocuments(ctx context.Context, docs []document.Document, ids []string) error {
	if len(docs) != len(ids) {
		return fmt.Errorf("add documents: %d ids for %d documents", len(ids), len(docs))
	}
	if len(docs) == 0 {
		return nil
	}

	var embeddings [][]float32
	if s.embedder != nil {
		texts := make([]string, len(docs))
		for i, d := range docs {
			texts[i] = d.Content()
		}
		var err error
		embeddings, err = s.embedder.Embed(ctx, texts)
		if err != nil {
			return fmt.Errorf("embed documents: %w", err)
		}
		if len(embeddings) != len(docs) {
			return fmt.Errorf("add documents: embedder returned %d vectors for %d documents", len(embeddings), len(docs))
		}
	}

	objects := make([]*models.Object, len(docs))
	for i, d := range docs {
		obj := &models.Object{
			Class: s.className,
			ID:    objectID(ids[i]),
			Properties: map[string]any{
				"uid":     ids[i],
				"content": d.Content(),
				"source":  d.Source(),
				"title":   d.Title(),
			},
		}
		if embeddings != nil {
			obj.Vector = models.C11yVector(embeddings[i])
		}
		objects[i] = obj
	}

	resp, err := s.client.Batch().ObjectsBatcher().
		WithObjects(objects...).
		Do(ctx)
	if err != nil {
		return fmt.Errorf("batch add to weaviate: %w", err)
	}
	for _, item := range resp {
		if item.Result != nil && item.Result.Errors != nil && len(item.Result.Errors.Error) > 0 {
			return fmt.Errorf("batch add to weaviate: object %s: %s", item.ID, item.Result.Errors.Error[0].Message)
		}
	}
	return nil
}

// Delete removes the objects stored under the given ids. Missing objects
// are ignored.
func (s *Store) Delete(ctx context.Context, ids []string) error {
	for _, id := range ids {
		err := s.client.Data().Deleter().
			WithClassName(s.className).
			WithID(objectID(id).String()).
			Do(ctx)
		if err != nil && !isNotFound(err) {
			return fmt.Errorf("delete %s from weaviate: %w", id, err)
		}
	}
	return nil
}

// objectID derives the deterministic Weaviate object UUID for a uid.
func objectID(uid string) strfmt.UUID {
	return strfmt.UUID(uuid.NewSHA1(uuid.NameSpaceURL, []byte("vecsync:"+uid)).String())
}

// isNotFound reports whether the client error is a 404.
func isNotFound(err error) bool {
	var clientErr *fault.WeaviateClientError
	return errors.As(err, &clientErr) && clientErr.StatusCode == 404
}

var _ vector.Store = (*Store)(nil)
