package search

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"

	"gorm.io/gorm/clause"

	"github.com/anchorage-ai/vecsync/domain/document"
	"github.com/anchorage-ai/vecsync/domain/vector"
	"github.com/anchorage-ai/vecsync/infrastructure/provider"
	"github.com/anchorage-ai/vecsync/internal/database"
)

// Result is one search hit.
type Result struct {
	doc   document.Document
	score float64
}

// Document returns the matched document.
func (r Result) Document() document.Document { return r.doc }

// Score returns the cosine similarity of the hit.
func (r Result) Score() float64 { return r.score }

// SQLiteVectorStore implements vector.Store on the relational database.
// Embeddings are stored as JSON and similarity search ranks in memory.
type SQLiteVectorStore struct {
	db       database.Database
	embedder provider.Embedder
	logger   *slog.Logger
}

// NewSQLiteVectorStore creates a new SQLiteVectorStore.
func NewSQLiteVectorStore(db database.Database, embedder provider.Embedder, logger *slog.Logger) *SQLiteVectorStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &SQLiteVectorStore{
		db:       db,
		embedder: embedder,
		logger:   logger,
	}
}

// Migrate creates or updates the embeddings schema.
func (s *SQLiteVectorStore) Migrate() error {
	if err := s.db.GORM().AutoMigrate(&EmbeddingModel{}); err != nil {
		return fmt.Errorf("migrate embeddings schema: %w", err)
	}
	return nil
}

// AddDocuments embeds and indexes docs under the given ids. Re-adding an
// existing id replaces its row.
func (s *SQLiteVectorStore) AddDocuments(ctx context.Context, docs []document.Document, ids []string) error {
	if len(docs) != len(ids) {
		return fmt.Errorf("add documents: %d ids for %d documents", len(ids), len(docs))
	}
	if len(docs) == 0 {
		return nil
	}

	texts := make([]string, len(docs))
	for i, d := range docs {
		texts[i] = d.Content()
	}
	embeddings, err := s.embedder.Embed(ctx, texts)
	if err != nil {
		return fmt.Errorf("embed documents: %w", err)
	}
	if len(embeddings) != len(docs) {
		return fmt.Errorf("add documents: embedder returned %d vectors for %d documents", len(embeddings), len(docs))
	}

	models := make([]EmbeddingModel, len(docs))
	for i, d := range docs {
		models[i] = EmbeddingModel{
			UID:       ids[i],
			Content:   d.Content(),
			Metadata:  d.Metadata(),
			Embedding: embeddings[i],
		}
	}

	err = s.db.Session(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "uid"}},
		UpdateAll: true,
	}).Create(&models).Error
	if err != nil {
		return fmt.Errorf("store embeddings: %w", err)
	}
	return nil
}

// Delete removes the rows stored under the given ids.
func (s *SQLiteVectorStore) Delete(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	err := s.db.Session(ctx).Where("uid IN ?", ids).Delete(&EmbeddingModel{}).Error
	if err != nil {
		return fmt.Errorf("delete embeddings: %w", err)
	}
	return nil
}

// Search embeds the query and returns the limit most similar documents by
// cosine similarity. The full embedding set is loaded and ranked in memory.
func (s *SQLiteVectorStore) Search(ctx context.Context, query string, limit int) ([]Result, error) {
	queryVectors, err := s.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if len(queryVectors) != 1 {
		return nil, fmt.Errorf("embed query: got %d vectors", len(queryVectors))
	}

	var models []EmbeddingModel
	if err := s.db.Session(ctx).Find(&models).Error; err != nil {
		return nil, fmt.Errorf("load embeddings: %w", err)
	}

	results := make([]Result, 0, len(models))
	for _, m := range models {
		results = append(results, Result{
			doc:   document.New(m.Content, m.Metadata),
			score: cosineSimilarity(queryVectors[0], m.Embedding),
		})
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].score > results[j].score
	})

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	s.logger.Debug("vector search", slog.Int("candidates", len(models)), slog.Int("results", len(results)))
	return results, nil
}

// cosineSimilarity computes cosine similarity between two vectors, 0 for
// mismatched lengths or zero vectors.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

var _ vector.Store = (*SQLiteVectorStore)(nil)
