// Package search provides vector store implementations backed by the
// relational database: embeddings stored as JSON with in-memory cosine
// ranking. Suitable for local and small-corpus deployments; larger corpora
// should use the Weaviate store.
package search

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Float32Slice stores []float32 as JSON in a text column.
type Float32Slice []float32

// Scan implements sql.Scanner.
func (f *Float32Slice) Scan(value any) error {
	if value == nil {
		*f = nil
		return nil
	}
	data, err := asBytes(value)
	if err != nil {
		return fmt.Errorf("scan Float32Slice: %w", err)
	}
	return json.Unmarshal(data, f)
}

// Value implements driver.Valuer.
func (f Float32Slice) Value() (driver.Value, error) {
	if f == nil {
		return nil, nil
	}
	return json.Marshal(f)
}

// MetadataMap stores a document's metadata as JSON in a text column.
type MetadataMap map[string]string

// Scan implements sql.Scanner.
func (m *MetadataMap) Scan(value any) error {
	if value == nil {
		*m = nil
		return nil
	}
	data, err := asBytes(value)
	if err != nil {
		return fmt.Errorf("scan MetadataMap: %w", err)
	}
	return json.Unmarshal(data, m)
}

// Value implements driver.Valuer.
func (m MetadataMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

func asBytes(value any) ([]byte, error) {
	switch v := value.(type) {
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		return nil, fmt.Errorf("cannot convert %T to bytes", value)
	}
}

// EmbeddingModel is one indexed document with its embedding vector.
type EmbeddingModel struct {
	UID       string       `gorm:"column:uid;primaryKey"`
	Content   string       `gorm:"column:content"`
	Metadata  MetadataMap  `gorm:"column:metadata;type:json"`
	Embedding Float32Slice `gorm:"column:embedding;type:json"`
}

// TableName returns the embeddings table name.
func (EmbeddingModel) TableName() string { return "vecsync_embeddings" }
