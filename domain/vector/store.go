// Package vector defines the vector store contract consumed by the
// synchronization engine.
package vector

import (
	"context"

	"github.com/anchorage-ai/vecsync/domain/document"
)

// Store is the contract for the external vector index. The engine writes
// documents keyed by their content-derived uids and deletes by the same ids;
// embedding computation is the implementation's concern.
type Store interface {
	// AddDocuments indexes docs under the given ids. ids[i] becomes the
	// stored identifier for docs[i]; both slices must have the same length.
	// Re-adding an existing id replaces its content.
	AddDocuments(ctx context.Context, docs []document.Document, ids []string) error

	// Delete removes the vectors stored under the given ids. Unknown ids are
	// ignored.
	Delete(ctx context.Context, ids []string) error
}
