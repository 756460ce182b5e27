// Package provider supplies embedding computation for the vector store
// implementations. The synchronization engine itself never embeds; it hands
// documents to a vector store, which may delegate here.
package provider

import "context"

// Embedder computes one embedding vector per input text, in input order.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// EmbedderFunc adapts a function to the Embedder interface.
type EmbedderFunc func(ctx context.Context, texts []string) ([][]float32, error)

// Embed calls fn.
func (fn EmbedderFunc) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	return fn(ctx, texts)
}
