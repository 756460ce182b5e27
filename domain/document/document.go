// Package document provides the document domain types for index
// synchronization: immutable documents, content-derived fingerprints, and
// source-group assignment.
package document

// Well-known metadata keys.
const (
	MetaSource = "source"
	MetaTitle  = "title"
)

// Document represents one ingested unit: opaque textual content plus a
// metadata mapping. Documents are produced upstream (a loader or splitter)
// and are immutable once they enter the engine.
type Document struct {
	content  string
	metadata map[string]string
}

// New creates a Document. The metadata map is copied so later mutation by
// the caller cannot change the document's identity.
func New(content string, metadata map[string]string) Document {
	meta := make(map[string]string, len(metadata))
	for k, v := range metadata {
		meta[k] = v
	}
	return Document{
		content:  content,
		metadata: meta,
	}
}

// Content returns the document text.
func (d Document) Content() string { return d.content }

// Metadata returns a copy of the metadata mapping.
func (d Document) Metadata() map[string]string {
	meta := make(map[string]string, len(d.metadata))
	for k, v := range d.metadata {
		meta[k] = v
	}
	return meta
}

// Meta returns the metadata value for key, or "" when absent.
func (d Document) Meta(key string) string { return d.metadata[key] }

// Source returns the "source" metadata value.
func (d Document) Source() string { return d.metadata[MetaSource] }

// Title returns the "title" metadata value.
func (d Document) Title() string { return d.metadata[MetaTitle] }
