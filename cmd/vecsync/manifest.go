package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/anchorage-ai/vecsync/infrastructure/loading"
)

// Manifest describes an ingestion as a YAML file, as an alternative to
// flags when several corpora are synchronized together.
//
//	chunking:
//	  size: 1500
//	  overlap: 200
//	sources:
//	  - path: docs/
//	    extensions: [".md", ".txt"]
//	  - path: CHANGELOG.md
type Manifest struct {
	Chunking ChunkingManifest `yaml:"chunking"`
	Sources  []SourceManifest `yaml:"sources"`
}

// ChunkingManifest overrides chunking parameters. Zero fields keep the
// defaults.
type ChunkingManifest struct {
	Size    int `yaml:"size"`
	Overlap int `yaml:"overlap"`
	MinSize int `yaml:"min_size"`
}

// SourceManifest names one file or directory to ingest.
type SourceManifest struct {
	Path       string   `yaml:"path"`
	Extensions []string `yaml:"extensions"`
}

// loadManifest reads and validates a YAML manifest.
func loadManifest(path string) (Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}, fmt.Errorf("read manifest: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return Manifest{}, fmt.Errorf("parse manifest: %w", err)
	}
	if len(m.Sources) == 0 {
		return Manifest{}, fmt.Errorf("manifest %s lists no sources", path)
	}
	for i, src := range m.Sources {
		if src.Path == "" {
			return Manifest{}, fmt.Errorf("manifest source %d has no path", i)
		}
	}
	return m, nil
}

// chunkParams converts the manifest overrides to loading.ChunkParams.
func (m Manifest) chunkParams() loading.ChunkParams {
	params := loading.DefaultChunkParams()
	if m.Chunking.Size > 0 {
		params.Size = m.Chunking.Size
	}
	if m.Chunking.Overlap > 0 && m.Chunking.Overlap < params.Size {
		params.Overlap = m.Chunking.Overlap
	}
	if m.Chunking.MinSize > 0 {
		params.MinSize = m.Chunking.MinSize
	}
	return params
}
