package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/anchorage-ai/vecsync/infrastructure/loading"
)

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "manifest.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	return path
}

func TestLoadManifest(t *testing.T) {
	path := writeManifest(t, `
chunking:
  size: 800
  overlap: 100
sources:
  - path: docs/
    extensions: [".md", ".txt"]
  - path: CHANGELOG.md
`)

	m, err := loadManifest(path)
	if err != nil {
		t.Fatalf("loadManifest: %v", err)
	}
	if len(m.Sources) != 2 {
		t.Fatalf("len(Sources) = %d, want 2", len(m.Sources))
	}
	if m.Sources[0].Path != "docs/" || len(m.Sources[0].Extensions) != 2 {
		t.Errorf("Sources[0] = %+v", m.Sources[0])
	}

	params := m.chunkParams()
	if params.Size != 800 || params.Overlap != 100 {
		t.Errorf("chunkParams = %+v", params)
	}
	if params.MinSize != loading.DefaultChunkParams().MinSize {
		t.Errorf("MinSize = %d, want default", params.MinSize)
	}
}

func TestLoadManifest_NoSources(t *testing.T) {
	path := writeManifest(t, "sources: []\n")
	if _, err := loadManifest(path); err == nil {
		t.Fatal("expected error for empty sources")
	}
}

func TestLoadManifest_MissingPath(t *testing.T) {
	path := writeManifest(t, "sources:\n  - extensions: ['.md']\n")
	if _, err := loadManifest(path); err == nil {
		t.Fatal("expected error for source without path")
	}
}

func TestManifest_ChunkParamsRejectsOversizedOverlap(t *testing.T) {
	m := Manifest{Chunking: ChunkingManifest{Size: 100, Overlap: 100}}

	params := m.chunkParams()
	if params.Overlap >= params.Size {
		t.Errorf("Overlap = %d not below Size = %d", params.Overlap, params.Size)
	}
}
