package vecsync

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/anchorage-ai/vecsync/application/service"
	"github.com/anchorage-ai/vecsync/domain/document"
	"github.com/anchorage-ai/vecsync/infrastructure/provider"
)

// countingEmbedder returns a fixed-dimension vector derived from the text
// length, good enough to exercise storage and ranking.
func countingEmbedder() provider.Embedder {
	return provider.EmbedderFunc(func(_ context.Context, texts []string) ([][]float32, error) {
		out := make([][]float32, len(texts))
		for i, text := range texts {
			out[i] = []float32{float32(len(text)), 1}
		}
		return out, nil
	})
}

func newTestClient(t *testing.T) *Client {
	t.Helper()
	client, err := New(
		WithSQLite(filepath.Join(t.TempDir(), "vecsync.db")),
		WithEmbedder(countingEmbedder()),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestNew_RequiresDatabase(t *testing.T) {
	_, err := New(WithEmbedder(countingEmbedder()))
	if !errors.Is(err, ErrNoDatabase) {
		t.Fatalf("err = %v, want ErrNoDatabase", err)
	}
}

func TestNew_SQLiteVectorsRequireEmbedder(t *testing.T) {
	_, err := New(WithSQLite(filepath.Join(t.TempDir(), "vecsync.db")))
	if !errors.Is(err, ErrNoEmbedder) {
		t.Fatalf("err = %v, want ErrNoEmbedder", err)
	}
}

func TestClient_SyncRoundTrip(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	docs := []document.Document{
		document.New("alpha content", map[string]string{document.MetaSource: "a.md"}),
		document.New("bravo content", map[string]string{document.MetaSource: "b.md"}),
	}

	result, err := client.Sync.Run(ctx, service.Documents(docs), service.SyncParams{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Added != 2 || result.Skipped != 0 || result.Deleted != 0 {
		t.Errorf("first run = %+v, want {2 0 0}", result)
	}

	// Second run skips everything.
	result, err = client.Sync.Run(ctx, service.Documents(docs), service.SyncParams{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Added != 0 || result.Skipped != 2 {
		t.Errorf("second run = %+v, want {0 2 0}", result)
	}
}

func TestClient_IncrementalCleanup(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	params := service.SyncParams{
		Cleanup:   service.CleanupIncremental,
		SourceKey: document.SourceKeyField(document.MetaSource),
	}

	first := []document.Document{
		document.New("v1 of page", map[string]string{document.MetaSource: "page.md"}),
	}
	if _, err := client.Sync.Run(ctx, service.Documents(first), params); err != nil {
		t.Fatalf("first run: %v", err)
	}

	// The ledger clock has millisecond resolution; make sure the second
	// run's reference timestamp lands after the first run's writes.
	time.Sleep(5 * time.Millisecond)

	second := []document.Document{
		document.New("v2 of page", map[string]string{document.MetaSource: "page.md"}),
	}
	result, err := client.Sync.Run(ctx, service.Documents(second), params)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if result.Added != 1 || result.Deleted != 1 {
		t.Errorf("result = %+v, want added=1 deleted=1", result)
	}
}

func TestClient_Search(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	docs := []document.Document{
		document.New("short", map[string]string{document.MetaSource: "s.md"}),
		document.New("a much longer document body", map[string]string{document.MetaSource: "l.md"}),
	}
	if _, err := client.Sync.Run(ctx, service.Documents(docs), service.SyncParams{}); err != nil {
		t.Fatalf("Run: %v", err)
	}

	results, err := client.Search(ctx, "short", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("len(results) = %d, want 2", len(results))
	}
	if results[0].Document().Content() != "short" {
		t.Errorf("top result = %q, want the length-matched document", results[0].Document().Content())
	}
}

func TestClient_CloseTwice(t *testing.T) {
	client, err := New(
		WithSQLite(filepath.Join(t.TempDir(), "vecsync.db")),
		WithEmbedder(countingEmbedder()),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if err := client.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := client.Close(); !errors.Is(err, ErrClientClosed) {
		t.Errorf("second Close = %v, want ErrClientClosed", err)
	}
	if _, err := client.Search(context.Background(), "q", 1); !errors.Is(err, ErrClientClosed) {
		t.Errorf("Search after Close = %v, want ErrClientClosed", err)
	}
}

func TestSqliteDir(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"sqlite:///data/db/vecsync.db", filepath.Join("data", "db")},
		{"sqlite::memory:", ""},
		{"sqlite://file::memory:?cache=shared", ""},
		{"postgres://u:p@localhost/db", ""},
	}
	for _, tt := range tests {
		if got := sqliteDir(tt.url); got != tt.want {
			t.Errorf("sqliteDir(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}
