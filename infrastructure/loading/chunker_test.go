package loading

import (
	"strings"
	"testing"
)

func TestChunkText_Empty(t *testing.T) {
	chunks, err := ChunkText("   \n  ", DefaultChunkParams())
	if err != nil {
		t.Fatalf("ChunkText: %v", err)
	}
	if len(chunks) != 0 {
		t.Errorf("len = %d, want 0", len(chunks))
	}
}

func TestChunkText_SingleSmallChunk(t *testing.T) {
	chunks, err := ChunkText("short document", ChunkParams{Size: 100, Overlap: 10, MinSize: 50})
	if err != nil {
		t.Fatalf("ChunkText: %v", err)
	}
	// Below MinSize but the only content, so it is kept.
	if len(chunks) != 1 || chunks[0] != "short document" {
		t.Errorf("chunks = %q", chunks)
	}
}

func TestChunkText_SplitsOnLines(t *testing.T) {
	content := strings.Repeat("aaaaaaaaa\n", 10) // 10 lines of 10 runes
	chunks, err := ChunkText(content, ChunkParams{Size: 35, Overlap: 0, MinSize: 1})
	if err != nil {
		t.Fatalf("ChunkText: %v", err)
	}
	if len(chunks) < 3 {
		t.Fatalf("len = %d, want at least 3", len(chunks))
	}
	for i, c := range chunks {
		if n := len([]rune(c)); n > 35 {
			t.Errorf("chunk %d has %d runes, want <= 35", i, n)
		}
	}
	if got := strings.Join(chunks, ""); got != content {
		t.Error("zero-overlap chunks should reassemble the input")
	}
}

func TestChunkText_Overlap(t *testing.T) {
	content := strings.Repeat("0123456789\n", 6)
	chunks, err := ChunkText(content, ChunkParams{Size: 30, Overlap: 10, MinSize: 1})
	if err != nil {
		t.Fatalf("ChunkText: %v", err)
	}
	if len(chunks) < 2 {
		t.Fatalf("len = %d, want at least 2", len(chunks))
	}
	for i := 1; i < len(chunks); i++ {
		prev := []rune(chunks[i-1])
		tail := string(prev[len(prev)-10:])
		if !strings.HasPrefix(chunks[i], tail) {
			t.Errorf("chunk %d should start with the previous chunk's 10-rune tail", i)
		}
	}
}

func TestChunkText_LongLine(t *testing.T) {
	content := strings.Repeat("x", 100)
	chunks, err := ChunkText(content, ChunkParams{Size: 30, Overlap: 0, MinSize: 1})
	if err != nil {
		t.Fatalf("ChunkText: %v", err)
	}
	var total int
	for i, c := range chunks {
		n := len([]rune(c))
		if n > 30 {
			t.Errorf("chunk %d has %d runes, want <= 30", i, n)
		}
		total += n
	}
	if total != 100 {
		t.Errorf("total runes = %d, want 100", total)
	}
}

func TestChunkText_RuneBoundaries(t *testing.T) {
	content := strings.Repeat("щ", 50)
	chunks, err := ChunkText(content, ChunkParams{Size: 20, Overlap: 0, MinSize: 1})
	if err != nil {
		t.Fatalf("ChunkText: %v", err)
	}
	for i, c := range chunks {
		if !strings.HasPrefix(c, "щ") || strings.ContainsRune(c, '�') {
			t.Errorf("chunk %d split inside a rune: %q", i, c)
		}
	}
}

func TestChunkText_InvalidParams(t *testing.T) {
	if _, err := ChunkText("x", ChunkParams{Size: 10, Overlap: 10, MinSize: 1}); err == nil {
		t.Error("overlap >= size should be rejected")
	}
	if _, err := ChunkText("x", ChunkParams{Size: 0, Overlap: 0, MinSize: 1}); err == nil {
		t.Error("zero size should be rejected")
	}
}
