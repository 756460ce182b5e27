// Package loading turns files on disk into documents ready for index
// synchronization: reading, chunking, and metadata stamping. It sits
// upstream of the engine, which only ever sees already-split documents.
package loading

import (
	"fmt"
	"strings"
)

// ChunkParams configures text chunking. Size, Overlap, and MinSize are
// measured in runes.
type ChunkParams struct {
	Size    int
	Overlap int
	MinSize int
}

// DefaultChunkParams returns sensible defaults for prose and markup.
func DefaultChunkParams() ChunkParams {
	return ChunkParams{
		Size:    1500,
		Overlap: 200,
		MinSize: 50,
	}
}

// ChunkText splits content into chunks of at most Size runes, accumulating
// whole lines where possible and windowing lines that exceed Size on rune
// boundaries. Consecutive chunks share Overlap runes of context. Chunks
// shorter than MinSize are dropped unless they carry the only content.
func ChunkText(content string, params ChunkParams) ([]string, error) {
	if params.Size <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", params.Size)
	}
	if params.Overlap >= params.Size {
		return nil, fmt.Errorf("overlap (%d) must be less than size (%d)", params.Overlap, params.Size)
	}
	if strings.TrimSpace(content) == "" {
		return nil, nil
	}

	var chunks []string
	var acc []rune
	fresh := false // acc holds content not yet emitted (beyond overlap)

	emit := func(text []rune) {
		if len(text) >= params.MinSize || len(chunks) == 0 {
			chunks = append(chunks, string(text))
		}
	}

	// flush emits the accumulator and reseeds it with the overlap tail.
	flush := func() {
		if !fresh {
			return
		}
		emit(acc)
		if params.Overlap > 0 && len(acc) > params.Overlap {
			tail := make([]rune, params.Overlap)
			copy(tail, acc[len(acc)-params.Overlap:])
			acc = tail
		} else {
			acc = nil
		}
		fresh = false
	}

	step := params.Size - params.Overlap
	for _, line := range strings.SplitAfter(content, "\n") {
		runes := []rune(line)

		if len(runes) > params.Size {
			flush()
			acc = nil
			// Window the long line directly; the final short window seeds
			// the accumulator so following lines keep its context.
			start := 0
			for ; start+params.Size < len(runes); start += step {
				emit(runes[start : start+params.Size])
			}
			acc = append([]rune(nil), runes[start:]...)
			fresh = true
			continue
		}

		if len(acc)+len(runes) > params.Size {
			flush()
			if len(acc)+len(runes) > params.Size {
				// The overlap seed leaves no room for this line.
				acc = nil
			}
		}
		acc = append(acc, runes...)
		if len(runes) > 0 {
			fresh = true
		}
	}
	if fresh && len(strings.TrimSpace(string(acc))) > 0 {
		emit(acc)
	}
	return chunks, nil
}
