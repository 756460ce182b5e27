package loading

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/anchorage-ai/vecsync/domain/document"
)

// MetaChunk is the metadata key carrying a chunk's index within its file.
// It keeps identical chunks of the same file fingerprinting to distinct
// uids.
const MetaChunk = "chunk"

// DefaultConcurrency bounds parallel file reads in DirLoader.
const DefaultConcurrency = 8

// FileLoader loads one file as a sequence of chunked documents.
type FileLoader struct {
	path   string
	params ChunkParams
}

// NewFileLoader creates a FileLoader.
func NewFileLoader(path string, params ChunkParams) FileLoader {
	return FileLoader{path: path, params: params}
}

// Load reads and chunks the file. Each document carries source (the path),
// title (the base name), and chunk (the chunk index) metadata.
func (l FileLoader) Load(_ context.Context) ([]document.Document, error) {
	return loadFile(l.path, l.path, l.params)
}

func loadFile(path, source string, params ChunkParams) ([]document.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	chunks, err := ChunkText(string(data), params)
	if err != nil {
		return nil, fmt.Errorf("chunk %s: %w", path, err)
	}

	docs := make([]document.Document, len(chunks))
	for i, chunk := range chunks {
		docs[i] = document.New(chunk, map[string]string{
			document.MetaSource: source,
			document.MetaTitle:  filepath.Base(path),
			MetaChunk:           strconv.Itoa(i),
		})
	}
	return docs, nil
}

// DirLoader loads every matching file under a directory tree.
type DirLoader struct {
	dir         string
	extensions  []string
	params      ChunkParams
	concurrency int
}

// NewDirLoader creates a DirLoader. extensions filters files by suffix
// (e.g. ".md", ".txt"); empty means every regular file.
func NewDirLoader(dir string, extensions []string, params ChunkParams) DirLoader {
	return DirLoader{
		dir:         dir,
		extensions:  extensions,
		params:      params,
		concurrency: DefaultConcurrency,
	}
}

// WithConcurrency returns a copy with the given parallel-read bound.
func (l DirLoader) WithConcurrency(n int) DirLoader {
	if n > 0 {
		l.concurrency = n
	}
	return l
}

// Load walks the tree, reads matching files concurrently, and returns their
// chunked documents in deterministic path order. Document sources are paths
// relative to the loader's root, so moving the root does not re-fingerprint
// every chunk.
func (l DirLoader) Load(ctx context.Context) ([]document.Document, error) {
	var paths []string
	err := filepath.WalkDir(l.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !l.matches(path) {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", l.dir, err)
	}
	sort.Strings(paths)

	perFile := make([][]document.Document, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(l.concurrency)
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			rel, err := filepath.Rel(l.dir, path)
			if err != nil {
				rel = path
			}
			docs, err := loadFile(path, filepath.ToSlash(rel), l.params)
			if err != nil {
				return err
			}
			perFile[i] = docs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var docs []document.Document
	for _, d := range perFile {
		docs = append(docs, d...)
	}
	return docs, nil
}

func (l DirLoader) matches(path string) bool {
	if len(l.extensions) == 0 {
		return true
	}
	ext := strings.ToLower(filepath.Ext(path))
	for _, want := range l.extensions {
		if ext == strings.ToLower(want) {
			return true
		}
	}
	return false
}
