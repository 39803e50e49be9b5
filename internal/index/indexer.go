// Package index walks a project tree, parses every Swift source file and
// registers the extracted entities in a graph store.
package index

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/dusk-indust/swiftgraph/internal/graph"
)

// Indexer drives one extraction run over a directory tree.
type Indexer struct {
	parser  graph.Parser
	store   graph.Store
	exclude map[string]bool
	jobs    int
	logf    func(format string, args ...any)
}

// Option configures an Indexer.
type Option func(*Indexer)

// WithExcludeDirs skips directories with the given base names during the walk.
func WithExcludeDirs(dirs []string) Option {
	return func(ix *Indexer) {
		for _, d := range dirs {
			ix.exclude[d] = true
		}
	}
}

// WithJobs bounds the number of files parsed concurrently. Values below 1
// fall back to serial parsing.
func WithJobs(n int) Option {
	return func(ix *Indexer) {
		if n > 0 {
			ix.jobs = n
		}
	}
}

// WithLogf sets the progress log sink. Nil disables progress output.
func WithLogf(logf func(format string, args ...any)) Option {
	return func(ix *Indexer) { ix.logf = logf }
}

// New creates an Indexer writing into store.
func New(parser graph.Parser, store graph.Store, opts ...Option) *Indexer {
	ix := &Indexer{
		parser:  parser,
		store:   store,
		exclude: map[string]bool{".git": true, ".build": true},
		jobs:    1,
	}
	for _, opt := range opts {
		opt(ix)
	}
	return ix
}

// FileError records a file that could not be read or parsed.
type FileError struct {
	Path string
	Err  error
}

// Report summarizes one indexing run.
type Report struct {
	FilesFound  int
	FilesParsed int
	Failures    []FileError
}

// Run walks root, parses every .swift file and registers the results.
//
// Files are parsed concurrently — each file's tree is independent and
// read-only — but all store registrations happen on this goroutine, in the
// walk order of the file list, so the duplicate-name policy stays
// deterministic across runs. A file that cannot be read or parsed is
// reported and skipped; the rest of the batch continues.
func (ix *Indexer) Run(ctx context.Context, root string) (*Report, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("cannot access %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("not a directory: %s", root)
	}

	files, err := ix.collectFiles(root)
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}

	report := &Report{FilesFound: len(files)}
	if len(files) == 0 {
		return report, nil
	}

	if err := ix.store.InitSchema(ctx); err != nil {
		return nil, fmt.Errorf("init schema: %w", err)
	}

	// Parse fan-out: one slot per file so results land in walk order.
	results := make([]*graph.FileResult, len(files))
	failures := make([]error, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(ix.jobs)
	for i, path := range files {
		g.Go(func() error {
			source, err := os.ReadFile(path)
			if err != nil {
				failures[i] = err
				return nil
			}
			res, err := ix.parser.Parse(gctx, path, source)
			if err != nil {
				failures[i] = err
				return nil
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Single-writer merge, in file order.
	for i, path := range files {
		if failures[i] != nil {
			report.Failures = append(report.Failures, FileError{Path: path, Err: failures[i]})
			ix.progress("skipped %s: %v", path, failures[i])
			continue
		}
		for _, entity := range results[i].Entities {
			if err := ix.store.AddEntity(ctx, entity); err != nil {
				return nil, fmt.Errorf("add entity %s: %w", entity.Name, err)
			}
		}
		report.FilesParsed++
		ix.progress("parsed %s (%d entities)", path, len(results[i].Entities))
	}
	return report, nil
}

// collectFiles returns every .swift file under root, in the lexical order
// produced by filepath.WalkDir.
func (ix *Indexer) collectFiles(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // skip inaccessible paths
		}
		if d.IsDir() {
			if ix.exclude[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) == ".swift" {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

func (ix *Indexer) progress(format string, args ...any) {
	if ix.logf != nil {
		ix.logf(format, args...)
	}
}
