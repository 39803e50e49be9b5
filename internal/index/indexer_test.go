package index

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dusk-indust/swiftgraph/internal/export"
	"github.com/dusk-indust/swiftgraph/internal/graph"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func runIndexer(t *testing.T, root string, opts ...Option) (*graph.MemStore, *Report) {
	t.Helper()
	parser := graph.NewSwiftParser()
	defer parser.Close()

	store := graph.NewMemStore(graph.PolicyOverwrite)
	report, err := New(parser, store, opts...).Run(context.Background(), root)
	require.NoError(t, err)
	return store, report
}

func TestIndexer_FixtureProject(t *testing.T) {
	store, report := runIndexer(t, "../../testdata/fixtures/swift_project")

	assert.Equal(t, 3, report.FilesFound)
	assert.Equal(t, 3, report.FilesParsed)
	assert.Empty(t, report.Failures)

	entities, err := store.ListEntities(context.Background())
	require.NoError(t, err)

	names := make([]string, 0, len(entities))
	for _, e := range entities {
		names = append(names, e.Name)
	}
	assert.Equal(t, []string{
		"Extension_of_PlaybackState",
		"Extension_of_Track",
		"LibraryViewController",
		"MediaPlayer",
		"Playable",
		"PlaybackState",
		"Track",
	}, names)
}

func TestIndexer_DuplicateAcrossFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.swift", "struct Settings { var fromA: Int }\n")
	writeFile(t, dir, "b.swift", "struct Settings { var fromB: Int }\n")

	store, report := runIndexer(t, dir)
	assert.Equal(t, 2, report.FilesParsed)

	got, err := store.GetEntity(context.Background(), "Settings")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Len(t, got.Properties, 1)

	// b.swift sorts after a.swift in the walk, so its declaration wins.
	assert.Equal(t, "fromB", got.Properties[0].Name)
}

func TestIndexer_EmptyProject(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "README.md", "no swift here\n")

	store, report := runIndexer(t, dir)
	assert.Equal(t, 0, report.FilesFound)
	assert.Equal(t, 0, report.FilesParsed)

	entities, err := store.ListEntities(context.Background())
	require.NoError(t, err)
	assert.Empty(t, entities)
}

func TestIndexer_ExcludedDirs(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "app.swift", "class App {}\n")
	writeFile(t, dir, filepath.Join(".build", "generated.swift"), "class Generated {}\n")
	writeFile(t, dir, filepath.Join("Pods", "vendor.swift"), "class Vendor {}\n")

	store, report := runIndexer(t, dir, WithExcludeDirs([]string{"Pods"}))
	assert.Equal(t, 1, report.FilesFound, ".build is excluded by default, Pods by option")

	entities, err := store.ListEntities(context.Background())
	require.NoError(t, err)
	require.Len(t, entities, 1)
	assert.Equal(t, "App", entities[0].Name)
}

func TestIndexer_RootMissing(t *testing.T) {
	parser := graph.NewSwiftParser()
	defer parser.Close()

	store := graph.NewMemStore(graph.PolicyOverwrite)
	_, err := New(parser, store).Run(context.Background(), filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
}

func TestIndexer_RootIsFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "main.swift", "class App {}\n")

	parser := graph.NewSwiftParser()
	defer parser.Close()

	store := graph.NewMemStore(graph.PolicyOverwrite)
	_, err := New(parser, store).Run(context.Background(), filepath.Join(dir, "main.swift"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a directory")
}

func TestIndexer_ParallelRunsAreIdentical(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.swift", "class Alpha: Base { func go() { step() } }\n")
	writeFile(t, dir, "b.swift", "struct Beta { var n: Int }\n")
	writeFile(t, dir, filepath.Join("sub", "c.swift"), "enum Gamma {}\nstruct Beta { var m: Int }\n")

	encode := func(opts ...Option) []byte {
		store, _ := runIndexer(t, dir, opts...)
		entities, err := store.ListEntities(context.Background())
		require.NoError(t, err)
		data, err := export.EncodeGraph(entities)
		require.NoError(t, err)
		return data
	}

	serial := encode()
	parallel := encode(WithJobs(4))

	// Parse concurrency must not leak into the output: registration happens
	// in walk order on one goroutine either way.
	assert.Equal(t, string(serial), string(parallel))
}
