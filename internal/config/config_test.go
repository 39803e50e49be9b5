package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	content := `
output: graphs/deps.json
duplicatePolicy: merge
excludeDirs:
  - Pods
  - Carthage
verbose: true
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "swiftgraph.yml"), []byte(content), 0o644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "graphs/deps.json", cfg.Output)
	assert.Equal(t, "merge", cfg.DuplicatePolicy)
	assert.Equal(t, []string{"Pods", "Carthage"}, cfg.ExcludeDirs)
	assert.True(t, cfg.Verbose)
}

func TestLoad_YamlExtension(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "swiftgraph.yaml"), []byte("verbose: true\n"), 0o644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.True(t, cfg.Verbose)
}

func TestLoad_Missing(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, &ProjectConfig{}, cfg)
}

func TestLoad_Invalid(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "swiftgraph.yml"), []byte(":\n\t bad"), 0o644))

	_, err := Load(dir)
	require.Error(t, err)
}
