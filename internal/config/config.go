// Package config loads project-level settings for swiftgraph.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ProjectConfig holds project-level settings loaded from swiftgraph.yml.
// Command-line flags override any value set here.
type ProjectConfig struct {
	// Output is the path the JSON graph is written to. Relative paths are
	// resolved against the invoking process's working directory.
	Output string `yaml:"output,omitempty"`

	// DuplicatePolicy is "overwrite" (default) or "merge".
	DuplicatePolicy string `yaml:"duplicatePolicy,omitempty"`

	// ExcludeDirs lists directory base names skipped during the scan.
	ExcludeDirs []string `yaml:"excludeDirs,omitempty"`

	Verbose bool `yaml:"verbose,omitempty"`
}

// Load attempts to read swiftgraph.yml or swiftgraph.yaml from the given
// directory. Returns a zero-value config (not an error) if no config file
// exists.
func Load(dir string) (*ProjectConfig, error) {
	for _, name := range []string{"swiftgraph.yml", "swiftgraph.yaml"} {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var cfg ProjectConfig
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		return &cfg, nil
	}
	return &ProjectConfig{}, nil
}
