// Package config loads the interpreter's configuration: the one knob
// spec.md's design notes call out (a maximum per-instance past-history
// length, default unbounded) plus trace sink selection.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Version is the current O-script release version, set at build time via
// -ldflags or left at this default for development builds.
var Version = "0.1.0"

const SourceFileExt = ".osc"

// Config is the interpreter's runtime configuration (spec.md §9 "History
// growth").
type Config struct {
	// MaxHistoryLength bounds the past stack per instance, discarding
	// from the bottom once exceeded. Zero means unbounded, the spec's
	// mandated default.
	MaxHistoryLength int `yaml:"max_history_length"`

	// TraceSQLitePath, if set, mirrors every trace event into a SQLite
	// database at this path in addition to the JSON trace export.
	TraceSQLitePath string `yaml:"trace_sqlite_path"`
}

// Default returns the spec-mandated default configuration: unbounded
// history, no SQLite mirror.
func Default() Config {
	return Config{MaxHistoryLength: 0}
}

// Load reads a YAML configuration file. A missing file is not an error:
// Load returns Default() so the CLI can always pass a config without
// special-casing "no config file given".
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}
