// Package manifest handles golf.toml project configuration.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// FileName is the configuration file looked for by FindAndLoad.
const FileName = "golf.toml"

// Manifest represents a golf.toml configuration.
type Manifest struct {
	Project  Project        `toml:"project" json:"project"`
	Run      RunConfig      `toml:"run" json:"run"`
	Adaptive AdaptiveConfig `toml:"adaptive" json:"adaptive"`
	Log      LogConfig      `toml:"log" json:"log"`
	History  HistoryConfig  `toml:"history" json:"history"`

	// Dir is the directory containing the golf.toml file (set at load time).
	Dir string `toml:"-" json:"-"`
}

// Project contains project metadata.
type Project struct {
	Name  string `toml:"name" json:"name"`
	Entry string `toml:"entry" json:"entry"` // program run when gs gets no file
}

// RunConfig holds interpreter options.
type RunConfig struct {
	Rational bool   `toml:"rational" json:"rational"`
	Quiet    bool   `toml:"quiet" json:"quiet"`
	Seed     *int64 `toml:"seed" json:"seed,omitempty"` // nil seeds rand randomly
}

// AdaptiveConfig configures block promotion.
type AdaptiveConfig struct {
	Enabled        bool `toml:"enabled" json:"enabled"`
	Threshold      int  `toml:"threshold" json:"threshold"`
	LogCompilation bool `toml:"log-compilation" json:"log-compilation"`
}

// LogConfig configures commonlog.
type LogConfig struct {
	Level string `toml:"level" json:"level"`
	File  string `toml:"file" json:"file"`
}

// HistoryConfig configures the interactive history database.
type HistoryConfig struct {
	Path  string `toml:"path" json:"path"`
	Limit int    `toml:"limit" json:"limit"`
}

// Default returns the configuration used when no golf.toml exists.
func Default() *Manifest {
	return &Manifest{
		Adaptive: AdaptiveConfig{Enabled: true, Threshold: 55},
		Log:      LogConfig{Level: "warning"},
		History:  HistoryConfig{Limit: 1000},
	}
}

// Load parses a golf.toml file from the given directory on top of the
// defaults, applies environment overrides and validates the result.
func Load(dir string) (*Manifest, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	m := Default()
	if err := toml.Unmarshal(data, m); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}

	m.Dir, err = filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", dir, err)
	}

	m.ApplyEnv()
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", path, err)
	}
	return m, nil
}

// FindAndLoad walks up from startDir to find a golf.toml file, then loads
// and returns it. Without one it returns the defaults with environment
// overrides applied.
func FindAndLoad(startDir string) (*Manifest, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			return Load(dir)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root
			m := Default()
			m.ApplyEnv()
			if err := m.Validate(); err != nil {
				return nil, fmt.Errorf("invalid environment: %w", err)
			}
			return m, nil
		}
		dir = parent
	}
}

// EntryPath returns the absolute path of the entry program, or "" if none
// is configured.
func (m *Manifest) EntryPath() string {
	if m.Project.Entry == "" {
		return ""
	}
	if filepath.IsAbs(m.Project.Entry) {
		return m.Project.Entry
	}
	return filepath.Join(m.Dir, m.Project.Entry)
}

// HistoryPath returns the history database path. Relative paths are taken
// from the manifest directory; the default lives in the user config dir.
func (m *Manifest) HistoryPath() (string, error) {
	p := m.History.Path
	switch {
	case p == "":
		base, err := os.UserConfigDir()
		if err != nil {
			return "", fmt.Errorf("locating config dir: %w", err)
		}
		return filepath.Join(base, "golfvm", "history.db"), nil
	case filepath.IsAbs(p) || m.Dir == "":
		return p, nil
	}
	return filepath.Join(m.Dir, p), nil
}
