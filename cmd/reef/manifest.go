package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// toolConfig is the optional project-local reef.toml.
type toolConfig struct {
	Check  checkConfig  `toml:"check"`
	Output outputConfig `toml:"output"`
}

type checkConfig struct {
	// Args are extra cargo arguments prepended to any given on the
	// command line.
	Args []string `toml:"args"`
}

type outputConfig struct {
	Width   int    `toml:"width"`
	Color   string `toml:"color"`
	Verbose bool   `toml:"verbose"`
}

func findReefToml(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, "reef.toml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// loadToolConfig reads the nearest reef.toml above startDir. A missing file
// is not an error; the zero config applies.
func loadToolConfig(startDir string) (toolConfig, bool, error) {
	path, ok, err := findReefToml(startDir)
	if err != nil || !ok {
		return toolConfig{}, ok, err
	}
	var cfg toolConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return toolConfig{}, true, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	return cfg, true, nil
}
