package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ConfigFileName is the name of the project configuration file.
const ConfigFileName = "apiscan.toml"

// FindConfig walks up from startDir to locate apiscan.toml.
// startDir may name a file; the search then starts in its directory.
func FindConfig(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	if info, statErr := os.Stat(dir); statErr == nil && !info.IsDir() {
		dir = filepath.Dir(dir)
	}
	for {
		candidate := filepath.Join(dir, ConfigFileName)
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

// FindProjectRoot returns the directory containing apiscan.toml, if any.
func FindProjectRoot(startDir string) (root string, ok bool, err error) {
	configPath, ok, err := FindConfig(startDir)
	if err != nil || !ok {
		return "", ok, err
	}
	return filepath.Dir(configPath), true, nil
}
