package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ConfigFileName is the name of the per-project configuration file.
const ConfigFileName = "attrlex.toml"

// FindConfig walks up from start to locate attrlex.toml. start may be a file;
// the search then begins in its directory.
func FindConfig(start string) (path string, ok bool, err error) {
	if start == "" {
		start = "."
	}
	dir, err := filepath.Abs(start)
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

// FindProjectRoot returns the directory containing attrlex.toml, if any.
func FindProjectRoot(start string) (root string, ok bool, err error) {
	cfgPath, ok, err := FindConfig(start)
	if err != nil || !ok {
		return "", ok, err
	}
	return filepath.Dir(cfgPath), true, nil
}
