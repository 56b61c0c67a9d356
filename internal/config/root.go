package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// RootEnvVar overrides root discovery when set.
const RootEnvVar = "BUNDLER_ROOT"

// FindRoot returns the bundle root directory as an absolute path.
// Priority order:
//  1. BUNDLER_ROOT environment variable (if set)
//  2. The nearest directory at or above start holding .bundler.yaml
//  3. start itself
func FindRoot(start string) (string, error) {
	if root := os.Getenv(RootEnvVar); root != "" {
		return filepath.Abs(root)
	}

	abs, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", start, err)
	}

	current := abs
	for {
		if info, err := os.Stat(filepath.Join(current, FileName)); err == nil && !info.IsDir() {
			return current, nil
		}

		parent := filepath.Dir(current)
		if parent == current {
			break
		}
		current = parent
	}

	return abs, nil
}
