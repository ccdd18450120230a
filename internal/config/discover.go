package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const defaultFile = ".ecgmon/config.yaml"

// ErrNotFound is returned by Discover when no config file exists.
var ErrNotFound = errors.New("no ecgmon config found")

// Discover finds the config file path.
// Priority: ECGMON_CONFIG env var > .ecgmon/config.yaml in CWD > walk up parents.
func Discover() (string, error) {
	if env := os.Getenv("ECGMON_CONFIG"); env != "" {
		if _, err := os.Stat(env); err == nil {
			return env, nil
		}
		return "", fmt.Errorf("ECGMON_CONFIG=%q: %w", env, os.ErrNotExist)
	}

	// Check CWD first.
	if _, err := os.Stat(defaultFile); err == nil {
		abs, err := filepath.Abs(defaultFile)
		if err != nil {
			return "", fmt.Errorf("resolve absolute path for %s: %w", defaultFile, err)
		}
		return abs, nil
	}

	// Walk up parent directories.
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, defaultFile)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("%w (looked for %s)", ErrNotFound, defaultFile)
}

// Resolve loads the config at path, or the discovered one when path is
// empty. A missing discovered file yields the defaults; an explicit path or
// ECGMON_CONFIG that cannot be read is an error. The returned path is empty
// when defaults were used.
func Resolve(path string) (*Config, string, error) {
	if path == "" {
		found, err := Discover()
		switch {
		case errors.Is(err, ErrNotFound):
			cfg, err := Load("")
			return cfg, "", err
		case err != nil:
			return nil, "", err
		}
		path = found
	}
	cfg, err := Load(path)
	if err != nil {
		return nil, "", fmt.Errorf("load %s: %w", path, err)
	}
	return cfg, path, nil
}
