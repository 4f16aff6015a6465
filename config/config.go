// Copyright (c) 2025 The OwnKV developers
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package config loads, saves, and validates the daemon configuration,
// stored as a plain key=value file in the data directory.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Index backend names accepted in the "backend" key.
const (
	BackendMemory = "memory"
	BackendBolt   = "bolt"
)

// DefaultMaxBodyBytes caps accepted request bodies at 4 MB.
const DefaultMaxBodyBytes = 4000000

// Config holds all daemon settings.
type Config struct {
	// DataDir is the root directory for persistent state (bolt database,
	// config file, log file).
	DataDir string

	// ListenAddr is the host:port the HTTP server binds to.
	ListenAddr string

	// Backend selects the index backend: "memory" or "bolt".
	Backend string

	// LogLevel is one of "debug", "info", "warn", "error".
	LogLevel string

	// LogFile is an optional log file path; empty logs to stderr.
	LogFile string

	// MaxBodyBytes caps the accepted request body size.
	MaxBodyBytes int64
}

// DefaultDataDir returns ~/.ownkv, falling back to a relative .ownkv
// when the home directory cannot be determined.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".ownkv"
	}
	return filepath.Join(home, ".ownkv")
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		DataDir:      DefaultDataDir(),
		ListenAddr:   ":8080",
		Backend:      BackendMemory,
		LogLevel:     "info",
		LogFile:      "",
		MaxBodyBytes: DefaultMaxBodyBytes,
	}
}

// ConfigPath returns the config file path inside dataDir.
func ConfigPath(dataDir string) string {
	return filepath.Join(dataDir, "config")
}

// LoadConfig reads a key=value config file. Blank lines and #-comments
// are skipped, unknown keys are ignored so newer files keep working with
// older binaries, and missing keys retain their defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, ErrConfigNotFound
		}
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}

	for i, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return cfg, fmt.Errorf("%w: line %d: %q", ErrInvalidConfigLine, i+1, line)
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		switch key {
		case "datadir":
			cfg.DataDir = value
		case "listen":
			cfg.ListenAddr = value
		case "backend":
			cfg.Backend = value
		case "loglevel":
			cfg.LogLevel = value
		case "logfile":
			cfg.LogFile = value
		case "maxbodybytes":
			n, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return cfg, fmt.Errorf("%w: line %d: %q", ErrInvalidConfigLine, i+1, line)
			}
			cfg.MaxBodyBytes = n
		default:
			// Unknown keys are ignored.
		}
	}

	return cfg, nil
}

// SaveConfig writes cfg to path, creating parent directories as needed.
func SaveConfig(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("config: create directory: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "datadir = %s\n", cfg.DataDir)
	fmt.Fprintf(&b, "listen = %s\n", cfg.ListenAddr)
	fmt.Fprintf(&b, "backend = %s\n", cfg.Backend)
	fmt.Fprintf(&b, "loglevel = %s\n", cfg.LogLevel)
	fmt.Fprintf(&b, "logfile = %s\n", cfg.LogFile)
	fmt.Fprintf(&b, "maxbodybytes = %d\n", cfg.MaxBodyBytes)

	if err := os.WriteFile(path, []byte(b.String()), 0600); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}
