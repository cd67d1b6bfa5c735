// Package config loads the agent's own settings: backend preference, server
// listen address, jitter toggle. Profiles are separate and live wherever the
// profile tooling puts them; this file only configures the agent process.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/ini.v1"
)

const (
	// DefaultListenAddress is where the RPC server binds unless configured.
	DefaultListenAddress = "localhost:12700"

	// EnvBackend overrides the configured backend preference.
	EnvBackend = "MACROD_BACKEND"

	// EnvListen overrides the configured listen address.
	EnvListen = "MACROD_LISTEN"
)

// Config is the agent's process configuration.
type Config struct {
	Backend string // "auto", "user-space", "kernel-level" or "mock"
	Listen  string
	Jitter  bool
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() Config {
	return Config{
		Backend: "auto",
		Listen:  DefaultListenAddress,
		Jitter:  true,
	}
}

// DefaultPath returns ~/.config/macrod/macrod.ini.
func DefaultPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "macrod", "macrod.ini"), nil
}

// Load reads the config file at path, falling back to defaults when the file
// is absent, then applies environment overrides.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); err == nil {
		file, err := ini.Load(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
		}

		section := file.Section("agent")
		cfg.Backend = section.Key("backend").MustString(cfg.Backend)
		cfg.Listen = section.Key("listen").MustString(cfg.Listen)
		cfg.Jitter = section.Key("jitter").MustBool(cfg.Jitter)
	}

	if v := os.Getenv(EnvBackend); v != "" {
		cfg.Backend = v
	}
	if v := os.Getenv(EnvListen); v != "" {
		cfg.Listen = v
	}

	return cfg, nil
}
