// Package core holds the airlift configuration file: operator defaults
// that apply to every run on a host, as opposed to the per-run flags.
package core

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Unknown-disk-space policies. The measurement failing is common enough
// on exotic hosts that the behavior is an explicit, configurable choice
// rather than a silent assumption.
const (
	UnknownSpaceProceed = "proceed"
	UnknownSpaceAbort   = "abort"
)

// Config holds airlift configuration.
type Config struct {
	DefaultMode        string `yaml:"default_mode"`          // user, system or custom
	InstallPath        string `yaml:"install_path"`          // default prefix for custom mode
	SpaceThresholdGiB  int    `yaml:"space_threshold_gib"`   // free space required at target
	OnUnknownDiskSpace string `yaml:"on_unknown_disk_space"` // proceed or abort
	Debug              bool   `yaml:"debug"`
}

// DefaultConfig returns a default configuration.
func DefaultConfig() *Config {
	return &Config{
		DefaultMode:        "user",
		SpaceThresholdGiB:  2,
		OnUnknownDiskSpace: UnknownSpaceProceed,
	}
}

// LoadConfig loads configuration from file. A missing file yields the
// defaults; a malformed one is an error.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return DefaultConfig(), nil
		}
		path = filepath.Join(home, ".config", "airlift", "config.yaml")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if cfg.OnUnknownDiskSpace != UnknownSpaceProceed && cfg.OnUnknownDiskSpace != UnknownSpaceAbort {
		return nil, fmt.Errorf("parsing config: on_unknown_disk_space must be %q or %q, got %q",
			UnknownSpaceProceed, UnknownSpaceAbort, cfg.OnUnknownDiskSpace)
	}

	return cfg, nil
}

// SaveConfig saves configuration to file.
func SaveConfig(cfg *Config, path string) error {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return err
		}
		path = filepath.Join(home, ".config", "airlift", "config.yaml")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}
