// Package config loads the saferm configuration from YAML. A missing,
// unreadable, or malformed file degrades to defaults with a warning on
// stderr; configuration problems must never turn the gate into a hard
// failure.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// EnvOverride names the environment variable that overrides the config
// file location.
const EnvOverride = "SAFERM_CONFIG"

// AllowedPath is one allow-list entry: a directory where deletion is
// always permitted. Recursive entries cover the whole subtree;
// non-recursive entries cover direct children only.
type AllowedPath struct {
	Path      string `yaml:"path"`
	Recursive bool   `yaml:"recursive"`
}

// Config is the saferm user configuration.
type Config struct {
	// AllowProjectDeletion permits deleting any contained file without a
	// git status check. Containment is still enforced.
	AllowProjectDeletion bool          `yaml:"allow_project_deletion"`
	AllowedPaths         []AllowedPath `yaml:"allowed_paths"`
	// DebugLog is an optional debug log file path, used when --debug-log
	// is not given.
	DebugLog string `yaml:"debug_log"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{AllowProjectDeletion: true}
}

func configDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return xdg
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config")
}

// Path returns the config file location: $SAFERM_CONFIG when set,
// otherwise $XDG_CONFIG_HOME/saferm/config.yaml.
func Path() string {
	if override := os.Getenv(EnvOverride); override != "" {
		return override
	}
	return filepath.Join(configDir(), "saferm", "config.yaml")
}

// Load reads the configuration from path, or from Path() when path is
// empty.
func Load(path string) *Config {
	if path == "" {
		path = Path()
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default()
	}

	data, err := os.ReadFile(path) // #nosec G304 -- user-chosen config location
	if err != nil {
		fmt.Fprintf(os.Stderr, "saferm: warning: cannot read config (%s): %v\n", path, err)
		return Default()
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		fmt.Fprintf(os.Stderr, "saferm: warning: config parse error (%s): %v\n", path, err)
		return Default()
	}
	return cfg
}
