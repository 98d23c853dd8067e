// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"sync"
)

var (
	globalMu sync.Mutex

	// globalConfig caches the loaded configuration for the process lifetime.
	globalConfig *Config

	// globalPath records which config file the cached configuration came from.
	// Empty when the cached configuration is pure defaults.
	globalPath string

	// lastLoadErr records the most recent load failure so Get() callers can
	// surface it after falling back to defaults.
	lastLoadErr error

	// configDirOverride allows tests to override the config directory.
	// This is necessary because os.UserHomeDir() doesn't reliably respect
	// the HOME environment variable on all platforms (e.g., macOS in CI).
	configDirOverride string

	// configFilePathOverride forces loading from a specific file (set by the
	// --config flag).
	configFilePathOverride string
)

// Load returns the process-wide configuration, loading it on first use.
// Subsequent calls return the cached value until Reset or an override
// invalidates the cache.
func Load(ctx context.Context) (*Config, error) {
	globalMu.Lock()
	defer globalMu.Unlock()

	if globalConfig != nil {
		return globalConfig, nil
	}

	cfg, path, err := loadWithOptions(ctx, LoadOptions{
		ConfigFilePath: configFilePathOverride,
		ConfigDirPath:  configDirOverride,
	})
	if err != nil {
		lastLoadErr = err
		return nil, err
	}

	globalConfig = cfg
	globalPath = path
	lastLoadErr = nil
	return globalConfig, nil
}

// Get returns the process-wide configuration, falling back to defaults when
// loading fails. The load error is retained for LastLoadError so the CLI can
// warn without aborting.
func Get() *Config {
	cfg, err := Load(context.Background())
	if err != nil {
		return DefaultConfig()
	}
	return cfg
}

// LastLoadError returns the error from the most recent failed load, or nil
// when the last load succeeded.
func LastLoadError() error {
	globalMu.Lock()
	defer globalMu.Unlock()
	return lastLoadErr
}

// ConfigFilePath returns the path of the config file the cached configuration
// was loaded from. Empty when the configuration is pure defaults.
func ConfigFilePath() (string, error) {
	if _, err := Load(context.Background()); err != nil {
		return "", err
	}
	globalMu.Lock()
	defer globalMu.Unlock()
	return globalPath, nil
}

// SetConfigDirOverride sets a custom config directory path and invalidates
// the cache. This is primarily intended for testing to bypass os.UserHomeDir()
// which doesn't reliably respect the HOME env var on all platforms.
func SetConfigDirOverride(dir string) {
	globalMu.Lock()
	defer globalMu.Unlock()
	configDirOverride = dir
	globalConfig = nil
	globalPath = ""
	lastLoadErr = nil
}

// SetConfigFilePathOverride forces loading from a specific config file and
// invalidates the cache. Used by the --config flag.
func SetConfigFilePathOverride(path string) {
	globalMu.Lock()
	defer globalMu.Unlock()
	configFilePathOverride = path
	globalConfig = nil
	globalPath = ""
	lastLoadErr = nil
}

// Reset clears all overrides and cached state. Call from test cleanup to
// restore defaults.
func Reset() {
	globalMu.Lock()
	defer globalMu.Unlock()
	configDirOverride = ""
	configFilePathOverride = ""
	globalConfig = nil
	globalPath = ""
	lastLoadErr = nil
}
