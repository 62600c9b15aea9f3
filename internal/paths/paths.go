// Package paths resolves where the storefront keeps its config.yaml and its
// persisted state.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// AppName is the directory name used under the platform config and data
// locations.
const AppName = "storefront"

// DefaultDataDirName is the working-directory-relative data directory used
// when nothing overrides it.
const DefaultDataDirName = ".storefront-db"

// Environment variable overrides.
const (
	EnvConfigDir = "STOREFRONT_CONFIG_DIR"
	EnvDataDir   = "STOREFRONT_DATA_DIR"
)

// platform holds the os lookups, replaced in tests.
var platform = struct {
	goos          string
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
}{
	goos:          runtime.GOOS,
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
}

// DefaultConfigDir returns $XDG_CONFIG_HOME/storefront on Linux (falling back
// to ~/.config/storefront) and os.UserConfigDir()/storefront elsewhere.
func DefaultConfigDir() (string, error) {
	return platformDir("XDG_CONFIG_HOME", ".config")
}

// DefaultDataDir returns $XDG_DATA_HOME/storefront on Linux (falling back to
// ~/.local/share/storefront) and os.UserConfigDir()/storefront elsewhere.
func DefaultDataDir() (string, error) {
	return platformDir("XDG_DATA_HOME", filepath.Join(".local", "share"))
}

func platformDir(xdgVar, homeRel string) (string, error) {
	if platform.goos != "linux" {
		dir, err := platform.userConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, AppName), nil
	}
	if xdg := os.Getenv(xdgVar); xdg != "" {
		return filepath.Join(xdg, AppName), nil
	}
	home, err := platform.homeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, homeRel, AppName), nil
}

// ResolveConfigDir picks the config directory: flag, then
// STOREFRONT_CONFIG_DIR, then DefaultConfigDir. Overrides are made absolute.
func ResolveConfigDir(flag string) (string, error) {
	if dir := firstSet(flag, os.Getenv(EnvConfigDir)); dir != "" {
		return filepath.Abs(dir)
	}
	return DefaultConfigDir()
}

// ResolveDataDir picks the data directory: flag, then the data_dir value
// from config.yaml, then STOREFRONT_DATA_DIR, then ./.storefront-db.
func ResolveDataDir(flag, configValue string) (string, error) {
	if dir := firstSet(flag, configValue, os.Getenv(EnvDataDir)); dir != "" {
		return filepath.Abs(dir)
	}
	return filepath.Abs(DefaultDataDirName)
}

func firstSet(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
