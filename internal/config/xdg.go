// Package config provides XDG path helpers.
package config

import (
	"os"
	"path/filepath"
)

const appName = "keyidle"

// XDGConfigHome returns the XDG config home or a default fallback.
func XDGConfigHome() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".config")
}

// XDGDataHome returns the XDG data home or a default fallback.
func XDGDataHome() string {
	if v := os.Getenv("XDG_DATA_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".local", "share")
}

// DefaultDBPath returns the default path for the SQLite database.
func DefaultDBPath() string {
	return filepath.Join(XDGDataHome(), appName, appName+".db")
}

// DefaultConfigPath returns the default TOML config path.
func DefaultConfigPath() string {
	return filepath.Join(XDGConfigHome(), appName, "config.toml")
}

// DefaultCatalogPath returns the optional catalog override path.
func DefaultCatalogPath() string {
	return filepath.Join(XDGConfigHome(), appName, "catalog.yaml")
}

// DefaultExportPath returns the default export file for a save slot.
func DefaultExportPath(slot string) string {
	return filepath.Join(XDGDataHome(), appName, "exports", slot+".json.zst")
}
