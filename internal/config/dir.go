// Package config provides the global packager configuration for obsmaker:
// where releases are staged and the author identity written into packaging
// changelogs.
package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// Dir returns the obsmaker configuration directory.
//
// Resolution:
//   - $OBSMAKER_CONFIG_HOME if set (explicit override)
//   - $XDG_CONFIG_HOME/obsmaker if set (respects XDG on any platform)
//   - %AppData%/obsmaker on Windows
//   - ~/.config/obsmaker on macOS and Linux
func Dir() string {
	// Explicit override
	if dir := os.Getenv("OBSMAKER_CONFIG_HOME"); dir != "" {
		return dir
	}

	// XDG override (works on any platform)
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "obsmaker")
	}

	// Windows: use AppData
	if runtime.GOOS == "windows" {
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "obsmaker")
		}
	}

	// macOS and Linux: ~/.config/obsmaker
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "obsmaker")
}
