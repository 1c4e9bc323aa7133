package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/obsmaker/obsmaker/internal/output"
)

// DefaultAuthor is the packager identity used when no config file or flag
// provides one. It ends up in RPM and Debian changelog entries.
const DefaultAuthor = "obsmaker <obsmaker@localhost>"

// settingsFile is the name of the config file inside Dir().
const settingsFile = "config.yaml"

// Settings holds the process-wide packager configuration.
type Settings struct {
	// ReleasesDir is the directory where release trees and tarballs are staged.
	ReleasesDir string `yaml:"releases_dir"`
	// Author is the packager identity written into generated changelogs.
	Author string `yaml:"author"`
}

// Load reads Settings from Dir()/config.yaml, falling back to defaults for
// any field the file does not set. A missing file is not an error; a
// malformed one is.
func Load() (*Settings, error) {
	settings := defaults()

	path := filepath.Join(Dir(), settingsFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return settings, nil
		}
		return nil, output.NewSystemErrorWithCause("reading config file "+path, err)
	}

	if err := yaml.Unmarshal(data, settings); err != nil {
		return nil, output.NewUserError("malformed config file " + path + ": " + err.Error())
	}

	if settings.ReleasesDir == "" {
		settings.ReleasesDir = defaults().ReleasesDir
	}
	if settings.Author == "" {
		settings.Author = DefaultAuthor
	}

	return settings, nil
}

// defaults returns the built-in settings: releases staged under ~/releases,
// changelog entries attributed to DefaultAuthor.
func defaults() *Settings {
	releasesDir := "releases"
	if home, err := os.UserHomeDir(); err == nil {
		releasesDir = filepath.Join(home, "releases")
	}
	return &Settings{
		ReleasesDir: releasesDir,
		Author:      DefaultAuthor,
	}
}
