package config

import (
	"path/filepath"
	"testing"
)

func TestDir_ExplicitOverride(t *testing.T) {
	t.Setenv("OBSMAKER_CONFIG_HOME", "/custom/obsmaker")
	t.Setenv("XDG_CONFIG_HOME", "/xdg")

	if got := Dir(); got != "/custom/obsmaker" {
		t.Errorf("Dir() = %q, want /custom/obsmaker", got)
	}
}

func TestDir_XDG(t *testing.T) {
	t.Setenv("OBSMAKER_CONFIG_HOME", "")
	t.Setenv("XDG_CONFIG_HOME", "/xdg")

	want := filepath.Join("/xdg", "obsmaker")
	if got := Dir(); got != want {
		t.Errorf("Dir() = %q, want %q", got, want)
	}
}

func TestDir_FallbackNonEmpty(t *testing.T) {
	t.Setenv("OBSMAKER_CONFIG_HOME", "")
	t.Setenv("XDG_CONFIG_HOME", "")

	if got := Dir(); got == "" {
		t.Error("Dir() should fall back to a home-based directory")
	}
}
