package project

import (
	"path/filepath"

	"github.com/obsmaker/obsmaker/internal/gittags"
)

// Change is one dated changelog entry.
type Change struct {
	Version string
	Stamp   gittags.Stamp
	Lines   []string
}

// Info is the read-only view of a project, assembled from .obsmaker,
// CHANGES, and the git metadata directory. Changes are ordered newest first;
// the first entry's version is the project's current version.
type Info struct {
	Path      string
	Name      string
	Version   string
	Release   int
	Whitelist map[string]bool
	Blacklist map[string]bool
	Changes   []Change
}

// Load builds the Info for the project rooted at path. The newest changelog
// entry is stamped with the latest commit time (it is the unreleased one);
// every older entry is stamped with its version's tag time. Release is the
// recorded release plus one when the version has not moved since the last
// recorded release, and resets to 1 otherwise.
func Load(path string) (*Info, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	cfg, err := ParseObsFile(filepath.Join(abs, ObsFileName))
	if err != nil {
		return nil, err
	}

	sets, err := ParseChangelog(filepath.Join(abs, ChangelogFileName))
	if err != nil {
		return nil, err
	}

	stamps, err := gittags.Resolve(filepath.Join(abs, ".git"))
	if err != nil {
		return nil, err
	}

	changes := make([]Change, len(sets))
	for i, set := range sets {
		var stamp gittags.Stamp
		if i == 0 {
			stamp, err = stamps.Head()
		} else {
			stamp, err = stamps.Lookup(set.Version)
		}
		if err != nil {
			return nil, err
		}
		changes[i] = Change{Version: set.Version, Stamp: stamp, Lines: set.Lines}
	}

	version := sets[0].Version
	release := 1
	if cfg.Version == version {
		release = cfg.Release + 1
	}

	return &Info{
		Path:      abs,
		Name:      filepath.Base(abs),
		Version:   version,
		Release:   release,
		Whitelist: toSet(cfg.Whitelist),
		Blacklist: toSet(cfg.Blacklist),
		Changes:   changes,
	}, nil
}

// toSet converts a list of relative paths into a membership set.
func toSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, item := range items {
		set[item] = true
	}
	return set
}
