// Package project reads a project's release bookkeeping: the .obsmaker
// config file, the CHANGES changelog, and the git tag timestamps, composed
// into a single read-only Info view.
package project

import (
	"bufio"
	"os"
	"strconv"
	"strings"

	"github.com/obsmaker/obsmaker/internal/output"
)

// ObsFileName is the per-project config file read by ParseObsFile.
const ObsFileName = ".obsmaker"

// ObsConfig is the typed view of a project's .obsmaker file: the last
// released version/release pair and the clone path filters.
type ObsConfig struct {
	Version   string
	Release   int
	Whitelist []string
	Blacklist []string
}

// ParseObsFile reads a .obsmaker file. The format is line oriented:
// "key: value" sets a scalar; a bare key (or a key with an empty value)
// opens a list, filled by following "- item" lines. Any other line closes
// the open list. All four keys (version, release, whitelist, blacklist)
// must be present.
func ParseObsFile(path string) (*ObsConfig, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, output.NewUserError("no " + ObsFileName + " file: " + path)
		}
		return nil, output.NewSystemErrorWithCause("reading "+path, err)
	}
	defer file.Close() //nolint:errcheck // read-only file

	cfg := &ObsConfig{}
	seen := make(map[string]bool)

	// activeList names the list the parser is appending to; empty means the
	// parser is scanning for keys. Tracking the key instead of aliasing a
	// slice keeps list targeting unambiguous.
	activeList := ""

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if strings.HasPrefix(line, "-") {
			if activeList == "" {
				return nil, output.NewUserError("list item outside a list in " + path + ": " + line)
			}
			item := strings.TrimSpace(strings.TrimPrefix(line, "-"))
			switch activeList {
			case "whitelist":
				cfg.Whitelist = append(cfg.Whitelist, item)
			case "blacklist":
				cfg.Blacklist = append(cfg.Blacklist, item)
			}
			continue
		}

		activeList = ""
		key, value, _ := strings.Cut(line, ":")
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		seen[key] = true

		switch key {
		case "version":
			cfg.Version = value
		case "release":
			release, err := strconv.Atoi(value)
			if err != nil {
				return nil, output.NewUserError("release is not an integer in " + path + ": " + value)
			}
			cfg.Release = release
		case "whitelist", "blacklist":
			activeList = key
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, output.NewSystemErrorWithCause("reading "+path, err)
	}

	var missing []string
	for _, key := range []string{"version", "release", "whitelist", "blacklist"} {
		if !seen[key] {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return nil, output.NewUserError("missing required keys in " + path + ": " + strings.Join(missing, ", "))
	}

	return cfg, nil
}
