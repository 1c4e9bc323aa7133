package project

import (
	"bufio"
	"os"
	"regexp"
	"strings"

	"github.com/obsmaker/obsmaker/internal/output"
)

// ChangelogFileName is the per-project changelog read by ParseChangelog.
const ChangelogFileName = "CHANGES"

// ChangeSet is one changelog section: a version label and its change lines,
// before timestamps are resolved.
type ChangeSet struct {
	Version string
	Lines   []string
}

// versionHeaderRe matches a changelog section header like "Version 1.2.0:".
var versionHeaderRe = regexp.MustCompile(`^Version\s+(\S+):\s*$`)

// ParseChangelog reads a CHANGES file into its sections, in file order
// (newest first). Each section starts with a "Version X.Y.Z:" header
// followed by "- " change lines.
func ParseChangelog(path string) ([]ChangeSet, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, output.NewUserError("no " + ChangelogFileName + " file: " + path)
		}
		return nil, output.NewSystemErrorWithCause("reading "+path, err)
	}
	defer file.Close() //nolint:errcheck // read-only file

	var sets []ChangeSet

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "-") {
			if len(sets) == 0 {
				return nil, output.NewUserError("change line before any version header in " + path)
			}
			item := strings.TrimSpace(strings.TrimPrefix(line, "-"))
			last := &sets[len(sets)-1]
			last.Lines = append(last.Lines, item)
			continue
		}

		if strings.HasPrefix(line, "Version") {
			matches := versionHeaderRe.FindStringSubmatch(line)
			if matches == nil {
				return nil, output.NewUserError("malformed version header in " + path + ": " + line)
			}
			sets = append(sets, ChangeSet{Version: matches[1]})
		}
		// Anything else is commentary between sections and is ignored.
	}
	if err := scanner.Err(); err != nil {
		return nil, output.NewSystemErrorWithCause("reading "+path, err)
	}

	if len(sets) == 0 {
		return nil, output.NewUserError("no version sections in " + path)
	}

	return sets, nil
}
