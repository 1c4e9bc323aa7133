// Package gittags resolves release versions to commit timestamps by reading
// a repository's git metadata directly: tag refs under refs/tags (and
// packed-refs) name the released versions, and the HEAD reflog carries the
// timestamps and zone offsets.
package gittags

import (
	"bufio"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/obsmaker/obsmaker/internal/output"
)

// HeadKey is the Timestamps key holding the most recent commit's stamp.
const HeadKey = "head"

// Stamp is a resolved point in time together with the zone offset string
// exactly as it was recorded in the reflog (e.g. "+0200").
type Stamp struct {
	Time time.Time
	Zone string
}

// Timestamps maps version strings (tag names with a leading "v" stripped)
// to their stamps. The HeadKey entry holds the latest commit's stamp.
type Timestamps map[string]Stamp

// Lookup returns the stamp recorded for a version.
// A version with no matching tag is a user error.
func (t Timestamps) Lookup(version string) (Stamp, error) {
	stamp, ok := t[version]
	if !ok {
		return Stamp{}, output.NewUserError("no git tag found for version " + version)
	}
	return stamp, nil
}

// Head returns the stamp of the most recent commit seen in the reflog.
func (t Timestamps) Head() (Stamp, error) {
	stamp, ok := t[HeadKey]
	if !ok {
		return Stamp{}, output.NewUserError("no commit found in HEAD reflog")
	}
	return stamp, nil
}

// Resolve reads the git metadata directory and maps every tag that appears
// in the HEAD reflog to that reflog line's stamp. The first reflog line
// mentioning a tag wins. The last line whose message contains the word
// "commit" supplies the HeadKey stamp.
func Resolve(gitDir string) (Timestamps, error) {
	tags, err := readTags(gitDir)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(filepath.Join(gitDir, "logs", "HEAD"))
	if err != nil {
		return nil, output.NewSystemErrorWithCause("reading HEAD reflog in "+gitDir, err)
	}
	defer file.Close() //nolint:errcheck // read-only file

	pending := make(map[string]bool, len(tags))
	for name := range tags {
		pending[name] = true
	}

	stamps := make(Timestamps, len(tags)+1)
	var headStamp Stamp
	var haveHead bool

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		stamp, message, ok := parseReflogLine(line)
		if !ok {
			continue
		}

		for name := range pending {
			if containsToken(line, name) {
				stamps[versionKey(name)] = stamp
				delete(pending, name)
			}
		}

		if containsToken(message, "commit") {
			headStamp = stamp
			haveHead = true
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, output.NewSystemErrorWithCause("scanning HEAD reflog in "+gitDir, err)
	}

	if haveHead {
		stamps[HeadKey] = headStamp
	}

	return stamps, nil
}

// readTags collects tag names from loose refs under refs/tags and from
// packed-refs. Loose refs win on duplicates.
func readTags(gitDir string) (map[string]string, error) {
	tags := make(map[string]string)

	// Packed refs first, so loose refs can override them.
	if err := readPackedTags(filepath.Join(gitDir, "packed-refs"), tags); err != nil {
		return nil, err
	}

	tagsDir := filepath.Join(gitDir, "refs", "tags")
	err := filepath.WalkDir(tagsDir, func(path string, entry os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(tagsDir, path)
		if err != nil {
			return err
		}
		tags[filepath.ToSlash(rel)] = strings.TrimSpace(string(data))
		return nil
	})
	if err != nil && !os.IsNotExist(err) {
		return nil, output.NewSystemErrorWithCause("reading tag refs in "+gitDir, err)
	}

	return tags, nil
}

// readPackedTags adds refs/tags entries from a packed-refs file into tags.
// A missing file is not an error.
func readPackedTags(path string, tags map[string]string) error {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return output.NewSystemErrorWithCause("reading packed-refs", err)
	}
	defer file.Close() //nolint:errcheck // read-only file

	const prefix = "refs/tags/"
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		// Skip headers and peeled-object lines.
		if line == "" || line[0] == '#' || line[0] == '^' {
			continue
		}
		hash, ref, ok := strings.Cut(line, " ")
		if !ok || !strings.HasPrefix(ref, prefix) {
			continue
		}
		tags[strings.TrimPrefix(ref, prefix)] = hash
	}
	if err := scanner.Err(); err != nil {
		return output.NewSystemErrorWithCause("scanning packed-refs", err)
	}
	return nil
}

// parseReflogLine extracts the stamp and message from one reflog line.
// Lines look like:
//
//	<old-sha> <new-sha> Author Name <mail> 1404811151 +0200\tcommit: message
func parseReflogLine(line string) (Stamp, string, bool) {
	head, message, _ := strings.Cut(line, "\t")

	fields := strings.Fields(head)
	if len(fields) < 4 {
		return Stamp{}, "", false
	}

	zone := fields[len(fields)-1]
	offset, ok := parseZoneOffset(zone)
	if !ok {
		return Stamp{}, "", false
	}

	epoch, err := strconv.ParseInt(fields[len(fields)-2], 10, 64)
	if err != nil {
		return Stamp{}, "", false
	}

	loc := time.FixedZone(zone, offset)
	return Stamp{Time: time.Unix(epoch, 0).In(loc), Zone: zone}, message, true
}

// parseZoneOffset converts a "+hhmm"/"-hhmm" offset string into seconds.
func parseZoneOffset(zone string) (int, bool) {
	if len(zone) != 5 || (zone[0] != '+' && zone[0] != '-') {
		return 0, false
	}
	hours, err := strconv.Atoi(zone[1:3])
	if err != nil {
		return 0, false
	}
	minutes, err := strconv.Atoi(zone[3:5])
	if err != nil {
		return 0, false
	}
	offset := (hours*60 + minutes) * 60
	if zone[0] == '-' {
		offset = -offset
	}
	return offset, true
}

// containsToken reports whether token occurs in s delimited on both sides by
// characters that cannot extend a ref name. Plain substring matching would
// let "v1.0" match inside "v1.0.1".
func containsToken(s, token string) bool {
	if token == "" {
		return false
	}
	for start := 0; ; {
		idx := strings.Index(s[start:], token)
		if idx < 0 {
			return false
		}
		idx += start
		end := idx + len(token)
		if (idx == 0 || !isNameChar(s[idx-1])) && (end == len(s) || !isNameChar(s[end])) {
			return true
		}
		start = idx + 1
	}
}

// isNameChar reports whether b can be part of a tag name token.
func isNameChar(b byte) bool {
	switch {
	case '0' <= b && b <= '9':
		return true
	case 'a' <= b && b <= 'z':
		return true
	case 'A' <= b && b <= 'Z':
		return true
	case b == '.' || b == '-' || b == '_' || b == '/':
		return true
	}
	return false
}

// versionKey strips the conventional "v" prefix from a tag name so that
// changelog versions like "1.2.0" resolve against tags like "v1.2.0".
func versionKey(tag string) string {
	if len(tag) > 1 && tag[0] == 'v' && tag[1] >= '0' && tag[1] <= '9' {
		return tag[1:]
	}
	return tag
}
