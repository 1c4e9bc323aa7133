package pack

import (
	"crypto/md5" //nolint:gosec // .dsc Files checksums are defined as MD5
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/obsmaker/obsmaker/internal/output"
	"github.com/obsmaker/obsmaker/internal/project"
)

// DebianChangelogName is the changelog file written next to the .dsc.
const DebianChangelogName = "debian.changelog"

var dscVersionRe = regexp.MustCompile(`(?m)^(Version:[ \t]*)\S.*$`)

// PrepareDEB rewrites {dir}/{name}.dsc in place and overwrites
// {dir}/debian.changelog. The .dsc Version value becomes {version}-1 and the
// checksum line naming the archive gets a fresh MD5 sum and byte size.
// Returns the archive checksum so callers do not hash the archive again.
func PrepareDEB(info *project.Info, author, dir, archivePath string) (string, error) {
	sum, size, err := MD5Sum(archivePath)
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, info.Name+".dsc")
	content, mode, err := readTemplate(path)
	if err != nil {
		return "", err
	}

	content = dscVersionRe.ReplaceAllString(content, "${1}"+info.Version+"-1")

	base := filepath.Base(archivePath)
	fileLineRe := regexp.MustCompile(`(?m)^ \S+ \d+ ` + regexp.QuoteMeta(base) + `[ \t]*$`)
	if !fileLineRe.MatchString(content) {
		return "", output.NewUserError("no checksum line for " + base + " in " + path)
	}
	content = fileLineRe.ReplaceAllString(content, fmt.Sprintf(" %s %d %s", sum, size, base))

	if err := os.WriteFile(path, []byte(content), mode); err != nil {
		return "", output.NewSystemErrorWithCause("writing "+path, err)
	}

	return sum, writeDebianChangelog(info, author, dir)
}

// writeDebianChangelog overwrites {dir}/debian.changelog with every entry in
// Debian changelog format, newest first.
func writeDebianChangelog(info *project.Info, author, dir string) error {
	var b strings.Builder
	for _, change := range info.Changes {
		fmt.Fprintf(&b, "%s (%s-1) unstable; urgency=low\n\n", info.Name, change.Version)
		for _, line := range change.Lines {
			fmt.Fprintf(&b, "  * %s\n", line)
		}
		fmt.Fprintf(&b, "\n -- %s  %s %s\n\n",
			author,
			change.Stamp.Time.Format("Mon, 02 Jan 2006 15:04:05"),
			change.Stamp.Zone)
	}

	path := filepath.Join(dir, DebianChangelogName)
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil { //nolint:gosec // packaging metadata
		return output.NewSystemErrorWithCause("writing "+path, err)
	}
	return nil
}

// MD5Sum computes the MD5 checksum and byte size of a file.
func MD5Sum(path string) (string, int64, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", 0, output.NewSystemErrorWithCause("opening "+path, err)
	}
	defer file.Close() //nolint:errcheck // read-only file

	hash := md5.New() //nolint:gosec // .dsc Files checksums are defined as MD5
	size, err := io.Copy(hash, file)
	if err != nil {
		return "", 0, output.NewSystemErrorWithCause("hashing "+path, err)
	}
	return hex.EncodeToString(hash.Sum(nil)), size, nil
}
