// Package pack rewrites RPM and DEB packaging templates in place from a
// release's project info: version and release headers, archive checksums,
// and generated changelog text.
package pack

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/obsmaker/obsmaker/internal/output"
	"github.com/obsmaker/obsmaker/internal/project"
)

var (
	specVersionRe = regexp.MustCompile(`(?m)^(Version:[ \t]*)\S.*$`)
	specReleaseRe = regexp.MustCompile(`(?m)^(Release:[ \t]*)\S.*$`)
)

// changelogMarker separates the spec template's static part from the
// generated changelog.
const changelogMarker = "%changelog"

// PrepareRPM rewrites {dir}/{name}.spec in place: the Version and Release
// header values are replaced (whitespace preserved), everything after the
// %changelog marker is dropped, and a fresh changelog block is appended for
// every entry, newest first.
func PrepareRPM(info *project.Info, author, dir string) error {
	path := filepath.Join(dir, info.Name+".spec")
	content, mode, err := readTemplate(path)
	if err != nil {
		return err
	}

	content = specVersionRe.ReplaceAllString(content, "${1}"+info.Version)
	content = specReleaseRe.ReplaceAllString(content, "${1}"+strconv.Itoa(info.Release))

	idx := strings.Index(content, changelogMarker)
	if idx < 0 {
		return output.NewUserError("no " + changelogMarker + " marker in " + path)
	}

	var b strings.Builder
	b.WriteString(content[:idx+len(changelogMarker)])
	b.WriteString("\n")
	for _, change := range info.Changes {
		fmt.Fprintf(&b, "* %s %s - %s\n- %s\n",
			change.Stamp.Time.Format("Mon Jan 02 2006"),
			author,
			change.Version,
			strings.Join(change.Lines, ", "))
	}

	if err := os.WriteFile(path, []byte(b.String()), mode); err != nil {
		return output.NewSystemErrorWithCause("writing "+path, err)
	}
	return nil
}

// readTemplate reads a packaging template, preserving its file mode for the
// rewrite. A missing template is a user error: the project is expected to
// ship one.
func readTemplate(path string) (string, os.FileMode, error) {
	stat, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", 0, output.NewUserError("no packaging template: " + path)
		}
		return "", 0, output.NewSystemErrorWithCause("reading "+path, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", 0, output.NewSystemErrorWithCause("reading "+path, err)
	}
	return string(data), stat.Mode().Perm(), nil
}
