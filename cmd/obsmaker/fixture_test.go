package main

import (
	"os"
	"path/filepath"
	"testing"
)

const (
	fixtureSHA1 = "1111111111111111111111111111111111111111"
	fixtureSHA2 = "2222222222222222222222222222222222222222"
	fixtureSHA3 = "3333333333333333333333333333333333333333"
)

const fixtureSpec = `Name:       myproj
Version:    1.1.0
Release:    1
Summary:    Example

%changelog
`

const fixtureDsc = `Format: 1.0
Source: myproj
Version: 1.1.0-1
Files:
 00000000000000000000000000000000 1 myproj.tar.gz
`

const fixtureObsmaker = `version: 1.1.0
release: 2
whitelist:
- src
- docs
blacklist:
- src/tmp
`

const fixtureChanges = `Version 1.2.0:
- new feature

Version 1.1.0:
- old fix
`

// writeFixtureProject builds a complete project fixture: source tree,
// .obsmaker, CHANGES, fake .git metadata, and extra/obs packaging templates.
func writeFixtureProject(t *testing.T) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "myproj")

	reflog := fixtureSHA1 + " " + fixtureSHA2 + " A U Thor <a@example.com> 1404700000 +0200\tcommit: release v1.1.0\n" +
		fixtureSHA2 + " " + fixtureSHA3 + " A U Thor <a@example.com> 1404811151 +0200\tcommit: towards 1.2\n"

	files := map[string]string{
		"src/main.c":            "int main() { return 0; }\n",
		"src/tmp/scratch":       "scratch\n",
		"docs/README":           "readme\n",
		"build/out.o":           "binary\n",
		"extra/obs/myproj.spec": fixtureSpec,
		"extra/obs/myproj.dsc":  fixtureDsc,
		".obsmaker":             fixtureObsmaker,
		"CHANGES":               fixtureChanges,
		".git/refs/tags/v1.1.0": fixtureSHA2 + "\n",
		".git/logs/HEAD":        reflog,
	}

	for rel, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}
	}

	return dir
}
