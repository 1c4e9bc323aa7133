package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/obsmaker/obsmaker/internal/output"
)

const (
	testSHA1 = "1111111111111111111111111111111111111111"
	testSHA2 = "2222222222222222222222222222222222222222"
	testSHA3 = "3333333333333333333333333333333333333333"
)

// writeProject builds a project fixture: .obsmaker, CHANGES, and a fake
// .git directory with one tag (v1.1.0) and a reflog.
func writeProject(t *testing.T, obsVersion string, obsRelease string) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "myproj")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}

	obsmaker := "version: " + obsVersion + "\nrelease: " + obsRelease + "\nwhitelist:\n- src\nblacklist:\n- src/tmp\n"
	if err := os.WriteFile(filepath.Join(dir, ObsFileName), []byte(obsmaker), 0o600); err != nil {
		t.Fatal(err)
	}

	changes := "Version 1.2.0:\n- new feature\n\nVersion 1.1.0:\n- old fix\n"
	if err := os.WriteFile(filepath.Join(dir, ChangelogFileName), []byte(changes), 0o600); err != nil {
		t.Fatal(err)
	}

	tagsDir := filepath.Join(dir, ".git", "refs", "tags")
	if err := os.MkdirAll(tagsDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(tagsDir, "v1.1.0"), []byte(testSHA2+"\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	logsDir := filepath.Join(dir, ".git", "logs")
	if err := os.MkdirAll(logsDir, 0o755); err != nil {
		t.Fatal(err)
	}
	reflog := testSHA1 + " " + testSHA2 + " A U Thor <a@example.com> 1404700000 +0200\tcommit: release v1.1.0\n" +
		testSHA2 + " " + testSHA3 + " A U Thor <a@example.com> 1404811151 +0200\tcommit: work towards 1.2\n"
	if err := os.WriteFile(filepath.Join(logsDir, "HEAD"), []byte(reflog), 0o600); err != nil {
		t.Fatal(err)
	}

	return dir
}

func TestLoad(t *testing.T) {
	dir := writeProject(t, "1.1.0", "2")

	info, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if info.Name != "myproj" {
		t.Errorf("Name = %q, want myproj", info.Name)
	}
	if info.Version != "1.2.0" {
		t.Errorf("Version = %q, want 1.2.0", info.Version)
	}
	if !info.Whitelist["src"] {
		t.Error("Whitelist should contain src")
	}
	if !info.Blacklist["src/tmp"] {
		t.Error("Blacklist should contain src/tmp")
	}

	if len(info.Changes) != 2 {
		t.Fatalf("got %d changes, want 2", len(info.Changes))
	}
	// Newest entry carries the head stamp, the older one its tag stamp.
	if info.Changes[0].Stamp.Time.Unix() != 1404811151 {
		t.Errorf("head stamp = %d, want 1404811151", info.Changes[0].Stamp.Time.Unix())
	}
	if info.Changes[1].Stamp.Time.Unix() != 1404700000 {
		t.Errorf("tag stamp = %d, want 1404700000", info.Changes[1].Stamp.Time.Unix())
	}
}

func TestLoad_ReleaseNumber(t *testing.T) {
	tests := []struct {
		name        string
		obsVersion  string
		obsRelease  string
		wantRelease int
	}{
		{
			name:        "version unchanged increments release",
			obsVersion:  "1.2.0",
			obsRelease:  "3",
			wantRelease: 4,
		},
		{
			name:        "new version resets release",
			obsVersion:  "1.1.0",
			obsRelease:  "3",
			wantRelease: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, err := Load(writeProject(t, tt.obsVersion, tt.obsRelease))
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if info.Release != tt.wantRelease {
				t.Errorf("Release = %d, want %d", info.Release, tt.wantRelease)
			}
		})
	}
}

func TestLoad_UnresolvedTag(t *testing.T) {
	dir := writeProject(t, "1.1.0", "2")
	// Add a changelog entry whose version has no tag anywhere.
	changes := "Version 1.2.0:\n- new feature\n\nVersion 0.5.0:\n- ancient\n"
	if err := os.WriteFile(filepath.Join(dir, ChangelogFileName), []byte(changes), 0o600); err != nil {
		t.Fatal(err)
	}

	_, err := Load(dir)
	if err == nil {
		t.Fatal("Load() should fail when an old version has no tag")
	}
	if output.GetExitCode(err) != output.ExitUserError {
		t.Errorf("exit code = %d, want %d", output.GetExitCode(err), output.ExitUserError)
	}
}
