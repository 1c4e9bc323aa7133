package release

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/obsmaker/obsmaker/internal/output"
	"github.com/obsmaker/obsmaker/internal/project"
)

// RunFunc executes an external command and returns its trimmed stdout.
type RunFunc func(ctx context.Context, name string, args ...string) (string, error)

// Archiver compresses a staged release directory with tar.
// The runner is injectable for tests.
type Archiver struct {
	run RunFunc
}

// NewArchiver creates an Archiver. If run is nil, the external tar command
// is invoked.
func NewArchiver(run RunFunc) *Archiver {
	if run == nil {
		run = runCommand
	}
	return &Archiver{run: run}
}

// Archive produces {releasesDir}/{name}.tar.gz from the release directory,
// with the directory's basename as the archive's top-level entry. The tar
// exit status is checked; a failure is a system error.
func (a *Archiver) Archive(ctx context.Context, info *project.Info, releaseDir string) (string, error) {
	parent := filepath.Dir(releaseDir)
	archive := filepath.Join(parent, info.Name+".tar.gz")

	_, err := a.run(ctx, "tar", "-czf", archive, "-C", parent, filepath.Base(releaseDir))
	if err != nil {
		return "", err
	}

	return archive, nil
}

// runCommand executes an external command, capturing stdout and stderr.
// Returns an *output.ExitError on failure with the stderr text folded in.
func runCommand(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		var execErr *exec.Error
		if errors.As(err, &execErr) {
			return "", output.NewSystemError(name + " not found: ensure it is installed and in PATH")
		}

		errMsg := strings.TrimSpace(stderr.String())
		if errMsg == "" {
			errMsg = err.Error()
		}
		return "", output.NewSystemErrorWithCause(name+" failed: "+errMsg, err)
	}

	return strings.TrimSpace(stdout.String()), nil
}
