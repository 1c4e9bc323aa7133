// Package release stages a project release: cloning the filtered project
// tree into the releases directory and compressing it with tar.
package release

import (
	"io"
	"os"
	"path/filepath"

	"github.com/obsmaker/obsmaker/internal/output"
	"github.com/obsmaker/obsmaker/internal/project"
)

// Clone copies the project tree into {releasesDir}/{name}-{version} and
// returns that path. At the project root only whitelisted entries are
// copied; below the root, entries whose project-relative path is
// blacklisted are skipped along with their subtrees.
//
// An existing release directory is a conflict unless force is set, in which
// case it is removed first.
func Clone(info *project.Info, releasesDir string, force bool) (string, error) {
	dest := filepath.Join(releasesDir, info.Name+"-"+info.Version)

	if force {
		if err := os.RemoveAll(dest); err != nil {
			return "", output.NewSystemErrorWithCause("removing previous release directory "+dest, err)
		}
	}
	if _, err := os.Stat(dest); err == nil {
		return "", output.NewConflictError("release directory already exists: " + dest + " (use --force to replace it)")
	}

	if err := os.MkdirAll(dest, 0o755); err != nil {
		return "", output.NewSystemErrorWithCause("creating release directory "+dest, err)
	}

	entries, err := os.ReadDir(info.Path)
	if err != nil {
		return "", output.NewSystemErrorWithCause("reading project directory "+info.Path, err)
	}
	for _, entry := range entries {
		if !info.Whitelist[entry.Name()] {
			continue
		}
		src := filepath.Join(info.Path, entry.Name())
		dst := filepath.Join(dest, entry.Name())
		if err := copyTree(src, dst, entry.Name(), info.Blacklist); err != nil {
			return "", err
		}
	}

	return dest, nil
}

// copyTree recursively copies src to dst, pruning any entry whose
// project-relative path (rel, slash separated) is blacklisted.
func copyTree(src, dst, rel string, blacklist map[string]bool) error {
	stat, err := os.Lstat(src)
	if err != nil {
		return output.NewSystemErrorWithCause("reading "+src, err)
	}

	switch {
	case stat.Mode()&os.ModeSymlink != 0:
		return copySymlink(src, dst)
	case stat.IsDir():
		if err := os.MkdirAll(dst, stat.Mode().Perm()); err != nil {
			return output.NewSystemErrorWithCause("creating "+dst, err)
		}
		entries, err := os.ReadDir(src)
		if err != nil {
			return output.NewSystemErrorWithCause("reading "+src, err)
		}
		for _, entry := range entries {
			childRel := rel + "/" + entry.Name()
			if blacklist[childRel] {
				continue
			}
			if err := copyTree(filepath.Join(src, entry.Name()), filepath.Join(dst, entry.Name()), childRel, blacklist); err != nil {
				return err
			}
		}
		return nil
	default:
		return copyFile(src, dst, stat.Mode().Perm())
	}
}

// copyFile copies a regular file preserving its permission bits.
func copyFile(src, dst string, perm os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return output.NewSystemErrorWithCause("opening "+src, err)
	}
	defer in.Close() //nolint:errcheck // read-only file

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return output.NewSystemErrorWithCause("creating "+dst, err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close() //nolint:errcheck,gosec // error path
		return output.NewSystemErrorWithCause("copying "+src, err)
	}
	if err := out.Close(); err != nil {
		return output.NewSystemErrorWithCause("closing "+dst, err)
	}
	return nil
}

// copySymlink recreates a symlink at dst with src's target.
func copySymlink(src, dst string) error {
	target, err := os.Readlink(src)
	if err != nil {
		return output.NewSystemErrorWithCause("reading symlink "+src, err)
	}
	if err := os.Symlink(target, dst); err != nil {
		return output.NewSystemErrorWithCause("creating symlink "+dst, err)
	}
	return nil
}
