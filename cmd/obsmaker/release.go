// Package main provides the entry point for the obsmaker CLI.
package main

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/obsmaker/obsmaker/internal/output"
	"github.com/obsmaker/obsmaker/internal/pack"
	"github.com/obsmaker/obsmaker/internal/project"
	"github.com/obsmaker/obsmaker/internal/release"
)

// obsSubdir is where packaging templates live inside a project.
var obsSubdir = filepath.Join("extra", "obs")

// newReleaseCmd creates the release command.
func newReleaseCmd() *cobra.Command {
	var forceFlag bool
	cmd := &cobra.Command{
		Use:   "release [project-dir]",
		Short: "Stage, archive, and package a project release",
		Long: `Stage a project release and rewrite its packaging metadata.

The project tree is cloned into the releases directory (whitelist applied at
the root, blacklist below it), compressed into {name}.tar.gz, and the RPM and
DEB templates under extra/obs are rewritten with the new version, release
number, checksum, and changelog.

A release directory that already exists aborts the run unless --force is
given, in which case it is replaced.

Examples:
  obsmaker release             # Release the project in the working directory
  obsmaker release ~/myproj    # Release a specific project
  obsmaker release -f          # Replace an existing staged release`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRelease(cmd, args, forceFlag)
		},
	}
	cmd.Flags().BoolVarP(&forceFlag, "force", "f", false, "Replace an existing release directory")
	return cmd
}

// runRelease executes the release command.
func runRelease(cmd *cobra.Command, args []string, force bool) error {
	printer := output.NewPrinter(cmd.OutOrStdout(), isJSONMode(cmd), output.IsTTY(cmd.OutOrStdout())).
		WithStderr(cmd.ErrOrStderr())

	settings, err := resolveSettings(cmd)
	if err != nil {
		printer.Error(err)
		return err
	}

	dir, err := projectDir(args)
	if err != nil {
		printer.Error(err)
		return err
	}

	info, err := project.Load(dir)
	if err != nil {
		printer.Error(err)
		return err
	}

	releaseDir, err := release.Clone(info, settings.ReleasesDir, force)
	if err != nil {
		printer.Error(err)
		return err
	}

	archive, err := release.NewArchiver(nil).Archive(cmd.Context(), info, releaseDir)
	if err != nil {
		printer.Error(err)
		return err
	}

	checksum, packaged, err := preparePackaging(printer, info, settings.Author, archive)
	if err != nil {
		printer.Error(err)
		return err
	}

	if printer.IsJSON() {
		return printer.Success(map[string]any{
			"project":           info.Name,
			"version":           info.Version,
			"release":           info.Release,
			"release_dir":       releaseDir,
			"archive":           archive,
			"checksum":          checksum,
			"packaging_updated": packaged,
		})
	}

	printer.Section("Release")
	printer.KeyValue("Project", info.Name)
	printer.KeyValue("Version", info.Version)
	printer.KeyValue("Release", strconv.Itoa(info.Release))
	printer.KeyValue("Staged", releaseDir)
	printer.KeyValue("Archive", archive)
	if checksum != "" {
		printer.KeyValue("MD5", checksum)
	}
	return nil
}

// preparePackaging rewrites the RPM and DEB templates when the project has
// an extra/obs directory. Returns the archive checksum and whether any
// templates were updated.
func preparePackaging(printer *output.Printer, info *project.Info, author, archive string) (string, bool, error) {
	obsDir := filepath.Join(info.Path, obsSubdir)
	stat, err := os.Stat(obsDir)
	switch {
	case err != nil && os.IsNotExist(err):
		printer.Warn("no packaging templates under %s; skipping RPM/DEB preparation", obsDir)
		return "", false, nil
	case err != nil:
		return "", false, output.NewSystemErrorWithCause("reading "+obsDir, err)
	case !stat.IsDir():
		printer.Warn("%s is not a directory; skipping RPM/DEB preparation", obsDir)
		return "", false, nil
	}

	if err := pack.PrepareRPM(info, author, obsDir); err != nil {
		return "", false, err
	}
	checksum, err := pack.PrepareDEB(info, author, obsDir, archive)
	if err != nil {
		return "", false, err
	}
	return checksum, true, nil
}
