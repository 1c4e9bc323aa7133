// Package main provides the entry point for the obsmaker CLI.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/obsmaker/obsmaker/internal/config"
	"github.com/obsmaker/obsmaker/internal/output"
)

// Build info set via ldflags at build time.
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123 -X main.date=2024-01-01"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// isJSONMode reads the --json persistent flag from the command hierarchy.
func isJSONMode(cmd *cobra.Command) bool {
	flag := cmd.Flags().Lookup("json")
	if flag == nil {
		// Walk up to root to find the persistent flag
		flag = cmd.Root().PersistentFlags().Lookup("json")
	}
	return flag != nil && flag.Value.String() == "true"
}

// buildVersion returns the full version string including commit and date.
func buildVersion() string {
	if commit == "none" && date == "unknown" {
		return version
	}
	shortCommit := commit
	if len(commit) > 7 {
		shortCommit = commit[:7]
	}
	return fmt.Sprintf("%s (%s, %s)", version, shortCommit, date)
}

func main() {
	code := run()
	os.Exit(code)
}

func run() int {
	cmd := newRootCmd()
	err := fang.Execute(context.Background(), cmd, fang.WithVersion(buildVersion()))
	return output.GetExitCode(err)
}

// newRootCmd creates the root command for the obsmaker CLI.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "obsmaker",
		Short: "Package a project release for RPM/DEB targets",
		Long: `Obsmaker packages a versioned project into a release tarball and rewrites
its RPM (.spec) and DEB (.dsc, debian.changelog) packaging metadata.

A project provides three inputs:
  - .obsmaker   version/release bookkeeping plus whitelist/blacklist path filters
  - CHANGES     changelog with "Version X.Y.Z:" headers and "-" change lines
  - .git        tag refs and the HEAD reflog, used to date changelog entries

All commands support --json for structured output.`,
		Version:       buildVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// If --json flag is set but no subcommand, output JSON error
			if isJSONMode(cmd) {
				printer := output.NewPrinter(cmd.OutOrStdout(), true, false)
				err := output.NewUserError("no command specified. Run 'obsmaker --help' for usage")
				printer.Error(err)
				return err
			}
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().Bool("json", false, "Output in JSON format")
	cmd.PersistentFlags().String("releases-dir", "", "Directory where releases are staged (overrides config)")
	cmd.PersistentFlags().String("author", "", "Packager identity for generated changelogs (overrides config)")

	cmd.AddCommand(newReleaseCmd())
	cmd.AddCommand(newInfoCmd())

	return cmd
}

// resolveSettings loads the global packager config and applies any
// flag overrides.
func resolveSettings(cmd *cobra.Command) (*config.Settings, error) {
	settings, err := config.Load()
	if err != nil {
		return nil, err
	}
	if dir, _ := cmd.Flags().GetString("releases-dir"); dir != "" {
		settings.ReleasesDir = dir
	}
	if author, _ := cmd.Flags().GetString("author"); author != "" {
		settings.Author = author
	}
	return settings, nil
}

// projectDir returns the project directory from args, defaulting to the
// working directory.
func projectDir(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	dir, err := os.Getwd()
	if err != nil {
		return "", output.NewSystemErrorWithCause("getting working directory", err)
	}
	return dir, nil
}
