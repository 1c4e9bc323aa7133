// Package main provides the entry point for the obsmaker CLI.
package main

import (
	"maps"
	"slices"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/obsmaker/obsmaker/internal/output"
	"github.com/obsmaker/obsmaker/internal/project"
)

// newInfoCmd creates the info command.
func newInfoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info [project-dir]",
		Short: "Show a project's release state",
		Long: `Show the release view of a project without staging anything.

Displays the current version, the release number the next release would get,
the clone filters, and the dated changelog entries.

Examples:
  obsmaker info             # Inspect the project in the working directory
  obsmaker info --json      # Structured output for scripting`,
		Args: cobra.MaximumNArgs(1),
		RunE: runInfo,
	}
	return cmd
}

// runInfo executes the info command.
func runInfo(cmd *cobra.Command, args []string) error {
	printer := output.NewPrinter(cmd.OutOrStdout(), isJSONMode(cmd), output.IsTTY(cmd.OutOrStdout())).
		WithStderr(cmd.ErrOrStderr())

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

	if printer.IsJSON() {
		changes := make([]map[string]any, len(info.Changes))
		for i, change := range info.Changes {
			changes[i] = map[string]any{
				"version": change.Version,
				"date":    change.Stamp.Time.Format("2006-01-02"),
				"lines":   change.Lines,
			}
		}
		return printer.Success(map[string]any{
			"project":   info.Name,
			"path":      info.Path,
			"version":   info.Version,
			"release":   info.Release,
			"whitelist": slices.Sorted(maps.Keys(info.Whitelist)),
			"blacklist": slices.Sorted(maps.Keys(info.Blacklist)),
			"changes":   changes,
		})
	}

	printer.Section("Project")
	printer.KeyValue("Name", info.Name)
	printer.KeyValue("Path", info.Path)
	printer.KeyValue("Version", info.Version)
	printer.KeyValue("Next release", strconv.Itoa(info.Release))

	printer.Section("Changelog")
	rows := make([][]string, len(info.Changes))
	for i, change := range info.Changes {
		rows[i] = []string{
			change.Version,
			change.Stamp.Time.Format("2006-01-02"),
			strconv.Itoa(len(change.Lines)),
		}
	}
	printer.Table([]string{"VERSION", "DATE", "CHANGES"}, rows)
	return nil
}
