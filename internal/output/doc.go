// Package output provides structured output and error handling for the
// obsmaker CLI.
//
// Every command writes through a Printer, which renders either
// human-readable text (styled with lipgloss when the output is a TTY) or
// JSON when the --json flag is set. Errors carry typed exit codes via
// ExitError so that every failure kind maps to a distinct process exit
// status:
//
//	0  success
//	1  user error (bad arguments, malformed project files, unresolved tags)
//	2  system error (I/O failure, tar invocation failure)
//	3  conflict (release directory already exists)
package output
