// Package cli holds the pieces shared by shellkit's commands: output
// rendering in table, JSON and YAML form, status messages, interactive
// prompts, and the mapping from error categories to process exit codes.
//
// # Output Formats
//
// Every listing command renders through a Printer:
//   - table: kubectl-style plain columns, the default
//   - json: indented JSON of the underlying data
//   - yaml: YAML of the underlying data
//
// Table output truncates long values; JSON and YAML never do.
//
// # Prompts
//
// Prompter asks for confirmations and hidden input. On a terminal it uses
// readline, so the value is not echoed. When stdin is piped it reads one
// line per question, which keeps the commands scriptable.
package cli
