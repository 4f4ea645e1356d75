// Package output formats localization reports for display or machine
// consumption.
//
// Four formats are supported:
//   - text: human-readable terminal output (default)
//   - json: the full structured report
//   - markdown: a Danger-like warnings table with collapsible entry lists
//   - sarif: SARIF v2.1.0 for code scanning upload
//
// Use [GetWriter] to obtain a [Writer] for a format name, or [WriteReport]
// to write straight to a file or stdout.
package output
