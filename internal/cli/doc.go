// Package cli wires together the Cobra command tree for the locguard binary.
//
// It defines the root command and all subcommands (check, github, config,
// hook, version), binds flags, reads configuration, invokes the reporter,
// and returns deterministic exit codes for CI gating.
package cli
