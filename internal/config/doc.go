// Package config loads and merges locguard configuration from multiple
// sources.
//
// Precedence (highest to lowest):
//  1. CLI flags
//  2. Environment variables (LOCGUARD_FORMAT, LOCGUARD_FAIL_ON, LOCGUARD_SCOPE, etc.),
//     including those read from a .env file in the working directory
//  3. Config file ($XDG_CONFIG_HOME/locguard/config.json)
//  4. Built-in defaults
//
// Use [Load] to obtain a merged [Config], [Save] to write the config file,
// and [SetField] to update a single key.
package config
