// Package config loads, normalizes, and validates vttscribe configuration.
//
// Configuration lives in a TOML file resolved from an explicit path, then
// ~/.config/vttscribe/config.toml, then ./vttscribe.toml. Missing files fall
// back to Default(). Environment variables fill secrets and a few overrides,
// and command-line flags are applied on top by the CLI.
package config
