// Package config loads termstorm settings from a TOML file with
// environment variable overrides.
//
// Precedence, lowest to highest: built-in defaults, the config file
// (~/.config/termstorm/config.toml by default), then TERMSTORM_*
// environment variables. A missing config file is not an error.
//
// Theme colors are written as hex strings and resolved to concrete
// colors with Resolve; bad values fail loading rather than rendering.
package config
