// Package config loads rawconv settings from an optional TOML file and
// validates them. Command-line flags are applied on top by the caller before
// Validate is called.
package config
