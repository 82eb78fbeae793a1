// Package config loads, normalizes, and validates clipforge configuration.
//
// Configuration is TOML, searched at ~/.config/clipforge/config.toml and then
// ./clipforge.toml. Defaults cover every field so the daemon can start with no
// file at all. Path fields are expanded (~ and relative paths) before
// validation so consumers always see absolute paths.
package config
