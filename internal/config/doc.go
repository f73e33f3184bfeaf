// Package config loads frame-render settings.
//
// Values are layered: built-in defaults, then an optional TOML file
// (~/.config/frame-render/config.toml or ./frame-render.toml), then command
// line flags applied by the caller. Load returns a normalized, validated Config.
package config
