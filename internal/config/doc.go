// Package config loads, normalizes, and validates protoform configuration.
//
// It supplies defaults, expands user paths (including tilde shortcuts),
// reads TOML files and checks every value once, so the CLI receives a
// ready-to-use segment database location, cognate source, engine
// settings and logging options.
package config
