// Package logging assembles the slog loggers used by the protoform CLI.
//
// It owns the console and JSON handlers and the level plumbing, and
// exposes a no-op logger for tests and for library code that was given
// no logger.
package logging
