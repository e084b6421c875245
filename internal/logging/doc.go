// Package logging assembles structured slog loggers for the avtranscribe
// commands.
//
// It owns the console and JSON handlers, level parsing, and output routing,
// and exposes context-aware helpers so uploader and dashboard code can tag log
// lines with run identifiers and stage names without threading them through
// every call. A no-op logger is provided for tests and wiring code.
//
// Command output meant for the user goes to stdout; logs default to stderr so
// both can be redirected independently.
package logging
