// Package transcript models speaker-attributed transcript segments and the
// file records they belong to.
//
// Segments are immutable values. Defaults (speaker "Unknown", zero times,
// duration derived from the time range) are applied once when a segment is
// constructed or decoded, so downstream code never re-derives them.
//
// The package also owns the pure transforms the dashboard builds on:
// Normalize merges consecutive same-speaker segments, FindMatches locates
// case-insensitive term hits, and ExtractContext returns the union of context
// windows around every hit, tagged with match and group information.
package transcript
