// Package preflight provides readiness checks for the filesystem paths and
// credentials avtranscribe depends on.
//
// The "avdash config validate" command runs RunAll after the configuration
// has loaded and prints each result. Checks are informational: a missing
// source directory is reported, not fatal, matching the uploader.
//
// Each check is gated by the configured backends; unused paths are skipped.
package preflight
