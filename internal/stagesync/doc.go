// Package stagesync uploads local media files that a remote stage does not
// already hold.
//
// A run scans a local directory for allow-listed media extensions, lists the
// stage, plans the difference by base filename, and transfers each missing
// file sequentially. Every transfer ends as uploaded, skipped (the stage
// already had it), or failed; failures are reported and never retried. A stage
// listing failure degrades to treating the stage as empty, since puts never
// overwrite.
package stagesync
