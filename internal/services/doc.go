// Package services defines shared utilities consumed by the uploader, the
// dashboard views, and the warehouse integrations.
//
// Key responsibilities:
//   - Context helpers that stamp run identifiers and operation stages for
//     logging.
//   - Structured error markers plus the Wrap helper that let callers decide
//     between aborting (configuration), degrading (connectivity, query, parse),
//     and isolating (per-file transfer) failures.
//
// Use these helpers when wiring new collaborators so failure handling stays
// uniform across both binaries.
package services
