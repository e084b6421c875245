// Package stage abstracts the remote location media files are uploaded to.
//
// A Stage lists the objects it holds and accepts new files without ever
// overwriting an existing object of the same base name. Three backends are
// provided: a warehouse internal stage driven by LIST/PUT statements, an
// S3-compatible bucket, and a plain directory.
package stage
