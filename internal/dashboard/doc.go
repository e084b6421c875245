// Package dashboard builds the read-only views shown by avdash.
//
// A Service turns results-store queries into view models. Failures at the
// query boundary never abort a view: the view comes back empty with a Notice
// describing what went wrong, mirroring how the interactive dashboard kept
// rendering its other panels. Input validation errors (blank search terms,
// unsupported limits, unknown sort columns) are still returned to the caller.
package dashboard
