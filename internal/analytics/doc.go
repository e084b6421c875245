// Package analytics derives the dashboard's chart series from loaded result
// records. Every function is pure over its input slice; series are returned
// in a deterministic order so they render and test stably.
package analytics
