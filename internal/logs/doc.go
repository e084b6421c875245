// Package logs reads the configured log file for "avdash logs".
//
// Tail returns the last N lines, or the lines after a saved offset, and can
// wait for new output in follow mode. A Match predicate narrows the result,
// which RunFilter uses to isolate the lines of one uploader or dashboard run.
package logs
