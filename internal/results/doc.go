// Package results reads and writes the transcription results table.
//
// Store issues parameterized statements only; the table name is the single
// interpolated value and is validated as a plain identifier before use. The
// same statements run against the warehouse and against a local SQLite file,
// which backs offline use, imports, and tests.
package results
