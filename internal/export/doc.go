// Package export renders transcript segments as CSV tables and SRT subtitles.
//
// Both renderers are deterministic: identical segments and options produce
// identical bytes. The only time-dependent field is the Export_Date metadata
// row, which reads Options.Now so callers can freeze the clock.
//
// The SRT helpers also parse and validate subtitle text, which the CLI uses to
// sanity-check files after writing them.
package export
