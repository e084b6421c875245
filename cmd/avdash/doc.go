// Command avdash is the terminal dashboard over the transcription results
// table: overview metrics, transcript search with speaker context, speaker
// segment browsing, analytics, and CSV/SRT export.
//
// Every view accepts --json for machine-readable output. Query failures are
// shown as inline notices and the command still exits 0; configuration and
// connection problems exit 1.
//
// The results, config and logs subcommands manage the local side: importing
// result rows into SQLite, writing and checking the config file, sending a
// test ntfy notification, and tailing the log file for a single run.
package main
