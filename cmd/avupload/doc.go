// Command avupload pushes local audio and video files to the transcription
// stage, skipping files the stage already holds.
//
//	avupload [-d DIR] [-c CONFIG] [--no-progress]
//
// Only configuration problems (missing key file, placeholder account, bad
// identifiers) and an unreachable warehouse end the run with exit status 1.
// Per-file transfer failures are reported in the summary and do not change
// the exit status.
package main
