// Package termui holds the terminal rendering helpers shared by the
// avupload and avdash commands: rounded tables, colored status lines, and
// TTY detection.
package termui
