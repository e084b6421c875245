// Package warehouse opens the key-pair authenticated warehouse connection
// shared by the stage and results backends.
//
// A connection handle is opened once per process by the command that needs it
// and passed explicitly to its consumers; the caller closes it.
package warehouse
