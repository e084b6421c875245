// Package notifications publishes upload run outcomes to ntfy.
//
// NewService returns a no-op implementation when no topic is configured, so
// callers can notify unconditionally. Delivery failures are returned to the
// caller, which logs them; they never change an upload's outcome.
package notifications
