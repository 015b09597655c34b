// Package slogobs implements [observability.Provider] with the standard
// library's log/slog.
//
// The observer is configured with functional options or, when none are
// given, from the QUERCLE_LOG_FORMAT ("text" or "json") and
// QUERCLE_LOG_LEVEL ("trace", "debug", "info", "warn", "error")
// environment variables.
package slogobs
