// Package logging provides structured logging helpers built on log/slog.
//
// It defines the canonical attribute keys used across the codebase and
// utilities for logging user identifiers without exposing PII.
package logging
