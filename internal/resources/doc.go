// Package resources provides MCP resources exposing account data: the
// registry of configured accounts and per-account Gmail profile summaries.
// Resources are read-only; clients fetch them by URI.
package resources
