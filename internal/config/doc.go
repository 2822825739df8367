// Package config loads the local configuration files that drive the
// mcp-gsuite server: the account registry (.accounts.json) that declares
// which Google accounts tools may act on, and the file layout for the
// OAuth client definition and per-account token storage.
package config
