// Package cmd implements the command-line interface for mcp-gsuite.
//
// This package provides the following commands:
//   - serve: Start the MCP server exposing Gmail and Calendar tools
//   - auth: Run the OAuth2 authorization flow for an account
//   - update-docs: Download development reference documents from a docs.json manifest
//   - generate-docs: Generate markdown documentation for all MCP tools
//   - version: Display version information
//
// The serve command is the default command when no subcommand is specified.
package cmd
