// Package gmail wraps the Gmail API for the operations the MCP tools expose:
// searching and reading messages, creating and deleting drafts, threaded
// replies, and attachment retrieval.
package gmail
