// Package gmail_tools registers the Gmail MCP tools: querying and reading
// emails, drafts, replies, and attachments.
package gmail_tools
