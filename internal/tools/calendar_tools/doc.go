// Package calendar_tools provides MCP tools for Google Calendar: listing
// calendars, querying events, creating events, and deleting events on
// behalf of a configured account.
package calendar_tools
