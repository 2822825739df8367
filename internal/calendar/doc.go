// Package calendar wraps the Google Calendar API for the operations the MCP
// tools expose: listing calendars, querying events, and creating or deleting
// events.
package calendar
