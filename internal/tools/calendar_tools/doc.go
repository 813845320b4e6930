// Package calendar_tools provides MCP tools for Google Calendar: listing
// and creating events on the primary calendar.
package calendar_tools
