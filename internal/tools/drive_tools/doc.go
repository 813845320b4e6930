// Package drive_tools provides MCP tools for Google Drive: folder listing
// and file search.
package drive_tools
