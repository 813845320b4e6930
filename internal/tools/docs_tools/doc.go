// Package docs_tools provides MCP tools for Google Docs: creating, reading,
// appending to, searching, and exporting documents.
package docs_tools
