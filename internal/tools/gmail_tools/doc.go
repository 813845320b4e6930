// Package gmail_tools provides MCP tools for Gmail: account info, labels,
// filters, sending email, and bulk message operations.
package gmail_tools
