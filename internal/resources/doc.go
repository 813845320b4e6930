// Package resources provides MCP resources for exposing authorization state
// and user data. Resources are read-only data sources that MCP clients can
// fetch, such as the credential status and the authenticated account's
// profile.
package resources
