// Package server provides the MCP server context and the dedicated metrics
// server for the workspace-mcp application.
//
// ServerContext manages Google API service clients with lazy initialization
// and caching. Every client authenticates through the credential resolver's
// token source, so a client built before the user has authorized starts
// working as soon as the authorization portal persists a credential.
//
// MetricsServer serves Prometheus metrics on a dedicated port, isolating
// operational metrics from the MCP transport.
package server
