// Package instrumentation wires OpenTelemetry metrics and tracing for the
// server: credential resolutions, token refreshes, authorization portal
// traffic, MCP tool invocations, and Google API operations.
//
// Metrics are exported through Prometheus by default (scraped from the
// dedicated metrics server), with OTLP and stdout exporters available for
// collector-based setups. Tracing is off unless an exporter is configured.
package instrumentation
