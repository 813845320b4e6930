package instrumentation

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric attribute keys.
const (
	attrRoute     = "route"
	attrStatus    = "status"
	attrSource    = "source"
	attrService   = "service"
	attrOperation = "operation"
	attrTool      = "tool"
)

// Status values recorded on metrics.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Metrics records observability metrics for the credential lifecycle, the
// authorization portal, and the tool surface. All methods are safe on a
// partially initialized receiver; uninitialized instruments are skipped.
type Metrics struct {
	// Authorization portal
	portalRequestsTotal   metric.Int64Counter
	portalRequestDuration metric.Float64Histogram

	// Credential lifecycle
	credentialResolutionsTotal metric.Int64Counter
	tokenRefreshTotal          metric.Int64Counter
	flowExchangesTotal         metric.Int64Counter

	// MCP tool surface
	toolInvocationsTotal metric.Int64Counter
	toolDuration         metric.Float64Histogram

	// Google API calls
	googleAPIOperationsTotal   metric.Int64Counter
	googleAPIOperationDuration metric.Float64Histogram
}

// NewMetrics creates a Metrics instance with all instruments registered on
// the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}
	var err error

	m.portalRequestsTotal, err = meter.Int64Counter(
		"portal_requests_total",
		metric.WithDescription("Total number of authorization portal requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating portal_requests_total: %w", err)
	}

	m.portalRequestDuration, err = meter.Float64Histogram(
		"portal_request_duration_seconds",
		metric.WithDescription("Authorization portal request duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.001, 0.01, 0.1, 0.5, 1.0, 2.5, 5.0, 10.0),
	)
	if err != nil {
		return nil, fmt.Errorf("creating portal_request_duration_seconds: %w", err)
	}

	m.credentialResolutionsTotal, err = meter.Int64Counter(
		"credential_resolutions_total",
		metric.WithDescription("Total number of credential resolution attempts by source"),
		metric.WithUnit("{attempt}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating credential_resolutions_total: %w", err)
	}

	m.tokenRefreshTotal, err = meter.Int64Counter(
		"token_refresh_total",
		metric.WithDescription("Total number of OAuth token refresh attempts"),
		metric.WithUnit("{attempt}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating token_refresh_total: %w", err)
	}

	m.flowExchangesTotal, err = meter.Int64Counter(
		"flow_exchanges_total",
		metric.WithDescription("Total number of authorization-code exchanges"),
		metric.WithUnit("{exchange}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating flow_exchanges_total: %w", err)
	}

	m.toolInvocationsTotal, err = meter.Int64Counter(
		"mcp_tool_invocations_total",
		metric.WithDescription("Total number of MCP tool invocations"),
		metric.WithUnit("{invocation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating mcp_tool_invocations_total: %w", err)
	}

	m.toolDuration, err = meter.Float64Histogram(
		"mcp_tool_duration_seconds",
		metric.WithDescription("MCP tool execution duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0),
	)
	if err != nil {
		return nil, fmt.Errorf("creating mcp_tool_duration_seconds: %w", err)
	}

	m.googleAPIOperationsTotal, err = meter.Int64Counter(
		"google_api_operations_total",
		metric.WithDescription("Total number of Google API operations"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating google_api_operations_total: %w", err)
	}

	m.googleAPIOperationDuration, err = meter.Float64Histogram(
		"google_api_operation_duration_seconds",
		metric.WithDescription("Google API operation duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0),
	)
	if err != nil {
		return nil, fmt.Errorf("creating google_api_operation_duration_seconds: %w", err)
	}

	return m, nil
}

// RecordPortalRequest records an authorization portal request.
func (m *Metrics) RecordPortalRequest(ctx context.Context, route string, statusCode int, duration time.Duration) {
	if m.portalRequestsTotal == nil || m.portalRequestDuration == nil {
		return
	}
	attrs := []attribute.KeyValue{
		attribute.String(attrRoute, route),
		attribute.String(attrStatus, strconv.Itoa(statusCode)),
	}
	m.portalRequestsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.portalRequestDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordCredentialResolution records a credential resolution attempt.
// Source is the winning source (env, file, refresh) or "none".
func (m *Metrics) RecordCredentialResolution(ctx context.Context, source, status string) {
	if m.credentialResolutionsTotal == nil {
		return
	}
	m.credentialResolutionsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String(attrSource, source),
		attribute.String(attrStatus, status),
	))
}

// RecordTokenRefresh records a token refresh attempt.
func (m *Metrics) RecordTokenRefresh(ctx context.Context, status string) {
	if m.tokenRefreshTotal == nil {
		return
	}
	m.tokenRefreshTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String(attrStatus, status),
	))
}

// RecordFlowExchange records an authorization-code exchange attempt.
func (m *Metrics) RecordFlowExchange(ctx context.Context, status string) {
	if m.flowExchangesTotal == nil {
		return
	}
	m.flowExchangesTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String(attrStatus, status),
	))
}

// RecordToolInvocation records an MCP tool invocation.
func (m *Metrics) RecordToolInvocation(ctx context.Context, tool, status string, duration time.Duration) {
	if m.toolInvocationsTotal == nil || m.toolDuration == nil {
		return
	}
	attrs := []attribute.KeyValue{
		attribute.String(attrTool, tool),
		attribute.String(attrStatus, status),
	}
	m.toolInvocationsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.toolDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordGoogleAPIOperation records a Google API operation.
// Service is the API name (gmail, calendar, drive, docs, sheets, slides) and
// operation the verb (list, get, create, send, export, ...).
func (m *Metrics) RecordGoogleAPIOperation(ctx context.Context, service, operation, status string, duration time.Duration) {
	if m.googleAPIOperationsTotal == nil || m.googleAPIOperationDuration == nil {
		return
	}
	attrs := []attribute.KeyValue{
		attribute.String(attrService, service),
		attribute.String(attrOperation, operation),
		attribute.String(attrStatus, status),
	}
	m.googleAPIOperationsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.googleAPIOperationDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}
