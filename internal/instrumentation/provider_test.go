package instrumentation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProviderDisabled(t *testing.T) {
	p, err := NewProvider(context.Background(), Config{Enabled: false})
	require.NoError(t, err)
	assert.False(t, p.Enabled())
	require.NotNil(t, p.Metrics())

	// A disabled provider's recorder must be a safe no-op.
	p.Metrics().RecordTokenRefresh(context.Background(), StatusSuccess)
	p.Metrics().RecordPortalRequest(context.Background(), "/login", 302, 5*time.Millisecond)
	p.Metrics().RecordToolInvocation(context.Background(), "send_email", StatusError, time.Second)

	assert.NoError(t, p.Shutdown(context.Background()))
}

func TestNewProviderStdoutMetrics(t *testing.T) {
	cfg := Config{
		ServiceName:     "workspace-mcp-test",
		ServiceVersion:  "test",
		Enabled:         true,
		MetricsExporter: ExporterStdout,
		TracingExporter: ExporterNone,
	}
	p, err := NewProvider(context.Background(), cfg)
	require.NoError(t, err)
	assert.True(t, p.Enabled())

	p.Metrics().RecordCredentialResolution(context.Background(), "file", StatusSuccess)
	p.Metrics().RecordFlowExchange(context.Background(), StatusSuccess)
	p.Metrics().RecordGoogleAPIOperation(context.Background(), "sheets", "append", StatusSuccess, 120*time.Millisecond)

	assert.NoError(t, p.Shutdown(context.Background()))
}

func TestNewProviderRejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{
			name: "bad sampling rate",
			cfg:  Config{Enabled: true, MetricsExporter: ExporterStdout, TraceSamplingRate: 1.5},
		},
		{
			name: "otlp metrics without endpoint",
			cfg:  Config{Enabled: true, MetricsExporter: ExporterOTLP},
		},
		{
			name: "unknown metrics exporter",
			cfg:  Config{Enabled: true, MetricsExporter: "statsd"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewProvider(context.Background(), tt.cfg)
			assert.Error(t, err)
		})
	}
}

func TestTracerNoop(t *testing.T) {
	p, err := NewProvider(context.Background(), Config{Enabled: false})
	require.NoError(t, err)
	tracer := p.Tracer("test")
	_, span := tracer.Start(context.Background(), "op")
	span.End()
}
