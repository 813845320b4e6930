package calendar_tools

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pubpug/workspace-mcp/internal/google"
	"github.com/pubpug/workspace-mcp/internal/server"
)

func testServerContext(t *testing.T) *server.ServerContext {
	t.Helper()
	cfg := google.Config{TokenPath: filepath.Join(t.TempDir(), "token.json")}
	resolver := google.NewResolver(cfg, google.NewStore(cfg.TokenPath))
	sc := server.NewServerContext(context.Background(), resolver)
	t.Cleanup(func() { _ = sc.Shutdown() })
	return sc
}

func TestRegisterCalendarTools(t *testing.T) {
	for _, readOnly := range []bool{false, true} {
		s := mcpserver.NewMCPServer("test", "0.0.0")
		require.NoError(t, RegisterCalendarTools(s, testServerContext(t), readOnly))
	}
}

func TestParseEventTime(t *testing.T) {
	got, err := parseEventTime("2024-03-01T09:30")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC), got)

	got, err = parseEventTime("2024-03-01T09:30:15")
	require.NoError(t, err)
	assert.Equal(t, 15, got.Second())

	_, err = parseEventTime("March 1st")
	assert.Error(t, err)

	_, err = parseEventTime(nil)
	assert.Error(t, err)

	_, err = parseEventTime("")
	assert.Error(t, err)
}
