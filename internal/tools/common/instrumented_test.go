package common

import (
	"context"
	"errors"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The wrapped handlers must satisfy mcp-go's named handler type so they can
// be passed to MCPServer.AddTool directly.
var (
	_ mcpserver.ToolHandlerFunc = Instrumented("t", nil, nil)
	_ mcpserver.ToolHandlerFunc = InstrumentedWithService("t", "svc", "op", nil, nil)
)

func TestInstrumentedRegistersWithServer(t *testing.T) {
	sc := testServerContext(t)
	s := mcpserver.NewMCPServer("test", "0.0.0")

	tool := mcp.NewTool("test_tool", mcp.WithDescription("test"))
	s.AddTool(tool, Instrumented("test_tool", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return mcp.NewToolResultText("ok"), nil
	}))

	require.Len(t, s.ListTools(), 1)
}

func TestInstrumentedPassesThroughWithoutMetrics(t *testing.T) {
	sc := testServerContext(t)

	called := false
	wrapped := Instrumented("test_tool", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		called = true
		return mcp.NewToolResultText("ok"), nil
	})

	result, err := wrapped(context.Background(), mcp.CallToolRequest{})
	require.NoError(t, err)
	assert.True(t, called)
	assert.Equal(t, "ok", resultText(t, result))
}

func TestInstrumentedWithServicePropagatesError(t *testing.T) {
	sc := testServerContext(t)

	wantErr := errors.New("boom")
	wrapped := InstrumentedWithService("test_tool", "gmail", "list", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return nil, wantErr
	})

	result, err := wrapped(context.Background(), mcp.CallToolRequest{})
	assert.Nil(t, result)
	assert.ErrorIs(t, err, wantErr)
}
