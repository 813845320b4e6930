package sheets_tools

import (
	"context"
	"path/filepath"
	"testing"

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

func TestRegisterSheetsTools(t *testing.T) {
	for _, readOnly := range []bool{false, true} {
		s := mcpserver.NewMCPServer("test", "0.0.0")
		require.NoError(t, RegisterSheetsTools(s, testServerContext(t), readOnly))
	}
}

func TestExportMIMEs(t *testing.T) {
	assert.True(t, exportMIMEs["csv"].textual)
	assert.True(t, exportMIMEs["tsv"].textual)
	assert.False(t, exportMIMEs["pdf"].textual)
	assert.False(t, exportMIMEs["xlsx"].textual)

	_, ok := exportMIMEs["ods"]
	assert.False(t, ok)
}

func TestParseValues(t *testing.T) {
	values, err := parseValues(`[["A","B"],["1","2"]]`)
	require.NoError(t, err)
	require.Len(t, values, 2)
	assert.Equal(t, "A", values[0][0])
	assert.Equal(t, "2", values[1][1])

	_, err = parseValues("")
	assert.Error(t, err)

	_, err = parseValues(`{"not":"an array"}`)
	assert.Error(t, err)

	_, err = parseValues(42)
	assert.Error(t, err)
}

func TestFormatRows(t *testing.T) {
	out := formatRows([][]interface{}{
		{"Name", "Count"},
		{"widgets", 3},
	})
	assert.Equal(t, "Name\tCount\nwidgets\t3", out)

	assert.Equal(t, "", formatRows(nil))
}
