package docs_tools

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

func TestRegisterDocsTools(t *testing.T) {
	for _, readOnly := range []bool{false, true} {
		s := mcpserver.NewMCPServer("test", "0.0.0")
		require.NoError(t, RegisterDocsTools(s, testServerContext(t), readOnly))
	}
}

func TestExportMIMEs(t *testing.T) {
	assert.True(t, exportMIMEs["text"].textual)
	assert.True(t, exportMIMEs["html"].textual)
	assert.False(t, exportMIMEs["pdf"].textual)
	assert.False(t, exportMIMEs["docx"].textual)

	_, ok := exportMIMEs["rtf"]
	assert.False(t, ok)
}
