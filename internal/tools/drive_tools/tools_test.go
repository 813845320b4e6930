package drive_tools

import (
	"context"
	"path/filepath"
	"testing"

	mcpserver "github.com/mark3labs/mcp-go/server"
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

func TestRegisterDriveTools(t *testing.T) {
	for _, readOnly := range []bool{false, true} {
		s := mcpserver.NewMCPServer("test", "0.0.0")
		require.NoError(t, RegisterDriveTools(s, testServerContext(t), readOnly))
	}
}
