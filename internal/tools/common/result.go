package common

import (
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/pubpug/workspace-mcp/internal/google"
	"github.com/pubpug/workspace-mcp/internal/server"
)

// ErrorResult converts an error into a tool error result. When the error is
// an authentication failure the message names the authorization portal so
// the agent can relay the remediation to the user.
func ErrorResult(sc *server.ServerContext, err error) *mcp.CallToolResult {
	if errors.Is(err, google.ErrNotAuthenticated) {
		return mcp.NewToolResultError(fmt.Sprintf(
			"Not authenticated. Please open %s in your browser to authorize with Google, then retry.",
			sc.PortalURL()))
	}
	return mcp.NewToolResultError(err.Error())
}

// exportPreviewLen bounds the inline base64 preview of binary exports.
const exportPreviewLen = 200

// ExportResult renders an exported document. Textual formats are returned
// verbatim; binary formats are summarized with a truncated base64 preview so
// they do not flood the conversation.
func ExportResult(format string, textual bool, data []byte) *mcp.CallToolResult {
	if textual {
		return mcp.NewToolResultText(string(data))
	}
	encoded := base64.StdEncoding.EncodeToString(data)
	preview := encoded
	if len(preview) > exportPreviewLen {
		preview = preview[:exportPreviewLen] + "..."
	}
	return mcp.NewToolResultText(fmt.Sprintf("Exported as %s (base64, %d bytes):\n%s",
		format, len(data), preview))
}
