package drive_tools

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/pubpug/workspace-mcp/internal/server"
	"github.com/pubpug/workspace-mcp/internal/tools/common"
)

// RegisterDriveTools registers all Drive-related tools with the MCP server.
// Drive tools are read-only, so the readOnly flag does not gate anything
// here.
func RegisterDriveTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	listFoldersTool := mcp.NewTool("drive_list_folders",
		mcp.WithDescription("List folders in Google Drive under a parent folder"),
		mcp.WithString("parentId",
			mcp.Description("Parent folder ID (default: 'root' for the drive root)"),
		),
	)

	s.AddTool(listFoldersTool, common.InstrumentedWithService("drive_list_folders", "drive", "list_folders", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args, _ := request.Params.Arguments.(map[string]interface{})

			parentID := "root"
			if v, ok := args["parentId"].(string); ok && v != "" {
				parentID = v
			}

			client, err := sc.DriveClient()
			if err != nil {
				return common.ErrorResult(sc, err), nil
			}

			folders, err := client.ListFolders(parentID)
			if err != nil {
				return common.ErrorResult(sc, err), nil
			}
			if len(folders) == 0 {
				return mcp.NewToolResultText("No folders found."), nil
			}

			result, _ := json.MarshalIndent(folders, "", "  ")
			return mcp.NewToolResultText(string(result)), nil
		}))

	searchTool := mcp.NewTool("drive_search",
		mcp.WithDescription("Search for files in Google Drive using the Drive query syntax"),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Drive search query, e.g. \"name contains 'report'\""),
		),
	)

	s.AddTool(searchTool, common.InstrumentedWithService("drive_search", "drive", "search", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args, _ := request.Params.Arguments.(map[string]interface{})

			query, ok := args["query"].(string)
			if !ok || query == "" {
				return mcp.NewToolResultError("query is required"), nil
			}

			client, err := sc.DriveClient()
			if err != nil {
				return common.ErrorResult(sc, err), nil
			}

			files, err := client.Search(query)
			if err != nil {
				return common.ErrorResult(sc, err), nil
			}
			if len(files) == 0 {
				return mcp.NewToolResultText("No files found."), nil
			}

			result, _ := json.MarshalIndent(files, "", "  ")
			return mcp.NewToolResultText(string(result)), nil
		}))

	return nil
}
