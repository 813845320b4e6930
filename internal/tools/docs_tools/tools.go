package docs_tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/pubpug/workspace-mcp/internal/drive"
	"github.com/pubpug/workspace-mcp/internal/server"
	"github.com/pubpug/workspace-mcp/internal/tools/common"
)

// exportMIMEs maps the export formats offered to their Drive MIME types.
var exportMIMEs = map[string]struct {
	mime    string
	textual bool
}{
	"text": {"text/plain", true},
	"html": {"text/html", true},
	"pdf":  {"application/pdf", false},
	"docx": {"application/vnd.openxmlformats-officedocument.wordprocessingml.document", false},
}

// RegisterDocsTools registers all Google Docs tools with the MCP server.
func RegisterDocsTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	registerReadTools(s, sc)
	if !readOnly {
		registerWriteTools(s, sc)
	}
	return nil
}

func registerReadTools(s *mcpserver.MCPServer, sc *server.ServerContext) {
	getDocumentTool := mcp.NewTool("docs_get_document",
		mcp.WithDescription("Get the full text content of a Google Docs document"),
		mcp.WithString("documentId",
			mcp.Required(),
			mcp.Description("The ID of the document"),
		),
	)

	s.AddTool(getDocumentTool, common.InstrumentedWithService("docs_get_document", "docs", "get", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args, _ := request.Params.Arguments.(map[string]interface{})

			documentID, ok := args["documentId"].(string)
			if !ok || documentID == "" {
				return mcp.NewToolResultError("documentId is required"), nil
			}

			client, err := sc.DocsClient()
			if err != nil {
				return common.ErrorResult(sc, err), nil
			}

			doc, err := client.Get(documentID)
			if err != nil {
				return common.ErrorResult(sc, err), nil
			}

			return mcp.NewToolResultText(fmt.Sprintf("Title: %s\n\n%s", doc.Title, doc.Text)), nil
		}))

	searchDocumentsTool := mcp.NewTool("docs_search_documents",
		mcp.WithDescription("Search for Google Docs documents in Drive. An empty query lists recent documents."),
		mcp.WithString("query",
			mcp.Description("Full-text search query"),
		),
		mcp.WithNumber("maxResults",
			mcp.Description("Maximum number of documents to return (default: 20)"),
		),
	)

	s.AddTool(searchDocumentsTool, common.InstrumentedWithService("docs_search_documents", "drive", "search", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args, _ := request.Params.Arguments.(map[string]interface{})

			query, _ := args["query"].(string)
			maxResults := int64(20)
			if v, ok := args["maxResults"].(float64); ok && v > 0 {
				maxResults = int64(v)
			}

			client, err := sc.DriveClient()
			if err != nil {
				return common.ErrorResult(sc, err), nil
			}

			files, err := client.SearchByType(drive.MIMEDocument, query, maxResults)
			if err != nil {
				return common.ErrorResult(sc, err), nil
			}
			if len(files) == 0 {
				return mcp.NewToolResultText("No documents found."), nil
			}

			result, _ := json.MarshalIndent(files, "", "  ")
			return mcp.NewToolResultText(string(result)), nil
		}))

	exportDocumentTool := mcp.NewTool("docs_export_document",
		mcp.WithDescription("Export a Google Docs document. Formats: text, html, pdf, docx."),
		mcp.WithString("documentId",
			mcp.Required(),
			mcp.Description("The ID of the document to export"),
		),
		mcp.WithString("format",
			mcp.Description("Export format (default: text)"),
		),
	)

	s.AddTool(exportDocumentTool, common.InstrumentedWithService("docs_export_document", "drive", "export", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args, _ := request.Params.Arguments.(map[string]interface{})

			documentID, ok := args["documentId"].(string)
			if !ok || documentID == "" {
				return mcp.NewToolResultError("documentId is required"), nil
			}
			format := "text"
			if v, ok := args["format"].(string); ok && v != "" {
				format = v
			}
			target, ok := exportMIMEs[format]
			if !ok {
				return mcp.NewToolResultError(fmt.Sprintf(
					"unsupported format %q, use: text, html, pdf, docx", format)), nil
			}

			client, err := sc.DriveClient()
			if err != nil {
				return common.ErrorResult(sc, err), nil
			}

			data, err := client.Export(documentID, target.mime)
			if err != nil {
				return common.ErrorResult(sc, err), nil
			}

			return common.ExportResult(format, target.textual, data), nil
		}))
}

func registerWriteTools(s *mcpserver.MCPServer, sc *server.ServerContext) {
	createDocumentTool := mcp.NewTool("docs_create_document",
		mcp.WithDescription("Create a new Google Docs document with optional initial text"),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("Document title"),
		),
		mcp.WithString("bodyText",
			mcp.Description("Initial text content"),
		),
	)

	s.AddTool(createDocumentTool, common.InstrumentedWithService("docs_create_document", "docs", "create", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args, _ := request.Params.Arguments.(map[string]interface{})

			title, ok := args["title"].(string)
			if !ok || title == "" {
				return mcp.NewToolResultError("title is required"), nil
			}
			bodyText, _ := args["bodyText"].(string)

			client, err := sc.DocsClient()
			if err != nil {
				return common.ErrorResult(sc, err), nil
			}

			doc, err := client.Create(title, bodyText)
			if err != nil {
				return common.ErrorResult(sc, err), nil
			}

			return mcp.NewToolResultText(fmt.Sprintf("Document created: %s", doc.URL)), nil
		}))

	appendTool := mcp.NewTool("docs_append_to_document",
		mcp.WithDescription("Append text to the end of a Google Docs document"),
		mcp.WithString("documentId",
			mcp.Required(),
			mcp.Description("The ID of the document"),
		),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("Text to append"),
		),
	)

	s.AddTool(appendTool, common.InstrumentedWithService("docs_append_to_document", "docs", "append", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args, _ := request.Params.Arguments.(map[string]interface{})

			documentID, ok := args["documentId"].(string)
			if !ok || documentID == "" {
				return mcp.NewToolResultError("documentId is required"), nil
			}
			text, ok := args["text"].(string)
			if !ok || text == "" {
				return mcp.NewToolResultError("text is required"), nil
			}

			client, err := sc.DocsClient()
			if err != nil {
				return common.ErrorResult(sc, err), nil
			}

			if err := client.Append(documentID, text); err != nil {
				return common.ErrorResult(sc, err), nil
			}

			return mcp.NewToolResultText(fmt.Sprintf("Text appended to document %s", documentID)), nil
		}))
}
