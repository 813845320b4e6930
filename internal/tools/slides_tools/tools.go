package slides_tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/pubpug/workspace-mcp/internal/drive"
	"github.com/pubpug/workspace-mcp/internal/server"
	"github.com/pubpug/workspace-mcp/internal/slides"
	"github.com/pubpug/workspace-mcp/internal/tools/common"
)

var exportMIMEs = map[string]struct {
	mime    string
	textual bool
}{
	"txt":  {"text/plain", true},
	"pdf":  {"application/pdf", false},
	"pptx": {"application/vnd.openxmlformats-officedocument.presentationml.presentation", false},
}

// RegisterSlidesTools registers all Google Slides tools with the MCP server.
func RegisterSlidesTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	registerReadTools(s, sc)
	if !readOnly {
		registerWriteTools(s, sc)
	}
	return nil
}

func registerReadTools(s *mcpserver.MCPServer, sc *server.ServerContext) {
	getTool := mcp.NewTool("slides_get_presentation",
		mcp.WithDescription("Get a presentation's slides and their text content"),
		mcp.WithString("presentationId",
			mcp.Required(),
			mcp.Description("The ID of the presentation"),
		),
	)

	s.AddTool(getTool, common.InstrumentedWithService("slides_get_presentation", "slides", "get", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args, _ := request.Params.Arguments.(map[string]interface{})

			presentationID, ok := args["presentationId"].(string)
			if !ok || presentationID == "" {
				return mcp.NewToolResultError("presentationId is required"), nil
			}

			client, err := sc.SlidesClient()
			if err != nil {
				return common.ErrorResult(sc, err), nil
			}

			presentation, err := client.Get(presentationID)
			if err != nil {
				return common.ErrorResult(sc, err), nil
			}

			result, _ := json.MarshalIndent(presentation, "", "  ")
			return mcp.NewToolResultText(string(result)), nil
		}))

	searchTool := mcp.NewTool("slides_search",
		mcp.WithDescription("Search for presentations in Drive. An empty query lists recent presentations."),
		mcp.WithString("query",
			mcp.Description("Full-text search query"),
		),
		mcp.WithNumber("maxResults",
			mcp.Description("Maximum number of presentations to return (default: 20)"),
		),
	)

	s.AddTool(searchTool, common.InstrumentedWithService("slides_search", "drive", "search", sc,
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

			files, err := client.SearchByType(drive.MIMEPresentation, query, maxResults)
			if err != nil {
				return common.ErrorResult(sc, err), nil
			}
			if len(files) == 0 {
				return mcp.NewToolResultText("No presentations found."), nil
			}

			result, _ := json.MarshalIndent(files, "", "  ")
			return mcp.NewToolResultText(string(result)), nil
		}))

	exportTool := mcp.NewTool("slides_export",
		mcp.WithDescription("Export a presentation. Formats: pdf, pptx, txt."),
		mcp.WithString("presentationId",
			mcp.Required(),
			mcp.Description("The ID of the presentation to export"),
		),
		mcp.WithString("format",
			mcp.Description("Export format (default: pdf)"),
		),
	)

	s.AddTool(exportTool, common.InstrumentedWithService("slides_export", "drive", "export", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args, _ := request.Params.Arguments.(map[string]interface{})

			presentationID, ok := args["presentationId"].(string)
			if !ok || presentationID == "" {
				return mcp.NewToolResultError("presentationId is required"), nil
			}
			format := "pdf"
			if v, ok := args["format"].(string); ok && v != "" {
				format = v
			}
			target, ok := exportMIMEs[format]
			if !ok {
				return mcp.NewToolResultError(fmt.Sprintf(
					"unsupported format %q, use: pdf, pptx, txt", format)), nil
			}

			client, err := sc.DriveClient()
			if err != nil {
				return common.ErrorResult(sc, err), nil
			}

			data, err := client.Export(presentationID, target.mime)
			if err != nil {
				return common.ErrorResult(sc, err), nil
			}

			return common.ExportResult(format, target.textual, data), nil
		}))
}

func registerWriteTools(s *mcpserver.MCPServer, sc *server.ServerContext) {
	createTool := mcp.NewTool("slides_create_presentation",
		mcp.WithDescription("Create a new Google Slides presentation"),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("Presentation title"),
		),
	)

	s.AddTool(createTool, common.InstrumentedWithService("slides_create_presentation", "slides", "create", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args, _ := request.Params.Arguments.(map[string]interface{})

			title, ok := args["title"].(string)
			if !ok || title == "" {
				return mcp.NewToolResultError("title is required"), nil
			}

			client, err := sc.SlidesClient()
			if err != nil {
				return common.ErrorResult(sc, err), nil
			}

			presentation, err := client.Create(title)
			if err != nil {
				return common.ErrorResult(sc, err), nil
			}

			return mcp.NewToolResultText(fmt.Sprintf("Presentation created: %s", presentation.URL)), nil
		}))

	addSlideTool := mcp.NewTool("slides_add_slide",
		mcp.WithDescription("Add a slide to a presentation, optionally using a named layout"),
		mcp.WithString("presentationId",
			mcp.Required(),
			mcp.Description("The ID of the presentation"),
		),
		mcp.WithString("layout",
			mcp.Description("Layout name, e.g. 'TITLE_AND_BODY' or 'Blank' (default: first layout)"),
		),
	)

	s.AddTool(addSlideTool, common.InstrumentedWithService("slides_add_slide", "slides", "add_slide", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args, _ := request.Params.Arguments.(map[string]interface{})

			presentationID, ok := args["presentationId"].(string)
			if !ok || presentationID == "" {
				return mcp.NewToolResultError("presentationId is required"), nil
			}
			layout, _ := args["layout"].(string)

			client, err := sc.SlidesClient()
			if err != nil {
				return common.ErrorResult(sc, err), nil
			}

			slideID, err := client.AddSlide(presentationID, layout)
			if err != nil {
				return common.ErrorResult(sc, err), nil
			}

			return mcp.NewToolResultText(fmt.Sprintf("Slide added: %s", slideID)), nil
		}))

	addTextTool := mcp.NewTool("slides_add_text",
		mcp.WithDescription("Add a text box to a slide. Position and size are in points."),
		mcp.WithString("presentationId",
			mcp.Required(),
			mcp.Description("The ID of the presentation"),
		),
		mcp.WithNumber("slideIndex",
			mcp.Required(),
			mcp.Description("Zero-based index of the slide"),
		),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("Text content"),
		),
		mcp.WithNumber("x",
			mcp.Description("Left offset in points (default: 100)"),
		),
		mcp.WithNumber("y",
			mcp.Description("Top offset in points (default: 100)"),
		),
		mcp.WithNumber("width",
			mcp.Description("Width in points (default: 400)"),
		),
		mcp.WithNumber("height",
			mcp.Description("Height in points (default: 200)"),
		),
	)

	s.AddTool(addTextTool, common.InstrumentedWithService("slides_add_text", "slides", "add_text", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args, _ := request.Params.Arguments.(map[string]interface{})

			presentationID, ok := args["presentationId"].(string)
			if !ok || presentationID == "" {
				return mcp.NewToolResultError("presentationId is required"), nil
			}
			slideIndex, ok := args["slideIndex"].(float64)
			if !ok || slideIndex < 0 {
				return mcp.NewToolResultError("slideIndex is required"), nil
			}
			text, ok := args["text"].(string)
			if !ok || text == "" {
				return mcp.NewToolResultError("text is required"), nil
			}

			var box slides.Box
			if v, ok := args["x"].(float64); ok {
				box.X = v
			}
			if v, ok := args["y"].(float64); ok {
				box.Y = v
			}
			if v, ok := args["width"].(float64); ok {
				box.Width = v
			}
			if v, ok := args["height"].(float64); ok {
				box.Height = v
			}

			client, err := sc.SlidesClient()
			if err != nil {
				return common.ErrorResult(sc, err), nil
			}

			if err := client.AddTextBox(presentationID, int64(slideIndex), text, box); err != nil {
				return common.ErrorResult(sc, err), nil
			}

			return mcp.NewToolResultText(fmt.Sprintf("Text added to slide %d", int64(slideIndex))), nil
		}))

	deleteSlideTool := mcp.NewTool("slides_delete_slide",
		mcp.WithDescription("Delete a slide from a presentation by index"),
		mcp.WithString("presentationId",
			mcp.Required(),
			mcp.Description("The ID of the presentation"),
		),
		mcp.WithNumber("slideIndex",
			mcp.Required(),
			mcp.Description("Zero-based index of the slide to delete"),
		),
	)

	s.AddTool(deleteSlideTool, common.InstrumentedWithService("slides_delete_slide", "slides", "delete_slide", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args, _ := request.Params.Arguments.(map[string]interface{})

			presentationID, ok := args["presentationId"].(string)
			if !ok || presentationID == "" {
				return mcp.NewToolResultError("presentationId is required"), nil
			}
			slideIndex, ok := args["slideIndex"].(float64)
			if !ok || slideIndex < 0 {
				return mcp.NewToolResultError("slideIndex is required"), nil
			}

			client, err := sc.SlidesClient()
			if err != nil {
				return common.ErrorResult(sc, err), nil
			}

			if err := client.DeleteSlide(presentationID, int64(slideIndex)); err != nil {
				return common.ErrorResult(sc, err), nil
			}

			return mcp.NewToolResultText(fmt.Sprintf("Slide %d deleted", int64(slideIndex))), nil
		}))
}
