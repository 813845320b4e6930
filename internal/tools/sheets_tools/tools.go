package sheets_tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/pubpug/workspace-mcp/internal/drive"
	"github.com/pubpug/workspace-mcp/internal/server"
	"github.com/pubpug/workspace-mcp/internal/sheets"
	"github.com/pubpug/workspace-mcp/internal/tools/common"
)

var exportMIMEs = map[string]struct {
	mime    string
	textual bool
}{
	"csv":  {"text/csv", true},
	"tsv":  {"text/tab-separated-values", true},
	"pdf":  {"application/pdf", false},
	"xlsx": {"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", false},
}

// RegisterSheetsTools registers all Google Sheets tools with the MCP server.
func RegisterSheetsTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	registerReadTools(s, sc)
	if !readOnly {
		registerWriteTools(s, sc)
	}
	return nil
}

func registerReadTools(s *mcpserver.MCPServer, sc *server.ServerContext) {
	readTool := mcp.NewTool("sheets_read_range",
		mcp.WithDescription("Read data from a spreadsheet range. Range format: 'Sheet1!A1:D10' or 'Sheet1'."),
		mcp.WithString("spreadsheetId",
			mcp.Required(),
			mcp.Description("The ID of the spreadsheet"),
		),
		mcp.WithString("range",
			mcp.Description("The A1-notation range to read (default: 'Sheet1')"),
		),
	)

	s.AddTool(readTool, common.InstrumentedWithService("sheets_read_range", "sheets", "read", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args, _ := request.Params.Arguments.(map[string]interface{})

			spreadsheetID, ok := args["spreadsheetId"].(string)
			if !ok || spreadsheetID == "" {
				return mcp.NewToolResultError("spreadsheetId is required"), nil
			}
			readRange := "Sheet1"
			if v, ok := args["range"].(string); ok && v != "" {
				readRange = v
			}

			client, err := sc.SheetsClient()
			if err != nil {
				return common.ErrorResult(sc, err), nil
			}

			values, err := client.ReadRange(spreadsheetID, readRange)
			if err != nil {
				return common.ErrorResult(sc, err), nil
			}
			if len(values) == 0 {
				return mcp.NewToolResultText("No data found."), nil
			}

			return mcp.NewToolResultText(formatRows(values)), nil
		}))

	infoTool := mcp.NewTool("sheets_get_info",
		mcp.WithDescription("Get spreadsheet metadata: title, sheets, and their dimensions"),
		mcp.WithString("spreadsheetId",
			mcp.Required(),
			mcp.Description("The ID of the spreadsheet"),
		),
	)

	s.AddTool(infoTool, common.InstrumentedWithService("sheets_get_info", "sheets", "get", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args, _ := request.Params.Arguments.(map[string]interface{})

			spreadsheetID, ok := args["spreadsheetId"].(string)
			if !ok || spreadsheetID == "" {
				return mcp.NewToolResultError("spreadsheetId is required"), nil
			}

			client, err := sc.SheetsClient()
			if err != nil {
				return common.ErrorResult(sc, err), nil
			}

			info, err := client.Info(spreadsheetID)
			if err != nil {
				return common.ErrorResult(sc, err), nil
			}

			result, _ := json.MarshalIndent(info, "", "  ")
			return mcp.NewToolResultText(string(result)), nil
		}))

	searchTool := mcp.NewTool("sheets_search",
		mcp.WithDescription("Search for spreadsheets in Drive. An empty query lists recent spreadsheets."),
		mcp.WithString("query",
			mcp.Description("Full-text search query"),
		),
		mcp.WithNumber("maxResults",
			mcp.Description("Maximum number of spreadsheets to return (default: 20)"),
		),
	)

	s.AddTool(searchTool, common.InstrumentedWithService("sheets_search", "drive", "search", sc,
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

			files, err := client.SearchByType(drive.MIMESpreadsheet, query, maxResults)
			if err != nil {
				return common.ErrorResult(sc, err), nil
			}
			if len(files) == 0 {
				return mcp.NewToolResultText("No spreadsheets found."), nil
			}

			result, _ := json.MarshalIndent(files, "", "  ")
			return mcp.NewToolResultText(string(result)), nil
		}))

	exportTool := mcp.NewTool("sheets_export",
		mcp.WithDescription("Export a spreadsheet. Formats: csv, tsv, pdf, xlsx."),
		mcp.WithString("spreadsheetId",
			mcp.Required(),
			mcp.Description("The ID of the spreadsheet to export"),
		),
		mcp.WithString("format",
			mcp.Description("Export format (default: csv)"),
		),
	)

	s.AddTool(exportTool, common.InstrumentedWithService("sheets_export", "drive", "export", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args, _ := request.Params.Arguments.(map[string]interface{})

			spreadsheetID, ok := args["spreadsheetId"].(string)
			if !ok || spreadsheetID == "" {
				return mcp.NewToolResultError("spreadsheetId is required"), nil
			}
			format := "csv"
			if v, ok := args["format"].(string); ok && v != "" {
				format = v
			}
			target, ok := exportMIMEs[format]
			if !ok {
				return mcp.NewToolResultError(fmt.Sprintf(
					"unsupported format %q, use: csv, tsv, pdf, xlsx", format)), nil
			}

			client, err := sc.DriveClient()
			if err != nil {
				return common.ErrorResult(sc, err), nil
			}

			data, err := client.Export(spreadsheetID, target.mime)
			if err != nil {
				return common.ErrorResult(sc, err), nil
			}

			return common.ExportResult(format, target.textual, data), nil
		}))
}

func registerWriteTools(s *mcpserver.MCPServer, sc *server.ServerContext) {
	createTool := mcp.NewTool("sheets_create_spreadsheet",
		mcp.WithDescription("Create a new Google Sheets spreadsheet"),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("Spreadsheet title"),
		),
		mcp.WithString("sheetName",
			mcp.Description("Name of the first sheet (default: 'Sheet1')"),
		),
	)

	s.AddTool(createTool, common.InstrumentedWithService("sheets_create_spreadsheet", "sheets", "create", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args, _ := request.Params.Arguments.(map[string]interface{})

			title, ok := args["title"].(string)
			if !ok || title == "" {
				return mcp.NewToolResultError("title is required"), nil
			}
			sheetName, _ := args["sheetName"].(string)

			client, err := sc.SheetsClient()
			if err != nil {
				return common.ErrorResult(sc, err), nil
			}

			ss, err := client.Create(title, sheetName)
			if err != nil {
				return common.ErrorResult(sc, err), nil
			}

			return mcp.NewToolResultText(fmt.Sprintf("Spreadsheet created: %s", ss.URL)), nil
		}))

	updateTool := mcp.NewTool("sheets_update_range",
		mcp.WithDescription("Update cells in a spreadsheet. Values format: JSON 2D array, e.g. '[[\"A\",\"B\"],[\"1\",\"2\"]]'."),
		mcp.WithString("spreadsheetId",
			mcp.Required(),
			mcp.Description("The ID of the spreadsheet"),
		),
		mcp.WithString("range",
			mcp.Required(),
			mcp.Description("The A1-notation range to write, e.g. 'Sheet1!A1'"),
		),
		mcp.WithString("values",
			mcp.Required(),
			mcp.Description("JSON 2D array of cell values"),
		),
	)

	s.AddTool(updateTool, common.InstrumentedWithService("sheets_update_range", "sheets", "update", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args, _ := request.Params.Arguments.(map[string]interface{})

			spreadsheetID, ok := args["spreadsheetId"].(string)
			if !ok || spreadsheetID == "" {
				return mcp.NewToolResultError("spreadsheetId is required"), nil
			}
			updateRange, ok := args["range"].(string)
			if !ok || updateRange == "" {
				return mcp.NewToolResultError("range is required"), nil
			}
			values, err := parseValues(args["values"])
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			client, err := sc.SheetsClient()
			if err != nil {
				return common.ErrorResult(sc, err), nil
			}

			if err := client.UpdateRange(spreadsheetID, updateRange, values); err != nil {
				return common.ErrorResult(sc, err), nil
			}

			return mcp.NewToolResultText(fmt.Sprintf("Updated %s in spreadsheet %s", updateRange, spreadsheetID)), nil
		}))

	appendTool := mcp.NewTool("sheets_append_rows",
		mcp.WithDescription("Append rows to a spreadsheet. Values format: JSON 2D array."),
		mcp.WithString("spreadsheetId",
			mcp.Required(),
			mcp.Description("The ID of the spreadsheet"),
		),
		mcp.WithString("range",
			mcp.Required(),
			mcp.Description("The A1-notation range locating the table, e.g. 'Sheet1!A1'"),
		),
		mcp.WithString("values",
			mcp.Required(),
			mcp.Description("JSON 2D array of row values"),
		),
	)

	s.AddTool(appendTool, common.InstrumentedWithService("sheets_append_rows", "sheets", "append", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args, _ := request.Params.Arguments.(map[string]interface{})

			spreadsheetID, ok := args["spreadsheetId"].(string)
			if !ok || spreadsheetID == "" {
				return mcp.NewToolResultError("spreadsheetId is required"), nil
			}
			appendRange, ok := args["range"].(string)
			if !ok || appendRange == "" {
				return mcp.NewToolResultError("range is required"), nil
			}
			values, err := parseValues(args["values"])
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			client, err := sc.SheetsClient()
			if err != nil {
				return common.ErrorResult(sc, err), nil
			}

			appended, err := client.AppendRows(spreadsheetID, appendRange, values)
			if err != nil {
				return common.ErrorResult(sc, err), nil
			}

			return mcp.NewToolResultText(fmt.Sprintf("Appended %d rows to %s", appended, appendRange)), nil
		}))

	clearTool := mcp.NewTool("sheets_clear_range",
		mcp.WithDescription("Clear all values in a range. Range format: 'Sheet1!A1:D10'."),
		mcp.WithString("spreadsheetId",
			mcp.Required(),
			mcp.Description("The ID of the spreadsheet"),
		),
		mcp.WithString("range",
			mcp.Required(),
			mcp.Description("The A1-notation range to clear"),
		),
	)

	s.AddTool(clearTool, common.InstrumentedWithService("sheets_clear_range", "sheets", "clear", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args, _ := request.Params.Arguments.(map[string]interface{})

			spreadsheetID, ok := args["spreadsheetId"].(string)
			if !ok || spreadsheetID == "" {
				return mcp.NewToolResultError("spreadsheetId is required"), nil
			}
			clearRange, ok := args["range"].(string)
			if !ok || clearRange == "" {
				return mcp.NewToolResultError("range is required"), nil
			}

			client, err := sc.SheetsClient()
			if err != nil {
				return common.ErrorResult(sc, err), nil
			}

			if err := client.ClearRange(spreadsheetID, clearRange); err != nil {
				return common.ErrorResult(sc, err), nil
			}

			return mcp.NewToolResultText(fmt.Sprintf("Cleared range %s", clearRange)), nil
		}))

	batchUpdateTool := mcp.NewTool("sheets_batch_update",
		mcp.WithDescription("Batch update multiple ranges. Data format: JSON array of {range, values} objects."),
		mcp.WithString("spreadsheetId",
			mcp.Required(),
			mcp.Description("The ID of the spreadsheet"),
		),
		mcp.WithString("data",
			mcp.Required(),
			mcp.Description(`JSON array, e.g. '[{"range":"Sheet1!A1","values":[["X"]]}]'`),
		),
	)

	s.AddTool(batchUpdateTool, common.InstrumentedWithService("sheets_batch_update", "sheets", "batch_update", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args, _ := request.Params.Arguments.(map[string]interface{})

			spreadsheetID, ok := args["spreadsheetId"].(string)
			if !ok || spreadsheetID == "" {
				return mcp.NewToolResultError("spreadsheetId is required"), nil
			}
			raw, ok := args["data"].(string)
			if !ok || raw == "" {
				return mcp.NewToolResultError("data is required"), nil
			}

			var data []sheets.RangeValues
			if err := json.Unmarshal([]byte(raw), &data); err != nil {
				return mcp.NewToolResultError(
					`invalid JSON for data, use format: [{"range":"Sheet1!A1","values":[["X"]]}]`), nil
			}

			client, err := sc.SheetsClient()
			if err != nil {
				return common.ErrorResult(sc, err), nil
			}

			updated, err := client.BatchUpdateValues(spreadsheetID, data)
			if err != nil {
				return common.ErrorResult(sc, err), nil
			}

			return mcp.NewToolResultText(fmt.Sprintf("Batch updated %d ranges", updated)), nil
		}))

	addSheetTool := mcp.NewTool("sheets_add_sheet",
		mcp.WithDescription("Add a new sheet/tab to an existing spreadsheet"),
		mcp.WithString("spreadsheetId",
			mcp.Required(),
			mcp.Description("The ID of the spreadsheet"),
		),
		mcp.WithString("sheetName",
			mcp.Required(),
			mcp.Description("Name of the new sheet"),
		),
	)

	s.AddTool(addSheetTool, common.InstrumentedWithService("sheets_add_sheet", "sheets", "add_sheet", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args, _ := request.Params.Arguments.(map[string]interface{})

			spreadsheetID, ok := args["spreadsheetId"].(string)
			if !ok || spreadsheetID == "" {
				return mcp.NewToolResultError("spreadsheetId is required"), nil
			}
			sheetName, ok := args["sheetName"].(string)
			if !ok || sheetName == "" {
				return mcp.NewToolResultError("sheetName is required"), nil
			}

			client, err := sc.SheetsClient()
			if err != nil {
				return common.ErrorResult(sc, err), nil
			}

			if err := client.AddSheet(spreadsheetID, sheetName); err != nil {
				return common.ErrorResult(sc, err), nil
			}

			return mcp.NewToolResultText(fmt.Sprintf("Sheet %q added", sheetName)), nil
		}))
}

// parseValues decodes the JSON 2D array accepted by the write tools.
func parseValues(arg interface{}) ([][]interface{}, error) {
	raw, ok := arg.(string)
	if !ok || raw == "" {
		return nil, fmt.Errorf("values is required")
	}
	var values [][]interface{}
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		return nil, fmt.Errorf(`invalid JSON for values, use format: [["A","B"],["1","2"]]`)
	}
	return values, nil
}

// formatRows renders sheet values as tab-separated lines.
func formatRows(values [][]interface{}) string {
	var b strings.Builder
	for i, row := range values {
		if i > 0 {
			b.WriteByte('\n')
		}
		for j, cell := range row {
			if j > 0 {
				b.WriteByte('\t')
			}
			fmt.Fprintf(&b, "%v", cell)
		}
	}
	return b.String()
}
