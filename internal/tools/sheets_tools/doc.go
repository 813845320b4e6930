// Package sheets_tools provides MCP tools for Google Sheets.
//
// Read tools (always registered):
//   - sheets_read_range: read cell values from a range
//   - sheets_get_info: spreadsheet metadata and sheet dimensions
//   - sheets_search: find spreadsheets in Drive
//   - sheets_export: export as csv, tsv, pdf, or xlsx
//
// Write tools (disabled in read-only mode):
//   - sheets_create_spreadsheet, sheets_update_range, sheets_append_rows,
//     sheets_clear_range, sheets_batch_update, sheets_add_sheet
package sheets_tools
