// Package sheets wraps the Google Sheets API for spreadsheet creation,
// value reads and writes, and sheet management.
package sheets
