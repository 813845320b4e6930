package sheets

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	sheets "google.golang.org/api/sheets/v4"

	"golang.org/x/oauth2"
)

// Client wraps the Google Sheets service.
type Client struct {
	svc *sheets.Service
}

// NewClient creates a Sheets client authenticated through the given token
// source.
func NewClient(ctx context.Context, ts oauth2.TokenSource) (*Client, error) {
	svc, err := sheets.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, fmt.Errorf("creating Sheets service: %w", err)
	}
	return &Client{svc: svc}, nil
}

// Create creates a spreadsheet with a single named sheet.
func (c *Client) Create(title, sheetName string) (*Spreadsheet, error) {
	if sheetName == "" {
		sheetName = "Sheet1"
	}
	ss := &sheets.Spreadsheet{
		Properties: &sheets.SpreadsheetProperties{Title: title},
		Sheets: []*sheets.Sheet{{
			Properties: &sheets.SheetProperties{Title: sheetName},
		}},
	}

	created, err := c.svc.Spreadsheets.Create(ss).Do()
	if err != nil {
		return nil, fmt.Errorf("creating spreadsheet: %w", err)
	}
	return &Spreadsheet{
		ID:    created.SpreadsheetId,
		Title: title,
		URL:   spreadsheetURL(created.SpreadsheetId),
	}, nil
}

// ReadRange returns the values of a range, e.g. "Sheet1!A1:D10" or "Sheet1".
func (c *Client) ReadRange(spreadsheetID, readRange string) ([][]interface{}, error) {
	res, err := c.svc.Spreadsheets.Values.Get(spreadsheetID, readRange).Do()
	if err != nil {
		return nil, fmt.Errorf("reading range %s: %w", readRange, err)
	}
	return res.Values, nil
}

// UpdateRange writes values starting at the given range, interpreting cell
// contents the way a user typing them would be.
func (c *Client) UpdateRange(spreadsheetID, updateRange string, values [][]interface{}) error {
	body := &sheets.ValueRange{Values: values}
	_, err := c.svc.Spreadsheets.Values.Update(spreadsheetID, updateRange, body).
		ValueInputOption("USER_ENTERED").
		Do()
	if err != nil {
		return fmt.Errorf("updating range %s: %w", updateRange, err)
	}
	return nil
}

// AppendRows appends rows after the table found at the given range and
// returns how many rows were added.
func (c *Client) AppendRows(spreadsheetID, appendRange string, values [][]interface{}) (int64, error) {
	body := &sheets.ValueRange{Values: values}
	res, err := c.svc.Spreadsheets.Values.Append(spreadsheetID, appendRange, body).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Do()
	if err != nil {
		return 0, fmt.Errorf("appending to range %s: %w", appendRange, err)
	}
	if res.Updates == nil {
		return 0, nil
	}
	return res.Updates.UpdatedRows, nil
}

// ClearRange removes all values in a range, leaving formatting intact.
func (c *Client) ClearRange(spreadsheetID, clearRange string) error {
	_, err := c.svc.Spreadsheets.Values.Clear(spreadsheetID, clearRange,
		&sheets.ClearValuesRequest{}).Do()
	if err != nil {
		return fmt.Errorf("clearing range %s: %w", clearRange, err)
	}
	return nil
}

// BatchUpdateValues writes several ranges in one request and returns how
// many ranges were written.
func (c *Client) BatchUpdateValues(spreadsheetID string, data []RangeValues) (int, error) {
	var ranges []*sheets.ValueRange
	for _, d := range data {
		ranges = append(ranges, &sheets.ValueRange{
			Range:  d.Range,
			Values: d.Values,
		})
	}

	req := &sheets.BatchUpdateValuesRequest{
		ValueInputOption: "USER_ENTERED",
		Data:             ranges,
	}
	if _, err := c.svc.Spreadsheets.Values.BatchUpdate(spreadsheetID, req).Do(); err != nil {
		return 0, fmt.Errorf("batch updating %d ranges: %w", len(data), err)
	}
	return len(data), nil
}

// AddSheet adds a new tab to an existing spreadsheet.
func (c *Client) AddSheet(spreadsheetID, sheetName string) error {
	req := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			AddSheet: &sheets.AddSheetRequest{
				Properties: &sheets.SheetProperties{Title: sheetName},
			},
		}},
	}
	if _, err := c.svc.Spreadsheets.BatchUpdate(spreadsheetID, req).Do(); err != nil {
		return fmt.Errorf("adding sheet %q: %w", sheetName, err)
	}
	return nil
}

// Info returns a spreadsheet's title and per-sheet dimensions.
func (c *Client) Info(spreadsheetID string) (*SpreadsheetInfo, error) {
	meta, err := c.svc.Spreadsheets.Get(spreadsheetID).Do()
	if err != nil {
		return nil, fmt.Errorf("getting spreadsheet %s: %w", spreadsheetID, err)
	}

	info := &SpreadsheetInfo{URL: spreadsheetURL(spreadsheetID)}
	if meta.Properties != nil {
		info.Title = meta.Properties.Title
	}
	for _, s := range meta.Sheets {
		if s.Properties == nil {
			continue
		}
		sheet := SheetInfo{Title: s.Properties.Title}
		if grid := s.Properties.GridProperties; grid != nil {
			sheet.Rows = grid.RowCount
			sheet.Columns = grid.ColumnCount
		}
		info.Sheets = append(info.Sheets, sheet)
	}
	return info, nil
}

func spreadsheetURL(id string) string {
	return fmt.Sprintf("https://docs.google.com/spreadsheets/d/%s/edit", id)
}
