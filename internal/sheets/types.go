package sheets

// Spreadsheet is a newly created spreadsheet.
type Spreadsheet struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	URL   string `json:"url"`
}

// RangeValues pairs a range with the values to write there.
type RangeValues struct {
	Range  string          `json:"range"`
	Values [][]interface{} `json:"values"`
}

// SpreadsheetInfo describes a spreadsheet and its sheets.
type SpreadsheetInfo struct {
	Title  string      `json:"title"`
	URL    string      `json:"url,omitempty"`
	Sheets []SheetInfo `json:"sheets"`
}

// SheetInfo describes one sheet tab.
type SheetInfo struct {
	Title   string `json:"title"`
	Rows    int64  `json:"rows"`
	Columns int64  `json:"columns"`
}
