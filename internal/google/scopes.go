package google

// DefaultScopes are the Google OAuth scopes the server requests during
// authorization. A stored credential must cover all of them to be usable;
// a credential authorized for fewer scopes forces re-authorization.
var DefaultScopes = []string{
	// Gmail: labels, filters, message modification and sending
	"https://www.googleapis.com/auth/gmail.modify",
	"https://www.googleapis.com/auth/gmail.labels",
	"https://www.googleapis.com/auth/gmail.settings.basic",

	// Google Drive: file listing, search and export
	"https://www.googleapis.com/auth/drive",

	// Google Calendar
	"https://www.googleapis.com/auth/calendar",

	// Google Docs
	"https://www.googleapis.com/auth/documents",

	// Google Sheets
	"https://www.googleapis.com/auth/spreadsheets",

	// Google Slides
	"https://www.googleapis.com/auth/presentations",
}

// hasAllScopes reports whether got covers every scope in required.
// An empty got set is treated as "scopes unknown" and passes the check;
// token records from minimal sources (e.g. an inline environment token)
// may legitimately omit the scope list.
func hasAllScopes(got, required []string) bool {
	if len(got) == 0 {
		return true
	}
	have := make(map[string]struct{}, len(got))
	for _, s := range got {
		have[s] = struct{}{}
	}
	for _, s := range required {
		if _, ok := have[s]; !ok {
			return false
		}
	}
	return true
}
