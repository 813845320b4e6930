package calendar

import (
	"time"

	calendar "google.golang.org/api/calendar/v3"
)

// DefaultTimeZone is applied to events created without an explicit zone.
const DefaultTimeZone = "Asia/Ho_Chi_Minh"

// eventTimeFormat is the local date-time layout the Calendar API accepts
// alongside an explicit TimeZone field.
const eventTimeFormat = "2006-01-02T15:04:05"

// EventInput is the input for creating a calendar event.
type EventInput struct {
	Summary     string
	Description string
	Start       time.Time
	End         time.Time
	TimeZone    string
}

// EventSummary is a simplified calendar event for listing.
type EventSummary struct {
	ID          string `json:"id"`
	Summary     string `json:"summary"`
	Description string `json:"description,omitempty"`
	Start       string `json:"start"`
	End         string `json:"end,omitempty"`
	Status      string `json:"status,omitempty"`
	HTMLLink    string `json:"htmlLink,omitempty"`
}

// toEventSummary converts a Calendar API event. All-day events carry a date
// instead of a date-time; whichever is set is kept verbatim.
func toEventSummary(e *calendar.Event) EventSummary {
	summary := EventSummary{
		ID:          e.Id,
		Summary:     e.Summary,
		Description: e.Description,
		Status:      e.Status,
		HTMLLink:    e.HtmlLink,
	}
	if e.Start != nil {
		summary.Start = e.Start.DateTime
		if summary.Start == "" {
			summary.Start = e.Start.Date
		}
	}
	if e.End != nil {
		summary.End = e.End.DateTime
		if summary.End == "" {
			summary.End = e.End.Date
		}
	}
	return summary
}
