package calendar

import (
	"context"
	"fmt"
	"time"

	calendar "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"golang.org/x/oauth2"
)

// Client wraps the Google Calendar service for the primary calendar.
type Client struct {
	svc *calendar.Service
}

// NewClient creates a Calendar client authenticated through the given token
// source.
func NewClient(ctx context.Context, ts oauth2.TokenSource) (*Client, error) {
	svc, err := calendar.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, fmt.Errorf("creating Calendar service: %w", err)
	}
	return &Client{svc: svc}, nil
}

// ListEvents lists upcoming events on the primary calendar, expanded to
// single instances and ordered by start time. daysBack widens the window
// backwards from now.
func (c *Client) ListEvents(maxResults int64, daysBack int) ([]EventSummary, error) {
	if maxResults <= 0 {
		maxResults = 10
	}
	timeMin := time.Now().UTC().AddDate(0, 0, -daysBack)

	res, err := c.svc.Events.List("primary").
		TimeMin(timeMin.Format(time.RFC3339)).
		MaxResults(maxResults).
		SingleEvents(true).
		OrderBy("startTime").
		Do()
	if err != nil {
		return nil, fmt.Errorf("listing calendar events: %w", err)
	}

	var events []EventSummary
	for _, e := range res.Items {
		events = append(events, toEventSummary(e))
	}
	return events, nil
}

// CreateEvent creates an event on the primary calendar and returns the
// created event with its browser link.
func (c *Client) CreateEvent(input EventInput) (*EventSummary, error) {
	tz := input.TimeZone
	if tz == "" {
		tz = DefaultTimeZone
	}

	event := &calendar.Event{
		Summary:     input.Summary,
		Description: input.Description,
		Start: &calendar.EventDateTime{
			DateTime: input.Start.Format(eventTimeFormat),
			TimeZone: tz,
		},
		End: &calendar.EventDateTime{
			DateTime: input.End.Format(eventTimeFormat),
			TimeZone: tz,
		},
	}

	created, err := c.svc.Events.Insert("primary", event).Do()
	if err != nil {
		return nil, fmt.Errorf("creating calendar event: %w", err)
	}

	result := toEventSummary(created)
	return &result, nil
}
