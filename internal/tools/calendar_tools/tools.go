package calendar_tools

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/pubpug/workspace-mcp/internal/calendar"
	"github.com/pubpug/workspace-mcp/internal/server"
	"github.com/pubpug/workspace-mcp/internal/tools/common"
)

// eventInputFormat is the local date-time layout event tools accept.
const eventInputFormat = "2006-01-02T15:04"

// RegisterCalendarTools registers all Calendar-related tools with the MCP
// server.
func RegisterCalendarTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	listEventsTool := mcp.NewTool("calendar_list_events",
		mcp.WithDescription("List events on the primary calendar, ordered by start time"),
		mcp.WithNumber("maxResults",
			mcp.Description("Maximum number of events to return (default: 10)"),
		),
		mcp.WithNumber("daysBack",
			mcp.Description("Include events starting up to this many days in the past (default: 0)"),
		),
	)

	s.AddTool(listEventsTool, common.InstrumentedWithService("calendar_list_events", "calendar", "list_events", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args, _ := request.Params.Arguments.(map[string]interface{})

			maxResults := int64(10)
			if v, ok := args["maxResults"].(float64); ok && v > 0 {
				maxResults = int64(v)
			}
			daysBack := 0
			if v, ok := args["daysBack"].(float64); ok && v > 0 {
				daysBack = int(v)
			}

			client, err := sc.CalendarClient()
			if err != nil {
				return common.ErrorResult(sc, err), nil
			}

			events, err := client.ListEvents(maxResults, daysBack)
			if err != nil {
				return common.ErrorResult(sc, err), nil
			}
			if len(events) == 0 {
				return mcp.NewToolResultText("No events found."), nil
			}

			result, _ := json.MarshalIndent(events, "", "  ")
			return mcp.NewToolResultText(string(result)), nil
		}))

	if readOnly {
		return nil
	}

	createEventTool := mcp.NewTool("calendar_create_event",
		mcp.WithDescription(fmt.Sprintf(
			"Create an event on the primary calendar. Times use format YYYY-MM-DDTHH:MM in the %s timezone unless another is given.",
			calendar.DefaultTimeZone)),
		mcp.WithString("summary",
			mcp.Required(),
			mcp.Description("Event title"),
		),
		mcp.WithString("startTime",
			mcp.Required(),
			mcp.Description("Start time, format: YYYY-MM-DDTHH:MM"),
		),
		mcp.WithString("endTime",
			mcp.Required(),
			mcp.Description("End time, format: YYYY-MM-DDTHH:MM"),
		),
		mcp.WithString("description",
			mcp.Description("Event description"),
		),
		mcp.WithString("timeZone",
			mcp.Description(fmt.Sprintf("IANA timezone name (default: %s)", calendar.DefaultTimeZone)),
		),
	)

	s.AddTool(createEventTool, common.InstrumentedWithService("calendar_create_event", "calendar", "create_event", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args, _ := request.Params.Arguments.(map[string]interface{})

			summary, ok := args["summary"].(string)
			if !ok || summary == "" {
				return mcp.NewToolResultError("summary is required"), nil
			}

			start, err := parseEventTime(args["startTime"])
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("startTime: %v", err)), nil
			}
			end, err := parseEventTime(args["endTime"])
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("endTime: %v", err)), nil
			}
			if !end.After(start) {
				return mcp.NewToolResultError("endTime must be after startTime"), nil
			}

			input := calendar.EventInput{
				Summary: summary,
				Start:   start,
				End:     end,
			}
			if v, ok := args["description"].(string); ok {
				input.Description = v
			}
			if v, ok := args["timeZone"].(string); ok {
				input.TimeZone = v
			}

			client, err := sc.CalendarClient()
			if err != nil {
				return common.ErrorResult(sc, err), nil
			}

			event, err := client.CreateEvent(input)
			if err != nil {
				return common.ErrorResult(sc, err), nil
			}

			return mcp.NewToolResultText(fmt.Sprintf("Event created: %s", event.HTMLLink)), nil
		}))

	return nil
}

// parseEventTime parses the YYYY-MM-DDTHH:MM wall-clock format, also
// accepting a trailing seconds component.
func parseEventTime(arg interface{}) (time.Time, error) {
	s, ok := arg.(string)
	if !ok || s == "" {
		return time.Time{}, fmt.Errorf("required, format: YYYY-MM-DDTHH:MM")
	}
	if t, err := time.Parse(eventInputFormat, s); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02T15:04:05", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q, format: YYYY-MM-DDTHH:MM", s)
	}
	return t, nil
}
