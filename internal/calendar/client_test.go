package calendar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	calendar "google.golang.org/api/calendar/v3"
)

func TestToEventSummaryDateTime(t *testing.T) {
	e := toEventSummary(&calendar.Event{
		Id:      "ev1",
		Summary: "Standup",
		Status:  "confirmed",
		Start:   &calendar.EventDateTime{DateTime: "2024-03-01T09:00:00+07:00"},
		End:     &calendar.EventDateTime{DateTime: "2024-03-01T09:15:00+07:00"},
	})

	assert.Equal(t, "ev1", e.ID)
	assert.Equal(t, "Standup", e.Summary)
	assert.Equal(t, "2024-03-01T09:00:00+07:00", e.Start)
	assert.Equal(t, "2024-03-01T09:15:00+07:00", e.End)
}

func TestToEventSummaryAllDay(t *testing.T) {
	e := toEventSummary(&calendar.Event{
		Id:    "ev2",
		Start: &calendar.EventDateTime{Date: "2024-03-02"},
		End:   &calendar.EventDateTime{Date: "2024-03-03"},
	})

	assert.Equal(t, "2024-03-02", e.Start)
	assert.Equal(t, "2024-03-03", e.End)
}

func TestToEventSummaryMissingTimes(t *testing.T) {
	e := toEventSummary(&calendar.Event{Id: "ev3"})
	assert.Empty(t, e.Start)
	assert.Empty(t, e.End)
}
