package calendar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	calendar "google.golang.org/api/calendar/v3"
)

func TestConvertCalendarEntry(t *testing.T) {
	tests := []struct {
		name     string
		input    *calendar.CalendarListEntry
		expected *CalendarInfo
	}{
		{
			name: "primary calendar",
			input: &calendar.CalendarListEntry{
				Id:         "alice@example.com",
				Summary:    "Alice",
				Primary:    true,
				TimeZone:   "Europe/Berlin",
				Etag:       `"etag-1"`,
				AccessRole: "owner",
			},
			expected: &CalendarInfo{
				ID:         "alice@example.com",
				Summary:    "Alice",
				Primary:    true,
				TimeZone:   "Europe/Berlin",
				Etag:       `"etag-1"`,
				AccessRole: "owner",
			},
		},
		{
			name: "shared calendar",
			input: &calendar.CalendarListEntry{
				Id:         "team@group.calendar.google.com",
				Summary:    "Team Events",
				TimeZone:   "UTC",
				AccessRole: "reader",
			},
			expected: &CalendarInfo{
				ID:         "team@group.calendar.google.com",
				Summary:    "Team Events",
				TimeZone:   "UTC",
				AccessRole: "reader",
			},
		},
		{
			name:     "empty entry",
			input:    &calendar.CalendarListEntry{},
			expected: &CalendarInfo{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, convertCalendarEntry(tt.input))
		})
	}
}
