package calendar

import calendar "google.golang.org/api/calendar/v3"

// CalendarInfo is the JSON-friendly view of a calendar list entry.
type CalendarInfo struct {
	ID         string `json:"id"`
	Summary    string `json:"summary"`
	Primary    bool   `json:"primary"`
	TimeZone   string `json:"time_zone,omitempty"`
	Etag       string `json:"etag,omitempty"`
	AccessRole string `json:"access_role,omitempty"`
}

// Event is the JSON-friendly view of a calendar event.
type Event struct {
	ID               string                    `json:"id"`
	Summary          string                    `json:"summary,omitempty"`
	Description      string                    `json:"description,omitempty"`
	Start            *calendar.EventDateTime   `json:"start,omitempty"`
	End              *calendar.EventDateTime   `json:"end,omitempty"`
	Status           string                    `json:"status,omitempty"`
	Creator          *calendar.EventCreator    `json:"creator,omitempty"`
	Organizer        *calendar.EventOrganizer  `json:"organizer,omitempty"`
	Attendees        []*calendar.EventAttendee `json:"attendees,omitempty"`
	Location         string                    `json:"location,omitempty"`
	HangoutLink      string                    `json:"hangoutLink,omitempty"`
	ConferenceData   *calendar.ConferenceData  `json:"conferenceData,omitempty"`
	RecurringEventID string                    `json:"recurringEventId,omitempty"`
}

// EventRequest carries the fields for creating an event.
type EventRequest struct {
	Summary           string
	StartTime         string
	EndTime           string
	Location          string
	Description       string
	Attendees         []string
	TimeZone          string
	SendNotifications bool
	CalendarID        string
}

// DeleteResult is the response shape of a delete operation.
type DeleteResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
