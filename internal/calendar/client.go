package calendar

import (
	"context"
	"fmt"
	"net/http"
	"time"

	calendar "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

const (
	// DefaultCalendarID addresses the account's primary calendar.
	DefaultCalendarID = "primary"

	// maxEventResults caps a single events query.
	maxEventResults = 2500

	// defaultEventResults is used when the query leaves MaxResults unset.
	defaultEventResults = 250
)

// Client wraps the Calendar service for one account.
type Client struct {
	svc     *calendar.Service
	account string

	// now is swappable for tests.
	now func() time.Time
}

// NewClient creates a Calendar client for the given account using an
// authenticated HTTP client.
func NewClient(ctx context.Context, httpClient *http.Client, account string) (*Client, error) {
	svc, err := calendar.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create Calendar service: %w", err)
	}
	return &Client{
		svc:     svc,
		account: account,
		now:     time.Now,
	}, nil
}

// Account returns the account email this client is associated with.
func (c *Client) Account() string {
	return c.account
}

// ListCalendars returns all calendars accessible by the account.
func (c *Client) ListCalendars() ([]*CalendarInfo, error) {
	list, err := c.svc.CalendarList.List().Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list calendars: %w", err)
	}

	calendars := make([]*CalendarInfo, 0, len(list.Items))
	for _, entry := range list.Items {
		calendars = append(calendars, convertCalendarEntry(entry))
	}
	return calendars, nil
}

func convertCalendarEntry(entry *calendar.CalendarListEntry) *CalendarInfo {
	return &CalendarInfo{
		ID:         entry.Id,
		Summary:    entry.Summary,
		Primary:    entry.Primary,
		TimeZone:   entry.TimeZone,
		Etag:       entry.Etag,
		AccessRole: entry.AccessRole,
	}
}

// EventQuery parameterizes GetEvents. Zero values select the defaults:
// timeMin = now, maxResults = 250, calendar = primary.
type EventQuery struct {
	TimeMin     string
	TimeMax     string
	MaxResults  int64
	ShowDeleted bool
	CalendarID  string
}

// GetEvents retrieves events in a time range, expanded to single instances
// and ordered by start time. MaxResults is clamped to 1..2500; TimeMin
// defaults to the current time in UTC.
func (c *Client) GetEvents(q EventQuery) ([]*Event, error) {
	calendarID := q.CalendarID
	if calendarID == "" {
		calendarID = DefaultCalendarID
	}

	timeMin := q.TimeMin
	if timeMin == "" {
		timeMin = c.now().UTC().Format(time.RFC3339)
	}

	maxResults := q.MaxResults
	if maxResults == 0 {
		maxResults = defaultEventResults
	}
	if maxResults < 1 {
		maxResults = 1
	}
	if maxResults > maxEventResults {
		maxResults = maxEventResults
	}

	call := c.svc.Events.List(calendarID).
		TimeMin(timeMin).
		MaxResults(maxResults).
		SingleEvents(true).
		OrderBy("startTime").
		ShowDeleted(q.ShowDeleted)
	if q.TimeMax != "" {
		call = call.TimeMax(q.TimeMax)
	}

	res, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	events := make([]*Event, 0, len(res.Items))
	for _, item := range res.Items {
		events = append(events, convertEvent(item))
	}
	return events, nil
}

// CreateEvent creates a new event. The event time zone defaults to UTC.
func (c *Client) CreateEvent(req EventRequest) (*calendar.Event, error) {
	if req.Summary == "" {
		return nil, fmt.Errorf("summary is required")
	}
	if req.StartTime == "" || req.EndTime == "" {
		return nil, fmt.Errorf("start and end times are required")
	}

	calendarID := req.CalendarID
	if calendarID == "" {
		calendarID = DefaultCalendarID
	}
	timeZone := req.TimeZone
	if timeZone == "" {
		timeZone = "UTC"
	}

	event := &calendar.Event{
		Summary: req.Summary,
		Start: &calendar.EventDateTime{
			DateTime: req.StartTime,
			TimeZone: timeZone,
		},
		End: &calendar.EventDateTime{
			DateTime: req.EndTime,
			TimeZone: timeZone,
		},
		Location:    req.Location,
		Description: req.Description,
	}
	for _, email := range req.Attendees {
		event.Attendees = append(event.Attendees, &calendar.EventAttendee{Email: email})
	}

	created, err := c.svc.Events.Insert(calendarID, event).
		SendNotifications(req.SendNotifications).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}
	return created, nil
}

// DeleteEvent deletes an event by its ID.
func (c *Client) DeleteEvent(eventID string, sendNotifications bool, calendarID string) error {
	if eventID == "" {
		return fmt.Errorf("eventID is required")
	}
	if calendarID == "" {
		calendarID = DefaultCalendarID
	}

	if err := c.svc.Events.Delete(calendarID, eventID).
		SendNotifications(sendNotifications).
		Do(); err != nil {
		return fmt.Errorf("failed to delete event %s: %w", eventID, err)
	}
	return nil
}

func convertEvent(item *calendar.Event) *Event {
	return &Event{
		ID:               item.Id,
		Summary:          item.Summary,
		Description:      item.Description,
		Start:            item.Start,
		End:              item.End,
		Status:           item.Status,
		Creator:          item.Creator,
		Organizer:        item.Organizer,
		Attendees:        item.Attendees,
		Location:         item.Location,
		HangoutLink:      item.HangoutLink,
		ConferenceData:   item.ConferenceData,
		RecurringEventID: item.RecurringEventId,
	}
}
