package calendar_tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/mcptools/mcp-gsuite/internal/calendar"
	"github.com/mcptools/mcp-gsuite/internal/instrumentation"
	"github.com/mcptools/mcp-gsuite/internal/server"
	"github.com/mcptools/mcp-gsuite/internal/tools/common"
)

// RegisterCalendarTools registers all Calendar-related tools with the MCP server.
func RegisterCalendarTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	userIDDesc := userIDDescription(sc)

	listCalendarsTool := mcp.NewTool("list_calendars",
		mcp.WithDescription("Lists all calendars accessible by the user."),
		mcp.WithString("user_id",
			mcp.Required(),
			mcp.Description(userIDDesc),
		),
	)
	s.AddTool(listCalendarsTool, common.InstrumentedToolHandlerWithService(
		"list_calendars", instrumentation.ServiceCalendar, instrumentation.OperationList, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleListCalendars(ctx, request, sc)
		}))

	getEventsTool := mcp.NewTool("get_calendar_events",
		mcp.WithDescription("Retrieves calendar events from the user's Google Calendar within a specified time range."),
		mcp.WithString("user_id",
			mcp.Required(),
			mcp.Description(userIDDesc),
		),
		mcp.WithString("calendar_id",
			mcp.Description("The ID of the calendar to query (defaults to 'primary')"),
		),
		mcp.WithString("time_min",
			mcp.Description("Start time in RFC3339 format (e.g. 2024-12-01T00:00:00Z). Defaults to the current time."),
		),
		mcp.WithString("time_max",
			mcp.Description("End time in RFC3339 format (e.g. 2024-12-31T23:59:59Z). Optional."),
		),
		mcp.WithNumber("max_results",
			mcp.Description("Maximum number of events to return (1-2500, default 250)"),
		),
		mcp.WithBoolean("show_deleted",
			mcp.Description("Whether to include deleted events (default false)"),
		),
	)
	s.AddTool(getEventsTool, common.InstrumentedToolHandlerWithService(
		"get_calendar_events", instrumentation.ServiceCalendar, instrumentation.OperationList, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleGetEvents(ctx, request, sc)
		}))

	createEventTool := mcp.NewTool("create_calendar_event",
		mcp.WithDescription("Creates a new event in a specified Google Calendar."),
		mcp.WithString("user_id",
			mcp.Required(),
			mcp.Description(userIDDesc),
		),
		mcp.WithString("summary",
			mcp.Required(),
			mcp.Description("Title of the event"),
		),
		mcp.WithString("start_time",
			mcp.Required(),
			mcp.Description("Start time in RFC3339 format (e.g. 2024-12-01T10:00:00Z)"),
		),
		mcp.WithString("end_time",
			mcp.Required(),
			mcp.Description("End time in RFC3339 format (e.g. 2024-12-01T11:00:00Z)"),
		),
		mcp.WithString("calendar_id",
			mcp.Description("The ID of the calendar to create the event in (defaults to 'primary')"),
		),
		mcp.WithString("location",
			mcp.Description("Location of the event (optional)"),
		),
		mcp.WithString("description",
			mcp.Description("Description or notes for the event (optional)"),
		),
		mcp.WithArray("attendees",
			mcp.Description("List of attendee email addresses (optional)"),
		),
		mcp.WithString("timezone",
			mcp.Description("Timezone for the event, e.g. 'Europe/Berlin' (defaults to UTC)"),
		),
		mcp.WithBoolean("send_notifications",
			mcp.Description("Whether to send invitations to attendees (default true)"),
		),
	)
	s.AddTool(createEventTool, common.InstrumentedToolHandlerWithService(
		"create_calendar_event", instrumentation.ServiceCalendar, instrumentation.OperationCreate, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleCreateEvent(ctx, request, sc)
		}))

	deleteEventTool := mcp.NewTool("delete_calendar_event",
		mcp.WithDescription("Deletes an event from the user's Google Calendar by its event ID."),
		mcp.WithString("user_id",
			mcp.Required(),
			mcp.Description(userIDDesc),
		),
		mcp.WithString("event_id",
			mcp.Required(),
			mcp.Description("The ID of the calendar event to delete"),
		),
		mcp.WithString("calendar_id",
			mcp.Description("The ID of the calendar containing the event (defaults to 'primary')"),
		),
		mcp.WithBoolean("send_notifications",
			mcp.Description("Whether to notify attendees about the deletion (default true)"),
		),
	)
	s.AddTool(deleteEventTool, common.InstrumentedToolHandlerWithService(
		"delete_calendar_event", instrumentation.ServiceCalendar, instrumentation.OperationDelete, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleDeleteEvent(ctx, request, sc)
		}))

	return nil
}

// userIDDescription builds the user_id argument description, enumerating the
// configured accounts so the model knows which values are valid.
func userIDDescription(sc *server.ServerContext) string {
	return fmt.Sprintf("The email of the Google account for which you are executing this action. Must be one of: %s",
		sc.Registry().DescribeAll())
}

// calendarClient resolves the Calendar client for the requested account,
// turning auth failures into tool error results with recovery instructions.
func calendarClient(sc *server.ServerContext, userID string) (*calendar.Client, *mcp.CallToolResult) {
	client, err := sc.CalendarClientForAccount(userID)
	if err == nil {
		return client, nil
	}

	if sc.Registry().Lookup(userID) == nil {
		return nil, mcp.NewToolResultError(err.Error())
	}

	authURL := sc.Authenticator().AuthURL(userID)
	return nil, mcp.NewToolResultError(fmt.Sprintf(`No valid credentials for %s: %v

To authorize access:

1. Visit this URL in your browser:
   %s

2. Sign in with the Google account and grant access
3. Copy the authorization code from the redirect
4. Provide the code to the gsuite_save_auth_code tool to complete authentication

You only need to authorize once; tokens are refreshed automatically.`, userID, err, authURL))
}

func handleListCalendars(_ context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	userID, err := common.GetUserID(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	client, errResult := calendarClient(sc, userID)
	if errResult != nil {
		return errResult, nil
	}

	calendars, err := client.ListCalendars()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to list calendars: %v", err)), nil
	}

	jsonBytes, err := json.MarshalIndent(calendars, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to format calendars: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func handleGetEvents(_ context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	userID, err := common.GetUserID(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	client, errResult := calendarClient(sc, userID)
	if errResult != nil {
		return errResult, nil
	}

	query := calendar.EventQuery{
		CalendarID:  common.GetString(args, "calendar_id", ""),
		TimeMin:     common.GetString(args, "time_min", ""),
		TimeMax:     common.GetString(args, "time_max", ""),
		MaxResults:  common.GetInt(args, "max_results", 250),
		ShowDeleted: common.GetBool(args, "show_deleted", false),
	}

	events, err := client.GetEvents(query)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to retrieve events: %v", err)), nil
	}

	jsonBytes, err := json.MarshalIndent(events, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to format events: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func handleCreateEvent(_ context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	userID, err := common.GetUserID(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	client, errResult := calendarClient(sc, userID)
	if errResult != nil {
		return errResult, nil
	}

	req := calendar.EventRequest{
		Summary:           common.GetString(args, "summary", ""),
		StartTime:         common.GetString(args, "start_time", ""),
		EndTime:           common.GetString(args, "end_time", ""),
		Location:          common.GetString(args, "location", ""),
		Description:       common.GetString(args, "description", ""),
		Attendees:         common.GetStringSlice(args, "attendees"),
		TimeZone:          common.GetString(args, "timezone", ""),
		SendNotifications: common.GetBool(args, "send_notifications", true),
		CalendarID:        common.GetString(args, "calendar_id", ""),
	}

	event, err := client.CreateEvent(req)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to create event: %v", err)), nil
	}

	jsonBytes, err := json.MarshalIndent(event, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to format event: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func handleDeleteEvent(_ context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	userID, err := common.GetUserID(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	eventID := common.GetString(args, "event_id", "")
	if eventID == "" {
		return mcp.NewToolResultError("event_id is required"), nil
	}

	client, errResult := calendarClient(sc, userID)
	if errResult != nil {
		return errResult, nil
	}

	calendarID := common.GetString(args, "calendar_id", "")
	sendNotifications := common.GetBool(args, "send_notifications", true)

	result := calendar.DeleteResult{Success: true, Message: fmt.Sprintf("Successfully deleted event %s", eventID)}
	if err := client.DeleteEvent(eventID, sendNotifications, calendarID); err != nil {
		result.Success = false
		result.Message = fmt.Sprintf("Failed to delete event %s: %v", eventID, err)
	}

	jsonBytes, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to format result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonBytes)), nil
}
