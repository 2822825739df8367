package google

import (
	calendar "google.golang.org/api/calendar/v3"
	gmail "google.golang.org/api/gmail/v1"
)

// Scopes returns the OAuth scopes requested during authorization.
// Full Gmail access is required for drafts and sending; the userinfo scope
// lets the server verify which account actually completed the consent flow.
func Scopes() []string {
	return []string{
		"openid",
		"https://www.googleapis.com/auth/userinfo.email",
		gmail.MailGoogleComScope,
		calendar.CalendarScope,
	}
}
