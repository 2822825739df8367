package cmd

import (
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/mcptools/mcp-gsuite/internal/config"
)

func TestResolvePaths(t *testing.T) {
	tests := []struct {
		name         string
		gauthFile    string
		accountsFile string
		credsDir     string
		want         config.Paths
	}{
		{
			name: "defaults",
			want: config.Paths{
				GAuthFile:    config.DefaultGAuthFile,
				AccountsFile: config.DefaultAccountsFile,
				CredsDir:     config.DefaultCredsDir,
			},
		},
		{
			name:         "flags override defaults",
			gauthFile:    "/etc/gsuite/.gauth.json",
			accountsFile: "/etc/gsuite/.accounts.json",
			credsDir:     "/var/lib/gsuite",
			want: config.Paths{
				GAuthFile:    "/etc/gsuite/.gauth.json",
				AccountsFile: "/etc/gsuite/.accounts.json",
				CredsDir:     "/var/lib/gsuite",
			},
		},
		{
			name:      "partial override",
			gauthFile: "/etc/gsuite/.gauth.json",
			want: config.Paths{
				GAuthFile:    "/etc/gsuite/.gauth.json",
				AccountsFile: config.DefaultAccountsFile,
				CredsDir:     config.DefaultCredsDir,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := resolvePaths(tt.gauthFile, tt.accountsFile, tt.credsDir)
			if got != tt.want {
				t.Errorf("resolvePaths() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestGetCategoryFromToolName(t *testing.T) {
	tests := []struct {
		name     string
		toolName string
		want     string
	}{
		{"gmail query", "query_gmail_emails", "Gmail Tools"},
		{"gmail attachment", "get_gmail_attachment", "Gmail Tools"},
		{"calendar events", "get_calendar_events", "Calendar Tools"},
		{"calendar list", "list_calendars", "Calendar Tools"},
		{"auth url", "gsuite_get_auth_url", "Authorization Tools"},
		{"unknown", "do_something", "Other"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := getCategoryFromToolName(tt.toolName); got != tt.want {
				t.Errorf("getCategoryFromToolName(%q) = %q, want %q", tt.toolName, got, tt.want)
			}
		})
	}
}

func TestGenerateToolMarkdown(t *testing.T) {
	tool := mcp.NewTool("query_gmail_emails",
		mcp.WithDescription("Query Gmail emails."),
		mcp.WithString("user_id",
			mcp.Required(),
			mcp.Description("The account email"),
		),
		mcp.WithString("query",
			mcp.Description("Gmail search query"),
		),
	)

	markdown := generateToolMarkdown(tool)
	if !strings.Contains(markdown, "### query_gmail_emails") {
		t.Errorf("missing tool header:\n%s", markdown)
	}
	if !strings.Contains(markdown, "`user_id` (required)") {
		t.Errorf("missing required argument:\n%s", markdown)
	}
	if !strings.Contains(markdown, "`query` (optional)") {
		t.Errorf("missing optional argument:\n%s", markdown)
	}
}
