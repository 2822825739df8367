package resources

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/mcptools/mcp-gsuite/internal/server"
)

// RegisterAccountResources registers account-related resources with the MCP server.
func RegisterAccountResources(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	accountsResource := mcp.NewResource(
		"gsuite://accounts",
		"Configured Accounts",
		mcp.WithResourceDescription("The Google accounts this server is configured to act on, with their type and context notes"),
		mcp.WithMIMEType("application/json"),
	)
	s.AddResource(accountsResource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return handleAccountsList(ctx, request, sc)
	})

	for _, account := range sc.Registry().Accounts {
		email := account.Email
		profileResource := mcp.NewResource(
			fmt.Sprintf("gsuite://profile/%s", email),
			fmt.Sprintf("Gmail Profile: %s", email),
			mcp.WithResourceDescription(fmt.Sprintf("Gmail mailbox profile for %s", email)),
			mcp.WithMIMEType("application/json"),
		)
		s.AddResource(profileResource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
			return handleGmailProfile(ctx, request, sc, email)
		})
	}

	return nil
}

func handleAccountsList(_ context.Context, request mcp.ReadResourceRequest, sc *server.ServerContext) ([]mcp.ResourceContents, error) {
	jsonData, err := json.MarshalIndent(sc.Registry(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal accounts: %w", err)
	}

	return []mcp.ResourceContents{
		&mcp.TextResourceContents{
			URI:      request.Params.URI,
			MIMEType: "application/json",
			Text:     string(jsonData),
		},
	}, nil
}

func handleGmailProfile(_ context.Context, request mcp.ReadResourceRequest, sc *server.ServerContext, email string) ([]mcp.ResourceContents, error) {
	client, err := sc.GmailClientForAccount(email)
	if err != nil {
		return nil, fmt.Errorf("no Gmail client available for %s: %w", email, err)
	}

	profile, err := client.GetProfile()
	if err != nil {
		return nil, fmt.Errorf("failed to get profile for %s: %w", email, err)
	}

	profileData := map[string]interface{}{
		"email":         profile.EmailAddress,
		"historyId":     profile.HistoryId,
		"messagesTotal": profile.MessagesTotal,
		"threadsTotal":  profile.ThreadsTotal,
	}

	jsonData, err := json.MarshalIndent(profileData, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal profile: %w", err)
	}

	return []mcp.ResourceContents{
		&mcp.TextResourceContents{
			URI:      request.Params.URI,
			MIMEType: "application/json",
			Text:     string(jsonData),
		},
	}, nil
}
