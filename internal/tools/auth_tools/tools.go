// Package auth_tools provides MCP tools for the OAuth2 authorization flow:
// producing consent URLs and exchanging authorization codes for stored
// credentials.
package auth_tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/mcptools/mcp-gsuite/internal/instrumentation"
	"github.com/mcptools/mcp-gsuite/internal/server"
	"github.com/mcptools/mcp-gsuite/internal/tools/common"
)

// RegisterAuthTools registers the OAuth2 authorization tools with the MCP server.
func RegisterAuthTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	userIDDesc := fmt.Sprintf("The email of the Google account to authorize. Must be one of: %s",
		sc.Registry().DescribeAll())

	getAuthURLTool := mcp.NewTool("gsuite_get_auth_url",
		mcp.WithDescription("Returns the Google OAuth2 consent URL for an account. Open the URL in a browser, sign in, and grant access; then pass the resulting authorization code to gsuite_save_auth_code."),
		mcp.WithString("user_id",
			mcp.Required(),
			mcp.Description(userIDDesc),
		),
	)
	s.AddTool(getAuthURLTool, common.InstrumentedToolHandlerWithService(
		"gsuite_get_auth_url", instrumentation.ServiceOAuth, instrumentation.OperationGet, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleGetAuthURL(ctx, request, sc)
		}))

	saveAuthCodeTool := mcp.NewTool("gsuite_save_auth_code",
		mcp.WithDescription("Exchanges an OAuth2 authorization code for credentials and stores them for the account. The code must come from the consent URL produced by gsuite_get_auth_url."),
		mcp.WithString("user_id",
			mcp.Required(),
			mcp.Description(userIDDesc),
		),
		mcp.WithString("authorization_code",
			mcp.Required(),
			mcp.Description("The authorization code returned by the Google consent page"),
		),
	)
	s.AddTool(saveAuthCodeTool, common.InstrumentedToolHandlerWithService(
		"gsuite_save_auth_code", instrumentation.ServiceOAuth, instrumentation.OperationCreate, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleSaveAuthCode(ctx, request, sc)
		}))

	return nil
}

func handleGetAuthURL(_ context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	userID, err := common.GetUserID(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if sc.Registry().Lookup(userID) == nil {
		return mcp.NewToolResultError(fmt.Sprintf("account %s is not configured; valid accounts: %s",
			userID, sc.Registry().DescribeAll())), nil
	}

	authURL := sc.Authenticator().AuthURL(userID)
	return mcp.NewToolResultText(fmt.Sprintf(`To authorize %s, visit this URL in your browser:

%s

After granting access, copy the authorization code and pass it to the gsuite_save_auth_code tool.`, userID, authURL)), nil
}

func handleSaveAuthCode(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	userID, err := common.GetUserID(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	code := common.GetString(args, "authorization_code", "")
	if code == "" {
		return mcp.NewToolResultError("authorization_code is required"), nil
	}
	if sc.Registry().Lookup(userID) == nil {
		return mcp.NewToolResultError(fmt.Sprintf("account %s is not configured; valid accounts: %s",
			userID, sc.Registry().DescribeAll())), nil
	}

	email, err := sc.Authenticator().Authorize(ctx, code, userID)
	if err != nil {
		sc.Metrics().RecordOAuthAuth(ctx, instrumentation.OAuthResultFailure)
		return mcp.NewToolResultError(fmt.Sprintf("Failed to authorize %s: %v", userID, err)), nil
	}

	sc.Metrics().RecordOAuthAuth(ctx, instrumentation.OAuthResultSuccess)
	return mcp.NewToolResultText(fmt.Sprintf("Credentials stored for %s. Gmail and Calendar tools are now available for this account.", email)), nil
}
