package gmail_tools

import (
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/mcptools/mcp-gsuite/internal/gmail"
	"github.com/mcptools/mcp-gsuite/internal/server"
)

// userIDDescription builds the user_id argument description, enumerating the
// configured accounts so the model knows which values are valid.
func userIDDescription(sc *server.ServerContext) string {
	return fmt.Sprintf("The email of the Google account for which you are executing this action. Must be one of: %s",
		sc.Registry().DescribeAll())
}

// gmailClient resolves the Gmail client for the requested account. On
// failure it returns a tool error result with recovery instructions; a
// missing token gets the consent URL plus the companion auth tools.
func gmailClient(sc *server.ServerContext, userID string) (*gmail.Client, *mcp.CallToolResult) {
	client, err := sc.GmailClientForAccount(userID)
	if err != nil {
		return nil, authErrorResult(sc, userID, err)
	}
	return client, nil
}

func authErrorResult(sc *server.ServerContext, userID string, err error) *mcp.CallToolResult {
	if sc.Registry().Lookup(userID) == nil {
		return mcp.NewToolResultError(err.Error())
	}

	authURL := sc.Authenticator().AuthURL(userID)
	return mcp.NewToolResultError(fmt.Sprintf(`No valid credentials for %s: %v

To authorize access:

1. Visit this URL in your browser:
   %s

2. Sign in with the Google account and grant access
3. Copy the authorization code from the redirect
4. Provide the code to the gsuite_save_auth_code tool to complete authentication

You only need to authorize once; tokens are refreshed automatically.`, userID, err, authURL))
}
