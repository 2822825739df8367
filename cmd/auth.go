package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mcptools/mcp-gsuite/internal/config"
	"github.com/mcptools/mcp-gsuite/internal/google"
	"github.com/mcptools/mcp-gsuite/internal/logging"
)

const authFlowTimeout = 5 * time.Minute

func newAuthCmd() *cobra.Command {
	var (
		debugMode    bool
		gauthFile    string
		accountsFile string
		credsDir     string
		callbackAddr string
	)

	cmd := &cobra.Command{
		Use:   "auth <email>",
		Short: "Authorize a Google account",
		Long: `Run the OAuth2 authorization flow for a configured account.

Prints the Google consent URL, starts a local loopback server to receive
the redirect, exchanges the authorization code, verifies the signed-in
identity matches the requested account, and stores the credentials.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			paths := resolvePaths(gauthFile, accountsFile, credsDir)
			return runAuth(args[0], paths, callbackAddr, debugMode)
		},
	}

	cmd.Flags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
	cmd.Flags().StringVar(&gauthFile, "gauth-file", "", "Path to the OAuth client-secret JSON. Can also use MCP_GSUITE_GAUTH_FILE env var.")
	cmd.Flags().StringVar(&accountsFile, "accounts-file", "", "Path to the account registry JSON. Can also use MCP_GSUITE_ACCOUNTS_FILE env var.")
	cmd.Flags().StringVar(&credsDir, "credentials-dir", "", "Directory holding per-account token files. Can also use MCP_GSUITE_CREDENTIALS_DIR env var.")
	cmd.Flags().StringVar(&callbackAddr, "callback-addr", google.DefaultCallbackAddr, "Address for the local OAuth callback server")

	return cmd
}

func runAuth(email string, paths config.Paths, callbackAddr string, debugMode bool) error {
	logger := logging.Setup(debugMode)

	registry, err := config.LoadRegistry(paths.AccountsFile)
	if err != nil {
		return fmt.Errorf("failed to load account registry: %w", err)
	}
	if registry.Lookup(email) == nil {
		return fmt.Errorf("account %s is not configured; valid accounts: %s", email, registry.DescribeAll())
	}

	auth, err := google.NewAuthenticator(paths.GAuthFile, google.NewFileTokenProvider(paths), logger)
	if err != nil {
		return fmt.Errorf("failed to load OAuth client configuration: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	ctx, cancelTimeout := context.WithTimeout(ctx, authFlowTimeout)
	defer cancelTimeout()

	callback := google.NewCallbackServer(callbackAddr, logger)
	if err := callback.Start(); err != nil {
		return fmt.Errorf("failed to start callback server: %w", err)
	}

	fmt.Printf("Visit this URL in your browser to authorize %s:\n\n%s\n\nWaiting for the redirect...\n",
		email, auth.AuthURL(email))

	code, err := callback.WaitForCode(ctx)
	if err != nil {
		return fmt.Errorf("did not receive an authorization code: %w", err)
	}

	verified, err := auth.Authorize(ctx, code, email)
	if err != nil {
		return fmt.Errorf("authorization failed: %w", err)
	}

	fmt.Printf("Credentials stored for %s in %s\n", verified, paths.TokenFile(verified))
	return nil
}
