package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the mcp-gsuite application
var rootCmd = &cobra.Command{
	Use:   "mcp-gsuite",
	Short: "MCP server for Google Workspace (Gmail and Calendar)",
	Long: `mcp-gsuite is a Model Context Protocol (MCP) server that exposes Gmail
and Google Calendar operations as tools for AI assistants.

It supports multiple Google accounts with OAuth2 credentials stored locally,
and can run over stdio or streamable HTTP transports.`,
	SilenceUsage: true,
}

// version will be set by main
var version = "dev"

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "mcp-gsuite version %s\n" .Version}}`)

	// If no subcommand is provided, run the serve command by default
	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newAuthCmd())
	rootCmd.AddCommand(newUpdateDocsCmd())
	rootCmd.AddCommand(newGenerateDocsCmd())
	rootCmd.AddCommand(newVersionCmd())
}
