package config

import (
	"os"
	"path/filepath"
	"strings"
)

// Default file names, relative to the working directory. These mirror the
// dotfile layout users already have from earlier versions of the server.
const (
	DefaultGAuthFile    = ".gauth.json"
	DefaultAccountsFile = ".accounts.json"
	DefaultCredsDir     = "."
)

// Paths holds the resolved locations of the configuration files and the
// per-account credential storage directory.
type Paths struct {
	// GAuthFile is the OAuth client definition (client-secret JSON).
	GAuthFile string

	// AccountsFile is the account registry.
	AccountsFile string

	// CredsDir holds one token file per authorized account.
	CredsDir string
}

// DefaultPaths returns Paths populated from defaults and environment
// variables. Flag values, when set, take precedence over both.
func DefaultPaths() Paths {
	return Paths{
		GAuthFile:    envOrDefault("MCP_GSUITE_GAUTH_FILE", DefaultGAuthFile),
		AccountsFile: envOrDefault("MCP_GSUITE_ACCOUNTS_FILE", DefaultAccountsFile),
		CredsDir:     envOrDefault("MCP_GSUITE_CREDENTIALS_DIR", DefaultCredsDir),
	}
}

// TokenFile returns the token storage path for the given account email.
// The email is lowercased so the registry spelling and the identity Google
// reports during consent resolve to the same file.
func (p Paths) TokenFile(email string) string {
	return filepath.Join(p.CredsDir, ".oauth."+strings.ToLower(email)+".json")
}

func envOrDefault(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}
