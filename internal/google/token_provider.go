package google

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/oauth2"

	"github.com/mcptools/mcp-gsuite/internal/config"
)

// TokenProvider abstracts storage of per-account OAuth tokens.
type TokenProvider interface {
	// Token returns the stored token for the given account email.
	Token(email string) (*oauth2.Token, error)

	// Store persists a token for the given account email.
	Store(email string, token *oauth2.Token) error
}

// FileTokenProvider stores tokens as JSON files, one per account,
// in the configured credentials directory.
type FileTokenProvider struct {
	paths config.Paths
}

// NewFileTokenProvider creates a FileTokenProvider using the given paths.
func NewFileTokenProvider(paths config.Paths) *FileTokenProvider {
	return &FileTokenProvider{paths: paths}
}

// Token loads the stored token for an account.
func (p *FileTokenProvider) Token(email string) (*oauth2.Token, error) {
	path := p.paths.TokenFile(email)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("no stored credentials for %s: run the auth flow first", email)
		}
		return nil, fmt.Errorf("failed to read token file: %w", err)
	}

	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("failed to parse token file %s: %w", path, err)
	}
	return &token, nil
}

// Store writes the token for an account with owner-only permissions.
func (p *FileTokenProvider) Store(email string, token *oauth2.Token) error {
	data, err := json.MarshalIndent(token, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode token: %w", err)
	}

	path := p.paths.TokenFile(email)
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("failed to create credentials directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}
	return nil
}
