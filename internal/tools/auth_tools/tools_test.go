package auth_tools

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/mcptools/mcp-gsuite/internal/config"
	"github.com/mcptools/mcp-gsuite/internal/google"
	"github.com/mcptools/mcp-gsuite/internal/server"
)

const testClientSecret = `{
  "web": {
    "client_id": "test-client-id.apps.googleusercontent.com",
    "client_secret": "test-secret",
    "redirect_uris": ["http://localhost:4100/code"],
    "auth_uri": "https://accounts.google.com/o/oauth2/auth",
    "token_uri": "https://oauth2.googleapis.com/token"
  }
}`

func newTestContext(t *testing.T) *server.ServerContext {
	t.Helper()

	dir := t.TempDir()
	gauthFile := filepath.Join(dir, ".gauth.json")
	if err := os.WriteFile(gauthFile, []byte(testClientSecret), 0600); err != nil {
		t.Fatal(err)
	}

	paths := config.Paths{GAuthFile: gauthFile, CredsDir: dir}
	auth, err := google.NewAuthenticator(gauthFile, google.NewFileTokenProvider(paths), nil)
	if err != nil {
		t.Fatal(err)
	}

	registry := &config.Registry{
		Accounts: []config.Account{
			{Email: "alice@example.com", AccountType: "work"},
		},
	}

	sc, err := server.NewServerContext(context.Background(), server.Options{
		Registry: registry,
		Paths:    paths,
		Auth:     auth,
	})
	if err != nil {
		t.Fatalf("NewServerContext() error = %v", err)
	}
	t.Cleanup(func() { _ = sc.Shutdown() })
	return sc
}

func toolRequest(name string, args map[string]interface{}) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatal("result has no content")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("unexpected content type %T", result.Content[0])
	}
	return text.Text
}

func TestHandleGetAuthURL(t *testing.T) {
	sc := newTestContext(t)

	result, err := handleGetAuthURL(context.Background(), toolRequest("gsuite_get_auth_url", map[string]interface{}{
		"user_id": "alice@example.com",
	}), sc)
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected error result: %s", resultText(t, result))
	}

	text := resultText(t, result)
	if !strings.Contains(text, "https://accounts.google.com") {
		t.Errorf("expected consent URL in output, got %s", text)
	}
	if !strings.Contains(text, "login_hint=alice%40example.com") {
		t.Errorf("consent URL should carry the login hint, got %s", text)
	}
	if !strings.Contains(text, "gsuite_save_auth_code") {
		t.Errorf("output should point at the save tool, got %s", text)
	}
}

func TestHandleGetAuthURLUnknownAccount(t *testing.T) {
	sc := newTestContext(t)

	result, err := handleGetAuthURL(context.Background(), toolRequest("gsuite_get_auth_url", map[string]interface{}{
		"user_id": "stranger@example.com",
	}), sc)
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected error result for unconfigured account")
	}
	if !strings.Contains(resultText(t, result), "not configured") {
		t.Errorf("unexpected error text: %s", resultText(t, result))
	}
}

func TestHandleSaveAuthCodeMissingCode(t *testing.T) {
	sc := newTestContext(t)

	result, err := handleSaveAuthCode(context.Background(), toolRequest("gsuite_save_auth_code", map[string]interface{}{
		"user_id": "alice@example.com",
	}), sc)
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if !result.IsError {
		t.Error("expected error result for missing authorization_code")
	}
}

func TestHandleSaveAuthCodeUnknownAccount(t *testing.T) {
	sc := newTestContext(t)

	result, err := handleSaveAuthCode(context.Background(), toolRequest("gsuite_save_auth_code", map[string]interface{}{
		"user_id":            "stranger@example.com",
		"authorization_code": "4/abc",
	}), sc)
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected error result for unconfigured account")
	}
}

func TestRegisterAuthTools(t *testing.T) {
	sc := newTestContext(t)

	s := mcpserver.NewMCPServer("test-server", "1.0.0",
		mcpserver.WithToolCapabilities(true),
	)
	if err := RegisterAuthTools(s, sc); err != nil {
		t.Fatalf("RegisterAuthTools() error = %v", err)
	}

	registered := make(map[string]bool)
	for _, serverTool := range s.ListTools() {
		registered[serverTool.Tool.Name] = true
	}
	for _, name := range []string{"gsuite_get_auth_url", "gsuite_save_auth_code"} {
		if !registered[name] {
			t.Errorf("tool %s not registered", name)
		}
	}
}
