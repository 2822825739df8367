package common

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/mcptools/mcp-gsuite/internal/config"
	"github.com/mcptools/mcp-gsuite/internal/google"
	"github.com/mcptools/mcp-gsuite/internal/instrumentation"
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

	sc, err := server.NewServerContext(context.Background(), server.Options{
		Registry: &config.Registry{
			Accounts: []config.Account{{Email: "alice@example.com"}},
		},
		Paths: paths,
		Auth:  auth,
	})
	if err != nil {
		t.Fatalf("NewServerContext() error = %v", err)
	}
	t.Cleanup(func() { _ = sc.Shutdown() })
	return sc
}

func requestWithArgs(args map[string]interface{}) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      "test_tool",
			Arguments: args,
		},
	}
}

func TestInstrumentedToolHandlerSuccess(t *testing.T) {
	sc := newTestContext(t)

	called := false
	handler := func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		called = true
		return mcp.NewToolResultText("ok"), nil
	}

	wrapped := InstrumentedToolHandler("test_tool", sc, handler)
	result, err := wrapped(context.Background(), requestWithArgs(map[string]interface{}{
		"user_id": "alice@example.com",
	}))
	if err != nil {
		t.Fatalf("wrapped handler returned error: %v", err)
	}
	if !called {
		t.Error("inner handler was not called")
	}
	if result.IsError {
		t.Error("unexpected error result")
	}
}

func TestInstrumentedToolHandlerError(t *testing.T) {
	sc := newTestContext(t)

	wantErr := errors.New("boom")
	handler := func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return nil, wantErr
	}

	wrapped := InstrumentedToolHandler("test_tool", sc, handler)
	_, err := wrapped(context.Background(), requestWithArgs(nil))
	if !errors.Is(err, wantErr) {
		t.Errorf("err = %v, want %v", err, wantErr)
	}
}

func TestInstrumentedToolHandlerErrorResult(t *testing.T) {
	sc := newTestContext(t)

	handler := func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return mcp.NewToolResultError("bad input"), nil
	}

	wrapped := InstrumentedToolHandler("test_tool", sc, handler)
	result, err := wrapped(context.Background(), requestWithArgs(nil))
	if err != nil {
		t.Fatalf("wrapped handler returned error: %v", err)
	}
	if !result.IsError {
		t.Error("error result should be passed through")
	}
}

func TestInstrumentedToolHandlerStartsSpan(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	provider, err := instrumentation.NewProvider(ctx, instrumentation.Config{
		ServiceName:     "test-service",
		ServiceVersion:  "1.0.0",
		Enabled:         true,
		MetricsExporter: "prometheus",
		TracingExporter: "none",
	})
	if err != nil {
		t.Fatalf("failed to create provider: %v", err)
	}
	defer func() { _ = provider.Shutdown(ctx) }()

	sc := newTestContext(t)

	var traceID string
	handler := func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		traceID = instrumentation.GetTraceID(ctx)
		return mcp.NewToolResultText("ok"), nil
	}

	wrapped := InstrumentedToolHandler("test_tool", sc, handler)
	if _, err := wrapped(ctx, requestWithArgs(map[string]interface{}{
		"user_id": "alice@example.com",
	})); err != nil {
		t.Fatalf("wrapped handler returned error: %v", err)
	}
	if traceID == "" {
		t.Error("handler context should carry a span")
	}
}

func TestInstrumentedToolHandlerWithService(t *testing.T) {
	sc := newTestContext(t)

	handler := func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return mcp.NewToolResultText("ok"), nil
	}

	wrapped := InstrumentedToolHandlerWithService("query_gmail_emails", "gmail", "search", sc, handler)
	result, err := wrapped(context.Background(), requestWithArgs(map[string]interface{}{
		"user_id": "alice@example.com",
	}))
	if err != nil {
		t.Fatalf("wrapped handler returned error: %v", err)
	}
	if result.IsError {
		t.Error("unexpected error result")
	}
}
