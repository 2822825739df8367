package google

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"
)

func startTestCallbackServer(t *testing.T) (*CallbackServer, string) {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	addr := ln.Addr().String()
	ln.Close()

	srv := NewCallbackServer(addr, nil)
	if err := srv.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	t.Cleanup(srv.Shutdown)
	return srv, addr
}

func TestCallbackServerReceivesCode(t *testing.T) {
	srv, addr := startTestCallbackServer(t)

	resp, err := http.Get(fmt.Sprintf("http://%s/code?code=abc123&state=alice%%40example.com", addr))
	if err != nil {
		t.Fatalf("GET error = %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "Authorization complete") {
		t.Errorf("unexpected body: %s", body)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	code, err := srv.WaitForCode(ctx)
	if err != nil {
		t.Fatalf("WaitForCode() error = %v", err)
	}
	if code != "abc123" {
		t.Errorf("code = %q, want abc123", code)
	}
}

func TestCallbackServerMissingCode(t *testing.T) {
	_, addr := startTestCallbackServer(t)

	resp, err := http.Get(fmt.Sprintf("http://%s/code", addr))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestCallbackServerWrongPath(t *testing.T) {
	_, addr := startTestCallbackServer(t)

	resp, err := http.Get(fmt.Sprintf("http://%s/other?code=abc", addr))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestCallbackServerContextCancelled(t *testing.T) {
	srv, _ := startTestCallbackServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if _, err := srv.WaitForCode(ctx); err == nil {
		t.Error("expected error after context cancellation")
	}
}

func TestCallbackServerAddrInUse(t *testing.T) {
	_, addr := startTestCallbackServer(t)

	dup := NewCallbackServer(addr, nil)
	if err := dup.Start(); err == nil {
		dup.Shutdown()
		t.Error("expected error binding an address already in use")
	}
}
