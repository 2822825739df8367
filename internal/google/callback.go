package google

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"
)

// DefaultCallbackAddr is the loopback address the callback server binds to.
// It must match the host and port of the redirect URL registered with Google.
const DefaultCallbackAddr = "localhost:4100"

// callbackPath is the path component of the redirect URL.
const callbackPath = "/code"

const successPage = `<html><head><title>Authorization complete</title></head>
<body><h1>Authorization complete</h1>
<p>You can close this window and return to the application.</p></body></html>`

// CallbackServer is a one-shot loopback HTTP server that receives the OAuth
// authorization code redirect from Google.
type CallbackServer struct {
	addr   string
	logger *slog.Logger

	srv   *http.Server
	codes chan string
}

// NewCallbackServer creates a callback server bound to addr. If addr is
// empty, DefaultCallbackAddr is used.
func NewCallbackServer(addr string, logger *slog.Logger) *CallbackServer {
	if addr == "" {
		addr = DefaultCallbackAddr
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CallbackServer{
		addr:   addr,
		logger: logger,
		codes:  make(chan string, 1),
	}
}

// Start binds the listener and begins serving in the background.
// It returns an error immediately if the port is already in use.
func (s *CallbackServer) Start() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc(callbackPath, s.handleCallback)

	s.srv = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := s.srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			s.logger.Error("callback server error", "error", err)
		}
	}()

	s.logger.Debug("callback server listening", "addr", s.addr)
	return nil
}

func (s *CallbackServer) handleCallback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if code == "" {
		http.Error(w, "missing authorization code", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, successPage)

	select {
	case s.codes <- code:
	default:
	}
}

// WaitForCode blocks until an authorization code arrives or the context is
// cancelled, then shuts the server down.
func (s *CallbackServer) WaitForCode(ctx context.Context) (string, error) {
	defer s.Shutdown()

	select {
	case code := <-s.codes:
		return code, nil
	case <-ctx.Done():
		return "", fmt.Errorf("waiting for authorization code: %w", ctx.Err())
	}
}

// Shutdown stops the server. It is safe to call more than once.
func (s *CallbackServer) Shutdown() {
	if s.srv == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_ = s.srv.Shutdown(ctx)
}
