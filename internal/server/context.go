// Package server holds the shared state of the MCP server: per-account
// Google API clients, the account registry, and instrumentation hooks.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/mcptools/mcp-gsuite/internal/calendar"
	"github.com/mcptools/mcp-gsuite/internal/config"
	"github.com/mcptools/mcp-gsuite/internal/gmail"
	"github.com/mcptools/mcp-gsuite/internal/google"
	"github.com/mcptools/mcp-gsuite/internal/instrumentation"
	"github.com/mcptools/mcp-gsuite/internal/logging"
)

// ServerContext holds the context for the MCP server. API clients are
// created lazily per account and cached.
type ServerContext struct {
	ctx    context.Context
	cancel context.CancelFunc

	registry *config.Registry
	paths    config.Paths
	auth     *google.Authenticator

	gmailClients    map[string]*gmail.Client
	calendarClients map[string]*calendar.Client

	metrics *instrumentation.Metrics
	audit   *instrumentation.AuditLogger
	logger  *slog.Logger

	mu       sync.RWMutex
	shutdown bool
}

// Options configures a ServerContext.
type Options struct {
	Registry *config.Registry
	Paths    config.Paths
	Auth     *google.Authenticator
	Metrics  *instrumentation.Metrics
	Audit    *instrumentation.AuditLogger
	Logger   *slog.Logger
}

// NewServerContext creates a new server context.
func NewServerContext(ctx context.Context, opts Options) (*ServerContext, error) {
	if opts.Registry == nil {
		return nil, fmt.Errorf("account registry is required")
	}
	if opts.Auth == nil {
		return nil, fmt.Errorf("authenticator is required")
	}
	if opts.Metrics == nil {
		opts.Metrics = &instrumentation.Metrics{}
	}
	if opts.Audit == nil {
		opts.Audit = instrumentation.NewAuditLogger(opts.Logger, instrumentation.AuditLoggingConfig{})
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	shutdownCtx, cancel := context.WithCancel(ctx)

	return &ServerContext{
		ctx:             shutdownCtx,
		cancel:          cancel,
		registry:        opts.Registry,
		paths:           opts.Paths,
		auth:            opts.Auth,
		gmailClients:    make(map[string]*gmail.Client),
		calendarClients: make(map[string]*calendar.Client),
		metrics:         opts.Metrics,
		audit:           opts.Audit,
		logger:          opts.Logger,
	}, nil
}

// Context returns the server context.
func (sc *ServerContext) Context() context.Context {
	return sc.ctx
}

// Registry returns the configured account registry.
func (sc *ServerContext) Registry() *config.Registry {
	return sc.registry
}

// Paths returns the configuration file paths.
func (sc *ServerContext) Paths() config.Paths {
	return sc.paths
}

// Authenticator returns the OAuth authenticator.
func (sc *ServerContext) Authenticator() *google.Authenticator {
	return sc.auth
}

// Metrics returns the metrics recorder.
func (sc *ServerContext) Metrics() *instrumentation.Metrics {
	return sc.metrics
}

// Audit returns the audit logger.
func (sc *ServerContext) Audit() *instrumentation.AuditLogger {
	return sc.audit
}

// Logger returns the server logger.
func (sc *ServerContext) Logger() *slog.Logger {
	return sc.logger
}

// resolveAccount checks the email against the registry.
func (sc *ServerContext) resolveAccount(email string) (*config.Account, error) {
	account := sc.registry.Lookup(email)
	if account == nil {
		return nil, fmt.Errorf("account %s is not configured; valid accounts: %s", email, sc.registry.DescribeAll())
	}
	return account, nil
}

// GmailClientForAccount returns the Gmail client for a configured account,
// creating and caching it on first use. Accounts without stored credentials
// produce an error telling the caller to run the auth flow.
func (sc *ServerContext) GmailClientForAccount(email string) (*gmail.Client, error) {
	account, err := sc.resolveAccount(email)
	if err != nil {
		return nil, err
	}

	sc.mu.Lock()
	defer sc.mu.Unlock()

	if client, ok := sc.gmailClients[account.Email]; ok {
		return client, nil
	}

	httpClient, err := sc.auth.HTTPClient(sc.ctx, account.Email)
	if err != nil {
		return nil, err
	}
	client, err := gmail.NewClient(sc.ctx, httpClient, account.Email)
	if err != nil {
		return nil, err
	}

	sc.gmailClients[account.Email] = client
	sc.logger.Debug("created Gmail client", logging.UserHash(account.Email))
	return client, nil
}

// CalendarClientForAccount returns the Calendar client for a configured
// account, creating and caching it on first use.
func (sc *ServerContext) CalendarClientForAccount(email string) (*calendar.Client, error) {
	account, err := sc.resolveAccount(email)
	if err != nil {
		return nil, err
	}

	sc.mu.Lock()
	defer sc.mu.Unlock()

	if client, ok := sc.calendarClients[account.Email]; ok {
		return client, nil
	}

	httpClient, err := sc.auth.HTTPClient(sc.ctx, account.Email)
	if err != nil {
		return nil, err
	}
	client, err := calendar.NewClient(sc.ctx, httpClient, account.Email)
	if err != nil {
		return nil, err
	}

	sc.calendarClients[account.Email] = client
	sc.logger.Debug("created Calendar client", logging.UserHash(account.Email))
	return client, nil
}

// SetGmailClientForAccount sets the Gmail client for an account, for tests.
func (sc *ServerContext) SetGmailClientForAccount(email string, client *gmail.Client) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.gmailClients[email] = client
}

// SetCalendarClientForAccount sets the Calendar client for an account, for tests.
func (sc *ServerContext) SetCalendarClientForAccount(email string, client *calendar.Client) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.calendarClients[email] = client
}

// IsShutdown returns whether the server has been shutdown.
func (sc *ServerContext) IsShutdown() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.shutdown
}

// Shutdown shuts down the server context.
func (sc *ServerContext) Shutdown() error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.shutdown {
		return nil
	}

	sc.shutdown = true
	sc.cancel()
	return nil
}
