package google

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"sync"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	goauth2 "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"

	"github.com/mcptools/mcp-gsuite/internal/logging"
)

// DefaultRedirectURL is where Google sends the user after consent.
// The callback server listens on this address during the auth flow.
const DefaultRedirectURL = "http://localhost:4100/code"

// Authenticator manages OAuth2 authorization for the configured accounts.
// It is safe for concurrent use.
type Authenticator struct {
	conf   *oauth2.Config
	tokens TokenProvider
	logger *slog.Logger

	mu sync.Mutex
}

// NewAuthenticator loads the OAuth client configuration from a Google
// client-secret JSON file (either "web" or "installed" format) and returns
// an Authenticator backed by the given token provider.
func NewAuthenticator(gauthFile string, tokens TokenProvider, logger *slog.Logger) (*Authenticator, error) {
	data, err := os.ReadFile(gauthFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read OAuth client file %s: %w", gauthFile, err)
	}

	conf, err := google.ConfigFromJSON(data, Scopes()...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse OAuth client file %s: %w", gauthFile, err)
	}
	if conf.RedirectURL == "" {
		conf.RedirectURL = DefaultRedirectURL
	}

	if logger == nil {
		logger = slog.Default()
	}
	return &Authenticator{conf: conf, tokens: tokens, logger: logger}, nil
}

// AuthURL returns the consent URL for the given account. The account email
// is carried in the state parameter and used as a login hint so the user
// lands on the right Google account chooser entry.
func (a *Authenticator) AuthURL(email string) string {
	return a.conf.AuthCodeURL(email,
		oauth2.AccessTypeOffline,
		oauth2.ApprovalForce,
		oauth2.SetAuthURLParam("login_hint", email),
	)
}

// ExchangeCode exchanges an authorization code for a token.
func (a *Authenticator) ExchangeCode(ctx context.Context, code string) (*oauth2.Token, error) {
	token, err := a.conf.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange auth code: %w", err)
	}
	return token, nil
}

// Authorize completes the auth flow: it exchanges the code, verifies which
// Google account granted consent, and stores the token under the verified
// email. If expectedEmail is non-empty and does not match the account that
// completed consent, the token is discarded and an error is returned.
func (a *Authenticator) Authorize(ctx context.Context, code, expectedEmail string) (string, error) {
	token, err := a.ExchangeCode(ctx, code)
	if err != nil {
		return "", err
	}

	email, err := a.verifyIdentity(ctx, token)
	if err != nil {
		return "", err
	}

	if expectedEmail != "" && !strings.EqualFold(email, expectedEmail) {
		return "", fmt.Errorf("consent was granted by %s, expected %s", email, expectedEmail)
	}

	if err := a.tokens.Store(email, token); err != nil {
		return "", err
	}

	a.logger.Info("stored OAuth credentials",
		logging.Operation("authorize"),
		logging.UserHash(email))
	return email, nil
}

// verifyIdentity asks the userinfo endpoint which account the token belongs to.
func (a *Authenticator) verifyIdentity(ctx context.Context, token *oauth2.Token) (string, error) {
	svc, err := goauth2.NewService(ctx, option.WithTokenSource(oauth2.StaticTokenSource(token)))
	if err != nil {
		return "", fmt.Errorf("failed to create userinfo service: %w", err)
	}

	info, err := svc.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to verify account identity: %w", err)
	}
	if info.Email == "" {
		return "", fmt.Errorf("userinfo response did not include an email address")
	}
	return info.Email, nil
}

// TokenSource returns a token source for the given account. Tokens refreshed
// by the source are written back to storage so the refresh survives restarts.
func (a *Authenticator) TokenSource(ctx context.Context, email string) (oauth2.TokenSource, error) {
	token, err := a.tokens.Token(email)
	if err != nil {
		return nil, err
	}

	base := a.conf.TokenSource(ctx, token)
	return &persistingTokenSource{
		auth:  a,
		email: email,
		last:  token,
		base:  base,
	}, nil
}

// HTTPClient returns an authenticated HTTP client for the given account.
// The client forces HTTP/1.1: Google's APIs occasionally reset HTTP/2
// streams mid-response on large attachment downloads.
func (a *Authenticator) HTTPClient(ctx context.Context, email string) (*http.Client, error) {
	ts, err := a.TokenSource(ctx, email)
	if err != nil {
		return nil, err
	}

	client := oauth2.NewClient(ctx, ts)
	if transport, ok := client.Transport.(*oauth2.Transport); ok {
		transport.Base = &http.Transport{
			ForceAttemptHTTP2: false,
		}
	}
	return client, nil
}

// persistingTokenSource wraps an oauth2.TokenSource and persists tokens
// whenever the access token changes after a refresh.
type persistingTokenSource struct {
	auth  *Authenticator
	email string
	base  oauth2.TokenSource

	mu   sync.Mutex
	last *oauth2.Token
}

func (s *persistingTokenSource) Token() (*oauth2.Token, error) {
	token, err := s.base.Token()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	changed := s.last == nil || s.last.AccessToken != token.AccessToken
	if changed {
		s.last = token
	}
	s.mu.Unlock()

	if changed {
		if err := s.auth.tokens.Store(s.email, token); err != nil {
			s.auth.logger.Warn("failed to persist refreshed token",
				logging.UserHash(s.email),
				logging.Err(err))
		} else {
			s.auth.logger.Debug("persisted refreshed token",
				logging.UserHash(s.email))
		}
	}
	return token, nil
}
