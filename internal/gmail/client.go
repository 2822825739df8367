package gmail

import (
	"context"
	"fmt"
	"net/http"

	gmail "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

const (
	// maxQueryResults caps a single query_gmail_emails call.
	maxQueryResults = 500

	// listPageSize is the Gmail API page size used during pagination.
	listPageSize = 100
)

// Client wraps the Gmail Users service for one account.
type Client struct {
	svc     *gmail.UsersService
	account string
}

// NewClient creates a Gmail client for the given account using an
// authenticated HTTP client.
func NewClient(ctx context.Context, httpClient *http.Client, account string) (*Client, error) {
	svc, err := gmail.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gmail service: %w", err)
	}
	return &Client{
		svc:     svc.Users,
		account: account,
	}, nil
}

// Account returns the account email this client is associated with.
func (c *Client) Account() string {
	return c.account
}

// QueryMessages searches messages matching a Gmail query string and returns
// them newest first with metadata and snippet, but without bodies.
// maxResults is clamped to 1..500; pagination continues until enough
// messages are collected or the result set is exhausted.
func (c *Client) QueryMessages(query string, maxResults int64) ([]*Message, error) {
	if maxResults < 1 {
		maxResults = 1
	}
	if maxResults > maxQueryResults {
		maxResults = maxQueryResults
	}

	var ids []string
	pageToken := ""
	for {
		remaining := maxResults - int64(len(ids))
		if remaining <= 0 {
			break
		}
		pageSize := remaining
		if pageSize > listPageSize {
			pageSize = listPageSize
		}

		req := c.svc.Messages.List("me").MaxResults(pageSize)
		if query != "" {
			req = req.Q(query)
		}
		if pageToken != "" {
			req = req.PageToken(pageToken)
		}

		res, err := req.Do()
		if err != nil {
			return nil, fmt.Errorf("failed to list messages: %w", err)
		}
		for _, m := range res.Messages {
			ids = append(ids, m.Id)
		}
		if res.NextPageToken == "" {
			break
		}
		pageToken = res.NextPageToken
	}

	messages := make([]*Message, 0, len(ids))
	for _, id := range ids {
		msg, err := c.svc.Messages.Get("me", id).Format("metadata").Do()
		if err != nil {
			return nil, fmt.Errorf("failed to get message %s: %w", id, err)
		}
		messages = append(messages, ParseMessage(msg, false))
	}
	return messages, nil
}

// GetMessage retrieves a full message and parses it, including the decoded
// body and attachment metadata keyed by part ID.
func (c *Client) GetMessage(messageID string) (*Message, error) {
	if messageID == "" {
		return nil, fmt.Errorf("messageID is required")
	}
	msg, err := c.svc.Messages.Get("me", messageID).Format("full").Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get message %s: %w", messageID, err)
	}
	return ParseMessage(msg, true), nil
}

// GetProfile returns the Gmail profile of the account.
func (c *Client) GetProfile() (*gmail.Profile, error) {
	profile, err := c.svc.GetProfile("me").Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return profile, nil
}
