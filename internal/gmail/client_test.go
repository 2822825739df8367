package gmail

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	gmail "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

type listCall struct {
	maxResults string
	pageToken  string
	query      string
}

// newQueryTestClient backs a Client with an httptest server pretending to be
// the Gmail API with totalMessages messages. Every messages.list call is
// recorded so tests can inspect the requested page sizes and tokens.
func newQueryTestClient(t *testing.T, totalMessages int, calls *[]listCall) *Client {
	t.Helper()

	served := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		if strings.HasSuffix(r.URL.Path, "/messages") {
			q := r.URL.Query()
			*calls = append(*calls, listCall{
				maxResults: q.Get("maxResults"),
				pageToken:  q.Get("pageToken"),
				query:      q.Get("q"),
			})

			pageSize, err := strconv.Atoi(q.Get("maxResults"))
			if err != nil || pageSize < 1 {
				t.Errorf("list request carried maxResults %q", q.Get("maxResults"))
				pageSize = 1
			}

			res := &gmail.ListMessagesResponse{}
			for i := 0; i < pageSize && served < totalMessages; i++ {
				res.Messages = append(res.Messages, &gmail.Message{Id: fmt.Sprintf("m%d", served)})
				served++
			}
			if served < totalMessages {
				res.NextPageToken = fmt.Sprintf("page-%d", served)
			}
			if err := json.NewEncoder(w).Encode(res); err != nil {
				t.Errorf("failed to encode list response: %v", err)
			}
			return
		}

		// messages.get
		parts := strings.Split(r.URL.Path, "/")
		id := parts[len(parts)-1]
		if err := json.NewEncoder(w).Encode(&gmail.Message{Id: id, Snippet: "snippet"}); err != nil {
			t.Errorf("failed to encode message: %v", err)
		}
	}))
	t.Cleanup(ts.Close)

	svc, err := gmail.NewService(context.Background(),
		option.WithHTTPClient(ts.Client()),
		option.WithEndpoint(ts.URL),
	)
	if err != nil {
		t.Fatalf("failed to create Gmail service: %v", err)
	}
	return &Client{svc: svc.Users, account: "alice@example.com"}
}

func TestQueryMessagesClampsLowerBound(t *testing.T) {
	for _, maxResults := range []int64{0, -5, 1} {
		t.Run(strconv.FormatInt(maxResults, 10), func(t *testing.T) {
			var calls []listCall
			c := newQueryTestClient(t, 3, &calls)

			messages, err := c.QueryMessages("", maxResults)
			if err != nil {
				t.Fatalf("QueryMessages() error = %v", err)
			}
			if len(messages) != 1 {
				t.Errorf("got %d messages, want 1", len(messages))
			}
			if len(calls) != 1 || calls[0].maxResults != "1" {
				t.Errorf("list calls = %+v, want one call with maxResults 1", calls)
			}
		})
	}
}

func TestQueryMessagesClampsUpperBound(t *testing.T) {
	var calls []listCall
	c := newQueryTestClient(t, 600, &calls)

	messages, err := c.QueryMessages("", 501)
	if err != nil {
		t.Fatalf("QueryMessages() error = %v", err)
	}
	if len(messages) != 500 {
		t.Errorf("got %d messages, want 500", len(messages))
	}
	if len(calls) != 5 {
		t.Fatalf("got %d list calls, want 5", len(calls))
	}
	for i, call := range calls {
		if call.maxResults != "100" {
			t.Errorf("call %d maxResults = %q, want 100", i, call.maxResults)
		}
	}
}

func TestQueryMessagesPaginates(t *testing.T) {
	var calls []listCall
	c := newQueryTestClient(t, 150, &calls)

	messages, err := c.QueryMessages("from:bob@example.com", 150)
	if err != nil {
		t.Fatalf("QueryMessages() error = %v", err)
	}
	if len(messages) != 150 {
		t.Errorf("got %d messages, want 150", len(messages))
	}
	if len(calls) != 2 {
		t.Fatalf("got %d list calls, want 2", len(calls))
	}
	if calls[0].maxResults != "100" || calls[0].pageToken != "" {
		t.Errorf("first call = %+v", calls[0])
	}
	if calls[1].maxResults != "50" || calls[1].pageToken == "" {
		t.Errorf("second call should request the 50 remaining with a page token, got %+v", calls[1])
	}
	for i, call := range calls {
		if call.query != "from:bob@example.com" {
			t.Errorf("call %d query = %q", i, call.query)
		}
	}
	if messages[0].ID != "m0" || messages[149].ID != "m149" {
		t.Errorf("unexpected message order: first %q last %q", messages[0].ID, messages[149].ID)
	}
}

func TestQueryMessagesExhaustsResults(t *testing.T) {
	var calls []listCall
	c := newQueryTestClient(t, 3, &calls)

	messages, err := c.QueryMessages("", 10)
	if err != nil {
		t.Fatalf("QueryMessages() error = %v", err)
	}
	if len(messages) != 3 {
		t.Errorf("got %d messages, want 3", len(messages))
	}
	if len(calls) != 1 {
		t.Errorf("got %d list calls, want 1", len(calls))
	}
}
