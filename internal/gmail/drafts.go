package gmail

import (
	"encoding/base64"
	"fmt"
	"strings"

	gmail "google.golang.org/api/gmail/v1"
)

// CreateDraft creates a draft email with the given recipient, subject, body
// and optional CC list.
func (c *Client) CreateDraft(to, subject, body string, cc []string) (*DraftResult, error) {
	if to == "" {
		return nil, fmt.Errorf("recipient is required")
	}
	if subject == "" {
		return nil, fmt.Errorf("subject is required")
	}

	raw := buildRawMessage(to, cc, subject, body, "", "")
	draft, err := c.svc.Drafts.Create("me", &gmail.Draft{
		Message: &gmail.Message{Raw: raw},
	}).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to create draft: %w", err)
	}

	result := &DraftResult{ID: draft.Id}
	if draft.Message != nil {
		result.Message.ID = draft.Message.Id
		result.Message.ThreadID = draft.Message.ThreadId
	}
	return result, nil
}

// DeleteDraft permanently deletes a draft by its ID.
func (c *Client) DeleteDraft(draftID string) error {
	if draftID == "" {
		return fmt.Errorf("draftID is required")
	}
	if err := c.svc.Drafts.Delete("me", draftID).Do(); err != nil {
		return fmt.Errorf("failed to delete draft %s: %w", draftID, err)
	}
	return nil
}

// CreateReply builds a threaded reply to the original message, quoting the
// original body, and either sends it immediately or stores it as a draft.
func (c *Client) CreateReply(original *Message, replyBody string, send bool, cc []string) (*ReplyResult, error) {
	if original == nil {
		return nil, fmt.Errorf("original message is required")
	}
	if original.From == "" {
		return nil, fmt.Errorf("original message has no From header")
	}

	subject := original.Subject
	if !strings.HasPrefix(strings.ToLower(subject), "re:") {
		subject = "Re: " + subject
	}

	body := replyBody + "\n\n" + quoteOriginal(original)

	references := original.MessageID
	if original.References != "" {
		references = original.References + " " + original.MessageID
	}

	raw := buildRawMessage(original.From, cc, subject, body, original.MessageID, references)
	msg := &gmail.Message{
		Raw:      raw,
		ThreadId: original.ThreadID,
	}

	if send {
		sent, err := c.svc.Messages.Send("me", msg).Do()
		if err != nil {
			return nil, fmt.Errorf("failed to send reply: %w", err)
		}
		return &ReplyResult{ID: sent.Id, ThreadID: sent.ThreadId, Sent: true}, nil
	}

	draft, err := c.svc.Drafts.Create("me", &gmail.Draft{Message: msg}).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to create reply draft: %w", err)
	}
	result := &ReplyResult{DraftID: draft.Id, Sent: false}
	if draft.Message != nil {
		result.ID = draft.Message.Id
		result.ThreadID = draft.Message.ThreadId
	}
	return result, nil
}

// quoteOriginal renders the original message as a quoted block in the
// conventional "On <date>, <sender> wrote:" form.
func quoteOriginal(original *Message) string {
	var b strings.Builder
	fmt.Fprintf(&b, "On %s, %s wrote:\n", original.Date, original.From)
	for _, line := range strings.Split(original.Body, "\n") {
		b.WriteString("> ")
		b.WriteString(line)
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// buildRawMessage assembles an RFC 2822 message and encodes it base64url
// as the API expects.
func buildRawMessage(to string, cc []string, subject, body, inReplyTo, references string) string {
	var b strings.Builder

	b.WriteString("To: ")
	b.WriteString(to)
	b.WriteString("\r\n")

	if len(cc) > 0 {
		b.WriteString("Cc: ")
		b.WriteString(strings.Join(cc, ", "))
		b.WriteString("\r\n")
	}

	b.WriteString("Subject: ")
	b.WriteString(encodeRFC2047(subject))
	b.WriteString("\r\n")

	if inReplyTo != "" {
		b.WriteString("In-Reply-To: ")
		b.WriteString(inReplyTo)
		b.WriteString("\r\n")
	}
	if references != "" {
		b.WriteString("References: ")
		b.WriteString(references)
		b.WriteString("\r\n")
	}

	b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)

	return base64.URLEncoding.EncodeToString([]byte(b.String()))
}
