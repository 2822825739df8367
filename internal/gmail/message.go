package gmail

import (
	"encoding/base64"
	"fmt"
	"mime"
	"strings"

	gmail "google.golang.org/api/gmail/v1"
)

// ParseMessage converts an API message into the JSON-friendly Message shape.
// When includeBody is set, the plain-text body is decoded (falling back to
// the HTML part when no plain-text part exists) and attachment metadata is
// collected per part ID.
func ParseMessage(msg *gmail.Message, includeBody bool) *Message {
	if msg == nil {
		return nil
	}

	out := &Message{
		ID:           msg.Id,
		ThreadID:     msg.ThreadId,
		HistoryID:    msg.HistoryId,
		InternalDate: msg.InternalDate,
		SizeEstimate: msg.SizeEstimate,
		LabelIDs:     msg.LabelIds,
		Snippet:      msg.Snippet,
	}

	out.Subject = HeaderValue(msg, "Subject")
	out.From = HeaderValue(msg, "From")
	out.To = HeaderValue(msg, "To")
	out.Cc = HeaderValue(msg, "Cc")
	out.Bcc = HeaderValue(msg, "Bcc")
	out.Date = HeaderValue(msg, "Date")
	out.MessageID = HeaderValue(msg, "Message-ID")
	out.InReplyTo = HeaderValue(msg, "In-Reply-To")
	out.References = HeaderValue(msg, "References")

	if includeBody && msg.Payload != nil {
		out.Body = extractBody(msg.Payload)
		out.Attachments = collectAttachments(msg.Payload)
	}
	return out
}

// HeaderValue returns the value of a header from the message payload.
// Header names are matched case-insensitively.
func HeaderValue(m *gmail.Message, header string) string {
	if m == nil || m.Payload == nil {
		return ""
	}
	for _, h := range m.Payload.Headers {
		if strings.EqualFold(h.Name, header) {
			return h.Value
		}
	}
	return ""
}

// extractBody finds and decodes the message body, preferring text/plain
// over text/html.
func extractBody(payload *gmail.MessagePart) string {
	if body := findBodyData(payload, "text/plain"); body != "" {
		if decoded, err := DecodeBase64URL(body); err == nil {
			return string(decoded)
		}
	}
	if body := findBodyData(payload, "text/html"); body != "" {
		if decoded, err := DecodeBase64URL(body); err == nil {
			return string(decoded)
		}
	}
	return ""
}

func findBodyData(payload *gmail.MessagePart, mimeType string) string {
	if payload == nil {
		return ""
	}
	if payload.MimeType == mimeType && payload.Body != nil && payload.Body.Data != "" {
		return payload.Body.Data
	}

	var data string
	walkParts(payload, func(part *gmail.MessagePart) {
		if data == "" && part.MimeType == mimeType && part.Body != nil && part.Body.Data != "" {
			data = part.Body.Data
		}
	})
	return data
}

// collectAttachments gathers attachment metadata keyed by MIME part ID.
func collectAttachments(payload *gmail.MessagePart) map[string]AttachmentMeta {
	attachments := make(map[string]AttachmentMeta)
	walkParts(payload, func(part *gmail.MessagePart) {
		if part.Filename != "" && part.Body != nil && part.Body.AttachmentId != "" {
			attachments[part.PartId] = AttachmentMeta{
				Filename:     part.Filename,
				MimeType:     part.MimeType,
				AttachmentID: part.Body.AttachmentId,
				Size:         part.Body.Size,
			}
		}
	})
	if len(attachments) == 0 {
		return nil
	}
	return attachments
}

// walkParts recursively walks through message parts
func walkParts(part *gmail.MessagePart, fn func(*gmail.MessagePart)) {
	if part == nil {
		return
	}

	fn(part)

	for _, subpart := range part.Parts {
		walkParts(subpart, fn)
	}
}

// DecodeBase64URL decodes Gmail payload data. The API uses the URL-safe
// alphabet, often without padding; some responses arrive in the standard
// alphabet instead, so both are accepted.
func DecodeBase64URL(data string) ([]byte, error) {
	normalized := strings.ReplaceAll(data, "-", "+")
	normalized = strings.ReplaceAll(normalized, "_", "/")
	if missing := len(normalized) % 4; missing != 0 {
		normalized += strings.Repeat("=", 4-missing)
	}

	decoded, err := base64.StdEncoding.DecodeString(normalized)
	if err != nil {
		return nil, fmt.Errorf("failed to decode base64 data: %w", err)
	}
	return decoded, nil
}

// encodeRFC2047 encodes a string for use in email headers according to RFC 2047.
// This is necessary for non-ASCII characters (like umlauts) in subjects.
func encodeRFC2047(s string) string {
	needsEncoding := false
	for _, r := range s {
		if r > 127 {
			needsEncoding = true
			break
		}
	}
	if !needsEncoding {
		return s
	}
	return mime.BEncoding.Encode("UTF-8", s)
}
