package gmail

// Message is the parsed, JSON-friendly view of a Gmail message returned to
// MCP clients. Attachment metadata is keyed by MIME part ID.
type Message struct {
	ID           string `json:"id"`
	ThreadID     string `json:"threadId"`
	HistoryID    uint64 `json:"historyId,omitempty"`
	InternalDate int64  `json:"internalDate,omitempty"`
	SizeEstimate int64  `json:"sizeEstimate,omitempty"`

	LabelIDs []string `json:"labelIds,omitempty"`
	Snippet  string   `json:"snippet,omitempty"`

	Subject   string `json:"subject,omitempty"`
	From      string `json:"from,omitempty"`
	To        string `json:"to,omitempty"`
	Cc        string `json:"cc,omitempty"`
	Bcc       string `json:"bcc,omitempty"`
	Date      string `json:"date,omitempty"`
	MessageID string `json:"message_id,omitempty"`
	InReplyTo string `json:"in_reply_to,omitempty"`
	References string `json:"references,omitempty"`

	Body string `json:"body,omitempty"`

	Attachments map[string]AttachmentMeta `json:"attachments,omitempty"`
}

// AttachmentMeta describes one attachment part of a message.
type AttachmentMeta struct {
	Filename     string `json:"filename"`
	MimeType     string `json:"mimeType"`
	AttachmentID string `json:"attachmentId"`
	Size         int64  `json:"size,omitempty"`
}

// Attachment holds the content of a downloaded attachment. Data is the
// base64url-encoded payload exactly as the API returned it.
type Attachment struct {
	Size int64  `json:"size"`
	Data string `json:"data"`
}

// DraftResult summarizes a created draft.
type DraftResult struct {
	ID      string `json:"id"`
	Message struct {
		ID       string `json:"id"`
		ThreadID string `json:"threadId"`
	} `json:"message"`
}

// ReplyResult summarizes a sent or drafted reply.
type ReplyResult struct {
	ID       string `json:"id"`
	ThreadID string `json:"threadId,omitempty"`
	DraftID  string `json:"draftId,omitempty"`
	Sent     bool   `json:"sent"`
}
