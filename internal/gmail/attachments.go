package gmail

import (
	"fmt"
	"os"
	"strings"
)

const (
	// MaxAttachmentSize defines the maximum attachment size in bytes (25MB)
	MaxAttachmentSize = 25 * 1024 * 1024
)

// GetAttachment retrieves an attachment's content. Data is kept in the
// base64url encoding the API returns; use DecodeBase64URL to get raw bytes.
func (c *Client) GetAttachment(messageID, attachmentID string) (*Attachment, error) {
	if messageID == "" {
		return nil, fmt.Errorf("messageID is required")
	}
	if attachmentID == "" {
		return nil, fmt.Errorf("attachmentID is required")
	}

	attachment, err := c.svc.Messages.Attachments.Get("me", messageID, attachmentID).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get attachment %s: %w", attachmentID, err)
	}

	if attachment.Size > MaxAttachmentSize {
		return nil, fmt.Errorf("attachment size %d exceeds maximum size %d", attachment.Size, MaxAttachmentSize)
	}

	return &Attachment{
		Size: attachment.Size,
		Data: attachment.Data,
	}, nil
}

// SaveAttachment decodes attachment data and writes it to path.
func SaveAttachment(data, path string) error {
	decoded, err := DecodeBase64URL(data)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, decoded, 0644); err != nil {
		return fmt.Errorf("failed to save attachment to %s: %w", path, err)
	}
	return nil
}

// SanitizeFilename sanitizes a filename to prevent path traversal attacks
func SanitizeFilename(filename string) string {
	filename = strings.ReplaceAll(filename, "/", "_")
	filename = strings.ReplaceAll(filename, "\\", "_")
	filename = strings.ReplaceAll(filename, "..", "_")
	return filename
}
