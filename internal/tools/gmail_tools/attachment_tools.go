package gmail_tools

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/mcptools/mcp-gsuite/internal/gmail"
	"github.com/mcptools/mcp-gsuite/internal/instrumentation"
	"github.com/mcptools/mcp-gsuite/internal/server"
	"github.com/mcptools/mcp-gsuite/internal/tools/batch"
	"github.com/mcptools/mcp-gsuite/internal/tools/common"
)

// RegisterAttachmentTools registers attachment retrieval tools with the MCP server.
func RegisterAttachmentTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	userIDDesc := userIDDescription(sc)

	getAttachmentTool := mcp.NewTool("get_gmail_attachment",
		mcp.WithDescription("Retrieves a Gmail attachment by its ID. Either saves it to disk or returns it as an embedded resource."),
		mcp.WithString("user_id",
			mcp.Required(),
			mcp.Description(userIDDesc),
		),
		mcp.WithString("message_id",
			mcp.Required(),
			mcp.Description("The ID of the Gmail message containing the attachment"),
		),
		mcp.WithString("attachment_id",
			mcp.Required(),
			mcp.Description("The ID of the attachment to retrieve"),
		),
		mcp.WithString("mime_type",
			mcp.Required(),
			mcp.Description("The MIME type of the attachment"),
		),
		mcp.WithString("filename",
			mcp.Required(),
			mcp.Description("The filename of the attachment"),
		),
		mcp.WithString("save_to_disk",
			mcp.Description("Target file path to save the attachment to. If not provided, the attachment content is returned as an embedded resource."),
		),
	)
	s.AddTool(getAttachmentTool, common.InstrumentedToolHandlerWithService(
		"get_gmail_attachment", instrumentation.ServiceGmail, instrumentation.OperationGet, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleGetAttachment(ctx, request, sc)
		}))

	bulkSaveTool := mcp.NewTool("bulk_save_gmail_attachments",
		mcp.WithDescription("Saves multiple Gmail attachments to disk by their message IDs and part IDs in a single request."),
		mcp.WithString("user_id",
			mcp.Required(),
			mcp.Description(userIDDesc),
		),
		mcp.WithArray("attachments",
			mcp.Required(),
			mcp.Description("List of attachments to save. Each entry must have message_id, part_id, and save_path."),
		),
	)
	s.AddTool(bulkSaveTool, common.InstrumentedToolHandlerWithService(
		"bulk_save_gmail_attachments", instrumentation.ServiceGmail, instrumentation.OperationGet, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleBulkSaveAttachments(ctx, request, sc)
		}))

	return nil
}

func handleGetAttachment(_ context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	userID, err := common.GetUserID(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	messageID := common.GetString(args, "message_id", "")
	attachmentID := common.GetString(args, "attachment_id", "")
	mimeType := common.GetString(args, "mime_type", "")
	filename := common.GetString(args, "filename", "")
	if messageID == "" || attachmentID == "" || mimeType == "" || filename == "" {
		return mcp.NewToolResultError("message_id, attachment_id, mime_type, and filename are required"), nil
	}
	savePath := common.GetString(args, "save_to_disk", "")

	client, errResult := gmailClient(sc, userID)
	if errResult != nil {
		return errResult, nil
	}

	attachment, err := client.GetAttachment(messageID, attachmentID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to retrieve attachment %s from message %s: %v", attachmentID, messageID, err)), nil
	}

	if savePath != "" {
		if err := gmail.SaveAttachment(attachment.Data, savePath); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to save attachment to %s: %v", savePath, err)), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("Attachment saved to disk: %s", savePath)), nil
	}

	uri := fmt.Sprintf("attachment://gmail/%s/%s/%s", messageID, attachmentID, filename)
	return mcp.NewToolResultResource(fmt.Sprintf("Attachment %s (%d bytes)", filename, attachment.Size),
		mcp.BlobResourceContents{
			URI:      uri,
			MIMEType: mimeType,
			Blob:     attachment.Data,
		}), nil
}

// bulkAttachmentSpec is one entry of the bulk_save_gmail_attachments request.
type bulkAttachmentSpec struct {
	MessageID string
	PartID    string
	SavePath  string
}

func handleBulkSaveAttachments(_ context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	userID, err := common.GetUserID(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	specs, err := parseAttachmentSpecs(args["attachments"])
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	client, errResult := gmailClient(sc, userID)
	if errResult != nil {
		return errResult, nil
	}

	items := make([]string, len(specs))
	byLabel := make(map[string]bulkAttachmentSpec, len(specs))
	for i, spec := range specs {
		label := fmt.Sprintf("%s/%s", spec.MessageID, spec.PartID)
		items[i] = label
		byLabel[label] = spec
	}

	results := batch.ProcessBatch(items, func(label string) (string, error) {
		spec := byLabel[label]
		return saveAttachmentByPart(client, spec)
	})

	return mcp.NewToolResultText(batch.FormatResults(results)), nil
}

// saveAttachmentByPart resolves a message part ID to its attachment ID,
// downloads the attachment, and writes it to the requested path with a
// sanitized filename.
func saveAttachmentByPart(client *gmail.Client, spec bulkAttachmentSpec) (string, error) {
	message, err := client.GetMessage(spec.MessageID)
	if err != nil {
		return "", fmt.Errorf("failed to retrieve message: %w", err)
	}

	meta, ok := message.Attachments[spec.PartID]
	if !ok {
		return "", fmt.Errorf("no attachment found for part ID %s", spec.PartID)
	}

	attachment, err := client.GetAttachment(spec.MessageID, meta.AttachmentID)
	if err != nil {
		return "", fmt.Errorf("failed to download attachment: %w", err)
	}

	dir, base := filepath.Split(spec.SavePath)
	if base == "" {
		base = meta.Filename
	}
	path := filepath.Join(dir, gmail.SanitizeFilename(base))
	if err := gmail.SaveAttachment(attachment.Data, path); err != nil {
		return "", err
	}
	return fmt.Sprintf("saved to %s", path), nil
}

func parseAttachmentSpecs(raw any) ([]bulkAttachmentSpec, error) {
	list, ok := raw.([]any)
	if !ok || len(list) == 0 {
		return nil, fmt.Errorf("attachments must be a non-empty array")
	}

	specs := make([]bulkAttachmentSpec, 0, len(list))
	for i, entry := range list {
		obj, ok := entry.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("attachments[%d] must be an object", i)
		}
		spec := bulkAttachmentSpec{
			MessageID: common.GetString(obj, "message_id", ""),
			PartID:    common.GetString(obj, "part_id", ""),
			SavePath:  common.GetString(obj, "save_path", ""),
		}
		if spec.MessageID == "" || spec.PartID == "" || spec.SavePath == "" {
			return nil, fmt.Errorf("attachments[%d] must have message_id, part_id, and save_path", i)
		}
		specs = append(specs, spec)
	}
	return specs, nil
}
