package gmail_tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/mcptools/mcp-gsuite/internal/gmail"
	"github.com/mcptools/mcp-gsuite/internal/instrumentation"
	"github.com/mcptools/mcp-gsuite/internal/server"
	"github.com/mcptools/mcp-gsuite/internal/tools/batch"
	"github.com/mcptools/mcp-gsuite/internal/tools/common"
)

// RegisterEmailTools registers the email query, read, draft, and reply tools.
func RegisterEmailTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	userIDDesc := userIDDescription(sc)

	queryTool := mcp.NewTool("query_gmail_emails",
		mcp.WithDescription("Query Gmail emails based on an optional search query. Returns emails in reverse chronological order (newest first), with metadata and a short summary of the content."),
		mcp.WithString("user_id",
			mcp.Required(),
			mcp.Description(userIDDesc),
		),
		mcp.WithString("query",
			mcp.Description("Gmail search query (optional), e.g. 'in:inbox subject:test'"),
		),
		mcp.WithNumber("max_results",
			mcp.Description("Maximum number of emails to retrieve (1-500, default 10)"),
		),
	)
	s.AddTool(queryTool, common.InstrumentedToolHandlerWithService(
		"query_gmail_emails", instrumentation.ServiceGmail, instrumentation.OperationSearch, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleQueryEmails(ctx, request, sc)
		}))

	getTool := mcp.NewTool("get_gmail_email",
		mcp.WithDescription("Retrieves a complete Gmail email message by its ID, including the full message body and attachment IDs."),
		mcp.WithString("user_id",
			mcp.Required(),
			mcp.Description(userIDDesc),
		),
		mcp.WithString("email_id",
			mcp.Required(),
			mcp.Description("The ID of the Gmail message to retrieve"),
		),
	)
	s.AddTool(getTool, common.InstrumentedToolHandlerWithService(
		"get_gmail_email", instrumentation.ServiceGmail, instrumentation.OperationGet, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleGetEmail(ctx, request, sc)
		}))

	bulkGetTool := mcp.NewTool("bulk_get_gmail_emails",
		mcp.WithDescription("Retrieves multiple Gmail email messages by their IDs in a single request, including the full message bodies and attachment IDs."),
		mcp.WithString("user_id",
			mcp.Required(),
			mcp.Description(userIDDesc),
		),
		mcp.WithArray("email_ids",
			mcp.Required(),
			mcp.Description("List of Gmail message IDs to retrieve"),
		),
	)
	s.AddTool(bulkGetTool, common.InstrumentedToolHandlerWithService(
		"bulk_get_gmail_emails", instrumentation.ServiceGmail, instrumentation.OperationGet, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleBulkGetEmails(ctx, request, sc)
		}))

	createDraftTool := mcp.NewTool("create_gmail_draft",
		mcp.WithDescription("Creates a draft email message from scratch in Gmail with specified recipient, subject, body, and optional CC recipients. Do NOT use this tool when you want to draft or send a REPLY to an existing message; use reply_gmail_email with send=false instead."),
		mcp.WithString("user_id",
			mcp.Required(),
			mcp.Description(userIDDesc),
		),
		mcp.WithString("to",
			mcp.Required(),
			mcp.Description("Email address of the recipient"),
		),
		mcp.WithString("subject",
			mcp.Required(),
			mcp.Description("Subject line of the email"),
		),
		mcp.WithString("body",
			mcp.Required(),
			mcp.Description("Body content of the email"),
		),
		mcp.WithArray("cc",
			mcp.Description("Optional list of email addresses to CC"),
		),
	)
	s.AddTool(createDraftTool, common.InstrumentedToolHandlerWithService(
		"create_gmail_draft", instrumentation.ServiceGmail, instrumentation.OperationCreate, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleCreateDraft(ctx, request, sc)
		}))

	deleteDraftTool := mcp.NewTool("delete_gmail_draft",
		mcp.WithDescription("Deletes a Gmail draft message by its ID. This action cannot be undone."),
		mcp.WithString("user_id",
			mcp.Required(),
			mcp.Description(userIDDesc),
		),
		mcp.WithString("draft_id",
			mcp.Required(),
			mcp.Description("The ID of the draft to delete"),
		),
	)
	s.AddTool(deleteDraftTool, common.InstrumentedToolHandlerWithService(
		"delete_gmail_draft", instrumentation.ServiceGmail, instrumentation.OperationDelete, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleDeleteDraft(ctx, request, sc)
		}))

	replyTool := mcp.NewTool("reply_gmail_email",
		mcp.WithDescription("Creates a reply to an existing Gmail email message and either sends it or saves as draft. Use the 'cc' argument if you want to perform a \"reply all\"."),
		mcp.WithString("user_id",
			mcp.Required(),
			mcp.Description(userIDDesc),
		),
		mcp.WithString("original_message_id",
			mcp.Required(),
			mcp.Description("The ID of the Gmail message to reply to"),
		),
		mcp.WithString("reply_body",
			mcp.Required(),
			mcp.Description("The body content of your reply message"),
		),
		mcp.WithBoolean("send",
			mcp.Description("If true, sends the reply immediately. If false (default), saves as draft."),
		),
		mcp.WithArray("cc",
			mcp.Description("Optional list of email addresses to CC on the reply"),
		),
	)
	s.AddTool(replyTool, common.InstrumentedToolHandlerWithService(
		"reply_gmail_email", instrumentation.ServiceGmail, instrumentation.OperationSend, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleReplyEmail(ctx, request, sc)
		}))

	return nil
}

func handleQueryEmails(_ context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	userID, err := common.GetUserID(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	client, errResult := gmailClient(sc, userID)
	if errResult != nil {
		return errResult, nil
	}

	query := common.GetString(args, "query", "")
	maxResults := common.GetInt(args, "max_results", 10)

	messages, err := client.QueryMessages(query, maxResults)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to query emails: %v", err)), nil
	}

	jsonBytes, err := json.MarshalIndent(messages, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to format emails: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func handleGetEmail(_ context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	userID, err := common.GetUserID(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	emailID := common.GetString(args, "email_id", "")
	if emailID == "" {
		return mcp.NewToolResultError("email_id is required"), nil
	}

	client, errResult := gmailClient(sc, userID)
	if errResult != nil {
		return errResult, nil
	}

	message, err := client.GetMessage(emailID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to retrieve email with ID %s: %v", emailID, err)), nil
	}

	jsonBytes, err := json.MarshalIndent(message, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to format email: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func handleBulkGetEmails(_ context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	userID, err := common.GetUserID(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	emailIDs, err := batch.ParseStringOrArray(args["email_ids"], "email_ids")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	client, errResult := gmailClient(sc, userID)
	if errResult != nil {
		return errResult, nil
	}

	var messages []*gmail.Message
	results := batch.ProcessBatch(emailIDs, func(id string) (string, error) {
		message, err := client.GetMessage(id)
		if err != nil {
			return "", err
		}
		messages = append(messages, message)
		return "retrieved", nil
	})

	if batch.AllFailed(results) {
		return mcp.NewToolResultError("Failed to retrieve any emails from the provided IDs:\n" + batch.FormatResults(results)), nil
	}

	jsonBytes, err := json.MarshalIndent(messages, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to format emails: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func handleCreateDraft(_ context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	userID, err := common.GetUserID(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	to := common.GetString(args, "to", "")
	subject := common.GetString(args, "subject", "")
	body := common.GetString(args, "body", "")
	if to == "" || subject == "" || body == "" {
		return mcp.NewToolResultError("to, subject, and body are required"), nil
	}
	cc := common.GetStringSlice(args, "cc")

	client, errResult := gmailClient(sc, userID)
	if errResult != nil {
		return errResult, nil
	}

	draft, err := client.CreateDraft(to, subject, body, cc)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to create draft email: %v", err)), nil
	}

	jsonBytes, err := json.MarshalIndent(draft, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to format draft: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func handleDeleteDraft(_ context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	userID, err := common.GetUserID(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	draftID := common.GetString(args, "draft_id", "")
	if draftID == "" {
		return mcp.NewToolResultError("draft_id is required"), nil
	}

	client, errResult := gmailClient(sc, userID)
	if errResult != nil {
		return errResult, nil
	}

	if err := client.DeleteDraft(draftID); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to delete draft with ID %s: %v", draftID, err)), nil
	}
	return mcp.NewToolResultText("Successfully deleted draft"), nil
}

func handleReplyEmail(_ context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	userID, err := common.GetUserID(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	originalID := common.GetString(args, "original_message_id", "")
	replyBody := common.GetString(args, "reply_body", "")
	if originalID == "" || replyBody == "" {
		return mcp.NewToolResultError("original_message_id and reply_body are required"), nil
	}
	send := common.GetBool(args, "send", false)
	cc := common.GetStringSlice(args, "cc")

	client, errResult := gmailClient(sc, userID)
	if errResult != nil {
		return errResult, nil
	}

	original, err := client.GetMessage(originalID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to retrieve original message with ID %s: %v", originalID, err)), nil
	}

	result, err := client.CreateReply(original, replyBody, send, cc)
	if err != nil {
		verb := "draft"
		if send {
			verb = "send"
		}
		return mcp.NewToolResultError(fmt.Sprintf("Failed to %s reply email: %v", verb, err)), nil
	}

	jsonBytes, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to format reply: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonBytes)), nil
}
