package gmail_tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/pubpug/workspace-mcp/internal/gmail"
	"github.com/pubpug/workspace-mcp/internal/server"
	"github.com/pubpug/workspace-mcp/internal/tools/common"
)

// RegisterGmailTools registers all Gmail-related tools with the MCP server.
func RegisterGmailTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	registerAccountTools(s, sc)
	registerLabelTools(s, sc, readOnly)
	registerMessageTools(s, sc, readOnly)
	return nil
}

func registerAccountTools(s *mcpserver.MCPServer, sc *server.ServerContext) {
	accountInfoTool := mcp.NewTool("gmail_get_account_info",
		mcp.WithDescription("Get the email address of the currently authenticated Google account"),
	)

	s.AddTool(accountInfoTool, common.InstrumentedWithService("gmail_get_account_info", "gmail", "get_profile", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			client, err := sc.GmailClient()
			if err != nil {
				return common.ErrorResult(sc, err), nil
			}

			profile, err := client.Profile()
			if err != nil {
				return common.ErrorResult(sc, err), nil
			}

			return mcp.NewToolResultText(fmt.Sprintf("Authenticated as: %s", profile.EmailAddress)), nil
		}))
}

func registerLabelTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) {
	listLabelsTool := mcp.NewTool("gmail_list_labels",
		mcp.WithDescription("List all user-created labels in Gmail"),
	)

	s.AddTool(listLabelsTool, common.InstrumentedWithService("gmail_list_labels", "gmail", "list_labels", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			client, err := sc.GmailClient()
			if err != nil {
				return common.ErrorResult(sc, err), nil
			}

			labels, err := client.ListLabels()
			if err != nil {
				return common.ErrorResult(sc, err), nil
			}
			if len(labels) == 0 {
				return mcp.NewToolResultText("No user labels found."), nil
			}

			result, _ := json.MarshalIndent(labels, "", "  ")
			return mcp.NewToolResultText(string(result)), nil
		}))

	createLabelTool := mcp.NewTool("gmail_create_label",
		mcp.WithDescription("Create a new label in Gmail"),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("The name of the label to create"),
		),
	)

	s.AddTool(createLabelTool, common.InstrumentedWithService("gmail_create_label", "gmail", "create_label", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args, _ := request.Params.Arguments.(map[string]interface{})

			name, ok := args["name"].(string)
			if !ok || name == "" {
				return mcp.NewToolResultError("name is required"), nil
			}

			client, err := sc.GmailClient()
			if err != nil {
				return common.ErrorResult(sc, err), nil
			}

			label, err := client.CreateLabel(name)
			if err != nil {
				return common.ErrorResult(sc, err), nil
			}

			return mcp.NewToolResultText(fmt.Sprintf("Label %q created (ID: %s)", label.Name, label.ID)), nil
		}))

	listFiltersTool := mcp.NewTool("gmail_list_filters",
		mcp.WithDescription("List all server-side Gmail filters"),
	)

	s.AddTool(listFiltersTool, common.InstrumentedWithService("gmail_list_filters", "gmail", "list_filters", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			client, err := sc.GmailClient()
			if err != nil {
				return common.ErrorResult(sc, err), nil
			}

			filters, err := client.ListFilters()
			if err != nil {
				return common.ErrorResult(sc, err), nil
			}
			if len(filters) == 0 {
				return mcp.NewToolResultText("No filters found."), nil
			}

			result, _ := json.MarshalIndent(filters, "", "  ")
			return mcp.NewToolResultText(string(result)), nil
		}))

	if readOnly {
		return
	}

	createFilterTool := mcp.NewTool("gmail_create_filter",
		mcp.WithDescription("Create a server-side Gmail filter. At least one criteria field is required."),
		mcp.WithString("from",
			mcp.Description("Match messages from this sender"),
		),
		mcp.WithString("to",
			mcp.Description("Match messages to this recipient"),
		),
		mcp.WithString("subject",
			mcp.Description("Match messages with this subject"),
		),
		mcp.WithString("query",
			mcp.Description("Match messages with this Gmail search query, e.g. 'has:attachment'"),
		),
		mcp.WithString("addLabelId",
			mcp.Description("Label ID to add to matching messages"),
		),
		mcp.WithString("removeLabelId",
			mcp.Description("Label ID to remove from matching messages, e.g. 'INBOX' to archive"),
		),
	)

	s.AddTool(createFilterTool, common.InstrumentedWithService("gmail_create_filter", "gmail", "create_filter", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args, _ := request.Params.Arguments.(map[string]interface{})

			input := gmail.FilterInput{}
			if v, ok := args["from"].(string); ok {
				input.From = v
			}
			if v, ok := args["to"].(string); ok {
				input.To = v
			}
			if v, ok := args["subject"].(string); ok {
				input.Subject = v
			}
			if v, ok := args["query"].(string); ok {
				input.Query = v
			}
			if input.From == "" && input.To == "" && input.Subject == "" && input.Query == "" {
				return mcp.NewToolResultError("at least one of from, to, subject, query is required"), nil
			}

			if v, ok := args["addLabelId"].(string); ok && v != "" {
				input.AddLabelIDs = []string{v}
			}
			if v, ok := args["removeLabelId"].(string); ok && v != "" {
				input.RemoveLabelIDs = []string{v}
			}

			client, err := sc.GmailClient()
			if err != nil {
				return common.ErrorResult(sc, err), nil
			}

			filter, err := client.CreateFilter(input)
			if err != nil {
				return common.ErrorResult(sc, err), nil
			}

			result, _ := json.MarshalIndent(filter, "", "  ")
			return mcp.NewToolResultText(fmt.Sprintf("Filter created:\n%s", string(result))), nil
		}))
}

func registerMessageTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) {
	if readOnly {
		return
	}

	sendEmailTool := mcp.NewTool("gmail_send_email",
		mcp.WithDescription("Send a plain-text email via Gmail"),
		mcp.WithString("to",
			mcp.Required(),
			mcp.Description("Recipient email address"),
		),
		mcp.WithString("subject",
			mcp.Required(),
			mcp.Description("Email subject"),
		),
		mcp.WithString("body",
			mcp.Required(),
			mcp.Description("Plain-text email body"),
		),
	)

	s.AddTool(sendEmailTool, common.InstrumentedWithService("gmail_send_email", "gmail", "send", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args, _ := request.Params.Arguments.(map[string]interface{})

			to, ok := args["to"].(string)
			if !ok || to == "" {
				return mcp.NewToolResultError("to is required"), nil
			}
			subject, ok := args["subject"].(string)
			if !ok || subject == "" {
				return mcp.NewToolResultError("subject is required"), nil
			}
			body, ok := args["body"].(string)
			if !ok {
				return mcp.NewToolResultError("body is required"), nil
			}

			client, err := sc.GmailClient()
			if err != nil {
				return common.ErrorResult(sc, err), nil
			}

			id, err := client.SendEmail(to, subject, body)
			if err != nil {
				return common.ErrorResult(sc, err), nil
			}

			return mcp.NewToolResultText(fmt.Sprintf("Email sent! ID: %s", id)), nil
		}))

	cleanSpamTool := mcp.NewTool("gmail_clean_spam",
		mcp.WithDescription("Move every message in the spam folder to trash"),
	)

	s.AddTool(cleanSpamTool, common.InstrumentedWithService("gmail_clean_spam", "gmail", "clean_spam", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			client, err := sc.GmailClient()
			if err != nil {
				return common.ErrorResult(sc, err), nil
			}

			cleaned, err := client.CleanSpam()
			if err != nil {
				return common.ErrorResult(sc, err), nil
			}
			if cleaned == 0 {
				return mcp.NewToolResultText("Spam folder is already empty."), nil
			}

			return mcp.NewToolResultText(fmt.Sprintf("Moved %d spam messages to trash", cleaned)), nil
		}))

	batchLabelTool := mcp.NewTool("gmail_batch_apply_label",
		mcp.WithDescription("Apply a label to every message matching a Gmail search query"),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Gmail search query, e.g. 'from:billing@example.com older_than:30d'"),
		),
		mcp.WithString("labelId",
			mcp.Required(),
			mcp.Description("The ID of the label to apply"),
		),
	)

	s.AddTool(batchLabelTool, common.InstrumentedWithService("gmail_batch_apply_label", "gmail", "batch_modify", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args, _ := request.Params.Arguments.(map[string]interface{})

			query, ok := args["query"].(string)
			if !ok || query == "" {
				return mcp.NewToolResultError("query is required"), nil
			}
			labelID, ok := args["labelId"].(string)
			if !ok || labelID == "" {
				return mcp.NewToolResultError("labelId is required"), nil
			}

			client, err := sc.GmailClient()
			if err != nil {
				return common.ErrorResult(sc, err), nil
			}

			modified, err := client.ApplyLabelByQuery(query, labelID)
			if err != nil {
				return common.ErrorResult(sc, err), nil
			}

			return mcp.NewToolResultText(fmt.Sprintf("Label applied to %d messages", modified)), nil
		}))
}
