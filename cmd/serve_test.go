package cmd

import (
	"context"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/pubpug/workspace-mcp/internal/google"
	"github.com/pubpug/workspace-mcp/internal/server"
)

func TestParseCommaSeparatedList(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "empty string",
			input:    "",
			expected: nil,
		},
		{
			name:     "single value",
			input:    "https://mail.google.com/",
			expected: []string{"https://mail.google.com/"},
		},
		{
			name:     "multiple values",
			input:    "scope-a,scope-b",
			expected: []string{"scope-a", "scope-b"},
		},
		{
			name:     "values with spaces around comma",
			input:    "scope-a, scope-b",
			expected: []string{"scope-a", "scope-b"},
		},
		{
			name:     "values with leading/trailing spaces",
			input:    "  scope-a  ,  scope-b  ",
			expected: []string{"scope-a", "scope-b"},
		},
		{
			name:     "trailing comma",
			input:    "scope-a,scope-b,",
			expected: []string{"scope-a", "scope-b"},
		},
		{
			name:     "leading comma",
			input:    ",scope-a,scope-b",
			expected: []string{"scope-a", "scope-b"},
		},
		{
			name:     "multiple consecutive commas",
			input:    "scope-a,,scope-b",
			expected: []string{"scope-a", "scope-b"},
		},
		{
			name:     "only commas and spaces",
			input:    ",  , , ",
			expected: nil,
		},
		{
			name:     "single value with surrounding whitespace",
			input:    "  scope-a  ",
			expected: []string{"scope-a"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := parseCommaSeparatedList(tt.input)

			if tt.expected == nil {
				if result != nil {
					t.Errorf("parseCommaSeparatedList(%q) = %v, want nil", tt.input, result)
				}
				return
			}

			if len(result) != len(tt.expected) {
				t.Errorf("parseCommaSeparatedList(%q) = %v, want %v", tt.input, result, tt.expected)
				return
			}

			for i, v := range result {
				if v != tt.expected[i] {
					t.Errorf("parseCommaSeparatedList(%q)[%d] = %q, want %q",
						tt.input, i, v, tt.expected[i])
				}
			}
		})
	}
}

func TestGetCategoryFromToolName(t *testing.T) {
	tests := map[string]string{
		"gmail_send_email":     "Gmail Tools",
		"calendar_list_events": "Google Calendar Tools",
		"drive_search":         "Google Drive Tools",
		"docs_create_document": "Google Docs Tools",
		"sheets_read_range":    "Google Sheets Tools",
		"slides_add_slide":     "Google Slides Tools",
		"unknown_tool":         "Other",
	}

	for name, want := range tests {
		if got := getCategoryFromToolName(name); got != want {
			t.Errorf("getCategoryFromToolName(%q) = %q, want %q", name, got, want)
		}
	}
}

func TestGenerateToolsMarkdownMentionsEveryTool(t *testing.T) {
	cfg := google.Config{}
	resolver := google.NewResolver(cfg, google.NewStore(cfg.TokenPath))
	serverContext := server.NewServerContext(context.Background(), resolver)
	defer func() { _ = serverContext.Shutdown() }()

	mcpSrv := mcpserver.NewMCPServer("workspace-mcp", "test")
	if err := registerAllTools(mcpSrv, serverContext, false); err != nil {
		t.Fatalf("registering tools: %v", err)
	}

	tools := make([]mcp.Tool, 0)
	for _, serverTool := range mcpSrv.ListTools() {
		tools = append(tools, serverTool.Tool)
	}

	markdown := generateToolsMarkdown(tools)

	for _, tool := range []string{
		"gmail_get_account_info",
		"calendar_create_event",
		"drive_list_folders",
		"docs_export_document",
		"sheets_batch_update",
		"slides_delete_slide",
	} {
		if !strings.Contains(markdown, "### "+tool) {
			t.Errorf("generated docs missing tool %q", tool)
		}
	}
}
