package resources

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/pubpug/workspace-mcp/internal/google"
	"github.com/pubpug/workspace-mcp/internal/server"
)

// RegisterUserResources registers resources describing the authenticated
// Google account and the authorization state.
func RegisterUserResources(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	authResource := mcp.NewResource(
		"auth://status",
		"Authorization Status",
		mcp.WithResourceDescription("Whether a valid Google credential is available, and how to authorize if not"),
		mcp.WithMIMEType("application/json"),
	)
	s.AddResource(authResource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return handleAuthStatus(ctx, request, sc)
	})

	profileResource := mcp.NewResource(
		"user://profile",
		"Current User Profile",
		mcp.WithResourceDescription("Information about the currently authenticated Google account"),
		mcp.WithMIMEType("application/json"),
	)
	s.AddResource(profileResource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return handleUserProfile(ctx, request, sc)
	})

	return nil
}

// handleAuthStatus reports the credential state without ever starting an
// authorization flow.
func handleAuthStatus(ctx context.Context, request mcp.ReadResourceRequest, sc *server.ServerContext) ([]mcp.ResourceContents, error) {
	status := map[string]interface{}{
		"authenticated": false,
		"portalUrl":     sc.PortalURL(),
	}

	cred, err := sc.Resolver().Resolve(ctx)
	switch {
	case err == nil:
		status["authenticated"] = true
		status["expiry"] = cred.Expiry
		if len(cred.Scopes) > 0 {
			status["scopes"] = cred.Scopes
		}
	case errors.Is(err, google.ErrNotAuthenticated):
		status["remediation"] = fmt.Sprintf("Open %s in your browser to authorize with Google", sc.PortalURL())
	default:
		return nil, fmt.Errorf("resolving credential state: %w", err)
	}

	return jsonResource(request.Params.URI, status)
}

// handleUserProfile returns the Gmail profile of the authenticated account.
func handleUserProfile(ctx context.Context, request mcp.ReadResourceRequest, sc *server.ServerContext) ([]mcp.ResourceContents, error) {
	client, err := sc.GmailClient()
	if err != nil {
		return nil, fmt.Errorf("no Gmail client available: %w", err)
	}

	profile, err := client.Profile()
	if err != nil {
		if errors.Is(err, google.ErrNotAuthenticated) {
			return nil, fmt.Errorf("not authenticated: open %s to authorize", sc.PortalURL())
		}
		return nil, fmt.Errorf("failed to get user profile: %w", err)
	}

	return jsonResource(request.Params.URI, map[string]interface{}{
		"email":         profile.EmailAddress,
		"messagesTotal": profile.MessagesTotal,
		"threadsTotal":  profile.ThreadsTotal,
	})
}

func jsonResource(uri string, data interface{}) ([]mcp.ResourceContents, error) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal resource data: %w", err)
	}
	return []mcp.ResourceContents{
		&mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(jsonData),
		},
	}, nil
}
