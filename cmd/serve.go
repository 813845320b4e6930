package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/pubpug/workspace-mcp/internal/google"
	"github.com/pubpug/workspace-mcp/internal/instrumentation"
	"github.com/pubpug/workspace-mcp/internal/logging"
	"github.com/pubpug/workspace-mcp/internal/portal"
	"github.com/pubpug/workspace-mcp/internal/resources"
	"github.com/pubpug/workspace-mcp/internal/server"
	"github.com/pubpug/workspace-mcp/internal/tools/calendar_tools"
	"github.com/pubpug/workspace-mcp/internal/tools/docs_tools"
	"github.com/pubpug/workspace-mcp/internal/tools/drive_tools"
	"github.com/pubpug/workspace-mcp/internal/tools/gmail_tools"
	"github.com/pubpug/workspace-mcp/internal/tools/sheets_tools"
	"github.com/pubpug/workspace-mcp/internal/tools/slides_tools"
)

// MetricsConfig holds configuration for the metrics server
type MetricsConfig struct {
	// Enabled determines whether to start the metrics server (default: true)
	Enabled bool

	// Addr is the address for the metrics server (e.g., ":9090")
	Addr string
}

func newServeCmd() *cobra.Command {
	var (
		debugMode       bool
		yolo            bool
		interactive     bool
		tokenPath       string
		credentialsPath string
		clientID        string
		clientSecret    string
		authPort        int
		scopes          string
		metricsEnabled  bool
		metricsAddr     string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server",
		Long: `Start the Model Context Protocol (MCP) server to provide Google Workspace
tools for AI assistants over stdio.

Alongside the stdio transport an authorization portal is served on the
local auth port. Open it in a browser to authorize with Google; tools
start working as soon as the flow completes, without a restart.

Safety Mode:
  By default, the server operates in read-only mode, providing only safe operations.
  Use --yolo to enable write operations (email sending, cell updates, etc.)

Credential Configuration:
  Token sources, first valid wins:
    GOOGLE_TOKEN_JSON env var (inline credential)
    --token-path flag OR GOOGLE_TOKEN_PATH env var (token file)

  OAuth client identity:
    --google-client-id and --google-client-secret flags
    OR GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET env vars
    OR --credentials-path / GOOGLE_CREDENTIALS_PATH client-secret file`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := google.ConfigFromEnv()
			if cmd.Flags().Changed("token-path") {
				cfg.TokenPath = tokenPath
			}
			if cmd.Flags().Changed("credentials-path") {
				cfg.CredentialsPath = credentialsPath
			}
			if cmd.Flags().Changed("google-client-id") {
				cfg.ClientID = clientID
			}
			if cmd.Flags().Changed("google-client-secret") {
				cfg.ClientSecret = clientSecret
			}
			if cmd.Flags().Changed("auth-port") {
				cfg.PortalPort = authPort
			}
			if parsed := parseCommaSeparatedList(scopes); parsed != nil {
				cfg.Scopes = parsed
			}
			cfg.Interactive = interactive

			metricsConfig := MetricsConfig{
				Enabled: metricsEnabled,
				Addr:    metricsAddr,
			}
			if !cmd.Flags().Changed("metrics-enabled") && os.Getenv("METRICS_ENABLED") == "false" {
				metricsConfig.Enabled = false
			}
			if !cmd.Flags().Changed("metrics-addr") {
				if addr := os.Getenv("METRICS_ADDR"); addr != "" {
					metricsConfig.Addr = addr
				}
			}

			return runServe(cfg, debugMode, yolo, metricsConfig)
		},
	}

	cmd.Flags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
	cmd.Flags().BoolVar(&yolo, "yolo", false, "Enable write operations (email sending, cell updates, etc.). Default is read-only mode.")
	cmd.Flags().BoolVar(&interactive, "interactive", false, "Run a blocking local consent flow when no credential exists, instead of pointing at the portal")
	cmd.Flags().StringVar(&tokenPath, "token-path", google.DefaultTokenPath, "Path of the stored token file. Can also use GOOGLE_TOKEN_PATH env var.")
	cmd.Flags().StringVar(&credentialsPath, "credentials-path", google.DefaultCredentialsPath, "Path of the OAuth client-secret file. Can also use GOOGLE_CREDENTIALS_PATH env var.")
	cmd.Flags().StringVar(&clientID, "google-client-id", "", "Google OAuth Client ID. Can also use GOOGLE_CLIENT_ID env var.")
	cmd.Flags().StringVar(&clientSecret, "google-client-secret", "", "Google OAuth Client Secret. Can also use GOOGLE_CLIENT_SECRET env var.")
	cmd.Flags().IntVar(&authPort, "auth-port", google.DefaultPortalPort, "Port of the local authorization portal. Can also use AUTH_PORT env var.")
	cmd.Flags().StringVar(&scopes, "scopes", "", "Comma-separated OAuth scopes to request (default: full Workspace scope set)")
	cmd.Flags().BoolVar(&metricsEnabled, "metrics-enabled", true, "Enable the metrics server on a dedicated port. Can also use METRICS_ENABLED env var.")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", server.DefaultMetricsAddr, "Metrics server address. Can also use METRICS_ADDR env var.")

	return cmd
}

func runServe(cfg google.Config, debugMode bool, yolo bool, metricsConfig MetricsConfig) error {
	// Setup graceful shutdown
	shutdownCtx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// stdout carries the MCP stdio transport, so all logging goes to stderr.
	logger := logging.NewLogger(debugMode)

	// Initialize instrumentation provider
	instrConfig := instrumentation.DefaultConfig()
	instrConfig.ServiceVersion = version

	provider, err := instrumentation.NewProvider(shutdownCtx, instrConfig)
	if err != nil {
		return fmt.Errorf("failed to create instrumentation provider: %w", err)
	}
	defer func() {
		if err := provider.Shutdown(shutdownCtx); err != nil {
			logger.Error("instrumentation shutdown failed", logging.Err(err))
		}
	}()

	// Start metrics server if enabled
	var metricsServer *server.MetricsServer
	if metricsConfig.Enabled && provider.Enabled() {
		var err error
		metricsServer, err = server.NewMetricsServer(server.MetricsServerConfig{
			Addr:                    metricsConfig.Addr,
			Enabled:                 true,
			InstrumentationProvider: provider,
		})
		if err != nil {
			return fmt.Errorf("failed to create metrics server: %w", err)
		}

		// Use ready channel to confirm metrics server started successfully
		metricsReady := make(chan struct{})
		metricsErr := make(chan error, 1)
		go func() {
			if err := metricsServer.StartWithReadySignal(metricsReady); err != nil && err != http.ErrServerClosed {
				metricsErr <- err
			}
			close(metricsErr)
		}()

		select {
		case <-metricsReady:
			logger.Info("metrics server started", "addr", metricsServer.Addr())
		case err := <-metricsErr:
			return fmt.Errorf("metrics server failed to start: %w", err)
		case <-time.After(5 * time.Second):
			return fmt.Errorf("metrics server startup timed out")
		}
	}
	defer func() {
		if metricsServer == nil {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := metricsServer.Shutdown(ctx); err != nil {
			logger.Error("metrics server shutdown failed", logging.Err(err))
		}
	}()

	// Credential lifecycle: store, resolver, and the authorization portal.
	store := google.NewStore(cfg.TokenPath)
	resolverOpts := []google.ResolverOption{google.WithLogger(logger)}
	if provider.Enabled() {
		resolverOpts = append(resolverOpts, google.WithMetrics(provider.Metrics()))
	}
	resolver := google.NewResolver(cfg, store, resolverOpts...)

	portalOpts := []portal.Option{portal.WithLogger(logger)}
	if provider.Enabled() {
		portalOpts = append(portalOpts, portal.WithMetrics(provider.Metrics()))
	}
	authPortal := portal.New(cfg, store, resolver, portalOpts...)

	portalReady := make(chan struct{})
	portalErr := make(chan error, 1)
	go func() {
		if err := authPortal.StartWithReadySignal(portalReady); err != nil && err != http.ErrServerClosed {
			portalErr <- err
		}
		close(portalErr)
	}()

	select {
	case <-portalReady:
		logger.Info("authorization portal started", "url", cfg.PortalURL())
	case err := <-portalErr:
		return fmt.Errorf("authorization portal failed to start: %w", err)
	case <-time.After(5 * time.Second):
		return fmt.Errorf("authorization portal startup timed out")
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := authPortal.Shutdown(ctx); err != nil {
			logger.Error("portal shutdown failed", logging.Err(err))
		}
	}()

	// Create server context
	contextOpts := []server.ContextOption{server.WithLogger(logger)}
	if provider.Enabled() {
		contextOpts = append(contextOpts, server.WithMetrics(provider.Metrics()))
	}
	serverContext := server.NewServerContext(shutdownCtx, resolver, contextOpts...)
	defer func() {
		if err := serverContext.Shutdown(); err != nil {
			logger.Error("server context shutdown failed", logging.Err(err))
		}
	}()

	// Create MCP server
	mcpSrv := mcpserver.NewMCPServer("workspace-mcp", version,
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithResourceCapabilities(false, false), // Subscribe and listChanged
	)

	// readOnly is the inverse of yolo
	readOnly := !yolo
	if readOnly {
		logger.Info("starting in read-only mode (use --yolo to enable write operations)")
	} else {
		logger.Info("starting with write operations enabled")
	}

	// Register all tools and resources
	if err := registerAllTools(mcpSrv, serverContext, readOnly); err != nil {
		return err
	}

	return runStdioServer(shutdownCtx, mcpSrv)
}

func runStdioServer(ctx context.Context, mcpSrv *mcpserver.MCPServer) error {
	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := mcpserver.ServeStdio(mcpSrv); err != nil {
			serverDone <- err
		}
	}()

	select {
	case <-ctx.Done():
		return nil
	case err := <-serverDone:
		if err != nil {
			return fmt.Errorf("server stopped with error: %w", err)
		}
		return nil
	}
}

// registerAllTools registers all MCP tools and resources
func registerAllTools(mcpSrv *mcpserver.MCPServer, ctx *server.ServerContext, readOnly bool) error {
	type toolRegistration struct {
		name     string
		register func() error
	}

	registrations := []toolRegistration{
		{
			name: "Gmail",
			register: func() error {
				return gmail_tools.RegisterGmailTools(mcpSrv, ctx, readOnly)
			},
		},
		{
			name: "Calendar",
			register: func() error {
				return calendar_tools.RegisterCalendarTools(mcpSrv, ctx, readOnly)
			},
		},
		{
			name: "Drive",
			register: func() error {
				return drive_tools.RegisterDriveTools(mcpSrv, ctx, readOnly)
			},
		},
		{
			name: "Docs",
			register: func() error {
				return docs_tools.RegisterDocsTools(mcpSrv, ctx, readOnly)
			},
		},
		{
			name: "Sheets",
			register: func() error {
				return sheets_tools.RegisterSheetsTools(mcpSrv, ctx, readOnly)
			},
		},
		{
			name: "Slides",
			register: func() error {
				return slides_tools.RegisterSlidesTools(mcpSrv, ctx, readOnly)
			},
		},
		{
			name: "User Resources",
			register: func() error {
				return resources.RegisterUserResources(mcpSrv, ctx)
			},
		},
	}

	for _, reg := range registrations {
		if err := reg.register(); err != nil {
			return fmt.Errorf("failed to register %s: %w", reg.name, err)
		}
	}

	return nil
}

// parseCommaSeparatedList parses a comma-separated string into a slice,
// trimming whitespace from each element and filtering out empty strings.
// Returns nil if the input is empty or contains only whitespace/commas.
func parseCommaSeparatedList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	if len(result) == 0 {
		return nil
	}
	return result
}
