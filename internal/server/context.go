package server

import (
	"context"
	"log/slog"
	"sync"

	"github.com/pubpug/workspace-mcp/internal/calendar"
	"github.com/pubpug/workspace-mcp/internal/docs"
	"github.com/pubpug/workspace-mcp/internal/drive"
	"github.com/pubpug/workspace-mcp/internal/gmail"
	"github.com/pubpug/workspace-mcp/internal/google"
	"github.com/pubpug/workspace-mcp/internal/instrumentation"
	"github.com/pubpug/workspace-mcp/internal/sheets"
	"github.com/pubpug/workspace-mcp/internal/slides"
)

// ServerContext carries everything tool handlers need: the credential
// resolver and lazily built Google service clients.
//
// Clients are built once and cached. Their underlying token source consults
// the resolver on every request, so a client built before authorization
// starts working as soon as the portal persists a credential; nothing has to
// be rebuilt.
type ServerContext struct {
	ctx      context.Context
	cancel   context.CancelFunc
	resolver *google.Resolver
	logger   *slog.Logger
	metrics  *instrumentation.Metrics

	mu       sync.Mutex
	gmail    *gmail.Client
	calendar *calendar.Client
	drive    *drive.Client
	docs     *docs.Client
	sheets   *sheets.Client
	slides   *slides.Client
	shutdown bool
}

// ContextOption customizes a ServerContext.
type ContextOption func(*ServerContext)

// WithLogger sets the server context's logger.
func WithLogger(logger *slog.Logger) ContextOption {
	return func(sc *ServerContext) { sc.logger = logger }
}

// WithMetrics attaches a metrics recorder.
func WithMetrics(m *instrumentation.Metrics) ContextOption {
	return func(sc *ServerContext) { sc.metrics = m }
}

// NewServerContext creates a server context bound to the given credential
// resolver.
func NewServerContext(ctx context.Context, resolver *google.Resolver, opts ...ContextOption) *ServerContext {
	shutdownCtx, cancel := context.WithCancel(ctx)
	sc := &ServerContext{
		ctx:      shutdownCtx,
		cancel:   cancel,
		resolver: resolver,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(sc)
	}
	return sc
}

// Context returns the server's lifecycle context.
func (sc *ServerContext) Context() context.Context {
	return sc.ctx
}

// Resolver returns the credential resolver.
func (sc *ServerContext) Resolver() *google.Resolver {
	return sc.resolver
}

// Metrics returns the metrics recorder, or nil when instrumentation is off.
func (sc *ServerContext) Metrics() *instrumentation.Metrics {
	return sc.metrics
}

// PortalURL returns the browser-facing authorization portal URL.
func (sc *ServerContext) PortalURL() string {
	return sc.resolver.Config().PortalURL()
}

// GmailClient returns the cached Gmail client, building it on first use.
func (sc *ServerContext) GmailClient() (*gmail.Client, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	if sc.gmail == nil {
		c, err := gmail.NewClient(sc.ctx, sc.resolver.TokenSource(sc.ctx))
		if err != nil {
			return nil, err
		}
		sc.gmail = c
	}
	return sc.gmail, nil
}

// CalendarClient returns the cached Calendar client, building it on first use.
func (sc *ServerContext) CalendarClient() (*calendar.Client, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	if sc.calendar == nil {
		c, err := calendar.NewClient(sc.ctx, sc.resolver.TokenSource(sc.ctx))
		if err != nil {
			return nil, err
		}
		sc.calendar = c
	}
	return sc.calendar, nil
}

// DriveClient returns the cached Drive client, building it on first use.
func (sc *ServerContext) DriveClient() (*drive.Client, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	if sc.drive == nil {
		c, err := drive.NewClient(sc.ctx, sc.resolver.TokenSource(sc.ctx))
		if err != nil {
			return nil, err
		}
		sc.drive = c
	}
	return sc.drive, nil
}

// DocsClient returns the cached Docs client, building it on first use.
func (sc *ServerContext) DocsClient() (*docs.Client, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	if sc.docs == nil {
		c, err := docs.NewClient(sc.ctx, sc.resolver.TokenSource(sc.ctx))
		if err != nil {
			return nil, err
		}
		sc.docs = c
	}
	return sc.docs, nil
}

// SheetsClient returns the cached Sheets client, building it on first use.
func (sc *ServerContext) SheetsClient() (*sheets.Client, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	if sc.sheets == nil {
		c, err := sheets.NewClient(sc.ctx, sc.resolver.TokenSource(sc.ctx))
		if err != nil {
			return nil, err
		}
		sc.sheets = c
	}
	return sc.sheets, nil
}

// SlidesClient returns the cached Slides client, building it on first use.
func (sc *ServerContext) SlidesClient() (*slides.Client, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	if sc.slides == nil {
		c, err := slides.NewClient(sc.ctx, sc.resolver.TokenSource(sc.ctx))
		if err != nil {
			return nil, err
		}
		sc.slides = c
	}
	return sc.slides, nil
}

// IsShutdown reports whether Shutdown has been called.
func (sc *ServerContext) IsShutdown() bool {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.shutdown
}

// Shutdown cancels the server context. Safe to call more than once.
func (sc *ServerContext) Shutdown() error {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	if sc.shutdown {
		return nil
	}
	sc.shutdown = true
	sc.cancel()
	return nil
}
