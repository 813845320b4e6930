// Package portal implements the local authorization portal: a small HTTP
// endpoint a human visits to complete the interactive Google consent step
// out-of-band from the tool-calling process.
//
// The portal shares only two pieces of state with the rest of the server:
// the credential store it writes exchanged tokens to, and the pending
// authorization flows it tracks between /login and /callback. Flows are
// keyed by the server-generated OAuth state parameter, so concurrent
// authorization attempts from different browser sessions do not clobber
// each other and forged callbacks cannot match a flow.
package portal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/pubpug/workspace-mcp/internal/google"
	"github.com/pubpug/workspace-mcp/internal/instrumentation"
	"github.com/pubpug/workspace-mcp/internal/logging"
)

const (
	// flowTTL is how long an issued-but-unexchanged flow stays valid.
	// Provider-side authorization codes expire within minutes anyway.
	flowTTL = 10 * time.Minute

	// maxPendingFlows bounds the pending-flow map against abandoned logins.
	maxPendingFlows = 16

	readHeaderTimeout = 10 * time.Second
	writeTimeout      = 30 * time.Second
	idleTimeout       = 120 * time.Second
)

// Server is the authorization portal. It has an explicit Start/Shutdown
// lifecycle and runs on its own listener, independent of and concurrent
// with every tool invocation.
type Server struct {
	cfg      google.Config
	store    *google.Store
	resolver *google.Resolver
	logger   *slog.Logger
	metrics  *instrumentation.Metrics

	mu    sync.Mutex
	flows map[string]*google.Flow
	order []string // states in issue order, oldest first

	httpServer *http.Server
}

// Option customizes a portal Server.
type Option func(*Server)

// WithLogger sets the portal's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// WithMetrics attaches a metrics recorder to the portal.
func WithMetrics(m *instrumentation.Metrics) Option {
	return func(s *Server) { s.metrics = m }
}

// New creates a portal over the given configuration, store and resolver.
func New(cfg google.Config, store *google.Store, resolver *google.Resolver, opts ...Option) *Server {
	s := &Server{
		cfg:      cfg,
		store:    store,
		resolver: resolver,
		logger:   slog.Default(),
		flows:    make(map[string]*google.Flow),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the portal's HTTP handler. Exposed for tests.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.instrumented("/", s.handleIndex))
	mux.HandleFunc("GET /login", s.instrumented("/login", s.handleLogin))
	mux.HandleFunc("GET /callback", s.instrumented("/callback", s.handleCallback))
	return mux
}

// StartWithReadySignal starts the portal listener and closes ready once it
// is accepting connections. Blocks until the server stops.
func (s *Server) StartWithReadySignal(ready chan<- struct{}) error {
	addr := fmt.Sprintf(":%d", s.cfg.PortalPort)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("portal listen on %s: %w", addr, err)
	}

	s.httpServer = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}

	s.logger.Info("authorization portal listening", "url", s.cfg.PortalURL())
	if ready != nil {
		close(ready)
	}
	return s.httpServer.Serve(ln)
}

// Start starts the portal listener and blocks until the server stops.
func (s *Server) Start() error {
	return s.StartWithReadySignal(nil)
}

// Shutdown gracefully stops the portal.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}

// handleIndex renders the status page. The resolver call is strictly
// read-only: it may refresh silently but never starts an interactive flow.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	_, err := s.resolver.Resolve(r.Context())
	renderIndex(w, indexData{
		Authenticated: err == nil,
	})
}

// handleLogin constructs a fresh authorization flow, registers it as
// pending, and redirects the browser to the provider consent page.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	cc, err := s.cfg.ClientConfig()
	if err != nil {
		s.logger.Error("cannot start authorization flow", logging.Route("/login"), logging.Err(err))
		renderError(w, err)
		return
	}

	flow := google.NewFlow(cc, s.cfg.Scopes, s.cfg.PortalURL()+"/callback")
	authURL := flow.AuthURL()
	s.addFlow(flow)

	s.logger.Info("authorization flow started", logging.Route("/login"))
	http.Redirect(w, r, authURL, http.StatusFound)
}

// handleCallback exchanges the one-time code delivered by the provider and
// persists the resulting credential. Missing codes, unknown flows, and
// rejected codes render an error page with a retry link; the portal never
// surfaces a stack trace.
func (s *Server) handleCallback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	code := q.Get("code")
	if code == "" {
		s.renderCallbackError(w, errors.New("no authorization code received"))
		return
	}

	flow := s.takeFlow(q.Get("state"))
	if flow == nil {
		s.renderCallbackError(w, errors.New("no pending authorization flow, start again from /login"))
		return
	}

	cred, err := flow.Exchange(r.Context(), code)
	if err != nil {
		s.renderCallbackError(w, err)
		return
	}

	if err := s.store.Save(cred); err != nil {
		s.renderCallbackError(w, fmt.Errorf("saving credential: %w", err))
		return
	}

	s.recordExchange(r.Context(), instrumentation.StatusSuccess)
	s.logger.Info("authorization completed, credential persisted",
		logging.Route("/callback"), "token_file", s.store.Path())
	renderSuccess(w)
}

func (s *Server) renderCallbackError(w http.ResponseWriter, err error) {
	s.recordExchange(context.Background(), instrumentation.StatusError)
	s.logger.Warn("authorization callback failed", logging.Route("/callback"), logging.Err(err))
	renderError(w, err)
}

// addFlow registers a pending flow, evicting expired flows and, when the
// map is full, the oldest pending flow.
func (s *Server) addFlow(flow *google.Flow) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pruneLocked()
	for len(s.order) >= maxPendingFlows {
		oldest := s.order[0]
		s.order = s.order[1:]
		delete(s.flows, oldest)
	}

	s.flows[flow.State()] = flow
	s.order = append(s.order, flow.State())
}

// takeFlow removes and returns the pending flow for the given state. When
// the callback carries no state (legacy navigation), the most recently
// issued flow is used instead.
func (s *Server) takeFlow(state string) *google.Flow {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pruneLocked()

	if state == "" {
		if len(s.order) == 0 {
			return nil
		}
		state = s.order[len(s.order)-1]
	}

	flow, ok := s.flows[state]
	if !ok {
		return nil
	}
	delete(s.flows, state)
	for i, st := range s.order {
		if st == state {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return flow
}

// pruneLocked drops flows older than flowTTL. Caller holds s.mu.
func (s *Server) pruneLocked() {
	cutoff := time.Now().Add(-flowTTL)
	kept := s.order[:0]
	for _, state := range s.order {
		flow := s.flows[state]
		if flow.IssuedAt().Before(cutoff) {
			delete(s.flows, state)
			continue
		}
		kept = append(kept, state)
	}
	s.order = kept
}

// pendingFlows returns the number of pending flows. Exposed for tests.
func (s *Server) pendingFlows() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.flows)
}

func (s *Server) recordExchange(ctx context.Context, status string) {
	if s.metrics != nil {
		s.metrics.RecordFlowExchange(ctx, status)
	}
}

// instrumented wraps a handler recording portal request metrics.
func (s *Server) instrumented(route string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.metrics == nil {
			h(w, r)
			return
		}
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		h(sw, r)
		s.metrics.RecordPortalRequest(r.Context(), route, sw.status, time.Since(start))
	}
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}
