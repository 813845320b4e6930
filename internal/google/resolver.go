package google

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/oauth2"

	"github.com/pubpug/workspace-mcp/internal/instrumentation"
	"github.com/pubpug/workspace-mcp/internal/logging"
)

// Source labels for logging and metrics.
const (
	sourceEnv     = "env"
	sourceFile    = "file"
	sourceRefresh = "refresh"
)

// Resolver produces a valid credential for every tool invocation. It tries
// the environment-supplied token, then the token file, refreshes an expired
// credential when a refresh token exists, and otherwise reports
// ErrNotAuthenticated naming the portal URL.
//
// Precedence is explicit: the first valid source wins, and the environment
// is consulted before the file. Every call may re-read the sources; no
// in-process credential cache is kept, so the resolver always observes the
// portal's latest write.
type Resolver struct {
	cfg     Config
	store   *Store
	logger  *slog.Logger
	metrics *instrumentation.Metrics
	base    *http.Client
	now     func() time.Time
}

// ResolverOption customizes a Resolver.
type ResolverOption func(*Resolver)

// WithLogger sets the resolver's logger.
func WithLogger(logger *slog.Logger) ResolverOption {
	return func(r *Resolver) { r.logger = logger }
}

// WithMetrics attaches a metrics recorder to the resolver.
func WithMetrics(m *instrumentation.Metrics) ResolverOption {
	return func(r *Resolver) { r.metrics = m }
}

// WithHTTPClient overrides the HTTP client used for token endpoint calls.
func WithHTTPClient(c *http.Client) ResolverOption {
	return func(r *Resolver) { r.base = c }
}

// withClock overrides the resolver's clock in tests.
func withClock(now func() time.Time) ResolverOption {
	return func(r *Resolver) { r.now = now }
}

// NewResolver creates a resolver over the given configuration and store.
func NewResolver(cfg Config, store *Store, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		cfg:    cfg.withDefaults(),
		store:  store,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.base == nil {
		r.base = &http.Client{Timeout: r.cfg.ProviderTimeout}
	}
	return r
}

// Store returns the credential store the resolver persists to.
func (r *Resolver) Store() *Store {
	return r.store
}

// Config returns the resolver's configuration.
func (r *Resolver) Config() Config {
	return r.cfg
}

// Credentials resolves a valid credential following the configured policy.
// In fail-fast mode (the default) it returns an error naming the portal URL
// when no credential can be produced; in interactive mode it blocks on a
// local consent flow instead.
func (r *Resolver) Credentials(ctx context.Context) (*Credential, error) {
	cred, err := r.Resolve(ctx)
	if err != nil && r.cfg.Interactive && errors.Is(err, ErrNotAuthenticated) {
		return r.interactiveFlow(ctx)
	}
	return cred, err
}

// Resolve resolves a valid credential without ever starting an interactive
// flow. The portal's status page uses this directly.
func (r *Resolver) Resolve(ctx context.Context) (*Credential, error) {
	var candidate *Credential
	candidateSource := ""

	for _, src := range []struct {
		name string
		load func() (*Credential, error)
	}{
		{sourceEnv, r.loadEnv},
		{sourceFile, r.loadFile},
	} {
		cred, err := src.load()
		if err != nil {
			if !errors.Is(err, ErrSourceAbsent) {
				// Malformed sources are logged and skipped, never fatal:
				// the next source may still produce a usable credential.
				r.logger.Warn("skipping credential source",
					logging.Source(src.name), logging.Err(err))
			}
			continue
		}
		if !cred.HasScopes(r.cfg.Scopes) {
			// A credential authorized for fewer scopes than required is
			// not valid for this server and must not be refreshed either;
			// re-authorization is the only way to widen the grant.
			r.logger.Warn("credential scopes insufficient, re-authorization required",
				logging.Source(src.name))
			continue
		}
		if cred.valid(r.now()) {
			r.recordResolution(ctx, src.name, instrumentation.StatusSuccess)
			return cred, nil
		}
		if candidate == nil {
			candidate, candidateSource = cred, src.name
		}
	}

	if candidate != nil && candidate.RefreshToken != "" {
		cred, err := r.refresh(ctx, candidate)
		if err != nil {
			r.recordResolution(ctx, sourceRefresh, instrumentation.StatusError)
			return nil, err
		}
		r.logger.Info("access token refreshed", logging.Source(candidateSource))
		r.recordResolution(ctx, sourceRefresh, instrumentation.StatusSuccess)
		return cred, nil
	}

	r.recordResolution(ctx, "none", instrumentation.StatusError)
	return nil, &NotAuthenticatedError{PortalURL: r.cfg.PortalURL()}
}

// loadEnv parses the inline environment token.
func (r *Resolver) loadEnv() (*Credential, error) {
	if r.cfg.TokenJSON == "" {
		return nil, ErrSourceAbsent
	}
	return ParseCredential([]byte(r.cfg.TokenJSON))
}

// loadFile loads the persisted token record.
func (r *Resolver) loadFile() (*Credential, error) {
	return r.store.Load()
}

// refresh contacts the token endpoint with the credential's refresh token
// and persists the renewed credential so subsequent resolutions do not
// repeat the refresh. A provider rejection surfaces as RefreshError, which
// callers treat exactly like never having authenticated.
func (r *Resolver) refresh(ctx context.Context, cred *Credential) (*Credential, error) {
	cc, err := r.clientConfigFor(cred)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, r.cfg.ProviderTimeout)
	defer cancel()
	ctx = context.WithValue(ctx, oauth2.HTTPClient, r.base)

	conf := cc.oauth2Config(r.cfg.Scopes, "")
	tok, err := conf.TokenSource(ctx, cred.Token()).Token()
	if err != nil {
		r.recordRefresh(ctx, instrumentation.StatusError)
		if providerRejected(err) {
			return nil, &RefreshError{Err: err}
		}
		return nil, &TransientError{Err: err}
	}
	r.recordRefresh(ctx, instrumentation.StatusSuccess)

	renewed := credentialFromToken(tok, cc.ClientID, cc.ClientSecret, cred.Scopes)
	if renewed.RefreshToken == "" {
		// The provider only returns a refresh token when it rotates it.
		renewed.RefreshToken = cred.RefreshToken
	}

	if err := r.store.Save(renewed); err != nil {
		// Resolution succeeded; a failed write only costs a redundant
		// refresh on the next call.
		r.logger.Error("persisting refreshed credential failed", logging.Err(err))
	}
	return renewed, nil
}

// clientConfigFor prefers the client identity recorded alongside the
// credential, falling back to the configured identity.
func (r *Resolver) clientConfigFor(cred *Credential) (ClientConfig, error) {
	if cred.ClientID != "" && cred.ClientSecret != "" {
		return ClientConfig{
			ClientID:     cred.ClientID,
			ClientSecret: cred.ClientSecret,
			Endpoint:     r.cfg.Endpoint,
		}, nil
	}
	cc, err := r.cfg.ClientConfig()
	if err != nil {
		if errors.Is(err, ErrConfigurationMissing) {
			// Without a client identity the refresh token is unusable.
			return ClientConfig{}, &NotAuthenticatedError{PortalURL: r.cfg.PortalURL()}
		}
		return ClientConfig{}, err
	}
	return cc, nil
}

func (r *Resolver) recordResolution(ctx context.Context, source, status string) {
	if r.metrics != nil {
		r.metrics.RecordCredentialResolution(ctx, source, status)
	}
}

func (r *Resolver) recordRefresh(ctx context.Context, status string) {
	if r.metrics != nil {
		r.metrics.RecordTokenRefresh(ctx, status)
	}
}
