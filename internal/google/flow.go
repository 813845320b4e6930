package google

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

// FlowState tracks the lifecycle of an authorization-code flow. Transitions
// only move forward; a fresh Flow is created for every authorization attempt.
type FlowState int

const (
	FlowCreated FlowState = iota
	FlowURLIssued
	FlowExchanged
)

// Flow is a single-use OAuth2 authorization-code flow: it issues the
// provider consent URL and later exchanges the one-time code delivered to
// the redirect target for a credential.
//
// Each flow carries a server-generated state parameter so concurrent
// authorization attempts from different browser sessions can be told apart
// at the callback (and forged callbacks are rejected).
type Flow struct {
	conf    *oauth2.Config
	state   string
	timeout time.Duration

	mu     sync.Mutex
	phase  FlowState
	issued time.Time
}

// NewFlow creates a flow for the given client identity, scope set and
// redirect target.
func NewFlow(cc ClientConfig, scopes []string, redirectURL string) *Flow {
	return &Flow{
		conf:    cc.oauth2Config(scopes, redirectURL),
		state:   uuid.NewString(),
		timeout: defaultProviderTimeout,
		phase:   FlowCreated,
	}
}

// State returns the server-generated state parameter embedded in the
// consent URL.
func (f *Flow) State() string { return f.state }

// Phase returns the flow's current lifecycle state.
func (f *Flow) Phase() FlowState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.phase
}

// IssuedAt returns when the consent URL was first issued, or the zero time
// if it has not been issued yet.
func (f *Flow) IssuedAt() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.issued
}

// AuthURL builds the provider consent URL. It requests offline access and
// forces the consent screen so a refresh token is issued even when the user
// re-authorizes. Calling it again returns the same URL; no server-side nonce
// state is tracked beyond the flow itself.
func (f *Flow) AuthURL() string {
	f.mu.Lock()
	if f.phase == FlowCreated {
		f.phase = FlowURLIssued
		f.issued = time.Now()
	}
	f.mu.Unlock()

	return f.conf.AuthCodeURL(f.state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
	)
}

// Exchange trades the one-time authorization code for a credential and moves
// the flow to its terminal state. Provider-side codes are single-use and
// short-lived; a missing, reused, or expired code yields an
// InvalidGrantError.
func (f *Flow) Exchange(ctx context.Context, code string) (*Credential, error) {
	if code == "" {
		return nil, &InvalidGrantError{}
	}

	f.mu.Lock()
	if f.phase == FlowExchanged {
		f.mu.Unlock()
		return nil, &InvalidGrantError{Err: errors.New("flow already exchanged")}
	}
	f.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	tok, err := f.conf.Exchange(ctx, code)
	if err != nil {
		if providerRejected(err) {
			return nil, &InvalidGrantError{Err: err}
		}
		return nil, &TransientError{Err: err}
	}

	f.mu.Lock()
	f.phase = FlowExchanged
	f.mu.Unlock()

	return credentialFromToken(tok, f.conf.ClientID, f.conf.ClientSecret, f.conf.Scopes), nil
}

// providerRejected reports whether a token-endpoint error is a definitive
// provider rejection (bad code, revoked refresh token) as opposed to a
// transport failure or 5xx, which the caller may retry.
func providerRejected(err error) bool {
	var re *oauth2.RetrieveError
	if errors.As(err, &re) {
		return re.Response == nil || re.Response.StatusCode < 500
	}
	return false
}
