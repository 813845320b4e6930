package google

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func testClientConfig(tokenURL string) ClientConfig {
	return ClientConfig{
		ClientID:     "test-client",
		ClientSecret: "test-secret",
		Endpoint: oauth2.Endpoint{
			AuthURL:  "https://accounts.example.com/auth",
			TokenURL: tokenURL,
		},
	}
}

// tokenEndpoint returns a fake provider token endpoint. The handler decides
// the response per request form values.
func tokenEndpoint(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func jsonToken(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(body))
}

func TestFlowAuthURL(t *testing.T) {
	flow := NewFlow(testClientConfig("https://oauth2.example.com/token"),
		[]string{"scope-a", "scope-b"}, "http://localhost:3838/callback")

	assert.Equal(t, FlowCreated, flow.Phase())

	authURL := flow.AuthURL()
	assert.Equal(t, FlowURLIssued, flow.Phase())

	u, err := url.Parse(authURL)
	require.NoError(t, err)
	q := u.Query()
	assert.Equal(t, "test-client", q.Get("client_id"))
	assert.Equal(t, "scope-a scope-b", q.Get("scope"))
	assert.Equal(t, "offline", q.Get("access_type"))
	assert.Equal(t, "consent", q.Get("prompt"))
	assert.Equal(t, flow.State(), q.Get("state"))
	assert.Equal(t, "http://localhost:3838/callback", q.Get("redirect_uri"))

	// Re-issuing is idempotent: same URL, no new nonce.
	assert.Equal(t, authURL, flow.AuthURL())
}

func TestFlowStateIsUnique(t *testing.T) {
	cc := testClientConfig("https://oauth2.example.com/token")
	a := NewFlow(cc, DefaultScopes, "http://localhost:3838/callback")
	b := NewFlow(cc, DefaultScopes, "http://localhost:3838/callback")
	assert.NotEmpty(t, a.State())
	assert.NotEqual(t, a.State(), b.State())
}

func TestFlowExchange(t *testing.T) {
	srv := tokenEndpoint(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "authorization_code", r.Form.Get("grant_type"))
		assert.Equal(t, "one-time-code", r.Form.Get("code"))
		jsonToken(w, `{"access_token":"xyz","token_type":"Bearer","refresh_token":"r1","expires_in":3600}`)
	})

	flow := NewFlow(testClientConfig(srv.URL), []string{"scope-a"}, "http://localhost:3838/callback")
	flow.AuthURL()

	cred, err := flow.Exchange(context.Background(), "one-time-code")
	require.NoError(t, err)
	assert.Equal(t, FlowExchanged, flow.Phase())
	assert.Equal(t, "xyz", cred.AccessToken)
	assert.Equal(t, "r1", cred.RefreshToken)
	assert.False(t, cred.Expired())
	assert.Equal(t, []string{"scope-a"}, cred.Scopes)
	assert.Equal(t, "test-client", cred.ClientID)
	assert.Equal(t, "test-secret", cred.ClientSecret)
}

func TestFlowExchangeMissingCode(t *testing.T) {
	flow := NewFlow(testClientConfig("https://oauth2.example.com/token"),
		DefaultScopes, "http://localhost:3838/callback")

	_, err := flow.Exchange(context.Background(), "")
	var ig *InvalidGrantError
	assert.ErrorAs(t, err, &ig)
}

func TestFlowExchangeSingleUse(t *testing.T) {
	srv := tokenEndpoint(t, func(w http.ResponseWriter, _ *http.Request) {
		jsonToken(w, `{"access_token":"xyz","token_type":"Bearer"}`)
	})

	flow := NewFlow(testClientConfig(srv.URL), DefaultScopes, "http://localhost:3838/callback")
	flow.AuthURL()

	_, err := flow.Exchange(context.Background(), "one-time-code")
	require.NoError(t, err)

	_, err = flow.Exchange(context.Background(), "one-time-code")
	var ig *InvalidGrantError
	assert.ErrorAs(t, err, &ig)
}

func TestFlowExchangeRejectedCode(t *testing.T) {
	srv := tokenEndpoint(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
	})

	flow := NewFlow(testClientConfig(srv.URL), DefaultScopes, "http://localhost:3838/callback")
	flow.AuthURL()

	_, err := flow.Exchange(context.Background(), "expired-code")
	var ig *InvalidGrantError
	assert.ErrorAs(t, err, &ig)

	// A rejected code does not terminate the flow; the provider might be
	// retried with a fresh code only via a new flow, but the state machine
	// stays at URLIssued.
	assert.Equal(t, FlowURLIssued, flow.Phase())
}

func TestFlowExchangeProviderOutage(t *testing.T) {
	srv := tokenEndpoint(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	flow := NewFlow(testClientConfig(srv.URL), DefaultScopes, "http://localhost:3838/callback")
	flow.AuthURL()

	_, err := flow.Exchange(context.Background(), "code")
	var te *TransientError
	assert.ErrorAs(t, err, &te)
	assert.NotErrorIs(t, err, ErrNotAuthenticated)
}
