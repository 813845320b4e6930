package google

import (
	"context"
	"encoding/json"
	"net/http"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func testConfig(t *testing.T, tokenURL string) Config {
	t.Helper()
	return Config{
		TokenPath:    filepath.Join(t.TempDir(), "token.json"),
		ClientID:     "test-client",
		ClientSecret: "test-secret",
		PortalPort:   3838,
		Scopes:       []string{"scope-a"},
		Endpoint:     oauth2.Endpoint{TokenURL: tokenURL},
	}
}

func mustJSON(t *testing.T, cred *Credential) string {
	t.Helper()
	data, err := json.Marshal(cred)
	require.NoError(t, err)
	return string(data)
}

func TestResolveNoSources(t *testing.T) {
	cfg := testConfig(t, "https://oauth2.example.com/token")
	r := NewResolver(cfg, NewStore(cfg.TokenPath))

	_, err := r.Resolve(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotAuthenticated)

	var nae *NotAuthenticatedError
	require.ErrorAs(t, err, &nae)
	assert.Equal(t, "http://localhost:3838", nae.PortalURL)
	assert.Contains(t, err.Error(), "http://localhost:3838")
}

func TestResolveValidFileNoRefresh(t *testing.T) {
	var refreshCalls atomic.Int32
	srv := tokenEndpoint(t, func(w http.ResponseWriter, _ *http.Request) {
		refreshCalls.Add(1)
		jsonToken(w, `{"access_token":"should-not-happen","token_type":"Bearer"}`)
	})

	cfg := testConfig(t, srv.URL)
	store := NewStore(cfg.TokenPath)
	require.NoError(t, store.Save(&Credential{
		AccessToken: "file-token",
		Expiry:      time.Now().Add(time.Hour),
	}))

	r := NewResolver(cfg, store)
	cred, err := r.Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "file-token", cred.AccessToken)
	assert.Zero(t, refreshCalls.Load(), "a valid credential must never trigger a provider call")
}

func TestResolveEnvBeforeFile(t *testing.T) {
	cfg := testConfig(t, "https://oauth2.example.com/token")
	store := NewStore(cfg.TokenPath)
	require.NoError(t, store.Save(&Credential{
		AccessToken: "file-token",
		Expiry:      time.Now().Add(time.Hour),
	}))
	cfg.TokenJSON = mustJSON(t, &Credential{
		AccessToken: "env-token",
		Expiry:      time.Now().Add(time.Hour),
	})

	r := NewResolver(cfg, store)
	cred, err := r.Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "env-token", cred.AccessToken)
}

func TestResolveMalformedEnvFallsThrough(t *testing.T) {
	cfg := testConfig(t, "https://oauth2.example.com/token")
	cfg.TokenJSON = "{not json"
	store := NewStore(cfg.TokenPath)
	require.NoError(t, store.Save(&Credential{
		AccessToken: "file-token",
		Expiry:      time.Now().Add(time.Hour),
	}))

	r := NewResolver(cfg, store)
	cred, err := r.Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "file-token", cred.AccessToken)
}

func TestResolveRefreshesExpired(t *testing.T) {
	srv := tokenEndpoint(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "refresh_token", r.Form.Get("grant_type"))
		assert.Equal(t, "r1", r.Form.Get("refresh_token"))
		jsonToken(w, `{"access_token":"renewed","token_type":"Bearer","expires_in":3600}`)
	})

	cfg := testConfig(t, srv.URL)
	store := NewStore(cfg.TokenPath)
	require.NoError(t, store.Save(&Credential{
		AccessToken:  "stale",
		RefreshToken: "r1",
		Expiry:       time.Now().Add(-time.Hour),
	}))

	r := NewResolver(cfg, store)
	cred, err := r.Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "renewed", cred.AccessToken)
	assert.Equal(t, "r1", cred.RefreshToken, "an unrotated refresh token is kept")

	// The renewed credential must be persisted so the next resolution does
	// not repeat the refresh.
	persisted, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "renewed", persisted.AccessToken)
	assert.Equal(t, "r1", persisted.RefreshToken)
}

func TestResolveRefreshRotatesToken(t *testing.T) {
	srv := tokenEndpoint(t, func(w http.ResponseWriter, _ *http.Request) {
		jsonToken(w, `{"access_token":"renewed","token_type":"Bearer","refresh_token":"r2","expires_in":3600}`)
	})

	cfg := testConfig(t, srv.URL)
	store := NewStore(cfg.TokenPath)
	require.NoError(t, store.Save(&Credential{
		AccessToken:  "stale",
		RefreshToken: "r1",
		Expiry:       time.Now().Add(-time.Hour),
	}))

	r := NewResolver(cfg, store)
	cred, err := r.Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "r2", cred.RefreshToken)
}

func TestResolveExpiredWithoutRefreshToken(t *testing.T) {
	var calls atomic.Int32
	srv := tokenEndpoint(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	})

	cfg := testConfig(t, srv.URL)
	store := NewStore(cfg.TokenPath)
	require.NoError(t, store.Save(&Credential{
		AccessToken: "stale",
		Expiry:      time.Now().Add(-time.Hour),
	}))

	r := NewResolver(cfg, store)
	_, err := r.Resolve(context.Background())
	assert.ErrorIs(t, err, ErrNotAuthenticated)
	assert.Zero(t, calls.Load(), "no refresh token means no provider call")
}

func TestResolveInsufficientScopes(t *testing.T) {
	var calls atomic.Int32
	srv := tokenEndpoint(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		jsonToken(w, `{"access_token":"renewed","token_type":"Bearer"}`)
	})

	cfg := testConfig(t, srv.URL)
	cfg.Scopes = []string{"scope-a", "scope-b"}
	store := NewStore(cfg.TokenPath)
	require.NoError(t, store.Save(&Credential{
		AccessToken:  "narrow",
		RefreshToken: "r1",
		Expiry:       time.Now().Add(time.Hour),
		Scopes:       []string{"scope-a"},
	}))

	r := NewResolver(cfg, store)
	_, err := r.Resolve(context.Background())
	assert.ErrorIs(t, err, ErrNotAuthenticated,
		"a credential granted fewer scopes than required cannot be used")
	assert.Zero(t, calls.Load(),
		"refreshing cannot widen a grant, so it must not be attempted")
}

func TestResolveUnknownScopesAccepted(t *testing.T) {
	// Records written before scope tracking carry no scope list; they are
	// accepted rather than forcing everyone back through the portal.
	cfg := testConfig(t, "https://oauth2.example.com/token")
	cfg.Scopes = []string{"scope-a", "scope-b"}
	store := NewStore(cfg.TokenPath)
	require.NoError(t, store.Save(&Credential{
		AccessToken: "legacy",
		Expiry:      time.Now().Add(time.Hour),
	}))

	r := NewResolver(cfg, store)
	cred, err := r.Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "legacy", cred.AccessToken)
}

func TestResolveRefreshRejected(t *testing.T) {
	srv := tokenEndpoint(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
	})

	cfg := testConfig(t, srv.URL)
	store := NewStore(cfg.TokenPath)
	require.NoError(t, store.Save(&Credential{
		AccessToken:  "stale",
		RefreshToken: "revoked",
		Expiry:       time.Now().Add(-time.Hour),
	}))

	r := NewResolver(cfg, store)
	_, err := r.Resolve(context.Background())
	var re *RefreshError
	require.ErrorAs(t, err, &re)
	assert.ErrorIs(t, err, ErrNotAuthenticated,
		"a rejected refresh needs the same remediation as never authenticating")
}

func TestResolveRefreshProviderOutage(t *testing.T) {
	srv := tokenEndpoint(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	cfg := testConfig(t, srv.URL)
	store := NewStore(cfg.TokenPath)
	require.NoError(t, store.Save(&Credential{
		AccessToken:  "stale",
		RefreshToken: "r1",
		Expiry:       time.Now().Add(-time.Hour),
	}))

	r := NewResolver(cfg, store)
	_, err := r.Resolve(context.Background())
	var te *TransientError
	require.ErrorAs(t, err, &te)
	assert.NotErrorIs(t, err, ErrNotAuthenticated,
		"an outage must not be reported as missing authentication")

	// The stored credential survives the failed attempt.
	persisted, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "stale", persisted.AccessToken)
	assert.Equal(t, "r1", persisted.RefreshToken)
}

func TestResolveRefreshUsesRecordedClientIdentity(t *testing.T) {
	srv := tokenEndpoint(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		id, secret, _ := r.BasicAuth()
		if id == "" {
			id, secret = r.Form.Get("client_id"), r.Form.Get("client_secret")
		}
		assert.Equal(t, "recorded-client", id)
		assert.Equal(t, "recorded-secret", secret)
		jsonToken(w, `{"access_token":"renewed","token_type":"Bearer","expires_in":3600}`)
	})

	cfg := testConfig(t, srv.URL)
	cfg.ClientID, cfg.ClientSecret = "", ""
	cfg.CredentialsPath = filepath.Join(t.TempDir(), "missing.json")
	store := NewStore(cfg.TokenPath)
	require.NoError(t, store.Save(&Credential{
		AccessToken:  "stale",
		RefreshToken: "r1",
		Expiry:       time.Now().Add(-time.Hour),
		ClientID:     "recorded-client",
		ClientSecret: "recorded-secret",
	}))

	r := NewResolver(cfg, store)
	cred, err := r.Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "renewed", cred.AccessToken)
}

func TestResolveRefreshWithoutClientIdentity(t *testing.T) {
	cfg := testConfig(t, "https://oauth2.example.com/token")
	cfg.ClientID, cfg.ClientSecret = "", ""
	cfg.CredentialsPath = filepath.Join(t.TempDir(), "missing.json")
	store := NewStore(cfg.TokenPath)
	require.NoError(t, store.Save(&Credential{
		AccessToken:  "stale",
		RefreshToken: "r1",
		Expiry:       time.Now().Add(-time.Hour),
	}))

	r := NewResolver(cfg, store)
	_, err := r.Resolve(context.Background())
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestTokenSourceSeesLatestWrite(t *testing.T) {
	cfg := testConfig(t, "https://oauth2.example.com/token")
	store := NewStore(cfg.TokenPath)
	require.NoError(t, store.Save(&Credential{
		AccessToken: "first",
		Expiry:      time.Now().Add(time.Hour),
	}))

	r := NewResolver(cfg, store)
	ts := r.TokenSource(context.Background())

	tok, err := ts.Token()
	require.NoError(t, err)
	assert.Equal(t, "first", tok.AccessToken)

	// A portal write lands between two API calls; the source picks it up
	// without rebuilding any client.
	require.NoError(t, store.Save(&Credential{
		AccessToken: "second",
		Expiry:      time.Now().Add(time.Hour),
	}))

	tok, err = ts.Token()
	require.NoError(t, err)
	assert.Equal(t, "second", tok.AccessToken)
}
