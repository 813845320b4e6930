package google

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"golang.org/x/oauth2"
	googleoauth "golang.org/x/oauth2/google"
)

// Defaults for environment-driven configuration. The keys and fallbacks
// match what the deployment environment has always used.
const (
	DefaultTokenPath       = ".token.json"
	DefaultCredentialsPath = "credentials.json"
	DefaultPortalPort      = 3838

	// defaultProviderTimeout bounds calls to the token endpoint.
	defaultProviderTimeout = 30 * time.Second
)

// Config holds everything the credential lifecycle needs: where tokens live,
// the OAuth client identity, and the portal location named in
// "not authenticated" messages.
type Config struct {
	// TokenPath is the token file location (GOOGLE_TOKEN_PATH).
	TokenPath string

	// TokenJSON is an inline serialized credential (GOOGLE_TOKEN_JSON).
	// When set it is tried before the token file; the first valid source wins.
	TokenJSON string

	// ClientID and ClientSecret are the inline OAuth client identity
	// (GOOGLE_CLIENT_ID / GOOGLE_CLIENT_SECRET).
	ClientID     string
	ClientSecret string

	// CredentialsPath points at a provider-issued client-secret file,
	// used when the inline identity is absent (GOOGLE_CREDENTIALS_PATH).
	CredentialsPath string

	// PortalPort is the TCP port of the authorization portal (AUTH_PORT).
	PortalPort int

	// Scopes are the OAuth scopes requested during authorization and
	// required of stored credentials. Defaults to DefaultScopes.
	Scopes []string

	// Interactive makes the resolver block on a local consent flow when no
	// credential exists, instead of failing fast with a portal pointer.
	Interactive bool

	// Endpoint is the provider's OAuth2 endpoint. Defaults to Google's;
	// overridable for tests.
	Endpoint oauth2.Endpoint

	// ProviderTimeout bounds token endpoint calls. Defaults to 30s.
	ProviderTimeout time.Duration
}

// ConfigFromEnv builds a Config from the process environment, applying
// defaults for anything unset.
func ConfigFromEnv() Config {
	cfg := Config{
		TokenPath:       envOrDefault("GOOGLE_TOKEN_PATH", DefaultTokenPath),
		TokenJSON:       os.Getenv("GOOGLE_TOKEN_JSON"),
		ClientID:        os.Getenv("GOOGLE_CLIENT_ID"),
		ClientSecret:    os.Getenv("GOOGLE_CLIENT_SECRET"),
		CredentialsPath: envOrDefault("GOOGLE_CREDENTIALS_PATH", DefaultCredentialsPath),
		PortalPort:      DefaultPortalPort,
	}
	if port := os.Getenv("AUTH_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil && p > 0 {
			cfg.PortalPort = p
		}
	}
	return cfg.withDefaults()
}

func (c Config) withDefaults() Config {
	if c.TokenPath == "" {
		c.TokenPath = DefaultTokenPath
	}
	if c.PortalPort == 0 {
		c.PortalPort = DefaultPortalPort
	}
	if len(c.Scopes) == 0 {
		c.Scopes = DefaultScopes
	}
	if c.Endpoint.TokenURL == "" {
		c.Endpoint = googleoauth.Endpoint
	}
	if c.ProviderTimeout == 0 {
		c.ProviderTimeout = defaultProviderTimeout
	}
	return c
}

// PortalURL returns the browser-facing URL of the authorization portal.
func (c Config) PortalURL() string {
	port := c.PortalPort
	if port == 0 {
		port = DefaultPortalPort
	}
	return fmt.Sprintf("http://localhost:%d", port)
}

// ClientConfig is the resolved OAuth client identity used to build flows and
// refresh tokens.
type ClientConfig struct {
	ClientID     string
	ClientSecret string
	Endpoint     oauth2.Endpoint
}

// clientSecretFile is the relevant subset of a provider-issued client-secret
// JSON file. Both the "installed" and "web" application types are accepted.
type clientSecretFile struct {
	Installed *clientSecretEntry `json:"installed"`
	Web       *clientSecretEntry `json:"web"`
}

type clientSecretEntry struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
}

// ClientConfig resolves the OAuth client identity: the inline id/secret when
// both are set, otherwise the client-secret file. Returns
// ErrConfigurationMissing when neither is available.
func (c Config) ClientConfig() (ClientConfig, error) {
	c = c.withDefaults()
	if c.ClientID != "" && c.ClientSecret != "" {
		return ClientConfig{ClientID: c.ClientID, ClientSecret: c.ClientSecret, Endpoint: c.Endpoint}, nil
	}

	data, err := os.ReadFile(c.CredentialsPath)
	if err != nil {
		if os.IsNotExist(err) {
			return ClientConfig{}, fmt.Errorf("%w (looked for %s)", ErrConfigurationMissing, c.CredentialsPath)
		}
		return ClientConfig{}, fmt.Errorf("reading credentials file %s: %w", c.CredentialsPath, err)
	}

	var f clientSecretFile
	if err := json.Unmarshal(data, &f); err != nil {
		return ClientConfig{}, fmt.Errorf("parsing credentials file %s: %w", c.CredentialsPath, err)
	}
	entry := f.Installed
	if entry == nil {
		entry = f.Web
	}
	if entry == nil || entry.ClientID == "" {
		return ClientConfig{}, fmt.Errorf("credentials file %s: %w", c.CredentialsPath, ErrConfigurationMissing)
	}
	return ClientConfig{ClientID: entry.ClientID, ClientSecret: entry.ClientSecret, Endpoint: c.Endpoint}, nil
}

// oauth2Config builds the library config for a client identity, scope set
// and redirect target.
func (cc ClientConfig) oauth2Config(scopes []string, redirectURL string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     cc.ClientID,
		ClientSecret: cc.ClientSecret,
		Endpoint:     cc.Endpoint,
		RedirectURL:  redirectURL,
		Scopes:       scopes,
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
