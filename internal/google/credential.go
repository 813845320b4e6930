package google

import (
	"encoding/json"
	"fmt"
	"time"

	"golang.org/x/oauth2"
)

// Credential is the serialized token record authorizing calls to Google APIs
// on the user's behalf. It is replaced wholesale on refresh or
// re-authorization, never partially mutated by tool code.
//
// The field set and naming mirror the provider's authorized-user file so the
// token file stays readable by Google client libraries.
type Credential struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	Expiry       time.Time `json:"expiry,omitzero"`
	Scopes       []string  `json:"scopes,omitempty"`
	ClientID     string    `json:"client_id,omitempty"`
	ClientSecret string    `json:"client_secret,omitempty"`
}

// Expired reports whether the access token's expiry has passed. A credential
// without an expiry never expires.
func (c *Credential) Expired() bool {
	return c.expired(time.Now())
}

func (c *Credential) expired(now time.Time) bool {
	return !c.Expiry.IsZero() && !c.Expiry.After(now)
}

// Valid reports whether the credential can authorize an API call right now:
// an access token is present and the expiry, if any, is in the future.
func (c *Credential) Valid() bool {
	return c.valid(time.Now())
}

func (c *Credential) valid(now time.Time) bool {
	return c != nil && c.AccessToken != "" && !c.expired(now)
}

// HasScopes reports whether the credential covers every required scope.
// A credential recorded with a strict subset of the required scopes must not
// be silently accepted; it triggers re-authorization instead.
func (c *Credential) HasScopes(required []string) bool {
	return hasAllScopes(c.Scopes, required)
}

// Token converts the credential to an oauth2 token for use with token
// sources and Google API clients.
func (c *Credential) Token() *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  c.AccessToken,
		RefreshToken: c.RefreshToken,
		Expiry:       c.Expiry,
		TokenType:    "Bearer",
	}
}

// ParseCredential deserializes a credential record from JSON bytes.
func ParseCredential(data []byte) (*Credential, error) {
	var c Credential
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceMalformed, err)
	}
	if c.AccessToken == "" && c.RefreshToken == "" {
		return nil, fmt.Errorf("%w: record carries neither access nor refresh token", ErrSourceMalformed)
	}
	return &c, nil
}

// credentialFromToken builds a credential from a token returned by the
// provider, carrying over the client identity and scopes so the persisted
// record is self-contained for later refreshes.
func credentialFromToken(t *oauth2.Token, clientID, clientSecret string, scopes []string) *Credential {
	return &Credential{
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
		Expiry:       t.Expiry,
		Scopes:       scopes,
		ClientID:     clientID,
		ClientSecret: clientSecret,
	}
}
