// Package google implements the Google OAuth2 credential lifecycle for the
// MCP server: loading persisted tokens, validating them against the required
// scopes, refreshing expired access tokens, and running the
// authorization-code flow that mints new credentials.
//
// The package is organized around four pieces:
//
//   - Credential: the serialized token record (access token, refresh token,
//     expiry, scopes, client identity)
//   - Store: file persistence for a Credential with atomic writes
//   - Flow: a single-use authorization-code flow state machine
//   - Resolver: the hot-path orchestrator every tool invocation calls to
//     obtain a valid Credential
//
// All errors that mean "a human has to re-consent" satisfy
// errors.Is(err, ErrNotAuthenticated) so callers can render a single
// remediation message pointing at the authorization portal.
package google
