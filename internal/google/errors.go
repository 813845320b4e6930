package google

import (
	"errors"
	"fmt"
)

// Sentinel errors for the credential lifecycle. Resolver and Store
// distinguish "source absent" from "source malformed" so control flow never
// depends on swallowed parse failures.
var (
	// ErrNotAuthenticated means no usable credential exists and no silent
	// refresh is possible. Remediation is human interaction with the portal.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrConfigurationMissing means neither an inline client id/secret nor a
	// client-secret file is available when a flow must be started.
	ErrConfigurationMissing = errors.New("no OAuth client configuration: set client id/secret or provide a credentials file")

	// ErrSourceAbsent means a credential source (env var, token file) is not
	// configured or does not exist.
	ErrSourceAbsent = errors.New("credential source absent")

	// ErrSourceMalformed means a credential source exists but could not be
	// parsed into a credential.
	ErrSourceMalformed = errors.New("credential source malformed")
)

// NotAuthenticatedError carries the portal URL so the rendered message
// always names the remediation path.
type NotAuthenticatedError struct {
	PortalURL string
}

func (e *NotAuthenticatedError) Error() string {
	return fmt.Sprintf("not authenticated: open %s in your browser to authorize with Google", e.PortalURL)
}

func (e *NotAuthenticatedError) Is(target error) bool {
	return target == ErrNotAuthenticated
}

// RefreshError means the provider rejected the refresh token (revoked or
// expired). It is not retried; the remediation is the same as never having
// authenticated, so it satisfies errors.Is(err, ErrNotAuthenticated).
type RefreshError struct {
	Err error
}

func (e *RefreshError) Error() string {
	return fmt.Sprintf("token refresh rejected by provider: %v", e.Err)
}

func (e *RefreshError) Unwrap() error { return e.Err }

func (e *RefreshError) Is(target error) bool {
	return target == ErrNotAuthenticated
}

// InvalidGrantError means an authorization code was missing, already used,
// or expired when exchanged at the token endpoint.
type InvalidGrantError struct {
	Err error
}

func (e *InvalidGrantError) Error() string {
	if e.Err == nil {
		return "invalid grant: authorization code missing, already used, or expired"
	}
	return fmt.Sprintf("invalid grant: %v", e.Err)
}

func (e *InvalidGrantError) Unwrap() error { return e.Err }

// TransientError wraps a network failure, timeout, or provider 5xx. The
// whole resolution is safe to retry.
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("transient provider error: %v", e.Err)
}

func (e *TransientError) Unwrap() error { return e.Err }
