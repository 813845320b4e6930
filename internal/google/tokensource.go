package google

import (
	"context"
	"net/http"

	"golang.org/x/oauth2"
)

// resolverTokenSource adapts the Resolver to oauth2.TokenSource so Google
// API clients re-resolve on every request and always see the portal's
// latest write, including refreshes performed by concurrent invocations.
type resolverTokenSource struct {
	ctx context.Context
	r   *Resolver
}

func (ts *resolverTokenSource) Token() (*oauth2.Token, error) {
	cred, err := ts.r.Credentials(ts.ctx)
	if err != nil {
		return nil, err
	}
	return cred.Token(), nil
}

// TokenSource returns an oauth2.TokenSource backed by this resolver, for use
// with option.WithTokenSource when constructing Google API services.
func (r *Resolver) TokenSource(ctx context.Context) oauth2.TokenSource {
	return &resolverTokenSource{ctx: ctx, r: r}
}

// HTTPClient returns an HTTP client that authorizes requests through this
// resolver.
func (r *Resolver) HTTPClient(ctx context.Context) *http.Client {
	return oauth2.NewClient(ctx, r.TokenSource(ctx))
}
