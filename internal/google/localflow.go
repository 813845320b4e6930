package google

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/pubpug/workspace-mcp/internal/logging"
)

// interactiveFlow runs the authorization-code flow against a short-lived
// loopback listener and blocks until the user completes consent in a
// browser. It is the interactive counterpart to the portal: the tool
// invocation that triggered it waits for the exchanged credential.
func (r *Resolver) interactiveFlow(ctx context.Context) (*Credential, error) {
	cc, err := r.cfg.ClientConfig()
	if err != nil {
		return nil, err
	}

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, fmt.Errorf("starting loopback listener: %w", err)
	}
	defer ln.Close()

	redirectURL := fmt.Sprintf("http://%s/", ln.Addr().String())
	flow := NewFlow(cc, r.cfg.Scopes, redirectURL)

	type callback struct {
		code string
		err  error
	}
	results := make(chan callback, 1)

	srv := &http.Server{
		ReadHeaderTimeout: 10 * time.Second,
		Handler: http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			q := req.URL.Query()
			if state := q.Get("state"); state != flow.State() {
				http.Error(w, "state mismatch", http.StatusBadRequest)
				results <- callback{err: &InvalidGrantError{Err: fmt.Errorf("state mismatch")}}
				return
			}
			code := q.Get("code")
			if code == "" {
				http.Error(w, "no authorization code received", http.StatusBadRequest)
				results <- callback{err: &InvalidGrantError{}}
				return
			}
			fmt.Fprintln(w, "Authorization received. You can close this window.")
			results <- callback{code: code}
		}),
	}
	go func() { _ = srv.Serve(ln) }()
	defer srv.Close()

	r.logger.Info("waiting for interactive authorization",
		logging.Operation("interactive_flow"), "url", flow.AuthURL())
	// stdout carries the MCP stdio transport; user-facing prompts go to stderr.
	fmt.Fprintf(os.Stderr, "Open this URL in your browser to authorize with Google:\n\n  %s\n\n", flow.AuthURL())

	var cb callback
	select {
	case cb = <-results:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	if cb.err != nil {
		return nil, cb.err
	}

	cred, err := flow.Exchange(ctx, cb.code)
	if err != nil {
		return nil, err
	}
	if err := r.store.Save(cred); err != nil {
		return nil, fmt.Errorf("persisting credential: %w", err)
	}
	return cred, nil
}
