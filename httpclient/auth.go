package httpclient

import (
	"context"
	"errors"
	"fmt"

	"github.com/kbukum/restkit/resilience"
)

// authBracket wraps each exchange with authentication hooks. Transports that
// do not implement Authenticator pass straight through; their credentials
// travel on the request.
type authBracket struct {
	auth Authenticator
	gate *resilience.Bulkhead
}

func newAuthBracket(name string, t Transport) *authBracket {
	a, ok := t.(Authenticator)
	if !ok {
		return &authBracket{}
	}
	return &authBracket{
		auth: a,
		gate: resilience.NewBulkhead(resilience.BulkheadConfig{
			Name:          name + "-auth",
			MaxConcurrent: 1,
			MaxWait:       -1,
		}),
	}
}

// run executes fn inside the bracket. Once the gate is held, Deauthenticate
// runs exactly once on every exit path, on a context that ignores
// cancellation.
func (a *authBracket) run(ctx context.Context, creds BasicAuth, fn func(context.Context) (*Response, error)) (*Response, error) {
	if a.auth == nil {
		return fn(ctx)
	}

	release, err := a.gate.Acquire(ctx)
	if err != nil {
		return nil, NewTimeoutError(fmt.Errorf("wait for transport session: %w", err))
	}
	defer release()
	return a.exchange(ctx, creds, fn)
}

func (a *authBracket) exchange(ctx context.Context, creds BasicAuth, fn func(context.Context) (*Response, error)) (resp *Response, err error) {
	defer func() {
		if derr := a.auth.Deauthenticate(context.WithoutCancel(ctx)); derr != nil {
			err = errors.Join(err, NewAuthError(fmt.Errorf("deauthenticate: %w", derr)))
		}
	}()

	if !creds.IsZero() {
		if aerr := a.auth.Authenticate(ctx, creds); aerr != nil {
			return nil, NewAuthError(fmt.Errorf("authenticate: %w", aerr))
		}
	}
	return fn(ctx)
}
