package httpx

import (
	"context"

	domainauth "github.com/company/orderhandler-ui/internal/domain/auth"
)

// stateKey is an unexported context key type to avoid collisions across packages.
// Centralized in this file so all handlers/middleware use the same key.
type stateKey struct{}

// SetRequestStateInContext returns a child context that carries the resolved
// authentication state of the request.
func SetRequestStateInContext(ctx context.Context, state domainauth.RequestState) context.Context {
	return context.WithValue(ctx, stateKey{}, state)
}

// GetRequestStateFromContext returns the request's authentication state and a
// boolean indicating presence.
func GetRequestStateFromContext(ctx context.Context) (domainauth.RequestState, bool) {
	if state, ok := ctx.Value(stateKey{}).(domainauth.RequestState); ok {
		return state, true
	}
	return domainauth.RequestState{}, false
}
