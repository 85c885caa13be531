package core

import (
	"context"
)

// Ports consumed by the HTTP layer. Handlers receive these as explicit
// dependencies; nothing is pulled out of an ambient request context.

// EventSource produces normalized events for a time window.
type EventSource interface {
	Events(ctx context.Context, window Window) ([]Event, error)
}

// LoginFlow is the stateless OAuth authorization-code flow: URL generation
// with a fresh CSRF state, state validation, and the code-for-token exchange.
// The caller owns persisting the state against a session.
type LoginFlow interface {
	GenerateAuthURL() (url string, state string, err error)
	ValidateState(received, expected string) bool
	ExchangeCode(ctx context.Context, code string) (accessToken string, err error)
}

// IdentityResolver turns an access token into the single verified, primary
// email address asserted by the identity provider.
type IdentityResolver interface {
	ResolveEmail(ctx context.Context, accessToken string) (string, error)
}

// SessionStore is the volatile, process-local session state keyed by an
// opaque handle carried in a cookie. Implementations must be safe for
// concurrent use by in-flight requests.
type SessionStore interface {
	// Create allocates a fresh session and returns the opaque handle that
	// identifies it.
	Create() (handle string, session *Session, err error)

	// Get returns the session for a handle, renewing its inactivity deadline.
	Get(handle string) (*Session, error)

	// SetAuthState stores the pending CSRF state for a login attempt.
	SetAuthState(handle, state string) error

	// TakeAuthState returns the pending CSRF state and clears it, so a state
	// can never validate twice. ok is false when there is no usable state.
	TakeAuthState(handle string) (state string, ok bool)

	// Commit records the authenticated user on the session. Overwrites any
	// previous record; committing the same record twice is a no-op.
	Commit(handle string, user *User) error

	Delete(handle string) error

	IsAuthenticated(handle string) bool
	AuthenticatedEmail(handle string) (email string, ok bool)
}
