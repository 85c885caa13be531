package core

import (
	"errors"
	"fmt"
)

// Configuration errors (startup-fatal)
var (
	ErrConfigMissing = errors.New("missing required configuration")
)

// Upstream calendar errors (recoverable - reported to the caller as a 5xx)
var (
	ErrUpstreamFetch    = errors.New("calendar fetch failed")
	ErrMalformedPayload = errors.New("malformed calendar payload")
)

// Login errors. All of these abort the in-progress login attempt and redirect
// the user back to the start; none of them may take down the process.
var (
	ErrTokenExchange          = errors.New("token exchange failed")
	ErrIdentityResolution     = errors.New("identity resolution failed")
	ErrIdentityForbidden      = errors.New("identity endpoint returned 403 Forbidden")
	ErrIdentityUnauthorized   = errors.New("identity endpoint returned 401 Unauthorized")
	ErrNoVerifiedPrimaryEmail = errors.New("no verified primary email on account")
	ErrCSRFMismatch           = errors.New("csrf state missing or mismatched")
)

// Session errors
var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExpired  = errors.New("session expired")
)

// UpstreamError reports a non-2xx response from the calendar provider.
type UpstreamError struct {
	StatusCode int
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("calendar upstream rejected request: status %d", e.StatusCode)
}

// Unwrap lets callers match the broad class with errors.Is(err, ErrUpstreamFetch).
func (e *UpstreamError) Unwrap() error { return ErrUpstreamFetch }

// UnexpectedStatusError reports a non-2xx identity response that is neither
// 401 nor 403.
type UnexpectedStatusError struct {
	Status int
}

func (e *UnexpectedStatusError) Error() string {
	return fmt.Sprintf("identity endpoint returned unexpected status %d", e.Status)
}

func (e *UnexpectedStatusError) Unwrap() error { return ErrIdentityResolution }
