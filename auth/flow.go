package auth

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"

	"eventageous/config"
	"eventageous/core"
	"eventageous/pkg/crypto"
)

const exchangeTimeout = 10 * time.Second

// emailScope is the only scope requested: the email address is the sole
// identity assertion this application consumes.
const emailScope = "user:email"

// Flow implements the stateless authorization-code flow against the identity
// provider. It holds no per-login state; the CSRF state it hands out must be
// persisted against the session by the caller.
type Flow struct {
	config     *oauth2.Config
	httpClient *http.Client
}

var _ core.LoginFlow = (*Flow)(nil)

func NewFlow(cfg config.OAuth) *Flow {
	return &Flow{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{emailScope},
			Endpoint: oauth2.Endpoint{
				AuthURL:  cfg.AuthURL,
				TokenURL: cfg.TokenURL,
			},
		},
		httpClient: &http.Client{Timeout: exchangeTimeout},
	}
}

// GenerateAuthURL builds the provider authorization URL with a freshly
// generated CSRF state. No side effects; the caller persists the state
// against the session before redirecting.
func (f *Flow) GenerateAuthURL() (string, string, error) {
	state, err := crypto.GenerateToken(crypto.DefaultTokenLength)
	if err != nil {
		return "", "", fmt.Errorf("failed to generate login state: %w", err)
	}
	return f.config.AuthCodeURL(state), state, nil
}

// ValidateState succeeds only when an expected state is present and exactly
// equals the received one. Absence and mismatch both fail closed; a failed
// check must abort the login before any token exchange.
func (f *Flow) ValidateState(received, expected string) bool {
	if expected == "" {
		return false
	}
	return crypto.Equals(received, expected)
}

// ExchangeCode trades the authorization code for an access token. Any failure
// is terminal for the login attempt; a new login must be initiated.
func (f *Flow) ExchangeCode(ctx context.Context, code string) (string, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, f.httpClient)

	token, err := f.config.Exchange(ctx, code)
	if err != nil {
		return "", fmt.Errorf("%w: %v", core.ErrTokenExchange, err)
	}
	if token.AccessToken == "" {
		return "", fmt.Errorf("%w: empty access token in response", core.ErrTokenExchange)
	}
	return token.AccessToken, nil
}
