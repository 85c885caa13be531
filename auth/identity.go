package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"eventageous/core"
)

const (
	defaultEmailEndpoint = "https://api.github.com/user/emails"

	// Fixed identifying user-agent sent on every identity request.
	userAgent = "Eventageous"

	resolveTimeout = 10 * time.Second
)

// Resolver selects the authenticated user's single verified, primary email
// from the identity provider. The access token is used for this one call and
// nothing else.
type Resolver struct {
	endpoint string
	client   *http.Client
	logger   *slog.Logger
}

var _ core.IdentityResolver = (*Resolver)(nil)

func NewResolver(logger *slog.Logger) *Resolver {
	return &Resolver{
		endpoint: defaultEmailEndpoint,
		client:   &http.Client{Timeout: resolveTimeout},
		logger:   logger,
	}
}

type emailRecord struct {
	Email    string `json:"email"`
	Primary  bool   `json:"primary"`
	Verified bool   `json:"verified"`
}

// ResolveEmail returns the first email in provider order that is both primary
// and verified. Every failure is non-retryable within the same login attempt.
func (r *Resolver) ResolveEmail(ctx context.Context, accessToken string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", core.ErrIdentityResolution, err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", core.ErrIdentityResolution, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// fall through to parsing
	case http.StatusForbidden:
		r.logForbidden(resp.Header)
		return "", core.ErrIdentityForbidden
	case http.StatusUnauthorized:
		r.logger.Error("identity endpoint rejected token", "status", resp.StatusCode)
		return "", core.ErrIdentityUnauthorized
	default:
		r.logger.Error("identity endpoint returned unexpected status", "status", resp.StatusCode)
		return "", &core.UnexpectedStatusError{Status: resp.StatusCode}
	}

	var emails []emailRecord
	if err := json.NewDecoder(resp.Body).Decode(&emails); err != nil {
		return "", fmt.Errorf("%w: %v", core.ErrIdentityResolution, err)
	}

	for _, e := range emails {
		if e.Primary && e.Verified {
			return e.Email, nil
		}
	}

	return "", core.ErrNoVerifiedPrimaryEmail
}

// logForbidden records a 403 and, when the rate limit is exhausted, the reset
// time from the provider's reset-epoch header. Observability only; there is
// no automatic retry.
func (r *Resolver) logForbidden(h http.Header) {
	if h.Get("X-RateLimit-Remaining") != "0" {
		r.logger.Error("identity endpoint returned 403")
		return
	}

	epoch, err := strconv.ParseInt(h.Get("X-RateLimit-Reset"), 10, 64)
	if err != nil {
		r.logger.Error("identity rate limit exhausted, reset header unreadable", "err", err)
		return
	}
	r.logger.Error("identity rate limit exhausted", "reset_at", time.Unix(epoch, 0).UTC())
}
