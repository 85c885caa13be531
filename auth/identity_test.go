package auth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"eventageous/core"
)

func testResolver(endpoint string) *Resolver {
	r := NewResolver(slog.New(slog.NewTextHandler(io.Discard, nil)))
	r.endpoint = endpoint
	return r
}

// Requirement: the first email in provider order that is both primary and
// verified wins; anything else is skipped.
func TestResolveEmail(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    string
		wantErr error
	}{
		{
			name: "primary verified selected over earlier entries",
			body: `[
				{"email":"x@y.com","primary":false,"verified":true},
				{"email":"z@y.com","primary":true,"verified":true}
			]`,
			want: "z@y.com",
		},
		{
			name: "first qualifying entry wins",
			body: `[
				{"email":"a@y.com","primary":true,"verified":true},
				{"email":"b@y.com","primary":true,"verified":true}
			]`,
			want: "a@y.com",
		},
		{
			name:    "primary but unverified does not qualify",
			body:    `[{"email":"x@y.com","primary":true,"verified":false}]`,
			wantErr: core.ErrNoVerifiedPrimaryEmail,
		},
		{
			name:    "verified but secondary does not qualify",
			body:    `[{"email":"x@y.com","primary":false,"verified":true}]`,
			wantErr: core.ErrNoVerifiedPrimaryEmail,
		},
		{
			name:    "empty list",
			body:    `[]`,
			wantErr: core.ErrNoVerifiedPrimaryEmail,
		},
		{
			name:    "malformed payload",
			body:    `{"not":"a list"`,
			wantErr: core.ErrIdentityResolution,
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				fmt.Fprint(w, test.body)
			}))
			defer srv.Close()

			email, err := testResolver(srv.URL).ResolveEmail(context.Background(), "tok")
			if test.wantErr != nil {
				if !errors.Is(err, test.wantErr) {
					t.Fatalf("ResolveEmail() error = %v, want %v", err, test.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ResolveEmail() error = %v", err)
			}
			if email != test.want {
				t.Errorf("ResolveEmail() = %q, want %q", email, test.want)
			}
		})
	}
}

// Requirement: every identity request carries the fixed user agent, JSON
// accept header, and the bearer token.
func TestResolveEmailHeaders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("User-Agent"); got != "Eventageous" {
			t.Errorf("User-Agent = %q, want %q", got, "Eventageous")
		}
		if got := r.Header.Get("Accept"); got != "application/json" {
			t.Errorf("Accept = %q, want %q", got, "application/json")
		}
		if got := r.Header.Get("Authorization"); got != "Bearer the-token" {
			t.Errorf("Authorization = %q, want bearer token", got)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `[{"email":"a@b.com","primary":true,"verified":true}]`)
	}))
	defer srv.Close()

	if _, err := testResolver(srv.URL).ResolveEmail(context.Background(), "the-token"); err != nil {
		t.Fatalf("ResolveEmail() error = %v", err)
	}
}

// Requirement: rejection statuses map to distinct typed errors so callers can
// tell a revoked token from a rate limit from provider breakage.
func TestResolveEmailStatuses(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		headers map[string]string
		wantErr error
	}{
		{
			name:    "forbidden",
			status:  http.StatusForbidden,
			wantErr: core.ErrIdentityForbidden,
		},
		{
			name:   "forbidden with exhausted rate limit",
			status: http.StatusForbidden,
			headers: map[string]string{
				"X-RateLimit-Remaining": "0",
				"X-RateLimit-Reset":     "1735689600",
			},
			wantErr: core.ErrIdentityForbidden,
		},
		{
			name:    "unauthorized",
			status:  http.StatusUnauthorized,
			wantErr: core.ErrIdentityUnauthorized,
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				for k, v := range test.headers {
					w.Header().Set(k, v)
				}
				w.WriteHeader(test.status)
			}))
			defer srv.Close()

			_, err := testResolver(srv.URL).ResolveEmail(context.Background(), "tok")
			if !errors.Is(err, test.wantErr) {
				t.Errorf("ResolveEmail() error = %v, want %v", err, test.wantErr)
			}
		})
	}
}

// Requirement: any other status surfaces as an unexpected-status error that
// still unwraps to the resolution failure.
func TestResolveEmailUnexpectedStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := testResolver(srv.URL).ResolveEmail(context.Background(), "tok")

	var serr *core.UnexpectedStatusError
	if !errors.As(err, &serr) {
		t.Fatalf("ResolveEmail() error = %v, want UnexpectedStatusError", err)
	}
	if serr.Status != http.StatusInternalServerError {
		t.Errorf("Status = %d, want %d", serr.Status, http.StatusInternalServerError)
	}
	if !errors.Is(err, core.ErrIdentityResolution) {
		t.Error("unexpected-status error must unwrap to ErrIdentityResolution")
	}
}
