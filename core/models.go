package core

import (
	"log/slog"
	"time"
)

// Event is the fully-populated internal representation of a calendar entry.
//
// CreatorEmail, CreatorName, StartDatetime and EndDatetime are guaranteed
// non-empty: upstream entries that cannot satisfy that are dropped during
// normalization rather than partially represented.
type Event struct {
	Summary       string `json:"summary"`
	Description   string `json:"description,omitempty"`
	Location      string `json:"location,omitempty"`
	CreatorEmail  string `json:"creatorEmail"`
	CreatorName   string `json:"creatorName"`
	StartDatetime string `json:"startDatetime"`
	StartTimezone string `json:"startTimezone,omitempty"`
	EndDatetime   string `json:"endDatetime"`
	EndTimezone   string `json:"endTimezone,omitempty"`
	Recurrence    bool   `json:"recurrence"`
}

// User is the authenticated record committed to a session once a login
// completes. The access token is retained opaquely for the lifetime of the
// session; it is never serialized and never inspected again.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Token string `json:"-"`
}

// LogValue keeps access tokens out of log output.
func (u *User) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("id", u.ID),
		slog.String("email", u.Email),
		slog.String("token", "[redacted]"),
	)
}

// Session is the per-browser state held in the volatile session store.
//
// AuthState is the pending CSRF token of an in-flight login attempt. It is
// single use: taking it for validation clears it. User is nil until a login
// completes.
type Session struct {
	ID        string
	User      *User
	AuthState string
	CreatedAt time.Time
	UpdatedAt time.Time
	ExpiresAt time.Time
}

// Window is a [Min, Max) time range for an upstream events query.
type Window struct {
	Min time.Time
	Max time.Time
}

// UpcomingYear returns the window used by the events endpoint: from now
// through one year ahead.
func UpcomingYear(now time.Time) Window {
	return Window{Min: now, Max: now.AddDate(1, 0, 0)}
}
