package core

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
	"time"
)

// Requirement: events serialize with camelCase keys; empty optional fields
// are omitted, required fields always appear.
func TestEventJSONShape(t *testing.T) {
	raw, err := json.Marshal(Event{
		Summary:       "Standup",
		CreatorEmail:  "a@b.com",
		CreatorName:   "A",
		StartDatetime: "2024-01-01T09:00:00Z",
		EndDatetime:   "2024-01-01T09:30:00Z",
	})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var keys map[string]any
	if err := json.Unmarshal(raw, &keys); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	for _, want := range []string{"summary", "creatorEmail", "creatorName", "startDatetime", "endDatetime", "recurrence"} {
		if _, ok := keys[want]; !ok {
			t.Errorf("key %q missing from %s", want, raw)
		}
	}
	for _, omitted := range []string{"description", "location", "startTimezone", "endTimezone"} {
		if _, ok := keys[omitted]; ok {
			t.Errorf("empty optional key %q serialized in %s", omitted, raw)
		}
	}
}

// Requirement: the access token never reaches serialized or logged output.
func TestUserTokenRedaction(t *testing.T) {
	user := &User{ID: "u1", Email: "a@b.com", Token: "super-secret"}

	raw, err := json.Marshal(user)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if strings.Contains(string(raw), "super-secret") {
		t.Errorf("token serialized: %s", raw)
	}

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	logger.Info("login complete", "user", user)

	out := buf.String()
	if strings.Contains(out, "super-secret") {
		t.Errorf("token logged: %s", out)
	}
	if !strings.Contains(out, "a@b.com") {
		t.Errorf("email missing from log line: %s", out)
	}
}

// Requirement: the query window spans exactly one year from now.
func TestUpcomingYear(t *testing.T) {
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

	window := UpcomingYear(now)
	if !window.Min.Equal(now) {
		t.Errorf("Min = %v, want %v", window.Min, now)
	}
	if want := time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC); !window.Max.Equal(want) {
		t.Errorf("Max = %v, want %v", window.Max, want)
	}
}
