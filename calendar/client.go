package calendar

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"eventageous/core"
)

const (
	// Single page, capped. Pagination beyond the first page is out of scope;
	// callers that need more should narrow the window instead.
	maxResults = 500

	fetchTimeout = 10 * time.Second
)

// Client fetches raw provider events from the Google Calendar API for a
// single calendar, authenticated by API key.
type Client struct {
	svc        *calendar.Service
	calendarID string
	logger     *slog.Logger
}

// NewClient builds a calendar client. Extra options are appended after the
// API key, so tests can point the service at a local endpoint.
func NewClient(ctx context.Context, apiKey, calendarID string, logger *slog.Logger, opts ...option.ClientOption) (*Client, error) {
	svc, err := calendar.NewService(ctx, append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar service: %w", err)
	}

	return &Client{
		svc:        svc,
		calendarID: calendarID,
		logger:     logger,
	}, nil
}

// FetchEvents issues a single time-bounded query against the provider,
// requesting single-instance expansion of recurring events. There is no retry
// policy; callers decide whether to retry.
func (c *Client) FetchEvents(ctx context.Context, window core.Window) ([]*calendar.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	list, err := c.svc.Events.List(c.calendarID).
		SingleEvents(true).
		OrderBy("startTime").
		TimeMin(window.Min.Format(time.RFC3339)).
		TimeMax(window.Max.Format(time.RFC3339)).
		MaxResults(maxResults).
		Context(ctx).
		Do()
	if err != nil {
		var gerr *googleapi.Error
		if errors.As(err, &gerr) {
			return nil, &core.UpstreamError{StatusCode: gerr.Code}
		}
		var uerr *url.Error
		if errors.As(err, &uerr) {
			return nil, fmt.Errorf("%w: %v", core.ErrUpstreamFetch, err)
		}
		// 2xx response the service could not decode.
		return nil, fmt.Errorf("%w: %v", core.ErrMalformedPayload, err)
	}

	c.logger.Debug("fetched calendar events",
		"calendar_id", c.calendarID,
		"count", len(list.Items),
		"time_min", window.Min.Format(time.RFC3339),
		"time_max", window.Max.Format(time.RFC3339),
	)

	return list.Items, nil
}

// Source composes the client with normalization to satisfy core.EventSource.
type Source struct {
	client *Client
}

var _ core.EventSource = (*Source)(nil)

func NewSource(client *Client) *Source {
	return &Source{client: client}
}

func (s *Source) Events(ctx context.Context, window core.Window) ([]core.Event, error) {
	items, err := s.client.FetchEvents(ctx, window)
	if err != nil {
		return nil, err
	}
	return Normalize(items), nil
}
