package calendar

import (
	"google.golang.org/api/calendar/v3"

	"eventageous/core"
)

// Normalize converts provider-shaped events into the internal representation,
// preserving order. Entries that cannot be fully populated are dropped, never
// partially represented; malformed upstream entries are expected, so this is
// lossy filtering rather than an error.
func Normalize(items []*calendar.Event) []core.Event {
	out := make([]core.Event, 0, len(items))
	for _, item := range items {
		event, ok := normalizeEvent(item)
		if !ok {
			continue
		}
		out = append(out, event)
	}
	return out
}

// normalizeEvent is the validating constructor for a single event. ok is
// false when any required upstream field is absent.
func normalizeEvent(item *calendar.Event) (core.Event, bool) {
	if item == nil || item.Start == nil || item.End == nil || item.Creator == nil {
		return core.Event{}, false
	}
	if item.Start.DateTime == "" || item.End.DateTime == "" ||
		item.Creator.Email == "" || item.Creator.DisplayName == "" {
		return core.Event{}, false
	}

	return core.Event{
		Summary:       item.Summary,
		Description:   item.Description,
		Location:      item.Location,
		CreatorEmail:  item.Creator.Email,
		CreatorName:   item.Creator.DisplayName,
		StartDatetime: item.Start.DateTime,
		StartTimezone: item.Start.TimeZone,
		EndDatetime:   item.End.DateTime,
		EndTimezone:   item.End.TimeZone,
		Recurrence:    item.RecurringEventId != "",
	}, true
}
