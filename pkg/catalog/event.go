package catalog

import (
	"sort"
	"time"
)

// EclipseType classifies a solar eclipse.
type EclipseType string

const (
	TypeTotal   EclipseType = "Total"
	TypeAnnular EclipseType = "Annular"
	TypePartial EclipseType = "Partial"
	TypeHybrid  EclipseType = "Hybrid"
)

// Event is one catalog entry for a future solar eclipse. The identifier
// is derived from the calendar date (UTC), so two source rows for the
// same day collide and must be reconciled by Dedupe. Events are never
// mutated after parsing.
type Event struct {
	Identifier string
	Date       time.Time // catalog-reported approximate instant of maximum, UTC
	Type       EclipseType
	Start      *time.Time // catalog-reported contact instants, often absent
	End        *time.Time
	RegionText string // free-text visibility hint from the source row
}

// Identifier derives the date-keyed identity of an event occurring at t.
func Identifier(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// Dedupe merges events sharing a calendar date, keeping the earliest
// reported instant, and returns the survivors sorted ascending by date.
func Dedupe(events []Event) []Event {
	uniq := make(map[string]Event, len(events))
	for _, e := range events {
		if prev, ok := uniq[e.Identifier]; !ok || e.Date.Before(prev.Date) {
			uniq[e.Identifier] = e
		}
	}
	out := make([]Event, 0, len(uniq))
	for _, e := range uniq {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// Future returns the events strictly after now, preserving order.
func Future(events []Event, now time.Time) []Event {
	out := make([]Event, 0, len(events))
	for _, e := range events {
		if e.Date.After(now) {
			out = append(out, e)
		}
	}
	return out
}
