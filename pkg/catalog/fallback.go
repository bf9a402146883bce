package catalog

import (
	"time"

	"github.com/tidwall/gjson"
)

// fallbackJSON is a minimal list of known future eclipses, used only
// when every source and the cache are unavailable. Kept as a document
// so it reads like the catalog it stands in for.
const fallbackJSON = `{
  "events": [
    {"identifier": "2026-02-17", "type": "Annular", "time_utc": "17:00"},
    {"identifier": "2026-08-12", "type": "Total",   "time_utc": "17:00"},
    {"identifier": "2027-08-02", "type": "Total",   "time_utc": "10:08"}
  ]
}`

// FallbackEvents returns the built-in safety-net event list, sorted
// ascending by date.
func FallbackEvents() []Event {
	var events []Event
	for _, item := range gjson.Get(fallbackJSON, "events").Array() {
		id := gjson.Get(item.Raw, "identifier").Str
		day, err := time.Parse("2006-01-02", id)
		if err != nil {
			continue
		}
		if hm, err := time.Parse("15:04", gjson.Get(item.Raw, "time_utc").Str); err == nil {
			day = day.Add(time.Duration(hm.Hour())*time.Hour + time.Duration(hm.Minute())*time.Minute)
		}
		events = append(events, Event{
			Identifier: id,
			Date:       day,
			Type:       EclipseType(gjson.Get(item.Raw, "type").Str),
		})
	}
	return events
}
