package catalog

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// eventPattern matches one catalog row worth of text: a year from 2000
// onward, a month abbreviation, a day number, an eclipse type (full
// word or single-letter code), and an HH:MM time, with up to 120
// characters of intervening markup between fields.
var eventPattern = regexp.MustCompile(`(?is)(20\d{2})\s+(Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)\s+(\d{1,2}).{0,120}?(Total|Annular|Partial|Hybrid|[TAPH]).{0,120}?(\d{2}:\d{2})`)

var monthByAbbrev = map[string]time.Month{
	"Jan": time.January, "Feb": time.February, "Mar": time.March,
	"Apr": time.April, "May": time.May, "Jun": time.June,
	"Jul": time.July, "Aug": time.August, "Sep": time.September,
	"Oct": time.October, "Nov": time.November, "Dec": time.December,
}

var typeByToken = map[string]EclipseType{
	"T":       TypeTotal,
	"A":       TypeAnnular,
	"P":       TypePartial,
	"H":       TypeHybrid,
	"Total":   TypeTotal,
	"Annular": TypeAnnular,
	"Partial": TypePartial,
	"Hybrid":  TypeHybrid,
}

// regionKeywords maps each region to the lowercase keywords that mark
// it in a source row. Ordered so hint extraction is deterministic.
var regionKeywords = []struct {
	region   string
	keywords []string
}{
	{"Africa", []string{"africa"}},
	{"Asia", []string{"asia"}},
	{"Europe", []string{"europe"}},
	{"North America", []string{"north america", "usa", "united states", "canada", "mexico"}},
	{"South America", []string{"south america"}},
	{"Oceania", []string{"oceania", "australia", "new zealand"}},
	{"Antarctica", []string{"antarctica"}},
}

// Parse extracts eclipse events from one raw catalog page. Table rows
// are matched individually; rows that don't fit the pattern are skipped
// without error. If row extraction yields nothing (broken or unexpected
// markup), the whole page is scanned as a fallback. The result is not
// deduplicated; callers merge pages and then call Dedupe.
func Parse(text string) []Event {
	var events []Event

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(text))
	if err == nil {
		doc.Find("tr").Each(func(_ int, s *goquery.Selection) {
			row, err := goquery.OuterHtml(s)
			if err != nil {
				return
			}
			match := eventPattern.FindStringSubmatch(row)
			if match == nil {
				return
			}
			e, ok := eventFromMatch(match)
			if !ok {
				return
			}
			e.RegionText = regionHint(row)
			events = append(events, e)
		})
	}

	if len(events) == 0 {
		for _, match := range eventPattern.FindAllStringSubmatch(text, -1) {
			if e, ok := eventFromMatch(match); ok {
				events = append(events, e)
			}
		}
	}

	return events
}

func eventFromMatch(match []string) (Event, bool) {
	year, err := strconv.Atoi(match[1])
	if err != nil {
		return Event{}, false
	}
	month, ok := monthByAbbrev[strings.Title(strings.ToLower(match[2]))]
	if !ok {
		return Event{}, false
	}
	day, err := strconv.Atoi(match[3])
	if err != nil {
		return Event{}, false
	}

	typ, ok := typeByToken[strings.Title(strings.ToLower(match[4]))]
	if !ok {
		typ, ok = typeByToken[strings.ToUpper(match[4])]
		if !ok {
			typ = TypePartial
		}
	}

	hour, minute := 0, 0
	if parts := strings.SplitN(match[5], ":", 2); len(parts) == 2 {
		h, herr := strconv.Atoi(parts[0])
		m, merr := strconv.Atoi(parts[1])
		if herr == nil && merr == nil && h < 24 && m < 60 {
			hour, minute = h, m
		}
	}

	date := time.Date(year, month, day, hour, minute, 0, 0, time.UTC)
	return Event{
		Identifier: Identifier(date),
		Date:       date,
		Type:       typ,
	}, true
}

// regionHint returns the first region whose keyword appears in the row,
// or "" when none does.
func regionHint(row string) string {
	text := strings.ToLower(row)
	for _, entry := range regionKeywords {
		for _, k := range entry.keywords {
			if strings.Contains(text, k) {
				return entry.region
			}
		}
	}
	return ""
}
