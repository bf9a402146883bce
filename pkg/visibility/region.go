// Package visibility decides which catalog events an observer can see,
// either by precise occlusion search (when an ephemeris is configured)
// or by coarse regional-label matching against the upstream visibility
// pages.
package visibility

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/skygazr/eclipsetrack/internal/utils"
	"github.com/skygazr/eclipsetrack/pkg/catalog"
)

// Region is a coarse geographic visibility filter.
type Region string

const (
	RegionGlobal       Region = "Global"
	RegionAfrica       Region = "Africa"
	RegionAsia         Region = "Asia"
	RegionEurope       Region = "Europe"
	RegionNorthAmerica Region = "North America"
	RegionSouthAmerica Region = "South America"
	RegionOceania      Region = "Oceania"
	RegionAntarctica   Region = "Antarctica"
)

// SupportedRegions lists every accepted region label.
var SupportedRegions = []Region{
	RegionGlobal, RegionAfrica, RegionAsia, RegionEurope,
	RegionNorthAmerica, RegionSouthAmerica, RegionOceania, RegionAntarctica,
}

// NormalizeRegion maps a configured label onto a supported region,
// degrading unknown labels to Global.
func NormalizeRegion(label string) Region {
	for _, r := range SupportedRegions {
		if strings.EqualFold(label, string(r)) {
			return r
		}
	}
	return RegionGlobal
}

// DefaultIndexURL is the index page listing per-region visibility
// tables.
const DefaultIndexURL = "https://eclipse.gsfc.nasa.gov/JSEX/JSEX-index.html"

// indexLabels maps regions to the anchor text identifying their page on
// the index. Antarctica has no dedicated page.
var indexLabels = map[Region]string{
	RegionEurope:       "Europe",
	RegionAfrica:       "Africa",
	RegionAsia:         "Asia and Asia Minor",
	RegionNorthAmerica: "North America",
	RegionSouthAmerica: "South America",
	RegionOceania:      "Southeast Asia, Australia & Oceana",
}

// Resolution describes how a regional lookup was decided, so callers
// and tests can tell "resolved visible" from "defaulted visible".
type Resolution int

const (
	// Confirmed means the event date was found on the region page.
	Confirmed Resolution = iota
	// NotFound means the region page was consulted and the date was
	// absent. This is the only resolution that hides an event.
	NotFound
	// Assumed means required data was missing or unparseable; the
	// lenient policy treats the event as visible.
	Assumed
	// Unavailable means the lookup could not run at all (no region
	// page for this region, or the index was unreachable); treated as
	// visible.
	Unavailable
)

// Visible reports the lenient collapse of a resolution to a bool. Only
// an explicit NotFound hides an event.
func (r Resolution) Visible() bool {
	return r != NotFound
}

// Resolver answers coarse per-event visibility questions for one
// configured region. It is the fallback path used when no ephemeris is
// available.
type Resolver struct {
	fetcher  catalog.TextFetcher
	indexURL string
	region   Region
}

func NewResolver(fetcher catalog.TextFetcher, indexURL string, region Region) *Resolver {
	if indexURL == "" {
		indexURL = DefaultIndexURL
	}
	return &Resolver{fetcher: fetcher, indexURL: indexURL, region: region}
}

// Resolve reports whether the event identified by id (YYYY-MM-DD) is
// listed as visible for the resolver's region. Every failure path
// resolves leniently.
func (r *Resolver) Resolve(ctx context.Context, id string) Resolution {
	if r.region == RegionGlobal {
		return Confirmed
	}
	label, ok := indexLabels[r.region]
	if !ok {
		return Unavailable
	}

	index, ok := r.fetcher.FetchText(ctx, r.indexURL)
	if !ok {
		return Unavailable
	}

	href := findRegionHref(index, label)
	if href == "" {
		utils.Log.Debug("Region label ", label, " not found on the visibility index")
		return Assumed
	}

	pageURL := resolveHref(r.indexURL, href)
	page, ok := r.fetcher.FetchText(ctx, pageURL)
	if !ok {
		return Unavailable
	}

	listed, ok := dateListed(page, id)
	if !ok {
		return Assumed
	}
	if listed {
		return Confirmed
	}
	return NotFound
}

// findRegionHref returns the href of the anchor whose text matches
// label, or "".
func findRegionHref(indexHTML, label string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(indexHTML))
	if err != nil {
		return ""
	}
	href := ""
	doc.Find("a[href]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if strings.EqualFold(strings.TrimSpace(s.Text()), label) {
			href, _ = s.Attr("href")
			return false
		}
		return true
	})
	return href
}

// resolveHref resolves a possibly relative link against the index URL.
func resolveHref(indexURL, href string) string {
	base, err := url.Parse(indexURL)
	if err != nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}

// dateListed textually searches page for the event's calendar date in
// either "Year Month Day" or "Day Month Year" order. ok is false when
// the identifier cannot be interpreted.
func dateListed(page, id string) (listed, ok bool) {
	when, err := time.Parse("2006-01-02", id)
	if err != nil {
		return false, false
	}
	year := when.Year()
	month := when.Format("Jan")
	day := when.Day()

	ymd := regexp.MustCompile(fmt.Sprintf(`(?i)%d\s+%s\s+%d\b`, year, month, day))
	dmy := regexp.MustCompile(fmt.Sprintf(`(?i)\b%d\s+%s\s+%d`, day, month, year))
	return ymd.MatchString(page) || dmy.MatchString(page), true
}
