package visibility

import (
	"context"
	"testing"
)

// fakeFetcher serves canned pages by URL.
type fakeFetcher struct {
	pages map[string]string
}

func (f *fakeFetcher) FetchText(ctx context.Context, url string) (string, bool) {
	page, ok := f.pages[url]
	return page, ok
}

const testIndexURL = "https://example.com/JSEX/index.html"

func TestResolveGlobalIsAlwaysConfirmed(t *testing.T) {
	r := NewResolver(&fakeFetcher{}, testIndexURL, RegionGlobal)
	if got := r.Resolve(context.Background(), "2026-08-12"); got != Confirmed {
		t.Fatalf("global resolution = %v, want Confirmed", got)
	}
}

func TestResolveConfirmedYearMonthDay(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[string]string{
		testIndexURL:                           `<a href="europe.html">Europe</a>`,
		"https://example.com/JSEX/europe.html": `eclipses visible: 2026 Aug 12 and others`,
	}}
	r := NewResolver(fetcher, testIndexURL, RegionEurope)

	if got := r.Resolve(context.Background(), "2026-08-12"); got != Confirmed {
		t.Fatalf("resolution = %v, want Confirmed", got)
	}
}

func TestResolveConfirmedDayMonthYear(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[string]string{
		testIndexURL:                           `<a href="europe.html">Europe</a>`,
		"https://example.com/JSEX/europe.html": `next: 12 Aug 2026, partial`,
	}}
	r := NewResolver(fetcher, testIndexURL, RegionEurope)

	if got := r.Resolve(context.Background(), "2026-08-12"); got != Confirmed {
		t.Fatalf("resolution = %v, want Confirmed", got)
	}
}

func TestResolveNotFoundHidesTheEvent(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[string]string{
		testIndexURL:                           `<a href="europe.html">Europe</a>`,
		"https://example.com/JSEX/europe.html": `only 2028 Jan 26 is listed here`,
	}}
	r := NewResolver(fetcher, testIndexURL, RegionEurope)

	got := r.Resolve(context.Background(), "2026-08-12")
	if got != NotFound {
		t.Fatalf("resolution = %v, want NotFound", got)
	}
	if got.Visible() {
		t.Fatal("NotFound is the only resolution that may hide an event")
	}
}

func TestResolveIndexUnavailableDefaultsVisible(t *testing.T) {
	r := NewResolver(&fakeFetcher{}, testIndexURL, RegionEurope)

	got := r.Resolve(context.Background(), "2026-08-12")
	if got != Unavailable {
		t.Fatalf("resolution = %v, want Unavailable", got)
	}
	if !got.Visible() {
		t.Fatal("unavailable lookups must resolve leniently")
	}
}

func TestResolveMissingLabelDefaultsVisible(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[string]string{
		testIndexURL: `<a href="africa.html">Africa</a>`,
	}}
	r := NewResolver(fetcher, testIndexURL, RegionEurope)

	got := r.Resolve(context.Background(), "2026-08-12")
	if got != Assumed {
		t.Fatalf("resolution = %v, want Assumed", got)
	}
	if !got.Visible() {
		t.Fatal("a missing region label must resolve leniently")
	}
}

func TestResolveRegionWithoutPage(t *testing.T) {
	// Antarctica has no per-region visibility page.
	r := NewResolver(&fakeFetcher{}, testIndexURL, RegionAntarctica)
	got := r.Resolve(context.Background(), "2026-08-12")
	if got != Unavailable || !got.Visible() {
		t.Fatalf("resolution = %v, want lenient Unavailable", got)
	}
}

func TestNormalizeRegion(t *testing.T) {
	if got := NormalizeRegion("north america"); got != RegionNorthAmerica {
		t.Errorf("NormalizeRegion(north america) = %v", got)
	}
	if got := NormalizeRegion("Atlantis"); got != RegionGlobal {
		t.Errorf("unknown regions must degrade to Global, got %v", got)
	}
	if got := NormalizeRegion(""); got != RegionGlobal {
		t.Errorf("empty region must degrade to Global, got %v", got)
	}
}
