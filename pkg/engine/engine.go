// Package engine ties the catalog, occlusion search, and visibility
// selection together behind the surface the host platform consumes.
package engine

import (
	"context"
	"time"

	"github.com/skygazr/eclipsetrack/internal/utils"
	"github.com/skygazr/eclipsetrack/pkg/catalog"
	"github.com/skygazr/eclipsetrack/pkg/occult"
	"github.com/skygazr/eclipsetrack/pkg/visibility"
)

const (
	defaultEventCount = 3
	maxEventCount     = 10
)

// Observer is a fixed geographic point plus its coarse region label.
type Observer struct {
	Latitude  float64
	Longitude float64
	Region    visibility.Region
}

// Config assembles an Engine. Zero values fall back to the defaults of
// each component.
type Config struct {
	Observer Observer

	// Sources are the catalog pages; defaults to catalog.DefaultSources.
	Sources []string
	// IndexURL is the regional-visibility index; defaults to
	// visibility.DefaultIndexURL.
	IndexURL string
	// Ephemeris is optional. When nil the engine runs in the degraded
	// regional-matching mode; that is a first-class state, not an error.
	Ephemeris occult.Ephemeris
	// Store optionally persists catalog snapshots across restarts.
	Store *catalog.Store
	// EventCount is how many visible events to select, clamped to
	// [1,10]. Zero means the default of 3.
	EventCount int

	// Fetcher overrides the HTTP layer, used by tests. Nil means the
	// production Fetcher.
	Fetcher catalog.TextFetcher

	now func() time.Time
}

// Engine is the catalog acquisition-and-visibility engine.
type Engine struct {
	observer  Observer
	catalog   *catalog.Catalog
	ephemeris occult.Ephemeris
	evaluator *visibility.Evaluator
	count     int
	now       func() time.Time
}

// New wires an Engine from cfg.
func New(cfg Config) *Engine {
	sources := cfg.Sources
	if len(sources) == 0 {
		sources = catalog.DefaultSources
	}

	fetcher := cfg.Fetcher
	if fetcher == nil {
		fetcher = catalog.NewFetcher()
	}

	count := cfg.EventCount
	if count <= 0 {
		count = defaultEventCount
	}
	if count > maxEventCount {
		count = maxEventCount
	}

	observer := cfg.Observer
	observer.Region = visibility.NormalizeRegion(string(observer.Region))

	var coverage visibility.CoverageFunc
	if cfg.Ephemeris != nil {
		eph := cfg.Ephemeris
		coverage = func(ctx context.Context, e catalog.Event) (float64, error) {
			local, err := occult.FindLocalMaximum(eph, e.Date, observer.Latitude, observer.Longitude)
			if err != nil {
				return 0, err
			}
			return local.Coverage, nil
		}
	}

	now := cfg.now
	if now == nil {
		now = time.Now
	}

	return &Engine{
		observer:  observer,
		catalog:   catalog.New(sources, fetcher, cfg.Store),
		ephemeris: cfg.Ephemeris,
		evaluator: visibility.NewEvaluator(coverage, visibility.NewResolver(fetcher, cfg.IndexURL, observer.Region)),
		count:     count,
		now:       now,
	}
}

// Observer returns the configured observation point.
func (e *Engine) Observer() Observer {
	return e.observer
}

// Refresh re-acquires the catalog (live, cached, or fallback tier) and
// returns the current event list. It never fails; degradation shows up
// in Status.
func (e *Engine) Refresh(ctx context.Context) []catalog.Event {
	return e.catalog.Refresh(ctx)
}

// Status reports which data tier the catalog last served from.
func (e *Engine) Status() catalog.Status {
	return e.catalog.Status()
}

// SelectVisible filters events down to the future ones visible from the
// observer, at most the configured count, ascending by date.
func (e *Engine) SelectVisible(ctx context.Context, events []catalog.Event) []catalog.Event {
	future := catalog.Future(events, e.now().UTC())
	return e.evaluator.SelectVisible(ctx, future, e.count)
}

// CoveragePercent computes the instantaneous occlusion at t for an
// arbitrary point. ok is false without an ephemeris or when the
// ephemeris errors; the single computation degrades, nothing raises.
func (e *Engine) CoveragePercent(t time.Time, latitude, longitude float64) (float64, bool) {
	if e.ephemeris == nil {
		return 0, false
	}
	sep, err := e.ephemeris.SeparationRadians(t, latitude, longitude)
	if err != nil {
		utils.Log.Debug("Coverage computation failed: ", err)
		return 0, false
	}
	return occult.OverlapPercent(sep, occult.SunRadiusRadians, occult.MoonRadiusRadians), true
}

// LocalMaximum finds the instant and magnitude of maximum occlusion
// near approx. ok is false without an ephemeris or on ephemeris error.
func (e *Engine) LocalMaximum(approx time.Time, latitude, longitude float64) (occult.LocalMaximum, bool) {
	if e.ephemeris == nil {
		return occult.LocalMaximum{}, false
	}
	local, err := occult.FindLocalMaximum(e.ephemeris, approx, latitude, longitude)
	if err != nil {
		utils.Log.Debug("Local maximum search failed: ", err)
		return occult.LocalMaximum{}, false
	}
	return local, true
}

// ContactTimes brackets the visible partial phase near approx. ok is
// false without an ephemeris, on ephemeris error, or when the local
// maximum shows zero coverage.
func (e *Engine) ContactTimes(approx time.Time, latitude, longitude float64) (occult.ContactWindow, bool) {
	if e.ephemeris == nil {
		return occult.ContactWindow{}, false
	}
	window, err := occult.FindContactTimes(e.ephemeris, approx, latitude, longitude)
	if err != nil {
		utils.Log.Debug("Contact time search failed: ", err)
		return occult.ContactWindow{}, false
	}
	return window, true
}

// DaysUntilNext returns the whole days until the next event at or after
// now. ok is false when no such event exists.
func (e *Engine) DaysUntilNext(events []catalog.Event) (int, bool) {
	now := e.now().UTC()
	for _, evt := range events {
		if evt.Date.Before(now) {
			continue
		}
		days := int(dayOf(evt.Date).Sub(dayOf(now)).Hours() / 24)
		if days < 0 {
			days = 0
		}
		return days, true
	}
	return 0, false
}

func dayOf(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
