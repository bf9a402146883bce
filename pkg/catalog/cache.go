package catalog

import (
	"context"
	"sync"
	"time"

	"github.com/skygazr/eclipsetrack/internal/utils"
)

// DefaultSources are the NASA GSFC decade pages covering 2021-2061,
// tried in order on every refresh.
var DefaultSources = []string{
	"https://eclipse.gsfc.nasa.gov/SEdecade/SEdecade2021.html",
	"https://eclipse.gsfc.nasa.gov/SEdecade/SEdecade2031.html",
	"https://eclipse.gsfc.nasa.gov/SEdecade/SEdecade2041.html",
	"https://eclipse.gsfc.nasa.gov/SEdecade/SEdecade2051.html",
	"https://eclipse.gsfc.nasa.gov/SEdecade/SEdecade2061.html",
}

// Attribution credits the upstream prediction source.
const Attribution = "Eclipse predictions by NASA/GSFC"

const snapshotTTL = 24 * time.Hour

// Status reports which data tier the catalog last served from, so
// callers can tell authoritative data from degraded fallbacks.
type Status string

const (
	StatusNoData   Status = "no data yet"
	StatusLive     Status = "live"
	StatusCached   Status = "cached"
	StatusFallback Status = "fallback"
)

// Snapshot is one complete parsed event set and its capture instant.
// Snapshots are replaced wholesale and never mutated in place.
type Snapshot struct {
	Events     []Event
	CapturedAt time.Time
}

// Catalog maintains the rolling eclipse event list behind a three-tier
// policy: live fetch+parse, then a 24h TTL cache, then a built-in
// minimal list. It never returns no data while any tier has something.
type Catalog struct {
	sources []string
	fetcher TextFetcher
	store   *Store // optional on-disk snapshot persistence

	now func() time.Time

	mu       sync.RWMutex
	snapshot *Snapshot
	status   Status
}

// New builds a Catalog over the given sources. store may be nil, in
// which case the cache tier lives only in memory. If a persisted
// snapshot exists it is adopted, so a restarted process still has
// tier-2 data inside the TTL window.
func New(sources []string, fetcher TextFetcher, store *Store) *Catalog {
	c := &Catalog{
		sources: sources,
		fetcher: fetcher,
		store:   store,
		now:     time.Now,
		status:  StatusNoData,
	}
	if store != nil {
		snap, err := store.LoadLatest()
		if err != nil {
			utils.Log.Warn("Could not load persisted catalog snapshot: ", err)
		} else if snap != nil {
			c.snapshot = snap
			utils.Log.Debug("Adopted persisted snapshot of ", len(snap.Events), " events captured ", snap.CapturedAt)
		}
	}
	return c
}

// Refresh re-acquires the catalog and returns the current event list,
// deduplicated and sorted ascending by date. Degradation is signalled
// via Status, never by an error: the worst outcome is the built-in
// fallback list.
func (c *Catalog) Refresh(ctx context.Context) []Event {
	var parsed []Event
	for _, url := range c.sources {
		text, ok := c.fetcher.FetchText(ctx, url)
		if !ok {
			continue
		}
		parsed = append(parsed, Parse(text)...)
	}
	parsed = Dedupe(parsed)

	if len(parsed) > 0 {
		snap := &Snapshot{Events: parsed, CapturedAt: c.now()}
		c.mu.Lock()
		c.snapshot = snap
		c.status = StatusLive
		c.mu.Unlock()
		if c.store != nil {
			if err := c.store.Save(snap); err != nil {
				utils.Log.Warn("Could not persist catalog snapshot: ", err)
			}
		}
		utils.Log.Info("Loaded ", len(parsed), " events from the catalog sources")
		return snap.Events
	}

	utils.Log.Warn("Catalog sources yielded no events this cycle")

	c.mu.Lock()
	defer c.mu.Unlock()

	// The snapshot keeps its original capture time when re-served, so a
	// stale snapshot still ages toward its 24h boundary.
	if c.snapshot != nil && c.now().Sub(c.snapshot.CapturedAt) <= snapshotTTL {
		c.status = StatusCached
		utils.Log.Info("Serving cached catalog (", len(c.snapshot.Events), " events, captured ", c.snapshot.CapturedAt.Format(time.RFC3339), ")")
		return c.snapshot.Events
	}

	c.status = StatusFallback
	utils.Log.Warn("No catalog data and no usable cache; serving the built-in fallback list")
	return FallbackEvents()
}

// Events returns the events of the current snapshot, or nil before the
// first successful refresh.
func (c *Catalog) Events() []Event {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.snapshot == nil {
		return nil
	}
	return c.snapshot.Events
}

// Status reports the tier the last Refresh served from.
func (c *Catalog) Status() Status {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.status
}
