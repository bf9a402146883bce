package visibility

import (
	"context"
	"sync"

	"github.com/skygazr/eclipsetrack/internal/utils"
	"github.com/skygazr/eclipsetrack/pkg/catalog"
)

const (
	// batchSize bounds how many events are scored before checking
	// whether enough visible ones have been found. A full catalog can
	// span decades, so batches after satisfaction are never evaluated.
	batchSize = 25
	// maxConcurrent bounds simultaneous coverage searches; each one
	// costs ~85 ephemeris evaluations.
	maxConcurrent = 3
)

// CoverageFunc scores one event's local-maximum coverage percentage for
// the configured observer.
type CoverageFunc func(ctx context.Context, e catalog.Event) (float64, error)

// Evaluator selects the visible subset of a future-event list. With a
// coverage function it runs the precise occlusion path; without one it
// falls back to the regional resolver.
type Evaluator struct {
	coverage CoverageFunc // nil when no ephemeris is configured
	resolver *Resolver
}

func NewEvaluator(coverage CoverageFunc, resolver *Resolver) *Evaluator {
	return &Evaluator{coverage: coverage, resolver: resolver}
}

// SelectVisible returns up to want events visible from the observer.
// The input must be sorted ascending by date; filtering only removes,
// never reorders.
func (ev *Evaluator) SelectVisible(ctx context.Context, future []catalog.Event, want int) []catalog.Event {
	if want <= 0 || len(future) == 0 {
		return nil
	}
	if ev.coverage != nil {
		return ev.selectByCoverage(ctx, future, want)
	}
	return ev.selectByRegion(ctx, future, want)
}

func (ev *Evaluator) selectByCoverage(ctx context.Context, future []catalog.Event, want int) []catalog.Event {
	var visible []catalog.Event
	for start := 0; start < len(future); start += batchSize {
		end := start + batchSize
		if end > len(future) {
			end = len(future)
		}
		batch := future[start:end]
		scores := ev.scoreBatch(ctx, batch)
		for i, e := range batch {
			if scores[i] > 0 {
				visible = append(visible, e)
				if len(visible) >= want {
					return visible[:want]
				}
			}
		}
	}
	return visible
}

// scoreBatch evaluates one batch concurrently, at most maxConcurrent
// searches in flight, and joins before returning so results merge only
// after the whole batch is done. A failed evaluation scores zero for
// that event alone; it never aborts the batch.
func (ev *Evaluator) scoreBatch(ctx context.Context, batch []catalog.Event) []float64 {
	scores := make([]float64, len(batch))
	gate := make(chan struct{}, maxConcurrent)
	var wg sync.WaitGroup
	for i := range batch {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			gate <- struct{}{}
			defer func() { <-gate }()

			cov, err := ev.coverage(ctx, batch[i])
			if err != nil {
				utils.Log.Debug("Coverage evaluation failed for ", batch[i].Identifier, ": ", err)
				return
			}
			scores[i] = cov
		}(i)
	}
	wg.Wait()
	return scores
}

// selectByRegion concurrently resolves regional visibility for every
// future event. Lookups are single fetches, so no batching is needed.
// If nothing passes the filter the first want events are returned
// unfiltered, with the degradation logged.
func (ev *Evaluator) selectByRegion(ctx context.Context, future []catalog.Event, want int) []catalog.Event {
	if ev.resolver == nil || ev.resolver.region == RegionGlobal {
		return capCount(future, want)
	}

	flags := make([]bool, len(future))
	var wg sync.WaitGroup
	for i := range future {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			flags[i] = ev.resolver.Resolve(ctx, future[i].Identifier).Visible()
		}(i)
	}
	wg.Wait()

	var visible []catalog.Event
	for i, e := range future {
		if flags[i] {
			visible = append(visible, e)
			if len(visible) >= want {
				return visible
			}
		}
	}

	if len(visible) == 0 {
		utils.Log.Info("No events matched the region filter; falling back to the first future events unfiltered")
		return capCount(future, want)
	}
	return visible
}

func capCount(events []catalog.Event, want int) []catalog.Event {
	if len(events) > want {
		return events[:want]
	}
	return events
}
