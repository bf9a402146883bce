package occult

import (
	"errors"
	"time"
)

const (
	coarseWindow = 3 * time.Hour
	coarseStep   = 5 * time.Minute
	refineWindow = 10 * time.Minute
	refineStep   = 1 * time.Minute

	contactStep      = 2 * time.Minute
	contactLimit     = 4 * time.Hour
	contactThreshold = 0.1 // percent
)

// ErrNoCoverage is returned by FindContactTimes when the local maximum
// shows zero coverage, i.e. the eclipse is not visible at the observer.
var ErrNoCoverage = errors.New("no coverage at local maximum")

// LocalMaximum is the instant of greatest coverage for one event at one
// observer location, and the coverage percentage there.
type LocalMaximum struct {
	Time     time.Time
	Coverage float64
}

// ContactWindow brackets the visible partial phase. Both bounds are the
// last sampled instants at which coverage still exceeded the near-zero
// threshold, so the window slightly underestimates the true crossings.
type ContactWindow struct {
	Start time.Time
	End   time.Time
}

// DurationMinutes is the elapsed partial-phase time in whole minutes.
func (w ContactWindow) DurationMinutes() int {
	return int(w.End.Sub(w.Start) / time.Minute)
}

// FindLocalMaximum locates the instant of minimum Sun-Moon separation
// near approx: a coarse 5-minute grid across +-3h, then a 1-minute grid
// across +-10min of the coarse minimizer, then the overlap score at the
// refined minimizer. Separation is not unimodal across the full coarse
// window, so the scan keeps the grid minimum rather than bisecting.
// Ephemeris errors are not handled here; they propagate and the caller
// treats the event as having no data.
func FindLocalMaximum(eph Ephemeris, approx time.Time, latitude, longitude float64) (LocalMaximum, error) {
	bestTime := approx
	bestSep, err := eph.SeparationRadians(approx, latitude, longitude)
	if err != nil {
		return LocalMaximum{}, err
	}

	scan := func(center time.Time, window, step time.Duration) error {
		end := center.Add(window)
		for t := center.Add(-window); !t.After(end); t = t.Add(step) {
			sep, err := eph.SeparationRadians(t, latitude, longitude)
			if err != nil {
				return err
			}
			if sep < bestSep {
				bestSep = sep
				bestTime = t
			}
		}
		return nil
	}

	if err := scan(approx, coarseWindow, coarseStep); err != nil {
		return LocalMaximum{}, err
	}
	if err := scan(bestTime, refineWindow, refineStep); err != nil {
		return LocalMaximum{}, err
	}

	return LocalMaximum{
		Time:     bestTime,
		Coverage: OverlapPercent(bestSep, SunRadiusRadians, MoonRadiusRadians),
	}, nil
}

// FindContactTimes brackets the partial phase around the local maximum,
// stepping 2 minutes at a time away from it until coverage drops to the
// threshold or the 4-hour search limit is reached. The bracket is not
// refined further; see ContactWindow.
func FindContactTimes(eph Ephemeris, approx time.Time, latitude, longitude float64) (ContactWindow, error) {
	local, err := FindLocalMaximum(eph, approx, latitude, longitude)
	if err != nil {
		return ContactWindow{}, err
	}
	if local.Coverage <= 0 {
		return ContactWindow{}, ErrNoCoverage
	}

	coverageAt := func(t time.Time) (float64, error) {
		sep, err := eph.SeparationRadians(t, latitude, longitude)
		if err != nil {
			return 0, err
		}
		return overlapPercent(sep, SunRadiusRadians, MoonRadiusRadians), nil
	}

	start := local.Time
	for t, limit := local.Time, local.Time.Add(-contactLimit); t.After(limit); t = t.Add(-contactStep) {
		cov, err := coverageAt(t)
		if err != nil {
			return ContactWindow{}, err
		}
		if cov <= contactThreshold {
			break
		}
		start = t
	}

	end := local.Time
	for t, limit := local.Time, local.Time.Add(contactLimit); t.Before(limit); t = t.Add(contactStep) {
		cov, err := coverageAt(t)
		if err != nil {
			return ContactWindow{}, err
		}
		if cov <= contactThreshold {
			break
		}
		end = t
	}

	return ContactWindow{Start: start, End: end}, nil
}
