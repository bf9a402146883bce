package occult

import (
	"math"
	"time"
)

// Ephemeris yields the apparent angular separation between the Sun and
// the Moon as seen from a point on Earth at a given instant. It wraps
// an external positional model; this package treats it as an opaque
// oracle. Absence of an Ephemeris is a supported degraded mode handled
// by callers, not an error.
type Ephemeris interface {
	SeparationRadians(t time.Time, latitude, longitude float64) (float64, error)
}

// Mean apparent angular radii, not distance-corrected.
const (
	SunRadiusRadians  = (16.0 / 60.0) * (math.Pi / 180.0)
	MoonRadiusRadians = (15.5 / 60.0) * (math.Pi / 180.0)
)
