// Package occult computes solar occlusion figures: how much of the
// Sun's apparent disk the Moon covers for an observer, when that
// coverage peaks, and when the partial phase begins and ends.
package occult

import "math"

// OverlapPercent returns the percentage of a disk of radius sunRadius
// obscured by a disk of radius moonRadius whose centers sit separation
// apart. All three arguments are angular measures in radians. The
// percentage is always relative to the Sun's disk area, and the result
// is rounded to one decimal place. Inputs must be finite; callers
// guard.
func OverlapPercent(separation, sunRadius, moonRadius float64) float64 {
	return round1(overlapPercent(separation, sunRadius, moonRadius))
}

// overlapPercent is the unrounded lens-area computation. The contact
// scan compares raw values against its threshold, so it bypasses the
// presentation rounding.
func overlapPercent(separation, sunRadius, moonRadius float64) float64 {
	d, R, r := separation, sunRadius, moonRadius
	if d >= R+r {
		return 0
	}
	if d <= math.Abs(R-r) {
		m := math.Min(R, r)
		return 100 * m * m / (R * R)
	}
	alpha := 2 * math.Acos(clamp((d*d+R*R-r*r)/(2*d*R)))
	beta := 2 * math.Acos(clamp((d*d+r*r-R*R)/(2*d*r)))
	area := 0.5 * (R*R*(alpha-math.Sin(alpha)) + r*r*(beta-math.Sin(beta)))
	return 100 * area / (math.Pi * R * R)
}

// clamp keeps acos arguments in [-1, 1] against floating-point
// overshoot.
func clamp(x float64) float64 {
	if x < -1 {
		return -1
	}
	if x > 1 {
		return 1
	}
	return x
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}
