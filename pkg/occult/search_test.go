package occult

import (
	"errors"
	"math"
	"testing"
	"time"
)

// stubEphemeris lets tests shape the separation curve directly.
type stubEphemeris struct {
	sep func(t time.Time) float64
	err error
}

func (s *stubEphemeris) SeparationRadians(t time.Time, lat, lon float64) (float64, error) {
	if s.err != nil {
		return 0, s.err
	}
	return s.sep(t), nil
}

// linearDip returns a separation shrinking linearly to zero at peak and
// growing afterward, at rate radiansPerMinute.
func linearDip(peak time.Time, radiansPerMinute float64) func(time.Time) float64 {
	return func(t time.Time) float64 {
		return math.Abs(t.Sub(peak).Minutes()) * radiansPerMinute
	}
}

func TestFindLocalMaximumRefinesToTheMinute(t *testing.T) {
	approx := time.Date(2026, time.August, 12, 17, 0, 0, 0, time.UTC)
	peak := time.Date(2026, time.August, 12, 17, 3, 0, 0, time.UTC)
	eph := &stubEphemeris{sep: linearDip(peak, SunRadiusRadians/10)}

	local, err := FindLocalMaximum(eph, approx, 45.0, 9.0)
	if err != nil {
		t.Fatal(err)
	}
	if !local.Time.Equal(peak) {
		t.Fatalf("expected maximum at %s, got %s", peak, local.Time)
	}
	if local.Coverage <= 0 {
		t.Fatalf("expected positive coverage at the maximum, got %v", local.Coverage)
	}
}

func TestFindLocalMaximumCoverageAtZeroSeparation(t *testing.T) {
	approx := time.Date(2026, time.August, 12, 17, 0, 0, 0, time.UTC)
	eph := &stubEphemeris{sep: linearDip(approx, SunRadiusRadians/10)}

	local, err := FindLocalMaximum(eph, approx, 45.0, 9.0)
	if err != nil {
		t.Fatal(err)
	}
	want := OverlapPercent(0, SunRadiusRadians, MoonRadiusRadians)
	if local.Coverage != want {
		t.Fatalf("coverage at zero separation = %v, want %v", local.Coverage, want)
	}
}

func TestFindLocalMaximumPropagatesEphemerisError(t *testing.T) {
	boom := errors.New("ephemeris offline")
	eph := &stubEphemeris{err: boom}

	_, err := FindLocalMaximum(eph, time.Now().UTC(), 45.0, 9.0)
	if !errors.Is(err, boom) {
		t.Fatalf("expected the ephemeris error to propagate, got %v", err)
	}
}

func TestFindContactTimesBracketsThePartialPhase(t *testing.T) {
	peak := time.Date(2026, time.August, 12, 17, 3, 0, 0, time.UTC)
	// Coverage is total within 30 minutes of the peak, zero outside.
	eph := &stubEphemeris{sep: func(tm time.Time) float64 {
		if math.Abs(tm.Sub(peak).Minutes()) <= 30 {
			return 0
		}
		return 2 * (SunRadiusRadians + MoonRadiusRadians)
	}}

	window, err := FindContactTimes(eph, peak, 45.0, 9.0)
	if err != nil {
		t.Fatal(err)
	}

	wantStart := peak.Add(-30 * time.Minute)
	wantEnd := peak.Add(30 * time.Minute)
	if !window.Start.Equal(wantStart) {
		t.Errorf("start = %s, want %s", window.Start, wantStart)
	}
	if !window.End.Equal(wantEnd) {
		t.Errorf("end = %s, want %s", window.End, wantEnd)
	}
	if got := window.DurationMinutes(); got != 60 {
		t.Errorf("duration = %d minutes, want 60", got)
	}
}

func TestFindContactTimesNoCoverage(t *testing.T) {
	// Separation never gets close enough for any overlap.
	eph := &stubEphemeris{sep: func(time.Time) float64 {
		return 2 * (SunRadiusRadians + MoonRadiusRadians)
	}}

	_, err := FindContactTimes(eph, time.Now().UTC(), 45.0, 9.0)
	if !errors.Is(err, ErrNoCoverage) {
		t.Fatalf("expected ErrNoCoverage, got %v", err)
	}
}

func TestFindContactTimesRespectsSearchLimit(t *testing.T) {
	peak := time.Date(2026, time.August, 12, 17, 0, 0, 0, time.UTC)
	// Coverage stays above the threshold everywhere, so the scan must
	// stop at the 4-hour limit in each direction.
	eph := &stubEphemeris{sep: func(time.Time) float64 { return 0 }}

	window, err := FindContactTimes(eph, peak, 45.0, 9.0)
	if err != nil {
		t.Fatal(err)
	}
	if window.Start.Before(peak.Add(-4 * time.Hour)) {
		t.Errorf("start %s exceeds the backward search limit", window.Start)
	}
	if window.End.After(peak.Add(4 * time.Hour)) {
		t.Errorf("end %s exceeds the forward search limit", window.End)
	}
}
