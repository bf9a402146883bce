package occult

import (
	"math"
	"testing"
)

func TestOverlapPercentFullContainment(t *testing.T) {
	cases := []struct {
		name string
		R, r float64
	}{
		{"moon smaller", SunRadiusRadians, MoonRadiusRadians},
		{"moon larger", SunRadiusRadians, SunRadiusRadians * 1.2},
		{"tiny moon", SunRadiusRadians, SunRadiusRadians / 10},
	}

	for _, tc := range cases {
		m := math.Min(tc.R, tc.r)
		want := math.Round(100*m*m/(tc.R*tc.R)*10) / 10
		got := OverlapPercent(0, tc.R, tc.r)
		if got != want {
			t.Errorf("%s: OverlapPercent(0, R, r) = %v, want %v", tc.name, got, want)
		}
	}
}

func TestOverlapPercentDisjoint(t *testing.T) {
	R, r := SunRadiusRadians, MoonRadiusRadians
	if got := OverlapPercent(R+r, R, r); got != 0 {
		t.Fatalf("expected 0%% at touching distance, got %v", got)
	}
	if got := OverlapPercent(2*(R+r), R, r); got != 0 {
		t.Fatalf("expected 0%% beyond touching distance, got %v", got)
	}
}

func TestOverlapPercentMonotonicInSeparation(t *testing.T) {
	R, r := SunRadiusRadians, MoonRadiusRadians
	prev := math.Inf(1)
	for i := 0; i <= 200; i++ {
		sep := float64(i) / 200 * (R + r)
		cov := OverlapPercent(sep, R, r)
		if cov > prev {
			t.Fatalf("coverage increased with separation: %v -> %v at sep %v", prev, cov, sep)
		}
		if cov < 0 || cov > 100 {
			t.Fatalf("coverage out of range at sep %v: %v", sep, cov)
		}
		prev = cov
	}
}

func TestOverlapPercentPartialIsBetweenExtremes(t *testing.T) {
	R, r := SunRadiusRadians, MoonRadiusRadians
	full := OverlapPercent(0, R, r)
	mid := OverlapPercent((R+r)/2, R, r)
	if mid <= 0 || mid >= full {
		t.Fatalf("partial overlap %v should sit strictly between 0 and %v", mid, full)
	}
}

func TestOverlapPercentRounding(t *testing.T) {
	got := OverlapPercent(0, SunRadiusRadians, MoonRadiusRadians)
	if got != math.Round(got*10)/10 {
		t.Fatalf("result not rounded to one decimal: %v", got)
	}
}
