// ABOUTME: Tests for rowing split math and the authority resolver.
// ABOUTME: Covers the 25:30 / 5000m scenario, round trips, and degenerate input.
package rowing

import (
	"errors"
	"math"
	"testing"

	"github.com/harperreed/dailylog/internal/models"
)

func TestParseSplit(t *testing.T) {
	tests := []struct {
		in     string
		want   float64
		wantOK bool
	}{
		{"2:33", 153, true},
		{"2:33.00", 153, true},
		{"1:59.5", 119.5, true},
		{"1:45.125", 105.125, true},
		{"10:00", 600, true},
		{"0:00", 0, false},
		{"2:60", 0, false},
		{"2:5", 0, false},
		{"abc", 0, false},
		{"", 0, false},
		{"2:33.1234", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseSplit(tt.in)
			if ok != tt.wantOK {
				t.Fatalf("ParseSplit(%q) ok = %v, want %v", tt.in, ok, tt.wantOK)
			}
			if ok && math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("ParseSplit(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestFormatSplit(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{153, "2:33.00"},
		{119.996, "2:00.00"},
		{105.125, "1:45.13"},
		{59.99, "0:59.99"},
	}

	for _, tt := range tests {
		if got := FormatSplit(tt.in); got != tt.want {
			t.Errorf("FormatSplit(%v) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestScenarioTwentyFiveThirtyFiveK(t *testing.T) {
	split, ok, err := SplitFromMeters(5000, 25.5)
	if err != nil || !ok {
		t.Fatalf("SplitFromMeters failed: ok=%v err=%v", ok, err)
	}
	if split != "2:33.00" {
		t.Errorf("split = %s, want 2:33.00", split)
	}

	meters, ok, err := MetersFromSplit(split, 25.5)
	if err != nil || !ok {
		t.Fatalf("MetersFromSplit failed: ok=%v err=%v", ok, err)
	}
	if meters != 5000 {
		t.Errorf("meters = %v, want 5000", meters)
	}
}

func TestRoundTripWithinOneMeter(t *testing.T) {
	durations := []float64{4, 7.5, 20, 25.5, 30.25, 45, 60, 90}
	distances := []float64{1000, 1234, 2000, 5000, 6000, 7777, 10000, 15000}

	checked := 0
	for _, d := range durations {
		for _, m := range distances {
			// The split keeps hundredths of a second, so the round trip is only
			// within a meter while the split is long enough for that rounding
			// to be small. 1:20 to 5:00 per 500m covers every rowable pace;
			// TestSplitPrecisionLimit shows where the bound fails.
			if pace := d * 60 / m * SplitDistance; pace < 80 || pace > 300 {
				continue
			}
			checked++
			split, ok, err := SplitFromMeters(m, d)
			if err != nil || !ok {
				t.Fatalf("SplitFromMeters(%v, %v) failed: ok=%v err=%v", m, d, ok, err)
			}
			got, ok, err := MetersFromSplit(split, d)
			if err != nil || !ok {
				t.Fatalf("MetersFromSplit(%s, %v) failed: ok=%v err=%v", split, d, ok, err)
			}
			if math.Abs(got-m) > 1 {
				t.Errorf("round trip %vm over %vmin via %s = %vm", m, d, split, got)
			}
		}
	}
	if checked < 10 {
		t.Fatalf("only %d realistic cases checked", checked)
	}
}

func TestSplitPrecisionLimit(t *testing.T) {
	// 77777m in one minute is a 0.386s split, stored as 0:00.39.
	split, ok, err := SplitFromMeters(77777, 1)
	if err != nil || !ok {
		t.Fatalf("SplitFromMeters failed: ok=%v err=%v", ok, err)
	}
	if split != "0:00.39" {
		t.Fatalf("split = %s, want 0:00.39", split)
	}
	meters, _, err := MetersFromSplit(split, 1)
	if err != nil {
		t.Fatalf("MetersFromSplit failed: %v", err)
	}
	if meters != 76923 {
		t.Errorf("meters = %v, want 76923", meters)
	}
}

func TestDegenerateInputs(t *testing.T) {
	if _, ok, err := MetersFromSplit("2:00", 0); ok || err != nil {
		t.Errorf("zero duration: ok=%v err=%v", ok, err)
	}
	if _, ok, err := MetersFromSplit("fast", 20); ok || err != nil {
		t.Errorf("bad split: ok=%v err=%v", ok, err)
	}
	if _, ok, err := SplitFromMeters(0, 20); ok || err != nil {
		t.Errorf("zero meters: ok=%v err=%v", ok, err)
	}
	if _, ok, err := SplitFromMeters(-100, 20); ok || err != nil {
		t.Errorf("negative meters: ok=%v err=%v", ok, err)
	}
	if _, ok, err := SplitFromMeters(2000, -1); ok || err != nil {
		t.Errorf("negative duration: ok=%v err=%v", ok, err)
	}
}

func TestNaNIsComputationFailure(t *testing.T) {
	if _, _, err := MetersFromSplit("2:00", math.NaN()); !errors.Is(err, models.ErrComputation) {
		t.Errorf("MetersFromSplit(NaN) error = %v", err)
	}
	if _, _, err := SplitFromMeters(math.NaN(), 20); !errors.Is(err, models.ErrComputation) {
		t.Errorf("SplitFromMeters(NaN meters) error = %v", err)
	}
	r := NewResolver(20, nil)
	if err := r.SetDuration(math.Inf(1)); !errors.Is(err, models.ErrComputation) {
		t.Errorf("SetDuration(Inf) error = %v", err)
	}
}

func TestResolverAuthority(t *testing.T) {
	r := NewResolver(25.5, nil)
	if r.Authority() != AuthorityNone {
		t.Fatalf("initial authority = %s, want none", r.Authority())
	}

	if err := r.SetMeters(5000); err != nil {
		t.Fatalf("SetMeters failed: %v", err)
	}
	if split, _ := r.Split(); split != "2:33.00" {
		t.Errorf("split = %s, want 2:33.00", split)
	}

	// Distance stays authoritative: a duration change re-derives the split.
	if err := r.SetDuration(20); err != nil {
		t.Fatalf("SetDuration failed: %v", err)
	}
	if m, _ := r.Meters(); m != 5000 {
		t.Errorf("meters = %v, want 5000", m)
	}
	if split, _ := r.Split(); split != "2:00.00" {
		t.Errorf("split = %s, want 2:00.00", split)
	}

	// Editing the split flips authority: distance follows.
	if err := r.SetSplit("2:30.00"); err != nil {
		t.Fatalf("SetSplit failed: %v", err)
	}
	if r.Authority() != AuthoritySplit {
		t.Errorf("authority = %s, want split", r.Authority())
	}
	if m, _ := r.Meters(); m != 4000 {
		t.Errorf("meters = %v, want 4000", m)
	}
	if err := r.SetDuration(30); err != nil {
		t.Fatalf("SetDuration failed: %v", err)
	}
	if m, _ := r.Meters(); m != 6000 {
		t.Errorf("meters = %v, want 6000", m)
	}
}

func TestResolverUnresolvedIsUnknown(t *testing.T) {
	r := NewResolver(0, nil)
	if err := r.SetMeters(2000); err != nil {
		t.Fatalf("SetMeters failed: %v", err)
	}
	if _, ok := r.Split(); ok {
		t.Error("expected split to be unknown with zero duration")
	}

	if err := r.SetSplit("nonsense"); err != nil {
		t.Fatalf("SetSplit failed: %v", err)
	}
	if _, ok := r.Meters(); ok {
		t.Error("expected meters to be unknown for an unparsable split")
	}
}

func TestResolve(t *testing.T) {
	meters := 5000.0
	hr := 150

	got, err := Resolve(25.5, &models.RowingDetails{RowingMeters: &meters, HeartRate: &hr})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if got.RowingSplit != "2:33.00" {
		t.Errorf("split = %s, want 2:33.00", got.RowingSplit)
	}
	if got.HeartRate == nil || *got.HeartRate != 150 {
		t.Error("expected heart rate to be preserved")
	}

	got, err = Resolve(25.5, &models.RowingDetails{RowingSplit: "2:33"})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if got.RowingMeters == nil || *got.RowingMeters != 5000 {
		t.Errorf("meters = %v, want 5000", got.RowingMeters)
	}

	// Both present: kept as supplied.
	stale := 1.0
	got, err = Resolve(25.5, &models.RowingDetails{RowingMeters: &stale, RowingSplit: "2:33.00"})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if *got.RowingMeters != 1 || got.RowingSplit != "2:33.00" {
		t.Errorf("expected both fields unchanged, got %+v", got)
	}
}
