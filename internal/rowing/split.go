// ABOUTME: Rowing split parsing/formatting and distance<->split conversion.
// ABOUTME: A split is seconds per 500m; degenerate input yields ok=false, never an error.
package rowing

import (
	"fmt"
	"math"
	"regexp"
	"strconv"

	"github.com/harperreed/dailylog/internal/models"
)

// SplitDistance is the distance a split is measured over, in meters.
const SplitDistance = 500.0

var splitPattern = regexp.MustCompile(`^(\d+):([0-5]\d)(?:\.(\d{1,3}))?$`)

// ParseSplit parses "M:SS" or "M:SS.fff" into seconds per 500m.
// It reports false for malformed or zero splits.
func ParseSplit(s string) (float64, bool) {
	m := splitPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	minutes, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	seconds, _ := strconv.Atoi(m[2])
	total := float64(minutes*60 + seconds)
	if m[3] != "" {
		frac, err := strconv.ParseFloat("0."+m[3], 64)
		if err != nil {
			return 0, false
		}
		total += frac
	}
	if total <= 0 {
		return 0, false
	}
	return total, true
}

// FormatSplit renders seconds per 500m as "M:SS.ff".
func FormatSplit(seconds float64) string {
	cs := int64(math.Round(seconds * 100))
	return fmt.Sprintf("%d:%02d.%02d", cs/6000, cs%6000/100, cs%100)
}

// MetersFromSplit computes the distance rowed in durationMinutes at the given split.
func MetersFromSplit(split string, durationMinutes float64) (float64, bool, error) {
	if err := models.CheckFinite("duration_minutes", durationMinutes); err != nil {
		return 0, false, err
	}
	if durationMinutes <= 0 {
		return 0, false, nil
	}
	splitSeconds, ok := ParseSplit(split)
	if !ok {
		return 0, false, nil
	}
	totalSeconds := durationMinutes * 60
	return math.Round(totalSeconds / splitSeconds * SplitDistance), true, nil
}

// SplitFromMeters computes the split for rowing meters in durationMinutes.
func SplitFromMeters(meters, durationMinutes float64) (string, bool, error) {
	if err := models.CheckFinite("duration_minutes", durationMinutes); err != nil {
		return "", false, err
	}
	if err := models.CheckFinite("rowing_meters", meters); err != nil {
		return "", false, err
	}
	if durationMinutes <= 0 || meters <= 0 {
		return "", false, nil
	}
	totalSeconds := durationMinutes * 60
	return FormatSplit(totalSeconds / meters * SplitDistance), true, nil
}
