// ABOUTME: Conversion between fractional-minute durations and min/sec/ms components.
// ABOUTME: Works in whole milliseconds so compose/decompose round-trips exactly.
package duration

import (
	"fmt"
	"math"

	"github.com/harperreed/dailylog/internal/models"
)

const (
	msPerSecond = 1000
	msPerMinute = 60 * msPerSecond
)

// Components is a duration split into display fields.
type Components struct {
	Minutes      int
	Seconds      int
	Milliseconds int
}

func (c Components) String() string {
	if c.Milliseconds == 0 {
		return fmt.Sprintf("%d:%02d", c.Minutes, c.Seconds)
	}
	return fmt.Sprintf("%d:%02d.%03d", c.Minutes, c.Seconds, c.Milliseconds)
}

// Compose returns min + sec/60 + ms/60000.
func Compose(minutes, seconds, milliseconds int) (float64, error) {
	switch {
	case minutes < 0:
		return 0, &models.ComputationError{Field: "minutes", Value: float64(minutes), Reason: "negative"}
	case seconds < 0 || seconds > 59:
		return 0, &models.ComputationError{Field: "seconds", Value: float64(seconds), Reason: "outside 0-59"}
	case milliseconds < 0 || milliseconds > 999:
		return 0, &models.ComputationError{Field: "milliseconds", Value: float64(milliseconds), Reason: "outside 0-999"}
	}
	return float64(minutes) + float64(seconds)/60 + float64(milliseconds)/60000, nil
}

// Decompose splits a fractional-minute value into minutes, seconds and milliseconds.
// The value is first rounded to the nearest millisecond, so sub-millisecond float
// error never surfaces as 59 seconds plus 999 milliseconds.
func Decompose(value float64) (Components, error) {
	if err := models.CheckAmount("duration_minutes", value); err != nil {
		return Components{}, err
	}
	total := int64(math.Round(value * msPerMinute))
	return Components{
		Minutes:      int(total / msPerMinute),
		Seconds:      int(total % msPerMinute / msPerSecond),
		Milliseconds: int(total % msPerSecond),
	}, nil
}

// Seconds returns the duration in seconds.
func Seconds(value float64) float64 {
	return value * 60
}
