// ABOUTME: Type-specific workout details variants and their JSON/YAML codecs.
// ABOUTME: The details object is decoded into the variant selected by the workout type.
package models

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Details is the closed set of workout detail variants.
type Details interface {
	// Accepts reports whether this variant is valid for a workout of type t.
	Accepts(t WorkoutType) bool
	clone() Details
	validate() error
}

// CardioDetails apply to cardio and hiit workouts.
type CardioDetails struct {
	Distance  *float64 `json:"distance,omitempty" yaml:"distance,omitempty"`
	Pace      string   `json:"pace,omitempty" yaml:"pace,omitempty"`
	HeartRate *int     `json:"heart_rate,omitempty" yaml:"heart_rate,omitempty"`
}

// StrengthDetails apply to strength workouts.
type StrengthDetails struct {
	Sets   *int     `json:"sets,omitempty" yaml:"sets,omitempty"`
	Reps   *int     `json:"reps,omitempty" yaml:"reps,omitempty"`
	Weight *float64 `json:"weight,omitempty" yaml:"weight,omitempty"`
}

// FlexibilityDetails apply to flexibility workouts.
type FlexibilityDetails struct {
	HeartRate *int `json:"heart_rate,omitempty" yaml:"heart_rate,omitempty"`
}

// RowingDetails apply to rowing workouts. RowingSplit is seconds per 500m as "M:SS.ff".
type RowingDetails struct {
	RowingMeters *float64 `json:"rowing_meters,omitempty" yaml:"rowing_meters,omitempty"`
	RowingSplit  string   `json:"rowing_split,omitempty" yaml:"rowing_split,omitempty"`
	HeartRate    *int     `json:"heart_rate,omitempty" yaml:"heart_rate,omitempty"`
}

// hasDetails reports whether d holds a variant. A typed nil pointer holds none.
func hasDetails(d Details) bool {
	switch v := d.(type) {
	case nil:
		return false
	case *CardioDetails:
		return v != nil
	case *StrengthDetails:
		return v != nil
	case *FlexibilityDetails:
		return v != nil
	case *RowingDetails:
		return v != nil
	}
	return true
}

func (d *CardioDetails) Accepts(t WorkoutType) bool {
	return t == WorkoutCardio || t == WorkoutHIIT
}

func (d *StrengthDetails) Accepts(t WorkoutType) bool    { return t == WorkoutStrength }
func (d *FlexibilityDetails) Accepts(t WorkoutType) bool { return t == WorkoutFlexibility }
func (d *RowingDetails) Accepts(t WorkoutType) bool      { return t == WorkoutRowing }

func (d *CardioDetails) clone() Details {
	return &CardioDetails{Distance: cloneFloat(d.Distance), Pace: d.Pace, HeartRate: cloneInt(d.HeartRate)}
}

func (d *StrengthDetails) clone() Details {
	return &StrengthDetails{Sets: cloneInt(d.Sets), Reps: cloneInt(d.Reps), Weight: cloneFloat(d.Weight)}
}

func (d *FlexibilityDetails) clone() Details {
	return &FlexibilityDetails{HeartRate: cloneInt(d.HeartRate)}
}

func (d *RowingDetails) clone() Details {
	return &RowingDetails{
		RowingMeters: cloneFloat(d.RowingMeters),
		RowingSplit:  d.RowingSplit,
		HeartRate:    cloneInt(d.HeartRate),
	}
}

func (d *CardioDetails) validate() error {
	return checkOptionalAmount("details.distance", d.Distance)
}

func (d *StrengthDetails) validate() error {
	return checkOptionalAmount("details.weight", d.Weight)
}

func (d *FlexibilityDetails) validate() error { return nil }

func (d *RowingDetails) validate() error {
	return checkOptionalAmount("details.rowing_meters", d.RowingMeters)
}

// NewDetails returns an empty details variant for the workout type.
func NewDetails(t WorkoutType) (Details, error) {
	switch t {
	case WorkoutCardio, WorkoutHIIT:
		return &CardioDetails{}, nil
	case WorkoutStrength:
		return &StrengthDetails{}, nil
	case WorkoutFlexibility:
		return &FlexibilityDetails{}, nil
	case WorkoutRowing:
		return &RowingDetails{}, nil
	default:
		return nil, fmtTypeError(t)
	}
}

// DecodeDetails decodes a JSON details object for the given workout type.
// Empty input and JSON null decode to nil details.
func DecodeDetails(t WorkoutType, data []byte) (Details, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil, nil
	}
	d, err := NewDetails(t)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(d); err != nil {
		return nil, fmt.Errorf("%w: %s details: %v", ErrDetailsMismatch, t, err)
	}
	return d, nil
}

// EncodeDetails encodes details as JSON; nil details encode as nil.
func EncodeDetails(d Details) ([]byte, error) {
	if d == nil {
		return nil, nil
	}
	return json.Marshal(d)
}

// UnmarshalJSON decodes the details object according to the workout type.
func (w *Workout) UnmarshalJSON(data []byte) error {
	type plain Workout
	var raw struct {
		plain
		Details json.RawMessage `json:"details,omitempty"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*w = Workout(raw.plain)
	d, err := DecodeDetails(w.Type, raw.Details)
	if err != nil {
		return err
	}
	w.Details = d
	return nil
}

// MarshalYAML emits details inline under the "details" key.
func (w Workout) MarshalYAML() (interface{}, error) {
	type plain Workout
	return struct {
		plain   `yaml:",inline"`
		Details Details `yaml:"details,omitempty"`
	}{plain(w), w.Details}, nil
}

// UnmarshalYAML decodes the details mapping according to the workout type.
func (w *Workout) UnmarshalYAML(node *yaml.Node) error {
	type plain Workout
	var raw struct {
		plain   `yaml:",inline"`
		Details yaml.Node `yaml:"details"`
	}
	if err := node.Decode(&raw); err != nil {
		return err
	}
	*w = Workout(raw.plain)
	w.Details = nil
	if raw.Details.Kind == 0 || raw.Details.Tag == "!!null" {
		return nil
	}
	d, err := NewDetails(w.Type)
	if err != nil {
		return err
	}
	if err := raw.Details.Decode(d); err != nil {
		return fmt.Errorf("%w: %s details: %v", ErrDetailsMismatch, w.Type, err)
	}
	w.Details = d
	return nil
}

func fmtTypeError(t WorkoutType) error {
	return fmt.Errorf("%w: %q", ErrUnknownWorkoutType, t)
}

func fmtDetailsError(t WorkoutType, d Details) error {
	return fmt.Errorf("%w: %T on %s workout", ErrDetailsMismatch, d, t)
}
