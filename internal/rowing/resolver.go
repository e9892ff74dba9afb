// ABOUTME: Two-state authority machine deriving rowing distance or split from the other.
// ABOUTME: Only the non-authoritative field is recomputed when duration or input changes.
package rowing

import (
	"github.com/harperreed/dailylog/internal/models"
)

// Authority names the field most recently supplied by the caller.
type Authority int

const (
	// AuthorityNone means no field has been edited; nothing is derived.
	AuthorityNone Authority = iota
	// AuthorityDistance derives the split from rowing meters.
	AuthorityDistance
	// AuthoritySplit derives rowing meters from the split.
	AuthoritySplit
)

func (a Authority) String() string {
	switch a {
	case AuthorityDistance:
		return "distance"
	case AuthoritySplit:
		return "split"
	default:
		return "none"
	}
}

// Resolver tracks a rowing workout being composed.
type Resolver struct {
	authority Authority
	duration  float64
	meters    *float64
	split     string
	heartRate *int
}

// NewResolver seeds a resolver from existing details without marking either field authoritative.
func NewResolver(durationMinutes float64, d *models.RowingDetails) *Resolver {
	r := &Resolver{duration: durationMinutes}
	if d != nil {
		if d.RowingMeters != nil {
			m := *d.RowingMeters
			r.meters = &m
		}
		r.split = d.RowingSplit
		if d.HeartRate != nil {
			hr := *d.HeartRate
			r.heartRate = &hr
		}
	}
	return r
}

// Authority returns which field currently drives the other.
func (r *Resolver) Authority() Authority {
	return r.authority
}

// SetDuration changes the duration and re-derives the non-authoritative field.
func (r *Resolver) SetDuration(durationMinutes float64) error {
	if err := models.CheckFinite("duration_minutes", durationMinutes); err != nil {
		return err
	}
	r.duration = durationMinutes
	return r.recompute()
}

// SetMeters makes distance authoritative and derives the split.
func (r *Resolver) SetMeters(meters float64) error {
	if err := models.CheckFinite("rowing_meters", meters); err != nil {
		return err
	}
	r.meters = &meters
	r.authority = AuthorityDistance
	return r.recompute()
}

// SetSplit makes the split authoritative and derives the distance.
func (r *Resolver) SetSplit(split string) error {
	r.split = split
	r.authority = AuthoritySplit
	return r.recompute()
}

// Meters returns the current distance, if known.
func (r *Resolver) Meters() (float64, bool) {
	if r.meters == nil {
		return 0, false
	}
	return *r.meters, true
}

// Split returns the current split, if known.
func (r *Resolver) Split() (string, bool) {
	return r.split, r.split != ""
}

// Details returns the resolved rowing details.
func (r *Resolver) Details() *models.RowingDetails {
	d := &models.RowingDetails{RowingSplit: r.split}
	if r.meters != nil {
		m := *r.meters
		d.RowingMeters = &m
	}
	if r.heartRate != nil {
		hr := *r.heartRate
		d.HeartRate = &hr
	}
	return d
}

func (r *Resolver) recompute() error {
	switch r.authority {
	case AuthorityDistance:
		r.split = ""
		if r.meters == nil {
			return nil
		}
		split, ok, err := SplitFromMeters(*r.meters, r.duration)
		if err != nil {
			return err
		}
		if ok {
			r.split = split
		}
	case AuthoritySplit:
		r.meters = nil
		meters, ok, err := MetersFromSplit(r.split, r.duration)
		if err != nil {
			return err
		}
		if ok {
			r.meters = &meters
		}
	}
	return nil
}

// Resolve fills in whichever of distance or split is missing from d.
// With exactly one field present that field is authoritative. When both are
// present no authority is known, so the details are returned unchanged.
func Resolve(durationMinutes float64, d *models.RowingDetails) (*models.RowingDetails, error) {
	r := NewResolver(durationMinutes, d)
	if d == nil {
		return r.Details(), nil
	}
	hasMeters := d.RowingMeters != nil
	hasSplit := d.RowingSplit != ""

	var err error
	switch {
	case hasMeters && !hasSplit:
		err = r.SetMeters(*d.RowingMeters)
	case hasSplit && !hasMeters:
		err = r.SetSplit(d.RowingSplit)
	}
	if err != nil {
		return nil, err
	}
	return r.Details(), nil
}
