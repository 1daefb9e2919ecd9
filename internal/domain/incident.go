package domain

import "time"

// Opt is an explicit present/missing wrapper. A zero Opt is missing; values
// only become present through Some. This keeps "no value" distinct from the
// zero value of T until the cleaner substitutes a sentinel.
type Opt[T any] struct {
	value   T
	present bool
}

// Some wraps a present value.
func Some[T any](v T) Opt[T] {
	return Opt[T]{value: v, present: true}
}

// None returns a missing value.
func None[T any]() Opt[T] {
	return Opt[T]{}
}

// Present reports whether a value is held.
func (o Opt[T]) Present() bool { return o.present }

// Value returns the held value and whether it is present.
func (o Opt[T]) Value() (T, bool) { return o.value, o.present }

// Or returns the held value, or fallback when missing.
func (o Opt[T]) Or(fallback T) T {
	if o.present {
		return o.value
	}
	return fallback
}

// Incident is one reported shooting incident after cleaning. Demographic and
// geographic fields that the upstream export leaves blank stay missing here;
// the cleaned tabular view substitutes the sentinels, but the typed record
// preserves the distinction so aggregation can make explicit choices.
type Incident struct {
	IncidentKey string
	OccurDate   Opt[time.Time]
	OccurTime   string
	Borough     string
	Precinct    int
	// Jurisdiction is 0 (patrol), 1 (transit) or 2 (housing) when reported.
	Jurisdiction Opt[int]
	MurderFlag   bool

	PerpAgeGroup Opt[string]
	PerpSex      Opt[string]
	PerpRace     Opt[string]

	VicAgeGroup string
	VicSex      string
	VicRace     string

	Latitude  Opt[float64]
	Longitude Opt[float64]
}

// Year returns the calendar year of the occurrence date, or false when the
// date is missing or never parsed.
func (i Incident) Year() (int, bool) {
	d, ok := i.OccurDate.Value()
	if !ok {
		return 0, false
	}
	return d.Year(), true
}
