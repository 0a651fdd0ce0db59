package models

import (
	"fmt"
	"math"
	"time"
)

// Observation is one (timestamp, value) pair of a series.
type Observation struct {
	Time  time.Time `json:"time"`
	Value float64   `json:"value"`
}

// Series is an ordered sequence of observations, strictly increasing in time.
type Series []Observation

// Validate checks ordering, duplicate timestamps and finiteness.
func (s Series) Validate() error {
	for i, obs := range s {
		if math.IsNaN(obs.Value) || math.IsInf(obs.Value, 0) {
			return fmt.Errorf("%w: non-finite value at index %d", ErrInvalidSeries, i)
		}
		if i == 0 {
			continue
		}
		prev := s[i-1].Time
		if obs.Time.Equal(prev) {
			return fmt.Errorf("%w: duplicate timestamp %s", ErrInvalidSeries, obs.Time.Format("2006-01-02"))
		}
		if obs.Time.Before(prev) {
			return fmt.Errorf("%w: timestamp %s precedes %s", ErrInvalidSeries, obs.Time.Format("2006-01-02"), prev.Format("2006-01-02"))
		}
	}
	return nil
}

// Values returns a fresh copy of the observation values.
func (s Series) Values() []float64 {
	values := make([]float64, len(s))
	for i, obs := range s {
		values[i] = obs.Value
	}
	return values
}

// Len returns the number of observations.
func (s Series) Len() int {
	return len(s)
}

// Start returns the first timestamp, or the zero time for an empty series.
func (s Series) Start() time.Time {
	if len(s) == 0 {
		return time.Time{}
	}
	return s[0].Time
}

// End returns the last timestamp, or the zero time for an empty series.
func (s Series) End() time.Time {
	if len(s) == 0 {
		return time.Time{}
	}
	return s[len(s)-1].Time
}
